package trackcode

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"repair-service/pkg/constants"
)

func TestGenerator_Uniqueness(t *testing.T) {
	gen, err := NewGenerator(1)
	require.NoError(t, err)

	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		code := gen.Generate(constants.KindRepair)
		_, dup := seen[code]
		require.False(t, dup, "трек-код сгенерирован повторно: %s", code)
		seen[code] = struct{}{}
	}
}

func TestGenerator_PrefixPerKind(t *testing.T) {
	gen, err := NewGenerator(2)
	require.NoError(t, err)

	repairPattern := regexp.MustCompile(`^RMT-[0-9A-Z]{6,}$`)
	buybackPattern := regexp.MustCompile(`^TRD-[0-9A-Z]{6,}$`)

	assert.Regexp(t, repairPattern, gen.Generate(constants.KindRepair))
	assert.Regexp(t, buybackPattern, gen.Generate(constants.KindBuyback))
}

func TestGenerator_KindsNeverCollide(t *testing.T) {
	gen, err := NewGenerator(3)
	require.NoError(t, err)

	// Даже сгенерированные в один момент, коды разных видов различаются
	// за счет префиксов неймспейсов.
	repairCodes := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		repairCodes[gen.Generate(constants.KindRepair)] = struct{}{}
	}
	for i := 0; i < 1000; i++ {
		code := gen.Generate(constants.KindBuyback)
		_, collides := repairCodes[code]
		assert.False(t, collides)
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := KindOf("RMT-ABC123")
	require.True(t, ok)
	assert.Equal(t, constants.KindRepair, kind)

	kind, ok = KindOf("TRD-XYZ789")
	require.True(t, ok)
	assert.Equal(t, constants.KindBuyback, kind)

	_, ok = KindOf("DOES-NOT-EXIST")
	assert.False(t, ok)
}
