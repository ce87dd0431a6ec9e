// Файл: pkg/trackcode/generator.go
package trackcode

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"

	"repair-service/pkg/constants"
)

// Префиксы разводят коды ремонта и выкупа по разным неймспейсам,
// чтобы коды разных видов не могли совпасть даже теоретически.
const (
	RepairPrefix  = "RMT-"
	BuybackPrefix = "TRD-"
)

// Generator выдает короткие человекочитаемые трек-коды. Никакого I/O:
// генерация обязана работать и тогда, когда удаленное хранилище лежит.
type Generator struct {
	node *snowflake.Node
}

func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации генератора трек-кодов: %w", err)
	}
	return &Generator{node: node}, nil
}

// Generate возвращает код вида RMT-K9X2M41A0: префикс по виду заявки плюс
// base36-представление snowflake ID (время + узел + счетчик), поэтому коды
// уникальны и внутри процесса, и между перезапусками.
func (g *Generator) Generate(kind constants.RequestKind) string {
	suffix := strings.ToUpper(g.node.Generate().Base36())
	return PrefixFor(kind) + suffix
}

func PrefixFor(kind constants.RequestKind) string {
	if kind == constants.KindBuyback {
		return BuybackPrefix
	}
	return RepairPrefix
}

// KindOf определяет вид заявки по префиксу трек-кода.
func KindOf(code string) (constants.RequestKind, bool) {
	switch {
	case strings.HasPrefix(code, RepairPrefix):
		return constants.KindRepair, true
	case strings.HasPrefix(code, BuybackPrefix):
		return constants.KindBuyback, true
	default:
		return "", false
	}
}
