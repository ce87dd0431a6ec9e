package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuybackValue_Deterministic(t *testing.T) {
	// floor(base * multiplier) точно, без округления вверх.
	assert.Equal(t, int64(45000), BuybackValue("Apple", "iPhone 14", "excellent"))
	assert.Equal(t, int64(36000), BuybackValue("Apple", "iPhone 14", "good"))
	assert.Equal(t, int64(27000), BuybackValue("Apple", "iPhone 14", "fair"))
	assert.Equal(t, int64(13500), BuybackValue("Apple", "iPhone 14", "poor"))
}

func TestBuybackValue_StrictlyDecreasingByCondition(t *testing.T) {
	models := [][2]string{
		{"Apple", "iPhone 13"},
		{"Samsung", "Galaxy S23"},
		{"NoName", "Unknown Model"},
	}
	for _, m := range models {
		excellent := BuybackValue(m[0], m[1], "excellent")
		good := BuybackValue(m[0], m[1], "good")
		fair := BuybackValue(m[0], m[1], "fair")
		poor := BuybackValue(m[0], m[1], "poor")

		assert.Greater(t, excellent, good, "%s %s", m[0], m[1])
		assert.Greater(t, good, fair, "%s %s", m[0], m[1])
		assert.Greater(t, fair, poor, "%s %s", m[0], m[1])
	}
}

func TestBuybackValue_UnknownModelGetsNonZeroFloor(t *testing.T) {
	value := BuybackValue("NoName", "Phone 3000", "poor")
	assert.Greater(t, value, int64(0), "незнакомая модель не должна оцениваться в ноль")
}

func TestBuybackValue_CaseInsensitiveLookup(t *testing.T) {
	assert.Equal(t,
		BuybackValue("apple", "iphone 14", "good"),
		BuybackValue("APPLE", "iPhone 14", "good"),
	)
}

func TestRepairEstimate(t *testing.T) {
	assert.Equal(t, int64(3500), RepairEstimate("screen_broken"))
	// Незнакомая поломка получает базовую оценку до диагностики.
	assert.Equal(t, int64(defaultRepairEstimate), RepairEstimate("haunted_by_ghosts"))
}
