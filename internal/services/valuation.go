package services

import (
	"math"
	"strings"
)

// Тарифы выкупа: базовая стоимость по бренду+модели и коэффициент за
// состояние. Цены без валюты и без минорных единиц.
const (
	// Стоимость выкупа для незнакомой модели. Не ноль: неизвестная
	// модель все равно получает предметное предложение.
	defaultBuybackBase = 2000

	// Предварительная оценка ремонта до диагностики.
	defaultRepairEstimate = 500
)

var buybackBaseValues = map[string]int64{
	"apple|iphone 14":      45000,
	"apple|iphone 13":      35000,
	"apple|iphone 12":      25000,
	"apple|macbook air m1": 55000,
	"samsung|galaxy s23":   40000,
	"samsung|galaxy s22":   30000,
	"xiaomi|redmi note 12": 12000,
}

var conditionMultipliers = map[string]float64{
	"excellent": 1.0,
	"good":      0.8,
	"fair":      0.6,
	"poor":      0.3,
}

var repairEstimates = map[string]int64{
	"screen_broken":   3500,
	"battery_drain":   1800,
	"water_damage":    4000,
	"charging_port":   1200,
	"speaker_failure": 1000,
}

func valuationKey(brand, model string) string {
	return strings.ToLower(strings.TrimSpace(brand)) + "|" + strings.ToLower(strings.TrimSpace(model))
}

// BuybackValue = floor(base * multiplier). Неизвестная модель падает на
// ненулевую базу, неизвестное состояние оценивается по худшему тарифу.
func BuybackValue(brand, model, condition string) int64 {
	base, ok := buybackBaseValues[valuationKey(brand, model)]
	if !ok {
		base = defaultBuybackBase
	}
	mult, ok := conditionMultipliers[strings.ToLower(condition)]
	if !ok {
		mult = conditionMultipliers["poor"]
	}
	return int64(math.Floor(float64(base) * mult))
}

// RepairEstimate - детерминированная предварительная оценка ремонта.
// Точная сумма определяется после диагностики, здесь только ориентир.
func RepairEstimate(issue string) int64 {
	if v, ok := repairEstimates[strings.ToLower(strings.TrimSpace(issue))]; ok {
		return v
	}
	return defaultRepairEstimate
}
