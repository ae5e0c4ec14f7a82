package models

import "math"

// RoundMoney arrondit au centime
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToSubunits convertit un montant en plus petite unité (centimes, kobo)
func ToSubunits(v float64) int64 {
	return int64(math.Round(v * 100))
}

func FromSubunits(v int64) float64 {
	return float64(v) / 100
}
