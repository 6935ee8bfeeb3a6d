// backend/src/utils/math_utils.go
package utils

import "math"

// RoundFloat rounds val to the given number of decimal places.
func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
