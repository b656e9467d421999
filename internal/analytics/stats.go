package analytics

import (
	"math"
)

// Round rounds a float64 to a specified number of decimal places.
func Round(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// BalanceStats calculates the average and sample standard deviation of a
// slice of nullable amounts. Nil values are ignored.
// Returns (average, standardDeviation).
func BalanceStats(data []*float64) (float64, float64) {
	filtered := []float64{}
	for _, valPtr := range data {
		if valPtr != nil {
			filtered = append(filtered, *valPtr)
		}
	}

	n := len(filtered)
	if n == 0 {
		return 0.0, 0.0
	}

	sum := 0.0
	for _, val := range filtered {
		sum += val
	}
	average := sum / float64(n)

	if n < 2 {
		return Round(average, 4), 0.0
	}

	varianceSum := 0.0
	for _, val := range filtered {
		varianceSum += math.Pow(val-average, 2)
	}
	// Sample standard deviation, denominator (n-1).
	stdDev := math.Sqrt(varianceSum / float64(n-1))

	return Round(average, 4), Round(stdDev, 4)
}
