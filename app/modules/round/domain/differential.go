package rounddomain

// StandardSlope is the slope rating of a course of average difficulty.
const StandardSlope = 113

// Differential normalizes a gross score against course difficulty:
//
//	(gross - rating) * 113 / slope
//
// The result is not rounded. Slope is not validated; a zero slope yields ±Inf or NaN.
func Differential(gross int, rating float64, slope int) float64 {
	return (float64(gross) - rating) * StandardSlope / float64(slope)
}
