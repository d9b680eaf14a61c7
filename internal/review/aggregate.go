package review

// Aggregate returns the arithmetic mean of ratings and how many there are.
// No ratings yields (0, 0).
func Aggregate(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), len(ratings)
}
