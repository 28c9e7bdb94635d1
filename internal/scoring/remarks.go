package scoring

// remarkThreshold is the percentage at or above which a sitting earns
// the positive remark. Presentational policy, not a correctness
// contract; the threshold itself is the part tests pin down.
const remarkThreshold = 70.0

const (
	remarkPositive      = "Great work! You are on track."
	remarkEncouragement = "Keep practicing - focus on your weak topics."
)

func remarkFor(percentage float64) string {
	if percentage >= remarkThreshold {
		return remarkPositive
	}
	return remarkEncouragement
}
