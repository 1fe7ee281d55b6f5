package academy

type gradeBand struct {
	min   float64
	grade string
}

// evaluated top-down, lower bound inclusive
var gradeBands = []gradeBand{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
}

// Grade bands a final score.
func Grade(score float64) string {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.grade
		}
	}
	return "D"
}
