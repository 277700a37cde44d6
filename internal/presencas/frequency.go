package presencas

// Band classifies a frequency percentage for the report views.
type Band string

const (
	BandGood     Band = "good"
	BandWarning  Band = "warning"
	BandCritical Band = "critical"
)

// Frequency returns the attendance percentage, rounded half up. A student
// with no recorded classes reads as 0, not as an error.
func Frequency(present, total int) int {
	if total <= 0 {
		return 0
	}
	return (present*100 + total/2) / total
}

// Classify maps a percentage to its band: >=80 good, >=60 warning,
// everything below critical.
func Classify(pct int) Band {
	switch {
	case pct >= 80:
		return BandGood
	case pct >= 60:
		return BandWarning
	default:
		return BandCritical
	}
}
