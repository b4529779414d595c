// internal/diagnosis/label.go
package diagnosis

// FeasibilityLabel maps a clamped final score onto the Korean label bands
// shown to users. The bands partition [0, 100] exactly, so every valid score
// gets exactly one label.
func FeasibilityLabel(score int) string {
	switch {
	case score >= 80:
		return "매우 높음"
	case score >= 65:
		return "높음"
	case score >= 50:
		return "보통"
	case score >= 30:
		return "낮음"
	default:
		return "매우 낮음"
	}
}
