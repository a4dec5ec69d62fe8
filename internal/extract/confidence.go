package extract

// Extraction status classification.
const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
)

// CompletedThreshold is the aggregate score above which an extraction counts
// as completed.
const CompletedThreshold = 0.7

// Weight maps a confidence label to its ordinal weight. Unrecognised labels
// score as low rather than failing the whole extraction.
func Weight(c Confidence) float64 {
	switch c {
	case ConfidenceHigh:
		return 1.0
	case ConfidenceMedium:
		return 0.6
	default:
		return 0.3
	}
}

// Score reduces per-field confidences to one scalar: the arithmetic mean of
// weights across populated fields. Fields the datasheet was silent on are
// excluded from the mean, not scored as zero; a silent datasheet is not a
// wrong one. Returns the score and the populated-field count.
func Score(fields map[string]Field) (float64, int) {
	var sum float64
	populated := 0
	for _, f := range fields {
		if !f.Populated() {
			continue
		}
		sum += Weight(f.Confidence)
		populated++
	}
	if populated == 0 {
		return 0, 0
	}
	return sum / float64(populated), populated
}

// Status classifies an extraction. Zero populated fields is always partial,
// whatever the formula would say about an empty mean.
func Status(score float64, populated int) string {
	if populated == 0 {
		return StatusPartial
	}
	if score > CompletedThreshold {
		return StatusCompleted
	}
	return StatusPartial
}
