package domain

// Status de detección derivado del score
const (
	StatusConfirmed   = "confirmed"
	StatusDetected    = "detected"
	StatusMonitoring  = "monitoring"
	StatusNotDetected = "not_detected"
)

// ScoreResult es la salida del scoring: score en [0,100] más las
// evidencias en el orden en que se evaluó cada factor. Inmutable;
// se recalcula completo en cada scan.
type ScoreResult struct {
	Score    float64  `json:"score"`
	Evidence []string `json:"evidence"`
}

// StatusForScore mapea un score al status de detección
func StatusForScore(score, threshold float64) string {
	switch {
	case score == 100:
		return StatusConfirmed
	case score >= threshold:
		return StatusDetected
	case score > 0:
		return StatusMonitoring
	default:
		return StatusNotDetected
	}
}
