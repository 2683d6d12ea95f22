package domain

// QualityStatus buckets an overall photo score for the upload flow.
type QualityStatus string

const (
	QualityGood QualityStatus = "good"
	QualityWarn QualityStatus = "warn"
	QualityBad  QualityStatus = "bad"
)

// QualityReport is the 0-10 rubric returned by the photo scoring provider.
type QualityReport struct {
	Face       float64       `json:"face"`
	Sharpness  float64       `json:"sharpness"`
	Lighting   float64       `json:"lighting"`
	Background float64       `json:"background"`
	Score      float64       `json:"score"`
	Status     QualityStatus `json:"status"`
}

// QualityStatusFor maps an overall score onto its bucket: good at 7 and
// above, warn from 4, bad below.
func QualityStatusFor(score float64) QualityStatus {
	switch {
	case score >= 7:
		return QualityGood
	case score >= 4:
		return QualityWarn
	default:
		return QualityBad
	}
}
