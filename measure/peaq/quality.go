package peaq

// Quality is a coarse verbal class of an ODG.
type Quality int

const (
	QualityBad Quality = iota
	QualityPoor
	QualitySatisfactory
	QualityGood
	QualityExcellent
)

// String returns the display name of the class.
func (q Quality) String() string {
	switch q {
	case QualityExcellent:
		return "Excellent"
	case QualityGood:
		return "Good"
	case QualitySatisfactory:
		return "Satisfactory"
	case QualityPoor:
		return "Poor"
	default:
		return "Bad"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (q Quality) MarshalText() ([]byte, error) {
	return []byte(q.String()), nil
}

// Classify maps an ODG to a quality class. NaN classifies as Bad.
func Classify(odg float64) Quality {
	switch {
	case odg >= -0.5:
		return QualityExcellent
	case odg >= -1.5:
		return QualityGood
	case odg >= -2.5:
		return QualitySatisfactory
	case odg >= -3.0:
		return QualityPoor
	default:
		return QualityBad
	}
}
