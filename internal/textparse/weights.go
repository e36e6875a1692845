package textparse

// Weights holds the confidence tuning for free-text extraction. The
// values are empirical; they are grouped here so call sites can override
// them instead of relying on numbers buried in the parser.
type Weights struct {
	Base             float64
	StructuredPlayer float64
	BothClubs        float64
	OneClub          float64
	TrustedSource    float64
}

func DefaultWeights() Weights {
	return Weights{
		Base:             0.5,
		StructuredPlayer: 0.3,
		BothClubs:        0.2,
		OneClub:          0.1,
		TrustedSource:    0.2,
	}
}

// DefaultMinConfidence gates promotion of a parse into a Transfer.
// Below it the result is filtered, which is not an error.
const DefaultMinConfidence = 0.6

// trustedSourceTags are upstream labels that historically correlate with
// accurate reporting and earn a confidence bonus.
var trustedSourceTags = map[string]struct{}{
	"Top Source": {},
	"Exclusive":  {},
	"Official":   {},
}
