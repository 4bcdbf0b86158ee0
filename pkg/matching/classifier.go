package matching

import (
	"github.com/Ramsey-B/aster/pkg/models"
)

// Tier is the business confidence classification of a similarity score.
type Tier string

const (
	TierHigh           Tier = "high"
	TierPossible       Tier = "possible"
	TierWorthReviewing Tier = "worth_reviewing"
)

// Default percentage cutoffs. Both comparisons are strictly greater-than, so a
// score sitting exactly on a cutoff falls into the lower tier.
const (
	DefaultHighThreshold   = 70.0
	DefaultMediumThreshold = 40.0
)

// Thresholds parameterizes the classifier for tenants that tune the cutoffs.
type Thresholds struct {
	High   float64
	Medium float64
}

// DefaultThresholds returns the stock 70/40 cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{High: DefaultHighThreshold, Medium: DefaultMediumThreshold}
}

// Classify maps a similarity score to its tier using the default cutoffs.
func Classify(score int) Tier {
	return ClassifyWith(score, DefaultThresholds())
}

// ClassifyWith maps a similarity score to a tier using the given cutoffs.
// Exhaustive and gap-free: every score lands in exactly one tier.
func ClassifyWith(score int, t Thresholds) Tier {
	percentage := float64(score) / float64(MaxScore) * 100

	if percentage > t.High {
		return TierHigh
	}
	if percentage > t.Medium {
		return TierPossible
	}
	return TierWorthReviewing
}

// confidenceByTier fixes the external string forms at the serialization
// boundary. Downstream UI switches on level and class; do not rename.
var confidenceByTier = map[Tier]models.Confidence{
	TierHigh: {
		Level:       "High Confidence",
		Class:       "high",
		Icon:        "🚨",
		Description: "Very likely duplicate - immediate merge candidate",
	},
	TierPossible: {
		Level:       "Possible Match",
		Class:       "medium",
		Icon:        "⚠️",
		Description: "Potential duplicate - agent review recommended",
	},
	TierWorthReviewing: {
		Level:       "Worth Reviewing",
		Class:       "low",
		Icon:        "❓",
		Description: "Some similarity detected - manual investigation needed",
	},
}

// Confidence returns the serialized confidence object for a tier.
func (t Tier) Confidence() models.Confidence {
	return confidenceByTier[t]
}
