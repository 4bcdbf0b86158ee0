package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("maximum score is high confidence", func(t *testing.T) {
		assert.Equal(t, TierHigh, Classify(MaxScore))
	})

	t.Run("zero score is worth reviewing", func(t *testing.T) {
		assert.Equal(t, TierWorthReviewing, Classify(0))
	})

	t.Run("exactly 70 percent falls into the lower tier", func(t *testing.T) {
		// 112/160 is exactly 70%; the cutoff is strict.
		assert.Equal(t, TierPossible, Classify(112))
		assert.Equal(t, TierHigh, Classify(113))
	})

	t.Run("exactly 40 percent falls into the lower tier", func(t *testing.T) {
		// 64/160 is exactly 40%.
		assert.Equal(t, TierWorthReviewing, Classify(64))
		assert.Equal(t, TierPossible, Classify(65))
	})

	t.Run("140 is high confidence", func(t *testing.T) {
		// 140/160 = 87.5%
		assert.Equal(t, TierHigh, Classify(140))
	})
}

func TestClassifyWith(t *testing.T) {
	t.Run("custom cutoffs move the boundaries", func(t *testing.T) {
		tiers := Thresholds{High: 50, Medium: 25}
		assert.Equal(t, TierHigh, ClassifyWith(81, tiers))      // 50.6%
		assert.Equal(t, TierPossible, ClassifyWith(80, tiers))  // exactly 50%
		assert.Equal(t, TierPossible, ClassifyWith(41, tiers))  // 25.6%
		assert.Equal(t, TierWorthReviewing, ClassifyWith(40, tiers)) // exactly 25%
	})

	t.Run("every score maps to exactly one tier", func(t *testing.T) {
		for s := 0; s <= MaxScore; s++ {
			tier := Classify(s)
			assert.Contains(t, []Tier{TierHigh, TierPossible, TierWorthReviewing}, tier)
		}
	})
}

func TestTierConfidence(t *testing.T) {
	t.Run("serialized forms are stable", func(t *testing.T) {
		high := TierHigh.Confidence()
		assert.Equal(t, "High Confidence", high.Level)
		assert.Equal(t, "high", high.Class)
		assert.Equal(t, "🚨", high.Icon)
		assert.Equal(t, "Very likely duplicate - immediate merge candidate", high.Description)

		possible := TierPossible.Confidence()
		assert.Equal(t, "Possible Match", possible.Level)
		assert.Equal(t, "medium", possible.Class)
		assert.Equal(t, "⚠️", possible.Icon)
		assert.Equal(t, "Potential duplicate - agent review recommended", possible.Description)

		review := TierWorthReviewing.Confidence()
		assert.Equal(t, "Worth Reviewing", review.Level)
		assert.Equal(t, "low", review.Class)
		assert.Equal(t, "❓", review.Icon)
		assert.Equal(t, "Some similarity detected - manual investigation needed", review.Description)
	})
}
