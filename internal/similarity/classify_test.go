package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score    float64
		category Category
		band     Band
	}{
		{100, CategoryDuplicate, BandHigh},
		{95, CategoryDuplicate, BandHigh},
		{94.99, CategoryReframed, BandMedium},
		{50, CategoryReframed, BandMedium},
		{49.99, CategoryNew, BandLow},
		{0, CategoryNew, BandLow},
		{-5, CategoryNew, BandLow},
		{250, CategoryDuplicate, BandHigh},
		{math.Inf(-1), CategoryNew, BandLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.category, Classify(tt.score), "score %v", tt.score)
		assert.Equal(t, tt.band, BandFor(tt.score), "score %v", tt.score)
		assert.Equal(t, Result{Score: tt.score, Category: tt.category, Band: tt.band}, Evaluate(tt.score))
	}
}
