package estimator

import (
	"cmp"
	"errors"
	"slices"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

// Score is the display-ordering weight of a crop:
// suitability*0.4 + (price/100)*0.3 + (yield/10)*0.3.
// Malformed price or yield text contributes 0 and is reported.
func Score(b models.CropBaseline) (float64, error) {
	price, priceErr := BasePrice(b)
	yield, yieldErr := BaseYield(b)
	s := float64(b.Suitability)*0.4 + (price/100)*0.3 + (yield/10)*0.3
	return s, errors.Join(priceErr, yieldErr)
}

type RankedCrop struct {
	Baseline  models.CropBaseline `json:"-"`
	Crop      string              `json:"crop"`
	Score     float64             `json:"score"`
	Malformed bool                `json:"malformed,omitempty"`
}

// TopPicks orders baselines by score, highest first, keeping catalog order
// on ties. n <= 0 returns every crop.
func TopPicks(baselines []models.CropBaseline, n int) []RankedCrop {
	ranked := make([]RankedCrop, 0, len(baselines))
	for _, b := range baselines {
		s, err := Score(b)
		ranked = append(ranked, RankedCrop{
			Baseline:  b,
			Crop:      b.Name,
			Score:     s,
			Malformed: err != nil,
		})
	}

	slices.SortStableFunc(ranked, func(a, b RankedCrop) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
