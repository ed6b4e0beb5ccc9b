// Package comparison ranks a handful of candidate crops for one district
// side by side.
package comparison

import (
	"errors"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mr1hm/go-crop-advisor/internal/estimator"
	"github.com/mr1hm/go-crop-advisor/internal/models"
)

var ErrNoCrops = errors.New("no crops to compare")

const (
	RiskModerateSuitability = "moderate suitability"
	RiskHighWater           = "high water requirement"
	RiskLowRevenue          = "lower revenue potential"
	RiskUnknownRevenue      = "revenue unknown"
	RiskLow                 = "low risk"

	lowRevenueLakhs     = 2.0
	moderateSuitability = 85
)

type Entry struct {
	Crop           string   `json:"crop"`
	Suitability    int      `json:"suitability"`
	Yield          float64  `json:"yield"`
	Revenue        float64  `json:"revenue_lakhs"`
	ProfitScore    float64  `json:"profit_score"`
	PercentOfBest  float64  `json:"percent_of_best"`
	HighestYield   bool     `json:"highest_yield,omitempty"`
	HighestRevenue bool     `json:"highest_revenue,omitempty"`
	Risks          []string `json:"risks"`
	Malformed      bool     `json:"malformed,omitempty"`
}

type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type Result struct {
	Best        string  `json:"best"`
	Ranking     []Entry `json:"ranking"`
	Suitability Summary `json:"suitability"`
	ProfitScore Summary `json:"profit_score"`
}

// ProfitScore is revenue (lakhs/hectare) weighted by suitability, to two
// decimals.
func ProfitScore(b models.CropBaseline) (float64, error) {
	rev, err := estimator.BaseRevenue(b)
	return math.Round(rev*float64(b.Suitability)/100*100) / 100, err
}

// Risks lists the caution flags for a crop, or RiskLow when none apply.
// A crop whose revenue cannot be read is never reported as low risk.
func Risks(b models.CropBaseline) []string {
	var risks []string
	if b.Suitability < moderateSuitability {
		risks = append(risks, RiskModerateSuitability)
	}
	if strings.Contains(b.WaterNeeds, "High") {
		risks = append(risks, RiskHighWater)
	}
	switch rev, err := estimator.BaseRevenue(b); {
	case err != nil:
		risks = append(risks, RiskUnknownRevenue)
	case rev < lowRevenueLakhs:
		risks = append(risks, RiskLowRevenue)
	}
	if len(risks) == 0 {
		return []string{RiskLow}
	}
	return risks
}

// Compare scores every crop and returns them best first. The first crop
// wins a tie for best.
func Compare(crops []models.CropBaseline) (Result, error) {
	if len(crops) == 0 {
		return Result{}, ErrNoCrops
	}

	entries := make([]Entry, len(crops))
	suit := make([]float64, len(crops))
	scores := make([]float64, len(crops))
	yields := make([]float64, len(crops))
	revenues := make([]float64, len(crops))

	var errs []error
	for i, b := range crops {
		score, scoreErr := ProfitScore(b)
		yield, yieldErr := estimator.BaseYield(b)
		rev, _ := estimator.BaseRevenue(b)
		if scoreErr != nil || yieldErr != nil {
			errs = append(errs, scoreErr, yieldErr)
		}

		entries[i] = Entry{
			Crop:        b.Name,
			Suitability: b.Suitability,
			Yield:       yield,
			Revenue:     rev,
			ProfitScore: score,
			Risks:       Risks(b),
			Malformed:   scoreErr != nil || yieldErr != nil,
		}
		suit[i] = float64(b.Suitability)
		scores[i] = score
		yields[i] = yield
		revenues[i] = rev
	}

	bestScore := floats.Max(scores)
	topYield := floats.Max(yields)
	topRevenue := floats.Max(revenues)
	for i := range entries {
		e := &entries[i]
		e.HighestYield = e.Yield == topYield
		e.HighestRevenue = e.Revenue == topRevenue
		if bestScore > 0 {
			e.PercentOfBest = math.Round(e.ProfitScore/bestScore*1000) / 10
		}
	}

	ranking := slices.Clone(entries)
	slices.SortStableFunc(ranking, func(a, b Entry) int {
		switch {
		case a.ProfitScore > b.ProfitScore:
			return -1
		case a.ProfitScore < b.ProfitScore:
			return 1
		}
		return 0
	})

	return Result{
		Best:        ranking[0].Crop,
		Ranking:     ranking,
		Suitability: summarize(suit),
		ProfitScore: summarize(scores),
	}, errors.Join(errs...)
}

func summarize(xs []float64) Summary {
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		std = 0
	}
	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}
