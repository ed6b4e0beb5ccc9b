package estimator

import (
	"errors"
	"math"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

const (
	BaselineRainfall = 600.0   // mm/year at which rainfall is neutral
	LaborCost        = 30000.0 // per hectare, fixed
	seedCostFactor   = 0.1 * 1000
	kgPerTonne       = 1000.0
)

type CostBreakdown struct {
	Seed       float64 `json:"seed"`
	Fertilizer float64 `json:"fertilizer"`
	Labor      float64 `json:"labor"`
	Technology float64 `json:"technology"`
	Total      float64 `json:"total"`
}

// Projection is the economic model's per-hectare outlook for one crop.
type Projection struct {
	Crop               string        `json:"crop"`
	Inputs             Inputs        `json:"inputs"`
	BaseYield          float64       `json:"base_yield"`
	BasePrice          float64       `json:"base_price"`
	RainfallModifier   float64       `json:"rainfall_modifier"`
	FertilizerModifier float64       `json:"fertilizer_modifier"`
	TechnologyModifier float64       `json:"technology_modifier"`
	ProjectedYield     float64       `json:"projected_yield"`
	Costs              CostBreakdown `json:"costs"`
	Revenue            float64       `json:"revenue"`
	NetProfit          float64       `json:"net_profit"`
	ROI                float64       `json:"roi"`
	ROIDefined         bool          `json:"roi_defined"`
}

func (p Projection) Profitable() bool {
	return p.NetProfit > 0
}

// Simulate runs the economic model. A malformed yield or price string is
// treated as 0 and reported with ErrMalformedBaseline alongside the result.
// It reads yield and price with the same decimal parser as Predict, so
// "0.8-1.2 tonnes/hectare" gives a base yield of 0.8.
func Simulate(b models.CropBaseline, in Inputs) (Projection, error) {
	if err := in.Validate(); err != nil {
		return Projection{}, err
	}
	base, yieldErr := BaseYield(b)
	price, priceErr := BasePrice(b)

	p := project(b.Name, base, price, in)
	return p, errors.Join(yieldErr, priceErr)
}

func project(crop string, base, price float64, in Inputs) Projection {
	fert, tech := in.Fertilizer, in.Technology

	p := Projection{
		Crop:               crop,
		Inputs:             in,
		BaseYield:          base,
		BasePrice:          price,
		RainfallModifier:   in.Rainfall / BaselineRainfall,
		FertilizerModifier: fert.Multiplier(),
		TechnologyModifier: tech.Multiplier(),
	}
	p.ProjectedYield = Round1(base * p.RainfallModifier * p.FertilizerModifier * p.TechnologyModifier)

	p.Costs = CostBreakdown{
		Seed:       base * seedCostFactor,
		Fertilizer: fert.Cost(),
		Labor:      LaborCost,
		Technology: tech.Cost(),
	}
	p.Costs.Total = p.Costs.Seed + p.Costs.Fertilizer + p.Costs.Labor + p.Costs.Technology

	p.Revenue = p.ProjectedYield * kgPerTonne * price
	p.NetProfit = p.Revenue - p.Costs.Total
	p.ROI, p.ROIDefined = ReturnOnInvestment(p.NetProfit, p.Costs.Total)
	return p
}

// ReturnOnInvestment returns net/cost as a percentage rounded to one
// decimal. It reports false, with a 0 ROI, when cost is zero or either
// value is not finite.
func ReturnOnInvestment(netProfit, totalCost float64) (float64, bool) {
	if totalCost == 0 || math.IsNaN(totalCost) || math.IsInf(totalCost, 0) ||
		math.IsNaN(netProfit) || math.IsInf(netProfit, 0) {
		return 0, false
	}
	return Round1(netProfit / totalCost * 100), true
}
