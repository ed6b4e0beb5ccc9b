package catalog

import (
	"github.com/guregu/null/v6"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

// Row types mirror the hosted platform's tables. Both the REST gateway
// (json) and Postgres (db) providers decode into them.

type districtRow struct {
	ID          string      `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	State       null.String `json:"state" db:"state"`
	ClimateZone null.String `json:"climate_zone" db:"climate_zone"`
	SoilType    null.String `json:"soil_type" db:"soil_type"`
	AvgRainfall null.Float  `json:"avg_rainfall" db:"avg_rainfall"`
	CreatedAt   null.Time   `json:"created_at" db:"created_at"`
}

func (r districtRow) model() models.District {
	return models.District{
		ID:          r.ID,
		Name:        r.Name,
		State:       r.State.ValueOrZero(),
		ClimateZone: r.ClimateZone.ValueOrZero(),
		SoilType:    r.SoilType.ValueOrZero(),
		AvgRainfall: r.AvgRainfall.ValueOrZero(),
		CreatedAt:   r.CreatedAt.ValueOrZero(),
	}
}

type cropRow struct {
	ID                 string      `json:"id" db:"id"`
	Name               string      `json:"name" db:"name"`
	Category           null.String `json:"category" db:"category"`
	GrowthDurationDays null.Int64  `json:"growth_duration_days" db:"growth_duration_days"`
	WaterRequirement   null.String `json:"water_requirement" db:"water_requirement"`
	TemperatureRange   null.String `json:"temperature_range" db:"temperature_range"`
	CreatedAt          null.Time   `json:"created_at" db:"created_at"`
}

func (r cropRow) model() models.Crop {
	return models.Crop{
		ID:                 r.ID,
		Name:               r.Name,
		Category:           r.Category.ValueOrZero(),
		GrowthDurationDays: int(r.GrowthDurationDays.ValueOrZero()),
		WaterRequirement:   r.WaterRequirement.ValueOrZero(),
		TemperatureRange:   r.TemperatureRange.ValueOrZero(),
		CreatedAt:          r.CreatedAt.ValueOrZero(),
	}
}

type suitabilityRow struct {
	ID               string      `json:"id" db:"id"`
	DistrictID       null.String `json:"district_id" db:"district_id"`
	CropID           null.String `json:"crop_id" db:"crop_id"`
	Score            null.Int64  `json:"suitability_score" db:"suitability_score"`
	EstimatedYield   null.String `json:"estimated_yield" db:"estimated_yield"`
	MarketPrice      null.String `json:"market_price" db:"market_price"`
	ExpectedRevenue  null.String `json:"expected_revenue" db:"expected_revenue"`
	HarvestMonths    null.String `json:"harvest_months" db:"harvest_months"`
	SoilRequirements null.String `json:"soil_requirements" db:"soil_requirements"`
	WaterNeeds       null.String `json:"water_needs" db:"water_needs"`
	Temperature      null.String `json:"temperature" db:"temperature"`
	CreatedAt        null.Time   `json:"created_at" db:"created_at"`
}

func (r suitabilityRow) model() models.Suitability {
	return models.Suitability{
		ID:               r.ID,
		DistrictID:       r.DistrictID.ValueOrZero(),
		CropID:           r.CropID.ValueOrZero(),
		Score:            int(r.Score.ValueOrZero()),
		EstimatedYield:   r.EstimatedYield.ValueOrZero(),
		MarketPrice:      r.MarketPrice.ValueOrZero(),
		ExpectedRevenue:  r.ExpectedRevenue.ValueOrZero(),
		HarvestMonths:    r.HarvestMonths.ValueOrZero(),
		SoilRequirements: r.SoilRequirements.ValueOrZero(),
		WaterNeeds:       r.WaterNeeds.ValueOrZero(),
		Temperature:      r.Temperature.ValueOrZero(),
		CreatedAt:        r.CreatedAt.ValueOrZero(),
	}
}

type stepRow struct {
	ID           string      `json:"id" db:"id"`
	CropID       null.String `json:"crop_id" db:"crop_id"`
	StepNumber   int         `json:"step_number" db:"step_number"`
	StageName    string      `json:"stage_name" db:"stage_name"`
	Description  string      `json:"description" db:"description"`
	DurationDays null.Int64  `json:"duration_days" db:"duration_days"`
	Tips         null.String `json:"tips" db:"tips"`
}

func (r stepRow) model() models.CultivationStep {
	return models.CultivationStep{
		ID:           r.ID,
		CropID:       r.CropID.ValueOrZero(),
		StepNumber:   r.StepNumber,
		StageName:    r.StageName,
		Description:  r.Description,
		DurationDays: int(r.DurationDays.ValueOrZero()),
		Tips:         r.Tips.ValueOrZero(),
	}
}

func mapRows[R any, M any](rows []R, model func(R) M) []M {
	out := make([]M, len(rows))
	for i, r := range rows {
		out[i] = model(r)
	}
	return out
}
