package api

import (
	"time"

	"github.com/mr1hm/go-crop-advisor/internal/estimator"
	"github.com/mr1hm/go-crop-advisor/internal/models"
)

type districtResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	State       string  `json:"state"`
	ClimateZone string  `json:"climate_zone,omitempty"`
	SoilType    string  `json:"soil_type,omitempty"`
	AvgRainfall float64 `json:"avg_rainfall,omitempty"`
}

func toDistricts(districts []models.District) []districtResponse {
	out := make([]districtResponse, 0, len(districts))
	for _, d := range districts {
		out = append(out, districtResponse{
			ID:          d.ID,
			Name:        d.Name,
			State:       d.State,
			ClimateZone: d.ClimateZone,
			SoilType:    d.SoilType,
			AvgRainfall: d.AvgRainfall,
		})
	}
	return out
}

type baselineResponse struct {
	DistrictID       string  `json:"district_id"`
	CropID           string  `json:"crop_id"`
	Name             string  `json:"name"`
	Category         string  `json:"category,omitempty"`
	Suitability      int     `json:"suitability"`
	EstimatedYield   string  `json:"estimated_yield"`
	HarvestDate      string  `json:"harvest_date,omitempty"`
	MarketPrice      string  `json:"market_price"`
	ExpectedRevenue  string  `json:"expected_revenue"`
	SoilRequirements string  `json:"soil_requirements,omitempty"`
	WaterNeeds       string  `json:"water_needs,omitempty"`
	Temperature      string  `json:"temperature,omitempty"`
	Score            float64 `json:"score"`
	Malformed        bool    `json:"malformed,omitempty"`
}

func toBaseline(b models.CropBaseline) baselineResponse {
	score, err := estimator.Score(b)
	return baselineResponse{
		DistrictID:       b.DistrictID,
		CropID:           b.CropID,
		Name:             b.Name,
		Category:         b.Category,
		Suitability:      b.Suitability,
		EstimatedYield:   b.EstimatedYield,
		HarvestDate:      b.HarvestDate,
		MarketPrice:      b.MarketPrice,
		ExpectedRevenue:  b.ExpectedRevenue,
		SoilRequirements: b.SoilRequirements,
		WaterNeeds:       b.WaterNeeds,
		Temperature:      b.Temperature,
		Score:            score,
		Malformed:        err != nil,
	}
}

type stepResponse struct {
	Step         int    `json:"step"`
	Stage        string `json:"stage"`
	Description  string `json:"description"`
	DurationDays int    `json:"duration_days"`
	Tips         string `json:"tips,omitempty"`
}

func toSteps(steps []models.CultivationStep) []stepResponse {
	out := make([]stepResponse, 0, len(steps))
	for _, s := range steps {
		out = append(out, stepResponse{
			Step:         s.StepNumber,
			Stage:        s.StageName,
			Description:  s.Description,
			DurationDays: s.DurationDays,
			Tips:         s.Tips,
		})
	}
	return out
}

type domainsResponse struct {
	ConditionsRainfall estimator.Domain `json:"conditions_rainfall"`
	InputsRainfall     estimator.Domain `json:"inputs_rainfall"`
	Temperature        estimator.Domain `json:"temperature"`
	SoilPH             estimator.Domain `json:"soil_ph"`
}

type cropDetailResponse struct {
	Baseline   baselineResponse     `json:"baseline"`
	Conditions estimator.Conditions `json:"default_conditions"`
	Inputs     estimator.Inputs     `json:"default_inputs"`
	Domains    domainsResponse      `json:"domains"`
	Steps      []stepResponse       `json:"steps"`
}

// predictRequest is decoded over the default conditions, so omitted
// fields keep their defaults.
type predictRequest struct {
	District string `json:"district" binding:"required"`
	Crop     string `json:"crop" binding:"required"`
	estimator.Conditions
}

type simulateRequest struct {
	District string `json:"district" binding:"required"`
	Crop     string `json:"crop" binding:"required"`
	estimator.Inputs
}

type compareRequest struct {
	District string   `json:"district" binding:"required"`
	Crops    []string `json:"crops"` // ids or names; empty compares every crop in the district
}

type reportRequest struct {
	District   string               `json:"district" binding:"required"`
	Crop       string               `json:"crop" binding:"required"`
	Conditions estimator.Conditions `json:"conditions"`
	Inputs     estimator.Inputs     `json:"inputs"`
}

type eventResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Source    string    `json:"source"`
	Districts int       `json:"districts"`
	Crops     int       `json:"crops"`
	Baselines int       `json:"baselines"`
	Steps     int       `json:"steps"`
	Changed   int       `json:"changed"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toEvent(e *models.CatalogEvent) eventResponse {
	return eventResponse{
		ID:        e.ID,
		Kind:      string(e.Kind),
		Source:    e.Source,
		Districts: e.Districts,
		Crops:     e.Crops,
		Baselines: e.Baselines,
		Steps:     e.Steps,
		Changed:   e.Changed,
		Error:     e.Error,
		CreatedAt: e.CreatedAt,
	}
}
