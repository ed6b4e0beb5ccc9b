package models

import "time"

type District struct {
	ID          string
	Name        string
	State       string
	ClimateZone string
	SoilType    string
	AvgRainfall float64 // mm/year, 0 when unknown
	CreatedAt   time.Time
}

type Crop struct {
	ID                 string
	Name               string
	Category           string // "vegetable", "cereal", "pulse", "fruit", "flower", "cash"
	GrowthDurationDays int
	WaterRequirement   string
	TemperatureRange   string
	CreatedAt          time.Time
}

// Suitability is one row of the district x crop table as stored by the
// hosted platform. The descriptive columns are free text.
type Suitability struct {
	ID               string
	DistrictID       string
	CropID           string
	Score            int // 0-100
	EstimatedYield   string
	MarketPrice      string
	ExpectedRevenue  string
	HarvestMonths    string
	SoilRequirements string
	WaterNeeds       string
	Temperature      string
	CreatedAt        time.Time
}

// CropBaseline is the read-only reference record the estimator works from:
// a suitability row joined with its crop.
type CropBaseline struct {
	DistrictID       string
	CropID           string
	Name             string
	Category         string
	Suitability      int
	EstimatedYield   string // e.g. "45-55 tonnes/hectare"
	HarvestDate      string
	MarketPrice      string // e.g. "₹25-35/kg"
	ExpectedRevenue  string // e.g. "₹11-19 lakhs/hectare"
	SoilRequirements string
	WaterNeeds       string
	Temperature      string
}

type CultivationStep struct {
	ID           string
	CropID       string
	StepNumber   int
	StageName    string
	Description  string
	DurationDays int
	Tips         string
}
