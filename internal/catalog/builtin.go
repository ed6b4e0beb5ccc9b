package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

const builtinState = "Tamil Nadu"

type builtinCrop struct {
	Name             string
	Category         string
	Suitability      int
	EstimatedYield   string
	HarvestDate      string
	MarketPrice      string
	ExpectedRevenue  string
	SoilRequirements string
	WaterNeeds       string
	Temperature      string
}

// Builtin serves the reference catalog compiled into the binary. Every
// district carries the same crop baselines.
type Builtin struct{}

func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (*Builtin) Name() string { return SourceBuiltin }

func (*Builtin) Districts(context.Context) ([]models.District, error) {
	out := make([]models.District, len(builtinDistricts))
	for i, name := range builtinDistricts {
		out[i] = models.District{ID: Slug(name), Name: name, State: builtinState}
	}
	return out, nil
}

func (*Builtin) Crops(context.Context) ([]models.Crop, error) {
	out := make([]models.Crop, len(builtinCrops))
	for i, c := range builtinCrops {
		out[i] = models.Crop{
			ID:                 Slug(c.Name),
			Name:               c.Name,
			Category:           c.Category,
			GrowthDurationDays: growthDays(c.HarvestDate),
			WaterRequirement:   c.WaterNeeds,
			TemperatureRange:   c.Temperature,
		}
	}
	return out, nil
}

func (*Builtin) Suitability(context.Context) ([]models.Suitability, error) {
	out := make([]models.Suitability, 0, len(builtinDistricts)*len(builtinCrops))
	for _, d := range builtinDistricts {
		for _, c := range builtinCrops {
			districtID, cropID := Slug(d), Slug(c.Name)
			out = append(out, models.Suitability{
				ID:               districtID + "/" + cropID,
				DistrictID:       districtID,
				CropID:           cropID,
				Score:            c.Suitability,
				EstimatedYield:   c.EstimatedYield,
				MarketPrice:      c.MarketPrice,
				ExpectedRevenue:  c.ExpectedRevenue,
				HarvestMonths:    c.HarvestDate,
				SoilRequirements: c.SoilRequirements,
				WaterNeeds:       c.WaterNeeds,
				Temperature:      c.Temperature,
			})
		}
	}
	return out, nil
}

// CultivationSteps returns a generic five-stage growing guide per crop,
// filled in from the crop's own soil, water and harvest notes.
func (*Builtin) CultivationSteps(context.Context) ([]models.CultivationStep, error) {
	out := make([]models.CultivationStep, 0, len(builtinCrops)*5)
	for _, c := range builtinCrops {
		cropID := Slug(c.Name)
		stages := []struct {
			name, desc, tips string
			days             int
		}{
			{
				name: "Land Preparation",
				desc: fmt.Sprintf("Plough the field two or three times and level it. %s suits this crop.", c.SoilRequirements),
				tips: "Test soil pH before sowing and correct it with lime or gypsum.",
				days: 15,
			},
			{
				name: "Sowing and Planting",
				desc: fmt.Sprintf("Use certified seed or healthy planting material of %s suited to the local season.", c.Name),
				tips: "Treat seed with a fungicide or bio-agent before sowing.",
				days: 7,
			},
			{
				name: "Nutrient Management",
				desc: "Apply farmyard manure at land preparation and split the recommended NPK dose across the growth stages.",
				tips: "Base fertilizer doses on a soil test report.",
				days: 30,
			},
			{
				name: "Irrigation and Weed Control",
				desc: fmt.Sprintf("Water needs: %s. Keep the field weed free during the first six weeks.", c.WaterNeeds),
				tips: "Drip irrigation saves water and reduces weed growth.",
				days: 45,
			},
			{
				name: "Harvest",
				desc: fmt.Sprintf("Harvest %s. Expected yield is %s.", strings.ToLower(c.HarvestDate), c.EstimatedYield),
				tips: "Grade the produce before taking it to market.",
				days: 10,
			},
		}
		for i, s := range stages {
			out = append(out, models.CultivationStep{
				ID:           fmt.Sprintf("%s/%d", cropID, i+1),
				CropID:       cropID,
				StepNumber:   i + 1,
				StageName:    s.name,
				Description:  s.desc,
				DurationDays: s.days,
				Tips:         s.tips,
			})
		}
	}
	return out, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a display name into a stable identifier: "Brinjal (Eggplant)"
// becomes "brinjal-eggplant".
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

var durationPattern = regexp.MustCompile(`(\d+)(?:-\d+)?\s*(days|months|years)`)

func growthDays(harvest string) int {
	m := durationPattern.FindStringSubmatch(harvest)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "months":
		return n * 30
	case "years":
		return n * 365
	}
	return n
}
