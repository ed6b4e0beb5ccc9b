package estimator

import (
	"fmt"
	"math"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

const (
	OptimalTemperature = 25.0
	OptimalSoilPH      = 6.5
)

type Status string

const (
	StatusOptimal    Status = "optimal conditions"
	StatusGood       Status = "good conditions"
	StatusSuboptimal Status = "suboptimal conditions"
)

// Factors holds the individual multiplicative penalties. Each is <= 1.
type Factors struct {
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
	SoilPH      float64 `json:"soil_ph"`
}

func (f Factors) Product() float64 {
	return f.Rainfall * f.Temperature * f.SoilPH
}

func rainfallFactor(mm float64) float64 {
	switch {
	case mm < 500:
		return 0.70
	case mm > 1200:
		return 0.85
	}
	return 1.0
}

func temperatureFactor(celsius float64) float64 {
	diff := math.Abs(celsius - OptimalTemperature)
	switch {
	case diff > 10:
		return 0.70
	case diff > 5:
		return 0.85
	}
	return 1.0
}

func soilPHFactor(ph float64) float64 {
	diff := math.Abs(ph - OptimalSoilPH)
	switch {
	case diff > 1.5:
		return 0.75
	case diff > 1.0:
		return 0.90
	}
	return 1.0
}

func AdjustmentFactors(c Conditions) Factors {
	return Factors{
		Rainfall:    rainfallFactor(c.Rainfall),
		Temperature: temperatureFactor(c.Temperature),
		SoilPH:      soilPHFactor(c.SoilPH),
	}
}

// Prediction is the agronomic model's output for one crop.
type Prediction struct {
	Crop          string     `json:"crop"`
	Conditions    Conditions `json:"conditions"`
	BaseYield     float64    `json:"base_yield"`
	Factors       Factors    `json:"factors"`
	Adjustment    float64    `json:"adjustment"`
	AdjustedYield float64    `json:"adjusted_yield"`
	DifferencePct float64    `json:"difference_pct"`
	Difference    string     `json:"difference"`
	Status        Status     `json:"status"`
	// SoilTypeModelled is always false: soil type is collected but no
	// multiplier exists for it yet.
	SoilTypeModelled bool `json:"soil_type_modelled"`
}

// Predict applies the agronomic adjustment model to a baseline.
// When the yield text is malformed the prediction is computed from a base
// yield of 0 and returned together with ErrMalformedBaseline.
func Predict(b models.CropBaseline, c Conditions) (Prediction, error) {
	if err := c.Validate(); err != nil {
		return Prediction{}, err
	}
	base, err := BaseYield(b)
	return predictFromBase(b.Name, base, c), err
}

func predictFromBase(crop string, base float64, c Conditions) Prediction {
	f := AdjustmentFactors(c)
	adjustment := f.Product()
	adjusted := Round1(base * adjustment)
	diff, status := classify(base, adjusted)

	return Prediction{
		Crop:          crop,
		Conditions:    c,
		BaseYield:     base,
		Factors:       f,
		Adjustment:    adjustment,
		AdjustedYield: adjusted,
		DifferencePct: diff,
		Difference:    formatDifference(status, diff),
		Status:        status,
	}
}

func classify(base, adjusted float64) (float64, Status) {
	var diff float64
	if base != 0 {
		diff = Round1((adjusted - base) / base * 100)
	}

	switch {
	case adjusted >= base*0.95:
		return diff, StatusOptimal
	case adjusted >= base*0.80:
		return diff, StatusGood
	default:
		return diff, StatusSuboptimal
	}
}

func formatDifference(status Status, diff float64) string {
	if status == StatusOptimal {
		return fmt.Sprintf("%+.1f%%", diff)
	}
	return fmt.Sprintf("%.1f%%", diff)
}
