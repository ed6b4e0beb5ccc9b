package estimator

import (
	"fmt"
	"strings"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

type SweepParameter string

const (
	SweepRainfall    SweepParameter = "rainfall"
	SweepTemperature SweepParameter = "temperature"
)

type sweepRange struct {
	start float64
	step  float64
	count int
	unit  string
}

var sweepRanges = map[SweepParameter]sweepRange{
	SweepRainfall:    {start: 200, step: 100, count: 24, unit: "mm/year"},
	SweepTemperature: {start: 10, step: 1, count: 36, unit: "°C"},
}

func ParseSweepParameter(s string) (SweepParameter, error) {
	p := SweepParameter(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := sweepRanges[p]; !ok {
		return "", fmt.Errorf("%w: sweep parameter %q", ErrUnknownLevel, s)
	}
	return p, nil
}

type Point struct {
	Input float64 `json:"input"`
	Yield float64 `json:"yield"`
}

// Sweep is the agronomic response curve of one parameter with the other
// conditions held fixed.
type Sweep struct {
	Crop      string         `json:"crop"`
	Parameter SweepParameter `json:"parameter"`
	Unit      string         `json:"unit"`
	Fixed     Conditions     `json:"fixed"`
	Points    []Point        `json:"points"`
}

// SweepInputs lists the values a sweep visits, in ascending order.
func SweepInputs(p SweepParameter) ([]float64, error) {
	r, ok := sweepRanges[p]
	if !ok {
		return nil, fmt.Errorf("%w: sweep parameter %q", ErrUnknownLevel, p)
	}
	inputs := make([]float64, r.count)
	for i := range r.count {
		inputs[i] = r.start + float64(i)*r.step
	}
	return inputs, nil
}

// SweepYield evaluates the agronomic model at every point of the swept
// parameter's range, substituting only that parameter in c.
func SweepYield(b models.CropBaseline, c Conditions, p SweepParameter) (Sweep, error) {
	inputs, err := SweepInputs(p)
	if err != nil {
		return Sweep{}, err
	}
	if err := c.Validate(); err != nil {
		return Sweep{}, err
	}
	base, baseErr := BaseYield(b)

	s := Sweep{
		Crop:      b.Name,
		Parameter: p,
		Unit:      sweepRanges[p].unit,
		Fixed:     c,
		Points:    make([]Point, 0, len(inputs)),
	}
	for _, v := range inputs {
		at := c
		switch p {
		case SweepRainfall:
			at.Rainfall = v
		case SweepTemperature:
			at.Temperature = v
		}
		s.Points = append(s.Points, Point{
			Input: v,
			Yield: Round1(base * AdjustmentFactors(at).Product()),
		})
	}
	return s, baseErr
}

func RainfallSweep(b models.CropBaseline, c Conditions) (Sweep, error) {
	return SweepYield(b, c, SweepRainfall)
}

func TemperatureSweep(b models.CropBaseline, c Conditions) (Sweep, error) {
	return SweepYield(b, c, SweepTemperature)
}
