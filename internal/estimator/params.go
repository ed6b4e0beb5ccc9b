package estimator

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrOutOfDomain  = errors.New("parameter out of domain")
	ErrUnknownLevel = errors.New("unknown level")
)

// Domain is an inclusive range of accepted parameter values.
type Domain struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (d Domain) Contains(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= d.Min && v <= d.Max
}

var (
	ConditionsRainfallDomain = Domain{Min: 200, Max: 2500}
	InputsRainfallDomain     = Domain{Min: 200, Max: 1500}
	TemperatureDomain        = Domain{Min: 10, Max: 45}
	SoilPHDomain             = Domain{Min: 4.0, Max: 9.0}
)

func checkDomain(name string, v float64, d Domain) error {
	if d.Contains(v) {
		return nil
	}
	return fmt.Errorf("%w: %s=%v not in [%v, %v]", ErrOutOfDomain, name, v, d.Min, d.Max)
}

type SoilType string

const (
	SoilSandy SoilType = "sandy"
	SoilLoamy SoilType = "loamy"
	SoilClay  SoilType = "clay"
	SoilSilt  SoilType = "silt"
	SoilRed   SoilType = "red"
	SoilBlack SoilType = "black"
)

var SoilTypes = []SoilType{SoilSandy, SoilLoamy, SoilClay, SoilSilt, SoilRed, SoilBlack}

func ParseSoilType(s string) (SoilType, error) {
	st := SoilType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SoilTypes {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: soil type %q", ErrUnknownLevel, s)
}

// Conditions are the environmental inputs of the agronomic model.
// SoilType is recorded but does not change the adjustment.
type Conditions struct {
	Rainfall    float64  `json:"rainfall"`
	Temperature float64  `json:"temperature"`
	SoilType    SoilType `json:"soil_type"`
	SoilPH      float64  `json:"soil_ph"`
}

func DefaultConditions() Conditions {
	return Conditions{
		Rainfall:    700,
		Temperature: 25,
		SoilType:    SoilLoamy,
		SoilPH:      6.5,
	}
}

func (c Conditions) Validate() error {
	if err := checkDomain("rainfall", c.Rainfall, ConditionsRainfallDomain); err != nil {
		return err
	}
	if err := checkDomain("temperature", c.Temperature, TemperatureDomain); err != nil {
		return err
	}
	if err := checkDomain("soil_ph", c.SoilPH, SoilPHDomain); err != nil {
		return err
	}
	if c.SoilType != "" {
		if _, err := ParseSoilType(string(c.SoilType)); err != nil {
			return err
		}
	}
	return nil
}

// Inputs are the management inputs of the economic model.
type Inputs struct {
	Rainfall   float64         `json:"rainfall"`
	Fertilizer FertilizerLevel `json:"fertilizer"`
	Technology TechnologyLevel `json:"technology"`
}

func DefaultInputs() Inputs {
	return Inputs{
		Rainfall:   600,
		Fertilizer: FertilizerMedium,
		Technology: TechnologyModerate,
	}
}

func (in Inputs) Validate() error {
	if err := checkDomain("rainfall", in.Rainfall, InputsRainfallDomain); err != nil {
		return err
	}
	if _, err := in.Fertilizer.terms(); err != nil {
		return err
	}
	if _, err := in.Technology.terms(); err != nil {
		return err
	}
	return nil
}
