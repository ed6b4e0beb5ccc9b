package estimator

import (
	"fmt"
	"strings"
)

// levelTerms is what a management level contributes to the economic model.
type levelTerms struct {
	name       string
	multiplier float64
	cost       float64 // per hectare
}

type FertilizerLevel int

const (
	FertilizerLow FertilizerLevel = iota + 1
	FertilizerMedium
	FertilizerHigh
)

var fertilizerTerms = map[FertilizerLevel]levelTerms{
	FertilizerLow:    {name: "low", multiplier: 0.8, cost: 15000},
	FertilizerMedium: {name: "medium", multiplier: 1.0, cost: 25000},
	FertilizerHigh:   {name: "high", multiplier: 1.2, cost: 40000},
}

var FertilizerLevels = []FertilizerLevel{FertilizerLow, FertilizerMedium, FertilizerHigh}

func (l FertilizerLevel) terms() (levelTerms, error) {
	t, ok := fertilizerTerms[l]
	if !ok {
		return levelTerms{}, fmt.Errorf("%w: fertilizer level %d", ErrUnknownLevel, int(l))
	}
	return t, nil
}

func (l FertilizerLevel) String() string {
	if t, err := l.terms(); err == nil {
		return t.name
	}
	return fmt.Sprintf("FertilizerLevel(%d)", int(l))
}

func (l FertilizerLevel) Multiplier() float64 {
	t, _ := l.terms()
	return t.multiplier
}

func (l FertilizerLevel) Cost() float64 {
	t, _ := l.terms()
	return t.cost
}

func ParseFertilizerLevel(s string) (FertilizerLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, l := range FertilizerLevels {
		if fertilizerTerms[l].name == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: fertilizer level %q", ErrUnknownLevel, s)
}

func (l FertilizerLevel) MarshalText() ([]byte, error) {
	t, err := l.terms()
	if err != nil {
		return nil, err
	}
	return []byte(t.name), nil
}

func (l *FertilizerLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseFertilizerLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

type TechnologyLevel int

const (
	TechnologyBasic TechnologyLevel = iota + 1
	TechnologyModerate
	TechnologyAdvanced
)

var technologyTerms = map[TechnologyLevel]levelTerms{
	TechnologyBasic:    {name: "basic", multiplier: 0.85, cost: 5000},
	TechnologyModerate: {name: "moderate", multiplier: 1.0, cost: 10000},
	TechnologyAdvanced: {name: "advanced", multiplier: 1.15, cost: 20000},
}

var TechnologyLevels = []TechnologyLevel{TechnologyBasic, TechnologyModerate, TechnologyAdvanced}

func (l TechnologyLevel) terms() (levelTerms, error) {
	t, ok := technologyTerms[l]
	if !ok {
		return levelTerms{}, fmt.Errorf("%w: technology level %d", ErrUnknownLevel, int(l))
	}
	return t, nil
}

func (l TechnologyLevel) String() string {
	if t, err := l.terms(); err == nil {
		return t.name
	}
	return fmt.Sprintf("TechnologyLevel(%d)", int(l))
}

func (l TechnologyLevel) Multiplier() float64 {
	t, _ := l.terms()
	return t.multiplier
}

func (l TechnologyLevel) Cost() float64 {
	t, _ := l.terms()
	return t.cost
}

func ParseTechnologyLevel(s string) (TechnologyLevel, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, l := range TechnologyLevels {
		if technologyTerms[l].name == name {
			return l, nil
		}
	}
	return 0, fmt.Errorf("%w: technology level %q", ErrUnknownLevel, s)
}

func (l TechnologyLevel) MarshalText() ([]byte, error) {
	t, err := l.terms()
	if err != nil {
		return nil, err
	}
	return []byte(t.name), nil
}

func (l *TechnologyLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseTechnologyLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
