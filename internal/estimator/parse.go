package estimator

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

// ErrMalformedBaseline is returned when a baseline text field has no number
// in it. The value used in its place is always 0.
var ErrMalformedBaseline = errors.New("malformed baseline value")

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// LeadingNumber returns the first decimal number found in s:
// "45-55 tonnes/hectare" -> 45, "₹25-35/kg" -> 25, "1.5-2.5" -> 1.5.
func LeadingNumber(s string) (float64, error) {
	m := numberPattern.FindString(s)
	if m == "" {
		return 0, fmt.Errorf("%w: no number in %q", ErrMalformedBaseline, s)
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedBaseline, m)
	}
	return v, nil
}

func BaseYield(b models.CropBaseline) (float64, error) {
	v, err := LeadingNumber(b.EstimatedYield)
	if err != nil {
		return 0, fmt.Errorf("estimated yield of %s: %w", b.Name, err)
	}
	return v, nil
}

func BasePrice(b models.CropBaseline) (float64, error) {
	v, err := LeadingNumber(b.MarketPrice)
	if err != nil {
		return 0, fmt.Errorf("market price of %s: %w", b.Name, err)
	}
	return v, nil
}

// BaseRevenue is the leading number of the expected revenue range, in lakhs.
func BaseRevenue(b models.CropBaseline) (float64, error) {
	v, err := LeadingNumber(b.ExpectedRevenue)
	if err != nil {
		return 0, fmt.Errorf("expected revenue of %s: %w", b.Name, err)
	}
	return v, nil
}

// Round1 rounds half away from zero to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
