package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-crop-advisor/internal/models"
)

func TestLeadingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"45-55 tonnes/hectare", 45},
		{"₹25-35/kg", 25},
		{"1.5-2.5 tonnes/hectare", 1.5},
		{"₹7.5-15 lakhs/hectare", 7.5},
		{"about 3 tonnes", 3},
	}
	for _, tt := range tests {
		got, err := LeadingNumber(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestLeadingNumber_Malformed(t *testing.T) {
	for _, in := range []string{"", "n/a", "₹--/kg"} {
		v, err := LeadingNumber(in)
		assert.ErrorIs(t, err, ErrMalformedBaseline, in)
		assert.Equal(t, 0.0, v)
	}
}

func TestBaseFields(t *testing.T) {
	b := banana()

	y, err := BaseYield(b)
	require.NoError(t, err)
	assert.Equal(t, 50.0, y)

	p, err := BasePrice(b)
	require.NoError(t, err)
	assert.Equal(t, 15.0, p)

	r, err := BaseRevenue(b)
	require.NoError(t, err)
	assert.Equal(t, 7.5, r)

	_, err = BasePrice(models.CropBaseline{Name: "Mystery"})
	assert.ErrorContains(t, err, "market price of Mystery")
}

func TestRound1(t *testing.T) {
	assert.Equal(t, 18.4, Round1(18.375))
	assert.Equal(t, -63.2, Round1(-63.2))
	assert.Equal(t, 0.0, Round1(0.04))
}
