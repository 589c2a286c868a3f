package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundMoney(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{1.234, 1.23},
		{0.125, 0.13},
		{2.375, 2.38},
		{3.15, 3.15},
		{99.999, 100.00},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, RoundMoney(tc.in), 1e-9, "RoundMoney(%v)", tc.in)
	}
}

func TestMoneyEquals(t *testing.T) {
	assert.True(t, MoneyEquals(10.00, 10.004))
	assert.True(t, MoneyEquals(10.004, 10.00))
	assert.False(t, MoneyEquals(10.00, 10.01))
}

func TestRegionForCountry(t *testing.T) {
	region, ok := RegionForCountry("de")
	assert.True(t, ok)
	assert.Equal(t, RegionWesternEurope, region)

	region, ok = RegionForCountry("US")
	assert.True(t, ok)
	assert.Equal(t, RegionNorthAmerica, region)

	_, ok = RegionForCountry("ZZ")
	assert.False(t, ok)

	_, ok = RegionForCountry("")
	assert.False(t, ok)
}
