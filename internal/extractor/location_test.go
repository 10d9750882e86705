package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectLocation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCity string
		wantLat  float64
	}{
		{name: "city name", text: "Traffic in Pune is awful for my Creta", wantCity: "Pune", wantLat: 18.5204},
		{name: "alias", text: "Drove from Bangalore yesterday", wantCity: "Bengaluru", wantLat: 12.9716},
		{name: "case insensitive", text: "MUMBAI roads kill suspensions", wantCity: "Mumbai", wantLat: 19.0760},
		{name: "specific city before contained name", text: "service center in navi mumbai", wantCity: "Navi Mumbai", wantLat: 19.0330},
		{name: "first table entry wins", text: "chennai to delhi road trip", wantCity: "Delhi", wantLat: 28.6139},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := DetectLocation(tt.text)
			require.True(t, loc.Found())
			assert.Equal(t, tt.wantCity, loc.City)
			assert.InDelta(t, tt.wantLat, *loc.Latitude, 0.0001)
		})
	}
}

func TestDetectLocation_NotFound(t *testing.T) {
	loc := DetectLocation("Hyundai mileage is great")

	assert.False(t, loc.Found())
	assert.Nil(t, loc.Latitude)
	assert.Nil(t, loc.Longitude)
	assert.Empty(t, loc.City)
}

func TestDetectLocation_ReturnsFreshPointers(t *testing.T) {
	a := DetectLocation("pune")
	b := DetectLocation("pune")

	*a.Latitude = 0
	assert.InDelta(t, 18.5204, *b.Latitude, 0.0001)
}

func TestCityCentroid(t *testing.T) {
	loc, ok := CityCentroid("gurgaon")
	require.True(t, ok)
	assert.Equal(t, "Gurugram", loc.City)

	_, ok = CityCentroid("Atlantis")
	assert.False(t, ok)
}
