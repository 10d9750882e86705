package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProposeModelName(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		brand string
		want  string
	}{
		{name: "first two words", text: "Hyundai Creta mileage is poor", brand: "Hyundai", want: "Hyundai Creta"},
		{name: "lowercase is title-cased", text: "tata nexon ev range", brand: "Tata", want: "Tata Nexon"},
		{name: "punctuation stripped", text: "Kia, Seltos!! rocks", brand: "Kia", want: "Kia Seltos"},
		{name: "punctuation only tokens skipped", text: "!!! Honda ... City", brand: "Honda", want: "Honda City"},
		{name: "single word", text: "Toyota", brand: "Toyota", want: "Toyota Model"},
		{name: "empty", text: "   ", brand: "BMW", want: "BMW Model"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProposeModelName(tt.text, tt.brand))
		})
	}
}

func TestBucketFeatures(t *testing.T) {
	counts := BucketFeatures([]string{
		"great mileage and comfortable seats",
		"value for money, good price",
		"engine is smooth",
		"sunroof and touchscreen are nice, good mileage",
	})

	assert.Equal(t, int64(2), counts["mileage"])
	assert.Equal(t, int64(1), counts["comfort"])
	assert.Equal(t, int64(1), counts["price"])
	assert.Equal(t, int64(1), counts["features"])
	_, hasEngine := counts["engine"]
	assert.False(t, hasEngine)
}
