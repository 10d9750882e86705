package extractor

import (
	"fmt"
	"sync"
	"testing"

	"geodrive-insight/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestBrandDetector_Detect(t *testing.T) {
	tests := []struct {
		name string
		text string
		hint string
		want string
	}{
		{name: "hint wins over keyword scan", text: "My Honda City is great", hint: "Toyota", want: "Toyota"},
		{name: "hint casing is normalized", text: "", hint: "  toyota ", want: "Toyota"},
		{name: "hint matching keyword maps to canonical name", text: "", hint: "suzuki", want: "Maruti Suzuki"},
		{name: "acronym brand keeps vocabulary casing", text: "", hint: "bmw", want: "BMW"},
		{name: "unknown hint falls back to scan", text: "Hyundai mileage is great", hint: "unknown", want: "Hyundai"},
		{name: "n/a hint falls back to scan", text: "Kia design attractive", hint: "N/A", want: "Kia"},
		{name: "scan is case insensitive", text: "TATA build quality good", hint: "", want: "Tata"},
		{name: "first vocabulary hit wins", text: "honda or toyota?", hint: "", want: "Toyota"},
		{name: "no brand", text: "the traffic was terrible today", hint: "", want: dto.BrandUnknown},
		{name: "empty text", text: "", hint: "", want: dto.BrandUnknown},
		{name: "plural matches", text: "Toyotas are reliable", hint: "", want: "Toyota"},
		{name: "concatenated model matches", text: "my HondaCity is great", hint: "", want: "Honda"},
		{name: "no spaces at all", text: "hyundaicreta mileage", hint: "", want: "Hyundai"},
		{name: "substring scan has no word boundary", text: "cannot afford a new car", hint: "", want: "Ford"},
		{name: "possessive still matches", text: "kia's new seltos", hint: "", want: "Kia"},
		{name: "oversized hint ignored", text: "Audi maintenance costly", hint: "this is a very long explanation instead of a brand name", want: "Audi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewBrandDetector(NewBrandStore())
			assert.Equal(t, tt.want, d.Detect(tt.text, tt.hint))
		})
	}
}

func TestBrandDetector_LearnsFromHint(t *testing.T) {
	store := NewBrandStore()
	d := NewBrandDetector(store)

	assert.Equal(t, dto.BrandUnknown, d.Detect("the new vinfast vf7 looks sharp", ""))

	assert.Equal(t, "Vinfast", d.Detect("anything", "vinfast"))
	assert.Equal(t, []string{"Vinfast"}, store.Brands())

	assert.Equal(t, "Vinfast", d.Detect("the new VinFast VF7 looks sharp", ""))
}

func TestBrandDetector_KnownHintIsNotLearned(t *testing.T) {
	store := NewBrandStore()
	d := NewBrandDetector(store)

	d.Detect("", "Toyota")
	assert.Equal(t, 0, store.Len())
}

func TestBrandStore_AddIsIdempotent(t *testing.T) {
	store := NewBrandStore("Vinfast")

	assert.False(t, store.Add("vinfast"))
	assert.False(t, store.Add("  "))
	assert.True(t, store.Add("Ola"))
	assert.Equal(t, []string{"Vinfast", "Ola"}, store.Brands())
}

func TestBrandStore_ConcurrentAdd(t *testing.T) {
	store := NewBrandStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Add(fmt.Sprintf("Brand%d", i%10))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, store.Len())
}

func TestNormalizeBrand(t *testing.T) {
	tests := []struct {
		hint   string
		want   string
		wantOK bool
	}{
		{hint: "mercedes", want: "Mercedes-Benz", wantOK: true},
		{hint: "tata motors", want: "Tata Motors", wantOK: true},
		{hint: "Toyota.", want: "Toyota", wantOK: true},
		{hint: "Unknown", want: "", wantOK: false},
		{hint: "null", want: "", wantOK: false},
		{hint: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			got, ok := NormalizeBrand(tt.hint)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
