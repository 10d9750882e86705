package extractor

import (
	"geodrive-insight/internal/dto"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxBrandHintLen bounds oracle-suggested brands; longer hints are treated as noise.
const maxBrandHintLen = 40

type brandEntry struct {
	Name     string
	Keywords []string
}

// knownBrands is scanned in order; the first keyword hit wins.
var knownBrands = []brandEntry{
	{Name: "Toyota", Keywords: []string{"toyota"}},
	{Name: "Honda", Keywords: []string{"honda"}},
	{Name: "Hyundai", Keywords: []string{"hyundai"}},
	{Name: "Tata", Keywords: []string{"tata"}},
	{Name: "Mahindra", Keywords: []string{"mahindra"}},
	{Name: "Maruti Suzuki", Keywords: []string{"maruti", "suzuki"}},
	{Name: "Kia", Keywords: []string{"kia"}},
	{Name: "BMW", Keywords: []string{"bmw"}},
	{Name: "Audi", Keywords: []string{"audi"}},
	{Name: "Mercedes-Benz", Keywords: []string{"mercedes", "benz"}},
	{Name: "Volkswagen", Keywords: []string{"volkswagen"}},
	{Name: "Skoda", Keywords: []string{"skoda"}},
	{Name: "Renault", Keywords: []string{"renault"}},
	{Name: "Nissan", Keywords: []string{"nissan"}},
	{Name: "Ford", Keywords: []string{"ford"}},
	{Name: "MG", Keywords: []string{"mg motor", "morris garages"}},
	{Name: "Jeep", Keywords: []string{"jeep"}},
	{Name: "Porsche", Keywords: []string{"porsche"}},
	{Name: "Tesla", Keywords: []string{"tesla"}},
	{Name: "Lexus", Keywords: []string{"lexus"}},
	{Name: "Volvo", Keywords: []string{"volvo"}},
	{Name: "Jaguar", Keywords: []string{"jaguar"}},
	{Name: "Land Rover", Keywords: []string{"land rover", "range rover"}},
	{Name: "Citroen", Keywords: []string{"citroen"}},
	{Name: "BYD", Keywords: []string{"byd"}},
}

var unknownBrandHints = map[string]struct{}{
	"":              {},
	"unknown":       {},
	"none":          {},
	"n/a":           {},
	"na":            {},
	"null":          {},
	"nil":           {},
	"other":         {},
	"no brand":      {},
	"not mentioned": {},
	"not specified": {},
}

// KnownBrands returns the canonical names of the built-in vocabulary.
func KnownBrands() []string {
	names := make([]string, 0, len(knownBrands))
	for _, b := range knownBrands {
		names = append(names, b.Name)
	}
	return names
}

// BrandStore is the append-only set of brands learned from oracle hints.
// Iteration follows insertion order so keyword scans stay deterministic.
type BrandStore struct {
	mu    sync.RWMutex
	names []string
	seen  map[string]struct{}
}

func NewBrandStore(seed ...string) *BrandStore {
	s := &BrandStore{seen: make(map[string]struct{})}
	for _, name := range seed {
		s.Add(name)
	}
	return s
}

// Add records a brand and reports whether it was new.
func (s *BrandStore) Add(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s *BrandStore) Brands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *BrandStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

type BrandDetector struct {
	learned *BrandStore
}

func NewBrandDetector(learned *BrandStore) *BrandDetector {
	if learned == nil {
		learned = NewBrandStore()
	}
	return &BrandDetector{learned: learned}
}

// Detect resolves the brand of text. A usable hint always wins over the
// case-insensitive substring scan and is remembered for later scans.
func (d *BrandDetector) Detect(text, hint string) string {
	if name, ok := NormalizeBrand(hint); ok {
		if !isKnownBrand(name) {
			d.learned.Add(name)
		}
		return name
	}

	lower := strings.ToLower(text)
	for _, b := range knownBrands {
		for _, kw := range b.Keywords {
			if strings.Contains(lower, kw) {
				return b.Name
			}
		}
	}

	for _, name := range d.learned.Brands() {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}

	return dto.BrandUnknown
}

// NormalizeBrand canonicalizes a brand hint. It returns false for empty,
// sentinel or oversized hints.
func NormalizeBrand(hint string) (string, bool) {
	hint = strings.Join(strings.Fields(hint), " ")
	hint = strings.Trim(hint, ".,;:!?\"'`")
	key := strings.ToLower(hint)
	if _, unknown := unknownBrandHints[key]; unknown {
		return "", false
	}
	if utf8.RuneCountInString(hint) > maxBrandHintLen {
		return "", false
	}

	for _, b := range knownBrands {
		if strings.ToLower(b.Name) == key {
			return b.Name, true
		}
		for _, kw := range b.Keywords {
			if kw == key {
				return b.Name, true
			}
		}
	}

	return TitleCase(hint), true
}

// TitleCase upper-cases the first letter of every word.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

func isKnownBrand(name string) bool {
	for _, b := range knownBrands {
		if b.Name == name {
			return true
		}
	}
	return false
}
