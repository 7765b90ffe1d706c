package ingest

import (
	"github.com/pbaille/postcards/internal/classifier"
	"github.com/pbaille/postcards/internal/domain"
	"github.com/pbaille/postcards/internal/gazetteer"
)

// Builder turns spreadsheet rows into cities and letters. City ids are
// assigned in order of first appearance, starting at 1.
type Builder struct {
	gaz         *gazetteer.Gazetteer
	cityIndex   map[string]int64
	cities      []domain.City
	letters     []domain.Letter
	synthesized int
}

// NewBuilder creates an empty Builder resolving places through gaz
func NewBuilder(gaz *gazetteer.Gazetteer) *Builder {
	return &Builder{
		gaz:       gaz,
		cityIndex: make(map[string]int64),
	}
}

// Add records one row and returns the number of letters it produced: one
// per resolvable place, and only one when origin and destination are the
// same city.
func (b *Builder) Add(row Row) int {
	year := ExtractYear(row.Date, row.AltDate)
	labels := classifier.Classify(row.Text)
	excerpt := domain.Excerpt(row.Text)

	added := 0
	seen := make(map[int64]bool, 2)
	for _, raw := range []string{row.Origin, row.Destination} {
		name, ok := gazetteer.Normalize(raw)
		if !ok {
			continue
		}
		cityID := b.cityID(name)
		if seen[cityID] {
			continue
		}
		seen[cityID] = true

		y := year
		b.letters = append(b.letters, domain.Letter{
			ID:        int64(len(b.letters) + 1),
			CityID:    cityID,
			Year:      &y,
			Content:   row.Text,
			Theme:     labels.Theme,
			Sentiment: labels.Sentiment,
			Excerpt:   excerpt,
		})
		added++
	}
	return added
}

func (b *Builder) cityID(name string) int64 {
	key := gazetteer.Key(name)
	if id, ok := b.cityIndex[key]; ok {
		return id
	}

	coords := b.gaz.Resolve(name)
	if coords.Source == gazetteer.SourceSynthesized {
		b.synthesized++
	}

	id := int64(len(b.cities) + 1)
	lat, lon := coords.Lat, coords.Lon
	b.cities = append(b.cities, domain.City{
		ID:        id,
		Name:      name,
		Latitude:  &lat,
		Longitude: &lon,
	})
	b.cityIndex[key] = id
	return id
}

// Synthesized returns how many cities got synthesized coordinates
func (b *Builder) Synthesized() int {
	return b.synthesized
}

// Dataset returns everything added so far with letter counts filled in
func (b *Builder) Dataset() domain.Dataset {
	counts := make(map[int64]int, len(b.cities))
	for _, l := range b.letters {
		counts[l.CityID]++
	}
	cities := make([]domain.City, len(b.cities))
	for i, c := range b.cities {
		c.LetterCount = counts[c.ID]
		cities[i] = c
	}
	return domain.Dataset{Cities: cities, Letters: append([]domain.Letter(nil), b.letters...)}
}
