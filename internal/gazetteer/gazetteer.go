// Package gazetteer cleans free-text place names and assigns map coordinates.
//
// Names are resolved against a static table of historical place names. Names
// missing from the table receive a synthesized coordinate inside a bounding
// box around the historical territory. The synthesized point is derived from
// a hash of the name, so repeated ingestion runs place the same pin at the
// same spot.
package gazetteer

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/golang/geo/s2"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Source values for Coordinates
const (
	SourceTable       = "table"
	SourceSynthesized = "synthesized"
)

// Coordinates is a resolved map position
type Coordinates struct {
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Source string  `json:"source"`
}

// Bounding box for synthesized coordinates: base point plus offset range.
const (
	baseLat      = 55.0
	latOffsetMin = -10.0
	latOffsetMax = 15.0
	baseLon      = 30.0
	lonOffsetMin = -10.0
	lonOffsetMax = 150.0
)

// sentinels mark illegible or missing place names
var sentinels = map[string]bool{
	"":               true,
	"-":              true,
	"—":              true,
	"?":              true,
	"nan":            true,
	"none":           true,
	"null":           true,
	"неразборчиво":   true,
	"[неразборчиво]": true,
	"неизвестно":     true,
	"не указано":     true,
	"нет":            true,
	"н/д":            true,
	"illegible":      true,
	"unknown":        true,
}

// provinceMarkers flag a name qualified by its province, e.g. "Рязанская губ., Касимов".
// " у." is the abbreviated уезд and must stand as its own word.
var provinceMarkers = []string{
	"губ.", "губерния", "обл.", "область", "уезд", " у.", "province", "gub.",
}

// localityPrefixes are stripped from the start of a name
var localityPrefixes = []string{
	"city of", "village", "settlement", "town of",
	"город", "г.", "село", "с.", "деревня", "дер.", "д.",
	"посёлок", "поселок", "пос.", "п.", "станция", "ст.", "местечко", "м.",
}

// Normalize cleans a raw place name. It returns false when the name is
// missing or marked illegible.
func Normalize(raw string) (string, bool) {
	name := collapseSpaces(norm.NFC.String(raw))
	if isSentinel(name) {
		return "", false
	}

	if hasProvince(name) {
		if i := strings.LastIndex(name, ","); i >= 0 {
			name = strings.TrimSpace(name[i+1:])
		}
	}

	name = stripPrefixes(name)
	name = strings.Trim(name, " ,;")
	if isSentinel(name) {
		return "", false
	}
	return name, true
}

// Key is the identity of a normalized name: case folded, ё read as е
func Key(name string) string {
	return strings.ReplaceAll(cases.Fold().String(name), "ё", "е")
}

func isSentinel(name string) bool {
	return sentinels[cases.Fold().String(strings.TrimSpace(name))]
}

func hasProvince(name string) bool {
	folded := Key(name)
	for _, m := range provinceMarkers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}

func stripPrefixes(name string) string {
	for {
		stripped := false
		folded := cases.Fold().String(name)
		for _, p := range localityPrefixes {
			if !strings.HasPrefix(folded, p) {
				continue
			}
			rest := name[len(p):]
			// a word prefix must be followed by a space, "Городец" is a town
			if !strings.HasSuffix(p, ".") && rest != "" && !startsWithSpace(rest) {
				continue
			}
			// "С.-Петербург" abbreviates Санкт, it is not a village
			if startsWithPunct(strings.TrimSpace(rest)) {
				continue
			}
			name = strings.TrimSpace(rest)
			stripped = true
			break
		}
		if !stripped || name == "" {
			return name
		}
	}
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}

func startsWithPunct(s string) bool {
	for _, r := range s {
		return unicode.IsPunct(r)
	}
	return false
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Gazetteer resolves normalized names to coordinates
type Gazetteer struct {
	places map[string][2]float64
}

// New creates a Gazetteer over the built-in place table
func New() *Gazetteer {
	return &Gazetteer{places: validPlaces(knownPlaces)}
}

// validPlaces drops entries that are not a valid latitude/longitude pair
func validPlaces(table map[string][2]float64) map[string][2]float64 {
	places := make(map[string][2]float64, len(table))
	for name, ll := range table {
		if !s2.LatLngFromDegrees(ll[0], ll[1]).IsValid() {
			continue
		}
		places[name] = ll
	}
	return places
}

// Len returns the number of names in the table
func (g *Gazetteer) Len() int {
	return len(g.places)
}

// Lookup returns table coordinates for name, if known
func (g *Gazetteer) Lookup(name string) (Coordinates, bool) {
	ll, ok := g.places[Key(name)]
	if !ok {
		return Coordinates{}, false
	}
	return Coordinates{Lat: ll[0], Lon: ll[1], Source: SourceTable}, true
}

// Resolve returns table coordinates for name, or a synthesized point when
// the name is not in the table.
func (g *Gazetteer) Resolve(name string) Coordinates {
	if c, ok := g.Lookup(name); ok {
		return c
	}
	return synthesize(Key(name))
}

func synthesize(key string) Coordinates {
	h := fnv.New64a()
	h.Write([]byte(key))
	seed := h.Sum64()
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	lat := baseLat + latOffsetMin + r.Float64()*(latOffsetMax-latOffsetMin)
	lon := baseLon + lonOffsetMin + r.Float64()*(lonOffsetMax-lonOffsetMin)
	return Coordinates{Lat: lat, Lon: lon, Source: SourceSynthesized}
}
