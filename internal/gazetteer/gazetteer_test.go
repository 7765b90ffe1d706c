package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "Москва", "Москва"},
		{"whitespace", "  Рязань \t", "Рязань"},
		{"inner whitespace", "Нижний   Новгород", "Нижний Новгород"},
		{"short prefix with dot", "г. Тула", "Тула"},
		{"short prefix without space", "г.Тула", "Тула"},
		{"word prefix", "город Калуга", "Калуга"},
		{"village prefix", "село Константиново", "Константиново"},
		{"english prefix", "City of Kiev", "Kiev"},
		{"prefix case insensitive", "Деревня Ивановка", "Ивановка"},
		{"stacked prefixes", "ст. пос. Лоста", "Лоста"},
		{"word prefix needs a space", "Городец", "Городец"},
		{"province keeps last part", "Рязанская губ., г. Касимов", "Касимов"},
		{"region keeps last part", "Московская обл., Клин", "Клин"},
		{"comma without province", "Ростов, Ярославский", "Ростов, Ярославский"},
		{"uezd abbreviation", "Касимовский у., с. Ерахтур", "Ерахтур"},
		{"word ending in у is not a uezd", "Приеду., Тула", "Приеду., Тула"},
		{"abbreviated Sankt", "С.-Петербург", "С.-Петербург"},
		{"abbreviated Sankt without dot", "С-Петербург", "С-Петербург"},
		{"abbreviated Sankt after prefix", "г. С.-Петербург", "С.-Петербург"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_Sentinels(t *testing.T) {
	for _, raw := range []string{"", "   ", "-", "?", "неразборчиво", "НЕРАЗБОРЧИВО", "[неразборчиво]", "nan", "NaN", "не указано", "г."} {
		_, ok := Normalize(raw)
		assert.False(t, ok, "%q should be discarded", raw)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "москва", Key("МОСКВА"))
	assert.Equal(t, "орел", Key("Орёл"))
	assert.Equal(t, Key("Москва"), Key("москва"))
}

func TestLookup_KnownPlace(t *testing.T) {
	g := New()

	c, ok := g.Lookup("Москва")
	require.True(t, ok)
	assert.Equal(t, 55.7558, c.Lat)
	assert.Equal(t, 37.6173, c.Lon)
	assert.Equal(t, SourceTable, c.Source)
}

func TestLookup_AlternateNames(t *testing.T) {
	g := New()

	spb, ok := g.Lookup("Санкт-Петербург")
	require.True(t, ok)
	petrograd, ok := g.Lookup("ПЕТРОГРАД")
	require.True(t, ok)
	assert.Equal(t, spb.Lat, petrograd.Lat)
	assert.Equal(t, spb.Lon, petrograd.Lon)

	_, ok = g.Lookup("Орёл")
	assert.True(t, ok)

	for _, raw := range []string{"С.-Петербург", "С-Петербург", "СПб"} {
		name, ok := Normalize(raw)
		require.True(t, ok, raw)
		c, ok := g.Lookup(name)
		require.True(t, ok, raw)
		assert.Equal(t, spb, c, raw)
	}
}

func TestNew_TableEntriesAreValid(t *testing.T) {
	assert.Equal(t, len(knownPlaces), New().Len())
}

func TestValidPlaces_DropsInvalidCoordinates(t *testing.T) {
	places := validPlaces(map[string][2]float64{
		"москва":   {55.7558, 37.6173},
		"north":    {95, 10},
		"far east": {50, 181},
		"south":    {-91, 0},
	})
	assert.Equal(t, map[string][2]float64{"москва": {55.7558, 37.6173}}, places)
}

func TestTableSize(t *testing.T) {
	assert.GreaterOrEqual(t, New().Len(), 90)
}

func TestResolve_UnknownIsDeterministic(t *testing.T) {
	g := New()

	first := g.Resolve("Малые Вязёмы")
	second := g.Resolve("малые вязёмы")

	assert.Equal(t, SourceSynthesized, first.Source)
	assert.Equal(t, first, second)
}

func TestResolve_UnknownWithinBoundingBox(t *testing.T) {
	g := New()
	for _, name := range []string{"Ахтырка", "Зарайск", "Кукуево", "Nowhere", "Белый Яр", "Тихвин"} {
		c := g.Resolve(name)
		assert.Equal(t, SourceSynthesized, c.Source, name)
		assert.GreaterOrEqual(t, c.Lat, 45.0, name)
		assert.LessOrEqual(t, c.Lat, 70.0, name)
		assert.GreaterOrEqual(t, c.Lon, 20.0, name)
		assert.LessOrEqual(t, c.Lon, 180.0, name)
	}
}

func TestResolve_DifferentNamesDiffer(t *testing.T) {
	g := New()
	assert.NotEqual(t, g.Resolve("Ахтырка"), g.Resolve("Зарайск"))
}
