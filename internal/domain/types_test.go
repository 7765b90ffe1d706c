package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExcerpt_ShortContentVerbatim(t *testing.T) {
	content := "Дорогая мама, доехали хорошо."
	assert.Equal(t, content, Excerpt(content))
}

func TestExcerpt_ExactlyHundredCharacters(t *testing.T) {
	content := strings.Repeat("ж", 100)
	assert.Equal(t, content, Excerpt(content))
}

func TestExcerpt_TruncatesOnCharacters(t *testing.T) {
	content := strings.Repeat("я", 150)

	got := Excerpt(content)

	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 103, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("я", 100), strings.TrimSuffix(got, "..."))
}

func TestExcerpt_Empty(t *testing.T) {
	assert.Equal(t, "", Excerpt(""))
}

func TestThemeValid(t *testing.T) {
	for _, th := range Themes {
		assert.True(t, th.Valid(), th)
	}
	assert.False(t, Theme("other").Valid())
	assert.False(t, Theme("").Valid())
}

func TestSentimentValid(t *testing.T) {
	assert.True(t, SentimentPositive.Valid())
	assert.True(t, SentimentNegative.Valid())
	assert.True(t, SentimentNeutral.Valid())
	assert.False(t, Sentiment("mixed").Valid())
}

func TestEmptyStatistics(t *testing.T) {
	stats := EmptyStatistics()

	assert.Equal(t, [2]int{1900, 1950}, stats.YearsRange)
	assert.NotNil(t, stats.PopularThemes)
	assert.NotNil(t, stats.SentimentDistribution)
	assert.Zero(t, stats.TotalLetters)
}
