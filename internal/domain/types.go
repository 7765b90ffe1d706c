package domain

// Theme is the topical category assigned to a letter
type Theme string

const (
	ThemeLove       Theme = "love"
	ThemeFamily     Theme = "family"
	ThemeFriendship Theme = "friendship"
	ThemeGreeting   Theme = "greeting"
	ThemeWork       Theme = "work"
	ThemeStudy      Theme = "study"
	ThemePersonal   Theme = "personal"
)

// Themes lists every theme in classification priority order, personal last.
var Themes = []Theme{
	ThemeLove, ThemeFamily, ThemeFriendship, ThemeGreeting, ThemeWork, ThemeStudy, ThemePersonal,
}

// Valid reports whether t is one of the known themes
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// Sentiment is the polarity label assigned to a letter
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the known sentiments
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// City is a named place with map coordinates and a count of its letters
type City struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	LetterCount int      `json:"letter_count"`
}

// Letter is a single postcard attributed to one city
type Letter struct {
	ID        int64     `json:"id"`
	CityID    int64     `json:"city_id"`
	Year      *int      `json:"year"`
	Content   string    `json:"content"`
	Theme     Theme     `json:"theme"`
	Sentiment Sentiment `json:"sentiment"`
	Excerpt   string    `json:"excerpt"`
}

// CityDetail is a city together with all of its letters
type CityDetail struct {
	City
	Letters []Letter `json:"letters"`
}

// ThemeCount is one bucket of the theme histogram
type ThemeCount struct {
	Theme Theme `json:"theme"`
	Count int   `json:"count"`
}

// SentimentCount is one bucket of the sentiment histogram
type SentimentCount struct {
	Sentiment Sentiment `json:"sentiment"`
	Count     int       `json:"count"`
}

// Statistics aggregates the whole collection
type Statistics struct {
	TotalLetters          int              `json:"total_letters"`
	TotalCities           int              `json:"total_cities"`
	YearsRange            [2]int           `json:"years_range"`
	PopularThemes         []ThemeCount     `json:"popular_themes"`
	SentimentDistribution []SentimentCount `json:"sentiment_distribution"`
}

const (
	DefaultMinYear = 1900
	DefaultMaxYear = 1950
)

// EmptyStatistics is what an empty (or unreadable) collection reports
func EmptyStatistics() Statistics {
	return Statistics{
		YearsRange:            [2]int{DefaultMinYear, DefaultMaxYear},
		PopularThemes:         []ThemeCount{},
		SentimentDistribution: []SentimentCount{},
	}
}

// LetterFilter narrows a letter listing. Nil fields are not applied.
type LetterFilter struct {
	CityID *int64
	Theme  *Theme
}

const excerptLength = 100

// Excerpt returns the first 100 characters of content, with "..." appended when cut
func Excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLength {
		return content
	}
	return string(runes[:excerptLength]) + "..."
}

// Dataset is the full content written by one ingestion run
type Dataset struct {
	Cities  []City
	Letters []Letter
}
