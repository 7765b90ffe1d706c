package ingest

import (
	"github.com/pbaille/postcards/internal/classifier"
	"github.com/pbaille/postcards/internal/domain"
)

// DemoDataset is served when the real source cannot be ingested, so the
// API always has something to show.
func DemoDataset() domain.Dataset {
	cities := []domain.City{
		demoCity(1, "Москва", 55.7558, 37.6173),
		demoCity(2, "Санкт-Петербург", 59.9343, 30.3351),
		demoCity(3, "Рязань", 54.6269, 39.6916),
	}
	letters := []domain.Letter{
		demoLetter(1, 1, 1915, "Милая моя, целую тебя крепко. Здесь всё хорошо, жду скорой встречи."),
		demoLetter(2, 2, 1916, "Дорогая мама, доехали благополучно. Погода холодная, но мы рады и здоровы."),
	}
	for _, l := range letters {
		cities[l.CityID-1].LetterCount++
	}
	return domain.Dataset{Cities: cities, Letters: letters}
}

func demoCity(id int64, name string, lat, lon float64) domain.City {
	return domain.City{ID: id, Name: name, Latitude: &lat, Longitude: &lon}
}

func demoLetter(id, cityID int64, year int, content string) domain.Letter {
	labels := classifier.Classify(content)
	return domain.Letter{
		ID:        id,
		CityID:    cityID,
		Year:      &year,
		Content:   content,
		Theme:     labels.Theme,
		Sentiment: labels.Sentiment,
		Excerpt:   domain.Excerpt(content),
	}
}
