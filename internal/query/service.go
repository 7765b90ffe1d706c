// Package query answers the read-only questions the API asks about the
// stored postcards.
//
// Storage failures are logged and answered with an empty or default result
// so a flaky database degrades the API instead of failing it. The one
// exception is an unknown city, which is reported as ErrNotFound.
package query

import (
	"context"
	"errors"
	"strings"

	"github.com/pbaille/postcards/internal/domain"
	"github.com/pbaille/postcards/internal/logging"
	"github.com/pbaille/postcards/internal/store"
	"github.com/rs/zerolog"
)

// Result caps
const (
	LetterLimit = 50
	SearchLimit = 20
)

var (
	// ErrNotFound is returned for an unknown city
	ErrNotFound = errors.New("city not found")
	// ErrEmptyQuery is returned when a search has nothing to look for
	ErrEmptyQuery = errors.New("search query is empty")
)

// Reader is the storage the service reads from
type Reader interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	GetCity(ctx context.Context, id int64) (*domain.City, error)
	CityLetters(ctx context.Context, cityID int64) ([]domain.Letter, error)
	ListLetters(ctx context.Context, filter domain.LetterFilter, limit int) ([]domain.Letter, error)
	SearchLetters(ctx context.Context, query string, limit int) ([]domain.Letter, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
	CountLetters(ctx context.Context) (int, error)
}

// Service serves city, letter and statistics queries
type Service struct {
	store  Reader
	logger zerolog.Logger
}

// New creates a Service over r
func New(r Reader, logger zerolog.Logger) *Service {
	return &Service{store: r, logger: logger}
}

// ListCities returns every city in insertion order
func (s *Service) ListCities(ctx context.Context) []domain.City {
	cities, err := s.store.ListCities(ctx)
	if err != nil {
		s.log(ctx, err, "list cities")
		return []domain.City{}
	}
	return cities
}

// CityDetail returns a city with all of its letters. A city without letters
// has an empty, non-nil letter list.
func (s *Service) CityDetail(ctx context.Context, id int64) (*domain.CityDetail, error) {
	city, err := s.store.GetCity(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log(ctx, err, "get city")
		return nil, ErrNotFound
	}

	letters, err := s.store.CityLetters(ctx, id)
	if err != nil {
		s.log(ctx, err, "city letters")
		letters = nil
	}
	if letters == nil {
		letters = []domain.Letter{}
	}

	return &domain.CityDetail{City: *city, Letters: letters}, nil
}

// Statistics returns collection-wide aggregates, or the empty defaults when
// they cannot be computed.
func (s *Service) Statistics(ctx context.Context) domain.Statistics {
	stats, err := s.store.Statistics(ctx)
	if err != nil {
		s.log(ctx, err, "statistics")
		return domain.EmptyStatistics()
	}
	return stats
}

// ListLetters returns up to LetterLimit letters matching filter, ordered by
// city then by letter.
func (s *Service) ListLetters(ctx context.Context, filter domain.LetterFilter) []domain.Letter {
	letters, err := s.store.ListLetters(ctx, filter, LetterLimit)
	if err != nil {
		s.log(ctx, err, "list letters")
		return []domain.Letter{}
	}
	return letters
}

// Search returns up to SearchLimit letters whose content or excerpt contains
// q, ignoring case. Spaces in q are part of the match.
func (s *Service) Search(ctx context.Context, q string) ([]domain.Letter, error) {
	if strings.TrimSpace(q) == "" {
		return nil, ErrEmptyQuery
	}
	letters, err := s.store.SearchLetters(ctx, q, SearchLimit)
	if err != nil {
		s.log(ctx, err, "search letters")
		return []domain.Letter{}, nil
	}
	return letters, nil
}

// LetterRows counts stored letter rows. Unlike Statistics it counts a
// postcard once per city it is attributed to.
func (s *Service) LetterRows(ctx context.Context) int {
	n, err := s.store.CountLetters(ctx)
	if err != nil {
		s.log(ctx, err, "count letters")
		return 0
	}
	return n
}

func (s *Service) log(ctx context.Context, err error, op string) {
	logging.FromContext(ctx, s.logger).Error().Err(err).Str("op", op).Msg("storage read failed")
}
