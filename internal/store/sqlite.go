package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"github.com/pbaille/postcards/internal/domain"
	"golang.org/x/text/cases"
)

//go:embed schema.sql
var schema string

// driverName is go-sqlite3 with a fold() SQL function for Unicode-aware
// case-insensitive matching (SQLite's lower() only handles ASCII).
const driverName = "sqlite3_postcards"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", foldText, true)
		},
	})
}

func foldText(s string) string {
	return cases.Fold().String(s)
}

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

const letterColumns = "l.id, l.city_id, l.year, l.content, l.theme, l.sentiment, l.excerpt"

// Store handles database operations
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open(driverName, dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Replace clears both tables and writes ds in one transaction. Cities
// without coordinates are skipped along with their letters. Each city's
// letter_count is recomputed from the inserted letters.
func (s *Store) Replace(ctx context.Context, ds domain.Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM letters"); err != nil {
		return fmt.Errorf("clear letters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM cities"); err != nil {
		return fmt.Errorf("clear cities: %w", err)
	}

	cityStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO cities (id, name, latitude, longitude, letter_count) VALUES (?, ?, ?, ?, 0)",
	)
	if err != nil {
		return fmt.Errorf("prepare city insert: %w", err)
	}
	defer cityStmt.Close()

	inserted := make(map[int64]bool, len(ds.Cities))
	for _, c := range ds.Cities {
		if c.Latitude == nil || c.Longitude == nil {
			continue
		}
		if _, err := cityStmt.ExecContext(ctx, c.ID, c.Name, *c.Latitude, *c.Longitude); err != nil {
			return fmt.Errorf("insert city %q: %w", c.Name, err)
		}
		inserted[c.ID] = true
	}

	letterStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO letters (id, city_id, year, content, theme, sentiment, excerpt) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare letter insert: %w", err)
	}
	defer letterStmt.Close()

	for _, l := range ds.Letters {
		if !inserted[l.CityID] {
			continue
		}
		var year any
		if l.Year != nil {
			year = *l.Year
		}
		_, err := letterStmt.ExecContext(ctx,
			l.ID, l.CityID, year, l.Content, string(l.Theme), string(l.Sentiment), l.Excerpt,
		)
		if err != nil {
			return fmt.Errorf("insert letter %d: %w", l.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE cities SET letter_count = (
			SELECT COUNT(*) FROM letters WHERE letters.city_id = cities.id
		)
	`)
	if err != nil {
		return fmt.Errorf("backfill letter counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// ListCities returns all cities in insertion order
func (s *Store) ListCities(ctx context.Context) ([]domain.City, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, latitude, longitude, letter_count FROM cities ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}

	return cities, nil
}

// GetCity retrieves a city by ID
func (s *Store) GetCity(ctx context.Context, id int64) (*domain.City, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, latitude, longitude, letter_count FROM cities WHERE id = ?",
		id,
	)
	c, err := scanCity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CityLetters returns all letters of a city, in insertion order
func (s *Store) CityLetters(ctx context.Context, cityID int64) ([]domain.Letter, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+letterColumns+" FROM letters l WHERE l.city_id = ? ORDER BY l.id",
		cityID,
	)
	if err != nil {
		return nil, fmt.Errorf("city letters: %w", err)
	}
	return collectLetters(rows)
}

// CountLetters returns the number of stored letter rows
func (s *Store) CountLetters(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM letters").Scan(&n); err != nil {
		return 0, fmt.Errorf("count letters: %w", err)
	}
	return n, nil
}

// ListLetters returns letters matching filter, ordered by city then letter, at most limit
func (s *Store) ListLetters(ctx context.Context, filter domain.LetterFilter, limit int) ([]domain.Letter, error) {
	var cityID, theme any
	if filter.CityID != nil {
		cityID = *filter.CityID
	}
	if filter.Theme != nil {
		theme = string(*filter.Theme)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+letterColumns+`
		FROM letters l
		JOIN cities c ON c.id = l.city_id
		WHERE (?1 IS NULL OR l.city_id = ?1)
		  AND (?2 IS NULL OR l.theme = ?2)
		ORDER BY c.id, l.id
		LIMIT ?3
	`, cityID, theme, limit)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	return collectLetters(rows)
}

// SearchLetters performs a case-insensitive substring search over content and excerpt
func (s *Store) SearchLetters(ctx context.Context, query string, limit int) ([]domain.Letter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+letterColumns+`
		FROM letters l
		JOIN cities c ON c.id = l.city_id
		WHERE instr(fold(l.content), fold(?1)) > 0
		   OR instr(fold(l.excerpt), fold(?1)) > 0
		ORDER BY c.id, l.id
		LIMIT ?2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search letters: %w", err)
	}
	return collectLetters(rows)
}

// Statistics computes collection-wide aggregates. Letters are counted as
// distinct non-empty content, since one postcard is stored once per city.
func (s *Store) Statistics(ctx context.Context) (domain.Statistics, error) {
	stats := domain.EmptyStatistics()

	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT content) FROM letters WHERE content <> ''",
	).Scan(&stats.TotalLetters)
	if err != nil {
		return stats, fmt.Errorf("count letters: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cities").Scan(&stats.TotalCities); err != nil {
		return stats, fmt.Errorf("count cities: %w", err)
	}

	themeRows, err := s.db.QueryContext(ctx, `
		SELECT theme, COUNT(*) FROM letters
		GROUP BY theme
		ORDER BY COUNT(*) DESC, theme
		LIMIT 5
	`)
	if err != nil {
		return stats, fmt.Errorf("theme histogram: %w", err)
	}
	defer themeRows.Close()
	for themeRows.Next() {
		var tc domain.ThemeCount
		if err := themeRows.Scan(&tc.Theme, &tc.Count); err != nil {
			return stats, fmt.Errorf("scan theme count: %w", err)
		}
		stats.PopularThemes = append(stats.PopularThemes, tc)
	}
	if err := themeRows.Err(); err != nil {
		return stats, fmt.Errorf("theme histogram: %w", err)
	}

	sentimentRows, err := s.db.QueryContext(ctx,
		"SELECT sentiment, COUNT(*) FROM letters GROUP BY sentiment ORDER BY sentiment",
	)
	if err != nil {
		return stats, fmt.Errorf("sentiment histogram: %w", err)
	}
	defer sentimentRows.Close()
	for sentimentRows.Next() {
		var sc domain.SentimentCount
		if err := sentimentRows.Scan(&sc.Sentiment, &sc.Count); err != nil {
			return stats, fmt.Errorf("scan sentiment count: %w", err)
		}
		stats.SentimentDistribution = append(stats.SentimentDistribution, sc)
	}
	if err := sentimentRows.Err(); err != nil {
		return stats, fmt.Errorf("sentiment histogram: %w", err)
	}

	var minYear, maxYear sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		"SELECT MIN(year), MAX(year) FROM letters WHERE year IS NOT NULL",
	).Scan(&minYear, &maxYear)
	if err != nil {
		return stats, fmt.Errorf("year range: %w", err)
	}
	if minYear.Valid {
		stats.YearsRange[0] = int(minYear.Int64)
	}
	if maxYear.Valid {
		stats.YearsRange[1] = int(maxYear.Int64)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCity(row scanner) (domain.City, error) {
	var (
		c        domain.City
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&c.ID, &c.Name, &lat, &lon, &c.LetterCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan city: %w", err)
	}
	if lat.Valid {
		c.Latitude = &lat.Float64
	}
	if lon.Valid {
		c.Longitude = &lon.Float64
	}
	return c, nil
}

func collectLetters(rows *sql.Rows) ([]domain.Letter, error) {
	defer rows.Close()

	letters := []domain.Letter{}
	for rows.Next() {
		var (
			l    domain.Letter
			year sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.CityID, &year, &l.Content, &l.Theme, &l.Sentiment, &l.Excerpt); err != nil {
			return nil, fmt.Errorf("scan letter: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			l.Year = &y
		}
		letters = append(letters, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read letters: %w", err)
	}

	return letters, nil
}
