package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pbaille/postcards/internal/domain"
	"github.com/pbaille/postcards/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore records replaced datasets; it fails the first failures calls
type fakeStore struct {
	clock    *clockwork.FakeClock
	failures int
	calls    int
	saved    domain.Dataset
}

func (s *fakeStore) Replace(_ context.Context, ds domain.Dataset) error {
	s.calls++
	if s.clock != nil {
		s.clock.Advance(2 * time.Second)
	}
	if s.calls <= s.failures {
		return errors.New("disk full")
	}
	s.saved = ds
	return nil
}

type fakeDownloader struct {
	body []byte
	err  error
	url  string
}

func (d *fakeDownloader) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	d.url = rawURL
	return d.body, d.err
}

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestIngester(store *fakeStore, opts ...Option) (*Ingester, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return New(store, m, zerolog.Nop(), opts...), m
}

func writeSource(t *testing.T) string {
	t.Helper()
	buf := workbook(t,
		[]any{"Откуда", "Куда", "Текст", "Дата"},
		[]any{"Москва", "Рязань", "Скучаю очень, болею", "12.03.1915"},
		[]any{"Тула", "Тула", "Целую крепко", "1912"},
		[]any{"неразборчиво", "Новая Деревня-на-Болоте", "Поздравляю", ""},
	)
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestRun_LocalFile(t *testing.T) {
	clock := clockwork.NewFakeClockAt(start)
	store := &fakeStore{clock: clock}
	in, m := newTestIngester(store, WithClock(clock))

	report, err := in.Run(context.Background(), writeSource(t))
	require.NoError(t, err)

	assert.Equal(t, OutcomeSource, report.Outcome)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Rows)
	assert.Equal(t, 4, report.Cities)
	assert.Equal(t, 4, report.Letters)
	assert.Equal(t, 1, report.SynthesizedCities)
	assert.Empty(t, report.Error)
	assert.Equal(t, start, report.StartedAt)
	assert.Equal(t, 2*time.Second, report.Duration())

	require.Len(t, store.saved.Letters, 4)
	assert.Equal(t, "Москва", store.saved.Cities[0].Name)
	assert.Equal(t, domain.SentimentNegative, store.saved.Letters[0].Sentiment)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestRuns.WithLabelValues(OutcomeSource)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.IngestRows))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.LettersStored))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.FallbackActive))
}

func TestRun_EmptySourceLoadsDemo(t *testing.T) {
	store := &fakeStore{}
	in, m := newTestIngester(store)

	report, err := in.Run(context.Background(), "  ")
	require.NoError(t, err)

	assert.Equal(t, OutcomeDemo, report.Outcome)
	assert.Empty(t, report.Error)
	assert.Equal(t, 3, report.Cities)
	assert.Equal(t, 2, report.Letters)
	assert.Len(t, store.saved.Cities, 3)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FallbackActive))
}

func TestRun_MissingFileFallsBack(t *testing.T) {
	store := &fakeStore{}
	in, m := newTestIngester(store)

	report, err := in.Run(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.NoError(t, err)

	assert.Equal(t, OutcomeDemo, report.Outcome)
	assert.Contains(t, report.Error, "open source")
	assert.Len(t, store.saved.Letters, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestRuns.WithLabelValues(OutcomeDemo)))
}

func TestRun_MalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

	store := &fakeStore{}
	in, _ := newTestIngester(store)

	report, err := in.Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, OutcomeDemo, report.Outcome)
	assert.NotEmpty(t, report.Error)
}

func TestRun_URLSource(t *testing.T) {
	dl := &fakeDownloader{body: workbook(t,
		[]any{"Куда", "Текст"},
		[]any{"Казань", "Дорогая мама, привет"},
	).Bytes()}
	store := &fakeStore{}
	in, _ := newTestIngester(store, WithDownloader(dl))

	report, err := in.Run(context.Background(), "https://example.org/cards.xlsx")
	require.NoError(t, err)

	assert.Equal(t, "https://example.org/cards.xlsx", dl.url)
	assert.Equal(t, OutcomeSource, report.Outcome)
	require.Len(t, store.saved.Letters, 1)
	assert.Equal(t, domain.ThemeFamily, store.saved.Letters[0].Theme)
}

func TestRun_DownloadErrorFallsBack(t *testing.T) {
	dl := &fakeDownloader{err: errors.New("HTTP 404: 404 Not Found")}
	store := &fakeStore{}
	in, _ := newTestIngester(store, WithDownloader(dl))

	report, err := in.Run(context.Background(), "https://example.org/missing.xlsx")
	require.NoError(t, err)
	assert.Equal(t, OutcomeDemo, report.Outcome)
	assert.Contains(t, report.Error, "HTTP 404")
}

func TestRun_StoreFailureFallsBackToDemo(t *testing.T) {
	store := &fakeStore{failures: 1}
	in, _ := newTestIngester(store)

	report, err := in.Run(context.Background(), writeSource(t))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDemo, report.Outcome)
	assert.Contains(t, report.Error, "disk full")
	assert.Equal(t, 2, store.calls)
}

func TestRun_DemoFailureIsReturned(t *testing.T) {
	store := &fakeStore{failures: 2}
	in, m := newTestIngester(store)

	report, err := in.Run(context.Background(), writeSource(t))
	require.Error(t, err)
	assert.Equal(t, OutcomeFailed, report.Outcome)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IngestRuns.WithLabelValues(OutcomeFailed)))
}

func TestDemoDataset(t *testing.T) {
	ds := DemoDataset()
	require.Len(t, ds.Cities, 3)
	require.Len(t, ds.Letters, 2)

	for _, l := range ds.Letters {
		assert.True(t, l.Theme.Valid())
		assert.True(t, l.Sentiment.Valid())
		assert.NotNil(t, l.Year)
	}
	assert.Equal(t, domain.ThemeLove, ds.Letters[0].Theme)
	assert.Equal(t, domain.ThemeFamily, ds.Letters[1].Theme)
	assert.Equal(t, 1, ds.Cities[0].LetterCount)
	assert.Equal(t, 0, ds.Cities[2].LetterCount)
}
