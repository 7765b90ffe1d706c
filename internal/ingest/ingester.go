// Package ingest loads the postcard spreadsheet into the store.
//
// A run reads every row of the source, normalizes place names, resolves
// coordinates, classifies each text and replaces the contents of the store.
// Any failure along the way is logged and the demo dataset is stored
// instead, so the API never starts empty.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pbaille/postcards/internal/domain"
	"github.com/pbaille/postcards/internal/fetcher"
	"github.com/pbaille/postcards/internal/gazetteer"
	"github.com/pbaille/postcards/internal/observability"
	"github.com/rs/zerolog"
)

// Run outcomes, also used as the metrics label
const (
	OutcomeSource = "source"
	OutcomeDemo   = "demo"
	OutcomeFailed = "failed"
)

// Persister stores a complete dataset, replacing what was there
type Persister interface {
	Replace(ctx context.Context, ds domain.Dataset) error
}

// Downloader fetches a remote source
type Downloader interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Report describes one ingestion run
type Report struct {
	RunID             string    `json:"run_id"`
	Source            string    `json:"source"`
	Outcome           string    `json:"outcome"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	Rows              int       `json:"rows"`
	Cities            int       `json:"cities"`
	Letters           int       `json:"letters"`
	SynthesizedCities int       `json:"synthesized_cities"`
	Error             string    `json:"error,omitempty"`
}

// Duration is how long the run took
func (r Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Ingester runs ingestion against a store
type Ingester struct {
	store      Persister
	gaz        *gazetteer.Gazetteer
	downloader Downloader
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// Option customizes an Ingester
type Option func(*Ingester)

// WithClock sets the time source used for run timestamps
func WithClock(c clockwork.Clock) Option {
	return func(in *Ingester) { in.clock = c }
}

// WithDownloader sets how URL sources are fetched
func WithDownloader(d Downloader) Option {
	return func(in *Ingester) { in.downloader = d }
}

// New creates an Ingester writing to store
func New(store Persister, metrics *observability.Metrics, logger zerolog.Logger, opts ...Option) *Ingester {
	in := &Ingester{
		store:      store,
		gaz:        gazetteer.New(),
		downloader: fetcher.New(30 * time.Second),
		clock:      clockwork.NewRealClock(),
		metrics:    metrics,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Run ingests source (a file path or URL). An empty source stores the demo
// dataset directly. Errors only escape when even the demo dataset cannot be
// stored.
func (in *Ingester) Run(ctx context.Context, source string) (Report, error) {
	report := Report{
		RunID:     uuid.New().String(),
		Source:    source,
		StartedAt: in.clock.Now(),
	}
	log := in.logger.With().Str("run_id", report.RunID).Str("source", source).Logger()
	log.Info().Msg("ingestion started")

	var err error
	if strings.TrimSpace(source) == "" {
		log.Info().Msg("no source configured, loading demo dataset")
		err = in.storeDemo(ctx, &report)
	} else if err = in.ingestSource(ctx, source, &report); err != nil {
		log.Error().Err(err).Msg("ingestion failed, falling back to demo dataset")
		report.Error = err.Error()
		err = in.storeDemo(ctx, &report)
	}

	report.FinishedAt = in.clock.Now()
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Error = err.Error()
		log.Error().Err(err).Msg("demo dataset could not be stored")
	}
	in.record(report)

	log.Info().
		Str("outcome", report.Outcome).
		Int("rows", report.Rows).
		Int("cities", report.Cities).
		Int("letters", report.Letters).
		Int("synthesized_cities", report.SynthesizedCities).
		Dur("duration", report.Duration()).
		Msg("ingestion finished")

	return report, err
}

func (in *Ingester) ingestSource(ctx context.Context, source string, report *Report) error {
	r, err := in.open(ctx, source)
	if err != nil {
		return err
	}

	rows, err := ReadWorkbook(r)
	if err != nil {
		return fmt.Errorf("read %s: %w", source, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("read %s: no data rows", source)
	}

	b := NewBuilder(in.gaz)
	for _, row := range rows {
		b.Add(row)
	}
	ds := b.Dataset()
	if len(ds.Letters) == 0 {
		return fmt.Errorf("read %s: no row has a recognizable place", source)
	}

	if err := in.store.Replace(ctx, ds); err != nil {
		return fmt.Errorf("store dataset: %w", err)
	}

	report.Outcome = OutcomeSource
	report.Rows = len(rows)
	report.Cities = len(ds.Cities)
	report.Letters = len(ds.Letters)
	report.SynthesizedCities = b.Synthesized()
	return nil
}

func (in *Ingester) open(ctx context.Context, source string) (io.Reader, error) {
	if fetcher.IsURL(source) {
		body, err := in.downloader.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", source, err)
		}
		return bytes.NewReader(body), nil
	}
	body, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	return bytes.NewReader(body), nil
}

func (in *Ingester) storeDemo(ctx context.Context, report *Report) error {
	ds := DemoDataset()
	if err := in.store.Replace(ctx, ds); err != nil {
		return fmt.Errorf("store demo dataset: %w", err)
	}
	report.Outcome = OutcomeDemo
	report.Rows = 0
	report.Cities = len(ds.Cities)
	report.Letters = len(ds.Letters)
	report.SynthesizedCities = 0
	return nil
}

func (in *Ingester) record(report Report) {
	if in.metrics == nil {
		return
	}
	in.metrics.IngestRuns.WithLabelValues(report.Outcome).Inc()
	in.metrics.IngestRows.Add(float64(report.Rows))
	in.metrics.IngestDuration.Observe(report.Duration().Seconds())
	if report.Outcome == OutcomeFailed {
		return
	}
	in.metrics.CitiesStored.Set(float64(report.Cities))
	in.metrics.LettersStored.Set(float64(report.Letters))
	in.metrics.SynthesizedCities.Set(float64(report.SynthesizedCities))
	if report.Outcome == OutcomeDemo {
		in.metrics.FallbackActive.Set(1)
	} else {
		in.metrics.FallbackActive.Set(0)
	}
}
