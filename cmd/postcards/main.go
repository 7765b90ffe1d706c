package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/pbaille/postcards/internal/api"
	"github.com/pbaille/postcards/internal/config"
	"github.com/pbaille/postcards/internal/domain"
	"github.com/pbaille/postcards/internal/fetcher"
	"github.com/pbaille/postcards/internal/ingest"
	"github.com/pbaille/postcards/internal/logging"
	"github.com/pbaille/postcards/internal/observability"
	"github.com/pbaille/postcards/internal/query"
	"github.com/pbaille/postcards/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	dbPath string
	logger zerolog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "postcards",
		Short:         "Historical postcard analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			cfg = loaded
			if cmd.Flags().Changed("db") {
				cfg.DBPath = dbPath
			}
			logger = logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "postcards.db", "database path (overrides POSTCARDS_DB_PATH)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(citiesCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(lettersCmd())
	rootCmd.AddCommand(searchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func getStore() (*store.Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(cfg.DBPath)
}

func runIngest(ctx context.Context, s *store.Store, source string, metrics *observability.Metrics) (ingest.Report, error) {
	in := ingest.New(s, metrics, logger,
		ingest.WithDownloader(fetcher.New(cfg.FetchTimeout)),
	)
	return in.Run(ctx, source)
}

func serveCmd() *cobra.Command {
	var addr, source, staticDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Ingest the source, then start the REST API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.HTTPAddr = addr
			}
			if cmd.Flags().Changed("source") {
				cfg.Source = source
			}
			if cmd.Flags().Changed("static") {
				cfg.StaticDir = staticDir
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			metrics := observability.NewMetrics()
			server := api.New(query.New(s, logger), metrics, logger, api.Options{
				Addr:            cfg.HTTPAddr,
				StaticDir:       cfg.StaticDir,
				CORSOrigins:     cfg.Origins(),
				RateLimit:       cfg.RateLimit,
				ShutdownTimeout: cfg.ShutdownTimeout,
			})

			report, err := runIngest(ctx, s, cfg.Source, metrics)
			if err != nil {
				return err
			}
			server.SetReport(report)

			return server.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8000", "server address")
	cmd.Flags().StringVarP(&source, "source", "s", "", "spreadsheet path or URL to ingest")
	cmd.Flags().StringVar(&staticDir, "static", "", "directory with the frontend to serve")
	return cmd
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [source]",
		Short: "Load a spreadsheet (path or URL) into the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := cfg.Source
			if len(args) == 1 {
				source = args[0]
			}

			s, err := getStore()
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := runIngest(cmd.Context(), s, source, observability.NewMetrics())
			if err != nil {
				return err
			}

			fmt.Printf("Run:      %s\n", report.RunID)
			fmt.Printf("Outcome:  %s\n", report.Outcome)
			fmt.Printf("Rows:     %d\n", report.Rows)
			fmt.Printf("Cities:   %d (%d synthesized)\n", report.Cities, report.SynthesizedCities)
			fmt.Printf("Letters:  %d\n", report.Letters)
			if report.Error != "" {
				fmt.Printf("Fallback: %s\n", report.Error)
			}
			return nil
		},
	}
}

func withService(fn func(ctx context.Context, svc *query.Service) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := getStore()
		if err != nil {
			return err
		}
		defer s.Close()
		return fn(cmd.Context(), query.New(s, logger))
	}
}

func citiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List cities",
		RunE: withService(func(ctx context.Context, svc *query.Service) error {
			cities := svc.ListCities(ctx)
			if len(cities) == 0 {
				fmt.Println("No cities yet. Use 'postcards ingest' to load data.")
				return nil
			}
			for _, c := range cities {
				fmt.Printf("%4d  %-30s %4d letters  %s\n", c.ID, truncate(c.Name, 30), c.LetterCount, coords(c))
			}
			return nil
		}),
	}
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [city-id]",
		Short: "Show a city and its letters",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("city id must be an integer: %s", args[0])
		}
		return withService(func(ctx context.Context, svc *query.Service) error {
			detail, err := svc.CityDetail(ctx, id)
			if errors.Is(err, query.ErrNotFound) {
				return fmt.Errorf("city not found: %d", id)
			}
			if err != nil {
				return err
			}

			fmt.Printf("ID:      %d\n", detail.ID)
			fmt.Printf("Name:    %s\n", detail.Name)
			fmt.Printf("Coords:  %s\n", coords(detail.City))
			fmt.Printf("Letters: %d\n", detail.LetterCount)
			for _, l := range detail.Letters {
				printLetter(l)
			}
			return nil
		})(cmd, args)
	}
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		RunE: withService(func(ctx context.Context, svc *query.Service) error {
			stats := svc.Statistics(ctx)
			fmt.Printf("Letters: %d\n", stats.TotalLetters)
			fmt.Printf("Cities:  %d\n", stats.TotalCities)
			fmt.Printf("Years:   %d-%d\n", stats.YearsRange[0], stats.YearsRange[1])
			fmt.Printf("\nThemes:\n")
			for _, t := range stats.PopularThemes {
				fmt.Printf("  %-12s %d\n", t.Theme, t.Count)
			}
			fmt.Printf("\nSentiment:\n")
			for _, s := range stats.SentimentDistribution {
				fmt.Printf("  %-12s %d\n", s.Sentiment, s.Count)
			}
			return nil
		}),
	}
}

func lettersCmd() *cobra.Command {
	var (
		cityID int64
		theme  string
	)

	cmd := &cobra.Command{
		Use:   "letters",
		Short: "List letters, optionally filtered by city or theme",
		RunE: withService(func(ctx context.Context, svc *query.Service) error {
			var filter domain.LetterFilter
			if cityID > 0 {
				filter.CityID = &cityID
			}
			if theme != "" {
				t := domain.Theme(theme)
				if !t.Valid() {
					return fmt.Errorf("unknown theme: %s", theme)
				}
				filter.Theme = &t
			}

			letters := svc.ListLetters(ctx, filter)
			if len(letters) == 0 {
				fmt.Println("No matching letters found.")
				return nil
			}
			for _, l := range letters {
				printLetter(l)
			}
			return nil
		}),
	}

	cmd.Flags().Int64Var(&cityID, "city", 0, "city id")
	cmd.Flags().StringVar(&theme, "theme", "", "theme (love, family, friendship, greeting, work, study, personal)")
	return cmd
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search letter text",
		Args:  cobra.MinimumNArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		q := strings.Join(args, " ")
		return withService(func(ctx context.Context, svc *query.Service) error {
			letters, err := svc.Search(ctx, q)
			if err != nil {
				return err
			}
			if len(letters) == 0 {
				fmt.Println("No matching letters found.")
				return nil
			}
			for _, l := range letters {
				printLetter(l)
			}
			return nil
		})(cmd, args)
	}
	return cmd
}

func printLetter(l domain.Letter) {
	year := "----"
	if l.Year != nil {
		year = strconv.Itoa(*l.Year)
	}
	fmt.Printf("%5d  city %-4d %s  %-10s %-8s %s\n",
		l.ID, l.CityID, year, l.Theme, l.Sentiment, truncate(l.Content, 60))
}

func coords(c domain.City) string {
	if c.Latitude == nil || c.Longitude == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f, %.4f", *c.Latitude, *c.Longitude)
}

func truncate(s string, max int) string {
	// Replace newlines with spaces for display
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
