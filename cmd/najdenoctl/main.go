package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/config"
	"github.com/erazemk/najdeno/internal/export"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/query"
	"github.com/erazemk/najdeno/internal/service"
	"github.com/erazemk/najdeno/internal/store"
)

const usage = "Usage: najdenoctl <init|seed|stats|export> [flags]"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	// Keep slog quiet unless something goes wrong.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	switch os.Args[1] {
	case "init":
		err = cmdInit(cfg, os.Args[2:])
	case "seed":
		err = cmdSeed(cfg, os.Args[2:])
	case "stats":
		err = cmdStats(cfg, os.Args[2:])
	case "export":
		err = cmdExport(cfg, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n%s\n", os.Args[1], usage)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// storeFlags registers the flags every subcommand shares.
func storeFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "storage backend: sqlite or postgres")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to SQLite database file")
}

func openService(ctx context.Context, cfg *config.Config) (*service.Service, store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if cfg.Backend == config.BackendMemory {
		return nil, nil, fmt.Errorf("the %s backend does not outlive this command", config.BackendMemory)
	}
	scheme, err := auth.ParseScheme(cfg.PasswordScheme)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	secret, err := st.JWTSecret(ctx)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	svc := service.New(st, query.New(st, query.WithRecentDays(cfg.RecentDays)), auth.NewPasswords(scheme), auth.NewIssuer(secret, cfg.TokenTTL))
	return svc, st, nil
}

func cmdInit(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	storeFlags(fs, cfg)
	fs.Parse(args)

	if cfg.Backend == config.BackendSQLite {
		if _, err := os.Stat(cfg.DBPath); err == nil {
			return fmt.Errorf("database file %s already exists", cfg.DBPath)
		}
	}

	_, st, err := openService(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Backend == config.BackendSQLite {
		fmt.Printf("Database created: %s\n", cfg.DBPath)
	}
	fmt.Println("Schema initialized.")
	return nil
}

func cmdSeed(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	storeFlags(fs, cfg)
	fs.Parse(args)

	svc, st, err := openService(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	seeded, err := svc.Seed(context.Background())
	if err != nil {
		return err
	}
	if !seeded {
		fmt.Println("Store already has users, nothing seeded.")
		return nil
	}
	fmt.Println("Demo users, items and reports loaded.")
	return nil
}

func cmdStats(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	storeFlags(fs, cfg)
	search := fs.String("search", "umbrella", "term for the search example")
	fs.Parse(args)

	ctx := context.Background()
	svc, st, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	matches, err := svc.SearchItems(ctx, *search, "")
	if err != nil {
		return err
	}
	return printStats(os.Stdout, stats, *search, matches)
}

func printStats(out io.Writer, stats *model.Stats, search string, matches []model.Item) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total items:\t%d\n", stats.TotalItems)
	fmt.Fprintf(w, "Lost items:\t%d\n", stats.LostItems)
	fmt.Fprintf(w, "Found items:\t%d\n", stats.FoundItems)
	fmt.Fprintf(w, "Active items:\t%d\n", stats.ActiveItems)
	fmt.Fprintf(w, "Recent items (%d days):\t%d\n", stats.RecentDays, stats.RecentItems)
	fmt.Fprintf(w, "Users:\t%d\n", stats.TotalUsers)
	fmt.Fprintf(w, "Reports:\t%d\n", stats.TotalReports)
	if stats.MostRecent != nil {
		fmt.Fprintf(w, "Most recent:\t%s (%s)\n", stats.MostRecent.Title, stats.MostRecent.Date)
	}
	fmt.Fprintf(w, "Matching %q:\t%d\n", search, len(matches))
	if err := w.Flush(); err != nil {
		return err
	}

	if len(stats.ByCity) == 0 {
		return nil
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Items by city:")
	cities := make([]string, 0, len(stats.ByCity))
	for city := range stats.ByCity {
		cities = append(cities, city)
	}
	slices.Sort(cities)
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, city := range cities {
		fmt.Fprintf(w, "  %s\t%d\n", city, stats.ByCity[city])
	}
	return w.Flush()
}

func cmdExport(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	storeFlags(fs, cfg)
	what := fs.String("what", "items", "what to export: items or reports")
	output := fs.String("o", "", "output .xlsx path (default: <what>.xlsx)")
	fs.Parse(args)

	if *what != "items" && *what != "reports" {
		return fmt.Errorf("unknown export %q (want items or reports)", *what)
	}
	if *output == "" {
		*output = *what + ".xlsx"
	}

	ctx := context.Background()
	svc, st, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", *output, err)
	}

	var n int
	if *what == "items" {
		var items []model.Item
		if items, err = svc.AllItems(ctx); err == nil {
			n = len(items)
			err = export.Items(f, items)
		}
	} else {
		var reports []model.Report
		if reports, err = svc.ListReports(ctx); err == nil {
			n = len(reports)
			err = export.Reports(f, reports)
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(*output)
		return err
	}

	fmt.Printf("Exported %d %s to %s\n", n, *what, *output)
	return nil
}
