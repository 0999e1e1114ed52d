package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/dexview/internal/catalog"
	"github.com/abelbrown/dexview/internal/config"
	"github.com/abelbrown/dexview/internal/engine"
	"github.com/abelbrown/dexview/internal/favorites"
	"github.com/abelbrown/dexview/internal/fetch"
	"github.com/abelbrown/dexview/internal/kv"
	"github.com/abelbrown/dexview/internal/logging"
	"github.com/abelbrown/dexview/internal/pokeapi"
	"github.com/abelbrown/dexview/internal/ui"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Data directory: ~/.dexview/
	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fatal("Failed to create data directory: %v", err)
	}

	if err := logging.Init(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	defer logging.Close()

	cfg, err := config.Load(config.ConfigPath())
	if err != nil {
		fatal("Failed to load config: %v", err)
	}
	// Write defaults on first run so the file is there to edit.
	if _, err := os.Stat(config.ConfigPath()); os.IsNotExist(err) {
		if err := cfg.Save(config.ConfigPath()); err != nil {
			logging.Warn("failed to write default config", "error", err)
		}
	}

	// Open the persistent key-value store backing favorites.
	store, err := kv.Open(filepath.Join(dataDir, "dexview.db"))
	if err != nil {
		fatal("Failed to open database: %v", err)
	}
	defer store.Close()

	favs := favorites.New(store)
	logging.Info("favorites loaded", "count", favs.Count())

	// API client and batch fetcher.
	client := pokeapi.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
		cfg.API.RequestsPerSecond,
	)
	fetcher := fetch.NewFetcher(client)

	// The program pointer is filled in below; sinks only fire once the
	// load starts, after the program exists.
	var program *tea.Program

	eng := engine.New(favs, cfg.Catalog.PageSize, engine.Sinks{
		StateChanged: func(visible []catalog.Record, total, filtered, favCount int) {
			program.Send(ui.StateChanged{
				Visible:   visible,
				Total:     total,
				Filtered:  filtered,
				Favorites: favCount,
			})
		},
		EmptyState: func(empty bool) {
			program.Send(ui.EmptyState{Empty: empty})
		},
		LoadProgress: func(loaded int) {
			program.Send(ui.LoadProgress{Loaded: loaded})
		},
		Error: func(msg string) {
			logging.Error("load error", "message", msg)
			program.Send(ui.LoadError{Message: msg})
		},
	})

	fetchSpecies := func(id int) tea.Cmd {
		return func() tea.Msg {
			info, err := client.GetSpecies(ctx, id)
			if err != nil {
				logging.Warn("species fetch failed", "id", id, "error", err)
			}
			return ui.SpeciesLoaded{ID: id, Info: info, Err: err}
		}
	}

	app := ui.NewApp(eng, fetchSpecies, cfg.UI.DensityMode)
	program = tea.NewProgram(app, tea.WithAltScreen())

	// Kick off the catalog load; batches stream into the engine and
	// out through the sinks as they arrive.
	eng.Load(ctx, fetcher, cfg.Catalog.TotalRecords, cfg.Catalog.BatchSize)
	logging.Info("catalog load started",
		"total", cfg.Catalog.TotalRecords, "batch_size", cfg.Catalog.BatchSize)

	if _, err := program.Run(); err != nil {
		fatal("Error running program: %v", err)
	}
}

func fatal(format string, args ...interface{}) {
	logging.Error(fmt.Sprintf(format, args...))
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
