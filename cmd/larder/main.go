package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/larder/internal/adapter"
	"github.com/mmcdole/larder/internal/adapter/firebase"
	"github.com/mmcdole/larder/internal/domain"
	"github.com/mmcdole/larder/internal/ingredients"
	"github.com/mmcdole/larder/internal/request"
	"github.com/mmcdole/larder/internal/search"
	"github.com/mmcdole/larder/internal/store"
	"github.com/mmcdole/larder/internal/tui"
	"github.com/mmcdole/larder/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var showVersion, reset, clearHistory bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&reset, "reset", false, "forget the configured database and run setup again")
	flag.BoolVar(&clearHistory, "clear-history", false, "forget past search queries and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("larder %s\n", Version)
		return
	}

	if clearHistory {
		if err := runClearHistory(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(reset); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(reset bool) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logFile, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting larder", "version", Version)

	if reset {
		if err := adapter.ClearStoreConfig(); err != nil {
			return fmt.Errorf("failed to reset config: %w", err)
		}
		cfg.Store.URL = ""
		cfg.Store.Auth = ""
		fmt.Println("Database settings cleared.")
	}

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg, logger)
	}

	client := firebase.NewClient(cfg.Store.URL, cfg.Store.Auth, firebase.Collection(cfg.Store.Collection), logger)
	tracker := request.NewTracker(client, logger)
	controller := ingredients.NewController(tracker, client.Collection(), logger)

	// A nil history turns query history off
	var history domain.HistoryStore
	if cfg.Search.HistorySize > 0 {
		h := openHistory(cfg, logger)
		defer h.Close()
		history = h
	}
	searchSvc := search.NewService(client, history, cfg.Search.HistorySize, logger)

	model := tui.NewModel(controller, searchSvc, time.Duration(cfg.Search.DebounceMS)*time.Millisecond, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI", "store", cfg.Store.URL, "collection", cfg.Store.Collection)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runClearHistory empties the query history of the configured database
func runClearHistory() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	history, err := store.NewHistoryStore(cfg.CachePath(), cfg.Store.URL)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer history.Close()

	if err := history.ClearHistory(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Println("Search history cleared.")
	return nil
}

// openHistory opens the on-disk query history, falling back to memory
func openHistory(cfg *adapter.Config, logger *slog.Logger) *store.HistoryStore {
	dir := cfg.CachePath()
	history, err := store.NewHistoryStore(dir, cfg.Store.URL)
	if err != nil {
		logger.Warn("query history unavailable, keeping it in memory", "dir", dir, "error", err)
		history, _ = store.NewHistoryStore("", "")
	}
	return history
}

// runSetupFlow handles the initial setup when no database is configured
func runSetupFlow(cfg *adapter.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Larder!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Loop until we get a reachable database URL
	var storeURL string
	for {
		fmt.Print("Enter your database URL (e.g., https://my-app.firebaseio.com): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		storeURL = strings.TrimRight(strings.TrimSpace(input), "/")

		if storeURL == "" {
			fmt.Println("Database URL cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		if err := probeWithSpinner(storeURL); err != nil {
			fmt.Printf("\n✗ Could not reach database: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		break
	}

	cfg.Store.URL = storeURL

	flow := firebase.NewSetupFlow(logger)
	flow.SetInput(reader)
	result, err := flow.Run(context.Background(), storeURL, firebase.Collection(cfg.Store.Collection))
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}
	cfg.Store.Auth = result.Auth

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run larder again to start the application.")

	return nil
}

// probeWithSpinner checks the database answers, with a visual spinner
func probeWithSpinner(storeURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- firebase.Probe(ctx, storeURL)
	}()

	frame := 0
	fmt.Printf("\r%s Contacting database...", styles.SpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ Database reachable")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Contacting database...", styles.SpinnerFrames[frame%len(styles.SpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("%w: timed out", domain.ErrStoreUnreachable)
		}
	}
}
