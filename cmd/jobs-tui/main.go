package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/v2/pkg/browser"

	"github.com/altinukshini/jobs-tui/internal/api"
	"github.com/altinukshini/jobs-tui/internal/config"
	"github.com/altinukshini/jobs-tui/internal/executor"
	"github.com/altinukshini/jobs-tui/internal/filter"
	"github.com/altinukshini/jobs-tui/internal/logging"
	"github.com/altinukshini/jobs-tui/internal/settings"
	"github.com/altinukshini/jobs-tui/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to config.toml")
	apiURL := flag.String("api-url", "", "Dashboard back-end base URL (overrides config)")
	logLevel := flag.String("log-level", "", "Log level: trace, debug, info, warn, error")
	logFile := flag.String("log-file", "", "Log file path (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("jobs-tui", version)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *apiURL != "" {
		cfg.API.BaseURL = *apiURL
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Log error: %v\n", err)
		os.Exit(1)
	}
	logger.Info().Str("version", version).Str("api_url", cfg.API.BaseURL).Msg("Starting jobs-tui")

	client, err := api.NewClient(api.Options{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout.Duration,
		Logger:  logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
		os.Exit(1)
	}

	filters := filter.NewState()
	store := settings.NewStore(client, logger)
	exec := executor.New(filters, store, client, logger)
	feed := tui.NewFeed()

	// The terminal belongs to the TUI; browser launcher output is dropped.
	opener := browser.New("", io.Discard, io.Discard)

	app := tui.NewApp(cfg.Host(), filters, store, exec, feed, opener, logger)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, runErr := p.Run()

	exec.Close()
	feed.Close()
	logger.Info().Msg("Stopped jobs-tui")

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
