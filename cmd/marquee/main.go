package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jlasky/marquee/internal/api"
	"github.com/jlasky/marquee/internal/catalog"
	"github.com/jlasky/marquee/internal/config"
	"github.com/jlasky/marquee/internal/domain"
	"github.com/jlasky/marquee/internal/log"
	"github.com/jlasky/marquee/internal/metadata"
	"github.com/jlasky/marquee/internal/mirror"
	"github.com/jlasky/marquee/internal/session"
	"github.com/jlasky/marquee/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, setup bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&setup, "setup", false, "run the setup flow again")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(setup); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(forceSetup bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	// First run: no config file anywhere means nothing was ever set up
	if forceSetup || !config.Exists() {
		if err := runSetupFlow(cfg, logger); err != nil {
			return err
		}
	}

	var (
		sess   *session.Manager
		store  *catalog.Store
		genres *catalog.GenreCache
		closer func()
	)

	if cfg.HasBackend() {
		backend := api.NewClient(cfg.Backend.URL, logger)
		sess = session.NewManager(backend, logger)
		store = catalog.NewStore(backend, logger)
		genres = catalog.NewGenreCache(backend, logger)
		closer = func() {}
	} else {
		// Offline mode: the local mirror is the only backing store
		m, err := mirror.New(cfg.Cache.Dir)
		if err != nil {
			return fmt.Errorf("failed to open local mirror: %w", err)
		}
		sess = session.NewManager(nil, logger)
		store = catalog.NewMirrorStore(m, logger)
		genres = catalog.NewMirrorGenreCache(m, logger)
		closer = func() { m.Close() }
		logger.Info("running in offline mirror mode", "dir", cfg.Cache.Dir)
	}
	defer closer()

	var provider domain.MetadataProvider
	var importer *metadata.Importer
	if cfg.HasMetadata() {
		client := metadata.NewClient(cfg.Metadata.URL, cfg.Metadata.Bearer, logger)
		provider = client
		importer = metadata.NewImporter(client, store, genres, logger)
	}

	model := tui.NewModel(sess, store, genres, provider, importer, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()

	fmt.Print("Catalogue server URL (leave empty for offline mode): ")
	input, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	cfg.Backend.URL = strings.TrimRight(strings.TrimSpace(input), "/")

	if cfg.Backend.URL != "" {
		if err := verifyCredentials(cfg, reader, logger); err != nil {
			return err
		}
	}

	fmt.Print("Metadata provider API token (optional): ")
	input, err = reader.ReadString('\n')
	if err != nil {
		return err
	}
	cfg.Metadata.Bearer = strings.TrimSpace(input)

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved.")
	fmt.Println()
	return nil
}

// verifyCredentials does a one-shot login to confirm the server URL and the
// account work before saving anything
func verifyCredentials(cfg *config.Config, reader *bufio.Reader, logger *slog.Logger) error {
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	backend := api.NewClient(cfg.Backend.URL, logger)
	sess := session.NewManager(backend, logger)
	if err := sess.Login(context.Background(), domain.LoginInput{
		Email:    strings.TrimSpace(email),
		Password: string(password),
	}); err != nil {
		return fmt.Errorf("login check failed: %w", err)
	}

	id, _ := sess.Current()
	fmt.Printf("Welcome back, %s!\n", id.DisplayName)
	return nil
}
