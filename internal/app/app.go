package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"scourfs/internal/cli"
	"scourfs/internal/config"
	"scourfs/internal/history"
	"scourfs/internal/services"
	"scourfs/internal/state"
	"scourfs/internal/ui"
)

const Version = "0.3.0"

func Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("warning: could not load config, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}

	cfg, mode, err := config.ParseFlags(cfg, os.Args[1:])
	if err != nil {
		return err
	}
	if mode.Version {
		fmt.Printf("scourfs %s\n", Version)
		return nil
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	if mode.Report != "" || mode.History || !isatty.IsTerminal(os.Stdout.Fd()) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return cli.Run(ctx, cli.Options{
			Config: cfg,
			Mode:   mode,
			Store:  store,
			Out:    os.Stdout,
			Err:    os.Stderr,
		})
	}

	return runInteractive(cfg, store)
}

func openHistory() *history.Store {
	path, err := history.DefaultPath()
	if err != nil {
		log.Printf("warning: run history disabled: %v", err)
		return nil
	}
	store, err := history.Open(path)
	if err != nil {
		log.Printf("warning: run history disabled: %v", err)
		return nil
	}
	return store
}

func runInteractive(cfg config.Config, store *history.Store) error {
	walker := services.NewWalker(cfg.Exclusions)
	svc := ui.Services{
		Trees:      services.NewTreeBuilder(),
		Duplicates: services.NewDuplicateDetector(walker),
		Eraser:     services.NewSecureEraser(),
		Remover:    services.NewRemover(),
		Analyzer:   services.NewAnalyzer(walker),
	}

	appState := state.NewState(cfg)
	model := ui.NewModel(appState, svc, store, cfg)

	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("interface error: %w", err)
	}

	if provider, ok := final.(ui.ConfigProvider); ok {
		if err := config.SaveConfig(provider.ConfigSnapshot()); err != nil {
			log.Printf("warning: could not save config: %v", err)
		}
	}
	return nil
}
