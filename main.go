// tradepost is the local terminal front end of the inventory engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tradepost/assets"
	"tradepost/internal/config"
	"tradepost/internal/game"
	"tradepost/internal/logging"
	"tradepost/internal/store"

	"github.com/gdamore/tcell/v2"
)

func main() {
	cfgPath := flag.String("config", "", "Path to the YAML config file")
	catalogPath := flag.String("catalog", "", "Path to a world catalog replacing the built-in one")
	flag.Parse()

	if err := run(*cfgPath, *catalogPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, catalogPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	// The screen owns stdout, so the log only goes to a file.
	logger, closer, err := logging.NewLogger(cfg.LogLevel, cfg.LogDir, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	cat, err := assets.Default()
	if catalogPath != "" {
		cat, err = assets.Load(catalogPath)
	}
	if err != nil {
		return err
	}

	saveDir := cfg.SaveDir
	if saveDir == "" {
		if saveDir, err = store.DefaultDir(); err != nil {
			return fmt.Errorf("save directory: %w", err)
		}
	}
	g, err := game.New(cfg, cat, store.New(saveDir), logger)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return g.Run(ctx, screen)
}
