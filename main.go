package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/nstehr/vimy/vimy-viewer/config"
	"github.com/nstehr/vimy/vimy-viewer/display"
	"github.com/nstehr/vimy/vimy-viewer/model"
	"github.com/nstehr/vimy/vimy-viewer/network"
	"github.com/nstehr/vimy/vimy-viewer/remote"
	"github.com/nstehr/vimy/vimy-viewer/rules"
	"github.com/nstehr/vimy/vimy-viewer/view"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Simulation Viewer`

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	fmt.Println(banner)

	if err := run(cfg); err != nil {
		slog.Error("viewer stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	slog.Info("starting viewer", "endpoint", cfg.Endpoint, "transport", cfg.Transport, "codec", cfg.Codec)

	codec, err := model.CodecByName(cfg.Codec)
	if err != nil {
		return err
	}
	client, err := remote.New(cfg.Transport, cfg.Endpoint, codec, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	styles, err := buildStyles(cfg)
	if err != nil {
		return err
	}

	machine := view.NewMachine(view.Deps{
		Client: client,
		Styles: styles,
		Sync: network.Config{
			Interval:   cfg.PollInterval,
			MaxBackoff: cfg.MaxBackoff,
			StaleAfter: cfg.StaleAfter,
		},
	})

	game, err := display.New(machine, display.Options{
		Width:    cfg.WindowWidth,
		Height:   cfg.WindowHeight,
		FontPath: cfg.FontPath,
	})
	if err != nil {
		machine.Close()
		return err
	}
	return display.Run(game)
}

// buildStyles layers the user's rule file and filter over the kind colours.
func buildStyles(cfg config.Config) (*rules.Engine, error) {
	set := rules.DefaultRules()
	if cfg.RulesPath != "" {
		user, err := rules.LoadRules(cfg.RulesPath)
		if err != nil {
			return nil, err
		}
		set = append(set, user...)
		slog.Info("loaded style rules", "path", cfg.RulesPath, "count", len(user))
	}
	if cfg.Filter != "" {
		set = append(set, rules.FilterRule(cfg.Filter))
	}

	engine, err := rules.NewEngine(set)
	if err != nil {
		return nil, fmt.Errorf("compile style rules: %w", err)
	}
	return engine, nil
}
