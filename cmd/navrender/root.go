package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/navgest/internal/config"
	"github.com/dgallion1/navgest/internal/content"
	"github.com/dgallion1/navgest/internal/dom"
	"github.com/dgallion1/navgest/internal/fragment"
	"github.com/dgallion1/navgest/internal/header"
	"github.com/dgallion1/navgest/internal/interact"
	"github.com/dgallion1/navgest/internal/parser"
	"golang.org/x/net/html"
)

var (
	policyFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "navrender",
	Short: "Render and exercise a navigation fragment offline",
	Long: `navrender parses an authored navigation fragment (HTML, Markdown or
Word), builds the navigation from it and either prints the decorated
markup, dumps the classified tree, or replays an event script against the
interaction controller.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "YAML navigation policy file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log recovery notes to stderr")
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	if policyFile != "" {
		if err := cfg.LoadPolicy(policyFile); err != nil {
			return config.Config{}, nil, err
		}
	}
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, log, nil
}

func parseFile(name string) (*content.Tree, error) {
	p, err := parser.ForFile(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open fragment: %w", err)
	}
	defer f.Close()
	tree, err := p.Parse(f, name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return tree, nil
}

// session is a navigation mounted on an offline page.
type session struct {
	c     *interact.Controller
	host  *html.Node
	clock *interact.ManualClock
}

func (s *session) html() string { return dom.RenderChildren(s.host) }

func mountFile(ctx context.Context, name string, width int) (*session, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	tree, err := parseFile(name)
	if err != nil {
		return nil, err
	}

	doc, host := header.NewPage(width, "")
	clock := interact.NewManualClock()
	c := header.Decorate(ctx, doc, host, header.Options{
		Source: fragment.Fixed(tree),
		Path:   cfg.NavPath,
		Policy: cfg.Policy,
		Interact: interact.Options{
			Breakpoints: cfg.Breakpoints,
			Timings:     cfg.Timings,
			Clock:       clock,
			Logger:      log,
		},
		Logger: log,
	})
	if c == nil {
		return nil, fmt.Errorf("mount %s: %w", name, fragment.ErrUnavailable)
	}
	return &session{c: c, host: host, clock: clock}, nil
}
