/*
Package cli implements the palette command-line interface.

Every command opens the same application state: configuration, command
registry from the manifest, interaction log bound to the configured
storage backend, and a Palette over them.
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/khanglvm/cmd-palette/internal/config"
	"github.com/khanglvm/cmd-palette/internal/history"
	"github.com/khanglvm/cmd-palette/internal/palette"
	"github.com/khanglvm/cmd-palette/internal/registry"
	"github.com/khanglvm/cmd-palette/internal/storage"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	Verbose    bool
}

// Globals is bound to the root command's persistent flags.
var Globals GlobalOptions

// app is the state one CLI invocation works with.
type app struct {
	cfg          *config.Config
	cfgPath      string
	manifestPath string
	store        storage.Store
	persister    *history.Persister
	palette      *palette.Palette
}

// openApp loads configuration, manifest and history.
// A missing manifest yields an empty registry.
func openApp(ctx context.Context) (*app, error) {
	cfgPath := Globals.ConfigPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}

	manifestPath, err := cfg.ManifestPath()
	if err != nil {
		return nil, err
	}
	dir, err := cfg.HistoryDir()
	if err != nil {
		return nil, err
	}

	// Parse the manifest while the store opens its database.
	var reg *registry.Registry
	var store storage.Store
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		loaded, err := registry.LoadManifest(manifestPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			log.Warn().Str("path", manifestPath).Msg("No command manifest found; run 'palette init' to create one")
			loaded = registry.New(nil)
		}
		reg = loaded
		return nil
	})
	g.Go(func() error {
		s, err := storage.New(cfg.History.Backend, dir)
		if err != nil {
			return err
		}
		if err := s.Init(); err != nil {
			log.Warn().Err(err).Msg("History storage unavailable; selections will not be saved")
		}
		store = s
		return nil
	})
	if err := g.Wait(); err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}

	a := newApp(ctx, cfg, reg, store)
	a.cfgPath = cfgPath
	a.manifestPath = manifestPath
	return a, nil
}

// newApp wires a palette over reg and a log loaded from store.
func newApp(ctx context.Context, cfg *config.Config, reg *registry.Registry, store storage.Store) *app {
	persister := history.NewPersister(store)
	l := history.Open(ctx, store,
		history.WithMaxEvents(cfg.History.MaxEvents),
		history.WithPersister(persister),
	)

	p := palette.New(reg, l,
		palette.WithLimit(cfg.Palette.MaxResults),
		palette.WithHidden(cfg.Hidden),
		palette.WithStartup(cfg.Startup),
		palette.WithAnalytics(store),
	)

	return &app{
		cfg:       cfg,
		store:     store,
		persister: persister,
		palette:   p,
	}
}

// saveConfig writes the (possibly modified) configuration back.
func (a *app) saveConfig() error {
	if a.cfgPath == "" {
		return fmt.Errorf("no config path")
	}
	return config.Save(a.cfg, a.cfgPath)
}

// Close waits for pending analytics, flushes history and closes storage.
func (a *app) Close() error {
	a.palette.Wait()
	a.persister.Stop()
	return a.store.Close()
}

// withApp opens the app, runs fn and closes it.
func withApp(ctx context.Context, fn func(*app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("Failed to close storage")
		}
	}()
	return fn(a)
}
