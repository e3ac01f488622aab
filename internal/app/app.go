// Package app assembles the rendering core shared by the chat bot and the
// mobile bindings.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"captionator/internal/assets"
	"captionator/internal/config"
	"captionator/internal/files"
	"captionator/internal/fonts"
	cimage "captionator/internal/image"
	"captionator/internal/permissions"
	"captionator/internal/services"
	"captionator/internal/storage"
)

// Core holds the long-lived components of one studio process.
type Core struct {
	Store    storage.KV
	Fonts    *fonts.Library
	Loader   *files.AssetLoader
	Registry *assets.Registry
	Renderer *cimage.Renderer
	Importer *services.ImportService
	Exporter *services.ExportService
	Viewport cimage.Viewport

	closers []func() error
}

// New opens the configured store, registers the bundled fonts, loads the
// persisted custom records and builds the services on top of them.
// A nil gate is replaced by a StaticGate built from cfg.Permissions.
func New(ctx context.Context, cfg *config.Config, gate permissions.Gate, logger *slog.Logger) (*Core, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if gate == nil {
		gate = GateFromConfig(cfg.Permissions)
	}

	c := &Core{Viewport: cimage.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}}

	store, closeStore, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	c.Store = store
	if closeStore != nil {
		c.closers = append(c.closers, closeStore)
	}

	c.Fonts = fonts.NewLibrary()
	c.Loader = files.NewAssetLoader(cfg.AssetsDir, logger)
	n := c.Loader.LoadBundledFonts(c.Fonts, assets.BuiltinFonts())
	logger.Info("bundled fonts loaded", "count", n, "dir", c.Loader.FontsDir())

	c.Registry = assets.NewRegistry(store, c.Fonts, assets.Options{
		Features: assets.Features{
			CustomFonts:       cfg.Features.CustomFonts,
			CustomBackgrounds: cfg.Features.CustomBackgrounds,
			PictureLibrary:    cfg.Features.PictureLibrary,
		},
		PictureDir: c.Loader.PicturesDir(),
		OwnedDir:   cfg.DataDir,
	}, logger)
	c.Registry.Load(ctx)

	library, err := files.NewDirLibrary(cfg.LibraryDir)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Renderer = cimage.NewRenderer(c.Fonts, c.Loader, logger)
	c.Exporter = services.NewExportService(c.Renderer, library, gate, logger)
	c.Importer = services.NewImportService(c.Registry, c.Fonts, gate, cfg.DataDir, logger)
	return c, nil
}

// OpenStore returns the key-value store named by sc.Driver and, for drivers
// holding a handle, the func releasing it.
func OpenStore(ctx context.Context, sc config.StoreConfig) (storage.KV, func() error, error) {
	switch sc.Driver {
	case "", "file":
		s, err := storage.NewFileStore(filepath.Join(sc.Path, "store"))
		if err != nil {
			return nil, nil, err
		}
		return s, nil, nil
	case "sqlite":
		s, err := storage.OpenSQLite(ctx, sc.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "memory":
		return storage.NewMemoryStore(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
}

// GateFromConfig grants exactly the permissions enabled in the config.
func GateFromConfig(p config.PermissionsConfig) permissions.Gate {
	return permissions.NewStaticGate(map[permissions.Permission]bool{
		permissions.MediaLibraryWrite: p.MediaLibraryWrite,
		permissions.PhotoLibraryRead:  p.PhotoLibraryRead,
	})
}

// Close releases the store.
func (c *Core) Close() error {
	var errs []error
	for _, fn := range c.closers {
		errs = append(errs, fn())
	}
	c.closers = nil
	return errors.Join(errs...)
}
