package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zalando/go-keyring"
)

type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) Get(string, string) (string, error) { return s.token, s.err }

func stubKeyring(t *testing.T, s TokenStore) {
	old := tokenStore
	tokenStore = s
	t.Cleanup(func() { tokenStore = old })
}

func TestDefaultsWithoutEnv(t *testing.T) {
	stubKeyring(t, stubTokens{err: keyring.ErrNotFound})
	t.Setenv("TOKEN", "")
	t.Setenv("CAPTIONATOR_CONFIG", "")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Viewport.Width != 390 || cfg.Viewport.Height != 844 {
		t.Fatalf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Store.Driver != "file" || cfg.Store.Path != cfg.DataDir {
		t.Fatalf("store = %+v", cfg.Store)
	}
	if !cfg.Features.CustomFonts || !cfg.Features.PictureLibrary {
		t.Fatalf("features should default on: %+v", cfg.Features)
	}
	if cfg.BotToken != "" {
		t.Fatalf("BotToken = %q, want empty", cfg.BotToken)
	}
}

func TestEnvOverrides(t *testing.T) {
	stubKeyring(t, stubTokens{err: keyring.ErrNotFound})
	t.Setenv("CAPTIONATOR_CONFIG", "")
	t.Setenv("TOKEN", "abc")
	t.Setenv("VIEWPORT_WIDTH", "400")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("FEATURE_CUSTOM_FONTS", "off")
	t.Setenv("ALLOW_LIBRARY_WRITE", "no")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BotToken != "abc" {
		t.Fatalf("BotToken = %q", cfg.BotToken)
	}
	if cfg.Viewport.Width != 400 {
		t.Fatalf("Viewport.Width = %d", cfg.Viewport.Width)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Fatalf("Store.Driver = %q", cfg.Store.Driver)
	}
	if cfg.Features.CustomFonts {
		t.Fatalf("custom fonts should be disabled")
	}
	if cfg.Permissions.MediaLibraryWrite {
		t.Fatalf("library write should be denied")
	}
}

func TestInvalidEnvFallsBackToDefault(t *testing.T) {
	stubKeyring(t, stubTokens{err: keyring.ErrNotFound})
	t.Setenv("CAPTIONATOR_CONFIG", "")
	t.Setenv("VIEWPORT_HEIGHT", "tall")
	t.Setenv("STORE_DRIVER", "redis")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Viewport.Height != Defaults().Viewport.Height {
		t.Fatalf("Viewport.Height = %d", cfg.Viewport.Height)
	}
	if cfg.Store.Driver != "file" {
		t.Fatalf("Store.Driver = %q", cfg.Store.Driver)
	}
}

func TestYAMLFileThenEnv(t *testing.T) {
	stubKeyring(t, stubTokens{err: keyring.ErrNotFound})
	path := filepath.Join(t.TempDir(), "captionator.yaml")
	data := []byte("data_dir: /srv/captions\nviewport:\n  width: 500\nfeatures:\n  picture_library: false\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CAPTIONATOR_CONFIG", path)
	t.Setenv("VIEWPORT_WIDTH", "600")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DataDir != "/srv/captions" || cfg.Store.Path != "/srv/captions" {
		t.Fatalf("DataDir = %q, Store.Path = %q", cfg.DataDir, cfg.Store.Path)
	}
	if cfg.Viewport.Width != 600 {
		t.Fatalf("env should win over file: %d", cfg.Viewport.Width)
	}
	if cfg.Viewport.Height != 844 {
		t.Fatalf("unset file keys keep defaults: %d", cfg.Viewport.Height)
	}
	if cfg.Features.PictureLibrary {
		t.Fatalf("picture library should be disabled by file")
	}
}

func TestMissingConfigFile(t *testing.T) {
	stubKeyring(t, stubTokens{err: keyring.ErrNotFound})
	t.Setenv("CAPTIONATOR_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	if _, err := Load(nil); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestTokenFromKeyring(t *testing.T) {
	stubKeyring(t, stubTokens{token: "from-keychain"})
	t.Setenv("CAPTIONATOR_CONFIG", "")
	t.Setenv("TOKEN", "")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.BotToken != "from-keychain" {
		t.Fatalf("BotToken = %q", cfg.BotToken)
	}
}

func TestKeyringFailureIsNotFatal(t *testing.T) {
	stubKeyring(t, stubTokens{err: errors.New("dbus unavailable")})
	t.Setenv("CAPTIONATOR_CONFIG", "")
	t.Setenv("TOKEN", "")
	if _, err := Load(nil); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
}
