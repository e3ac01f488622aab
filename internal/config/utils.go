package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

const (
	keyringService = "captionator"
	keyringToken   = "bot_token"
)

// TokenStore abstracts the OS keychain so tests can stub it.
type TokenStore interface {
	Get(service, user string) (string, error)
}

type osKeyring struct{}

func (osKeyring) Get(service, user string) (string, error) { return keyring.Get(service, user) }

var tokenStore TokenStore = osKeyring{}

// Load builds the configuration from defaults, the optional YAML file named by
// CAPTIONATOR_CONFIG and environment overrides. The bot token is read from TOKEN,
// falling back to the OS keychain.
func Load(logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := Defaults()

	if path := os.Getenv("CAPTIONATOR_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.AssetsDir = getEnv(logger, "ASSETS_DIR", cfg.AssetsDir, parseString)
	cfg.DataDir = getEnv(logger, "DATA_DIR", cfg.DataDir, parseString)
	cfg.TempDir = getEnv(logger, "TEMP_DIR", cfg.TempDir, parseString)
	cfg.LibraryDir = getEnv(logger, "LIBRARY_DIR", cfg.LibraryDir, parseString)
	cfg.MaxFileSize = getEnv(logger, "MAX_FILE_SIZE", cfg.MaxFileSize, parseInt64)

	cfg.Viewport.Width = getEnv(logger, "VIEWPORT_WIDTH", cfg.Viewport.Width, strconv.Atoi)
	cfg.Viewport.Height = getEnv(logger, "VIEWPORT_HEIGHT", cfg.Viewport.Height, strconv.Atoi)

	cfg.Store.Driver = getEnv(logger, "STORE_DRIVER", cfg.Store.Driver, parseDriver)
	cfg.Store.Path = getEnv(logger, "STORE_PATH", cfg.Store.Path, parseString)

	cfg.Features.CustomFonts = getEnv(logger, "FEATURE_CUSTOM_FONTS", cfg.Features.CustomFonts, parseBool)
	cfg.Features.CustomBackgrounds = getEnv(logger, "FEATURE_CUSTOM_BACKGROUNDS", cfg.Features.CustomBackgrounds, parseBool)
	cfg.Features.PictureLibrary = getEnv(logger, "FEATURE_PICTURE_LIBRARY", cfg.Features.PictureLibrary, parseBool)

	cfg.Permissions.MediaLibraryWrite = getEnv(logger, "ALLOW_LIBRARY_WRITE", cfg.Permissions.MediaLibraryWrite, parseBool)
	cfg.Permissions.PhotoLibraryRead = getEnv(logger, "ALLOW_PHOTO_READ", cfg.Permissions.PhotoLibraryRead, parseBool)

	cfg.Logging.Level = getEnv(logger, "LOG_LEVEL", cfg.Logging.Level, parseString)
	cfg.Logging.Format = getEnv(logger, "LOG_FORMAT", cfg.Logging.Format, parseString)
	cfg.Logging.Source = getEnv(logger, "LOG_SOURCE", cfg.Logging.Source, parseBool)
	cfg.Logging.File = getEnv(logger, "LOG_FILE", cfg.Logging.File, parseString)

	if cfg.Store.Path == "" {
		cfg.Store.Path = cfg.DataDir
	}

	cfg.BotToken = os.Getenv("TOKEN")
	if cfg.BotToken == "" {
		tok, err := tokenStore.Get(keyringService, keyringToken)
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Warn("keyring lookup failed", "err", err)
		}
		cfg.BotToken = tok
	}

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func getEnv[T any](logger *slog.Logger, key string, defaultValue T, parser func(string) (T, error)) T {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}

	parsed, err := parser(val)
	if err != nil {
		logger.Warn("invalid env value, using default", "key", key, "value", val, "default", defaultValue)
		return defaultValue
	}

	return parsed
}

func parseString(val string) (string, error) {
	return val, nil
}

func parseInt64(val string) (int64, error) {
	return strconv.ParseInt(val, 10, 64)
}

func parseBool(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "on", "yes":
		return true, nil
	case "0", "false", "off", "no":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", val)
}

func parseDriver(val string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(val)); v {
	case "file", "sqlite", "memory":
		return v, nil
	}
	return "", fmt.Errorf("unknown store driver %q", val)
}
