package config

type Config struct {
	BotToken    string `yaml:"-"`
	AssetsDir   string `yaml:"assets_dir"`
	DataDir     string `yaml:"data_dir"`
	TempDir     string `yaml:"temp_dir"`
	LibraryDir  string `yaml:"library_dir"`
	MaxFileSize int64  `yaml:"max_file_size"`

	Viewport    ViewportConfig    `yaml:"viewport"`
	Store       StoreConfig       `yaml:"store"`
	Features    FeaturesConfig    `yaml:"features"`
	Permissions PermissionsConfig `yaml:"permissions"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ViewportConfig is the logical screen the canvas is laid out against.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // "file", "sqlite" or "memory"
	Path   string `yaml:"path"`
}

type FeaturesConfig struct {
	CustomFonts       bool `yaml:"custom_fonts"`
	CustomBackgrounds bool `yaml:"custom_backgrounds"`
	PictureLibrary    bool `yaml:"picture_library"`
}

type PermissionsConfig struct {
	MediaLibraryWrite bool `yaml:"media_library_write"`
	PhotoLibraryRead  bool `yaml:"photo_library_read"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

func Defaults() Config {
	return Config{
		AssetsDir:   "./assets",
		DataDir:     "./data",
		TempDir:     "./temp",
		LibraryDir:  "./library",
		MaxFileSize: 10 * 1024 * 1024,
		Viewport:    ViewportConfig{Width: 390, Height: 844},
		Store:       StoreConfig{Driver: "file"},
		Features:    FeaturesConfig{CustomFonts: true, CustomBackgrounds: true, PictureLibrary: true},
		Permissions: PermissionsConfig{MediaLibraryWrite: true, PhotoLibraryRead: true},
		Logging:     LoggingConfig{Level: "info", Format: "console"},
	}
}
