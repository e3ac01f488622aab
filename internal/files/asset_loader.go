package files

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"captionator/internal/assets"
)

// Picture presets shipped as AVIF may also be present in one of these
// formats, which the decoder does support.
var alternateExts = []string{".webp", ".jpg", ".jpeg", ".png"}

// FontSink registers font files under a family key.
type FontSink interface {
	LoadFile(key, path string) error
}

// AssetLoader resolves the bundled asset tree: <assets>/fonts and <assets>/images.
type AssetLoader struct {
	fontsDir    string
	picturesDir string
	logger      *slog.Logger
}

func NewAssetLoader(assetsDir string, logger *slog.Logger) *AssetLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetLoader{
		fontsDir:    filepath.Join(assetsDir, "fonts"),
		picturesDir: filepath.Join(assetsDir, "images"),
		logger:      logger.With(slog.String("component", "assets")),
	}
}

func (l *AssetLoader) FontsDir() string    { return l.fontsDir }
func (l *AssetLoader) PicturesDir() string { return l.picturesDir }

// LoadBundledFonts registers every built-in font that ships a file. Missing
// or broken files are logged and skipped; those families render with the
// System fallback. It returns the number of fonts registered.
func (l *AssetLoader) LoadBundledFonts(sink FontSink, fonts []assets.FontRecord) int {
	loaded := 0
	for _, f := range fonts {
		if f.File == "" {
			continue
		}
		path := filepath.Join(l.fontsDir, f.File)
		if err := sink.LoadFile(f.Value, path); err != nil {
			l.logger.Warn("bundled font unavailable", "font", f.Value, "path", path, "err", err)
			continue
		}
		loaded++
	}
	l.logger.Info("bundled fonts loaded", "loaded", loaded, "total", len(fonts))
	return loaded
}

// OpenImage decodes the picture at uri. When it cannot be decoded as is, a
// sibling file with the same base name and a supported extension is tried.
func (l *AssetLoader) OpenImage(uri string) (image.Image, error) {
	img, err := openImage(uri)
	if err == nil {
		return img, nil
	}

	base := strings.TrimSuffix(uri, filepath.Ext(uri))
	for _, ext := range alternateExts {
		alt := base + ext
		if alt == uri {
			continue
		}
		if altImg, altErr := openImage(alt); altErr == nil {
			l.logger.Debug("picture decoded from alternate file", "uri", uri, "alt", alt)
			return altImg, nil
		}
	}
	return nil, err
}

func openImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// DecodeImage decodes an image file in any registered format. An unknown
// format is reported as image.ErrFormat.
func DecodeImage(path string) (image.Image, error) { return openImage(path) }
