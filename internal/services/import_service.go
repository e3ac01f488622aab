package services

import (
	"context"
	"errors"
	"fmt"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"captionator/internal/assets"
	"captionator/internal/files"
	cimage "captionator/internal/image"
	"captionator/internal/permissions"
	"captionator/internal/storage"
)

const (
	defaultFontName       = "CustomFont"
	customFontPrefix      = "CustomFont_"
	customBgPrefix        = "custom_"
	customBgNamePrefix    = "自定义背景 "
	backgroundJPEGQuality = 80
)

var fontExtensions = map[string]bool{"ttf": true, "otf": true}

// PickedFile is a file chosen by the user, already available locally.
type PickedFile struct {
	URI  string
	Name string
	Size int64
}

type PickOptions struct {
	AllowsEditing bool
	AspectX       int
	AspectY       int
	Quality       float64
}

// ImagePicker lets the user choose a picture from the photo library. It
// returns ErrUserCancelled when the user backs out.
type ImagePicker interface {
	PickImage(ctx context.Context, opts PickOptions) (PickedFile, error)
}

// FontRegistrar is the font sink imports register with.
type FontRegistrar interface {
	LoadFile(key, path string) error
	Unload(key string)
}

type ImportService struct {
	registry  *assets.Registry
	fonts     FontRegistrar
	gate      permissions.Gate
	processor *cimage.Processor
	dataDir   string
	now       func() time.Time
	logger    *slog.Logger
}

func NewImportService(registry *assets.Registry, fonts FontRegistrar, gate permissions.Gate, dataDir string, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{
		registry:  registry,
		fonts:     fonts,
		gate:      gate,
		processor: &cimage.Processor{},
		dataDir:   dataDir,
		now:       time.Now,
		logger:    logger.With(slog.String("component", "import")),
	}
}

// FontDir is where imported font files are kept.
func (s *ImportService) FontDir() string { return filepath.Join(s.dataDir, "fonts") }

// BackgroundDir is where imported background pictures are kept.
func (s *ImportService) BackgroundDir() string { return filepath.Join(s.dataDir, "backgrounds") }

// FontExtension returns the lower-cased text after the last dot of name.
func FontExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

// FontDisplayName strips a trailing .ttf or .otf, in any case.
func FontDisplayName(name string) string {
	if name == "" {
		return defaultFontName
	}
	lower := strings.ToLower(name)
	for _, ext := range []string{".ttf", ".otf"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// ImportFont copies a picked TTF/OTF file into the data directory, registers
// it with the font sink and records it. The record is only created once the
// font is usable. A storage failure after that is returned alongside the
// record, which stays available for the session.
func (s *ImportService) ImportFont(ctx context.Context, f PickedFile) (assets.FontRecord, error) {
	if err := ctx.Err(); err != nil {
		return assets.FontRecord{}, err
	}
	name := f.Name
	if name == "" {
		name = filepath.Base(f.URI)
	}
	ext := FontExtension(name)
	if !fontExtensions[ext] {
		return assets.FontRecord{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if !s.registry.Features().CustomFonts {
		return assets.FontRecord{}, fmt.Errorf("import font: %w", assets.ErrFeatureDisabled)
	}

	key, release := s.registry.ReserveFontKey(fmt.Sprintf("%s%d", customFontPrefix, s.now().UnixMilli()))
	defer release()
	dst := filepath.Join(s.FontDir(), key+"."+ext)
	if err := files.CopyFile(f.URI, dst); err != nil {
		return assets.FontRecord{}, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	if err := s.fonts.LoadFile(key, dst); err != nil {
		_ = os.Remove(dst)
		return assets.FontRecord{}, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}

	rec := assets.FontRecord{Name: FontDisplayName(name), Value: key, URI: dst}
	if err := s.registry.AddCustomFont(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrStorageWrite) {
			s.logger.Warn("font imported but not persisted", "font", key, "err", err)
			return rec, err
		}
		s.fonts.Unload(key)
		_ = os.Remove(dst)
		return assets.FontRecord{}, fmt.Errorf("record font: %w", err)
	}

	s.logger.Info("font imported", "font", key, "name", rec.Name, "bytes", f.Size)
	return rec, nil
}

// ImportBackgroundFromLibrary lets the user pick a picture, crops it square
// and stores it as a custom background.
func (s *ImportService) ImportBackgroundFromLibrary(ctx context.Context, picker ImagePicker) (assets.CustomBackgroundRecord, error) {
	status, err := s.gate.Request(ctx, permissions.PhotoLibraryRead)
	if err != nil {
		return assets.CustomBackgroundRecord{}, fmt.Errorf("request photo permission: %w", err)
	}
	if status != permissions.Granted {
		return assets.CustomBackgroundRecord{}, fmt.Errorf("%w: %s", ErrPermissionDenied, permissions.PhotoLibraryRead)
	}

	picked, err := picker.PickImage(ctx, PickOptions{AllowsEditing: true, AspectX: 1, AspectY: 1, Quality: 0.8})
	if err != nil {
		return assets.CustomBackgroundRecord{}, err
	}
	return s.ImportBackground(ctx, picked)
}

// ImportBackground stores an already picked picture as a custom background.
func (s *ImportService) ImportBackground(ctx context.Context, picked PickedFile) (assets.CustomBackgroundRecord, error) {
	if !s.registry.Features().CustomBackgrounds {
		return assets.CustomBackgroundRecord{}, fmt.Errorf("import background: %w", assets.ErrFeatureDisabled)
	}
	img, err := files.DecodeImage(picked.URI)
	if err != nil {
		return assets.CustomBackgroundRecord{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}

	id, release := s.registry.ReserveBackgroundID(fmt.Sprintf("%s%d", customBgPrefix, s.now().UnixMilli()))
	defer release()

	dst := filepath.Join(s.BackgroundDir(), id+".jpg")
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return assets.CustomBackgroundRecord{}, fmt.Errorf("create background dir: %w", err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return assets.CustomBackgroundRecord{}, fmt.Errorf("create %s: %w", dst, err)
	}
	err = jpeg.Encode(out, s.processor.CropToSquare(img), &jpeg.Options{Quality: backgroundJPEGQuality})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return assets.CustomBackgroundRecord{}, fmt.Errorf("write background: %w", err)
	}

	rec := assets.CustomBackgroundRecord{
		ID:   id,
		Name: fmt.Sprintf("%s%d", customBgNamePrefix, len(s.registry.ListCustomBackgrounds())+1),
		URI:  dst,
	}
	if err := s.registry.AddCustomBackground(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrStorageWrite) {
			s.logger.Warn("background imported but not persisted", "id", id, "err", err)
			return rec, err
		}
		_ = os.Remove(dst)
		return assets.CustomBackgroundRecord{}, fmt.Errorf("record background: %w", err)
	}

	s.logger.Info("background imported", "id", id, "name", rec.Name)
	return rec, nil
}

// IsFontFile reports whether name carries a supported font extension.
func IsFontFile(name string) bool { return fontExtensions[FontExtension(name)] }
