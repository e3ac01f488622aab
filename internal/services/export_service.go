package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"

	cimage "captionator/internal/image"
	"captionator/internal/permissions"
)

const (
	ShareMimeType    = "image/png"
	ShareDialogTitle = "分享您的文字艺术"
)

// Rasterizer turns a layout into pixels.
type Rasterizer interface {
	Rasterize(ctx context.Context, l cimage.Layout) (image.Image, error)
}

// Raster is a captured canvas, PNG-encoded once.
type Raster struct {
	Image  image.Image
	PNG    []byte
	Width  int
	Height int
}

type ShareOptions struct {
	MimeType    string
	DialogTitle string
}

// ShareSink hands an exported image to whatever share facility the
// platform has.
type ShareSink interface {
	Available(ctx context.Context) bool
	Share(ctx context.Context, r *Raster, opts ShareOptions) error
}

// LibraryWriter stores a PNG in the user's photo library.
type LibraryWriter interface {
	Save(ctx context.Context, png []byte) (string, error)
}

type ExportService struct {
	renderer Rasterizer
	library  LibraryWriter
	gate     permissions.Gate
	logger   *slog.Logger
}

func NewExportService(renderer Rasterizer, library LibraryWriter, gate permissions.Gate, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		renderer: renderer,
		library:  library,
		gate:     gate,
		logger:   logger.With(slog.String("component", "export")),
	}
}

// Capture rasterizes the layout exactly as displayed and encodes it as PNG.
func (s *ExportService) Capture(ctx context.Context, l cimage.Layout) (*Raster, error) {
	if l.Empty() {
		return nil, fmt.Errorf("%w: canvas not laid out", ErrCapture)
	}
	img, err := s.renderer.Rasterize(ctx, l)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCapture, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrCapture, err)
	}

	b := img.Bounds()
	s.logger.Debug("canvas captured", "width", b.Dx(), "height", b.Dy(), "bytes", buf.Len())
	return &Raster{Image: img, PNG: buf.Bytes(), Width: b.Dx(), Height: b.Dy()}, nil
}

// Share passes r to sink. When sharing is unavailable nothing happens.
func (s *ExportService) Share(ctx context.Context, sink ShareSink, r *Raster) error {
	if sink == nil || !sink.Available(ctx) {
		s.logger.Info("share unavailable, skipped")
		return nil
	}
	opts := ShareOptions{MimeType: ShareMimeType, DialogTitle: ShareDialogTitle}
	if err := sink.Share(ctx, r, opts); err != nil {
		return fmt.Errorf("share image: %w", err)
	}
	return nil
}

// SaveToLibrary asks for write access first; on denial nothing is written.
func (s *ExportService) SaveToLibrary(ctx context.Context, r *Raster) (string, error) {
	status, err := s.gate.Request(ctx, permissions.MediaLibraryWrite)
	if err != nil {
		return "", fmt.Errorf("request library permission: %w", err)
	}
	if status != permissions.Granted {
		return "", fmt.Errorf("%w: %s", ErrPermissionDenied, permissions.MediaLibraryWrite)
	}

	path, err := s.library.Save(ctx, r.PNG)
	if err != nil {
		return "", fmt.Errorf("save to library: %w", err)
	}
	s.logger.Info("image saved to library", "path", path)
	return path, nil
}
