package files

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/goregular"

	"captionator/internal/assets"
)

type recordingSink struct{ keys []string }

func (s *recordingSink) LoadFile(key, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	s.keys = append(s.keys, key)
	return nil
}

func savePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestOpenImageAlternateExtension(t *testing.T) {
	dir := t.TempDir()
	l := NewAssetLoader(dir, nil)
	if err := os.MkdirAll(l.PicturesDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	savePNG(t, filepath.Join(l.PicturesDir(), "brown-texture.png"))

	img, err := l.OpenImage(filepath.Join(l.PicturesDir(), "brown-texture.avif"))
	if err != nil {
		t.Fatalf("OpenImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("bounds = %v", b)
	}

	if _, err := l.OpenImage(filepath.Join(l.PicturesDir(), "missing.jpg")); err == nil {
		t.Fatalf("expected error for missing picture")
	}
}

func TestDecodeImageUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeImage(path); !errors.Is(err, image.ErrFormat) {
		t.Fatalf("expected image.ErrFormat, got %v", err)
	}
}

func TestLoadBundledFonts(t *testing.T) {
	dir := t.TempDir()
	l := NewAssetLoader(dir, nil)
	if err := os.MkdirAll(l.FontsDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(l.FontsDir(), "Slidefu-Regular-2.ttf"), goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}

	sink := &recordingSink{}
	n := l.LoadBundledFonts(sink, assets.BuiltinFonts())
	if n != 1 || len(sink.keys) != 1 || sink.keys[0] != "Slidefu" {
		t.Fatalf("loaded %d: %v", n, sink.keys)
	}
}

func TestDirLibrarySave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "library")
	lib, err := NewDirLibrary(dir)
	if err != nil {
		t.Fatal(err)
	}
	lib.now = func() time.Time { return time.UnixMilli(1700000000123) }

	path, err := lib.Save(context.Background(), []byte("png"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "caption_1700000000123.png" {
		t.Fatalf("path = %s", path)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 || strings.HasPrefix(entries[0].Name(), ".") {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestDirLibrarySaveSameMillisecond(t *testing.T) {
	dir := t.TempDir()
	lib, err := NewDirLibrary(dir)
	if err != nil {
		t.Fatal(err)
	}
	lib.now = func() time.Time { return time.UnixMilli(1700000000123) }

	first, err := lib.Save(context.Background(), []byte("first"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := lib.Save(context.Background(), []byte("second"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(second) != "caption_1700000000123_1.png" {
		t.Fatalf("second path = %s", second)
	}
	if data, _ := os.ReadFile(first); string(data) != "first" {
		t.Fatalf("first save overwritten: %q", data)
	}
	if data, _ := os.ReadFile(second); string(data) != "second" {
		t.Fatalf("second save = %q", data)
	}
}

func TestCopyFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.ttf")
	if err := os.WriteFile(src, []byte("font"), 0o600); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(t.TempDir(), "nested", "b.ttf")
	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile: %v", err)
	}
	if data, _ := os.ReadFile(dst); string(data) != "font" {
		t.Fatalf("copied = %q", data)
	}
	if err := CopyFile(filepath.Join(t.TempDir(), "missing"), dst); err == nil {
		t.Fatalf("expected error for missing source")
	}
}
