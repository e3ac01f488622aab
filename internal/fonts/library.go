// Package fonts is the font loading sink: it turns font files into families
// addressable by key. The "System" family is always present.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const SystemFamily = "System"

var ErrUnknownFamily = errors.New("unknown font family")

// Library maps font keys to parsed OpenType fonts.
type Library struct {
	mu     sync.RWMutex
	fonts  map[string]*opentype.Font
	system *opentype.Font
}

func NewLibrary() *Library {
	system, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("parse embedded system font: %v", err))
	}
	return &Library{
		fonts:  make(map[string]*opentype.Font),
		system: system,
	}
}

// LoadFile parses the TTF/OTF at path and registers it under key, replacing
// any previous font with that key. The key is usable once LoadFile returns nil.
func (l *Library) LoadFile(key, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	return l.LoadBytes(key, data)
}

func (l *Library) LoadBytes(key string, data []byte) error {
	if key == "" || key == SystemFamily {
		return fmt.Errorf("font key %q is reserved", key)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", key, err)
	}
	l.mu.Lock()
	l.fonts[key] = f
	l.mu.Unlock()
	return nil
}

func (l *Library) Unload(key string) {
	l.mu.Lock()
	delete(l.fonts, key)
	l.mu.Unlock()
}

func (l *Library) Has(key string) bool {
	if key == SystemFamily {
		return true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.fonts[key]
	return ok
}

// Face returns a face for key at size points (72 DPI, so points equal pixels).
// An unregistered key falls back to the System family and reports
// ErrUnknownFamily alongside the usable face.
func (l *Library) Face(key string, size float64) (font.Face, error) {
	f, known := l.lookup(key)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create face %s at %.1fpt: %w", key, size, err)
	}
	if !known {
		return face, fmt.Errorf("%w: %s", ErrUnknownFamily, key)
	}
	return face, nil
}

func (l *Library) lookup(key string) (*opentype.Font, bool) {
	if key == SystemFamily || key == "" {
		return l.system, true
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if f, ok := l.fonts[key]; ok {
		return f, true
	}
	return l.system, false
}
