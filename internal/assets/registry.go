// Package assets is the catalog of selectable fonts and backgrounds: bundled
// presets merged with user-imported custom records that are persisted
// write-through to a key-value store.
package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"captionator/internal/storage"
	"captionator/internal/style"
)

const (
	KeyCustomFonts       = "customFonts"
	KeyCustomBackgrounds = "customBackgrounds"
)

var (
	ErrFeatureDisabled = errors.New("feature disabled")
	ErrUnknownFont     = errors.New("unknown font")
	ErrUnknownBG       = errors.New("unknown background")
	ErrDuplicate       = errors.New("duplicate key")
)

const fontListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "value", "uri"],
    "properties": {
      "name":  {"type": "string"},
      "value": {"type": "string", "minLength": 1},
      "uri":   {"type": "string", "minLength": 1}
    }
  }
}`

const backgroundListSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "uri"],
    "properties": {
      "id":   {"type": "string", "minLength": 1},
      "name": {"type": "string"},
      "uri":  {"type": "string", "minLength": 1}
    }
  }
}`

// FontLoader is the font sink custom fonts are registered with.
type FontLoader interface {
	LoadFile(key, path string) error
	Unload(key string)
}

type Options struct {
	Features Features
	// PictureDir is where bundled picture presets live.
	PictureDir string
	// OwnedDir holds files copied in by imports; removing a custom record
	// deletes its file when it lives under this directory.
	OwnedDir string
}

type Registry struct {
	store  storage.KV
	loader FontLoader
	opts   Options
	logger *slog.Logger

	pictures []PictureBackground

	// fontsWrite and bgsWrite are held from snapshot through store.Set so the
	// store receives lists in the order memory changed. Take them before mu.
	fontsWrite sync.Mutex
	bgsWrite   sync.Mutex

	mu                sync.RWMutex
	customFonts       []FontRecord
	customBackgrounds []CustomBackgroundRecord
	reserved          map[string]struct{}
}

func NewRegistry(store storage.KV, loader FontLoader, opts Options, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	pictures := make([]PictureBackground, len(pictureBackgrounds))
	for i, p := range pictureBackgrounds {
		p.URI = filepath.Join(opts.PictureDir, p.File)
		pictures[i] = p
	}
	return &Registry{
		store:    store,
		loader:   loader,
		opts:     opts,
		logger:   logger.With(slog.String("component", "registry")),
		pictures: pictures,
	}
}

func (r *Registry) Features() Features { return r.opts.Features }

// Load replaces the custom lists with the persisted ones and re-registers the
// custom fonts. It never fails: unreadable or malformed data yields an empty
// list.
func (r *Registry) Load(ctx context.Context) {
	var fonts []FontRecord
	if r.opts.Features.CustomFonts {
		r.readList(ctx, KeyCustomFonts, fontListSchema, &fonts)
		for _, f := range fonts {
			if err := r.loader.LoadFile(f.Value, f.URI); err != nil {
				r.logger.Warn("custom font not loadable, falls back to System", "font", f.Value, "err", err)
			}
		}
	}

	var backgrounds []CustomBackgroundRecord
	if r.opts.Features.CustomBackgrounds {
		r.readList(ctx, KeyCustomBackgrounds, backgroundListSchema, &backgrounds)
	}

	r.mu.Lock()
	r.customFonts = fonts
	r.customBackgrounds = backgrounds
	r.mu.Unlock()

	r.logger.Info("catalog loaded", "custom_fonts", len(fonts), "custom_backgrounds", len(backgrounds))
}

func (r *Registry) readList(ctx context.Context, key, schema string, dst any) {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		r.logger.Warn("read custom list failed, using empty list", "key", key, "err", err)
		return
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		r.logger.Warn("malformed custom list, using empty list", "key", key, "err", err)
		return
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		r.logger.Warn("invalid custom list, using empty list", "key", key, "errors", strings.Join(msgs, "; "))
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		r.logger.Warn("decode custom list failed, using empty list", "key", key, "err", err)
	}
}

func (r *Registry) persist(ctx context.Context, key string, list any) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", storage.ErrStorageWrite, key, err)
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		r.logger.Error("persist custom list failed", "key", key, "err", err)
		if errors.Is(err, storage.ErrStorageWrite) {
			return err
		}
		return fmt.Errorf("%w: %s: %v", storage.ErrStorageWrite, key, err)
	}
	return nil
}

// ListFonts returns built-in fonts followed by custom fonts in import order.
func (r *Registry) ListFonts() []FontOption {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]FontOption, 0, len(builtinFonts)+len(r.customFonts))
	for _, f := range builtinFonts {
		out = append(out, FontOption{Name: f.Name, Value: f.Value})
	}
	for _, f := range r.customFonts {
		out = append(out, FontOption{Name: f.Name, Value: f.Value})
	}
	return out
}

func builtinFont(key string) (FontRecord, bool) {
	for _, f := range builtinFonts {
		if f.Value == key {
			return f, true
		}
	}
	return FontRecord{}, false
}

func (r *Registry) Font(key string) (FontRecord, bool) {
	if f, ok := builtinFont(key); ok {
		return f, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.customFonts {
		if f.Value == key {
			return f, true
		}
	}
	return FontRecord{}, false
}

func (r *Registry) HasFont(key string) bool {
	_, ok := r.Font(key)
	return ok
}

func (r *Registry) ListCustomFonts() []FontRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]FontRecord(nil), r.customFonts...)
}

func (r *Registry) AddCustomFont(ctx context.Context, rec FontRecord) error {
	if !r.opts.Features.CustomFonts {
		return fmt.Errorf("custom fonts: %w", ErrFeatureDisabled)
	}
	if _, builtin := builtinFont(rec.Value); builtin {
		return fmt.Errorf("%w: font %s", ErrDuplicate, rec.Value)
	}

	r.fontsWrite.Lock()
	defer r.fontsWrite.Unlock()

	r.mu.Lock()
	if r.hasCustomFontLocked(rec.Value) {
		r.mu.Unlock()
		return fmt.Errorf("%w: font %s", ErrDuplicate, rec.Value)
	}
	r.customFonts = append(r.customFonts, rec)
	snapshot := append(make([]FontRecord, 0, len(r.customFonts)), r.customFonts...)
	r.mu.Unlock()

	return r.persist(ctx, KeyCustomFonts, snapshot)
}

// RemoveCustomFont drops the record, unregisters the family and deletes an
// owned font file.
func (r *Registry) RemoveCustomFont(ctx context.Context, key string) (FontRecord, error) {
	r.fontsWrite.Lock()
	defer r.fontsWrite.Unlock()

	r.mu.Lock()
	idx := -1
	for i, f := range r.customFonts {
		if f.Value == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return FontRecord{}, fmt.Errorf("%w: %s", ErrUnknownFont, key)
	}
	removed := r.customFonts[idx]
	r.customFonts = append(r.customFonts[:idx:idx], r.customFonts[idx+1:]...)
	snapshot := append(make([]FontRecord, 0, len(r.customFonts)), r.customFonts...)
	r.mu.Unlock()

	r.loader.Unload(key)
	r.removeOwned(removed.URI)
	return removed, r.persist(ctx, KeyCustomFonts, snapshot)
}

// BackgroundPresets returns the solid, gradient and transparent presets.
func (r *Registry) BackgroundPresets() []style.Background {
	out := make([]style.Background, len(backgroundPresets))
	for i, b := range backgroundPresets {
		out[i] = b
		out[i].Colors = append([]string(nil), b.Colors...)
	}
	return out
}

// ListBackgrounds returns the picture presets of category. An empty category
// or CategoryAll returns every preset; anything else is an exact match.
func (r *Registry) ListBackgrounds(category string) []PictureBackground {
	if !r.opts.Features.PictureLibrary {
		return nil
	}
	if category == "" || category == CategoryAll {
		return append([]PictureBackground(nil), r.pictures...)
	}
	var out []PictureBackground
	for _, p := range r.pictures {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

func (r *Registry) Picture(id int) (PictureBackground, bool) {
	if !r.opts.Features.PictureLibrary {
		return PictureBackground{}, false
	}
	for _, p := range r.pictures {
		if p.ID == id {
			return p, true
		}
	}
	return PictureBackground{}, false
}

func (r *Registry) ListCustomBackgrounds() []CustomBackgroundRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]CustomBackgroundRecord(nil), r.customBackgrounds...)
}

func (r *Registry) CustomBackground(id string) (CustomBackgroundRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.customBackgrounds {
		if b.ID == id {
			return b, true
		}
	}
	return CustomBackgroundRecord{}, false
}

func (r *Registry) AddCustomBackground(ctx context.Context, rec CustomBackgroundRecord) error {
	if !r.opts.Features.CustomBackgrounds {
		return fmt.Errorf("custom backgrounds: %w", ErrFeatureDisabled)
	}
	r.bgsWrite.Lock()
	defer r.bgsWrite.Unlock()

	r.mu.Lock()
	if r.hasCustomBackgroundLocked(rec.ID) {
		r.mu.Unlock()
		return fmt.Errorf("%w: background %s", ErrDuplicate, rec.ID)
	}
	r.customBackgrounds = append(r.customBackgrounds, rec)
	snapshot := append(make([]CustomBackgroundRecord, 0, len(r.customBackgrounds)), r.customBackgrounds...)
	r.mu.Unlock()

	return r.persist(ctx, KeyCustomBackgrounds, snapshot)
}

func (r *Registry) RemoveCustomBackground(ctx context.Context, id string) (CustomBackgroundRecord, error) {
	r.bgsWrite.Lock()
	defer r.bgsWrite.Unlock()

	r.mu.Lock()
	idx := -1
	for i, b := range r.customBackgrounds {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return CustomBackgroundRecord{}, fmt.Errorf("%w: %s", ErrUnknownBG, id)
	}
	removed := r.customBackgrounds[idx]
	r.customBackgrounds = append(r.customBackgrounds[:idx:idx], r.customBackgrounds[idx+1:]...)
	snapshot := append(make([]CustomBackgroundRecord, 0, len(r.customBackgrounds)), r.customBackgrounds...)
	r.mu.Unlock()

	r.removeOwned(removed.URI)
	return removed, r.persist(ctx, KeyCustomBackgrounds, snapshot)
}

func (r *Registry) hasCustomFontLocked(key string) bool {
	for _, f := range r.customFonts {
		if f.Value == key {
			return true
		}
	}
	return false
}

func (r *Registry) hasCustomBackgroundLocked(id string) bool {
	for _, b := range r.customBackgrounds {
		if b.ID == id {
			return true
		}
	}
	return false
}

// ReserveFontKey claims base, or base_<n> when base is a built-in, a custom
// font or held by another import. The key stays claimed until release runs;
// AddCustomFont accepts it in the meantime.
func (r *Registry) ReserveFontKey(base string) (key string, release func()) {
	return r.reserve(base, func(k string) bool {
		_, builtin := builtinFont(k)
		return builtin || r.hasCustomFontLocked(k)
	})
}

// ReserveBackgroundID is ReserveFontKey for custom background ids.
func (r *Registry) ReserveBackgroundID(base string) (id string, release func()) {
	return r.reserve(base, r.hasCustomBackgroundLocked)
}

func (r *Registry) reserve(base string, taken func(string) bool) (string, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reserved == nil {
		r.reserved = make(map[string]struct{})
	}
	key := base
	for n := 1; ; n++ {
		if _, held := r.reserved[key]; !held && !taken(key) {
			break
		}
		key = fmt.Sprintf("%s_%d", base, n)
	}
	r.reserved[key] = struct{}{}

	var once sync.Once
	return key, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.reserved, key)
			r.mu.Unlock()
		})
	}
}

func (r *Registry) removeOwned(path string) {
	if r.opts.OwnedDir == "" || path == "" {
		return
	}
	rel, err := filepath.Rel(r.opts.OwnedDir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		r.logger.Warn("remove owned file failed", "path", path, "err", err)
	}
}
