// Package studio is the single editing screen: one StyleState tied to the
// asset catalog, with in-place text editing and confirmed deletion of custom
// assets.
package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"captionator/internal/assets"
	cimage "captionator/internal/image"
	"captionator/internal/style"
)

var (
	ErrNoPendingDeletion = errors.New("nothing awaiting confirmation")
	ErrUnknownPreset     = errors.New("unknown background preset")
)

// Prompt is the confirmation shown before a custom asset is deleted.
type Prompt struct {
	Title   string
	Message string
}

type deletionKind int

const (
	deleteFont deletionKind = iota + 1
	deleteBackground
)

type pending struct {
	kind deletionKind
	key  string
}

type Session struct {
	registry *assets.Registry

	mu      sync.Mutex
	state   style.State
	editing bool
	pending *pending

	// customBG is the id of the selected custom background, if any.
	customBG string
}

func NewSession(registry *assets.Registry) *Session {
	s := &Session{registry: registry, state: style.NewState()}
	if presets := registry.BackgroundPresets(); len(presets) > 0 {
		s.state.SetBackground(presets[0])
	}
	return s
}

// State returns a copy of the current style.
func (s *Session) State() style.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveLocked()
	st := s.state
	st.Background.Colors = append([]string(nil), s.state.Background.Colors...)
	return st
}

// Update applies fn to the style under the session lock.
func (s *Session) Update(fn func(*style.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveLocked()
	return fn(&s.state)
}

// resolveLocked drops selections whose custom asset is gone from the catalog.
// The catalog is shared, so another session may have deleted it.
func (s *Session) resolveLocked() {
	if !s.registry.HasFont(s.state.FontFamily) {
		s.state.SetFontFamily(style.DefaultFont)
	}
	if s.customBG == "" {
		return
	}
	if _, ok := s.registry.CustomBackground(s.customBG); !ok {
		s.customBG = ""
		if presets := s.registry.BackgroundPresets(); len(presets) > 0 {
			s.state.SetBackground(presets[0])
		}
	}
}

// SelectFont switches to key, or to System when key is not in the catalog.
// It reports whether key was used as given.
func (s *Session) SelectFont(key string) bool {
	known := s.registry.HasFont(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !known {
		s.state.SetFontFamily(style.DefaultFont)
		return false
	}
	s.state.SetFontFamily(key)
	return true
}

// FontName is the display name of the selected font.
func (s *Session) FontName() string {
	key := s.State().FontFamily
	if f, ok := s.registry.Font(key); ok {
		return f.Name
	}
	return key
}

func (s *Session) SelectBackground(bg style.Background) {
	s.mu.Lock()
	s.state.SetBackground(bg)
	s.customBG = ""
	s.mu.Unlock()
}

// SelectBackgroundPreset selects the i-th solid, gradient or transparent preset.
func (s *Session) SelectBackgroundPreset(i int) error {
	presets := s.registry.BackgroundPresets()
	if i < 0 || i >= len(presets) {
		return fmt.Errorf("%w: %d", ErrUnknownPreset, i)
	}
	s.SelectBackground(presets[i])
	return nil
}

func (s *Session) SelectPicture(id int) error {
	p, ok := s.registry.Picture(id)
	if !ok {
		return fmt.Errorf("%w: picture %d", assets.ErrUnknownBG, id)
	}
	s.SelectBackground(style.Picture(p.Name, p.URI))
	return nil
}

func (s *Session) SelectCustomBackground(id string) error {
	rec, ok := s.registry.CustomBackground(id)
	if !ok {
		return fmt.Errorf("%w: %s", assets.ErrUnknownBG, id)
	}
	s.AdoptCustomBackground(rec)
	return nil
}

// AdoptCustomBackground makes a freshly imported background the current one.
func (s *Session) AdoptCustomBackground(rec assets.CustomBackgroundRecord) {
	s.mu.Lock()
	s.state.SetBackground(style.Picture(rec.Name, rec.URI))
	s.customBG = rec.ID
	s.mu.Unlock()
}

// BeginEdit swaps the static text for the editable field.
func (s *Session) BeginEdit() {
	s.mu.Lock()
	s.editing = true
	s.mu.Unlock()
}

func (s *Session) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editing
}

// CommitEdit stores text and leaves edit mode.
func (s *Session) CommitEdit(text string) {
	s.mu.Lock()
	s.state.SetText(text)
	s.editing = false
	s.mu.Unlock()
}

func (s *Session) CancelEdit() {
	s.mu.Lock()
	s.editing = false
	s.mu.Unlock()
}

// RequestFontDeletion asks for confirmation before deleting a custom font.
func (s *Session) RequestFontDeletion(key string) (Prompt, error) {
	f, ok := s.registry.Font(key)
	if !ok || !f.Custom() {
		return Prompt{}, fmt.Errorf("%w: %s", assets.ErrUnknownFont, key)
	}
	s.setPending(&pending{kind: deleteFont, key: key})
	return Prompt{Title: "删除字体", Message: fmt.Sprintf("确定要删除字体 \"%s\" 吗？", f.Name)}, nil
}

// RequestBackgroundDeletion asks for confirmation before deleting a custom background.
func (s *Session) RequestBackgroundDeletion(id string) (Prompt, error) {
	b, ok := s.registry.CustomBackground(id)
	if !ok {
		return Prompt{}, fmt.Errorf("%w: %s", assets.ErrUnknownBG, id)
	}
	s.setPending(&pending{kind: deleteBackground, key: id})
	return Prompt{Title: "删除背景", Message: fmt.Sprintf("确定要删除背景 \"%s\" 吗？", b.Name)}, nil
}

func (s *Session) setPending(p *pending) {
	s.mu.Lock()
	s.pending = p
	s.mu.Unlock()
}

func (s *Session) PendingDeletion() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Session) Cancel() { s.setPending(nil) }

// Confirm performs the pending deletion. A selection that pointed at the
// deleted asset falls back to System or to the first background preset.
// A storage write failure is returned after the deletion took effect.
func (s *Session) Confirm(ctx context.Context) error {
	s.mu.Lock()
	p := s.pending
	s.pending = nil
	s.mu.Unlock()
	if p == nil {
		return ErrNoPendingDeletion
	}

	switch p.kind {
	case deleteFont:
		_, err := s.registry.RemoveCustomFont(ctx, p.key)
		if errors.Is(err, assets.ErrUnknownFont) {
			return err
		}
		s.mu.Lock()
		if s.state.FontFamily == p.key {
			s.state.SetFontFamily(style.DefaultFont)
		}
		s.mu.Unlock()
		return err

	case deleteBackground:
		removed, err := s.registry.RemoveCustomBackground(ctx, p.key)
		if errors.Is(err, assets.ErrUnknownBG) {
			return err
		}
		s.mu.Lock()
		if s.state.Background.Kind == style.KindPicture && s.state.Background.URI == removed.URI {
			presets := s.registry.BackgroundPresets()
			s.state.SetBackground(presets[0])
		}
		s.mu.Unlock()
		return err
	}
	return ErrNoPendingDeletion
}

// Layout describes the canvas as currently displayed.
func (s *Session) Layout(vp cimage.Viewport) cimage.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveLocked()
	return cimage.Compose(s.state, vp, s.editing)
}
