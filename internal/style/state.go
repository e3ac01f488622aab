// Package style holds the user-chosen presentation parameters of a caption:
// text, font, colour, alignment, background and canvas ratio. Setters validate
// or clamp their input and never leave the state invalid.
package style

import (
	"errors"
	"fmt"
	"strings"
)

const (
	MinFontSize     = 10
	MaxFontSize     = 72
	FontSizeStep    = 2
	DefaultFontSize = 24

	DefaultText   = "您的文字"
	DefaultFont   = "System"
	DefaultColor  = "#000000"
	DefaultBGName = "白色"
)

var (
	ErrInvalidAlign = errors.New("invalid text alignment")
	ErrInvalidRatio = errors.New("invalid canvas ratio")
)

type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// Alignments lists the accepted alignments in display order.
var Alignments = []Align{AlignLeft, AlignCenter, AlignRight, AlignJustify}

func ParseAlign(s string) (Align, error) {
	a := Align(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Alignments {
		if a == known {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAlign, s)
}

// Label is the on-screen name of the alignment.
func (a Align) Label() string {
	switch a {
	case AlignLeft:
		return "左对齐"
	case AlignRight:
		return "右对齐"
	case AlignJustify:
		return "两端对齐"
	default:
		return "居中"
	}
}

type Ratio string

const (
	RatioSquare   Ratio = "1:1"
	RatioWide     Ratio = "16:9"
	RatioClassic  Ratio = "4:3"
	RatioPortrait Ratio = "3:4"
	DefaultRatio        = RatioSquare
)

// Ratios lists the accepted canvas ratios in display order.
var Ratios = []Ratio{RatioSquare, RatioWide, RatioClassic, RatioPortrait}

func ParseRatio(s string) (Ratio, error) {
	r := Ratio(strings.TrimSpace(s))
	for _, known := range Ratios {
		if r == known {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRatio, s)
}

// State is the mutable record of one composition. The zero value is not
// useful; start from NewState.
type State struct {
	Text        string
	FontSize    int
	FontFamily  string
	TextColor   string
	Background  Background
	TextAlign   Align
	CanvasRatio Ratio
}

func NewState() State {
	return State{
		Text:        DefaultText,
		FontSize:    DefaultFontSize,
		FontFamily:  DefaultFont,
		TextColor:   DefaultColor,
		Background:  Solid(DefaultBGName, "#FFFFFF"),
		TextAlign:   AlignCenter,
		CanvasRatio: DefaultRatio,
	}
}

func (s *State) SetText(text string) { s.Text = text }

// SetFontSize clamps n to [MinFontSize, MaxFontSize] and snaps it down onto
// the FontSizeStep grid starting at MinFontSize.
func (s *State) SetFontSize(n int) { s.FontSize = clampFontSize(n) }

func (s *State) IncreaseFontSize() { s.SetFontSize(s.FontSize + FontSizeStep) }

func (s *State) DecreaseFontSize() { s.SetFontSize(s.FontSize - FontSizeStep) }

// SetFontFamily stores the key as given. Callers resolve it against the
// asset registry first.
func (s *State) SetFontFamily(key string) {
	if strings.TrimSpace(key) == "" {
		key = DefaultFont
	}
	s.FontFamily = key
}

func (s *State) SetTextColor(hex string) error {
	if _, err := ParseHexColor(hex); err != nil {
		return err
	}
	s.TextColor = strings.ToUpper(strings.TrimSpace(hex))
	return nil
}

func (s *State) SetTextAlign(a Align) error {
	parsed, err := ParseAlign(string(a))
	if err != nil {
		return err
	}
	s.TextAlign = parsed
	return nil
}

func (s *State) SetCanvasRatio(r Ratio) error {
	parsed, err := ParseRatio(string(r))
	if err != nil {
		return err
	}
	s.CanvasRatio = parsed
	return nil
}

// SetBackground stores the resolved form of bg so the state always holds a
// renderable variant.
func (s *State) SetBackground(bg Background) { s.Background = bg.Resolve() }

func clampFontSize(n int) int {
	n = min(max(n, MinFontSize), MaxFontSize)
	return n - (n-MinFontSize)%FontSizeStep
}
