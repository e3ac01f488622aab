package image

import (
	"math"

	"captionator/internal/style"
)

const (
	// CanvasMargin is subtracted from the viewport width to get the canvas width.
	CanvasMargin = 40
	// MaxHeightShare caps the canvas height relative to the viewport height.
	MaxHeightShare = 0.4

	TextPadding  = 20
	CornerRadius = 16
	Placeholder  = "输入您的文字..."
)

// Viewport is the drawable area the canvas is laid out against.
type Viewport struct {
	Width  int
	Height int
}

// CanvasSize returns the canvas dimensions for ratio inside vp.
// Unknown ratios are treated as 1:1.
func CanvasSize(ratio style.Ratio, vp Viewport) (int, int) {
	w := float64(vp.Width - CanvasMargin)
	if w <= 0 {
		return 0, 0
	}

	var h float64
	switch ratio {
	case style.RatioWide:
		h = w * 9 / 16
	case style.RatioClassic:
		h = w * 3 / 4
	case style.RatioPortrait:
		h = w * 4 / 3
	default:
		h = w
	}

	if limit := float64(vp.Height) * MaxHeightShare; h > limit {
		h = limit
	}
	return int(math.Round(w)), int(math.Round(h))
}

// TextLayer describes the caption drawn over the background.
type TextLayer struct {
	Content     string
	FontFamily  string
	FontSize    float64
	Color       string
	Align       style.Align
	Padding     float64
	Editable    bool
	Placeholder string
}

// Layout is the complete, side-effect free description of one canvas: size,
// background layer and text layer. Rasterize turns it into pixels.
type Layout struct {
	Width        int
	Height       int
	CornerRadius float64
	Background   style.Background
	Text         TextLayer
}

func (l Layout) Empty() bool { return l.Width <= 0 || l.Height <= 0 }

// Compose lays out s for vp. When editing is set the text layer is the
// editable field pre-filled with the current text.
func Compose(s style.State, vp Viewport, editing bool) Layout {
	w, h := CanvasSize(s.CanvasRatio, vp)
	return Layout{
		Width:        w,
		Height:       h,
		CornerRadius: CornerRadius,
		Background:   s.Background.Resolve(),
		Text: TextLayer{
			Content:     s.Text,
			FontFamily:  s.FontFamily,
			FontSize:    float64(s.FontSize),
			Color:       s.TextColor,
			Align:       s.TextAlign,
			Padding:     TextPadding,
			Editable:    editing,
			Placeholder: Placeholder,
		},
	}
}
