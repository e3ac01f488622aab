package image

import (
	"strings"
	"unicode"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"captionator/internal/style"
)

const lineSpacing = 1.2

var placeholderColor = style.HexColorOr("#999999", style.Black)

type token struct {
	text  string
	space bool // preceded by whitespace in the source
}

type line struct {
	tokens []token
	last   bool // last line of its paragraph
}

// tokenize splits a paragraph into breakable units: space-separated words,
// with every CJK ideograph standing on its own since those scripts wrap
// between any two characters.
func tokenize(paragraph string) []token {
	var (
		out   []token
		cur   strings.Builder
		space bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, token{text: cur.String(), space: space})
			cur.Reset()
			space = false
		}
	}
	for _, r := range paragraph {
		switch {
		case unicode.IsSpace(r):
			flush()
			space = len(out) > 0
		case breaksAnywhere(r):
			flush()
			out = append(out, token{text: string(r), space: space})
			space = false
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func breaksAnywhere(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		unicode.Is(unicode.P, r) && r > 0x2E7F
}

type measureFunc func(string) float64

// wrap breaks text into lines no wider than width. Words wider than width
// are split by rune.
func wrap(text string, width float64, measure measureFunc) []line {
	spaceW := measure(" ")
	var lines []line
	for _, para := range strings.Split(text, "\n") {
		var (
			cur  []token
			curW float64
		)
		emit := func(last bool) {
			lines = append(lines, line{tokens: cur, last: last})
			cur, curW = nil, 0
		}
		for _, t := range tokenize(para) {
			tw := measure(t.text)
			gap := 0.0
			if len(cur) > 0 && t.space {
				gap = spaceW
			}
			if len(cur) > 0 && curW+gap+tw > width {
				emit(false)
				gap = 0
			}
			if len(cur) == 0 && tw > width {
				for _, piece := range splitRunes(t.text, width, measure) {
					if len(cur) > 0 {
						emit(false)
					}
					cur = []token{{text: piece}}
					curW = measure(piece)
				}
				continue
			}
			cur = append(cur, t)
			curW += gap + tw
		}
		emit(true)
	}
	return lines
}

func splitRunes(s string, width float64, measure measureFunc) []string {
	var (
		out []string
		cur []rune
	)
	for _, r := range s {
		if len(cur) > 0 && measure(string(append(cur, r))) > width {
			out = append(out, string(cur))
			cur = cur[:0]
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

func (l line) String() string {
	var b strings.Builder
	for i, t := range l.tokens {
		if i > 0 && t.space {
			b.WriteByte(' ')
		}
		b.WriteString(t.text)
	}
	return b.String()
}

// TextRenderer draws a TextLayer centred inside the canvas.
type TextRenderer struct{}

func (tr *TextRenderer) Draw(dc *gg.Context, face font.Face, layer TextLayer) {
	content := layer.Content
	col := style.HexColorOr(layer.Color, style.Black)
	if layer.Editable && content == "" {
		content = layer.Placeholder
		col = placeholderColor
	}
	if strings.TrimSpace(content) == "" {
		return
	}

	dc.SetFontFace(face)
	dc.SetColor(col)

	measure := func(s string) float64 {
		w, _ := dc.MeasureString(s)
		return w
	}

	left := layer.Padding
	inner := float64(dc.Width()) - 2*layer.Padding
	if inner <= 0 {
		return
	}
	lines := wrap(content, inner, measure)

	m := face.Metrics()
	ascent := float64(m.Ascent) / 64
	glyphH := ascent + float64(m.Descent)/64
	lineH := layer.FontSize * lineSpacing
	if lineH < glyphH {
		lineH = glyphH
	}

	blockH := lineH * float64(len(lines))
	top := (float64(dc.Height()) - blockH) / 2
	spaceW := measure(" ")

	for i, ln := range lines {
		baseline := top + float64(i)*lineH + (lineH-glyphH)/2 + ascent
		if layer.Align == style.AlignJustify && !ln.last && len(ln.tokens) > 1 {
			tr.drawJustified(dc, ln, left, inner, baseline, spaceW, measure)
			continue
		}

		s := ln.String()
		switch layer.Align {
		case style.AlignLeft, style.AlignJustify:
			dc.DrawString(s, left, baseline)
		case style.AlignRight:
			dc.DrawStringAnchored(s, left+inner, baseline, 1, 0)
		default:
			dc.DrawStringAnchored(s, left+inner/2, baseline, 0.5, 0)
		}
	}
}

// drawJustified spreads the slack of a line evenly over its token gaps.
func (tr *TextRenderer) drawJustified(dc *gg.Context, ln line, left, width, baseline, spaceW float64, measure measureFunc) {
	widths := make([]float64, len(ln.tokens))
	natural := 0.0
	for i, t := range ln.tokens {
		widths[i] = measure(t.text)
		natural += widths[i]
		if i > 0 && t.space {
			natural += spaceW
		}
	}
	extra := (width - natural) / float64(len(ln.tokens)-1)
	if extra < 0 {
		extra = 0
	}

	x := left
	for i, t := range ln.tokens {
		if i > 0 {
			x += extra
			if t.space {
				x += spaceW
			}
		}
		dc.DrawString(t.text, x, baseline)
		x += widths[i]
	}
}
