package image

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"captionator/internal/style"
)

var ErrEmptyCanvas = errors.New("canvas has no size")

const checkerCell = 10

var (
	checkerDark  = color.NRGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 204}
	checkerLight = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 204}
)

// FaceSource hands out font faces by family key. An unknown key yields a
// usable fallback face together with a non-nil error.
type FaceSource interface {
	Face(key string, size float64) (font.Face, error)
}

// ImageOpener decodes the picture behind a local URI.
type ImageOpener interface {
	OpenImage(uri string) (image.Image, error)
}

type Renderer struct {
	faces     FaceSource
	opener    ImageOpener
	processor *Processor
	text      *TextRenderer
	logger    *slog.Logger
}

func NewRenderer(faces FaceSource, opener ImageOpener, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		faces:     faces,
		opener:    opener,
		processor: &Processor{},
		text:      &TextRenderer{},
		logger:    logger.With(slog.String("component", "renderer")),
	}
}

// Rasterize paints the background layer and then the text layer of l.
func (r *Renderer) Rasterize(ctx context.Context, l Layout) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Empty() {
		return nil, ErrEmptyCanvas
	}

	dc := gg.NewContext(l.Width, l.Height)
	if l.CornerRadius > 0 {
		dc.DrawRoundedRectangle(0, 0, float64(l.Width), float64(l.Height), l.CornerRadius)
		dc.Clip()
	}

	r.paintBackground(dc, l.Background.Resolve())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	face, err := r.faces.Face(l.Text.FontFamily, l.Text.FontSize)
	if face == nil {
		return nil, fmt.Errorf("font face %s: %w", l.Text.FontFamily, err)
	}
	if err != nil {
		r.logger.Warn("font fallback", "family", l.Text.FontFamily, "err", err)
	}
	r.text.Draw(dc, face, l.Text)

	return dc.Image(), nil
}

func (r *Renderer) paintBackground(dc *gg.Context, bg style.Background) {
	w, h := float64(dc.Width()), float64(dc.Height())

	switch bg.Kind {
	case style.KindGradient:
		grad := gg.NewLinearGradient(0, 0, w, h)
		last := float64(len(bg.Colors) - 1)
		for i, c := range bg.Colors {
			grad.AddColorStop(float64(i)/last, style.HexColorOr(c, style.White))
		}
		dc.SetFillStyle(grad)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()

	case style.KindTransparent:
		for y := 0; y < dc.Height(); y += checkerCell {
			for x := 0; x < dc.Width(); x += checkerCell {
				if (x/checkerCell+y/checkerCell)%2 == 0 {
					dc.SetColor(checkerDark)
				} else {
					dc.SetColor(checkerLight)
				}
				dc.DrawRectangle(float64(x), float64(y), checkerCell, checkerCell)
				dc.Fill()
			}
		}

	case style.KindPicture:
		img, err := r.opener.OpenImage(bg.URI)
		if err != nil {
			r.logger.Warn("picture background unavailable, painting white", "uri", bg.URI, "err", err)
			r.fill(dc, style.White)
			return
		}
		dc.DrawImage(r.processor.Cover(img, dc.Width(), dc.Height()), 0, 0)

	default:
		r.fill(dc, style.HexColorOr(bg.Color, style.White))
	}
}

func (r *Renderer) fill(dc *gg.Context, c color.Color) {
	dc.SetColor(c)
	dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
	dc.Fill()
}
