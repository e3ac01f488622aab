package image

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

type Processor struct{}

func (p *Processor) CropToSquare(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w == h {
		return img
	}

	var crop image.Rectangle
	if w > h {
		offset := (w - h) / 2
		crop = image.Rect(b.Min.X+offset, b.Min.Y, b.Min.X+offset+h, b.Max.Y)
	} else {
		offset := (h - w) / 2
		crop = image.Rect(b.Min.X, b.Min.Y+offset, b.Max.X, b.Min.Y+offset+w)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, crop.Min, draw.Src)
	return rgba
}

// Cover scales img so it fills w x h and crops the overflow evenly on both
// sides, like a "cover" image fit.
func (p *Processor) Cover(img image.Image, w, h int) image.Image {
	b := img.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	}

	// scale to the larger of the two ratios so both sides are covered
	tw, th := w, sh*w/sw
	if th < h {
		tw, th = sw*h/sh, h
	}
	scaled := resize.Resize(uint(max(tw, w)), uint(max(th, h)), img, resize.Lanczos3)

	sb := scaled.Bounds()
	offset := image.Pt(sb.Min.X+(sb.Dx()-w)/2, sb.Min.Y+(sb.Dy()-h)/2)
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), scaled, offset, draw.Src)
	return out
}
