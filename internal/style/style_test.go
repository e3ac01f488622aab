package style

import (
	"errors"
	"image/color"
	"testing"
)

func TestFontSizeStaysInBounds(t *testing.T) {
	s := NewState()
	for i := 0; i < 50; i++ {
		s.IncreaseFontSize()
		if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
			t.Fatalf("FontSize out of bounds after increase: %d", s.FontSize)
		}
	}
	if s.FontSize != MaxFontSize {
		t.Fatalf("FontSize = %d, want %d", s.FontSize, MaxFontSize)
	}
	for i := 0; i < 50; i++ {
		s.DecreaseFontSize()
		if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
			t.Fatalf("FontSize out of bounds after decrease: %d", s.FontSize)
		}
	}
	if s.FontSize != MinFontSize {
		t.Fatalf("FontSize = %d, want %d", s.FontSize, MinFontSize)
	}

	s.SetFontSize(500)
	if s.FontSize != MaxFontSize {
		t.Fatalf("SetFontSize(500) = %d", s.FontSize)
	}
	s.SetFontSize(-3)
	if s.FontSize != MinFontSize {
		t.Fatalf("SetFontSize(-3) = %d", s.FontSize)
	}
}

func TestStepFromDefault(t *testing.T) {
	s := NewState()
	s.IncreaseFontSize()
	if s.FontSize != 26 {
		t.Fatalf("FontSize = %d, want 26", s.FontSize)
	}
	s.DecreaseFontSize()
	s.DecreaseFontSize()
	if s.FontSize != 22 {
		t.Fatalf("FontSize = %d, want 22", s.FontSize)
	}
}

func TestAlignAndRatioRestricted(t *testing.T) {
	s := NewState()
	if err := s.SetTextAlign("Right"); err != nil {
		t.Fatalf("SetTextAlign: %v", err)
	}
	if s.TextAlign != AlignRight {
		t.Fatalf("TextAlign = %q", s.TextAlign)
	}
	if err := s.SetTextAlign("middle"); !errors.Is(err, ErrInvalidAlign) {
		t.Fatalf("expected ErrInvalidAlign, got %v", err)
	}
	if s.TextAlign != AlignRight {
		t.Fatalf("rejected align must not change state")
	}

	if err := s.SetCanvasRatio("16:9"); err != nil {
		t.Fatalf("SetCanvasRatio: %v", err)
	}
	if err := s.SetCanvasRatio("21:9"); !errors.Is(err, ErrInvalidRatio) {
		t.Fatalf("expected ErrInvalidRatio, got %v", err)
	}
	if s.CanvasRatio != RatioWide {
		t.Fatalf("CanvasRatio = %q", s.CanvasRatio)
	}
}

func TestTextColor(t *testing.T) {
	s := NewState()
	if err := s.SetTextColor("#ffa500"); err != nil {
		t.Fatalf("SetTextColor: %v", err)
	}
	if s.TextColor != "#FFA500" {
		t.Fatalf("TextColor = %q", s.TextColor)
	}
	if err := s.SetTextColor("orange"); !errors.Is(err, ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if s.TextColor != "#FFA500" {
		t.Fatalf("rejected colour must not change state")
	}
}

func TestOddFontSizesSnapToStepGrid(t *testing.T) {
	s := NewState()
	s.SetFontSize(11)
	if s.FontSize != 10 {
		t.Fatalf("SetFontSize(11) = %d, want 10", s.FontSize)
	}
	s.IncreaseFontSize()
	if s.FontSize != 12 {
		t.Fatalf("after increase = %d, want 12", s.FontSize)
	}
	s.SetFontSize(71)
	if s.FontSize != 70 {
		t.Fatalf("SetFontSize(71) = %d, want 70", s.FontSize)
	}
	for n := MinFontSize - 5; n <= MaxFontSize+5; n++ {
		s.SetFontSize(n)
		if (s.FontSize-MinFontSize)%FontSizeStep != 0 {
			t.Fatalf("SetFontSize(%d) = %d is off the grid", n, s.FontSize)
		}
	}
}

func TestHexColorOr(t *testing.T) {
	if got := HexColorOr("#FF0000", Black); got != (color.NRGBA{R: 255, A: 255}) {
		t.Fatalf("valid colour = %v", got)
	}
	if got := HexColorOr("red", Black); got != Black {
		t.Fatalf("invalid colour should yield the fallback, got %v", got)
	}
}

func TestParseHexColor(t *testing.T) {
	cases := map[string]color.NRGBA{
		"#000000":   {A: 255},
		"#fff":      {R: 255, G: 255, B: 255, A: 255},
		"#FF6B6B":   {R: 0xFF, G: 0x6B, B: 0x6B, A: 255},
		"#00000080": {A: 0x80},
	}
	for in, want := range cases {
		got, err := ParseHexColor(in)
		if err != nil {
			t.Fatalf("ParseHexColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseHexColor(%q) = %v, want %v", in, got, want)
		}
	}
	for _, bad := range []string{"", "000000", "#12", "#GGGGGG", "#1234567"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Fatalf("ParseHexColor(%q) should fail", bad)
		}
	}
}

func TestBackgroundAlwaysResolves(t *testing.T) {
	cases := []struct {
		in   Background
		kind BackgroundKind
	}{
		{Solid("红色", "#FF0000"), KindSolid},
		{Solid("broken", "red"), KindSolid},
		{Gradient("日落", "#FF6B6B", "#4ECDC4"), KindGradient},
		{Gradient("one stop", "#FF6B6B"), KindSolid},
		{Gradient("bad stops", "#FF6B6B", "nope"), KindSolid},
		{Transparent("透明"), KindTransparent},
		{Picture("纹理", "/tmp/texture.jpg"), KindPicture},
		{Picture("empty", ""), KindSolid},
		{Background{Kind: "video"}, KindSolid},
		{Background{}, KindSolid},
	}
	for _, tc := range cases {
		got := tc.in.Resolve()
		if got.Kind != tc.kind {
			t.Fatalf("Resolve(%+v).Kind = %q, want %q", tc.in, got.Kind, tc.kind)
		}
		switch got.Kind {
		case KindSolid:
			if _, err := ParseHexColor(got.Color); err != nil {
				t.Fatalf("solid fallback has bad colour %q", got.Color)
			}
		case KindGradient:
			if len(got.Colors) < 2 {
				t.Fatalf("gradient with %d stops", len(got.Colors))
			}
		case KindPicture:
			if got.URI == "" {
				t.Fatalf("picture without uri")
			}
		case KindTransparent:
		default:
			t.Fatalf("unhandled kind %q", got.Kind)
		}
	}
}

func TestSetBackgroundResolves(t *testing.T) {
	s := NewState()
	s.SetBackground(Picture("gone", ""))
	if s.Background.Kind != KindSolid || s.Background.Color != "#FFFFFF" {
		t.Fatalf("Background = %+v", s.Background)
	}
}

func TestDefaults(t *testing.T) {
	s := NewState()
	if s.Text != "您的文字" || s.FontSize != 24 || s.FontFamily != "System" || s.TextColor != "#000000" {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.TextAlign != AlignCenter || s.CanvasRatio != RatioSquare {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	if s.Background.Kind != KindSolid || s.Background.Color != "#FFFFFF" {
		t.Fatalf("unexpected background: %+v", s.Background)
	}
}
