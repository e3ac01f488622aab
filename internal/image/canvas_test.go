package image

import (
	"strings"
	"testing"

	"captionator/internal/style"
)

func TestCanvasSize(t *testing.T) {
	phone := Viewport{Width: 390, Height: 844}
	tall := Viewport{Width: 400, Height: 2000}

	cases := []struct {
		ratio style.Ratio
		vp    Viewport
		w, h  int
	}{
		{style.RatioSquare, tall, 360, 360},
		{style.RatioWide, tall, 360, 203},
		{style.RatioClassic, tall, 360, 270},
		{style.RatioPortrait, tall, 360, 480},
		{style.RatioSquare, phone, 350, 338},
		{style.RatioWide, phone, 350, 197},
		{style.RatioClassic, phone, 350, 263},
		{style.RatioPortrait, phone, 350, 338},
		{style.RatioSquare, Viewport{Width: 30, Height: 800}, 0, 0},
	}
	for _, c := range cases {
		w, h := CanvasSize(c.ratio, c.vp)
		if w != c.w || h != c.h {
			t.Fatalf("CanvasSize(%s, %v) = %dx%d, want %dx%d", c.ratio, c.vp, w, h, c.w, c.h)
		}
	}
}

func TestComposeDefaults(t *testing.T) {
	s := style.NewState()
	l := Compose(s, Viewport{Width: 400, Height: 2000}, false)
	if l.Width != 360 || l.Height != 360 {
		t.Fatalf("size = %dx%d", l.Width, l.Height)
	}
	if l.Background.Kind != style.KindSolid || l.Background.Color != "#FFFFFF" {
		t.Fatalf("background = %+v", l.Background)
	}
	if l.Text.Content != style.DefaultText || l.Text.Padding != TextPadding || l.Text.Editable {
		t.Fatalf("text layer = %+v", l.Text)
	}

	s.SetBackground(style.Picture("broken", ""))
	edit := Compose(s, Viewport{Width: 400, Height: 2000}, true)
	if edit.Background.Kind != style.KindSolid || edit.Background.Color != "#FFFFFF" {
		t.Fatalf("unrenderable picture should resolve to white, got %+v", edit.Background)
	}
	if !edit.Text.Editable || edit.Text.Placeholder != Placeholder {
		t.Fatalf("editing layer = %+v", edit.Text)
	}
}

func runeMeasure(s string) float64 { return float64(len([]rune(s))) * 10 }

func lineStrings(lines []line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return out
}

func TestWrap(t *testing.T) {
	cases := []struct {
		text  string
		width float64
		want  []string
	}{
		{"hello world foo", 110, []string{"hello world", "foo"}},
		{"您的文字", 20, []string{"您的", "文字"}},
		{"abcdefghij", 35, []string{"abc", "def", "ghi", "j"}},
		{"a   b", 100, []string{"a b"}},
		{"one\n\ntwo", 100, []string{"one", "", "two"}},
		{"Go 语言", 30, []string{"Go", "语言"}},
	}
	for _, c := range cases {
		got := lineStrings(wrap(c.text, c.width, runeMeasure))
		if strings.Join(got, "|") != strings.Join(c.want, "|") {
			t.Fatalf("wrap(%q, %v) = %q, want %q", c.text, c.width, got, c.want)
		}
	}
}

func TestWrapMarksParagraphEnds(t *testing.T) {
	lines := wrap("aa bb cc\ndd", 50, runeMeasure)
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lineStrings(lines))
	}
	want := []bool{false, true, true}
	for i, l := range lines {
		if l.last != want[i] {
			t.Fatalf("line %d (%q) last = %v", i, l.String(), l.last)
		}
	}
}
