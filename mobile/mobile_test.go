package mobile

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"captionator/internal/services"
	"captionator/internal/style"
)

type denyHost struct{}

func (denyHost) RequestPermission(string) bool { return false }

type recordingShare struct {
	data        []byte
	mime, title string
}

func (r *recordingShare) CanShare() bool { return true }

func (r *recordingShare) Share(data []byte, mimeType, dialogTitle string) error {
	r.data, r.mime, r.title = data, mimeType, dialogTitle
	return nil
}

func newTestStudio(t *testing.T, host PermissionHost) *Studio {
	t.Helper()
	s, err := NewStudio(t.TempDir(), t.TempDir(), 390, 844, host)
	if err != nil {
		t.Fatalf("NewStudio: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func decodeState(t *testing.T, s *Studio) stateDTO {
	t.Helper()
	raw, err := s.StateJSON()
	if err != nil {
		t.Fatal(err)
	}
	var st stateDTO
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return st
}

func writeSamplePNG(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.NRGBA{R: 220, G: 120, B: 40, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "sunset.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestStudioEditAndRender(t *testing.T) {
	s := newTestStudio(t, nil)

	s.SetText("你好 world")
	if err := s.SetTextColor("blue"); !errors.Is(err, style.ErrInvalidColor) {
		t.Fatalf("expected ErrInvalidColor, got %v", err)
	}
	if err := s.SetTextAlign("justify"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCanvasRatio("16:9"); err != nil {
		t.Fatal(err)
	}
	s.SetFontSize(33)
	if st := decodeState(t, s); st.FontSize != 32 {
		t.Fatalf("SetFontSize(33) = %d, want 32", st.FontSize)
	}
	s.SetFontSize(100)

	st := decodeState(t, s)
	if st.Text != "你好 world" || st.TextAlign != "justify" || st.FontSize != 72 {
		t.Fatalf("state = %+v", st)
	}
	if st.Canvas != [2]int{350, 197} {
		t.Fatalf("canvas = %v", st.Canvas)
	}

	data, err := s.RenderPNG()
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 350 || b.Dy() != 197 {
		t.Fatalf("png = %v", b)
	}
}

func TestStudioBackgroundImportAndDeletion(t *testing.T) {
	s := newTestStudio(t, nil)

	if res, err := s.ImportBackground(""); err != nil || res != "" {
		t.Fatalf("cancelled pick = %q, %v", res, err)
	}

	raw, err := s.ImportBackground(writeSamplePNG(t))
	if err != nil {
		t.Fatalf("ImportBackground: %v", err)
	}
	var res importDTO
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatal(err)
	}
	if res.Name != "自定义背景 1" || res.Warning != "" {
		t.Fatalf("import result = %+v", res)
	}
	if bg := decodeState(t, s).Background; bg.Kind != "picture" || bg.Name != res.Name {
		t.Fatalf("imported background not selected: %+v", bg)
	}

	prompt, err := s.RequestBackgroundDeletion(res.ID)
	if err != nil {
		t.Fatal(err)
	}
	var p map[string]string
	if err := json.Unmarshal([]byte(prompt), &p); err != nil || p["title"] != "删除背景" {
		t.Fatalf("prompt = %s", prompt)
	}
	if err := s.ConfirmDeletion(); err != nil {
		t.Fatal(err)
	}
	if bg := decodeState(t, s).Background; bg.Name != style.DefaultBGName {
		t.Fatalf("background after deletion = %+v", bg)
	}
	if list, _ := s.CustomBackgroundsJSON(); list != "[]" {
		t.Fatalf("custom backgrounds = %s", list)
	}
}

func TestStudioPermissionDenied(t *testing.T) {
	s := newTestStudio(t, denyHost{})

	if _, err := s.SaveToLibrary(); !errors.Is(err, services.ErrPermissionDenied) {
		t.Fatalf("SaveToLibrary: expected ErrPermissionDenied, got %v", err)
	}
	if _, err := s.ImportBackground(writeSamplePNG(t)); !errors.Is(err, services.ErrPermissionDenied) {
		t.Fatalf("ImportBackground: expected ErrPermissionDenied, got %v", err)
	}
}

func TestStudioShareUsesDialogTitle(t *testing.T) {
	s := newTestStudio(t, nil)
	host := &recordingShare{}
	if err := s.Share(host); err != nil {
		t.Fatal(err)
	}
	if host.mime != "image/png" || host.title != "分享您的文字艺术" || len(host.data) == 0 {
		t.Fatalf("share = %q %q %d bytes", host.mime, host.title, len(host.data))
	}
}

func TestStudioRejectsNonFontFiles(t *testing.T) {
	s := newTestStudio(t, nil)
	path := filepath.Join(t.TempDir(), "font.woff")
	if err := os.WriteFile(path, []byte("wOFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportFont(path, ""); !errors.Is(err, services.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	fonts, err := s.FontsJSON()
	if err != nil {
		t.Fatal(err)
	}
	var list []map[string]any
	if err := json.Unmarshal([]byte(fonts), &list); err != nil || len(list) != 17 {
		t.Fatalf("fonts = %s", fonts)
	}
}
