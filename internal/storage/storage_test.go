package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "customFonts"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
	if err := kv.Set(ctx, "customFonts", []byte(`[{"name":"A"}]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, "customFonts", []byte(`[{"name":"B"}]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := kv.Get(ctx, "customFonts")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"name":"B"}]` {
		t.Fatalf("Get = %s", got)
	}
	if _, err := kv.Get(ctx, "customBackgrounds"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("keys must be independent, got %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseKV(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	exerciseKV(t, s)

	if _, err := os.Stat(filepath.Join(dir, "customFonts.json")); err != nil {
		t.Fatalf("expected customFonts.json: %v", err)
	}
	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Fatalf("temp files left behind: %v", matches)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := reopened.Get(context.Background(), "customFonts")
	if err != nil || string(got) != `[{"name":"B"}]` {
		t.Fatalf("reopened Get = %s, %v", got, err)
	}
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(context.Background(), "../escape", []byte("x")); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestSQLiteStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	exerciseKV(t, s)
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenSQLite(ctx, dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = reopened.Close() })
	got, err := reopened.Get(ctx, "customFonts")
	if err != nil || string(got) != `[{"name":"B"}]` {
		t.Fatalf("reopened Get = %s, %v", got, err)
	}
}

func TestRenderStateStore(t *testing.T) {
	s := NewRenderStateStore()
	const chat = int64(42)

	if s.GetMode(chat) != ModeNone {
		t.Fatalf("new chat should have ModeNone")
	}
	s.SetMode(chat, ModeAwaitingFont)
	if !s.TryStart(chat) {
		t.Fatalf("first TryStart should succeed")
	}
	if s.TryStart(chat) {
		t.Fatalf("second TryStart should be rejected while processing")
	}
	s.Reset(chat)
	if s.GetMode(chat) != ModeNone {
		t.Fatalf("Reset must clear the mode")
	}
	if s.TryStart(chat) {
		t.Fatalf("Reset must keep an in-flight action guarded")
	}
	s.SetMode(chat, ModeAwaitingFont)
	s.Finish(chat)
	if s.GetMode(chat) != ModeAwaitingFont {
		t.Fatalf("Finish must keep the mode")
	}
	if !s.TryStart(chat) {
		t.Fatalf("TryStart after Finish should succeed")
	}
	s.Finish(chat)
	if !s.TryStart(99) {
		t.Fatalf("TryStart on unknown chat should succeed")
	}
}
