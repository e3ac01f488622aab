package permissions

import (
	"context"
	"testing"
)

func TestStaticGate(t *testing.T) {
	g := NewStaticGate(map[Permission]bool{MediaLibraryWrite: true, PhotoLibraryRead: false})
	ctx := context.Background()

	if s, err := g.Request(ctx, MediaLibraryWrite); err != nil || s != Granted {
		t.Fatalf("MediaLibraryWrite = %s, %v", s, err)
	}
	if s, err := g.Request(ctx, PhotoLibraryRead); err != nil || s != Denied {
		t.Fatalf("PhotoLibraryRead = %s, %v", s, err)
	}
	if s, err := g.Request(ctx, "camera"); err == nil || s != Denied {
		t.Fatalf("unknown permission = %s, %v", s, err)
	}
}

func TestStaticGateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewStaticGate(map[Permission]bool{MediaLibraryWrite: true})
	if s, err := g.Request(ctx, MediaLibraryWrite); err == nil || s != Denied {
		t.Fatalf("cancelled request = %s, %v", s, err)
	}
}
