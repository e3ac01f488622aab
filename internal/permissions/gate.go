// Package permissions answers whether the user allowed access to the device
// photo library.
package permissions

import (
	"context"
	"fmt"
)

type Permission string

const (
	MediaLibraryWrite Permission = "media_library_write"
	PhotoLibraryRead  Permission = "photo_library_read"
)

type Status string

const (
	Granted Status = "granted"
	Denied  Status = "denied"
)

type Gate interface {
	Request(ctx context.Context, p Permission) (Status, error)
}

// StaticGate answers from a fixed table; anything not listed is denied.
type StaticGate struct {
	granted map[Permission]bool
}

func NewStaticGate(grants map[Permission]bool) *StaticGate {
	g := &StaticGate{granted: make(map[Permission]bool, len(grants))}
	for p, ok := range grants {
		g.granted[p] = ok
	}
	return g
}

func (g *StaticGate) Request(ctx context.Context, p Permission) (Status, error) {
	if err := ctx.Err(); err != nil {
		return Denied, err
	}
	switch p {
	case MediaLibraryWrite, PhotoLibraryRead:
	default:
		return Denied, fmt.Errorf("unknown permission %q", p)
	}
	if g.granted[p] {
		return Granted, nil
	}
	return Denied, nil
}

// Func adapts a function to Gate.
type Func func(ctx context.Context, p Permission) (Status, error)

func (f Func) Request(ctx context.Context, p Permission) (Status, error) { return f(ctx, p) }
