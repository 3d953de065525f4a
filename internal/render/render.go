// Package render turns extracted code into the token that replaces its fence:
// a link to a hosted snippet or a reference to a rendered image.
package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Request describes one snippet to render.
type Request struct {
	// Index is the zero-based position of the fence in discovery order.
	Index int
	// Lang is the fence's language tag; empty means unspecified.
	Lang string
	// Code is the fence body, newlines preserved.
	Code string
	// Prefix is an optional naming prefix for the generated artifact.
	Prefix string
}

// Renderer produces the replacement token for a single snippet.
type Renderer interface {
	Render(ctx context.Context, req Request) (string, error)
}

// Sentinel errors for rendering.
var (
	ErrMissingToken = errors.New("an authorization token is required")
	ErrRemote       = errors.New("snippet host request failed")
	ErrRenderTool   = errors.New("render tool failed")
	ErrNoArtifact   = errors.New("render tool produced no image")
	ErrOutDir       = errors.New("output directory has no usable name")
)

// Placeholder renders "<Name>:<index>" without side effects.
type Placeholder struct {
	Name string
}

// Render implements [Renderer].
func (p Placeholder) Render(_ context.Context, req Request) (string, error) {
	return fmt.Sprintf("%s:%d", p.Name, req.Index), nil
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}

	return slog.Default()
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
