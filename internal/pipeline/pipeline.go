// Package pipeline replaces every fenced code block of a document, one at a
// time, with the token produced by a renderer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ezerfernandes/mdmedium/internal/fence"
	"github.com/ezerfernandes/mdmedium/internal/render"
)

// State is the driver state.
type State int

// Driver states.
const (
	Scanning State = iota
	Done
)

func (s State) String() string {
	switch s {
	case Scanning:
		return "scanning"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Sentinel errors for the pipeline.
var (
	ErrNoRenderer = errors.New("no renderer configured")
	ErrFenceToken = errors.New("replacement token contains a fence marker")
)

// Pipeline drives the locate, parse, render and rewrite loop.
type Pipeline struct {
	renderer render.Renderer
	prefix   string
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPrefix sets the naming prefix passed to the renderer.
func WithPrefix(prefix string) Option {
	return func(p *Pipeline) { p.prefix = prefix }
}

// WithLogger sets the progress logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New returns a Pipeline rendering with renderer.
func New(renderer render.Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{renderer: renderer, logger: slog.Default()}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Result is the outcome of a run.
type Result struct {
	Document string
	// Replaced counts the fences that were rendered and substituted.
	Replaced int
}

// Run replaces fences in doc until none remain. Fences are handled strictly
// in order: each one is rewritten before the next is located, because the
// rewrite shifts every later offset. The first error aborts the run.
func (p *Pipeline) Run(ctx context.Context, doc string) (Result, error) {
	if p.renderer == nil {
		return Result{}, ErrNoRenderer
	}

	state := Scanning
	index := 0

	for state == Scanning {
		found, ok := fence.Locate(doc)
		if !ok {
			state = Done

			continue
		}

		block := fence.Parse(found)

		p.logger.Info("rendering snippet", "index", index, "lang", block.Lang, "line", fence.Line(doc, found.Start))

		token, err := p.renderer.Render(ctx, render.Request{
			Index:  index,
			Lang:   block.Lang,
			Code:   block.Code,
			Prefix: p.prefix,
		})
		if err != nil {
			return Result{}, fmt.Errorf("snippet %d: %w", index, err)
		}

		if strings.Contains(token, fence.Marker) {
			return Result{}, fmt.Errorf("snippet %d: %w", index, ErrFenceToken)
		}

		doc, err = fence.Rewrite(doc, found, token)
		if err != nil {
			return Result{}, fmt.Errorf("snippet %d: %w", index, err)
		}

		p.logger.Info("snippet replaced", "index", index, "token", token)

		index++
	}

	p.logger.Debug("pipeline finished", "state", state, "replaced", index)

	return Result{Document: doc, Replaced: index}, nil
}
