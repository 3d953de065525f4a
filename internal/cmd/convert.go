package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ezerfernandes/mdmedium/internal/pipeline"
	"github.com/ezerfernandes/mdmedium/internal/render"
	"github.com/ezerfernandes/mdmedium/internal/residual"
	"github.com/ezerfernandes/mdmedium/internal/store"
)

func convertRun(ctx context.Context, stdout io.Writer, opts *options, filename string) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	doc, err := store.Read(opts.fsys, filename)
	if err != nil {
		return err
	}

	renderer, err := newRenderer(cfg, opts)
	if err != nil {
		return err
	}

	if !opts.dryRun {
		if err := store.EnsureDir(opts.fsys, cfg.Output); err != nil {
			return err
		}
	}

	opts.logger.Info("converting", "input", filename, "mode", cfg.Mode, "dry_run", opts.dryRun)

	res, err := pipeline.New(renderer,
		pipeline.WithPrefix(cfg.Prefix),
		pipeline.WithLogger(opts.logger),
	).Run(ctx, doc)
	if err != nil {
		return err
	}

	reportResidual(opts.logger, res.Document)

	if opts.dryRun {
		_, err := io.WriteString(stdout, res.Document)

		return err
	}

	path, err := store.Write(opts.fsys, cfg.Output, filename, res.Document)
	if err != nil {
		return err
	}

	opts.logger.Info("done", "output", path, "snippets", res.Replaced)

	return nil
}

func newRenderer(cfg *config, opts *options) (render.Renderer, error) { //nolint:ireturn
	if opts.dryRun {
		return render.Placeholder{Name: cfg.Mode}, nil
	}

	switch cfg.Mode {
	case modeGist:
		if len(cfg.Token) == 0 {
			return nil, render.ErrMissingToken
		}

		gist := render.NewGist(cfg.Token, cfg.extensions())
		gist.APIURL = cfg.APIURL
		gist.Description = cfg.Description
		gist.Delay = cfg.Delay
		gist.Logger = opts.logger

		return gist, nil
	case modeCarbon:
		args, err := cfg.carbonArgs()
		if err != nil {
			return nil, err
		}

		carbon := render.NewCarbon(cfg.Output, cfg.LinkPrefix, cfg.extensions())
		carbon.Bin = cfg.Carbon.Bin
		carbon.Args = args
		carbon.WorkDir = cfg.Carbon.WorkDir
		carbon.Strict = cfg.Strict
		carbon.Logger = opts.logger

		return carbon, nil
	default:
		return nil, fmt.Errorf("%w %q", errUnknownMode, cfg.Mode)
	}
}

// reportResidual warns about code blocks the conversion left in place.
func reportResidual(logger *slog.Logger, doc string) {
	blocks, err := residual.Find([]byte(doc))
	if err != nil {
		logger.Warn("cannot check for remaining code blocks", "error", err)

		return
	}

	for _, block := range blocks {
		logger.Warn("code block left unconverted",
			"lines", fmt.Sprintf("%d-%d", block.StartLine, block.EndLine),
			"lang", block.Lang)
	}
}
