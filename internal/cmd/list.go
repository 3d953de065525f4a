package cmd

import (
	"context"
	_ "embed"
	"fmt"
	"io"

	"github.com/ezerfernandes/mdmedium/internal/fence"
	"github.com/ezerfernandes/mdmedium/internal/pipeline"
	"github.com/ezerfernandes/mdmedium/internal/render"
	"github.com/ezerfernandes/mdmedium/internal/store"
	"github.com/gobwas/glob"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

//go:embed help/list.md
var listHelp string

func listCmd(opts *options) *cobra.Command {
	var lang string

	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:     "list [flags] [filename]",
		Aliases: []string{"ls"},
		Short:   "List the code blocks a conversion would replace",
		Long:    listHelp,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			match, err := glob.Compile(lang)
			if err != nil {
				return fmt.Errorf("%w: --lang %q: %v", errUsage, lang, err)
			}

			return listRun(cmd.Context(), cmd.OutOrStdout(), opts, source(args), match)
		},

		DisableAutoGenTag: true,
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "*", "only list code blocks whose language matches this glob")

	return cmd
}

func listRun(ctx context.Context, out io.Writer, opts *options, filename string, match glob.Glob) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}

	doc, err := store.Read(opts.fsys, filename)
	if err != nil {
		return err
	}

	exts := cfg.extensions()

	fences := fence.All(doc)
	if len(fences) == 0 {
		opts.logger.Info("no code blocks found", "input", filename)
	} else {
		tbl := table.New("#", "Lang", "Ext", "Lines", "Size").WithWriter(out)

		for i, found := range fences {
			block := fence.Parse(found)
			if !match.Match(block.Lang) {
				continue
			}

			lang := block.Lang
			if len(lang) == 0 {
				lang = "-"
			}

			lines := fmt.Sprintf("%d-%d", fence.Line(doc, found.Start), fence.Line(doc, found.End))

			tbl.AddRow(i, lang, exts.Label(block.Lang), lines, len(block.Code))
		}

		tbl.Print()
	}

	quiet := newLogger(io.Discard, false, false)

	res, err := pipeline.New(render.Placeholder{Name: "block"}, pipeline.WithLogger(quiet)).Run(ctx, doc)
	if err != nil {
		return err
	}

	reportResidual(opts.logger, res.Document)

	return nil
}
