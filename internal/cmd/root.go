// Package cmd implements the mdmedium command line.
package cmd

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ezerfernandes/mdmedium/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed help/root.md
var rootHelp string

const defaultSource = "README.md"

var errUsage = errors.New("invalid usage")

type options struct {
	fsys    store.FS
	viper   *viper.Viper
	logger  *slog.Logger
	cfgFile string
	quiet   bool
	verbose bool
	dryRun  bool
}

// Execute runs the command line with args and exits the process on failure.
func Execute(args []string, stdout, stderr io.Writer) {
	if code := run(context.Background(), args, stdout, stderr, store.OS{}); code != exitSuccess {
		os.Exit(code)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, fsys store.FS) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	root := rootCmd(&options{fsys: fsys, viper: viper.New()})
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "mdmedium: %v\n", err)

		return exitCodeFor(err)
	}

	return exitSuccess
}

func rootCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{ //nolint:exhaustruct
		Use:   "mdmedium [flags] [filename]",
		Short: "Replace Markdown code blocks with gist links or code images",
		Long:  rootHelp,
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.logger = newLogger(cmd.ErrOrStderr(), opts.quiet, opts.verbose)

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertRun(cmd.Context(), cmd.OutOrStdout(), opts, source(args))
		},

		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	configFlag(cmd, opts)
	quietFlag(cmd, opts)
	convertFlags(cmd, opts)

	cmd.AddCommand(listCmd(opts))

	return cmd
}

func source(args []string) string {
	if len(args) == 0 {
		return defaultSource
	}

	return args[0]
}
