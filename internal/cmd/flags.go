package cmd

import (
	"github.com/ezerfernandes/mdmedium/internal/render"
	"github.com/spf13/cobra"
)

func configFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file (default .mdmedium.yaml in the current or home directory)")
}

func quietFlag(cmd *cobra.Command, opts *options) {
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only report warnings and errors")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "report debug output, including render tool output")
	cmd.MarkFlagsMutuallyExclusive("quiet", "verbose")
}

// flag name -> configuration key
var convertBindings = [][2]string{
	{"output", keyOutput},
	{"mode", keyMode},
	{"gh-token", keyToken},
	{"prefix", keyPrefix},
	{"description", keyDescription},
	{"api-url", keyAPIURL},
	{"delay", keyDelay},
	{"link-prefix", keyLinkPrefix},
	{"strict", keyStrict},
	{"carbon-bin", keyCarbonBin},
	{"carbon-args", keyCarbonArgs},
	{"carbon-workdir", keyCarbonWorkDir},
}

func convertFlags(cmd *cobra.Command, opts *options) {
	flags := cmd.Flags()

	flags.StringP("output", "o", "./medium", "output directory")
	flags.StringP("mode", "m", modeCarbon, "how to replace code blocks: gist or carbon")
	flags.String("gh-token", "", "GitHub personal access token (gist mode)")
	flags.String("prefix", "", "gist file name prefix (gist mode)")
	flags.String("description", render.DefaultDescription, "gist description (gist mode)")
	flags.String("api-url", render.DefaultAPIURL, "GitHub API base URL (gist mode)")
	flags.Duration("delay", render.DefaultDelay, "pause after every gist API call (gist mode)")
	flags.String("link-prefix", "", "prefix of the image links (carbon mode)")
	flags.Bool("strict", true, "fail when carbon-now exits nonzero or produces no image (carbon mode)")
	flags.String("carbon-bin", render.DefaultCarbonBin, "carbon-now executable (carbon mode)")
	flags.String("carbon-args", "", "extra carbon-now arguments, shell quoted (carbon mode)")
	flags.String("carbon-workdir", "", "directory for the transient code file (default: output directory)")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "print the converted document with placeholder tokens, render nothing")

	for _, binding := range convertBindings {
		_ = opts.viper.BindPFlag(binding[1], flags.Lookup(binding[0]))
	}
}
