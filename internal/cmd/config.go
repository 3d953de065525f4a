package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ezerfernandes/mdmedium/internal/fence"
	"github.com/google/shlex"
	"github.com/spf13/viper"
)

const (
	keyOutput        = "output"
	keyMode          = "mode"
	keyToken         = "gh-token"
	keyPrefix        = "prefix"
	keyDescription   = "description"
	keyAPIURL        = "api-url"
	keyDelay         = "delay"
	keyLinkPrefix    = "link-prefix"
	keyStrict        = "strict"
	keyCarbonBin     = "carbon.bin"
	keyCarbonArgs    = "carbon.args"
	keyCarbonWorkDir = "carbon.workdir"
	keyExtensions    = "extensions"
)

const (
	modeGist   = "gist"
	modeCarbon = "carbon"
)

var (
	errConfig      = errors.New("invalid configuration")
	errUnknownMode = errors.New("unknown mode")
)

type config struct {
	Output      string            `mapstructure:"output"`
	Mode        string            `mapstructure:"mode"`
	Token       string            `mapstructure:"gh-token"`
	Prefix      string            `mapstructure:"prefix"`
	Description string            `mapstructure:"description"`
	APIURL      string            `mapstructure:"api-url"`
	Delay       time.Duration     `mapstructure:"delay"`
	LinkPrefix  string            `mapstructure:"link-prefix"`
	Strict      bool              `mapstructure:"strict"`
	Carbon      carbonConfig      `mapstructure:"carbon"`
	Extensions  map[string]string `mapstructure:"extensions"`
}

type carbonConfig struct {
	Bin     string `mapstructure:"bin"`
	Args    string `mapstructure:"args"`
	WorkDir string `mapstructure:"workdir"`
}

// load merges the config file, the environment and the flags, in increasing
// order of precedence.
func (opts *options) load() (*config, error) {
	v := opts.viper

	v.SetEnvPrefix("mdmedium")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(keyToken, "MDMEDIUM_GH_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, err
	}

	if len(opts.cfgFile) != 0 {
		if _, err := os.Stat(opts.cfgFile); err != nil {
			return nil, fmt.Errorf("%w: %v", errConfig, err)
		}

		v.SetConfigFile(opts.cfgFile)
	} else {
		v.SetConfigName(".mdmedium")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %v", errConfig, err)
		}
	}

	var cfg config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", errConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *config) validate() error {
	switch cfg.Mode {
	case modeGist, modeCarbon:
	default:
		return fmt.Errorf("%w %q: want %s or %s", errUnknownMode, cfg.Mode, modeGist, modeCarbon)
	}

	if cfg.Delay < 0 {
		return fmt.Errorf("%w: negative delay %s", errConfig, cfg.Delay)
	}

	return nil
}

func (cfg *config) extensions() fence.Extensions {
	return fence.DefaultExtensions().With(cfg.Extensions)
}

func (cfg *config) carbonArgs() ([]string, error) {
	args, err := shlex.Split(cfg.Carbon.Args)
	if err != nil {
		return nil, fmt.Errorf("%w: carbon args: %v", errConfig, err)
	}

	return args, nil
}
