// Package lfsconfig resolves the handful of runtime knobs the image builder
// and buffer cache accept that aren't fixed by the on-disk format: buffer
// cache capacity and default log verbosity. It layers a viper config file
// under pflag-bound command-line flags, the same precedence order the
// teacher's cmd layer used for its own flag/config split.
package lfsconfig

/**
 * SPDX-License-Identifier: Apache-2.0
 */

import (
	"fmt"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file mklfs reads from the user's home directory.
const FileName = ".mklfs.yml"

// Config holds the resolved runtime knobs. It never touches the fixed
// on-disk layout constants in pkg/lfsfmt — those are compiled in, not
// configurable.
type Config struct {
	// NBuf is the buffer cache's fixed buffer count.
	NBuf int `mapstructure:"nbuf"`

	// Verbose turns on Infof-level logging by default.
	Verbose bool `mapstructure:"verbose"`

	// Debug turns on Debugf-level (trace) logging by default.
	Debug bool `mapstructure:"debug"`
}

// Default returns the configuration used when no config file exists and no
// flags override it.
func Default() Config {
	return Config{NBuf: 30}
}

// BindFlags registers mklfs's flags onto fs, defaulting each to the value
// already in cfg.
func BindFlags(fs *pflag.FlagSet, cfg Config) {
	fs.Int("nbuf", cfg.NBuf, "number of buffer cache buffers")
	fs.BoolP("verbose", "v", cfg.Verbose, "enable verbose logging")
	fs.Bool("debug", cfg.Debug, "enable debug logging")
}

// Load reads ~/.mklfs.yml if present, layers fs's bound flags on top, and
// returns the merged configuration. A missing config file is not an error;
// a malformed one is.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("nbuf", Default().NBuf)

	home, err := homedir.Dir()
	if err == nil {
		v.AddConfigPath(home)
		v.SetConfigName(".mklfs")
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("reading %s: %w", filepath.Join(home, FileName), err)
			}
		}
	}

	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("binding flags: %w", err)
	}

	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing configuration: %w", err)
	}

	return cfg, nil
}
