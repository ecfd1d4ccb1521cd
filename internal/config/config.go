// Package config loads run settings. Precedence is flags (applied by the
// caller) > FIXTUREGEN_ environment variables > config file > defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"fixturegen/internal/report"
	"fixturegen/node"
	"fixturegen/utils"
)

// EnvPrefix prefixes every environment variable, e.g. FIXTUREGEN_MODE.
const EnvPrefix = "FIXTUREGEN"

// MaxDepthLimit is the largest accepted max_depth.
const MaxDepthLimit = 64

// Settings controls one construction run.
type Settings struct {
	// Mode decides whether unused selectors fail the run.
	Mode report.Mode
	// MaxDepth bounds the node tree of recursive types.
	MaxDepth int
	// IncludeSetters adds SetX methods to the node tree.
	IncludeSetters bool
	// FailOnAmbiguousOrigin rejects assignment origins matching several
	// nodes unless the assignment allows it.
	FailOnAmbiguousOrigin bool
}

// Default returns the settings used when nothing is configured.
func Default() Settings {
	return Settings{
		Mode:                  report.Strict,
		MaxDepth:              node.DefaultMaxDepth,
		IncludeSetters:        false,
		FailOnAmbiguousOrigin: true,
	}
}

// Load reads settings from the environment and, if path is not empty, from
// a YAML, JSON or TOML file.
func Load(path string) (Settings, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("mode", string(def.Mode))
	v.SetDefault("max_depth", def.MaxDepth)
	v.SetDefault("include_setters", def.IncludeSetters)
	v.SetDefault("fail_on_ambiguous_origin", def.FailOnAmbiguousOrigin)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	mode, err := report.ParseMode(v.GetString("mode"))
	if err != nil {
		return Settings{}, fmt.Errorf("config: %w", err)
	}

	s := Settings{
		Mode:                  mode,
		MaxDepth:              v.GetInt("max_depth"),
		IncludeSetters:        v.GetBool("include_setters"),
		FailOnAmbiguousOrigin: v.GetBool("fail_on_ambiguous_origin"),
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	if !utils.IsInRange(1, s.MaxDepth, MaxDepthLimit) {
		return fmt.Errorf("config: max_depth must be between 1 and %d, got %d", MaxDepthLimit, s.MaxDepth)
	}

	if _, err := report.ParseMode(string(s.Mode)); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	return nil
}
