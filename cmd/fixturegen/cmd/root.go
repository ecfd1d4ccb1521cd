package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"fixturegen/internal/config"
	"fixturegen/internal/report"
	"fixturegen/internal/ruleset"
	"fixturegen/model"
	"fixturegen/rule"
	"fixturegen/store"
)

var (
	configFile string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:          "fixturegen",
	Short:        "Resolve test-data rule files against their node trees",
	Long:         `fixturegen builds the node tree of a rule file's root type and shows which nodes every selector matches.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (json, text)")
	rootCmd.PersistentFlags().String("mode", "", "unused selector mode (strict, lenient)")
	rootCmd.PersistentFlags().Int("max-depth", 0, "maximum node tree depth")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(logFormat) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q (json, text)", logFormat)
	}
}

// settings loads the config file and applies the flags that were set.
func settings(cmd *cobra.Command) (config.Settings, error) {
	s, err := config.Load(configFile)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("mode") {
		raw, _ := cmd.Flags().GetString("mode")

		s.Mode, err = report.ParseMode(raw)
		if err != nil {
			return config.Settings{}, err
		}
	}

	if cmd.Flags().Changed("max-depth") {
		s.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	}

	return s, s.Validate()
}

// load builds the model context of the rule file at path.
func load(cmd *cobra.Command, path string) (*model.Context, *rule.Set, error) {
	logger, err := newLogger(cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}

	s, err := settings(cmd)
	if err != nil {
		return nil, nil, err
	}

	set, err := ruleset.LoadFile(path, ruleset.Registry(store.Types()))
	if err != nil {
		return nil, nil, err
	}

	ctx, err := model.New(set, model.WithSettings(s), model.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}

	return ctx, set, nil
}
