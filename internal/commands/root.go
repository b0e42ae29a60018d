package commands

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wrencode/crypto-gains-calculator/internal/buildinfo"
	"github.com/wrencode/crypto-gains-calculator/internal/config"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "cryptogains",
		Short:   "Cryptocurrency capital gains and income calculator",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.FileName, "project config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (default from config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json (default from config)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newGainsCommand(opts))
	rootCmd.AddCommand(newHoldingsCommand(opts))

	return rootCmd
}

// project is a loaded configuration plus the logger built from it.
type project struct {
	root string // directory holding the config file
	cfg  *config.Config
	log  *logrus.Logger
}

// loadProject reads the config (defaults if absent), applies .env and
// environment overrides, then the persistent flags.
func loadProject(opts *rootOptions, stderr io.Writer) (*project, error) {
	path, err := filepath.Abs(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	root := filepath.Dir(path)

	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	envLoaded, err := config.ApplyEnv(cfg, filepath.Join(root, ".env"))
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	cfg.Resolve(root)

	log := newLogger(cfg.Log, stderr)
	log.WithFields(logrus.Fields{"config": path, "env_file": envLoaded}).Debug("loaded configuration")
	return &project{root: root, cfg: cfg, log: log}, nil
}

func newLogger(lc config.LogConfig, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)

	switch strings.ToLower(lc.Format) {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	level, err := logrus.ParseLevel(lc.Level)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("level", lc.Level).Warn("invalid log level, using info")
		return log
	}
	log.SetLevel(level)
	return log
}
