// Package main implements the flog CLI for appending records to a log file from
// shell scripts and cron jobs.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LixenWraith/flog"
)

var (
	// configPath is an optional TOML file loaded before flags are applied
	configPath string
	// flag overrides, applied only when set on the command line
	filePath    string
	threshold   string
	maxFileSize int64
	timeZone    string
	verbose     bool

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flog",
	Short: "Append leveled records to a rotating log file",
	Long: `flog writes one record per invocation to a plain text log file,
rotating the file to numbered archives (app.log.1, app.log.2, ...) once it
exceeds the configured size.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	flags.StringVarP(&filePath, "file", "f", "", "log file path (default from config)")
	flags.StringVarP(&threshold, "threshold", "t", "", "least urgent level written (emergency..debug)")
	flags.Int64Var(&maxFileSize, "max-size", 0, "rotation size in bytes, 0 disables rotation")
	flags.StringVar(&timeZone, "tz", "", "time zone for timestamps, e.g. UTC or Europe/Berlin")
	flags.BoolVarP(&verbose, "verbose", "v", false, "report write failures as structured diagnostics")

	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(configCmd)
}

// writeCmd appends a single record
var writeCmd = &cobra.Command{
	Use:   "write <level> <message> [key=value ...]",
	Short: "Append one record to the log file",
	Long: `Append one record to the log file.

Examples:
  # Log an informational message
  flog write info "backup finished" duration=42s files=1312

  # Use a config file and rotate at 1 MiB
  flog -c flog.toml --max-size 1048576 write error "disk check failed" mount=/data`,
	Args: cobra.MinimumNArgs(2),
	RunE: runWrite,
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	RunE:  runConfig,
}

// runWrite handles the write command
func runWrite(cmd *cobra.Command, args []string) error {
	level, err := flog.ParseLevel(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var opts []flog.Option
	if verbose {
		z, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create diagnostics logger: %w", err)
		}
		defer z.Sync()
		opts = append(opts, flog.WithErrorSink(flog.ZapSink(z)))
	}

	logger, err := flog.NewFromConfig(cfg, opts...)
	if err != nil {
		return err
	}

	fields, err := parseFields(args[2:])
	if err != nil {
		return err
	}
	logger.Log(level, args[1], fields)
	return nil
}

// runConfig handles the config command
func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
}

// loadConfig merges defaults, the optional config file and explicitly set flags
func loadConfig(cmd *cobra.Command) (*flog.Config, error) {
	cfg := flog.DefaultConfig()
	if configPath != "" {
		loaded, err := flog.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Path = filePath
	}
	if flags.Changed("threshold") {
		level, err := flog.ParseLevel(threshold)
		if err != nil {
			return nil, err
		}
		cfg.Level = level
	}
	if flags.Changed("max-size") {
		cfg.MaxFileSize = maxFileSize
	}
	if flags.Changed("tz") {
		cfg.TimeZone = timeZone
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseFields converts key=value arguments into ordered record fields
func parseFields(args []string) (flog.Fields, error) {
	fields := make(flog.Fields, 0, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", arg)
		}
		fields = append(fields, flog.F(key, value))
	}
	return fields, nil
}
