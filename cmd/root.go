package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mj1618/arena-access/internal/config"
	"github.com/mj1618/arena-access/internal/logging"
	"github.com/mj1618/arena-access/internal/output"
	"github.com/mj1618/arena-access/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "arena-access",
	Short: "Screen-reader navigation for the card game client, driven by recorded scenes",
	Long: `arena-access turns the game's scene graph into spoken announcements and keyboard
navigation. Scenarios recorded as YAML scene snapshots plus key steps can be
replayed, inspected, or driven interactively over MCP.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json, text")
	rootCmd.PersistentFlags().Bool("pretty", false, "Indent JSON output")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: built-in defaults plus ARENA_ACCESS_* env)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().String("log-file", "", "Write JSON logs to this file (overrides config)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		f, err := output.ParseFormat(format)
		if err != nil {
			return err
		}
		output.OutputFormat = f
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

// loadConfig reads the --config file and applies the logging flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if file, _ := cmd.Flags().GetString("log-file"); file != "" {
		cfg.Logging.File = file
	}
	return cfg, nil
}

// newLogger opens the configured log sink. Logs never go to stdout, which
// carries command output and the MCP stdio transport.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
}
