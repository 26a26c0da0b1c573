// Package cli implements the consent command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/consent/internal/config"
	"github.com/sprite-ai/consent/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "consent",
	Short: "Ask for and record privacy-reporting consent",
	Long: `consent presents the privacy-reporting choice (no reporting, bug
reporting, full reporting) as a terminal prompt, stores the committed
decision, and can serve the same consent flow over HTTP.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "path to config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().Bool("log", false, "write a log file")
	rootCmd.PersistentFlags().Bool("verbose", false, "mirror log lines to stderr")

	rootCmd.AddCommand(promptCmd, planCmd, showCmd, configCmd, serveCmd, versionCmd)
}

// Execute runs the root command.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	enabled, _ := cmd.Flags().GetBool("log")
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !enabled && !verbose {
		return nil
	}
	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		return nil
	}
	if verbose {
		logging.SetOutput(os.Stderr)
	}
	return nil
}

// configPath returns the --config flag or the default path.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultPath()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return nil, err
	}
	logging.Debug("config loaded from %s", configPath(cmd))
	return cfg, nil
}
