package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/consent/internal/config"
	"github.com/sprite-ai/consent/internal/highlight"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the config file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults are applied. With --diff, print
only how it differs from the built-in defaults.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), configPath(cmd))
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the defaults",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configShowCmd.Flags().Bool("diff", false, "show only changes against the defaults")
	configShowCmd.Flags().Bool("no-color", false, "disable syntax highlighting")
	configInitCmd.Flags().Bool("force", false, "overwrite an existing file")

	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	current, err := cfg.Marshal()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if showDiff, _ := cmd.Flags().GetBool("diff"); showDiff {
		defaults, err := config.Default().Marshal()
		if err != nil {
			return err
		}
		delta := highlight.Delta(string(defaults), string(current))
		if !highlight.Changed(delta) {
			fmt.Fprintln(out, "Configuration matches the defaults.")
			return nil
		}
		fmt.Fprintln(out, highlight.RenderDelta(delta))
		return nil
	}

	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		fmt.Fprint(out, string(current))
		return nil
	}
	fmt.Fprintln(out, highlight.Render(config.ConfigFile, string(current)))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Default().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
