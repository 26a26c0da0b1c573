package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/consent/internal/config"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored decision",
	Long: `Print the committed reporting option. Exits with an error when no
decision has been recorded yet, so scripts can fall back to "consent prompt".`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolP("quiet", "q", false, "print only the option")
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	path := cfg.DecisionPath()
	d, ok, err := config.LoadDecision(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no decision recorded at %s", path)
	}

	out := cmd.OutOrStdout()
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		fmt.Fprintln(out, d.Option)
		return nil
	}
	fmt.Fprintf(out, "%s (committed %s)\n", d.Option, d.CommittedAt.Local().Format("2006-01-02 15:04:05"))
	if !cfg.Options.Allows(d.Option) {
		fmt.Fprintf(out, "Note: %s is no longer offered by the current configuration.\n", d.Option)
	}
	return nil
}
