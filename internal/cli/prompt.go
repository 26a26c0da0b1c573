package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sprite-ai/consent/internal/config"
	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/logging"
	"github.com/sprite-ai/consent/internal/model"
	"github.com/sprite-ai/consent/internal/tui"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Ask for consent interactively",
	Long: `Open the consent screen in the terminal. The committed choice is
written to the decision file and printed on stdout.

Examples:
  consent prompt                          # all options, full preselected
  consent prompt --disable full           # offer none and bug only
  consent prompt --mode compact           # force inline title and footer
  consent prompt --yes --preferred bug    # commit without showing the screen`,
	Args: cobra.NoArgs,
	RunE: runPrompt,
}

func init() {
	promptCmd.Flags().StringP("mode", "m", "", "layout: automatic, compact, expanded")
	promptCmd.Flags().StringP("preferred", "P", "", "option selected initially: none, bug, full")
	promptCmd.Flags().StringSlice("disable", nil, "options to hide: none, bug, full")
	promptCmd.Flags().Int("threshold", 0, "height threshold in logical units")
	promptCmd.Flags().String("locale", "", "path to a YAML string bundle")
	promptCmd.Flags().BoolP("yes", "y", false, "commit the initial selection without showing the screen")
	promptCmd.Flags().Bool("no-save", false, "do not write the decision file")
}

// applyScreenFlags layers command line overrides over cfg. Flags that
// cmd does not define read as zero values and are skipped.
func applyScreenFlags(cmd *cobra.Command, cfg *config.Config) error {
	if s, _ := cmd.Flags().GetString("mode"); s != "" {
		m, err := model.ParsePresentationMode(s)
		if err != nil {
			return err
		}
		cfg.Presentation.Mode = m
	}
	if s, _ := cmd.Flags().GetString("preferred"); s != "" {
		o, err := model.ParseReportingOption(s)
		if err != nil {
			return err
		}
		cfg.Consent.Preferred = o
	}
	disabled, _ := cmd.Flags().GetStringSlice("disable")
	for _, s := range disabled {
		o, err := model.ParseReportingOption(s)
		if err != nil {
			return err
		}
		switch o {
		case model.NoReporting:
			cfg.Options.AllowNoReporting = false
		case model.BugReporting:
			cfg.Options.AllowBugReporting = false
		case model.FullReporting:
			cfg.Options.AllowFullReporting = false
		}
	}
	if n, _ := cmd.Flags().GetInt("threshold"); n > 0 {
		cfg.Presentation.HeightThreshold = n
	}
	if s, _ := cmd.Flags().GetString("locale"); s != "" {
		cfg.Consent.Locale = s
	}
	return cfg.Validate()
}

func runPrompt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyScreenFlags(cmd, cfg); err != nil {
		return err
	}

	screen := consent.NewScreen()
	if err := cfg.ApplyTo(screen); err != nil {
		return err
	}

	yes, _ := cmd.Flags().GetBool("yes")
	var ev *consent.ConfirmationEvent
	if yes {
		ev, err = commitDefault(screen)
	} else {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("stdin is not a terminal; use --yes to commit without the screen")
		}
		ev, err = tui.Run(screen, tui.Options{
			ConfigPath: configPath(cmd),
			OpenLink:   openURL,
			WideWidth:  cfg.Presentation.WideWidth,
			Reload:     flagReloader(cmd),
		})
	}
	if err != nil {
		return err
	}

	if ev == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "No choice made.")
		return nil
	}

	if noSave, _ := cmd.Flags().GetBool("no-save"); !noSave {
		path := cfg.DecisionPath()
		if err := config.SaveDecision(path, config.DecisionFromEvent(*ev)); err != nil {
			return err
		}
		logging.Info("decision %s written to %s", ev.Option, path)
	}

	fmt.Fprintln(cmd.OutOrStdout(), ev.Option)
	return nil
}

// flagReloader loads the config file and layers the same command line
// overrides over it that were applied at startup.
func flagReloader(cmd *cobra.Command) func(path string) (*config.Config, error) {
	return func(path string) (*config.Config, error) {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		if err := applyScreenFlags(cmd, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
}

// commitDefault presents and immediately confirms the initial selection.
func commitDefault(s *consent.Screen) (*consent.ConfirmationEvent, error) {
	if err := s.Present(); err != nil {
		return nil, err
	}
	ev, err := s.Confirm()
	if err != nil {
		return nil, err
	}
	return &ev, nil
}
