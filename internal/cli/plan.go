package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sprite-ai/consent/internal/config"
	"github.com/sprite-ai/consent/internal/consent"
	"github.com/sprite-ai/consent/internal/locale"
	"github.com/sprite-ai/consent/internal/model"
	"github.com/sprite-ai/consent/internal/tui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the row plan for a viewport",
	Long: `Resolve the presentation mode for a viewport and print the rows the
consent screen would show, without presenting it.

The viewport defaults to the current terminal. --height takes logical
units directly; --rows converts terminal rows at 16 units per row.

Examples:
  consent plan --height 650                 # below the threshold: expanded
  consent plan --rows 50 --cols 80 -f json
  consent plan --disable full --mode compact -f markdown`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().Int("height", 0, "viewport height in logical units")
	planCmd.Flags().Int("rows", 0, "viewport height in terminal rows")
	planCmd.Flags().Int("cols", 0, "viewport width in terminal columns")
	planCmd.Flags().String("device", "", "device class: phone, large (default from --cols)")
	planCmd.Flags().StringP("mode", "m", "", "layout: automatic, compact, expanded")
	planCmd.Flags().StringSlice("disable", nil, "options to hide: none, bug, full")
	planCmd.Flags().Int("threshold", 0, "height threshold in logical units")
	planCmd.Flags().Bool("inclusive", false, "treat a height equal to the threshold as short")
	planCmd.Flags().String("locale", "", "path to a YAML string bundle")
	planCmd.Flags().StringP("format", "f", "text", "output format: text, json, markdown")
}

// planRow is one row of plan output.
type planRow struct {
	Kind   string `json:"kind"`
	Option string `json:"option,omitempty"`
	Label  string `json:"label"`
}

// planOutput is the result of resolving a plan.
type planOutput struct {
	RequestedMode string    `json:"requested_mode"`
	Mode          string    `json:"mode"`
	Device        string    `json:"device"`
	Height        int       `json:"height"`
	PinnedHeader  bool      `json:"pinned_header"`
	Rows          []planRow `json:"rows"`
}

func runPlan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyScreenFlags(cmd, cfg); err != nil {
		return err
	}
	if inclusive, _ := cmd.Flags().GetBool("inclusive"); inclusive {
		cfg.Presentation.InclusiveThreshold = true
	}

	strs := locale.Default()
	if cfg.Consent.Locale != "" {
		if strs, err = locale.Load(cfg.Consent.Locale); err != nil {
			return err
		}
	}

	vp, err := planViewport(cmd, cfg)
	if err != nil {
		return err
	}

	out := buildPlan(cfg, vp, strs)
	format, _ := cmd.Flags().GetString("format")
	return writePlan(cmd.OutOrStdout(), out, format)
}

// planViewport works out the viewport from flags, falling back to the
// size of the attached terminal.
func planViewport(cmd *cobra.Command, cfg *config.Config) (consent.Viewport, error) {
	height, _ := cmd.Flags().GetInt("height")
	rows, _ := cmd.Flags().GetInt("rows")
	cols, _ := cmd.Flags().GetInt("cols")

	if rows == 0 || cols == 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if rows == 0 {
				rows = h
			}
			if cols == 0 {
				cols = w
			}
		}
	}
	if height == 0 {
		height = rows * tui.PointsPerRow
	}

	device := cfg.DeviceClass(cols)
	switch name, _ := cmd.Flags().GetString("device"); name {
	case "":
		if cols == 0 {
			device = model.DevicePhone
		}
	case "phone":
		device = model.DevicePhone
	case "large":
		device = model.DeviceLarge
	default:
		return consent.Viewport{}, fmt.Errorf("unknown device class %q", name)
	}
	return consent.Viewport{Height: height, Device: device}, nil
}

func buildPlan(cfg *config.Config, vp consent.Viewport, strs *locale.Bundle) planOutput {
	mode := cfg.Presentation.Mode
	resolved := cfg.Resolver().Resolve(mode, vp.Height, vp.Device)
	l := consent.Layout{Mode: resolved, Rows: consent.BuildRowPlan(cfg.Options, resolved)}

	out := planOutput{
		RequestedMode: mode.String(),
		Mode:          resolved.String(),
		Device:        vp.Device.String(),
		Height:        vp.Height,
		PinnedHeader:  l.PinnedHeader(),
	}
	for _, r := range l.Rows {
		pr := planRow{Kind: r.Kind.String()}
		switch r.Kind {
		case model.RowTitle:
			pr.Label = strs.Get(locale.KeyTitle)
		case model.RowSubtitle:
			pr.Label = strs.Get(locale.KeyMessage)
		case model.RowOption:
			pr.Option = r.Option.String()
			pr.Label = strs.OptionTitle(r.Option)
		case model.RowFooter:
			pr.Label = strs.Get(locale.KeyConfirm) + " / " + strs.Get(locale.KeyInformation)
		}
		out.Rows = append(out.Rows, pr)
	}
	return out
}

func writePlan(w io.Writer, out planOutput, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "markdown", "md":
		fmt.Fprintf(w, "## Consent layout: %s\n\n", out.Mode)
		fmt.Fprintf(w, "Requested **%s** at height %d on a %s device.\n\n", out.RequestedMode, out.Height, out.Device)
		fmt.Fprintln(w, "| # | Row | Label |")
		fmt.Fprintln(w, "|---|-----|-------|")
		for i, r := range out.Rows {
			kind := r.Kind
			if r.Option != "" {
				kind += " (" + r.Option + ")"
			}
			fmt.Fprintf(w, "| %d | %s | %s |\n", i+1, kind, r.Label)
		}
		return nil
	case "text", "":
		fmt.Fprintf(w, "mode: %s (requested %s, height %d, %s)\n", out.Mode, out.RequestedMode, out.Height, out.Device)
		if out.PinnedHeader {
			fmt.Fprintln(w, "header and confirm button are pinned outside the list")
		}
		for _, r := range out.Rows {
			kind := r.Kind
			if r.Option != "" {
				kind = "option:" + r.Option
			}
			fmt.Fprintf(w, "  %-12s %s\n", kind, r.Label)
		}
		return nil
	}
	return fmt.Errorf("unknown format %q (want text, json, or markdown)", format)
}
