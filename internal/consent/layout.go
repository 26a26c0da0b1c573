package consent

import "github.com/sprite-ai/consent/internal/model"

// DefaultHeightThreshold is the viewport height below which phone-class
// screens switch to the pinned header/footer layout.
const DefaultHeightThreshold = 700

// Resolver turns a requested PresentationMode into a concrete layout.
type Resolver struct {
	// Threshold is compared against the viewport height.
	Threshold int
	// Inclusive treats height == Threshold as below the threshold.
	Inclusive bool
}

// DefaultResolver uses DefaultHeightThreshold with a strict comparison.
func DefaultResolver() Resolver {
	return Resolver{Threshold: DefaultHeightThreshold}
}

// Resolve never returns Automatic. Explicit modes pass through.
func (r Resolver) Resolve(mode model.PresentationMode, viewportHeight int, device model.DeviceClass) model.PresentationMode {
	if mode != model.Automatic {
		return mode
	}
	if device != model.DevicePhone {
		return model.ExpandedWithHeaderFooter
	}
	if r.below(viewportHeight) {
		return model.ExpandedWithHeaderFooter
	}
	return model.CompactOnly
}

func (r Resolver) below(h int) bool {
	if r.Inclusive {
		return h <= r.Threshold
	}
	return h < r.Threshold
}

// BuildRowPlan lists the rows to render, top to bottom.
func BuildRowPlan(c Catalog, resolved model.PresentationMode) []model.Row {
	rows := make([]model.Row, 0, 6)
	compact := resolved == model.CompactOnly
	if compact {
		rows = append(rows, model.Row{Kind: model.RowTitle})
	}
	rows = append(rows, model.Row{Kind: model.RowSubtitle})
	for _, o := range c.EnabledOptions() {
		rows = append(rows, model.OptionRow(o))
	}
	if compact {
		rows = append(rows, model.Row{Kind: model.RowFooter})
	}
	return rows
}

// Viewport describes the space a host has available for one layout pass.
type Viewport struct {
	Height int
	Device model.DeviceClass
}

// Layout is the outcome of one layout pass.
type Layout struct {
	Mode model.PresentationMode
	Rows []model.Row
}

// PinnedHeader reports whether the title is drawn outside the row list.
func (l Layout) PinnedHeader() bool {
	return l.Mode == model.ExpandedWithHeaderFooter
}
