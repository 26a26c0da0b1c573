// Package model defines the core value types shared across consent.
package model

import (
	"fmt"
	"strings"
)

// ReportingOption is one of the mutually exclusive consent levels.
// Options are ordered by severity: NoReporting < BugReporting < FullReporting.
type ReportingOption int

const (
	NoReporting ReportingOption = iota
	BugReporting
	FullReporting
)

// AllOptions lists every option in catalog order.
var AllOptions = []ReportingOption{NoReporting, BugReporting, FullReporting}

func (o ReportingOption) String() string {
	switch o {
	case NoReporting:
		return "none"
	case BugReporting:
		return "bug"
	case FullReporting:
		return "full"
	default:
		return "unknown"
	}
}

// Valid reports whether o is a declared option.
func (o ReportingOption) Valid() bool {
	return o >= NoReporting && o <= FullReporting
}

// ParseReportingOption accepts the short names as well as the long
// "-reporting" forms. "diagnose" is accepted as an alias for full.
func ParseReportingOption(s string) (ReportingOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "no", "no-reporting":
		return NoReporting, nil
	case "bug", "bug-reporting":
		return BugReporting, nil
	case "full", "full-reporting", "diagnose":
		return FullReporting, nil
	}
	return 0, fmt.Errorf("unknown reporting option %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o ReportingOption) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid reporting option %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *ReportingOption) UnmarshalText(b []byte) error {
	v, err := ParseReportingOption(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// PresentationMode is the host's layout request.
type PresentationMode int

const (
	Automatic PresentationMode = iota
	CompactOnly
	ExpandedWithHeaderFooter
)

func (m PresentationMode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case CompactOnly:
		return "compact"
	case ExpandedWithHeaderFooter:
		return "expanded"
	default:
		return "unknown"
	}
}

// ParsePresentationMode parses automatic, compact or expanded.
func ParsePresentationMode(s string) (PresentationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto", "automatic":
		return Automatic, nil
	case "compact":
		return CompactOnly, nil
	case "expanded":
		return ExpandedWithHeaderFooter, nil
	}
	return 0, fmt.Errorf("unknown presentation mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m PresentationMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *PresentationMode) UnmarshalText(b []byte) error {
	v, err := ParsePresentationMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// DeviceClass distinguishes small displays from larger ones.
type DeviceClass int

const (
	DevicePhone DeviceClass = iota
	DeviceLarge
)

func (d DeviceClass) String() string {
	if d == DeviceLarge {
		return "large"
	}
	return "phone"
}

// RowKind tags a logical row in the rendered list.
type RowKind int

const (
	RowTitle RowKind = iota
	RowSubtitle
	RowOption
	RowFooter
)

func (k RowKind) String() string {
	switch k {
	case RowTitle:
		return "title"
	case RowSubtitle:
		return "subtitle"
	case RowOption:
		return "option"
	case RowFooter:
		return "footer"
	default:
		return "unknown"
	}
}

// Row is one entry of a row plan. Option is only meaningful for RowOption.
type Row struct {
	Kind   RowKind
	Option ReportingOption
}

func (r Row) String() string {
	if r.Kind == RowOption {
		return fmt.Sprintf("option(%s)", r.Option)
	}
	return r.Kind.String()
}

// OptionRow is shorthand for a RowOption row.
func OptionRow(o ReportingOption) Row {
	return Row{Kind: RowOption, Option: o}
}
