package consent

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprite-ai/consent/internal/model"
)

// allCatalogs enumerates every combination of the three flags.
func allCatalogs() []Catalog {
	var out []Catalog
	for i := 0; i < 8; i++ {
		out = append(out, Catalog{
			AllowNoReporting:   i&1 != 0,
			AllowBugReporting:  i&2 != 0,
			AllowFullReporting: i&4 != 0,
		})
	}
	return out
}

func TestEnabledOptionsOrder(t *testing.T) {
	tests := []struct {
		name string
		c    Catalog
		want []model.ReportingOption
	}{
		{"all", DefaultCatalog(), []model.ReportingOption{model.NoReporting, model.BugReporting, model.FullReporting}},
		{"no full", Catalog{AllowNoReporting: true, AllowBugReporting: true}, []model.ReportingOption{model.NoReporting, model.BugReporting}},
		{"full only", Catalog{AllowFullReporting: true}, []model.ReportingOption{model.FullReporting}},
		{"none", Catalog{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.EnabledOptions())
		})
	}
}

func TestNewSelectionAlwaysEnabled(t *testing.T) {
	for _, c := range allCatalogs() {
		for _, pref := range model.AllOptions {
			sel, err := NewSelection(c, pref)
			if c.Empty() {
				require.ErrorIs(t, err, ErrConfiguration)
				var cfgErr *ConfigurationError
				require.True(t, errors.As(err, &cfgErr))
				continue
			}
			require.NoError(t, err)
			assert.Contains(t, c.EnabledOptions(), sel.Current(), "catalog %+v preferred %s", c, pref)
			if c.Allows(pref) {
				assert.Equal(t, pref, sel.Current())
			}
		}
	}
}

func TestNewSelectionFallsBackToHighest(t *testing.T) {
	sel, err := NewSelection(Catalog{AllowNoReporting: true, AllowBugReporting: true}, model.FullReporting)
	require.NoError(t, err)
	assert.Equal(t, model.BugReporting, sel.Current())

	sel, err = NewSelection(Catalog{AllowNoReporting: true, AllowFullReporting: true}, model.BugReporting)
	require.NoError(t, err)
	assert.Equal(t, model.FullReporting, sel.Current())
}

func TestSelectLastWriteWins(t *testing.T) {
	sel, err := NewSelection(DefaultCatalog(), model.FullReporting)
	require.NoError(t, err)

	var notified []model.ReportingOption
	sel.OnChange = func(o model.ReportingOption) { notified = append(notified, o) }

	seq := []model.ReportingOption{model.NoReporting, model.BugReporting, model.BugReporting, model.FullReporting, model.NoReporting}
	for _, o := range seq {
		require.NoError(t, sel.Select(o))
		assert.Equal(t, o, sel.Current())
	}
	assert.Equal(t, seq, notified)
}

func TestSelectDisabledOption(t *testing.T) {
	sel, err := NewSelection(Catalog{AllowBugReporting: true, AllowFullReporting: true}, model.BugReporting)
	require.NoError(t, err)

	err = sel.Select(model.NoReporting)
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.Equal(t, model.BugReporting, sel.Current())
}

func TestClamp(t *testing.T) {
	sel, err := NewSelection(DefaultCatalog(), model.FullReporting)
	require.NoError(t, err)

	changed, err := sel.Clamp(Catalog{AllowNoReporting: true, AllowFullReporting: true})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.FullReporting, sel.Current())

	changed, err = sel.Clamp(Catalog{AllowNoReporting: true, AllowBugReporting: true})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.BugReporting, sel.Current())

	_, err = sel.Clamp(Catalog{})
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, model.BugReporting, sel.Current())
}

func TestResolverExplicitModes(t *testing.T) {
	r := DefaultResolver()
	for _, h := range []int{0, 100, 699, 700, 5000} {
		for _, d := range []model.DeviceClass{model.DevicePhone, model.DeviceLarge} {
			assert.Equal(t, model.CompactOnly, r.Resolve(model.CompactOnly, h, d))
			assert.Equal(t, model.ExpandedWithHeaderFooter, r.Resolve(model.ExpandedWithHeaderFooter, h, d))
		}
	}
}

func TestResolverBoundary(t *testing.T) {
	for _, threshold := range []int{600, 700} {
		strict := Resolver{Threshold: threshold}
		assert.Equal(t, model.ExpandedWithHeaderFooter, strict.Resolve(model.Automatic, threshold-1, model.DevicePhone))
		assert.Equal(t, model.CompactOnly, strict.Resolve(model.Automatic, threshold, model.DevicePhone))
		assert.Equal(t, model.CompactOnly, strict.Resolve(model.Automatic, threshold+1, model.DevicePhone))

		inclusive := Resolver{Threshold: threshold, Inclusive: true}
		assert.Equal(t, model.ExpandedWithHeaderFooter, inclusive.Resolve(model.Automatic, threshold-1, model.DevicePhone))
		assert.Equal(t, model.ExpandedWithHeaderFooter, inclusive.Resolve(model.Automatic, threshold, model.DevicePhone))
		assert.Equal(t, model.CompactOnly, inclusive.Resolve(model.Automatic, threshold+1, model.DevicePhone))
	}
}

func TestResolverLargeDevicesAlwaysExpanded(t *testing.T) {
	r := DefaultResolver()
	for _, h := range []int{10, 700, 2000} {
		assert.Equal(t, model.ExpandedWithHeaderFooter, r.Resolve(model.Automatic, h, model.DeviceLarge))
	}
}

func TestBuildRowPlan(t *testing.T) {
	c := Catalog{AllowNoReporting: true, AllowBugReporting: true}

	compact := BuildRowPlan(c, model.CompactOnly)
	assert.Equal(t, []model.Row{
		{Kind: model.RowTitle},
		{Kind: model.RowSubtitle},
		model.OptionRow(model.NoReporting),
		model.OptionRow(model.BugReporting),
		{Kind: model.RowFooter},
	}, compact)

	expanded := BuildRowPlan(c, model.ExpandedWithHeaderFooter)
	assert.Equal(t, []model.Row{
		{Kind: model.RowSubtitle},
		model.OptionRow(model.NoReporting),
		model.OptionRow(model.BugReporting),
	}, expanded)
}

func TestBuildRowPlanDeterministic(t *testing.T) {
	for _, c := range allCatalogs() {
		for _, m := range []model.PresentationMode{model.CompactOnly, model.ExpandedWithHeaderFooter} {
			a := BuildRowPlan(c, m)
			b := BuildRowPlan(c, m)
			assert.Equal(t, a, b)
			assert.LessOrEqual(t, len(a), 6)
		}
	}
}

func newPresentedScreen(t *testing.T, c Catalog, pref model.ReportingOption) *Screen {
	t.Helper()
	s := NewScreen()
	require.NoError(t, s.SetCatalog(c))
	s.SetPreferred(pref)
	require.NoError(t, s.Present())
	return s
}

func TestScenarioFallbackAndCompactPlan(t *testing.T) {
	c := Catalog{AllowNoReporting: true, AllowBugReporting: true}
	s := newPresentedScreen(t, c, model.FullReporting)

	cur, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, model.BugReporting, cur)
	assert.Equal(t, []model.ReportingOption{model.NoReporting, model.BugReporting}, s.Catalog().EnabledOptions())

	require.NoError(t, s.SetMode(model.CompactOnly))
	l := s.Layout(Viewport{Height: 100, Device: model.DevicePhone})
	assert.Equal(t, model.CompactOnly, l.Mode)
	assert.Equal(t, []model.Row{
		{Kind: model.RowTitle},
		{Kind: model.RowSubtitle},
		model.OptionRow(model.NoReporting),
		model.OptionRow(model.BugReporting),
		{Kind: model.RowFooter},
	}, l.Rows)
}

func TestScenarioCommitOnce(t *testing.T) {
	s := newPresentedScreen(t, DefaultCatalog(), model.FullReporting)
	fixed := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	var events []ConfirmationEvent
	s.SetCommitHandler(func(ev ConfirmationEvent) { events = append(events, ev) })

	assert.True(t, s.Select(model.NoReporting))
	ev, err := s.Confirm()
	require.NoError(t, err)
	assert.Equal(t, model.NoReporting, ev.Option)
	assert.Equal(t, fixed, ev.CommittedAt)
	assert.Equal(t, StateCommitted, s.State())

	assert.False(t, s.Select(model.FullReporting))
	cur, _ := s.Current()
	assert.Equal(t, model.NoReporting, cur)

	_, err = s.Confirm()
	assert.ErrorIs(t, err, ErrCommitted)
	assert.ErrorIs(t, s.ReplaceCatalog(DefaultCatalog()), ErrCommitted)
	assert.ErrorIs(t, s.SetMode(model.CompactOnly), ErrCommitted)
	require.Len(t, events, 1)
}

func TestScenarioCatalogReplacedMidSession(t *testing.T) {
	s := newPresentedScreen(t, DefaultCatalog(), model.FullReporting)

	var changed []Catalog
	s.OnCatalogChanged(func(c Catalog) { changed = append(changed, c) })
	var selections []model.ReportingOption
	s.SetSelectionHandler(func(o model.ReportingOption) { selections = append(selections, o) })

	next := Catalog{AllowNoReporting: true, AllowBugReporting: true}
	require.NoError(t, s.ReplaceCatalog(next))

	cur, _ := s.Current()
	assert.Equal(t, model.BugReporting, cur)
	assert.Equal(t, []Catalog{next}, changed)
	assert.Equal(t, []model.ReportingOption{model.BugReporting}, selections)

	c, ok := s.Cursor()
	require.True(t, ok)
	assert.Equal(t, model.BugReporting, c)
}

func TestReplaceCatalogEmptyRejected(t *testing.T) {
	s := newPresentedScreen(t, DefaultCatalog(), model.BugReporting)
	err := s.ReplaceCatalog(Catalog{})
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, DefaultCatalog(), s.Catalog())
}

func TestPresentEmptyCatalog(t *testing.T) {
	s := NewScreen()
	require.NoError(t, s.SetCatalog(Catalog{}))
	err := s.Present()
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, StateConfiguring, s.State())
}

func TestSelectBeforePresentIgnored(t *testing.T) {
	s := NewScreen()
	assert.False(t, s.Select(model.NoReporting))
	_, ok := s.Current()
	assert.False(t, ok)
	_, err := s.Confirm()
	assert.ErrorIs(t, err, ErrNotPresenting)
}

func TestSelectDisabledIgnoredOnScreen(t *testing.T) {
	s := newPresentedScreen(t, Catalog{AllowBugReporting: true, AllowFullReporting: true}, model.FullReporting)
	assert.False(t, s.Select(model.NoReporting))
	cur, _ := s.Current()
	assert.Equal(t, model.FullReporting, cur)
}

func TestModeChangedNotification(t *testing.T) {
	s := NewScreen()
	var modes []model.PresentationMode
	s.OnModeChanged(func(m model.PresentationMode) { modes = append(modes, m) })

	require.NoError(t, s.SetMode(model.ExpandedWithHeaderFooter))
	require.NoError(t, s.SetMode(model.ExpandedWithHeaderFooter))
	require.NoError(t, s.SetMode(model.Automatic))
	assert.Equal(t, []model.PresentationMode{model.ExpandedWithHeaderFooter, model.Automatic}, modes)
}

func TestLayoutRecomputedPerPass(t *testing.T) {
	s := newPresentedScreen(t, DefaultCatalog(), model.FullReporting)
	s.SetResolver(Resolver{Threshold: 600})

	short := s.Layout(Viewport{Height: 599, Device: model.DevicePhone})
	tall := s.Layout(Viewport{Height: 600, Device: model.DevicePhone})
	assert.Equal(t, model.ExpandedWithHeaderFooter, short.Mode)
	assert.True(t, short.PinnedHeader())
	assert.Equal(t, model.CompactOnly, tall.Mode)
	assert.Len(t, tall.Rows, 6)
	assert.Len(t, short.Rows, 4)
}

func TestOpenPrivacyPolicy(t *testing.T) {
	s := NewScreen()
	assert.False(t, s.OpenPrivacyPolicy(), "no opener registered")

	var opened []string
	s.SetLinkOpener(func(url string) { opened = append(opened, url) })
	s.SetPolicyURL("https://example.com/privacy")
	require.NoError(t, s.Present())

	assert.True(t, s.OpenPrivacyPolicy())
	assert.Equal(t, []string{"https://example.com/privacy"}, opened)

	_, err := s.Confirm()
	require.NoError(t, err)
	assert.False(t, s.OpenPrivacyPolicy())
	assert.Len(t, opened, 1)
}

func TestCursorNavigation(t *testing.T) {
	s := newPresentedScreen(t, DefaultCatalog(), model.NoReporting)

	s.CursorPrev()
	c, _ := s.Cursor()
	assert.Equal(t, model.NoReporting, c)

	s.CursorNext()
	s.CursorNext()
	s.CursorNext()
	c, _ = s.Cursor()
	assert.Equal(t, model.FullReporting, c)

	assert.True(t, s.SelectCursor())
	cur, _ := s.Current()
	assert.Equal(t, model.FullReporting, cur)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "configuring", StateConfiguring.String())
	assert.Equal(t, "presenting", StatePresenting.String())
	assert.Equal(t, "committed", StateCommitted.String())
	assert.Equal(t, "unknown", State(9).String())
}
