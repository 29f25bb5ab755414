package drc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-drc/internal/rules"
	"pcb-drc/internal/snapshot"
)

func widthSnap(widths ...float64) *snapshot.BoardSnapshot {
	snap := &snapshot.BoardSnapshot{}
	for i, w := range widths {
		snap.Tracks = append(snap.Tracks,
			testTrack("t"+string(rune('a'+i)), "SIG", float64(i*20), 0, float64(i*20)+10, 0, w))
	}
	return snap
}

func TestWidthBelowMinimum(t *testing.T) {
	snap := widthSnap(0.3, 0.1)
	res := runDRC(t, snap, testRule("wid", rules.Width, rules.Params{MinWidth: 0.254, MaxWidth: 15.0}))

	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.InDelta(t, 0.1, v.Actual, 1e-9)
	assert.InDelta(t, 0.254, v.Required, 1e-9)
}

// Widths exactly on a bound pass; the band is strict.
func TestWidthExactBoundsPass(t *testing.T) {
	snap := widthSnap(0.254, 15.0, 1.0)
	res := runDRC(t, snap, testRule("wid", rules.Width, rules.Params{MinWidth: 0.254, MaxWidth: 15.0}))
	assert.True(t, res.Summary.Passed)
}

func TestWidthAboveMaximum(t *testing.T) {
	// One outlier among many sane tracks: under the unreliability threshold,
	// so the check runs and flags it
	snap := widthSnap(0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.3, 0.6)
	res := runDRC(t, snap, testRule("wid", rules.Width, rules.Params{MinWidth: 0.2, MaxWidth: 0.5}))

	require.Len(t, res.Violations, 1)
	assert.InDelta(t, 0.6, res.Violations[0].Actual, 1e-9)
}

// When a large share of tracks exceed the maximum the width field itself is
// suspect and the whole check is skipped rather than flooding the report.
func TestWidthUnreliableDataSkipsCheck(t *testing.T) {
	snap := widthSnap(0.6, 0.6, 0.6, 0.3, 0.3, 0.3)
	res := runDRC(t, snap, testRule("wid", rules.Width, rules.Params{MinWidth: 0.2, MaxWidth: 0.5}))
	assert.True(t, res.Summary.Passed)
}

func TestWidthNoTracks(t *testing.T) {
	res := runDRC(t, &snapshot.BoardSnapshot{},
		testRule("wid", rules.Width, rules.Params{MinWidth: 0.2, MaxWidth: 0.5}))
	assert.True(t, res.Summary.Passed)
}

// A scoped rule with a wider minimum governs its net; the generic rule
// covers the rest.
func TestWidthScopedRuleOverrides(t *testing.T) {
	snap := &snapshot.BoardSnapshot{
		Tracks: []snapshot.TrackSegment{
			testTrack("t1", "VCC", 0, 0, 10, 0, 0.3),
			testTrack("t2", "SIG", 0, 5, 10, 5, 0.3),
		},
		Nets: []snapshot.Net{{Name: "VCC"}, {Name: "SIG"}},
	}
	generic := testRule("wid", rules.Width, rules.Params{MinWidth: 0.2, MaxWidth: 15.0})
	power := testRule("wid-power", rules.Width, rules.Params{MinWidth: 0.5, MaxWidth: 15.0})
	power.Priority = 2
	power.Scope1 = rules.Scope{Kind: rules.ScopeInNet, Arg: "VCC"}

	res := runDRC(t, snap, generic, power)
	require.Len(t, res.Violations, 1)
	assert.Equal(t, "wid-power", res.Violations[0].RuleID)
	assert.Equal(t, "VCC", res.Violations[0].Net)
}
