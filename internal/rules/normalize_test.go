package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeType(t *testing.T) {
	cases := []struct {
		kind string
		want Type
	}{
		{"Clearance", Clearance},
		{"Clearance_Signal", Clearance},
		{"HoleToHoleClearance", HoleToHole},
		{"Hole_To_Hole", HoleToHole},
		{"SilkToSilkClearance", SilkToSilk},
		{"SilkToSolderMaskClearance", SilkToSolderMask},
		{"MinimumSolderMaskSliver", SolderMaskSliver},
		{"Width", Width},
		{"Width_Constraint", Width},
		{"RoutingViaStyle", ViaStyle},
		{"HoleSize", HoleSize},
		{"UnRoutedNet", UnroutedNet},
		{"ShortCircuit", ShortCircuit},
		{"NetAntennae", NetAntennae},
		{"DifferentialPairsRouting", DiffPair},
		{"RoutingTopology", RoutingTopology},
		{"RoutingCorners", RoutingCorners},
		{"RoutingLayers", RoutingLayers},
		{"RoutingPriority", RoutingPriority},
		{"PlaneConnect", PlaneConnect},
		{"Height", Height},
		{"ModifiedPolygon", ModifiedPolygon},
		{"SomethingElse", Other},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeType(tc.kind), "kind %q", tc.kind)
	}
}

// A name containing both "hole" and "clearance" is a hole-to-hole rule, not a
// general clearance rule. Likewise "via" beats "width" in routing via styles.
func TestNormalizeTypePrecedence(t *testing.T) {
	assert.Equal(t, HoleToHole, NormalizeType("HoleToHoleClearance"))
	assert.Equal(t, ViaStyle, NormalizeType("RoutingViaWidth"))
	assert.NotEqual(t, Width, NormalizeType("RoutingViaWidth"))
}

func TestNormalizeDefaults(t *testing.T) {
	out := Normalize([]Raw{
		{Kind: "Clearance", Name: "board clearance"},
		{Kind: "Width"},
	})
	require.Len(t, out, 2)

	cl := out[0]
	assert.Equal(t, Clearance, cl.Type)
	assert.True(t, cl.Enabled)
	assert.Equal(t, 1, cl.Priority)
	assert.InDelta(t, 0.2, cl.Params.MinClearance, 1e-9)
	assert.NotEmpty(t, cl.ID)

	w := out[1]
	assert.Equal(t, Width, w.Type)
	assert.InDelta(t, 0.254, w.Params.MinWidth, 1e-9)
	assert.InDelta(t, 15.0, w.Params.MaxWidth, 1e-9)
}

func TestNormalizeExplicitValuesWin(t *testing.T) {
	out := Normalize([]Raw{{
		Kind:   "Clearance",
		Values: map[string]float64{"min_clearance": 0.5},
	}})
	require.Len(t, out, 1)
	assert.InDelta(t, 0.5, out[0].Params.MinClearance, 1e-9)
}

func TestNormalizeDisabled(t *testing.T) {
	off := false
	out := Normalize([]Raw{{Kind: "Clearance", Enabled: &off}})
	require.Len(t, out, 1)
	assert.False(t, out[0].Enabled)
}
