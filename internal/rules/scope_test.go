package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-drc/internal/snapshot"
	"pcb-drc/pkg/geometry"
)

func TestParseScope(t *testing.T) {
	cases := []struct {
		expr string
		want Scope
	}{
		{"", Scope{Kind: ScopeAll}},
		{"All", Scope{Kind: ScopeAll}},
		{"all", Scope{Kind: ScopeAll}},
		{"InNet('GND')", Scope{Kind: ScopeInNet, Arg: "GND"}},
		{`InNet("VCC_3V3")`, Scope{Kind: ScopeInNet, Arg: "VCC_3V3"}},
		{"InNetClass('Power')", Scope{Kind: ScopeInNetClass, Arg: "Power"}},
		{"InNamedPolygon('KeepOut')", Scope{Kind: ScopeInNamedPolygon, Arg: "KeepOut"}},
		{"IsSMD", Scope{Kind: ScopeComponentKind, Arg: "SMD"}},
		{"SomeFutureExpression", Scope{Kind: ScopeAll}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseScope(tc.expr), "expr %q", tc.expr)
	}
}

func TestScopeCompileNetClass(t *testing.T) {
	snap := &snapshot.BoardSnapshot{
		Nets: []snapshot.Net{
			{Name: "VCC", Class: "Power"},
			{Name: "SIG1", Class: "Signal"},
		},
	}
	pred := Scope{Kind: ScopeInNetClass, Arg: "Power"}.Compile(snap)
	assert.True(t, pred(ObjectMeta{Net: "VCC"}))
	assert.False(t, pred(ObjectMeta{Net: "SIG1"}))
	assert.False(t, pred(ObjectMeta{Net: ""}))
}

func TestScopeCompileNamedPolygon(t *testing.T) {
	snap := &snapshot.BoardSnapshot{
		Polygons: []snapshot.PolygonRegion{{
			ID:   "p1",
			Name: "KeepOut",
			Outline: []geometry.Point2D{
				{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
			},
		}},
	}
	pred := Scope{Kind: ScopeInNamedPolygon, Arg: "KeepOut"}.Compile(snap)
	assert.True(t, pred(ObjectMeta{Position: geometry.NewPoint2D(5, 5)}))
	assert.False(t, pred(ObjectMeta{Position: geometry.NewPoint2D(20, 5)}))

	// Unknown polygon matches nothing but the predicate stays total
	missing := Scope{Kind: ScopeInNamedPolygon, Arg: "NoSuch"}.Compile(snap)
	assert.False(t, missing(ObjectMeta{Position: geometry.NewPoint2D(5, 5)}))
}

func compiled(t *testing.T, rs []Rule) []Compiled {
	t.Helper()
	return CompileAll(rs, &snapshot.BoardSnapshot{})
}

func TestResolvePairPriority(t *testing.T) {
	rs := []Rule{
		{ID: "generic", Type: Clearance, Enabled: true, Priority: 1,
			Params: Params{MinClearance: 0.2}},
		{ID: "gnd", Type: Clearance, Enabled: true, Priority: 2,
			Scope1: Scope{Kind: ScopeInNet, Arg: "GND"},
			Params: Params{MinClearance: 0.5}},
	}
	cs := compiled(t, rs)

	gnd := ObjectMeta{Net: "GND"}
	sig := ObjectMeta{Net: "SIG"}

	// Scoped rule wins for its pair, in either argument order
	r := ResolvePair(cs, gnd, sig)
	require.NotNil(t, r)
	assert.Equal(t, "gnd", r.ID)
	assert.Equal(t, r, ResolvePair(cs, sig, gnd))

	// Generic rule still covers everything else
	r = ResolvePair(cs, sig, ObjectMeta{Net: "SIG2"})
	require.NotNil(t, r)
	assert.Equal(t, "generic", r.ID)
}

// The generic rule must lose to a matching scoped rule even when its own
// priority number is higher.
func TestResolvePairGenericNeverBeatsScoped(t *testing.T) {
	rs := []Rule{
		{ID: "generic", Type: Clearance, Enabled: true, Priority: 10},
		{ID: "gnd", Type: Clearance, Enabled: true, Priority: 1,
			Scope1: Scope{Kind: ScopeInNet, Arg: "GND"}},
	}
	cs := compiled(t, rs)
	r := ResolvePair(cs, ObjectMeta{Net: "GND"}, ObjectMeta{Net: "SIG"})
	require.NotNil(t, r)
	assert.Equal(t, "gnd", r.ID)
}

func TestResolveSingle(t *testing.T) {
	rs := []Rule{
		{ID: "wide", Type: Width, Enabled: true, Priority: 1},
		{ID: "power-wide", Type: Width, Enabled: true, Priority: 5,
			Scope1: Scope{Kind: ScopeInNet, Arg: "VCC"}},
		{ID: "disabled", Type: Width, Enabled: false, Priority: 9,
			Scope1: Scope{Kind: ScopeInNet, Arg: "VCC"}},
	}
	cs := compiled(t, rs)

	r := ResolveSingle(cs, ObjectMeta{Net: "VCC"})
	require.NotNil(t, r)
	assert.Equal(t, "power-wide", r.ID)

	r = ResolveSingle(cs, ObjectMeta{Net: "SIG"})
	require.NotNil(t, r)
	assert.Equal(t, "wide", r.ID)
}

func TestCompileAllSkipsDisabled(t *testing.T) {
	rs := []Rule{
		{ID: "on", Type: Clearance, Enabled: true},
		{ID: "off", Type: Clearance, Enabled: false},
	}
	cs := compiled(t, rs)
	require.Len(t, cs, 1)
	assert.Equal(t, "on", cs[0].Rule.ID)
}
