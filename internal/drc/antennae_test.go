package drc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pcb-drc/internal/rules"
	"pcb-drc/internal/snapshot"
	"pcb-drc/pkg/geometry"
)

func antennaeRule() rules.Rule {
	return testRule("ant", rules.NetAntennae, rules.Params{})
}

// sigSnap builds a net with one residual ratsnest edge so the antenna
// checker examines it.
func sigSnap(pads []snapshot.Pad, tracks []snapshot.TrackSegment) *snapshot.BoardSnapshot {
	return &snapshot.BoardSnapshot{
		Pads:   pads,
		Tracks: tracks,
		Nets:   []snapshot.Net{{Name: "SIG"}},
		Connections: []snapshot.ConnectionEdge{
			{Net: "SIG", From: "p1", To: "p2"},
		},
		HasConnectionData: true,
	}
}

// A track anchored on a pad at one end and loose at the other is a stub.
func TestAntennaOneLooseEnd(t *testing.T) {
	snap := sigSnap(
		[]snapshot.Pad{testPad("p1", "SIG", 0, 0, 1.0)},
		[]snapshot.TrackSegment{testTrack("t1", "SIG", 0, 0, 5, 0, 0.4)},
	)
	res := runDRC(t, snap, antennaeRule())

	require.Len(t, res.Violations, 1)
	v := res.Violations[0]
	assert.Equal(t, SeverityError, v.Severity)
	assert.Equal(t, "SIG", v.Net)
	// The loose end, not the anchored one
	assert.Equal(t, pt(5, 0), v.Location.Point)
}

func TestAntennaBothEndsAnchored(t *testing.T) {
	snap := sigSnap(
		[]snapshot.Pad{
			testPad("p1", "SIG", 0, 0, 1.0),
			testPad("p2", "SIG", 5, 0, 1.0),
		},
		[]snapshot.TrackSegment{testTrack("t1", "SIG", 0, 0, 5, 0, 0.4)},
	)
	res := runDRC(t, snap, antennaeRule())
	assert.True(t, res.Summary.Passed)
}

// Loose at both ends is the unrouted detector's territory, not an antenna.
func TestAntennaBothEndsLooseNotReported(t *testing.T) {
	snap := sigSnap(
		nil,
		[]snapshot.TrackSegment{testTrack("t1", "SIG", 0, 0, 5, 0, 0.4)},
	)
	res := runDRC(t, snap, antennaeRule())
	assert.Empty(t, res.Violations)
}

// A T-junction onto another track's body anchors the endpoint.
func TestAntennaTJunctionAnchors(t *testing.T) {
	snap := sigSnap(
		[]snapshot.Pad{
			testPad("p1", "SIG", 0, 0, 1.0),
			testPad("p2", "SIG", 10, 0, 1.0),
		},
		[]snapshot.TrackSegment{
			testTrack("t1", "SIG", 0, 0, 10, 0, 0.4),
			testTrack("t2", "SIG", 5, 0, 5, 3, 0.4),
		},
	)
	res := runDRC(t, snap, antennaeRule())
	// t2 joins t1's body at (5,0); its far end at (5,3) is the only stub
	require.Len(t, res.Violations, 1)
	assert.Equal(t, pt(5, 3), res.Violations[0].Location.Point)
}

// An endpoint within tolerance of a pour edge counts as anchored; only the
// far end is a stub.
func TestAntennaPolygonEdgeAnchors(t *testing.T) {
	snap := sigSnap(nil, []snapshot.TrackSegment{
		testTrack("t1", "SIG", 10.1, 5, 20, 5, 0.4),
	})
	snap.Polygons = []snapshot.PolygonRegion{{
		ID: "pour1", Net: "SIG", Layer: "Top",
		Outline: []geometry.Point2D{
			{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
		},
		Bounds: geomRect(0, 0, 10, 10), IsPour: true,
	}}
	res := runDRC(t, snap, antennaeRule())

	require.Len(t, res.Violations, 1)
	assert.Equal(t, pt(20, 5), res.Violations[0].Location.Point)
}

// Fully-routed nets (no residual edges) are not scanned.
func TestAntennaOnlyNetsWithResidualEdges(t *testing.T) {
	snap := &snapshot.BoardSnapshot{
		Pads:              []snapshot.Pad{testPad("p1", "SIG", 0, 0, 1.0)},
		Tracks:            []snapshot.TrackSegment{testTrack("t1", "SIG", 0, 0, 5, 0, 0.4)},
		Nets:              []snapshot.Net{{Name: "SIG"}},
		Connections:       []snapshot.ConnectionEdge{},
		HasConnectionData: true,
	}
	res := runDRC(t, snap, antennaeRule())
	assert.True(t, res.Summary.Passed)
}

// Without ratsnest data the check cannot tell stubs from unfinished routing.
func TestAntennaSkippedWithoutRatsnest(t *testing.T) {
	snap := &snapshot.BoardSnapshot{
		Tracks: []snapshot.TrackSegment{testTrack("t1", "SIG", 0, 0, 5, 0, 0.4)},
		Nets:   []snapshot.Net{{Name: "SIG"}},
	}
	res := runDRC(t, snap, antennaeRule())
	assert.True(t, res.Summary.Passed)
}
