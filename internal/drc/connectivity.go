package drc

import (
	"pcb-drc/pkg/geometry"
)

// Copper-join tolerances in board length units. Exported coordinates carry
// rounding from the CAD tool's internal units, so exact equality never
// holds.
const (
	// padContainTol pads the circular-containment test joining an endpoint
	// to a pad or via.
	padContainTol = 0.8

	// endpointTol is the general coincidence distance for endpoints.
	endpointTol = 1.0
)

// unionFind is a disjoint-set over arena indices, kept as flat parent/rank
// arrays so partitions stay cache-friendly and trivial to inspect in tests.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{
		parent: make([]int, n),
		rank:   make([]int, n),
	}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

// find returns the set root with path halving.
func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// union joins the sets containing a and b.
func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}

// connected reports whether a and b share a set.
func (uf *unionFind) connected(a, b int) bool {
	return uf.find(a) == uf.find(b)
}

// buildConnectivity partitions the arena into copper-connected groups. The
// partition is computed once per run from the immutable snapshot and never
// mutated afterwards.
func buildConnectivity(rc *runContext) *unionFind {
	uf := newUnionFind(len(rc.arena))

	// Same-component same-net pads are joined internally by the footprint
	padsByComp := make(map[string][]int)
	for i := range rc.arena {
		o := &rc.arena[i]
		if o.Kind != KindPad {
			continue
		}
		pad := &rc.snap.Pads[o.Index]
		if pad.Component == "" || pad.Net == "" {
			continue
		}
		key := pad.Component + "\x00" + pad.Net
		padsByComp[key] = append(padsByComp[key], i)
	}
	for _, members := range padsByComp {
		for k := 1; k < len(members); k++ {
			uf.union(members[0], members[k])
		}
	}

	pairCandidates(rc.arena, rc.index, func(i, j int) {
		a, b := &rc.arena[i], &rc.arena[j]
		if a.Net != "" && b.Net != "" && a.Net != b.Net {
			return
		}
		if !layerCompatible(rc, a, b) {
			return
		}
		if copperTouches(rc, a, b) {
			uf.union(i, j)
		}
	})

	return uf
}

// copperTouches decides whether two same-net objects are physically joined.
func copperTouches(rc *runContext, a, b *object) bool {
	// Normalize so the more structured kind is on the left
	if kindJoinRank(a.Kind) < kindJoinRank(b.Kind) {
		a, b = b, a
	}

	switch {
	case roundKind(a.Kind) && roundKind(b.Kind):
		tol := maxf(maxf(a.Radius, b.Radius), padContainTol)
		return a.Position.Distance(b.Position) <= tol

	case roundKind(a.Kind) && (b.Kind == KindTrack || b.Kind == KindArc):
		tol := maxf(a.Radius, padContainTol)
		for _, ep := range endpointsOf(rc, b) {
			if ep.Distance(a.Position) <= tol {
				return true
			}
		}
		return false

	case a.Kind == KindTrack && b.Kind == KindTrack:
		segA := rc.snap.Tracks[a.Index].Segment()
		segB := rc.snap.Tracks[b.Index].Segment()
		// Endpoint coincidence, or an endpoint landing on the other
		// track's body (T-junction / overlap join)
		for _, ep := range []geometry.Point2D{segA.Start, segA.End} {
			if geometry.PointSegmentDistance(ep, segB) <= maxf(b.Radius, endpointTol) {
				return true
			}
		}
		for _, ep := range []geometry.Point2D{segB.Start, segB.End} {
			if geometry.PointSegmentDistance(ep, segA) <= maxf(a.Radius, endpointTol) {
				return true
			}
		}
		return false

	case a.Kind == KindTrack && b.Kind == KindArc, a.Kind == KindArc && b.Kind == KindArc:
		for _, pa := range endpointsOf(rc, a) {
			for _, pb := range endpointsOf(rc, b) {
				if geometry.Coincident(pa, pb, endpointTol) {
					return true
				}
			}
		}
		return false

	case b.Kind == KindPolygon || b.Kind == KindFill:
		if a.Kind == KindPolygon || a.Kind == KindFill {
			return regionBounds(rc, a).Intersects(regionBounds(rc, b))
		}
		if roundKind(a.Kind) {
			return regionContains(rc, b, a.Position)
		}
		for _, ep := range endpointsOf(rc, a) {
			if regionContains(rc, b, ep) {
				return true
			}
		}
		// A track passing through a pour connects even when both endpoints
		// land outside it
		if a.Kind == KindTrack && b.Kind == KindPolygon {
			return geometry.SegmentIntersectsPolygon(
				rc.snap.Tracks[a.Index].Segment(), rc.snap.Polygons[b.Index].Outline)
		}
		return false
	}
	return false
}

// kindJoinRank orders kinds for copperTouches normalization: regions last.
func kindJoinRank(k ObjectKind) int {
	switch k {
	case KindPad, KindVia:
		return 3
	case KindTrack:
		return 2
	case KindArc:
		return 1
	default:
		return 0
	}
}

// endpointsOf returns the connectable endpoints of a track or arc.
func endpointsOf(rc *runContext, o *object) []geometry.Point2D {
	switch o.Kind {
	case KindTrack:
		t := &rc.snap.Tracks[o.Index]
		return []geometry.Point2D{t.Start, t.End}
	case KindArc:
		a := &rc.snap.Arcs[o.Index]
		return []geometry.Point2D{a.Start, a.End}
	}
	return nil
}

// regionContains tests a point against a polygon outline or fill bounds.
func regionContains(rc *runContext, o *object, p geometry.Point2D) bool {
	switch o.Kind {
	case KindPolygon:
		return rc.snap.Polygons[o.Index].ContainsPoint(p)
	case KindFill:
		return rc.snap.Fills[o.Index].Bounds.Contains(p)
	}
	return false
}

func regionBounds(rc *runContext, o *object) geometry.Rect {
	return o.Bounds
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
