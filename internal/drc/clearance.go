package drc

import (
	"fmt"
	"math"

	"pcb-drc/internal/rules"
	"pcb-drc/pkg/geometry"
)

// checkClearance walks candidate object pairs and flags any pair on
// different nets whose edge-to-edge gap is below the governing rule's
// minimum. Polygon and fill geometry is bounding-box only (no thermal
// reliefs), so object-to-polygon clearance is excluded permanently and
// object-to-fill is behind Config.CheckFillClearance.
func checkClearance(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	pairCandidates(rc.arena, rc.index, func(i, j int) {
		a, b := &rc.arena[i], &rc.arena[j]
		if a.Net != "" && a.Net == b.Net {
			return
		}
		if !layerCompatible(rc, a, b) {
			return
		}
		if !clearancePairSupported(rc, a, b) {
			return
		}

		rule := rules.ResolvePair(group, rc.metas[i], rc.metas[j])
		if rule == nil {
			return
		}

		gap, loc, ok := pairClearance(rc, a, b)
		if !ok {
			return
		}
		// Negative gap means geometric overlap: that is the short-circuit
		// checker's finding, not insufficient clearance
		if gap < 0 || gap >= rule.Params.MinClearance {
			return
		}

		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityError,
			Message: fmt.Sprintf("Clearance violation: %.3fmm < %.3fmm between %s and %s",
				gap, rule.Params.MinClearance, a.Kind, b.Kind),
			Location: Location{Point: loc, Layer: pairLayer(a, b)},
			Actual:   gap,
			Required: rule.Params.MinClearance,
			Objects:  []string{a.ID, b.ID},
		})
	})

	return out
}

// clearancePairSupported filters pair classes the clearance check covers.
func clearancePairSupported(rc *runContext, a, b *object) bool {
	if a.Kind == KindPolygon || b.Kind == KindPolygon {
		return false
	}
	if a.Kind == KindFill || b.Kind == KindFill {
		if !rc.cfg.CheckFillClearance {
			return false
		}
		// Fill-to-fill has no reliable geometry on either side
		return a.Kind != b.Kind
	}
	// Arc-arc needs true arc intersection math; not derivable from the
	// exported fields without false positives
	if a.Kind == KindArc && b.Kind == KindArc {
		return false
	}
	return true
}

// pairClearance computes the edge-to-edge gap between two arena objects and
// a representative location (the closest approach). ok is false for pair
// classes with no usable geometry.
func pairClearance(rc *runContext, a, b *object) (float64, geometry.Point2D, bool) {
	// Normalize order so each pair class is handled once
	switch {
	case a.Kind == KindFill:
		return pairClearance(rc, b, a)
	case a.Kind == KindTrack && b.Kind != KindTrack && b.Kind != KindArc && b.Kind != KindFill:
		return pairClearance(rc, b, a)
	case a.Kind == KindArc && b.Kind != KindArc && b.Kind != KindFill:
		return pairClearance(rc, b, a)
	}

	switch b.Kind {
	case KindPad, KindVia:
		switch a.Kind {
		case KindPad, KindVia:
			gap := geometry.CircleClearance(
				geometry.Circle{Center: a.Position, Radius: a.Radius},
				geometry.Circle{Center: b.Position, Radius: b.Radius})
			return gap, surfaceMidpoint(a, b), true
		}
	case KindTrack:
		seg := rc.snap.Tracks[b.Index].Segment()
		switch a.Kind {
		case KindPad, KindVia:
			gap := geometry.CircleSegmentClearance(
				geometry.Circle{Center: a.Position, Radius: a.Radius}, seg, b.Radius)
			return gap, geometry.ClosestPointOnSegment(a.Position, seg), true
		case KindTrack:
			segA := rc.snap.Tracks[a.Index].Segment()
			gap := geometry.SegmentClearance(segA, a.Radius, seg, b.Radius)
			loc := geometry.ClosestPointOnSegment(segA.Midpoint(), seg)
			return gap, loc, true
		}
	case KindArc:
		arc := &rc.snap.Arcs[b.Index]
		switch a.Kind {
		case KindPad, KindVia:
			// Distance from a circle to the arc's ring
			d := a.Position.Distance(arc.Center)
			gap := math.Abs(d-arc.Radius) - arc.EffectiveRadius() - a.Radius
			return gap, surfaceMidpoint(a, b), true
		case KindTrack:
			seg := rc.snap.Tracks[a.Index].Segment()
			d := geometry.PointSegmentDistance(arc.Center, seg)
			gap := math.Abs(d-arc.Radius) - arc.EffectiveRadius() - a.Radius
			return gap, geometry.ClosestPointOnSegment(arc.Center, seg), true
		}
	case KindFill:
		fill := rc.snap.Fills[b.Index].Bounds
		switch a.Kind {
		case KindPad, KindVia:
			pt := geometry.Rect{X: a.Position.X, Y: a.Position.Y}
			gap := geometry.RectDistance(fill, pt) - a.Radius
			return gap, a.Position, true
		case KindTrack:
			seg := rc.snap.Tracks[a.Index].Segment()
			gap := geometry.RectDistance(fill, geometry.Rect{X: seg.Midpoint().X, Y: seg.Midpoint().Y}) - a.Radius
			return gap, seg.Midpoint(), true
		}
	}
	return 0, geometry.Point2D{}, false
}

// surfaceMidpoint returns the point halfway between the facing edges of two
// round objects.
func surfaceMidpoint(a, b *object) geometry.Point2D {
	d := a.Position.Distance(b.Position)
	if d == 0 {
		return a.Position
	}
	dir := b.Position.Sub(a.Position).Scale(1 / d)
	pa := a.Position.Add(dir.Scale(a.Radius))
	pb := b.Position.Sub(dir.Scale(b.Radius))
	return pa.Midpoint(pb)
}

// pairLayer picks the layer to report for a pair: the specific one when a
// side spans all layers.
func pairLayer(a, b *object) string {
	if a.AllLayer && !b.AllLayer {
		return b.Layer
	}
	return a.Layer
}
