package drc

import (
	"fmt"

	"pcb-drc/internal/rules"
	"pcb-drc/pkg/geometry"
)

// checkNetAntennae finds dangling track stubs. It only examines nets that
// still carry residual ratsnest edges: a fully-routed net cannot have grown
// an antenna the exporter did not notice, and scanning it would be wasted
// work. A track violates when exactly one endpoint is unconnected; a track
// loose at both ends is the unrouted-net detector's finding and is not
// double-reported here.
func checkNetAntennae(rc *runContext, group []rules.Compiled) []Violation {
	if !rc.snap.HasConnectionData {
		rc.log.Debug("net antennae check skipped: no ratsnest data")
		return nil
	}

	netsWithEdges := make(map[string]bool)
	for i := range rc.snap.Connections {
		if net := rc.snap.Connections[i].Net; net != "" {
			netsWithEdges[net] = true
		}
	}
	if len(netsWithEdges) == 0 {
		return nil
	}

	var out []Violation
	for i := range rc.arena {
		o := &rc.arena[i]
		if o.Kind != KindTrack || !netsWithEdges[o.Net] {
			continue
		}

		rule := rules.ResolveSingle(group, rc.metas[i])
		if rule == nil {
			continue
		}

		track := &rc.snap.Tracks[o.Index]
		// Adaptive tolerance: the track's own half-width, widened by any
		// explicit rule tolerance
		tol := track.EffectiveRadius() + rule.Params.AntennaTolerance

		startConnected := endpointConnected(rc, i, track.Start, tol)
		endConnected := endpointConnected(rc, i, track.End, tol)
		if startConnected == endConnected {
			continue
		}

		loose := track.Start
		if startConnected {
			loose = track.End
		}
		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityError,
			Message: fmt.Sprintf("Net antenna: stub track at (%.2f, %.2f) on net '%s'",
				loose.X, loose.Y, o.Net),
			Location: Location{Point: loose, Layer: o.Layer},
			Objects:  []string{o.ID},
			Net:      o.Net,
		})
	}
	return out
}

// endpointConnected tests one track endpoint against every other same-net
// object: pad/via containment, other track endpoints and bodies, arc
// endpoints, and polygon/fill containment.
func endpointConnected(rc *runContext, self int, ep geometry.Point2D, tol float64) bool {
	track := &rc.arena[self]
	for i := range rc.arena {
		if i == self {
			continue
		}
		o := &rc.arena[i]
		if o.Net != track.Net {
			continue
		}
		if !layerCompatible(rc, track, o) {
			continue
		}

		switch o.Kind {
		case KindPad, KindVia:
			reach := geometry.Circle{Center: o.Position, Radius: o.Radius + tol}
			if reach.Contains(ep) {
				return true
			}
		case KindTrack:
			other := rc.snap.Tracks[o.Index].Segment()
			// Body contact covers T-junctions, not just endpoint meets
			if geometry.PointSegmentDistance(ep, other) <= o.Radius+tol {
				return true
			}
		case KindArc:
			arc := &rc.snap.Arcs[o.Index]
			if ep.Distance(arc.Start) <= tol || ep.Distance(arc.End) <= tol {
				return true
			}
		case KindPolygon:
			poly := &rc.snap.Polygons[o.Index]
			if poly.ContainsPoint(ep) {
				return true
			}
			// An endpoint just short of the pour edge still anchors
			if len(poly.Outline) >= 3 && geometry.PointPolygonDistance(ep, poly.Outline) <= tol {
				return true
			}
		case KindFill:
			if rc.snap.Fills[o.Index].Bounds.Contains(ep) {
				return true
			}
		}
	}
	return false
}
