package drc

import (
	"fmt"

	"pcb-drc/internal/rules"
	"pcb-drc/pkg/geometry"
)

// checkShortCircuit flags true geometric overlap between different-net
// objects: box overlap for pad pairs, radius-sum overlap for round pairs.
// Pad-to-polygon overlap is excluded for the same bounding-box reason as the
// clearance check.
func checkShortCircuit(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	pairCandidates(rc.arena, rc.index, func(i, j int) {
		a, b := &rc.arena[i], &rc.arena[j]
		if a.Net == "" || b.Net == "" || a.Net == b.Net {
			return
		}
		if !layerCompatible(rc, a, b) {
			return
		}
		if a.Kind == KindPolygon || b.Kind == KindPolygon ||
			a.Kind == KindFill || b.Kind == KindFill {
			return
		}

		rule := rules.ResolvePair(group, rc.metas[i], rc.metas[j])
		if rule == nil || rule.Params.ShortAllowed {
			return
		}

		overlap := false
		switch {
		case a.Kind == KindPad && b.Kind == KindPad:
			// Pads are rectangular; use their true outlines
			overlap = padBox(rc, a).Intersects(padBox(rc, b))
		case roundKind(a.Kind) && roundKind(b.Kind):
			overlap = a.Position.Distance(b.Position) < a.Radius+b.Radius
		case a.Kind == KindTrack || b.Kind == KindTrack:
			gap, _, ok := pairClearance(rc, a, b)
			overlap = ok && gap < 0
		}
		if !overlap {
			return
		}

		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityError,
			Message: fmt.Sprintf("Short circuit: %s and %s on different nets (%s, %s) overlap",
				a.Kind, b.Kind, a.Net, b.Net),
			Location: Location{Point: a.Position.Midpoint(b.Position), Layer: pairLayer(a, b)},
			Objects:  []string{a.ID, b.ID},
			Net:      a.Net + "/" + b.Net,
		})
	})

	return out
}

// roundKind returns true for objects reduced to a center and radius.
func roundKind(k ObjectKind) bool {
	return k == KindPad || k == KindVia
}

// padBox returns the pad's true rectangular outline.
func padBox(rc *runContext, o *object) geometry.Rect {
	p := &rc.snap.Pads[o.Index]
	return geometry.Rect{
		X:      p.Position.X - p.SizeX/2,
		Y:      p.Position.Y - p.SizeY/2,
		Width:  p.SizeX,
		Height: p.SizeY,
	}
}
