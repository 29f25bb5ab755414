package drc

import (
	"fmt"

	"pcb-drc/internal/rules"
)

// checkHoleSize validates via and pad drill diameters against the governing
// rule's [min_hole, max_hole] band. Bounds are strict, matching the width
// check.
func checkHoleSize(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	for i := range rc.arena {
		o := &rc.arena[i]
		var hole float64
		var component string
		switch o.Kind {
		case KindVia:
			hole = rc.snap.Vias[o.Index].HoleSize
		case KindPad:
			pad := &rc.snap.Pads[o.Index]
			hole = pad.HoleSize
			component = pad.Component
		default:
			continue
		}
		if hole <= 0 {
			continue
		}

		rule := rules.ResolveSingle(group, rc.metas[i])
		if rule == nil {
			continue
		}

		var msg string
		var required float64
		switch {
		case hole < rule.Params.MinHole:
			msg = fmt.Sprintf("%s hole size %.3fmm is below minimum %.3fmm",
				kindTitle(o.Kind), hole, rule.Params.MinHole)
			required = rule.Params.MinHole
		case hole > rule.Params.MaxHole:
			msg = fmt.Sprintf("%s hole size %.3fmm exceeds maximum %.3fmm",
				kindTitle(o.Kind), hole, rule.Params.MaxHole)
			required = rule.Params.MaxHole
		default:
			continue
		}

		out = append(out, Violation{
			RuleID:    rule.ID,
			RuleName:  rule.Name,
			RuleType:  rule.Type.String(),
			Severity:  SeverityError,
			Message:   msg,
			Location:  Location{Point: o.Position, Layer: o.Layer},
			Actual:    hole,
			Required:  required,
			Objects:   []string{o.ID},
			Net:       o.Net,
			Component: component,
		})
	}
	return out
}

// checkHoleToHole flags drilled hole pairs whose edge-to-edge gap is below
// the rule minimum. Net membership does not matter: the constraint is
// mechanical (drill breakout), not electrical.
func checkHoleToHole(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	pairCandidates(rc.arena, rc.index, func(i, j int) {
		a, b := &rc.arena[i], &rc.arena[j]
		ha := holeRadius(rc, a)
		hb := holeRadius(rc, b)
		if ha <= 0 || hb <= 0 {
			return
		}

		rule := rules.ResolvePair(group, rc.metas[i], rc.metas[j])
		if rule == nil {
			return
		}

		gap := a.Position.Distance(b.Position) - ha - hb
		if gap <= 0 || gap >= rule.Params.HoleGap {
			return
		}

		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityError,
			Message: fmt.Sprintf("Hole-to-hole clearance violation: %.3fmm < %.3fmm",
				gap, rule.Params.HoleGap),
			Location: Location{Point: a.Position.Midpoint(b.Position)},
			Actual:   gap,
			Required: rule.Params.HoleGap,
			Objects:  []string{a.ID, b.ID},
		})
	})

	return out
}

// holeRadius returns half the drill diameter for drilled objects, 0
// otherwise.
func holeRadius(rc *runContext, o *object) float64 {
	switch o.Kind {
	case KindVia:
		return rc.snap.Vias[o.Index].HoleSize / 2
	case KindPad:
		return rc.snap.Pads[o.Index].HoleSize / 2
	}
	return 0
}

// kindTitle capitalizes the object kind for message text.
func kindTitle(k ObjectKind) string {
	switch k {
	case KindPad:
		return "Pad"
	case KindVia:
		return "Via"
	default:
		return "Object"
	}
}
