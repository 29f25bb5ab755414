package drc

import (
	"fmt"

	"pcb-drc/internal/rules"
	"pcb-drc/pkg/geometry"
)

// checkMaskSliver flags narrow ridges of solder mask left between the
// mask-expanded footprints of pad/via pairs. Only a strictly positive gap
// below the minimum is a sliver; a zero or negative gap means the mask
// openings merge, which is intentional overlap and not a defect.
func checkMaskSliver(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	pairCandidates(rc.arena, rc.index, func(i, j int) {
		a, b := &rc.arena[i], &rc.arena[j]
		if !roundKind(a.Kind) || !roundKind(b.Kind) {
			return
		}

		rule := rules.ResolvePair(group, rc.metas[i], rc.metas[j])
		if rule == nil {
			return
		}

		expansion := rule.Params.MaskExpansion
		gap := geometry.CircleClearance(
			geometry.Circle{Center: a.Position, Radius: a.Radius + expansion},
			geometry.Circle{Center: b.Position, Radius: b.Radius + expansion})
		if gap <= 0 || gap >= rule.Params.MinSliver {
			return
		}

		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityError,
			Message: fmt.Sprintf("Solder mask sliver: %.3fmm < %.3fmm between %s and %s",
				gap, rule.Params.MinSliver, a.Kind, b.Kind),
			Location: Location{Point: surfaceMidpoint(a, b)},
			Actual:   gap,
			Required: rule.Params.MinSliver,
			Objects:  []string{a.ID, b.ID},
		})
	})

	return out
}

// checkSilkToSilk measures clearance between component silk bounding boxes.
// True silk vector geometry is not exported, so boxes are the best
// available; findings are warnings. A rule clearance of exactly 0 means
// overlap is permitted and the check does not run at all.
func checkSilkToSilk(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	comps := rc.snap.Components

	for gi := range group {
		rule := group[gi].Rule
		if rule.Params.SilkClearance <= 0 {
			rc.log.Debug("silk-to-silk check skipped: clearance is 0 (overlap permitted)",
				"rule", rule.Name)
			continue
		}

		for i := range comps {
			c1 := &comps[i]
			if c1.SilkBounds == nil {
				continue
			}
			for j := i + 1; j < len(comps); j++ {
				c2 := &comps[j]
				if c2.SilkBounds == nil {
					continue
				}
				gap := geometry.RectDistance(*c1.SilkBounds, *c2.SilkBounds)
				if gap >= rule.Params.SilkClearance {
					continue
				}
				out = append(out, Violation{
					RuleID:   rule.ID,
					RuleName: rule.Name,
					RuleType: rule.Type.String(),
					Severity: SeverityWarning,
					Message: fmt.Sprintf("Silk to silk clearance: %.3fmm < %.3fmm",
						gap, rule.Params.SilkClearance),
					Location: Location{
						Point: c1.SilkBounds.Union(*c2.SilkBounds).Center(),
					},
					Actual:   gap,
					Required: rule.Params.SilkClearance,
					Objects:  []string{c1.Name, c2.Name},
				})
			}
		}
	}
	return out
}

// checkSilkToMask measures component silk bounds against the mask-expanded
// footprints of exposed pads. Same data caveats and zero-clearance skip as
// silk-to-silk.
func checkSilkToMask(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	for gi := range group {
		rule := group[gi].Rule
		if rule.Params.SilkClearance <= 0 {
			rc.log.Debug("silk-to-solder-mask check skipped: clearance is 0 (overlap permitted)",
				"rule", rule.Name)
			continue
		}

		for ci := range rc.snap.Components {
			comp := &rc.snap.Components[ci]
			if comp.SilkBounds == nil {
				continue
			}
			silk := *comp.SilkBounds
			for pi := range rc.snap.Pads {
				pad := &rc.snap.Pads[pi]
				mask := geometry.Rect{
					X:      pad.Position.X - pad.SizeX/2,
					Y:      pad.Position.Y - pad.SizeY/2,
					Width:  pad.SizeX,
					Height: pad.SizeY,
				}.Expand(rule.Params.MaskExpansion)
				gap := geometry.RectDistance(silk, mask)
				if gap >= rule.Params.SilkClearance {
					continue
				}
				// A component overlapping its own pads' mask openings is
				// normal footprint construction
				if pad.Component == comp.Name {
					continue
				}
				out = append(out, Violation{
					RuleID:   rule.ID,
					RuleName: rule.Name,
					RuleType: rule.Type.String(),
					Severity: SeverityWarning,
					Message: fmt.Sprintf("Silk to solder mask clearance: %.3fmm < %.3fmm",
						gap, rule.Params.SilkClearance),
					Location:  Location{Point: pad.Position},
					Actual:    gap,
					Required:  rule.Params.SilkClearance,
					Objects:   []string{comp.Name, pad.ID},
					Component: comp.Name,
				})
			}
		}
	}
	return out
}
