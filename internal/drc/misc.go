package drc

import (
	"fmt"

	"pcb-drc/internal/rules"
	"pcb-drc/internal/snapshot"
)

// checkHeight validates component heights against the rule band. Components
// without height data are skipped.
func checkHeight(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	for ci := range rc.snap.Components {
		comp := &rc.snap.Components[ci]
		if comp.Height <= 0 {
			continue
		}

		meta := rules.ObjectMeta{
			Component:     comp.Name,
			ComponentKind: comp.Kind,
			Position:      comp.Position,
		}
		rule := rules.ResolveSingle(group, meta)
		if rule == nil {
			continue
		}

		var msg string
		var required float64
		switch {
		case rule.Params.MinHeight > 0 && comp.Height < rule.Params.MinHeight:
			msg = fmt.Sprintf("Component height %.2fmm is below minimum %.2fmm",
				comp.Height, rule.Params.MinHeight)
			required = rule.Params.MinHeight
		case rule.Params.MaxHeight > 0 && comp.Height > rule.Params.MaxHeight:
			msg = fmt.Sprintf("Component height %.2fmm exceeds maximum %.2fmm",
				comp.Height, rule.Params.MaxHeight)
			required = rule.Params.MaxHeight
		default:
			continue
		}

		out = append(out, Violation{
			RuleID:    rule.ID,
			RuleName:  rule.Name,
			RuleType:  rule.Type.String(),
			Severity:  SeverityError,
			Message:   msg,
			Location:  Location{Point: comp.Position},
			Actual:    comp.Height,
			Required:  required,
			Objects:   []string{comp.Name},
			Component: comp.Name,
		})
	}
	return out
}

// checkModifiedPolygon flags polygons whose pour was edited or shelved
// after pouring, unless the rule allows it.
func checkModifiedPolygon(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	for gi := range group {
		rule := group[gi].Rule
		if rule.Params.AllowModified && rule.Params.AllowShelved {
			continue
		}
		for pi := range rc.snap.Polygons {
			poly := &rc.snap.Polygons[pi]
			if poly.Modified && !rule.Params.AllowModified {
				out = append(out, polygonViolation(rule, poly,
					fmt.Sprintf("Modified polygon '%s' detected (not allowed)", polyName(poly))))
			}
			if poly.Shelved && !rule.Params.AllowShelved {
				out = append(out, polygonViolation(rule, poly,
					fmt.Sprintf("Shelved polygon '%s' detected (not allowed)", polyName(poly))))
			}
		}
	}
	return out
}

func polyName(p *snapshot.PolygonRegion) string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}

func polygonViolation(rule *rules.Rule, p *snapshot.PolygonRegion, msg string) Violation {
	return Violation{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		RuleType: rule.Type.String(),
		Severity: SeverityError,
		Message:  msg,
		Location: Location{Point: p.Bounds.Center(), Layer: p.Layer},
		Objects:  []string{p.ID},
		Net:      p.Net,
	}
}
