package drc

import (
	"fmt"
	"strings"

	"pcb-drc/internal/rules"
	"pcb-drc/internal/snapshot"
	"pcb-drc/pkg/geometry"
)

// checkDiffPairs validates differential-pair width and gap. Width reuses
// the band check restricted to the paired nets; gap is measured between
// near-parallel segment pairs, one from each net of the pair. Uncoupled
// sections (no projection overlap) are not flagged against the maximum:
// pairs legitimately separate near pins.
func checkDiffPairs(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	for gi := range group {
		rule := group[gi].Rule
		pairs := diffPairNets(rc, rule)
		if len(pairs) == 0 {
			rc.log.Debug("diff pair check skipped: no paired nets resolved", "rule", rule.Name)
			continue
		}

		for _, pair := range pairs {
			tracksP := tracksOnNet(rc, pair[0])
			tracksN := tracksOnNet(rc, pair[1])

			// Width band over both nets of the pair
			for _, ti := range append(append([]int{}, tracksP...), tracksN...) {
				t := &rc.snap.Tracks[ti]
				if t.Width <= 0 {
					continue
				}
				switch {
				case t.Width < rule.Params.DiffMinWidth:
					out = append(out, diffViolation(rule, t,
						fmt.Sprintf("Differential pair track width %.3fmm is below minimum %.3fmm",
							t.Width, rule.Params.DiffMinWidth),
						t.Width, rule.Params.DiffMinWidth))
				case t.Width > rule.Params.DiffMaxWidth:
					out = append(out, diffViolation(rule, t,
						fmt.Sprintf("Differential pair track width %.3fmm exceeds maximum %.3fmm",
							t.Width, rule.Params.DiffMaxWidth),
						t.Width, rule.Params.DiffMaxWidth))
				}
			}

			// Gap between coupled (near-parallel, overlapping) segments
			for _, pi := range tracksP {
				tp := &rc.snap.Tracks[pi]
				for _, ni := range tracksN {
					tn := &rc.snap.Tracks[ni]
					if !snapLayerMatch(tp.Layer, tn.Layer) {
						continue
					}
					segP, segN := tp.Segment(), tn.Segment()
					if geometry.SegmentAngle(segP, segN) > rule.Params.ParallelAngle {
						continue
					}
					if !projectionsOverlap(segP, segN) {
						continue
					}
					gap := geometry.SegmentClearance(segP, tp.EffectiveRadius(), segN, tn.EffectiveRadius())
					var msg string
					var required float64
					switch {
					case gap < rule.Params.DiffMinGap:
						msg = fmt.Sprintf("Differential pair gap %.3fmm is below minimum %.3fmm",
							gap, rule.Params.DiffMinGap)
						required = rule.Params.DiffMinGap
					case gap > rule.Params.DiffMaxGap:
						msg = fmt.Sprintf("Differential pair gap %.3fmm exceeds maximum %.3fmm",
							gap, rule.Params.DiffMaxGap)
						required = rule.Params.DiffMaxGap
					default:
						continue
					}
					out = append(out, Violation{
						RuleID:   rule.ID,
						RuleName: rule.Name,
						RuleType: rule.Type.String(),
						Severity: SeverityError,
						Message:  msg,
						Location: Location{Point: segP.Midpoint().Midpoint(segN.Midpoint()), Layer: tp.Layer},
						Actual:   gap,
						Required: required,
						Objects:  []string{tp.ID, tn.ID},
						Net:      pair[0] + "/" + pair[1],
					})
				}
			}
		}
	}
	return out
}

// tracksOnNet returns snapshot track indices on the named net.
func tracksOnNet(rc *runContext, net string) []int {
	var out []int
	for i := range rc.snap.Tracks {
		if rc.snap.Tracks[i].Net == net {
			out = append(out, i)
		}
	}
	return out
}

// diffPairNets resolves the net pairs a rule covers: the explicit list when
// given, otherwise complementary-suffix pairs (_P/_N, +/-) found in the
// snapshot.
func diffPairNets(rc *runContext, rule *rules.Rule) [][2]string {
	if len(rule.Params.DiffPairNets) >= 2 {
		var pairs [][2]string
		for i := 0; i+1 < len(rule.Params.DiffPairNets); i += 2 {
			pairs = append(pairs, [2]string{rule.Params.DiffPairNets[i], rule.Params.DiffPairNets[i+1]})
		}
		return pairs
	}

	var pairs [][2]string
	for i := range rc.snap.Nets {
		name := rc.snap.Nets[i].Name
		var partner string
		switch {
		case strings.HasSuffix(name, "_P"):
			partner = strings.TrimSuffix(name, "_P") + "_N"
		case strings.HasSuffix(name, "+"):
			partner = strings.TrimSuffix(name, "+") + "-"
		default:
			continue
		}
		if rc.snap.NetByName(partner) != nil {
			pairs = append(pairs, [2]string{name, partner})
		}
	}
	return pairs
}

func diffViolation(rule *rules.Rule, t *snapshot.TrackSegment, msg string, actual, required float64) Violation {
	return Violation{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		RuleType: rule.Type.String(),
		Severity: SeverityError,
		Message:  msg,
		Location: Location{Point: t.Segment().Midpoint(), Layer: t.Layer},
		Actual:   actual,
		Required: required,
		Objects:  []string{t.ID},
		Net:      t.Net,
	}
}

// projectionsOverlap reports whether each segment's midpoint projects onto
// the interior of the other, the proxy used for "coupled section".
func projectionsOverlap(a, b geometry.Segment) bool {
	pa := geometry.ClosestPointOnSegment(a.Midpoint(), b)
	pb := geometry.ClosestPointOnSegment(b.Midpoint(), a)
	interior := func(p geometry.Point2D, s geometry.Segment) bool {
		return p.Distance(s.Start) > geometry.CoincidenceTol &&
			p.Distance(s.End) > geometry.CoincidenceTol
	}
	return interior(pa, b) && interior(pb, a)
}

// checkCorners reconstructs polylines from same-net consecutive segments
// and validates bend angles against the declared corner style. Any-angle
// and rounded styles constrain nothing.
func checkCorners(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	// Allowed direction change per style, with a degree of slack for
	// coordinate rounding
	const slack = 1.0

	for i := range rc.arena {
		o := &rc.arena[i]
		if o.Kind != KindTrack {
			continue
		}
		rule := rules.ResolveSingle(group, rc.metas[i])
		if rule == nil {
			continue
		}

		var maxBend float64
		switch rule.Params.Corner {
		case rules.Corner45:
			maxBend = 45
		case rules.Corner90:
			maxBend = 90
		default:
			continue // Any angle / rounded: no constraint
		}

		t1 := &rc.snap.Tracks[o.Index]
		if t1.Segment().Length() == 0 {
			continue
		}
		for j := range rc.arena {
			if j <= i || rc.arena[j].Kind != KindTrack {
				continue
			}
			t2 := &rc.snap.Tracks[rc.arena[j].Index]
			if t2.Net != t1.Net || !snapLayerMatch(t1.Layer, t2.Layer) {
				continue
			}
			if t2.Segment().Length() == 0 {
				continue
			}
			shared, p1, p2, ok := sharedVertex(t1, t2)
			if !ok {
				continue
			}
			interior := geometry.InteriorAngle(p1, shared, p2)
			bend := 180 - interior
			if bend <= maxBend+slack {
				continue
			}
			out = append(out, Violation{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				RuleType: rule.Type.String(),
				Severity: SeverityError,
				Message: fmt.Sprintf("Routing corner of %.0f° exceeds %s style on net '%s'",
					bend, rule.Params.Corner, t1.Net),
				Location: Location{Point: shared, Layer: t1.Layer},
				Actual:   bend,
				Required: maxBend,
				Objects:  []string{t1.ID, t2.ID},
				Net:      t1.Net,
			})
		}
	}
	return out
}

// sharedVertex finds the endpoint two tracks share within tolerance and
// returns it with the two far endpoints.
func sharedVertex(t1, t2 *snapshot.TrackSegment) (shared, far1, far2 geometry.Point2D, ok bool) {
	ends1 := [2]geometry.Point2D{t1.Start, t1.End}
	ends2 := [2]geometry.Point2D{t2.Start, t2.End}
	for i, e1 := range ends1 {
		for j, e2 := range ends2 {
			if geometry.Coincident(e1, e2, endpointTol) {
				return e1, ends1[1-i], ends2[1-j], true
			}
		}
	}
	return geometry.Point2D{}, geometry.Point2D{}, geometry.Point2D{}, false
}

// knownTopologies are the topology names the rule model accepts.
var knownTopologies = map[string]bool{
	"Shortest":        true,
	"Horizontal":      true,
	"Vertical":        true,
	"Daisy-Simple":    true,
	"Daisy-MidDriven": true,
	"Daisy-Balanced":  true,
	"Star":            true,
}

// checkTopology validates the declared topology parameter. Full topology
// optimality checking is out of scope; an unknown declaration is itself a
// rule-set defect worth surfacing.
func checkTopology(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	for gi := range group {
		rule := group[gi].Rule
		if knownTopologies[rule.Params.Topology] {
			continue
		}
		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Routing topology '%s' is not a recognized topology",
				rule.Params.Topology),
		})
	}
	return out
}

// checkViaStyle validates via construction against the declared style and
// diameter band.
func checkViaStyle(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation

	for i := range rc.arena {
		o := &rc.arena[i]
		if o.Kind != KindVia {
			continue
		}
		rule := rules.ResolveSingle(group, rc.metas[i])
		if rule == nil {
			continue
		}
		via := &rc.snap.Vias[o.Index]

		if strings.EqualFold(rule.Params.ViaStyleName, "Through Hole") && !via.SpansAllLayers() {
			out = append(out, Violation{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				RuleType: rule.Type.String(),
				Severity: SeverityError,
				Message: fmt.Sprintf("Via spans %s to %s but rule requires through-hole vias",
					via.FromLayer, via.ToLayer),
				Location: Location{Point: via.Position},
				Objects:  []string{via.ID},
				Net:      via.Net,
			})
		}

		switch {
		case via.Diameter < rule.Params.MinViaDiameter:
			out = append(out, Violation{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				RuleType: rule.Type.String(),
				Severity: SeverityError,
				Message: fmt.Sprintf("Via diameter %.3fmm is below minimum %.3fmm",
					via.Diameter, rule.Params.MinViaDiameter),
				Location: Location{Point: via.Position},
				Actual:   via.Diameter,
				Required: rule.Params.MinViaDiameter,
				Objects:  []string{via.ID},
				Net:      via.Net,
			})
		case via.Diameter > rule.Params.MaxViaDiameter:
			out = append(out, Violation{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				RuleType: rule.Type.String(),
				Severity: SeverityError,
				Message: fmt.Sprintf("Via diameter %.3fmm exceeds maximum %.3fmm",
					via.Diameter, rule.Params.MaxViaDiameter),
				Location: Location{Point: via.Position},
				Actual:   via.Diameter,
				Required: rule.Params.MaxViaDiameter,
				Objects:  []string{via.ID},
				Net:      via.Net,
			})
		}
	}
	return out
}

// checkRoutingLayers flags tracks routed on layers outside the rule's
// allowed list. An empty list allows every layer.
func checkRoutingLayers(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	for i := range rc.arena {
		o := &rc.arena[i]
		if o.Kind != KindTrack {
			continue
		}
		rule := rules.ResolveSingle(group, rc.metas[i])
		if rule == nil || len(rule.Params.AllowedLayers) == 0 {
			continue
		}
		allowed := false
		for _, l := range rule.Params.AllowedLayers {
			if l == o.Layer {
				allowed = true
				break
			}
		}
		if allowed {
			continue
		}
		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityError,
			Message: fmt.Sprintf("Track on layer '%s' which is not an allowed routing layer",
				o.Layer),
			Location: Location{Point: o.Position, Layer: o.Layer},
			Objects:  []string{o.ID},
			Net:      o.Net,
		})
	}
	return out
}

// checkRoutingPriority validates the declared priority parameter range.
func checkRoutingPriority(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	for gi := range group {
		rule := group[gi].Rule
		if rule.Params.RoutePriority >= 0 && rule.Params.RoutePriority <= 100 {
			continue
		}
		out = append(out, Violation{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			RuleType: rule.Type.String(),
			Severity: SeverityWarning,
			Message: fmt.Sprintf("Routing priority %d is outside the valid range 0-100",
				rule.Params.RoutePriority),
			Actual:   float64(rule.Params.RoutePriority),
		})
	}
	return out
}

// knownPlaneStyles are the plane connect styles the rule model accepts.
var knownPlaneStyles = map[string]bool{
	"Relief Connect": true,
	"Direct Connect": true,
	"No Connect":     true,
}

// checkPlaneConnect validates plane-connect declarations: style name and a
// positive relief conductor width when relief connection is requested.
func checkPlaneConnect(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	for gi := range group {
		rule := group[gi].Rule
		if !knownPlaneStyles[rule.Params.PlaneStyle] {
			out = append(out, Violation{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				RuleType: rule.Type.String(),
				Severity: SeverityWarning,
				Message: fmt.Sprintf("Plane connect style '%s' is not recognized",
					rule.Params.PlaneStyle),
			})
			continue
		}
		if rule.Params.PlaneStyle == "Relief Connect" && rule.Params.PlaneConductorWidth <= 0 {
			out = append(out, Violation{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				RuleType: rule.Type.String(),
				Severity: SeverityWarning,
				Message:  "Relief connect requires a positive conductor width",
				Actual:   rule.Params.PlaneConductorWidth,
			})
		}
	}
	return out
}

// snapLayerMatch is layer equality for routing checks (no multi-layer
// special case: tracks always live on one layer).
func snapLayerMatch(a, b string) bool {
	return a == b
}
