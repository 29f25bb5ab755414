package drc

import (
	"fmt"
	"strings"

	"pcb-drc/internal/rules"
	"pcb-drc/pkg/geometry"
)

// powerNetMarkers are net-name substrings that escalate an unrouted finding
// from warning to error.
var powerNetMarkers = []string{"GND", "VCC", "VDD", "POWER", "GROUND"}

func isPowerNet(name string) bool {
	upper := strings.ToUpper(name)
	for _, marker := range powerNetMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

// checkUnroutedNets detects nets whose pads are not all joined by copper.
//
// Two modes share one output contract. When the exporter supplied ratsnest
// data (even an empty list, which is a positive "fully routed" signal), a
// net with at least one residual connection edge is unrouted. When ratsnest
// data is absent entirely, connectivity is derived from geometry with the
// union-find fallback. Nets assigned to an internal plane are exempt in
// both modes, as are nets with fewer than two pads (test points, orphaned
// definitions).
func checkUnroutedNets(rc *runContext, group []rules.Compiled) []Violation {
	var out []Violation
	for gi := range group {
		if rc.snap.HasConnectionData {
			out = append(out, unroutedFromRatsnest(rc, group[gi].Rule)...)
		} else {
			rc.log.Debug("no ratsnest data; deriving connectivity from geometry",
				"rule", group[gi].Rule.Name)
			out = append(out, unroutedFromGeometry(rc, group[gi].Rule)...)
		}
	}
	return out
}

// unroutedFromRatsnest groups residual connection edges by net.
func unroutedFromRatsnest(rc *runContext, rule *rules.Rule) []Violation {
	edgesByNet := make(map[string]int)
	for i := range rc.snap.Connections {
		edge := &rc.snap.Connections[i]
		if edge.Net == "" {
			continue
		}
		edgesByNet[edge.Net]++
	}

	var out []Violation
	for i := range rc.snap.Nets {
		net := &rc.snap.Nets[i]
		count := edgesByNet[net.Name]
		if count == 0 {
			continue
		}
		if net.OnPlane() {
			// Plane assignment implies full connectivity
			continue
		}
		out = append(out, unroutedViolation(rc, rule, net.Name,
			fmt.Sprintf("Net '%s' has %d unrouted connection(s)", net.Name, count)))
	}
	return out
}

// unroutedFromGeometry runs the union-find fallback: every net with two or
// more pads must have all its pads in one connected component.
func unroutedFromGeometry(rc *runContext, rule *rules.Rule) []Violation {
	uf := buildConnectivity(rc)

	padsByNet := make(map[string][]int)
	for i := range rc.arena {
		o := &rc.arena[i]
		if o.Kind == KindPad && o.Net != "" {
			padsByNet[o.Net] = append(padsByNet[o.Net], i)
		}
	}

	var out []Violation
	for i := range rc.snap.Nets {
		net := &rc.snap.Nets[i]
		pads := padsByNet[net.Name]
		if len(pads) < 2 {
			continue
		}
		if net.OnPlane() {
			continue
		}

		root := uf.find(pads[0])
		disjoint := 0
		for _, p := range pads[1:] {
			if uf.find(p) != root {
				disjoint++
			}
		}
		if disjoint == 0 {
			continue
		}
		out = append(out, unroutedViolation(rc, rule, net.Name,
			fmt.Sprintf("Net '%s' has %d pad(s) but its copper is split into disconnected groups",
				net.Name, len(pads))))
	}
	return out
}

func unroutedViolation(rc *runContext, rule *rules.Rule, netName, msg string) Violation {
	severity := SeverityWarning
	if isPowerNet(netName) {
		severity = SeverityError
	}
	return Violation{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		RuleType: rule.Type.String(),
		Severity: severity,
		Message:  msg,
		Location: Location{Point: netLocation(rc, netName)},
		Net:      netName,
	}
}

// netLocation returns a representative point for a net: the centroid of its
// pads.
func netLocation(rc *runContext, netName string) geometry.Point2D {
	var points []geometry.Point2D
	for i := range rc.snap.Pads {
		if rc.snap.Pads[i].Net == netName {
			points = append(points, rc.snap.Pads[i].Position)
		}
	}
	return geometry.Centroid(points)
}
