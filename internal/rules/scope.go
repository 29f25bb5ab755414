package rules

import (
	"strings"

	"pcb-drc/internal/snapshot"
	"pcb-drc/pkg/geometry"
)

// ScopeKind identifies a scope expression form.
type ScopeKind int

const (
	ScopeAll            ScopeKind = iota // Every object
	ScopeInNet                           // Objects on a named net
	ScopeInNetClass                      // Objects whose net belongs to a class
	ScopeInNamedPolygon                  // Objects inside a named polygon region
	ScopeComponentKind                   // Pads of components of a kind (e.g. SMD)
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "All"
	case ScopeInNet:
		return "InNet"
	case ScopeInNetClass:
		return "InNetClass"
	case ScopeInNamedPolygon:
		return "InNamedPolygon"
	case ScopeComponentKind:
		return "IsComponentKind"
	default:
		return "Unknown"
	}
}

// Scope is one scope expression of a rule.
type Scope struct {
	Kind ScopeKind `yaml:"kind" json:"kind"`
	Arg  string    `yaml:"arg,omitempty" json:"arg,omitempty"`
}

// ParseScope parses an expression such as "All", "InNet('GND')",
// "InNetClass('Power')", "InNamedPolygon('KZ')" or "IsSMD". Anything
// unrecognized compiles to All so that every scope stays total.
func ParseScope(expr string) Scope {
	expr = strings.TrimSpace(expr)
	if expr == "" || strings.EqualFold(expr, "All") {
		return Scope{Kind: ScopeAll}
	}
	arg := func(s string) string {
		open := strings.IndexByte(s, '(')
		end := strings.LastIndexByte(s, ')')
		if open < 0 || end <= open {
			return ""
		}
		return strings.Trim(s[open+1:end], "'\" ")
	}
	lower := strings.ToLower(expr)
	switch {
	case strings.HasPrefix(lower, "innetclass"):
		return Scope{Kind: ScopeInNetClass, Arg: arg(expr)}
	case strings.HasPrefix(lower, "innet"):
		return Scope{Kind: ScopeInNet, Arg: arg(expr)}
	case strings.HasPrefix(lower, "innamedpolygon"):
		return Scope{Kind: ScopeInNamedPolygon, Arg: arg(expr)}
	case strings.HasPrefix(lower, "is"):
		return Scope{Kind: ScopeComponentKind, Arg: strings.TrimPrefix(expr, "Is")}
	}
	return Scope{Kind: ScopeAll}
}

// ObjectMeta is the metadata a compiled scope predicate sees for one object.
type ObjectMeta struct {
	ID            string
	Net           string
	NetClass      string
	Component     string
	ComponentKind string
	Position      geometry.Point2D
}

// Predicate decides whether an object falls inside a scope. Predicates are
// total: they return a definite answer for every object.
type Predicate func(ObjectMeta) bool

// Compile turns the scope into a predicate over object metadata. The
// snapshot supplies net-class membership and named polygon outlines.
func (s Scope) Compile(snap *snapshot.BoardSnapshot) Predicate {
	switch s.Kind {
	case ScopeInNet:
		name := s.Arg
		return func(m ObjectMeta) bool { return m.Net == name }
	case ScopeInNetClass:
		members := netClassMembers(snap, s.Arg)
		return func(m ObjectMeta) bool { return members[m.Net] }
	case ScopeInNamedPolygon:
		region := namedPolygon(snap, s.Arg)
		if region == nil {
			// Unknown polygon: matches nothing, still total
			return func(ObjectMeta) bool { return false }
		}
		return func(m ObjectMeta) bool { return region.ContainsPoint(m.Position) }
	case ScopeComponentKind:
		kind := s.Arg
		return func(m ObjectMeta) bool {
			return m.ComponentKind != "" && strings.EqualFold(m.ComponentKind, kind)
		}
	default:
		return func(ObjectMeta) bool { return true }
	}
}

func netClassMembers(snap *snapshot.BoardSnapshot, class string) map[string]bool {
	members := make(map[string]bool)
	if snap == nil {
		return members
	}
	for i := range snap.Nets {
		if snap.Nets[i].Class == class {
			members[snap.Nets[i].Name] = true
		}
	}
	return members
}

func namedPolygon(snap *snapshot.BoardSnapshot, name string) *snapshot.PolygonRegion {
	if snap == nil {
		return nil
	}
	for i := range snap.Polygons {
		if snap.Polygons[i].Name == name {
			return &snap.Polygons[i]
		}
	}
	return nil
}

// Compiled is a rule with its two scope predicates resolved against one
// snapshot.
type Compiled struct {
	Rule  *Rule
	Pred1 Predicate
	Pred2 Predicate
}

// CompileAll resolves every enabled rule's scopes against the snapshot.
func CompileAll(ruleSet []Rule, snap *snapshot.BoardSnapshot) []Compiled {
	out := make([]Compiled, 0, len(ruleSet))
	for i := range ruleSet {
		r := &ruleSet[i]
		if !r.Enabled {
			continue
		}
		out = append(out, Compiled{
			Rule:  r,
			Pred1: r.Scope1.Compile(snap),
			Pred2: r.Scope2.Compile(snap),
		})
	}
	return out
}

// MatchesPair reports whether the pair (a, b) falls inside the rule's two
// scopes, in either order.
func (c *Compiled) MatchesPair(a, b ObjectMeta) bool {
	return (c.Pred1(a) && c.Pred2(b)) || (c.Pred1(b) && c.Pred2(a))
}

// ResolvePair picks the rule governing an object pair from candidates of one
// rule type. The highest-priority match wins, and the generic All/All rule
// is skipped whenever any scoped rule matches the pair.
func ResolvePair(candidates []Compiled, a, b ObjectMeta) *Rule {
	var best *Rule
	var bestGeneric *Rule
	for i := range candidates {
		c := &candidates[i]
		if !c.MatchesPair(a, b) {
			continue
		}
		if c.Rule.Generic() {
			if bestGeneric == nil || c.Rule.Priority > bestGeneric.Priority {
				bestGeneric = c.Rule
			}
			continue
		}
		if best == nil || c.Rule.Priority > best.Priority {
			best = c.Rule
		}
	}
	if best != nil {
		return best
	}
	return bestGeneric
}

// ResolveSingle picks the rule governing a single object.
func ResolveSingle(candidates []Compiled, m ObjectMeta) *Rule {
	var best *Rule
	var bestGeneric *Rule
	for i := range candidates {
		c := &candidates[i]
		if !c.Pred1(m) {
			continue
		}
		if c.Rule.Generic() {
			if bestGeneric == nil || c.Rule.Priority > bestGeneric.Priority {
				bestGeneric = c.Rule
			}
			continue
		}
		if best == nil || c.Rule.Priority > best.Priority {
			best = c.Rule
		}
	}
	if best != nil {
		return best
	}
	return bestGeneric
}
