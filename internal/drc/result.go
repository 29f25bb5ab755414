// Package drc implements the design-rule-check engine: a pure function of
// (board snapshot, rule set) that yields a deduplicated violation report.
package drc

import (
	"fmt"
	"sort"
	"strings"

	"pcb-drc/pkg/geometry"
)

// Severity classifies a violation.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// MarshalJSON renders the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Location pins a violation to a board position and layer.
type Location struct {
	Point geometry.Point2D `json:"point"`
	Layer string           `json:"layer,omitempty"`
}

// Violation is one rule infraction.
type Violation struct {
	RuleID    string   `json:"rule_id"`
	RuleName  string   `json:"rule_name"`
	RuleType  string   `json:"rule_type"`
	Severity  Severity `json:"severity"`
	Message   string   `json:"message"`
	Location  Location `json:"location"`
	Actual    float64  `json:"actual_value"`
	Required  float64  `json:"required_value"`
	Objects   []string `json:"objects,omitempty"`
	Net       string   `json:"net,omitempty"`
	Component string   `json:"component,omitempty"`
}

// key returns the identity used for deduplication and ordering ties.
func (v *Violation) key() string {
	return fmt.Sprintf("%s|%s|%s|%.6f|%.6f|%s|%s|%s",
		v.RuleID, v.Severity, v.Message,
		v.Location.Point.X, v.Location.Point.Y, v.Location.Layer,
		strings.Join(v.Objects, ","), v.Net)
}

// Summary is the roll-up of one run.
type Summary struct {
	Errors   int  `json:"errors"`
	Warnings int  `json:"warnings"`
	Total    int  `json:"total"`
	Passed   bool `json:"passed"`
}

// Result is the full outcome of one DRC run.
type Result struct {
	Summary    Summary        `json:"summary"`
	ByType     map[string]int `json:"violations_by_type"`
	Violations []Violation    `json:"violations"`
	Warnings   []Violation    `json:"warnings"`
}

// sortViolations orders violations deterministically: rule id, then
// location, then the remaining identity fields. Parallel evaluation order
// must never show through in the output.
func sortViolations(vs []Violation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := &vs[i], &vs[j]
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if a.Location.Point.X != b.Location.Point.X {
			return a.Location.Point.X < b.Location.Point.X
		}
		if a.Location.Point.Y != b.Location.Point.Y {
			return a.Location.Point.Y < b.Location.Point.Y
		}
		return a.key() < b.key()
	})
}

// Dedupe removes duplicate violations, keeping first occurrences in order.
// It is idempotent: applying it to its own output changes nothing.
func Dedupe(vs []Violation) []Violation {
	seen := make(map[string]bool, len(vs))
	out := vs[:0:0]
	for i := range vs {
		k := vs[i].key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, vs[i])
	}
	return out
}

// buildResult sorts, dedupes, and summarizes the merged violation list.
func buildResult(all []Violation) *Result {
	sortViolations(all)
	all = Dedupe(all)

	res := &Result{
		ByType:     make(map[string]int),
		Violations: []Violation{},
		Warnings:   []Violation{},
	}
	for i := range all {
		v := all[i]
		res.ByType[v.RuleType]++
		if v.Severity == SeverityError {
			res.Violations = append(res.Violations, v)
		} else {
			res.Warnings = append(res.Warnings, v)
		}
	}
	res.Summary = Summary{
		Errors:   len(res.Violations),
		Warnings: len(res.Warnings),
		Total:    len(all),
		Passed:   len(all) == 0,
	}
	return res
}
