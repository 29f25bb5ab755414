package drc

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"pcb-drc/internal/rules"
)

// widthUnreliableFraction is the share of tracks allowed above max_width
// before the width data is treated as corrupted and the check skipped.
const widthUnreliableFraction = 0.10

// checkWidth validates track widths against the governing width rule's
// [min, max] band. Bounds are strict: a width exactly equal to either bound
// passes. Before checking, the widths are sampled for plausibility; exports
// with broken width fields would otherwise flood the report.
func checkWidth(rc *runContext, group []rules.Compiled) []Violation {
	if len(rc.snap.Tracks) == 0 {
		rc.log.Debug("width check skipped: no track data")
		return nil
	}

	if !widthDataReliable(rc, group) {
		return nil
	}

	var out []Violation
	for i := range rc.arena {
		o := &rc.arena[i]
		if o.Kind != KindTrack {
			continue
		}
		track := &rc.snap.Tracks[o.Index]
		if track.Width <= 0 {
			continue
		}

		rule := rules.ResolveSingle(group, rc.metas[i])
		if rule == nil {
			continue
		}

		switch {
		case track.Width < rule.Params.MinWidth:
			out = append(out, widthViolation(rule, track.Width, rule.Params.MinWidth, o,
				fmt.Sprintf("Track width %.3fmm is below minimum %.3fmm",
					track.Width, rule.Params.MinWidth)))
		case track.Width > rule.Params.MaxWidth:
			out = append(out, widthViolation(rule, track.Width, rule.Params.MaxWidth, o,
				fmt.Sprintf("Track width %.3fmm exceeds maximum %.3fmm",
					track.Width, rule.Params.MaxWidth)))
		}
	}
	return out
}

// widthDataReliable samples all track widths against the loosest max_width
// in the rule group. More than widthUnreliableFraction of tracks over the
// maximum means the exported width field is untrustworthy (a known failure
// mode of the extraction), and the whole check is skipped with a diagnostic
// rather than emitting a flood of false violations.
func widthDataReliable(rc *runContext, group []rules.Compiled) bool {
	maxWidth := 0.0
	for i := range group {
		if w := group[i].Rule.Params.MaxWidth; w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 {
		return true
	}

	widths := make([]float64, 0, len(rc.snap.Tracks))
	over := 0
	for i := range rc.snap.Tracks {
		w := rc.snap.Tracks[i].Width
		if w <= 0 {
			continue
		}
		widths = append(widths, w)
		if w > maxWidth {
			over++
		}
	}
	if len(widths) == 0 {
		rc.log.Debug("width check skipped: no usable width data")
		return false
	}

	frac := float64(over) / float64(len(widths))
	if frac <= widthUnreliableFraction {
		return true
	}

	sort.Float64s(widths)
	rc.log.Warn("width check skipped: width data looks unreliable",
		"over_max_fraction", frac,
		"max_width", maxWidth,
		"sample_mean", stat.Mean(widths, nil),
		"sample_p95", stat.Quantile(0.95, stat.Empirical, widths, nil))
	return false
}

func widthViolation(rule *rules.Rule, actual, required float64, o *object, msg string) Violation {
	return Violation{
		RuleID:   rule.ID,
		RuleName: rule.Name,
		RuleType: rule.Type.String(),
		Severity: SeverityError,
		Message:  msg,
		Location: Location{Point: o.Position, Layer: o.Layer},
		Actual:   actual,
		Required: required,
		Objects:  []string{o.ID},
		Net:      o.Net,
	}
}
