package rules

import (
	"fmt"
	"strings"
)

// Raw is one rule declaration as exported by the CAD tool. Field names
// mirror the export contract; Kind carries the tool's own rule-kind string
// ("Clearance", "RoutingVias", ...) and Params whatever numeric fields the
// exporter could read.
type Raw struct {
	ID       string              `yaml:"id" json:"id"`
	Name     string              `yaml:"name" json:"name"`
	Kind     string              `yaml:"kind" json:"kind"`
	Enabled  *bool               `yaml:"enabled" json:"enabled"`
	Priority int                 `yaml:"priority" json:"priority"`
	Scope1   string              `yaml:"scope1" json:"scope1"`
	Scope2   string              `yaml:"scope2" json:"scope2"`
	Values   map[string]float64  `yaml:"values" json:"values"`
	Strings  map[string]string   `yaml:"strings" json:"strings"`
	Lists    map[string][]string `yaml:"lists" json:"lists"`
}

// NormalizeType maps a rule-kind or rule-name string to the canonical type.
// Matching is by substring, ordered so that compound names resolve before
// their components: "HoleToHoleClearance" must become HoleToHole, not
// Clearance, and "Width" must not swallow "RoutingViaStyle".
func NormalizeType(s string) Type {
	l := strings.ToLower(s)
	has := func(sub string) bool { return strings.Contains(l, sub) }

	switch {
	case has("hole_to_hole") || has("holetohole"):
		return HoleToHole
	case has("silk") && (has("solder") || has("mask")):
		return SilkToSolderMask
	case has("silk"):
		return SilkToSilk
	case has("solder") && has("mask"):
		return SolderMaskSliver
	case has("diff") || has("differential"):
		return DiffPair
	case has("topology"):
		return RoutingTopology
	case has("corner"):
		return RoutingCorners
	case has("routing") && has("layer"):
		return RoutingLayers
	case has("routing") && has("priority"):
		return RoutingPriority
	case has("plane") && has("connect"):
		return PlaneConnect
	case has("antenna"):
		return NetAntennae
	case has("unrouted"):
		return UnroutedNet
	case has("short"):
		return ShortCircuit
	case has("hole") && has("clearance"):
		return HoleToHole
	case has("clearance"):
		return Clearance
	case has("width") && !has("via"):
		return Width
	case has("via"):
		return ViaStyle
	case has("hole"):
		return HoleSize
	case has("height"):
		return Height
	case has("polygon"):
		return ModifiedPolygon
	default:
		return Other
	}
}

// Normalize converts raw declarations into canonical rules with defaults
// filled per type. Unknown kinds become Other; they stay in the returned
// set for inventory purposes but no checker runs them.
func Normalize(raws []Raw) []Rule {
	out := make([]Rule, 0, len(raws))
	for i, raw := range raws {
		t := NormalizeType(raw.Kind)
		if t == Other && raw.Name != "" {
			t = NormalizeType(raw.Name)
		}

		r := Rule{
			ID:       raw.ID,
			Name:     raw.Name,
			Type:     t,
			Enabled:  true,
			Priority: raw.Priority,
			Scope1:   ParseScope(raw.Scope1),
			Scope2:   ParseScope(raw.Scope2),
			Params:   defaultParams(t),
		}
		if r.ID == "" {
			r.ID = fmt.Sprintf("rule-%03d", i+1)
		}
		if r.Name == "" {
			r.Name = r.ID
		}
		if raw.Enabled != nil {
			r.Enabled = *raw.Enabled
		}
		if r.Priority == 0 {
			r.Priority = 1
		}

		applyValues(&r, raw)
		out = append(out, r)
	}
	return out
}

// defaultParams returns the per-type defaults, matching the values the CAD
// tool assumes when a field was not exported.
func defaultParams(t Type) Params {
	p := Params{}
	switch t {
	case Clearance:
		p.MinClearance = 0.2
	case Width, DiffPair:
		p.MinWidth = 0.254
		p.MaxWidth = 15.0
		p.PreferredWidth = 0.838
		p.DiffMinWidth = 0.1
		p.DiffMaxWidth = 0.3
		p.DiffMinGap = 0.1
		p.DiffMaxGap = 0.3
		p.ParallelAngle = 15.0
	case HoleSize:
		p.MinHole = 0.025
		p.MaxHole = 5.0
	case HoleToHole:
		p.HoleGap = 0.254
	case SolderMaskSliver:
		p.MinSliver = 0.06
	case ViaStyle:
		p.ViaStyleName = "Through Hole"
		p.MinViaDiameter = 0.5
		p.MaxViaDiameter = 1.0
	case RoutingTopology:
		p.Topology = "Shortest"
	case PlaneConnect:
		p.PlaneStyle = "Relief Connect"
		p.PlaneConductorWidth = 0.254
		p.PlaneEntries = 4
	case Height:
		p.MaxHeight = 25.4
	}
	return p
}

// applyValues copies exported numeric/string fields over the defaults.
func applyValues(r *Rule, raw Raw) {
	v := func(key string, dst *float64) {
		if raw.Values == nil {
			return
		}
		if val, ok := raw.Values[key]; ok {
			*dst = val
		}
	}
	s := func(key string, dst *string) {
		if raw.Strings == nil {
			return
		}
		if val, ok := raw.Strings[key]; ok {
			*dst = val
		}
	}

	p := &r.Params
	v("min_clearance", &p.MinClearance)
	v("clearance", &p.MinClearance)
	v("min_width", &p.MinWidth)
	v("max_width", &p.MaxWidth)
	v("preferred_width", &p.PreferredWidth)
	v("min_hole", &p.MinHole)
	v("max_hole", &p.MaxHole)
	v("hole_gap", &p.HoleGap)
	v("gap", &p.HoleGap)
	v("min_sliver", &p.MinSliver)
	v("mask_expansion", &p.MaskExpansion)
	v("silk_clearance", &p.SilkClearance)
	v("antenna_tolerance", &p.AntennaTolerance)
	v("diff_min_width", &p.DiffMinWidth)
	v("diff_max_width", &p.DiffMaxWidth)
	v("diff_min_gap", &p.DiffMinGap)
	v("diff_max_gap", &p.DiffMaxGap)
	v("parallel_angle", &p.ParallelAngle)
	v("min_via_diameter", &p.MinViaDiameter)
	v("max_via_diameter", &p.MaxViaDiameter)
	v("min_height", &p.MinHeight)
	v("max_height", &p.MaxHeight)
	v("plane_conductor_width", &p.PlaneConductorWidth)

	if raw.Values != nil {
		if val, ok := raw.Values["route_priority"]; ok {
			p.RoutePriority = int(val)
		}
		if val, ok := raw.Values["plane_entries"]; ok {
			p.PlaneEntries = int(val)
		}
		if val, ok := raw.Values["short_allowed"]; ok {
			p.ShortAllowed = val != 0
		}
		if val, ok := raw.Values["allow_modified"]; ok {
			p.AllowModified = val != 0
		}
		if val, ok := raw.Values["allow_shelved"]; ok {
			p.AllowShelved = val != 0
		}
	}

	s("topology", &p.Topology)
	s("via_style", &p.ViaStyleName)
	s("plane_style", &p.PlaneStyle)
	if raw.Strings != nil {
		if val, ok := raw.Strings["corner_style"]; ok {
			p.Corner = parseCornerStyle(val)
		}
	}
	if raw.Lists != nil {
		if val, ok := raw.Lists["allowed_layers"]; ok {
			p.AllowedLayers = val
		}
		if val, ok := raw.Lists["diff_pair_nets"]; ok {
			p.DiffPairNets = val
		}
	}
}

func parseCornerStyle(s string) CornerStyle {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "45"):
		return Corner45
	case strings.Contains(l, "90"):
		return Corner90
	case strings.Contains(l, "round"):
		return CornerRounded
	default:
		return CornerAny
	}
}
