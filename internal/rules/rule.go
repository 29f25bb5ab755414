// Package rules models the declarative design-rule set: canonical rule
// types, scope expressions, and the parameter bags each checker reads.
package rules

// Type is the canonical rule kind, decided once when the rule set is parsed.
// Checkers dispatch on it; they never probe a rule for capabilities.
type Type int

const (
	Clearance Type = iota
	ShortCircuit
	Width
	HoleSize
	HoleToHole
	SolderMaskSliver
	SilkToSilk
	SilkToSolderMask
	UnroutedNet
	NetAntennae
	DiffPair
	RoutingTopology
	ViaStyle
	RoutingCorners
	RoutingLayers
	RoutingPriority
	PlaneConnect
	Height
	ModifiedPolygon
	Other // Unrecognized; listed in inventories, excluded from checks
)

func (t Type) String() string {
	switch t {
	case Clearance:
		return "clearance"
	case ShortCircuit:
		return "short_circuit"
	case Width:
		return "width"
	case HoleSize:
		return "hole_size"
	case HoleToHole:
		return "hole_to_hole"
	case SolderMaskSliver:
		return "solder_mask_sliver"
	case SilkToSilk:
		return "silk_to_silk"
	case SilkToSolderMask:
		return "silk_to_solder_mask"
	case UnroutedNet:
		return "unrouted_net"
	case NetAntennae:
		return "net_antennae"
	case DiffPair:
		return "diff_pair"
	case RoutingTopology:
		return "routing_topology"
	case ViaStyle:
		return "via_style"
	case RoutingCorners:
		return "routing_corners"
	case RoutingLayers:
		return "routing_layers"
	case RoutingPriority:
		return "routing_priority"
	case PlaneConnect:
		return "plane_connect"
	case Height:
		return "height"
	case ModifiedPolygon:
		return "modified_polygon"
	default:
		return "other"
	}
}

// CornerStyle is the declared corner style for routing-corner rules.
type CornerStyle int

const (
	Corner45 CornerStyle = iota
	Corner90
	CornerRounded
	CornerAny // No constraint
)

func (c CornerStyle) String() string {
	switch c {
	case Corner45:
		return "45 Degrees"
	case Corner90:
		return "90 Degrees"
	case CornerRounded:
		return "Rounded"
	default:
		return "Any Angle"
	}
}

// Params carries the numeric parameters a rule's checker reads. Only the
// fields relevant to the rule's Type are meaningful; the parser fills
// defaults for the rest.
type Params struct {
	// Clearance / short circuit
	MinClearance float64 `yaml:"min_clearance" json:"min_clearance"`
	ShortAllowed bool    `yaml:"short_allowed" json:"short_allowed"`

	// Width
	MinWidth       float64 `yaml:"min_width" json:"min_width"`
	MaxWidth       float64 `yaml:"max_width" json:"max_width"`
	PreferredWidth float64 `yaml:"preferred_width" json:"preferred_width"`

	// Hole size / hole-to-hole
	MinHole float64 `yaml:"min_hole" json:"min_hole"`
	MaxHole float64 `yaml:"max_hole" json:"max_hole"`
	HoleGap float64 `yaml:"hole_gap" json:"hole_gap"`

	// Mask / silk
	MinSliver     float64 `yaml:"min_sliver" json:"min_sliver"`
	MaskExpansion float64 `yaml:"mask_expansion" json:"mask_expansion"`
	SilkClearance float64 `yaml:"silk_clearance" json:"silk_clearance"`

	// Net antennae
	AntennaTolerance float64 `yaml:"antenna_tolerance" json:"antenna_tolerance"`

	// Differential pairs
	DiffMinWidth  float64  `yaml:"diff_min_width" json:"diff_min_width"`
	DiffMaxWidth  float64  `yaml:"diff_max_width" json:"diff_max_width"`
	DiffMinGap    float64  `yaml:"diff_min_gap" json:"diff_min_gap"`
	DiffMaxGap    float64  `yaml:"diff_max_gap" json:"diff_max_gap"`
	DiffPairNets  []string `yaml:"diff_pair_nets" json:"diff_pair_nets"`
	ParallelAngle float64  `yaml:"parallel_angle" json:"parallel_angle"`

	// Routing topology
	Topology string `yaml:"topology" json:"topology"`

	// Via style
	ViaStyleName   string  `yaml:"via_style" json:"via_style"`
	MinViaDiameter float64 `yaml:"min_via_diameter" json:"min_via_diameter"`
	MaxViaDiameter float64 `yaml:"max_via_diameter" json:"max_via_diameter"`

	// Routing corners
	Corner CornerStyle `yaml:"corner_style" json:"corner_style"`

	// Routing layers
	AllowedLayers []string `yaml:"allowed_layers" json:"allowed_layers"`

	// Routing priority
	RoutePriority int `yaml:"route_priority" json:"route_priority"`

	// Plane connect
	PlaneStyle          string  `yaml:"plane_style" json:"plane_style"`
	PlaneConductorWidth float64 `yaml:"plane_conductor_width" json:"plane_conductor_width"`
	PlaneEntries        int     `yaml:"plane_entries" json:"plane_entries"`

	// Component height
	MinHeight float64 `yaml:"min_height" json:"min_height"`
	MaxHeight float64 `yaml:"max_height" json:"max_height"`

	// Modified polygon
	AllowModified bool `yaml:"allow_modified" json:"allow_modified"`
	AllowShelved  bool `yaml:"allow_shelved" json:"allow_shelved"`
}

// Rule is one normalized design rule.
type Rule struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Type     Type   `yaml:"-" json:"-"`
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Priority int    `yaml:"priority" json:"priority"` // Higher wins on pair conflicts

	Scope1 Scope `yaml:"scope1" json:"scope1"`
	Scope2 Scope `yaml:"scope2" json:"scope2"`

	Params Params `yaml:"params" json:"params"`
}

// Generic returns true when both scopes are All: the rule is a catch-all
// that more specific rules override per object pair.
func (r *Rule) Generic() bool {
	return r.Scope1.Kind == ScopeAll && r.Scope2.Kind == ScopeAll
}
