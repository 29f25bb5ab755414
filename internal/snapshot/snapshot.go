// Package snapshot defines the immutable board model consumed by the DRC
// engine: the layer stack, copper objects, nets, and ratsnest edges as
// exported from the CAD tool.
package snapshot

import (
	"pcb-drc/pkg/geometry"
)

// LayerKind classifies a board layer.
type LayerKind int

const (
	LayerSignal     LayerKind = iota // Routed copper layer
	LayerPlane                       // Internal power/ground plane
	LayerOverlay                     // Silk screen
	LayerMechanical                  // Outline, fab notes
)

func (k LayerKind) String() string {
	switch k {
	case LayerSignal:
		return "Signal"
	case LayerPlane:
		return "Plane"
	case LayerOverlay:
		return "Overlay"
	case LayerMechanical:
		return "Mechanical"
	default:
		return "Unknown"
	}
}

// Conductive returns true if copper objects on the layer carry signals.
func (k LayerKind) Conductive() bool {
	return k == LayerSignal || k == LayerPlane
}

// Layer is one entry of the ordered board layer stack.
type Layer struct {
	Name string    `json:"name"`
	Kind LayerKind `json:"kind"`
}

// MultiLayer is the layer name used by objects that span every conductive
// layer (through-hole pads and vias).
const MultiLayer = "Multi-Layer"

// Pad is a component pad.
type Pad struct {
	ID        string           `json:"id"`
	Name      string           `json:"name,omitempty"` // Designator like "U3.14"
	Component string           `json:"component,omitempty"`
	Net       string           `json:"net,omitempty"`
	Layer     string           `json:"layer"` // MultiLayer for through-hole
	Position  geometry.Point2D `json:"position"`
	SizeX     float64          `json:"size_x"`
	SizeY     float64          `json:"size_y"`
	HoleSize  float64          `json:"hole_size,omitempty"` // Drill diameter, 0 for SMD
}

// EffectiveRadius reduces the pad outline to a single radius for clearance
// math: half the larger side.
func (p *Pad) EffectiveRadius() float64 {
	if p.SizeX > p.SizeY {
		return p.SizeX / 2
	}
	return p.SizeY / 2
}

// SpansAllLayers returns true for through-hole pads.
func (p *Pad) SpansAllLayers() bool {
	return p.Layer == MultiLayer || p.HoleSize > 0
}

// Via is a plated drill joining layers.
type Via struct {
	ID       string           `json:"id"`
	Net      string           `json:"net,omitempty"`
	Position geometry.Point2D `json:"position"`
	Diameter float64          `json:"diameter"`  // Outer annular diameter
	HoleSize float64          `json:"hole_size"` // Drill diameter
	// Layer span; empty means through (all layers)
	FromLayer string `json:"from_layer,omitempty"`
	ToLayer   string `json:"to_layer,omitempty"`
}

// EffectiveRadius returns half the outer diameter.
func (v *Via) EffectiveRadius() float64 {
	return v.Diameter / 2
}

// SpansAllLayers returns true for through vias.
func (v *Via) SpansAllLayers() bool {
	return v.FromLayer == "" && v.ToLayer == ""
}

// TrackSegment is one straight copper segment.
type TrackSegment struct {
	ID    string           `json:"id"`
	Net   string           `json:"net,omitempty"`
	Layer string           `json:"layer"`
	Start geometry.Point2D `json:"start"`
	End   geometry.Point2D `json:"end"`
	Width float64          `json:"width"`
}

// EffectiveRadius returns half the track width.
func (t *TrackSegment) EffectiveRadius() float64 {
	return t.Width / 2
}

// Segment returns the track centerline.
func (t *TrackSegment) Segment() geometry.Segment {
	return geometry.Segment{Start: t.Start, End: t.End}
}

// Arc is a curved copper segment. Only its endpoints and width participate
// in connectivity and clearance checks.
type Arc struct {
	ID     string           `json:"id"`
	Net    string           `json:"net,omitempty"`
	Layer  string           `json:"layer"`
	Center geometry.Point2D `json:"center"`
	Radius float64          `json:"radius"`
	Start  geometry.Point2D `json:"start"`
	End    geometry.Point2D `json:"end"`
	Width  float64          `json:"width"`
}

// EffectiveRadius returns half the arc width.
func (a *Arc) EffectiveRadius() float64 {
	return a.Width / 2
}

// PolygonRegion is a poured copper region. Only the vertex outline and the
// bounding box are available; thermal-relief cutouts are not exported.
type PolygonRegion struct {
	ID       string             `json:"id"`
	Name     string             `json:"name,omitempty"`
	Net      string             `json:"net,omitempty"`
	Layer    string             `json:"layer"`
	Outline  []geometry.Point2D `json:"outline,omitempty"`
	Bounds   geometry.Rect      `json:"bounds"`
	IsPour   bool               `json:"is_pour"`
	Modified bool               `json:"modified,omitempty"` // Outline edited after pour
	Shelved  bool               `json:"shelved,omitempty"`  // Pour removed, outline kept
}

// ContainsPoint tests the outline when present, else the bounding box.
func (pr *PolygonRegion) ContainsPoint(p geometry.Point2D) bool {
	if len(pr.Outline) >= 3 {
		return geometry.PointInPolygon(p, pr.Outline)
	}
	return pr.Bounds.Contains(p)
}

// FillRect is a solid rectangular copper fill.
type FillRect struct {
	ID     string        `json:"id"`
	Net    string        `json:"net,omitempty"`
	Layer  string        `json:"layer"`
	Bounds geometry.Rect `json:"bounds"`
}

// Net is an electrical net definition.
type Net struct {
	Name string `json:"name"`
	// Assigned to an internal plane layer: implies full connectivity for
	// unrouted-net purposes.
	PlaneLayer string `json:"plane_layer,omitempty"`
	Class      string `json:"class,omitempty"` // Net class membership
}

// OnPlane returns true if the net is carried by an internal plane.
func (n *Net) OnPlane() bool {
	return n.PlaneLayer != ""
}

// Component is a placed part. Silk checks use the overlay bounding box since
// true silk vector geometry is not exported.
type Component struct {
	Name       string           `json:"name"`
	Kind       string           `json:"kind,omitempty"` // e.g. "SMD", "TH"
	Position   geometry.Point2D `json:"position"`
	Height     float64          `json:"height,omitempty"`
	SilkBounds *geometry.Rect   `json:"silk_bounds,omitempty"`
}

// ConnectionEdge is one ratsnest edge: a pad/via pair that should be joined
// by copper but is not. Supplied by the exporter when available.
type ConnectionEdge struct {
	Net  string `json:"net"`
	From string `json:"from"` // Object id (pad or via)
	To   string `json:"to"`
}

// BoardSnapshot is one immutable capture of a board layout. It is never
// mutated during a DRC run.
type BoardSnapshot struct {
	Layers     []Layer         `json:"layers"`
	Outline    geometry.Rect   `json:"outline"`
	Pads       []Pad           `json:"pads"`
	Vias       []Via           `json:"vias"`
	Tracks     []TrackSegment  `json:"tracks"`
	Arcs       []Arc           `json:"arcs"`
	Polygons   []PolygonRegion `json:"polygons"`
	Fills      []FillRect      `json:"fills"`
	Nets       []Net           `json:"nets"`
	Components []Component     `json:"components"`

	// Ratsnest edges. An empty-but-present list means the exporter determined
	// nothing is unrouted; an absent list (HasConnectionData false) means the
	// exporter could not produce ratsnest data and connectivity must be
	// derived from geometry. The two cases must not be conflated.
	Connections       []ConnectionEdge `json:"connections,omitempty"`
	HasConnectionData bool             `json:"has_connection_data"`
}

// NetByName returns the net definition, or nil if undeclared.
func (s *BoardSnapshot) NetByName(name string) *Net {
	for i := range s.Nets {
		if s.Nets[i].Name == name {
			return &s.Nets[i]
		}
	}
	return nil
}

// LayerKindOf returns the kind of a named layer. Unknown layers are treated
// as signal so that objects on them are still checked.
func (s *BoardSnapshot) LayerKindOf(name string) LayerKind {
	if name == MultiLayer {
		return LayerSignal
	}
	for i := range s.Layers {
		if s.Layers[i].Name == name {
			return s.Layers[i].Kind
		}
	}
	return LayerSignal
}

// SameConductiveLayer returns true when objects on layers a and b can
// electrically interact: same conductive layer, or either side spans all
// layers.
func SameConductiveLayer(a, b string) bool {
	if a == MultiLayer || b == MultiLayer || a == "" || b == "" {
		return true
	}
	return a == b
}

// ObjectCount returns the number of copper objects in the snapshot.
func (s *BoardSnapshot) ObjectCount() int {
	return len(s.Pads) + len(s.Vias) + len(s.Tracks) + len(s.Arcs) +
		len(s.Polygons) + len(s.Fills)
}
