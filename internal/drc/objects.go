package drc

import (
	"pcb-drc/internal/rules"
	"pcb-drc/internal/snapshot"
	"pcb-drc/pkg/geometry"
)

// ObjectKind tags one entry of the flattened object arena.
type ObjectKind int

const (
	KindPad ObjectKind = iota
	KindVia
	KindTrack
	KindArc
	KindPolygon
	KindFill
)

func (k ObjectKind) String() string {
	switch k {
	case KindPad:
		return "pad"
	case KindVia:
		return "via"
	case KindTrack:
		return "track"
	case KindArc:
		return "arc"
	case KindPolygon:
		return "polygon"
	case KindFill:
		return "fill"
	default:
		return "unknown"
	}
}

// object is one copper object flattened into the arena: enough metadata for
// scope predicates and the pairwise checkers, plus an index back into the
// snapshot collection it came from.
type object struct {
	Kind     ObjectKind
	Index    int // Index into the snapshot slice for this kind
	ID       string
	Net      string
	Layer    string
	AllLayer bool // Spans every conductive layer
	Position geometry.Point2D
	Radius   float64       // Effective radius
	Bounds   geometry.Rect // Axis-aligned bounds including the radius
}

// meta returns the scope-resolver view of the object.
func (o *object) meta(rc *runContext) rules.ObjectMeta {
	m := rules.ObjectMeta{
		ID:       o.ID,
		Net:      o.Net,
		Position: o.Position,
	}
	if net := rc.netsByName[o.Net]; net != nil {
		m.NetClass = net.Class
	}
	if o.Kind == KindPad {
		pad := &rc.snap.Pads[o.Index]
		m.Component = pad.Component
		if comp := rc.compsByName[pad.Component]; comp != nil {
			m.ComponentKind = comp.Kind
		}
	}
	return m
}

// buildArena flattens the snapshot's copper objects into one arena slice.
// Object order is fixed (pads, vias, tracks, arcs, polygons, fills) so ids
// assigned by position are stable across runs.
func buildArena(snap *snapshot.BoardSnapshot) []object {
	arena := make([]object, 0, snap.ObjectCount())

	for i := range snap.Pads {
		p := &snap.Pads[i]
		r := p.EffectiveRadius()
		arena = append(arena, object{
			Kind: KindPad, Index: i, ID: p.ID,
			Net: p.Net, Layer: p.Layer, AllLayer: p.SpansAllLayers(),
			Position: p.Position, Radius: r,
			Bounds: geometry.Rect{X: p.Position.X - r, Y: p.Position.Y - r, Width: 2 * r, Height: 2 * r},
		})
	}
	for i := range snap.Vias {
		v := &snap.Vias[i]
		r := v.EffectiveRadius()
		arena = append(arena, object{
			Kind: KindVia, Index: i, ID: v.ID,
			Net: v.Net, Layer: snapshot.MultiLayer, AllLayer: v.SpansAllLayers(),
			Position: v.Position, Radius: r,
			Bounds: geometry.Rect{X: v.Position.X - r, Y: v.Position.Y - r, Width: 2 * r, Height: 2 * r},
		})
	}
	for i := range snap.Tracks {
		t := &snap.Tracks[i]
		r := t.EffectiveRadius()
		box := geometry.BoundingBox([]geometry.Point2D{t.Start, t.End}).Expand(r)
		arena = append(arena, object{
			Kind: KindTrack, Index: i, ID: t.ID,
			Net: t.Net, Layer: t.Layer,
			Position: t.Segment().Midpoint(), Radius: r,
			Bounds: box,
		})
	}
	for i := range snap.Arcs {
		a := &snap.Arcs[i]
		w := a.EffectiveRadius()
		span := a.Radius + w
		arena = append(arena, object{
			Kind: KindArc, Index: i, ID: a.ID,
			Net: a.Net, Layer: a.Layer,
			Position: a.Center, Radius: w,
			Bounds: geometry.Rect{X: a.Center.X - span, Y: a.Center.Y - span, Width: 2 * span, Height: 2 * span},
		})
	}
	for i := range snap.Polygons {
		p := &snap.Polygons[i]
		arena = append(arena, object{
			Kind: KindPolygon, Index: i, ID: p.ID,
			Net: p.Net, Layer: p.Layer,
			Position: p.Bounds.Center(),
			Bounds:   p.Bounds,
		})
	}
	for i := range snap.Fills {
		f := &snap.Fills[i]
		arena = append(arena, object{
			Kind: KindFill, Index: i, ID: f.ID,
			Net: f.Net, Layer: f.Layer,
			Position: f.Bounds.Center(),
			Bounds:   f.Bounds,
		})
	}

	return arena
}

// layerCompatible returns true when two arena objects can electrically
// interact: both on conductive layers per the declared stack, and either the
// same layer or one side spanning all layers.
func layerCompatible(rc *runContext, a, b *object) bool {
	if !rc.snap.LayerKindOf(a.Layer).Conductive() || !rc.snap.LayerKindOf(b.Layer).Conductive() {
		return false
	}
	if a.AllLayer || b.AllLayer {
		return true
	}
	return snapshot.SameConductiveLayer(a.Layer, b.Layer)
}
