package geometry

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// CoincidenceTol is the default snap distance for treating two points as the
// same location.
const CoincidenceTol = 1e-9

// Coincident returns true if two points are within tol of each other.
func Coincident(a, b Point2D, tol float64) bool {
	return scalar.EqualWithinAbs(a.X, b.X, tol) && scalar.EqualWithinAbs(a.Y, b.Y, tol) ||
		a.Distance(b) <= tol
}

// PointSegmentDistance returns the minimum distance from a point to a segment.
// A zero-length segment degenerates to point distance.
func PointSegmentDistance(p Point2D, s Segment) float64 {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return p.Distance(s.Start)
	}

	// Project p onto the segment, clamped to [0,1]
	t := ((p.X-s.Start.X)*dx + (p.Y-s.Start.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	closest := Point2D{X: s.Start.X + t*dx, Y: s.Start.Y + t*dy}
	return p.Distance(closest)
}

// ClosestPointOnSegment returns the point on s nearest to p.
func ClosestPointOnSegment(p Point2D, s Segment) Point2D {
	dx := s.End.X - s.Start.X
	dy := s.End.Y - s.Start.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return s.Start
	}
	t := ((p.X-s.Start.X)*dx + (p.Y-s.Start.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return Point2D{X: s.Start.X + t*dx, Y: s.Start.Y + t*dy}
}

// SegmentDistance returns the minimum distance between two segments.
// Intersecting segments have distance 0.
func SegmentDistance(a, b Segment) float64 {
	if SegmentsIntersect(a, b) {
		return 0
	}
	d := PointSegmentDistance(a.Start, b)
	if v := PointSegmentDistance(a.End, b); v < d {
		d = v
	}
	if v := PointSegmentDistance(b.Start, a); v < d {
		d = v
	}
	if v := PointSegmentDistance(b.End, a); v < d {
		d = v
	}
	return d
}

// SegmentsIntersect returns true if the two segments cross or touch.
func SegmentsIntersect(a, b Segment) bool {
	d1 := crossProduct(b.Start, b.End, a.Start)
	d2 := crossProduct(b.Start, b.End, a.End)
	d3 := crossProduct(a.Start, a.End, b.Start)
	d4 := crossProduct(a.Start, a.End, b.End)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	// Collinear touching cases
	if d1 == 0 && onSegment(b.Start, b.End, a.Start) {
		return true
	}
	if d2 == 0 && onSegment(b.Start, b.End, a.End) {
		return true
	}
	if d3 == 0 && onSegment(a.Start, a.End, b.Start) {
		return true
	}
	if d4 == 0 && onSegment(a.Start, a.End, b.End) {
		return true
	}
	return false
}

// onSegment reports whether p lies on the segment a-b, assuming collinearity.
func onSegment(a, b, p Point2D) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// CircleClearance returns the edge-to-edge gap between two circles:
// center distance minus both radii. Negative values mean overlap.
func CircleClearance(a, b Circle) float64 {
	return a.Center.Distance(b.Center) - a.Radius - b.Radius
}

// CircleSegmentClearance returns the gap between a circle edge and a segment
// swept by half-width w (a track body). Negative values mean overlap.
func CircleSegmentClearance(c Circle, s Segment, halfWidth float64) float64 {
	return PointSegmentDistance(c.Center, s) - c.Radius - halfWidth
}

// SegmentClearance returns the gap between two tracks modelled as segments
// with half-widths w1 and w2. Negative values mean overlap.
func SegmentClearance(a Segment, w1 float64, b Segment, w2 float64) float64 {
	return SegmentDistance(a, b) - w1 - w2
}

// RectDistance returns the minimum distance between two axis-aligned
// rectangles; 0 when they overlap or touch.
func RectDistance(a, b Rect) float64 {
	var dx, dy float64
	switch {
	case b.X+b.Width < a.X:
		dx = a.X - (b.X + b.Width)
	case b.X > a.X+a.Width:
		dx = b.X - (a.X + a.Width)
	}
	switch {
	case b.Y+b.Height < a.Y:
		dy = a.Y - (b.Y + b.Height)
	case b.Y > a.Y+a.Height:
		dy = b.Y - (a.Y + a.Height)
	}
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Hypot(dx, dy)
}

// InteriorAngle returns the interior angle in degrees at vertex b of the
// polyline a-b-c. Degenerate (zero-length) legs yield 180 (straight).
func InteriorAngle(a, b, c Point2D) float64 {
	v1 := a.Sub(b)
	v2 := c.Sub(b)
	l1 := math.Hypot(v1.X, v1.Y)
	l2 := math.Hypot(v2.X, v2.Y)
	if l1 == 0 || l2 == 0 {
		return 180
	}
	cos := (v1.X*v2.X + v1.Y*v2.Y) / (l1 * l2)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

// SegmentAngle returns the angle in degrees between the directions of two
// segments, folded into [0, 90] so direction does not matter.
func SegmentAngle(a, b Segment) float64 {
	a1 := math.Atan2(a.End.Y-a.Start.Y, a.End.X-a.Start.X)
	a2 := math.Atan2(b.End.Y-b.Start.Y, b.End.X-b.Start.X)
	diff := math.Abs(a1-a2) * 180 / math.Pi
	for diff > 180 {
		diff -= 180
	}
	if diff > 90 {
		diff = 180 - diff
	}
	return diff
}
