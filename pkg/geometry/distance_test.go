package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPointSegmentDistance(t *testing.T) {
	seg := NewSegment(NewPoint2D(0, 0), NewPoint2D(10, 0))

	assert.InDelta(t, 5.0, PointSegmentDistance(NewPoint2D(5, 5), seg), 1e-9)
	assert.InDelta(t, 0.0, PointSegmentDistance(NewPoint2D(3, 0), seg), 1e-9)
	// Beyond the end: distance to the endpoint, not the infinite line
	assert.InDelta(t, 5.0, PointSegmentDistance(NewPoint2D(15, 0), seg), 1e-9)
}

func TestPointSegmentDistanceDegenerate(t *testing.T) {
	// Zero-length segment degenerates to point distance
	seg := NewSegment(NewPoint2D(2, 2), NewPoint2D(2, 2))
	assert.InDelta(t, 2.0, PointSegmentDistance(NewPoint2D(2, 4), seg), 1e-9)
}

func TestSegmentDistance(t *testing.T) {
	a := NewSegment(NewPoint2D(0, 0), NewPoint2D(10, 0))
	b := NewSegment(NewPoint2D(0, 3), NewPoint2D(10, 3))
	assert.InDelta(t, 3.0, SegmentDistance(a, b), 1e-9)

	// Crossing segments touch
	c := NewSegment(NewPoint2D(5, -5), NewPoint2D(5, 5))
	assert.Equal(t, 0.0, SegmentDistance(a, c))
}

func TestSegmentDistanceSymmetry(t *testing.T) {
	a := NewSegment(NewPoint2D(0, 0), NewPoint2D(4, 1))
	b := NewSegment(NewPoint2D(7, 3), NewPoint2D(2, 8))
	assert.Equal(t, SegmentDistance(a, b), SegmentDistance(b, a))
}

func TestCircleClearance(t *testing.T) {
	a := Circle{Center: NewPoint2D(0, 0), Radius: 0.5}
	b := Circle{Center: NewPoint2D(1, 0), Radius: 0.5}

	// Touching circles: exactly zero gap
	assert.InDelta(t, 0.0, CircleClearance(a, b), 1e-9)
	assert.Equal(t, CircleClearance(a, b), CircleClearance(b, a))

	// Overlap is negative
	c := Circle{Center: NewPoint2D(0.5, 0), Radius: 0.5}
	assert.Less(t, CircleClearance(a, c), 0.0)
}

func TestInteriorAngle(t *testing.T) {
	// Right angle
	angle := InteriorAngle(NewPoint2D(0, 0), NewPoint2D(5, 0), NewPoint2D(5, 5))
	assert.InDelta(t, 90.0, angle, 1e-9)

	// Straight through
	angle = InteriorAngle(NewPoint2D(0, 0), NewPoint2D(5, 0), NewPoint2D(10, 0))
	assert.InDelta(t, 180.0, angle, 1e-9)

	// Degenerate leg reads as straight
	angle = InteriorAngle(NewPoint2D(5, 0), NewPoint2D(5, 0), NewPoint2D(10, 0))
	assert.Equal(t, 180.0, angle)
}

func TestSegmentAngle(t *testing.T) {
	a := NewSegment(NewPoint2D(0, 0), NewPoint2D(10, 0))
	b := NewSegment(NewPoint2D(0, 1), NewPoint2D(10, 1))
	assert.InDelta(t, 0.0, SegmentAngle(a, b), 1e-9)

	// Opposite directions are still parallel
	c := NewSegment(NewPoint2D(10, 1), NewPoint2D(0, 1))
	assert.InDelta(t, 0.0, SegmentAngle(a, c), 1e-9)

	d := NewSegment(NewPoint2D(0, 0), NewPoint2D(0, 10))
	assert.InDelta(t, 90.0, SegmentAngle(a, d), 1e-9)
}

func TestCoincident(t *testing.T) {
	a := NewPoint2D(1, 1)
	assert.True(t, Coincident(a, NewPoint2D(1.0000000001, 1), 1e-6))
	assert.True(t, Coincident(a, a, CoincidenceTol))
	assert.False(t, Coincident(a, NewPoint2D(2, 1), 1e-6))
}

func TestSegmentLength(t *testing.T) {
	assert.InDelta(t, 5.0, NewSegment(NewPoint2D(0, 0), NewPoint2D(3, 4)).Length(), 1e-9)
	assert.Equal(t, 0.0, NewSegment(NewPoint2D(2, 2), NewPoint2D(2, 2)).Length())
}

func TestCircleContains(t *testing.T) {
	c := Circle{Center: NewPoint2D(0, 0), Radius: 1.0}
	assert.True(t, c.Contains(NewPoint2D(0.5, 0.5)))
	assert.True(t, c.Contains(NewPoint2D(1, 0))) // On the edge
	assert.False(t, c.Contains(NewPoint2D(1.1, 0)))
}

func TestRectUnion(t *testing.T) {
	u := NewRect(0, 0, 5, 5).Union(NewRect(8, 2, 4, 4))
	assert.Equal(t, NewRect(0, 0, 12, 6), u)
}

func TestPointInPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.True(t, PointInPolygon(NewPoint2D(5, 5), square))
	assert.False(t, PointInPolygon(NewPoint2D(15, 5), square))
	// Fewer than 3 vertices is never "inside"
	assert.False(t, PointInPolygon(NewPoint2D(5, 5), square[:2]))
}

func TestSegmentIntersectsPolygon(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	// Both endpoints outside, body crossing through
	crossing := NewSegment(NewPoint2D(-5, 5), NewPoint2D(15, 5))
	assert.True(t, SegmentIntersectsPolygon(crossing, square))

	// One endpoint inside
	entering := NewSegment(NewPoint2D(5, 5), NewPoint2D(15, 5))
	assert.True(t, SegmentIntersectsPolygon(entering, square))

	missing := NewSegment(NewPoint2D(-5, -5), NewPoint2D(15, -5))
	assert.False(t, SegmentIntersectsPolygon(missing, square))
}

func TestPointPolygonDistance(t *testing.T) {
	square := []Point2D{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.Equal(t, 0.0, PointPolygonDistance(NewPoint2D(5, 5), square))
	assert.InDelta(t, 2.0, PointPolygonDistance(NewPoint2D(12, 5), square), 1e-9)
	assert.InDelta(t, 1.0, PointPolygonDistance(NewPoint2D(5, -1), square), 1e-9)
}

func TestRectDistance(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	b := NewRect(13, 0, 5, 5)
	assert.InDelta(t, 3.0, RectDistance(a, b), 1e-9)
	assert.Equal(t, RectDistance(a, b), RectDistance(b, a))

	// Overlapping rectangles
	c := NewRect(5, 5, 10, 10)
	assert.Equal(t, 0.0, RectDistance(a, c))

	// Diagonal separation
	d := NewRect(13, 14, 2, 2)
	assert.InDelta(t, 5.0, RectDistance(a, d), 1e-9)
}
