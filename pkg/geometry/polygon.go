package geometry

// PointInPolygon tests if a point is inside a polygon using ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// SegmentIntersectsPolygon returns true if the segment crosses any polygon
// edge or has an endpoint inside the polygon.
func SegmentIntersectsPolygon(s Segment, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}
	if PointInPolygon(s.Start, polygon) || PointInPolygon(s.End, polygon) {
		return true
	}
	n := len(polygon)
	for i := 0; i < n; i++ {
		edge := Segment{Start: polygon[i], End: polygon[(i+1)%n]}
		if SegmentsIntersect(s, edge) {
			return true
		}
	}
	return false
}

// PointPolygonDistance returns the minimum distance from a point to the
// polygon boundary; 0 when the point is inside.
func PointPolygonDistance(p Point2D, polygon []Point2D) float64 {
	if len(polygon) < 3 {
		return 0
	}
	if PointInPolygon(p, polygon) {
		return 0
	}
	n := len(polygon)
	min := PointSegmentDistance(p, Segment{Start: polygon[0], End: polygon[1%n]})
	for i := 1; i < n; i++ {
		d := PointSegmentDistance(p, Segment{Start: polygon[i], End: polygon[(i+1)%n]})
		if d < min {
			min = d
		}
	}
	return min
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
