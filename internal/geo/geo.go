// Package geo implements the spatial core of hotspot generation: density
// clustering of report coordinates and construction of enclosing polygons.
//
// The package is deliberately free of storage and transport concerns. It
// operates on plain Euclidean coordinate pairs; callers choose an eps that
// is consistent with the coordinate units (for geographic input, degrees).
package geo

import "math"

// CoordTolerance is the tolerance used for coincidence and collinearity
// tests. Exact float equality is too strict for coordinates that went
// through serialization round-trips.
const CoordTolerance = 1e-12

// Point is a 2D coordinate pair. For report data X is longitude and Y is
// latitude, but nothing in this package depends on that interpretation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ring is an ordered sequence of vertices describing a polygon boundary.
// A closed ring repeats its first vertex at the end.
type Ring []Point

// Closed reports whether the ring's last vertex repeats its first.
func (r Ring) Closed() bool {
	if len(r) < 2 {
		return false
	}
	return samePoint(r[0], r[len(r)-1])
}

// Close returns the ring with its first vertex appended if not already
// closed. A nil or single-point ring is returned unchanged.
func (r Ring) Close() Ring {
	if len(r) < 2 || r.Closed() {
		return r
	}
	return append(r, r[0])
}

// Contains reports whether p lies inside or on the boundary of the closed
// ring. Boundary inclusion matters: hull vertices are themselves input
// points and must test as contained.
func (r Ring) Contains(p Point) bool {
	if len(r) < 4 || !r.Closed() {
		return false
	}
	// On-boundary check first; the crossing test below is exclusive on
	// some edges.
	for i := 0; i < len(r)-1; i++ {
		if onSegment(p, r[i], r[i+1]) {
			return true
		}
	}
	inside := false
	for i := 0; i < len(r)-1; i++ {
		a, b := r[i], r[i+1]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := a.X + (p.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// BoundingBox returns the axis-aligned bounding rectangle of points as a
// closed 5-vertex ring. A single point yields a degenerate rectangle with
// all four corners coincident. Panics on empty input; callers guarantee at
// least one point.
func BoundingBox(points []Point) Ring {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}
}

// cross returns the z component of (b-a) x (c-a). Positive when a,b,c make
// a counter-clockwise turn.
func cross(a, b, c Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func samePoint(a, b Point) bool {
	return math.Abs(a.X-b.X) <= CoordTolerance && math.Abs(a.Y-b.Y) <= CoordTolerance
}

// onSegment reports whether p lies on the segment ab within tolerance.
func onSegment(p, a, b Point) bool {
	if math.Abs(cross(a, b, p)) > CoordTolerance {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-CoordTolerance &&
		p.X <= math.Max(a.X, b.X)+CoordTolerance &&
		p.Y >= math.Min(a.Y, b.Y)-CoordTolerance &&
		p.Y <= math.Max(a.Y, b.Y)+CoordTolerance
}
