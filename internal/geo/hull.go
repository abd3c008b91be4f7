package geo

import "sort"

// Enclose returns a closed ring containing every point in the set.
//
// For fewer than three distinct points, or for point sets that are
// collinear within CoordTolerance, the result is the axis-aligned bounding
// rectangle (possibly degenerate: a single point yields four coincident
// corners). Otherwise the result is the convex hull in counter-clockwise
// winding. Enclose never fails for non-empty input; it panics on an empty
// set, which callers rule out by construction.
func Enclose(points []Point) Ring {
	if len(points) == 0 {
		panic("geo: Enclose called with no points")
	}

	distinct := dedupe(points)
	if len(distinct) < 3 {
		return BoundingBox(points)
	}

	hull := convexHull(distinct)
	if len(hull) < 3 {
		// Collinear set the dedupe pass could not rule out.
		return BoundingBox(points)
	}
	return Ring(hull).Close()
}

// convexHull computes the convex hull of distinct, sorted-deduplicated
// points using the monotone chain algorithm. The hull is returned open
// (no closing vertex) in counter-clockwise order. Collinear input
// collapses to fewer than three vertices.
func convexHull(points []Point) []Point {
	n := len(points)
	if n < 3 {
		return append([]Point(nil), points...)
	}

	lower := make([]Point, 0, n)
	for _, p := range points {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= CoordTolerance {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]Point, 0, n)
	for i := n - 1; i >= 0; i-- {
		p := points[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= CoordTolerance {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Last vertex of each chain is the first of the other.
	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

// dedupe returns the distinct points of the set, sorted by X then Y.
// Coincidence is tested with CoordTolerance, not exact equality.
func dedupe(points []Point) []Point {
	sorted := append([]Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	distinct := sorted[:0]
	for _, p := range sorted {
		if len(distinct) == 0 || !samePoint(distinct[len(distinct)-1], p) {
			distinct = append(distinct, p)
		}
	}
	return distinct
}
