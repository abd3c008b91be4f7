package geo

import (
	"math/rand"
	"testing"
)

func assertClosedRing(t *testing.T, r Ring) {
	t.Helper()
	if len(r) < 4 {
		t.Fatalf("ring has %d vertices, want >= 4", len(r))
	}
	if !r.Closed() {
		t.Fatalf("ring not closed: first %v, last %v", r[0], r[len(r)-1])
	}
	for i := 1; i < len(r)-1; i++ {
		if samePoint(r[i-1], r[i]) {
			t.Errorf("duplicate consecutive vertices at %d: %v", i, r[i])
		}
	}
}

func TestEnclose_SinglePoint(t *testing.T) {
	ring := Enclose([]Point{{-6.26, 53.35}})
	// A degenerate rectangle is allowed to repeat vertices, so only the
	// closure property is checked here.
	if !ring.Closed() {
		t.Fatal("ring not closed")
	}
	if len(ring) != 5 {
		t.Fatalf("expected 5-vertex degenerate rectangle, got %d vertices", len(ring))
	}
	for _, v := range ring {
		if v.X != -6.26 || v.Y != 53.35 {
			t.Errorf("degenerate rectangle vertex %v differs from the point", v)
		}
	}
}

func TestEnclose_TwoPoints(t *testing.T) {
	ring := Enclose([]Point{{0, 0}, {2, 1}})
	if len(ring) != 5 {
		t.Fatalf("expected bounding rectangle, got %d vertices", len(ring))
	}
	assertClosedRing(t, ring)
	want := Ring{{0, 0}, {2, 0}, {2, 1}, {0, 1}, {0, 0}}
	for i, v := range want {
		if !samePoint(ring[i], v) {
			t.Errorf("vertex %d = %v, want %v", i, ring[i], v)
		}
	}
}

func TestEnclose_CollinearPoints(t *testing.T) {
	// Three points on a line cannot form a proper hull; the bounding
	// rectangle (degenerate, zero height) is returned instead.
	ring := Enclose([]Point{{0, 0}, {1, 0}, {2, 0}})
	if len(ring) != 5 {
		t.Fatalf("expected bounding rectangle for collinear points, got %d vertices", len(ring))
	}
	if ring[0].X != 0 || ring[1].X != 2 {
		t.Errorf("rectangle does not span the segment: %v", ring)
	}
}

func TestEnclose_DuplicatePointsCollapse(t *testing.T) {
	// Many copies of two distinct points is still a two-point set.
	points := []Point{{0, 0}, {1, 1}, {0, 0}, {1, 1}, {0, 0}}
	ring := Enclose(points)
	if len(ring) != 5 {
		t.Fatalf("expected bounding rectangle, got %d vertices", len(ring))
	}
}

func TestEnclose_Triangle(t *testing.T) {
	ring := Enclose([]Point{{0, 0}, {4, 0}, {2, 3}})
	assertClosedRing(t, ring)
	if len(ring) != 4 {
		t.Fatalf("expected closed triangle (4 vertices), got %d", len(ring))
	}
}

func TestEnclose_SquareWithInteriorPoints(t *testing.T) {
	points := []Point{
		{0, 0}, {4, 0}, {4, 4}, {0, 4}, // corners
		{2, 2}, {1, 3}, {3, 1}, // interior
	}
	ring := Enclose(points)
	assertClosedRing(t, ring)
	if len(ring) != 5 {
		t.Fatalf("expected closed square (5 vertices), got %d: %v", len(ring), ring)
	}
	for _, p := range points {
		if !ring.Contains(p) {
			t.Errorf("hull does not contain input point %v", p)
		}
	}
}

func TestEnclose_CounterClockwiseWinding(t *testing.T) {
	ring := Enclose([]Point{{0, 0}, {4, 0}, {4, 4}, {0, 4}})
	// Shoelace signed area is positive for counter-clockwise rings.
	var area float64
	for i := 0; i < len(ring)-1; i++ {
		area += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	if area <= 0 {
		t.Errorf("ring is not counter-clockwise (signed area %f): %v", area, ring)
	}
}

func TestEnclose_HullContainsAllPoints(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	points := make([]Point, 60)
	for i := range points {
		points[i] = Point{rng.Float64() * 8, rng.Float64() * 8}
	}
	ring := Enclose(points)
	assertClosedRing(t, ring)
	for i, p := range points {
		if !ring.Contains(p) {
			t.Errorf("point %d (%v) outside hull", i, p)
		}
	}
}

func TestEnclose_HullVerticesAreInputPoints(t *testing.T) {
	points := []Point{{0, 0}, {5, 1}, {3, 6}, {1, 4}, {2, 2}}
	ring := Enclose(points)
	for _, v := range ring[:len(ring)-1] {
		found := false
		for _, p := range points {
			if samePoint(v, p) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("hull vertex %v is not an input point", v)
		}
	}
}

func TestBoundingBox_SpansAllPoints(t *testing.T) {
	points := []Point{{1, 2}, {-3, 5}, {4, -1}}
	ring := BoundingBox(points)
	assertClosedRing(t, ring)
	for _, p := range points {
		if !ring.Contains(p) {
			t.Errorf("bounding box excludes %v", p)
		}
	}
	if ring[0].X != -3 || ring[0].Y != -1 || ring[2].X != 4 || ring[2].Y != 5 {
		t.Errorf("unexpected extent: %v", ring)
	}
}

func TestRing_Contains(t *testing.T) {
	square := Ring{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	cases := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", Point{2, 2}, true},
		{"vertex", Point{0, 0}, true},
		{"edge", Point{2, 0}, true},
		{"outside", Point{5, 2}, false},
		{"outside aligned", Point{-1, 0}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := square.Contains(tc.p); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestRing_Close(t *testing.T) {
	open := Ring{{0, 0}, {1, 0}, {1, 1}}
	closed := open.Close()
	if !closed.Closed() {
		t.Fatal("Close did not close the ring")
	}
	if got := closed.Close(); len(got) != len(closed) {
		t.Error("Close on a closed ring appended a vertex")
	}
}
