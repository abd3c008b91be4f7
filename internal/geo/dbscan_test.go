package geo

import (
	"math/rand"
	"testing"
)

func TestCluster_EmptyInput(t *testing.T) {
	labels := Cluster(nil, 0.01, 2)
	if len(labels) != 0 {
		t.Errorf("expected empty labels for empty input, got %d", len(labels))
	}
}

// Five reports tightly grouped around Dublin city centre form one cluster.
func TestCluster_DenseGroup(t *testing.T) {
	points := []Point{
		{-6.2603, 53.3498},
		{-6.2608, 53.3501},
		{-6.2599, 53.3495},
		{-6.2601, 53.3502},
		{-6.2605, 53.3497},
	}
	labels := Cluster(points, 0.01, 2)
	if len(labels) != len(points) {
		t.Fatalf("expected %d labels, got %d", len(points), len(labels))
	}
	for i, l := range labels {
		if l != 0 {
			t.Errorf("point %d: expected cluster 0, got %d", i, l)
		}
	}
}

func TestCluster_IsolatedPointsAreNoise(t *testing.T) {
	points := []Point{{0, 0}, {10, 0}}
	labels := Cluster(points, 0.01, 2)
	for i, l := range labels {
		if l != Noise {
			t.Errorf("point %d: expected noise, got label %d", i, l)
		}
	}
}

func TestCluster_PairWithinEps(t *testing.T) {
	points := []Point{{0, 0}, {0.001, 0}}
	labels := Cluster(points, 0.01, 2)
	if labels[0] != 0 || labels[1] != 0 {
		t.Errorf("expected both points in cluster 0, got %v", labels)
	}
}

func TestCluster_MinPtsOne_NoNoise(t *testing.T) {
	points := []Point{
		{0, 0}, {0.005, 0}, {5, 5}, {9, 9}, {9.004, 9},
	}
	labels := Cluster(points, 0.01, 1)
	for i, l := range labels {
		if l == Noise {
			t.Errorf("point %d labeled noise with minPts=1", i)
		}
	}
	// eps-adjacency gives three connected components.
	if labels[0] != labels[1] {
		t.Errorf("adjacent points split: %v", labels)
	}
	if labels[3] != labels[4] {
		t.Errorf("adjacent points split: %v", labels)
	}
	if labels[0] == labels[2] || labels[2] == labels[3] {
		t.Errorf("distant points merged: %v", labels)
	}
}

func TestCluster_CoincidentDuplicatesCountTowardMinPts(t *testing.T) {
	// Three identical points meet minPts=3 on their own.
	points := []Point{{1, 1}, {1, 1}, {1, 1}}
	labels := Cluster(points, 0.01, 3)
	for i, l := range labels {
		if l != 0 {
			t.Errorf("point %d: expected cluster 0, got %d", i, l)
		}
	}
}

func TestCluster_EveryPointGetsExactlyOneLabel(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := make([]Point, 200)
	for i := range points {
		points[i] = Point{rng.Float64() * 10, rng.Float64() * 10}
	}
	labels := Cluster(points, 0.5, 4)
	if len(labels) != len(points) {
		t.Fatalf("expected %d labels, got %d", len(points), len(labels))
	}
	maxLabel := Noise
	for i, l := range labels {
		if l < Noise {
			t.Errorf("point %d has invalid label %d", i, l)
		}
		if l > maxLabel {
			maxLabel = l
		}
	}
	// Cluster indices are contiguous from zero: every index up to the
	// maximum is assigned to at least one point.
	seen := make(map[int]bool)
	for _, l := range labels {
		if l != Noise {
			seen[l] = true
		}
	}
	for id := 0; id <= maxLabel; id++ {
		if !seen[id] {
			t.Errorf("cluster index %d has no members", id)
		}
	}
}

func TestCluster_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	points := make([]Point, 150)
	for i := range points {
		points[i] = Point{rng.Float64() * 5, rng.Float64() * 5}
	}
	first := Cluster(points, 0.3, 3)
	for run := 0; run < 5; run++ {
		got := Cluster(points, 0.3, 3)
		for i := range got {
			if got[i] != first[i] {
				t.Fatalf("run %d: label mismatch at point %d: %d != %d",
					run, i, got[i], first[i])
			}
		}
	}
}

// Permuting the input must preserve the partition (the same points group
// together) even though label numbers may differ.
func TestCluster_PartitionStableUnderPermutation(t *testing.T) {
	points := []Point{
		{0, 0}, {0.1, 0}, {0.2, 0},
		{5, 5}, {5.1, 5}, {5.2, 5},
		{20, 20}, // noise
	}
	perm := []int{6, 3, 0, 4, 1, 5, 2}
	permuted := make([]Point, len(points))
	for i, src := range perm {
		permuted[i] = points[src]
	}

	orig := Cluster(points, 0.5, 3)
	shuf := Cluster(permuted, 0.5, 3)

	// Map permuted labels back to original positions.
	back := make([]int, len(points))
	for i, src := range perm {
		back[src] = shuf[i]
	}

	for i := 0; i < len(points); i++ {
		for j := 0; j < len(points); j++ {
			sameOrig := orig[i] != Noise && orig[i] == orig[j]
			sameShuf := back[i] != Noise && back[i] == back[j]
			if sameOrig != sameShuf {
				t.Errorf("points %d,%d grouping changed under permutation", i, j)
			}
		}
		if (orig[i] == Noise) != (back[i] == Noise) {
			t.Errorf("point %d noise status changed under permutation", i)
		}
	}
}

// A border point reachable from two clusters joins the cluster discovered
// first in input order.
func TestCluster_BorderPointTieBreak(t *testing.T) {
	a := []Point{{0, 0}, {0.05, 0}, {0.1, 0}, {0.3, 0}}
	b := []Point{{1.2, 0}, {1.5, 0}, {1.55, 0}, {1.6, 0}}
	border := Point{0.75, 0}

	// Cluster A appears first: border belongs to A's label.
	points := append(append(append([]Point{}, a...), b...), border)
	labels := Cluster(points, 0.5, 4)
	if labels[len(labels)-1] != labels[0] {
		t.Errorf("border point got label %d, want first cluster %d",
			labels[len(labels)-1], labels[0])
	}
	if labels[0] == labels[4] {
		t.Fatalf("clusters unexpectedly merged: %v", labels)
	}

	// Cluster B appears first: border flips to B's label.
	points = append(append(append([]Point{}, b...), a...), border)
	labels = Cluster(points, 0.5, 4)
	if labels[len(labels)-1] != labels[0] {
		t.Errorf("border point got label %d, want first cluster %d",
			labels[len(labels)-1], labels[0])
	}
}

func TestCluster_NoisePromotedToBorder(t *testing.T) {
	// Index 0 is scanned first, fails the core test, and is marked noise.
	// The cluster seeded from index 1 later absorbs it as a border point.
	points := []Point{
		{-0.05, 0},    // border: only one neighbor besides itself
		{0.4, 0},      // core
		{0.5, 0},      // core
		{0.6, 0},      // core
		{0.45, 0.05},  // core
		{0.55, -0.05}, // core
	}
	labels := Cluster(points, 0.5, 4)
	if labels[0] == Noise {
		t.Error("reachable point left as noise")
	}
	if labels[0] != labels[1] {
		t.Errorf("border point label %d differs from cluster label %d", labels[0], labels[1])
	}
}

func TestCluster_TwoSeparateClusters(t *testing.T) {
	points := []Point{
		{0, 0}, {0.1, 0.1}, {0.2, 0}, {0, 0.2},
		{10, 10}, {10.1, 10.1}, {10.2, 10}, {10, 10.2},
	}
	labels := Cluster(points, 0.5, 3)
	for i := 1; i < 4; i++ {
		if labels[i] != labels[0] {
			t.Errorf("first group split: %v", labels)
		}
	}
	for i := 5; i < 8; i++ {
		if labels[i] != labels[4] {
			t.Errorf("second group split: %v", labels)
		}
	}
	if labels[0] == labels[4] {
		t.Errorf("distant groups merged: %v", labels)
	}
}

func TestCellIndex_RegionQueryAcrossCells(t *testing.T) {
	// Neighbors within eps but in adjacent grid cells must still be found.
	points := []Point{{0.99, 0}, {1.01, 0}}
	idx := newCellIndex(1.0)
	idx.build(points)
	got := idx.regionQuery(points, 0, 1.0)
	if len(got) != 2 {
		t.Errorf("expected 2 neighbors across cell boundary, got %d", len(got))
	}
}

func TestCellIndex_NegativeCoordinates(t *testing.T) {
	points := []Point{{-0.5, -0.5}, {-0.45, -0.55}, {3, 3}}
	idx := newCellIndex(0.5)
	idx.build(points)
	got := idx.regionQuery(points, 0, 0.5)
	if len(got) != 2 {
		t.Errorf("expected 2 neighbors in negative quadrant, got %d (%v)", len(got), got)
	}
}
