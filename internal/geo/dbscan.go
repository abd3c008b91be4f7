package geo

import "math"

// Noise is the label assigned to points that are density-reachable from no
// core point.
const Noise = -1

// unvisited is an internal sentinel; it never appears in returned labels.
const unvisited = -2

// estimatedPointsPerCell sizes the spatial index's cell map.
const estimatedPointsPerCell = 4

// Cluster partitions points into density clusters using DBSCAN.
//
// It returns one label per input point in input order: a cluster index
// starting at 0, or Noise. A point is a core point when at least minPts
// points (itself included) lie within eps of it. Clusters are the
// transitive closure of density reachability seeded from core points,
// scanned in ascending input order, so a border point reachable from two
// clusters always joins the cluster discovered first. The same input
// always produces the same labeling.
//
// Callers validate eps > 0 and minPts >= 1 before calling; duplicate
// coincident points each count toward minPts. An empty input yields an
// empty label slice.
func Cluster(points []Point, eps float64, minPts int) []int {
	labels := make([]int, len(points))
	if len(points) == 0 {
		return labels
	}
	for i := range labels {
		labels[i] = unvisited
	}

	index := newCellIndex(eps)
	index.build(points)

	next := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}
		neighbors := index.regionQuery(points, i, eps)
		if len(neighbors) < minPts {
			// May be promoted to a border point later; never seeds
			// its own cluster.
			labels[i] = Noise
			continue
		}
		expandCluster(points, index, labels, i, neighbors, next, eps, minPts)
		next++
	}
	return labels
}

// expandCluster grows cluster id from the core point at seed using a
// queue over its neighborhood. Border points are absorbed but do not
// extend the queue.
func expandCluster(points []Point, index *cellIndex, labels []int,
	seed int, neighbors []int, id int, eps float64, minPts int) {

	labels[seed] = id

	for j := 0; j < len(neighbors); j++ {
		idx := neighbors[j]

		if labels[idx] == Noise {
			labels[idx] = id // noise becomes a border point
		}
		if labels[idx] != unvisited {
			continue
		}

		labels[idx] = id
		more := index.regionQuery(points, idx, eps)
		if len(more) >= minPts {
			neighbors = append(neighbors, more...)
		}
	}
}

// cellIndex is a regular-grid spatial index for neighborhood queries. The
// cell size matches eps so a query only needs the 3x3 block of cells
// around the query point.
type cellIndex struct {
	cellSize float64
	grid     map[int64][]int
}

func newCellIndex(cellSize float64) *cellIndex {
	return &cellIndex{cellSize: cellSize, grid: make(map[int64][]int)}
}

func (ci *cellIndex) build(points []Point) {
	ci.grid = make(map[int64][]int, len(points)/estimatedPointsPerCell+1)
	for i, p := range points {
		id := pairCells(
			int64(math.Floor(p.X/ci.cellSize)),
			int64(math.Floor(p.Y/ci.cellSize)),
		)
		ci.grid[id] = append(ci.grid[id], i)
	}
}

// regionQuery returns the indices of all points within eps of points[idx],
// including idx itself. Within a cell, candidates appear in ascending
// input order.
func (ci *cellIndex) regionQuery(points []Point, idx int, eps float64) []int {
	p := points[idx]
	eps2 := eps * eps
	cellX := int64(math.Floor(p.X / ci.cellSize))
	cellY := int64(math.Floor(p.Y / ci.cellSize))

	var neighbors []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, cand := range ci.grid[pairCells(cellX+dx, cellY+dy)] {
				ddx := points[cand].X - p.X
				ddy := points[cand].Y - p.Y
				if ddx*ddx+ddy*ddy <= eps2 {
					neighbors = append(neighbors, cand)
				}
			}
		}
	}
	return neighbors
}

// pairCells maps a signed cell coordinate pair to a unique map key using
// zigzag encoding followed by Szudzik's pairing function.
func pairCells(cellX, cellY int64) int64 {
	var a, b int64
	if cellX >= 0 {
		a = 2 * cellX
	} else {
		a = -2*cellX - 1
	}
	if cellY >= 0 {
		b = 2 * cellY
	} else {
		b = -2*cellY - 1
	}
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}
