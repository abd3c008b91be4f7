package hotspot

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/civic-data/hotspot.report/internal/geo"
)

// spreadStats measures how tightly a cluster's points group around their
// centroid: the mean and standard deviation of member distances to it.
// A single-point cluster has zero spread.
func spreadStats(points []geo.Point) (mean, stddev float64) {
	if len(points) < 2 {
		return 0, 0
	}

	var cx, cy float64
	for _, p := range points {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(points))
	cy /= float64(len(points))

	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = math.Hypot(p.X-cx, p.Y-cy)
	}

	mean, std := stat.MeanStdDev(dists, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}
