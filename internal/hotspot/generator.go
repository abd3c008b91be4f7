// Package hotspot derives hotspot polygons from stored report locations.
//
// A Generator runs the full pipeline for one invocation: read a stable
// snapshot of report points, cluster them by density, build an enclosing
// polygon per cluster, and atomically replace the stored hotspot set.
package hotspot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/civic-data/hotspot.report/internal/geo"
	"github.com/civic-data/hotspot.report/internal/monitoring"
	"github.com/civic-data/hotspot.report/internal/timeutil"
)

// ErrRunInFlight is returned when a run is requested while another run is
// still executing. The condition is retryable; stored hotspots are left
// untouched.
var ErrRunInFlight = errors.New("hotspot: generation run already in flight")

// ReportPoint is one report's location as read from storage. The ID is
// opaque and used only for traceability.
type ReportPoint struct {
	ID    string
	Point geo.Point
}

// Hotspot is one derived cluster boundary ready to be stored.
type Hotspot struct {
	ClusterLabel int       `json:"cluster_label"`
	Boundary     geo.Ring  `json:"boundary"`
	PointCount   int       `json:"point_count"`
	SpreadMean   float64   `json:"spread_mean"`
	SpreadStdDev float64   `json:"spread_std_dev"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

// Store is the storage collaborator the generator depends on. ReplaceHotspots
// must be atomic from readers' perspective: either the full new set replaces
// the old, or nothing changes.
type Store interface {
	ReportPoints(ctx context.Context) ([]ReportPoint, error)
	ReplaceHotspots(ctx context.Context, hotspots []Hotspot) error
}

// Params are the density thresholds for one deployment. Eps is a distance
// in the report coordinate units (degrees for geographic data).
type Params struct {
	Eps    float64 `json:"eps"`
	MinPts int     `json:"min_pts"`
}

// Validate rejects parameter combinations the engine must never see.
func (p Params) Validate() error {
	if p.Eps <= 0 {
		return fmt.Errorf("hotspot: eps must be positive, got %g", p.Eps)
	}
	if p.MinPts < 1 {
		return fmt.Errorf("hotspot: min_pts must be at least 1, got %d", p.MinPts)
	}
	return nil
}

// Summary reports what a single run did.
type Summary struct {
	TotalReports    int           `json:"total_reports"`
	ClustersFound   int           `json:"clusters_found"`
	HotspotsCreated int           `json:"hotspots_created"`
	NoisePoints     int           `json:"noise_points"`
	Duration        time.Duration `json:"-"`
}

// Generator coordinates hotspot generation runs. It is safe for concurrent
// use; overlapping runs are rejected rather than queued, since two runs
// would race on the storage replacement step.
type Generator struct {
	store  Store
	params Params
	clock  timeutil.Clock

	mu sync.Mutex // held for the duration of a run
}

// NewGenerator creates a generator over the given store. Params are
// validated per run so a generator constructed with bad config fails at
// Run time, before any storage access.
func NewGenerator(store Store, params Params) *Generator {
	return &Generator{store: store, params: params, clock: timeutil.RealClock{}}
}

// Params returns the configured density thresholds.
func (g *Generator) Params() Params { return g.params }

// Run executes one full generation pass and returns its summary.
//
// The read is taken once up front; the point snapshot is immutable for the
// rest of the run. If another run holds the generator, Run returns
// ErrRunInFlight immediately.
func (g *Generator) Run(ctx context.Context) (*Summary, error) {
	if err := g.params.Validate(); err != nil {
		return nil, err
	}
	if !g.mu.TryLock() {
		return nil, ErrRunInFlight
	}
	defer g.mu.Unlock()

	start := g.clock.Now()

	reports, err := g.store.ReportPoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("hotspot: reading report points: %w", err)
	}

	points := make([]geo.Point, len(reports))
	for i, r := range reports {
		points[i] = r.Point
	}

	labels := geo.Cluster(points, g.params.Eps, g.params.MinPts)

	// Group member points by cluster label, preserving input order.
	groups := make(map[int][]geo.Point)
	noise := 0
	for i, label := range labels {
		if label == geo.Noise {
			noise++
			continue
		}
		groups[label] = append(groups[label], points[i])
	}

	hotspots := make([]Hotspot, 0, len(groups))
	for label := 0; label < len(groups); label++ {
		members := groups[label]
		h := Hotspot{
			ClusterLabel: label,
			Boundary:     geo.Enclose(members),
			PointCount:   len(members),
		}
		h.SpreadMean, h.SpreadStdDev = spreadStats(members)
		hotspots = append(hotspots, h)
	}

	if err := g.store.ReplaceHotspots(ctx, hotspots); err != nil {
		return nil, fmt.Errorf("hotspot: replacing hotspots: %w", err)
	}

	summary := &Summary{
		TotalReports:    len(reports),
		ClustersFound:   len(groups),
		HotspotsCreated: len(hotspots),
		NoisePoints:     noise,
		Duration:        g.clock.Since(start),
	}
	monitoring.Logf("hotspot run complete: %d reports, %d clusters, %d noise (%v)",
		summary.TotalReports, summary.ClustersFound, summary.NoisePoints, summary.Duration)
	return summary, nil
}
