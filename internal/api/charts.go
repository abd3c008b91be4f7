package api

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/civic-data/hotspot.report/internal/httputil"
)

// showHotspotMap renders a quick scatter plot (HTML) of report locations
// and hotspot boundary vertices using go-echarts. This is a debugging-only
// endpoint to visually sanity-check clustering output without a frontend.
func (s *Server) showHotspotMap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	points, err := s.db.ReportPoints(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to read report points: %v", err))
		return
	}
	hotspots, err := s.db.ListHotspots(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list hotspots: %v", err))
		return
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Reports and hotspot boundaries",
			Subtitle: fmt.Sprintf("%d reports, %d hotspots", len(points), len(hotspots)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "longitude", Type: "value", Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "latitude", Type: "value", Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	reportData := make([]opts.ScatterData, 0, len(points))
	for _, p := range points {
		reportData = append(reportData, opts.ScatterData{
			Value: []interface{}{p.Point.X, p.Point.Y}, SymbolSize: 6,
		})
	}
	scatter.AddSeries("reports", reportData)

	for _, h := range hotspots {
		boundaryData := make([]opts.ScatterData, 0, len(h.Boundary))
		for _, v := range h.Boundary {
			boundaryData = append(boundaryData, opts.ScatterData{
				Value: []interface{}{v.X, v.Y}, SymbolSize: 10, Symbol: "diamond",
			})
		}
		scatter.AddSeries(fmt.Sprintf("hotspot %d (%d reports)", h.ClusterLabel, h.PointCount), boundaryData)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := scatter.Render(w); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to render map: %v", err))
	}
}
