// Command hotspot-plot renders the current reports and hotspot boundaries
// from a database to a PNG. Useful for eyeballing clustering parameters
// offline without standing up the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/civic-data/hotspot.report/internal/db"
	"github.com/civic-data/hotspot.report/internal/security"
)

var (
	dbFile  = flag.String("db", "reports.db", "Path to the SQLite database file")
	outFile = flag.String("out", "hotspots.png", "Output PNG file")
)

func main() {
	flag.Parse()

	if err := security.ValidateExportPath(*outFile); err != nil {
		log.Fatalf("Invalid output path: %v", err)
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	ctx := context.Background()
	points, err := database.ReportPoints(ctx)
	if err != nil {
		log.Fatalf("Failed to read report points: %v", err)
	}
	hotspots, err := database.ListHotspots(ctx)
	if err != nil {
		log.Fatalf("Failed to list hotspots: %v", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%d reports, %d hotspots", len(points), len(hotspots))
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	reportPts := make(plotter.XYs, 0, len(points))
	for _, rp := range points {
		reportPts = append(reportPts, plotter.XY{X: rp.Point.X, Y: rp.Point.Y})
	}
	if len(reportPts) > 0 {
		scatter, err := plotter.NewScatter(reportPts)
		if err != nil {
			log.Fatalf("Failed to build scatter: %v", err)
		}
		scatter.GlyphStyle.Color = color.RGBA{R: 60, G: 60, B: 60, A: 255}
		scatter.GlyphStyle.Radius = vg.Points(2)
		p.Add(scatter)
		p.Legend.Add("reports", scatter)
	}

	colors := generateColors(len(hotspots))
	for i, h := range hotspots {
		ringPts := make(plotter.XYs, 0, len(h.Boundary))
		for _, v := range h.Boundary {
			ringPts = append(ringPts, plotter.XY{X: v.X, Y: v.Y})
		}
		line, err := plotter.NewLine(ringPts)
		if err != nil {
			log.Fatalf("Failed to build boundary line: %v", err)
		}
		line.Color = colors[i]
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("hotspot %d (%d)", h.ClusterLabel, h.PointCount), line)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 8*vg.Inch, *outFile); err != nil {
		log.Fatalf("Failed to save plot: %v", err)
	}
	log.Printf("Wrote %s", *outFile)
}

// generateColors creates a palette of distinct colors for hotspot rings
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
