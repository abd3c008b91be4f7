// Command seed-reports fills a database with sample reports around Dublin
// for local development: 10 areas, 5 reports each, scattered within ~200m
// of the area centre so that hotspot generation has something to find.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"github.com/civic-data/hotspot.report/internal/db"
)

type area struct {
	name     string
	lat, lon float64
}

var areas = []area{
	// City centre
	{"O'Connell Street", 53.3498, -6.2603},
	{"Temple Bar", 53.3438, -6.2672},
	{"Grafton Street", 53.3456, -6.2594},
	{"Dublin Castle", 53.3396, -6.2669},
	{"Parnell Square", 53.3522, -6.2608},

	// North Dublin
	{"Drumcondra", 53.3654, -6.2603},
	{"Glasnevin", 53.3712, -6.2498},
	{"Fairview", 53.3589, -6.2387},

	// South Dublin
	{"Rathmines", 53.3312, -6.2487},
	{"Rathgar", 53.3245, -6.2598},
}

type template struct {
	title       string
	description string
	category    string
}

var templates = []template{
	{"Graffiti", "Graffiti in the lane behind %s", "Graffiti"},
	{"Pothole", "Large pothole on the road near %s", "Potholes"},
	{"Broken Streetlight", "Streetlight not working on the corner of %s", "Lighting"},
	{"Overflowing Bin", "Public bin overflowing near %s", "Waste"},
	{"Damaged Footpath", "Cracked footpath causing trip hazard at %s", "Infrastructure"},
}

// offsets spread each area's reports within roughly 200m of its centre
var offsets = [][2]float64{
	{0.000, 0.000},
	{0.0015, 0.0015},
	{-0.0015, 0.0015},
	{0.0015, -0.0015},
	{-0.0015, -0.0015},
}

var (
	dbFile = flag.String("db", "reports.db", "Path to the SQLite database file")
	seed   = flag.Int64("seed", 0, "Random seed for coordinate jitter (0 uses a random seed)")
)

func main() {
	flag.Parse()

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	rng := rand.New(rand.NewSource(*seed))
	if *seed == 0 {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}

	ctx := context.Background()
	created := 0
	for _, a := range areas {
		for i, tmpl := range templates {
			jitter := func() float64 { return (rng.Float64() - 0.5) * 0.001 }
			report := &db.Report{
				Title:       tmpl.title,
				Description: fmt.Sprintf(tmpl.description, a.name),
				Category:    tmpl.category,
				Latitude:    a.lat + offsets[i][0] + jitter(),
				Longitude:   a.lon + offsets[i][1] + jitter(),
			}
			if err := database.CreateReport(ctx, report); err != nil {
				log.Fatalf("Failed to create report at %s: %v", a.name, err)
			}
			created++
			log.Printf("Created: %s at %s", tmpl.title, a.name)
		}
	}

	log.Printf("Successfully created %d reports", created)
}
