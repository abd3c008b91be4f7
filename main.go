package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/civic-data/hotspot.report/internal/api"
	"github.com/civic-data/hotspot.report/internal/config"
	"github.com/civic-data/hotspot.report/internal/db"
	"github.com/civic-data/hotspot.report/internal/hotspot"
	"github.com/civic-data/hotspot.report/internal/httputil"
	"github.com/civic-data/hotspot.report/internal/poi"
	"github.com/civic-data/hotspot.report/internal/version"
)

var (
	listen        = flag.String("listen", ":8080", "Listen address")
	dbFile        = flag.String("db", "reports.db", "Path to the SQLite database file")
	configFile    = flag.String("config", "", "Path to a JSON config file (optional)")
	interval      = flag.Duration("interval", 0, "Worker interval override (0 uses the config value)")
	disableWorker = flag.Bool("disable-worker", false, "Disable the periodic hotspot generation worker")
	migrationsDir = flag.String("migrations", "migrations", "Path to the migrations directory")
)

func main() {
	flag.Parse()

	// "hotspot-report [-db path] migrate <action>" manages the schema and exits
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		db.RunMigrateCommand(args[1:], *dbFile, *migrationsDir)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	log.Printf("hotspot-report %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	cfg := &config.HotspotConfig{}
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		log.Printf("Loaded config from %s", *configFile)
	}

	database, err := db.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	params := hotspot.Params{Eps: cfg.GetEps(), MinPts: cfg.GetMinPts()}
	generator := hotspot.NewGenerator(database, params)
	pois := poi.NewClient(
		httputil.NewStandardClient(&http.Client{Timeout: 30 * time.Second}),
		cfg.GetOverpassURL(),
	)

	runInterval := cfg.GetRunInterval()
	if *interval > 0 {
		runInterval = *interval
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// periodic regeneration keeps hotspots fresh as reports come in
	if !*disableWorker {
		worker := &hotspot.Worker{
			Generator: generator,
			Interval:  runInterval,
		}
		worker.Start(ctx)
		defer worker.Stop()
		log.Printf("Hotspot worker running every %s (eps=%g, min_pts=%d)",
			runInterval, params.Eps, params.MinPts)
	}

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// admin debugging routes (accessible only in dev mode or over Tailscale)
		database.AttachAdminRoutes(mux)

		apiServer := api.NewServer(database, generator, pois)
		apiServer.RunInterval = runInterval
		mux.Handle("/api/", http.StripPrefix("/api", apiServer.ServeMux()))

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("Listening on %s", *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
