package api

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/civic-data/hotspot.report/internal/db"
	"github.com/civic-data/hotspot.report/internal/hotspot"
	"github.com/civic-data/hotspot.report/internal/poi"
)

// ANSI escape codes for request logging
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server exposes the report and hotspot API over HTTP. It holds no
// clustering logic of its own; generation is delegated to the hotspot
// generator.
type Server struct {
	db        *db.DB
	generator *hotspot.Generator
	pois      *poi.Client

	// RunInterval, when set, is reported by the config endpoint.
	RunInterval time.Duration
}

// NewServer creates an API server. The poi client may be nil to disable
// the /pois endpoint.
func NewServer(database *db.DB, generator *hotspot.Generator, pois *poi.Client) *Server {
	return &Server{
		db:        database,
		generator: generator,
		pois:      pois,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

// ServeMux returns the API routes. Callers mount it under /api.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/reports", s.handleReports)
	mux.HandleFunc("/reports/", s.handleReportByID)
	mux.HandleFunc("/hotspots", s.listHotspots)
	mux.HandleFunc("/hotspots/generate", s.generateHotspots)
	mux.HandleFunc("/hotspots/map", s.showHotspotMap)
	mux.HandleFunc("/pois", s.listPOIs)
	mux.HandleFunc("/config", s.showConfig)
	return mux
}
