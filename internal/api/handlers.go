package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/civic-data/hotspot.report/internal/db"
	"github.com/civic-data/hotspot.report/internal/hotspot"
	"github.com/civic-data/hotspot.report/internal/httputil"
	"github.com/civic-data/hotspot.report/internal/version"
)

// reportRequest is the request body for creating or updating a report.
// Coordinates arrive as separate latitude/longitude fields, which is
// friendlier to map UIs than nested geometry.
type reportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
}

func (rr *reportRequest) validate() error {
	if strings.TrimSpace(rr.Title) == "" {
		return errors.New("title is required")
	}
	if rr.Latitude == nil || rr.Longitude == nil {
		return errors.New("latitude and longitude are required")
	}
	if *rr.Latitude < -90 || *rr.Latitude > 90 {
		return fmt.Errorf("latitude out of range: %g", *rr.Latitude)
	}
	if *rr.Longitude < -180 || *rr.Longitude > 180 {
		return fmt.Errorf("longitude out of range: %g", *rr.Longitude)
	}
	return nil
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listReports(w, r)
	case http.MethodPost:
		s.createReport(w, r)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.db.ListReports(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list reports: %v", err))
		return
	}
	if reports == nil {
		reports = []db.Report{}
	}
	httputil.WriteJSON(w, http.StatusOK, reports)
}

func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.validate(); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	report := &db.Report{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
	}
	if err := s.db.CreateReport(r.Context(), report); err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to create report: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}

func (s *Server) handleReportByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/reports/")
	if id == "" || strings.Contains(id, "/") {
		httputil.NotFound(w, "report not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.getReport(w, r, id)
	case http.MethodPut:
		s.updateReport(w, r, id)
	case http.MethodDelete:
		s.deleteReport(w, r, id)
	default:
		httputil.MethodNotAllowed(w)
	}
}

func (s *Server) getReport(w http.ResponseWriter, r *http.Request, id string) {
	report, err := s.db.GetReport(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "report not found")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to get report: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) updateReport(w http.ResponseWriter, r *http.Request, id string) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.validate(); err != nil {
		httputil.BadRequest(w, err.Error())
		return
	}

	report := &db.Report{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
	}
	err := s.db.UpdateReport(r.Context(), report)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "report not found")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to update report: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request, id string) {
	err := s.db.DeleteReport(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		httputil.NotFound(w, "report not found")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to delete report: %v", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listHotspots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	hotspots, err := s.db.ListHotspots(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list hotspots: %v", err))
		return
	}
	if hotspots == nil {
		hotspots = []hotspot.Hotspot{}
	}
	httputil.WriteJSON(w, http.StatusOK, hotspots)
}

// generateHotspots triggers a full generation run synchronously and
// returns its summary. An already-running generation yields 409; clients
// are expected to retry after the current run finishes.
func (s *Server) generateHotspots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httputil.MethodNotAllowed(w)
		return
	}
	summary, err := s.generator.Run(r.Context())
	if errors.Is(err, hotspot.ErrRunInFlight) {
		httputil.Conflict(w, "a hotspot generation run is already in progress")
		return
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Hotspot generation failed: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) listPOIs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	if s.pois == nil {
		httputil.NotFound(w, "poi lookups are not configured")
		return
	}

	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		httputil.BadRequest(w, "lat and lon parameters are required")
		return
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		httputil.BadRequest(w, "Invalid 'lat' parameter")
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		httputil.BadRequest(w, "Invalid 'lon' parameter")
		return
	}
	radius := 500
	if rad := q.Get("radius"); rad != "" {
		radius, err = strconv.Atoi(rad)
		if err != nil {
			httputil.BadRequest(w, "Invalid 'radius' parameter")
			return
		}
	}

	pois, err := s.pois.Nearby(r.Context(), lat, lon, radius, q.Get("type"))
	if err != nil {
		httputil.WriteJSONError(w, http.StatusBadGateway, fmt.Sprintf("POI lookup failed: %v", err))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pois":  pois,
		"count": len(pois),
	})
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}
	params := s.generator.Params()
	resp := map[string]interface{}{
		"eps":     params.Eps,
		"min_pts": params.MinPts,
		"version": version.Version,
	}
	if s.RunInterval > 0 {
		resp["run_interval"] = s.RunInterval.String()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
