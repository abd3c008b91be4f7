package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/civic-data/hotspot.report/internal/geo"
	"github.com/civic-data/hotspot.report/internal/hotspot"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("db: not found")

// Report is one citizen-submitted incident report.
type Report struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Longitude   float64   `json:"longitude"`
	Latitude    float64   `json:"latitude"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (r *Report) String() string {
	return fmt.Sprintf("Report %s: %q (%s) at (%f, %f)",
		r.ID, r.Title, r.Category, r.Longitude, r.Latitude)
}

// CreateReport inserts a new report, assigning it a fresh ID.
func (db *DB) CreateReport(ctx context.Context, report *Report) error {
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	_, err := db.ExecContext(ctx,
		`INSERT INTO reports (id, title, description, category, longitude, latitude, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID, report.Title, report.Description, report.Category,
		report.Longitude, report.Latitude, report.CreatedAt, report.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetReport fetches a single report by ID.
func (db *DB) GetReport(ctx context.Context, id string) (*Report, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, title, description, category, longitude, latitude, created_at, updated_at
		 FROM reports WHERE id = ?`, id)

	var r Report
	err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Category,
		&r.Longitude, &r.Latitude, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &r, nil
}

// ListReports returns all reports, newest first.
func (db *DB) ListReports(ctx context.Context) ([]Report, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, description, category, longitude, latitude, created_at, updated_at
		 FROM reports ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		var r Report
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Category,
			&r.Longitude, &r.Latitude, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}

// UpdateReport updates the mutable fields of an existing report.
func (db *DB) UpdateReport(ctx context.Context, report *Report) error {
	report.UpdatedAt = time.Now().UTC()
	res, err := db.ExecContext(ctx,
		`UPDATE reports SET title = ?, description = ?, category = ?,
		 longitude = ?, latitude = ?, updated_at = ? WHERE id = ?`,
		report.Title, report.Description, report.Category,
		report.Longitude, report.Latitude, report.UpdatedAt, report.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReport removes a report by ID.
func (db *DB) DeleteReport(ctx context.Context, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ReportPoints returns the location of every report in a stable order
// (insertion order by created_at, then id). The generator treats the
// returned slice as an immutable snapshot for one run.
func (db *DB) ReportPoints(ctx context.Context) ([]hotspot.ReportPoint, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, longitude, latitude FROM reports ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to read report points: %w", err)
	}
	defer rows.Close()

	var points []hotspot.ReportPoint
	for rows.Next() {
		var id string
		var lon, lat float64
		if err := rows.Scan(&id, &lon, &lat); err != nil {
			return nil, err
		}
		points = append(points, hotspot.ReportPoint{
			ID:    id,
			Point: geo.Point{X: lon, Y: lat},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}
