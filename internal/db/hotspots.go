package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/civic-data/hotspot.report/internal/geo"
	"github.com/civic-data/hotspot.report/internal/hotspot"
)

// ReplaceHotspots swaps the stored hotspot set for the given one inside a
// single transaction. Readers either see the complete old set or the
// complete new set, never a mix; on any error nothing is committed.
func (db *DB) ReplaceHotspots(ctx context.Context, hotspots []hotspot.Hotspot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin hotspot replacement: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hotspots`); err != nil {
		return fmt.Errorf("failed to clear hotspots: %w", err)
	}

	now := time.Now().UTC()
	for _, h := range hotspots {
		boundary, err := json.Marshal(h.Boundary)
		if err != nil {
			return fmt.Errorf("failed to encode hotspot boundary: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO hotspots (cluster_label, boundary, point_count, spread_mean, spread_std_dev, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			h.ClusterLabel, string(boundary), h.PointCount,
			h.SpreadMean, h.SpreadStdDev, now,
		); err != nil {
			return fmt.Errorf("failed to insert hotspot %d: %w", h.ClusterLabel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit hotspot replacement: %w", err)
	}
	return nil
}

// ListHotspots returns the current hotspot set ordered by cluster label.
func (db *DB) ListHotspots(ctx context.Context) ([]hotspot.Hotspot, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT cluster_label, boundary, point_count, spread_mean, spread_std_dev, created_at
		 FROM hotspots ORDER BY cluster_label ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotspots: %w", err)
	}
	defer rows.Close()

	var hotspots []hotspot.Hotspot
	for rows.Next() {
		var h hotspot.Hotspot
		var boundary string
		if err := rows.Scan(&h.ClusterLabel, &boundary, &h.PointCount,
			&h.SpreadMean, &h.SpreadStdDev, &h.CreatedAt); err != nil {
			return nil, err
		}
		var ring geo.Ring
		if err := json.Unmarshal([]byte(boundary), &ring); err != nil {
			return nil, fmt.Errorf("failed to decode hotspot boundary: %w", err)
		}
		h.Boundary = ring
		hotspots = append(hotspots, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return hotspots, nil
}

// Compile-time check that *DB satisfies the generator's storage contract.
var _ hotspot.Store = (*DB)(nil)
