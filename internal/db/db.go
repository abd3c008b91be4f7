package db

import (
	"compress/gzip"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tailscale/tailsql/server/tailsql"
	_ "modernc.org/sqlite"
	"tailscale.com/tsweb"
)

type DB struct {
	*sql.DB
}

// OpenDB opens the sqlite database at path without touching the schema.
// Used by the migrate subcommand, where golang-migrate owns the schema.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// modernc sqlite gives every pooled connection its own ":memory:"
	// database, and file databases lock under concurrent writers.
	db.SetMaxOpenConns(1)
	return &DB{db}, nil
}

// NewDB opens (or creates) the sqlite database at path and bootstraps the
// base schema. Use ":memory:" for tests. Schema changes beyond the base
// tables are managed by golang-migrate (see migrate.go).
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id                TEXT PRIMARY KEY,
			title             TEXT NOT NULL,
			description       TEXT NOT NULL DEFAULT '',
			category          TEXT NOT NULL DEFAULT '',
			longitude         DOUBLE NOT NULL,
			latitude          DOUBLE NOT NULL,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS hotspots (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			cluster_label     BIGINT NOT NULL,
			boundary          TEXT NOT NULL,
			point_count       BIGINT NOT NULL,
			spread_mean       DOUBLE NOT NULL DEFAULT 0,
			spread_std_dev    DOUBLE NOT NULL DEFAULT 0,
			created_at        TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS hotspots_cluster_label ON hotspots (cluster_label);
		CREATE INDEX IF NOT EXISTS reports_created_at ON reports (created_at);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// AttachAdminRoutes mounts the live SQL debugger and backup download on the
// debug mux. These routes carry no auth of their own; deployments expose
// them only in dev mode or over Tailscale.
func (db *DB) AttachAdminRoutes(mux *http.ServeMux) {
	debug := tsweb.Debugger(mux)
	tsql, err := tailsql.NewServer(tailsql.Options{
		RoutePrefix: "/debug/tailsql/",
	})
	if err != nil {
		log.Fatalf("failed to create tailsql server: %v", err)
	}
	tsql.SetDB("sqlite://reports.db", db.DB, &tailsql.DBOptions{
		Label: "Reports DB",
	})

	debug.Handle("tailsql/", "SQL live debugging", tsql.NewMux())

	debug.Handle("backup", "Create and download a backup of the database now", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		unixTime := time.Now().Unix()
		backupPath := fmt.Sprintf("backup-%d.db", unixTime)
		if _, err := db.DB.Exec("VACUUM INTO ?", backupPath); err != nil {
			http.Error(w, fmt.Sprintf("Failed to create backup: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", backupPath))
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Encoding", "gzip")

		backupFile, err := os.Open(backupPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open backup file: %v", err), http.StatusInternalServerError)
			return
		}

		defer func() {
			backupFile.Close()
			if err := os.Remove(backupPath); err != nil {
				log.Printf("Failed to remove backup file: %v", err)
			}
		}()

		gzipWriter := gzip.NewWriter(w)
		defer gzipWriter.Close()

		if _, err := io.Copy(gzipWriter, backupFile); err != nil {
			http.Error(w, fmt.Sprintf("Failed to write backup file: %v", err), http.StatusInternalServerError)
			return
		}
	}))
}
