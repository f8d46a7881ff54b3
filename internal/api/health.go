package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"skyops/copilot/internal/models/dtos"
)

// HealthCheckHandler handles GET /healthCheck. The sqlx handle is nil
// when the reporting database is not configured; that still counts as
// healthy.
func HealthCheckHandler(db *sqlx.DB, upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbStatus := "not configured"
		if db != nil {
			dbStatus = "ok"
			if err := db.Ping(); err != nil {
				dbStatus = "down: " + err.Error()
			}
		}

		resp := dtos.HealthResponse{
			Database: dbStatus,
			UpSince:  upSince.UTC().Format(time.RFC3339),
			Uptime:   time.Since(upSince).Round(time.Second).String(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
