package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skyops/copilot/internal/db"
	"skyops/copilot/internal/logging"
	"skyops/copilot/internal/notify"
	"skyops/copilot/internal/routes"
	"skyops/copilot/internal/workers"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize structured logging
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "development"
	}

	if err := logging.Init(appEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("SkyOps Co-Pilot starting up",
		"environment", appEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	// Primary store over GORM (postgres when PG_HOST is set, sqlite otherwise)
	if _, err := db.InitORM(); err != nil {
		logging.Error("Failed to initialize database", "error", err.Error())
		log.Fatalf("Failed to initialize database: %v", err)
	}
	logging.Info("Database ready")

	// Reporting connection with sqlx, optional
	if os.Getenv("PG_HOST") != "" {
		if err := db.InitPostgres(); err != nil {
			logging.Error("Failed to connect to Postgres (sqlx)", "error", err.Error())
			log.Fatalf("Failed to connect to Postgres (sqlx): %v", err)
		}
		logging.Info("Connected to Postgres (sqlx)")
	}

	upSince := time.Now()

	router, metricsReg, _ := routes.RegisterRoutes(upSince)

	// Notification delivery runs off the request path
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	workers.StartNotifyWorker(workerCtx, notify.NewFromEnv(), metricsReg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logging.Info("Server starting",
		"port", port,
		"environment", appEnv,
	)

	log.Println("Starting server on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}
