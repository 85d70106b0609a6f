package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/ridopark/jonbu-wfo/internal/config"
	"github.com/ridopark/jonbu-wfo/internal/logger"
	"github.com/ridopark/jonbu-wfo/internal/metrics"
)

var serveReportDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the most recent run's JSON report and Prometheus metrics over HTTP",
	Long: `serve exposes a minimal results-browser HTTP surface: the latest
report written by "wfo run" at GET /api/v1/reports/latest, and Prometheus
metrics at GET /metrics. It is a thin read-only companion to the batch run command,
not a live trading API.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveReportDir, "report-dir", "./reports", "directory holding the JSON reports written by \"wfo run\"")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.Environment)
	log := logger.NewServiceLogger("wfo", "serve")

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/reports/latest", latestReportHandler(serveReportDir)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/health", healthHandler).Methods(http.MethodGet)

	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	log.Info().Str("addr", addr).Str("report_dir", serveReportDir).Msg("wfo serve listening")
	return srv.ListenAndServe()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	correlationID := uuid.New().String()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Correlation-ID", correlationID)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// latestReportHandler serves the most recently modified *.json file under
// dir, matching the document report.Build produces.
func latestReportHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			http.Error(w, fmt.Sprintf("report directory unavailable: %v", err), http.StatusServiceUnavailable)
			return
		}

		var latestPath string
		var latestMod time.Time
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
				continue
			}
			info, err := e.Info()
			if err != nil {
				continue
			}
			if info.ModTime().After(latestMod) {
				latestMod = info.ModTime()
				latestPath = filepath.Join(dir, e.Name())
			}
		}

		if latestPath == "" {
			http.Error(w, "no reports found", http.StatusNotFound)
			return
		}

		data, err := os.ReadFile(latestPath)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to read report: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}
