package internal

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/Coobeliues/vector-search/internal/history"
	"github.com/Coobeliues/vector-search/pkg/logger"
)

// Handler returns the HTTP surface: POST /archive triggers packing runs,
// GET /history lists recorded runs, GET /healthz reports liveness.
func Handler(svc *Service) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/archive", archiveHandler(svc))
	mux.HandleFunc("/history", historyHandler(svc))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

func archiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Paths      []string `json:"paths"`
			OutputName string   `json:"output_name"`
			Excludes   []string `json:"excludes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		jobID := uuid.NewString()
		logger.Info("Job %s: archiving %d path(s)", jobID, len(req.Paths))
		if err := svc.Run(r.Context(), RunArgs{
			Paths:      req.Paths,
			OutputName: req.OutputName,
			Excludes:   req.Excludes,
		}); err != nil {
			logger.Error("Job %s: %v", jobID, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"job_id": jobID, "status": "ok"}); err != nil {
			logger.Error("Job %s: error encoding response: %v", jobID, err)
		}
	}
}

func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		limit := 20
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}
		runs, err := svc.History(r.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []history.Run{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(runs); err != nil {
			logger.Error("Error encoding history response: %v", err)
		}
	}
}

// Serve blocks serving the HTTP surface on addr.
func Serve(svc *Service, addr string) error {
	logger.Info("Listening on %s", addr)
	return http.ListenAndServe(addr, Handler(svc))
}
