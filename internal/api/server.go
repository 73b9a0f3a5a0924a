// Package api provides the HTTP server for GridMesh. It exposes a REST API
// over the marketplace: network bootstrap, device registry, staking, the
// task lifecycle and verification voting.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridmesh-network/gridmesh/internal/app/consensus"
	"github.com/gridmesh-network/gridmesh/internal/app/escrow"
	"github.com/gridmesh-network/gridmesh/internal/app/lifecycle"
	"github.com/gridmesh-network/gridmesh/internal/app/registry"
	"github.com/gridmesh-network/gridmesh/internal/app/staking"
	"github.com/gridmesh-network/gridmesh/internal/health"
)

// Server is the GridMesh HTTP API server.
type Server struct {
	registry       *registry.Service
	staking        *staking.Engine
	lifecycle      *lifecycle.Machine
	consensus      *consensus.Engine
	ledger         *escrow.Ledger
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(reg *registry.Service, stk *staking.Engine, lc *lifecycle.Machine, cons *consensus.Engine, led *escrow.Ledger, hc *health.Checker) *Server {
	return &Server{
		registry:  reg,
		staking:   stk,
		lifecycle: lc,
		consensus: cons,
		ledger:    led,
		health:    hc,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": "0.1.0",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/network", s.handleInitNetwork)
		r.Get("/network", s.handleGetNetwork)

		r.Post("/devices", s.handleRegisterDevice)
		r.Get("/devices", s.handleListDevices)
		r.Get("/devices/{id}", s.handleGetDevice)
		r.Post("/devices/{id}/status", s.handleUpdateDeviceStatus)
		r.Post("/devices/{id}/stake", s.handleStake)
		r.Post("/devices/{id}/unstake", s.handleUnstake)

		r.Post("/tasks", s.handleSubmitTask)
		r.Get("/tasks", s.handleListTasks)
		r.Get("/tasks/{id}", s.handleGetTask)
		r.Post("/tasks/{id}/assign", s.handleAssignTask)
		r.Post("/tasks/{id}/complete", s.handleCompleteTask)
		r.Post("/tasks/{id}/verify", s.handleVerifyTask)

		r.Get("/ledger/{account}", s.handleLedger)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	if s.health != nil && !s.health.IsHealthy() {
		status = http.StatusServiceUnavailable
	}
	body := map[string]interface{}{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if s.health != nil {
		body["checks"] = s.health.Statuses()
	}
	writeJSON(w, status, body)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
