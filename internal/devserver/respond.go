package devserver

import (
	"encoding/json"
	"net/http"

	"github.com/csheth/docchat/internal/backend"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	serviceIndex    = "index"
	serviceLLM      = "generator"
	indexReady      = "connected"
	indexEmpty      = "empty"
	generatorPrefix = "available: "
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := backend.HealthResponse{
		Status: statusHealthy,
		Services: map[string]string{
			serviceIndex: indexReady,
			serviceLLM:   generatorPrefix + s.generator.Name(),
		},
	}
	if s.index.Len() == 0 {
		resp.Status = statusDegraded
		resp.Services[serviceIndex] = indexEmpty
	}
	respondJSON(w, http.StatusOK, resp)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, backend.ErrorBody{Detail: detail})
}
