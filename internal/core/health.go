package core

import (
	"net/http"
	"time"
)

// HealthResponse is the liveness probe payload.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// HandleHealth reports process liveness. It performs no dependency checks and
// never returns anything but 200: a reachable process is a live process, and
// the mail provider's availability is its own concern.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.Config.Build.Version,
	}
	JSON(w, r, http.StatusOK, resp)
}
