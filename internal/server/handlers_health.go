package server

import (
	"net/http"
)

// handleHealthz reports process and database health.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	db := "ok"
	status := http.StatusOK
	if err := s.pool.Ping(r.Context()); err != nil {
		db = "unreachable"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{
		"status": "ok",
		"db":     db,
	})
}
