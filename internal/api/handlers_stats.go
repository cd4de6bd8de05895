package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleFragmentStats(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.src.(StatsReporter)
	if !ok {
		jsonError(w, "fragment stats unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"nav_path": s.cfg.NavPath,
		"stats":    rep.Stats(),
	})
}
