package api

import (
	"net/http"
	"strconv"

	"github.com/amrops/fleetconsole/core/engine"
	"github.com/amrops/fleetconsole/core/model"
)

func (s *Server) handleListAudit(w http.ResponseWriter, r *http.Request) {
	q := engine.AuditQuery{
		RobotID: r.URL.Query().Get("robot_id"),
		Action:  r.URL.Query().Get("action"),
		Result:  model.ResultStatus(r.URL.Query().Get("result")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		q.Limit = limit
	}

	var events []model.AuditEvent
	err := s.engine.WithFleet(r.Context(), func(data *model.FleetData) error {
		events = engine.ListAudit(data, q)
		return nil
	})
	if err != nil {
		s.log.Errorf("list audit: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"storeMode": s.mode(),
	})
}
