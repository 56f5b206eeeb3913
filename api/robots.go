package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amrops/fleetconsole/core/engine"
	"github.com/amrops/fleetconsole/core/model"
)

type robotsResponse struct {
	Robots    []engine.RobotWithRaw `json:"robots"`
	TickAt    int64                 `json:"tickAt"`
	StoreMode string                `json:"storeMode,omitempty"`
}

func (s *Server) handleListRobots(w http.ResponseWriter, r *http.Request) {
	vendor := r.URL.Query().Get("vendor")
	status := r.URL.Query().Get("status")
	zone := r.URL.Query().Get("zone")

	var resp robotsResponse
	err := s.engine.WithFleet(r.Context(), func(data *model.FleetData) error {
		robots := engine.ListRobots(data)
		filtered := robots[:0]
		for _, rb := range robots {
			if vendor != "" && string(rb.Vendor) != vendor {
				continue
			}
			if status != "" && string(rb.Status) != status {
				continue
			}
			if zone != "" && rb.Zone != zone {
				continue
			}
			filtered = append(filtered, rb)
		}
		resp.Robots = filtered
		resp.TickAt = data.LastTick
		return nil
	})
	if err != nil {
		s.log.Errorf("list robots: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	resp.StoreMode = s.mode()
	writeJSON(w, http.StatusOK, resp)
}

type robotResponse struct {
	engine.RobotWithRaw
	RecentCommands []model.Command `json:"recentCommands"`
}

func (s *Server) handleGetRobot(w http.ResponseWriter, r *http.Request) {
	robotID := chi.URLParam(r, "id")

	var resp robotResponse
	found := false
	err := s.engine.WithFleet(r.Context(), func(data *model.FleetData) error {
		robot, ok := engine.FindRobot(data, robotID)
		if !ok {
			return nil
		}
		found = true
		resp.RobotWithRaw = robot
		resp.RecentCommands = engine.RecentCommands(data, robotID, 0)
		return nil
	})
	if err != nil {
		s.log.Errorf("get robot: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Robot not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type pauseRequest struct {
	Reason string `json:"reason" validate:"max=120"`
}

func (s *Server) handlePauseRobot(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	out, err := s.engine.PauseRobot(r.Context(), roleFrom(r), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		s.log.Errorf("pause robot: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeOutcome(w, out)
}

func (s *Server) handleResumeRobot(w http.ResponseWriter, r *http.Request) {
	out, err := s.engine.ResumeRobot(r.Context(), roleFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.log.Errorf("resume robot: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeOutcome(w, out)
}

func (s *Server) handleListQueues(w http.ResponseWriter, r *http.Request) {
	var snaps []model.QueueSnapshot
	err := s.engine.WithFleet(r.Context(), func(data *model.FleetData) error {
		snaps = engine.QueueSnapshots(data)
		return nil
	})
	if err != nil {
		s.log.Errorf("list queues: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"queues": snaps})
}
