package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amrops/fleetconsole/core/engine"
	"github.com/amrops/fleetconsole/core/model"
)

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	robotID := r.URL.Query().Get("assignedRobotId")

	var tasks []model.Task
	err := s.engine.WithFleet(r.Context(), func(data *model.FleetData) error {
		all := engine.ListTasks(data)
		tasks = all[:0]
		for _, t := range all {
			if status != "" && string(t.Status) != status {
				continue
			}
			if robotID != "" && t.AssignedRobotID != robotID {
				continue
			}
			tasks = append(tasks, t)
		}
		return nil
	})
	if err != nil {
		s.log.Errorf("list tasks: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}

type assignRequest struct {
	Type            string `json:"type" validate:"required,min=2,max=60"`
	Priority        int    `json:"priority" validate:"required,min=1,max=5"`
	DestinationZone string `json:"destinationZone" validate:"required,min=2,max=40"`
	Notes           string `json:"notes" validate:"max=240"`
	AssignedRobotID string `json:"assignedRobotId" validate:"omitempty,min=3,max=40"`
}

func (s *Server) handleAssignTask(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	out, err := s.engine.AssignTask(r.Context(), engine.AssignTaskInput{
		Role:            roleFrom(r),
		Type:            req.Type,
		Priority:        req.Priority,
		DestinationZone: req.DestinationZone,
		Notes:           req.Notes,
		AssignedRobotID: req.AssignedRobotID,
	})
	if err != nil {
		s.log.Errorf("assign task: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeOutcome(w, out)
}

type rerouteRequest struct {
	TargetRobotID string `json:"targetRobotId" validate:"required,min=3,max=40"`
}

func (s *Server) handleRerouteTask(w http.ResponseWriter, r *http.Request) {
	var req rerouteRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	out, err := s.engine.RerouteTask(r.Context(), roleFrom(r), chi.URLParam(r, "id"), req.TargetRobotID)
	if err != nil {
		s.log.Errorf("reroute task: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeOutcome(w, out)
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"max=120"`
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	out, err := s.engine.CancelTask(r.Context(), roleFrom(r), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		s.log.Errorf("cancel task: %v", err)
		writeError(w, http.StatusInternalServerError, "fleet state unavailable")
		return
	}
	writeOutcome(w, out)
}
