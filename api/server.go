// Package api exposes the fleet engine over HTTP. All fleet reads and
// writes go through the engine's read-modify-write cycle, so every
// request may lazily advance the simulation first.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/amrops/fleetconsole/core/engine"
	"github.com/amrops/fleetconsole/core/logger"
	"github.com/amrops/fleetconsole/core/model"
)

// Server holds the handler dependencies.
type Server struct {
	engine   *engine.Engine
	validate *validator.Validate
	log      logger.Logger

	// storeMode reports the persistence mode for the health and robots
	// endpoints. Nil means the mode is unknown.
	storeMode func() string
}

// New creates a Server. storeMode may be nil.
func New(eng *engine.Engine, log logger.Logger, storeMode func() string) *Server {
	return &Server{
		engine:    eng,
		validate:  validator.New(),
		log:       log,
		storeMode: storeMode,
	}
}

// Router builds the chi router with every API route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/robots", s.handleListRobots)
		r.Get("/robots/{id}", s.handleGetRobot)
		r.Post("/robots/{id}/pause", s.handlePauseRobot)
		r.Post("/robots/{id}/resume", s.handleResumeRobot)
		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks/assign", s.handleAssignTask)
		r.Post("/tasks/{id}/reroute", s.handleRerouteTask)
		r.Post("/tasks/{id}/cancel", s.handleCancelTask)
		r.Get("/queues", s.handleListQueues)
		r.Get("/audit", s.handleListAudit)
	})
	return r
}

// roleFrom extracts the caller role from the X-Role header. Missing or
// unknown values degrade to viewer.
func roleFrom(r *http.Request) model.Role {
	return model.ParseRole(r.Header.Get("X-Role"))
}

func (s *Server) mode() string {
	if s.storeMode == nil {
		return ""
	}
	return s.storeMode()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type errorBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// writeOutcome translates an engine outcome into an HTTP response.
func writeOutcome(w http.ResponseWriter, out engine.Outcome) {
	status := out.Status
	if status == 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, out)
}

// decodeAndValidate parses the JSON body into dst and applies its
// validation tags. An empty body is allowed when dst validates empty.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return err
		}
	}
	return s.validate.Struct(dst)
}
