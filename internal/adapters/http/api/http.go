// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mergington/activities/internal/adapters/repository"
	"github.com/mergington/activities/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// ListActivities returns every activity in registry order.
	ListActivities(ctx context.Context) types.Catalog

	// Signup and Unregister return the confirmation message on success.
	Signup(ctx context.Context, activity, email string) (string, error)
	Unregister(ctx context.Context, activity, email string) (string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		activitiesHandler: NewActivitiesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux. Method-qualified patterns make the
// mux answer 405 for any other method on a known path.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("POST /activities/{activity_name}/signup", MetricsMiddleware(s.activitiesHandler.HandleSignup, "signup"))
	mux.HandleFunc("DELETE /activities/{activity_name}/signup", MetricsMiddleware(s.activitiesHandler.HandleUnregister, "unregister"))
}

// Fixed client-facing details. Internal error text never reaches the body.
const (
	detailActivityNotFound    = "Activity not found"
	detailParticipantNotFound = "Participant not found in this activity"
	detailAlreadySignedUp     = "Student is already signed up"
	detailActivityFull        = "Activity is full"
	detailMissingEmail        = "email query parameter is required"
	detailInternal            = "Internal server error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, types.Detail{Detail: detail})
}

// statusFor maps a registry or API error to its HTTP status and detail.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return http.StatusNotFound, detailActivityNotFound
	case errors.Is(err, repository.ErrParticipantNotFound):
		return http.StatusNotFound, detailParticipantNotFound
	case errors.Is(err, repository.ErrAlreadySignedUp):
		return http.StatusBadRequest, detailAlreadySignedUp
	case errors.Is(err, repository.ErrActivityFull):
		return http.StatusBadRequest, detailActivityFull
	case errors.Is(err, ErrMissingEmail):
		return http.StatusUnprocessableEntity, detailMissingEmail
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, detailInternal
	}
}
