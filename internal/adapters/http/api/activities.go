package api

import (
	"net/http"

	"github.com/mergington/activities/internal/domain/types"
	"github.com/mergington/activities/pkg/logger"
)

const pathActivityName = "activity_name"

// ActivitiesHandler serves the activity catalog and roster mutations.
type ActivitiesHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps Dependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps, logger: logger.Get().Named("api")}
}

// HandleList handles GET /activities.
func (h *ActivitiesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.ListActivities(r.Context()))
}

// HandleSignup handles POST /activities/{activity_name}/signup?email=.
func (h *ActivitiesHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	const op = "api.signup"
	activity, email, err := rosterParams(op, r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	msg, err := h.deps.Signup(r.Context(), activity, email)
	if err != nil {
		h.fail(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.Message{Message: msg})
}

// HandleUnregister handles DELETE /activities/{activity_name}/signup?email=.
func (h *ActivitiesHandler) HandleUnregister(w http.ResponseWriter, r *http.Request) {
	const op = "api.unregister"
	activity, email, err := rosterParams(op, r)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	msg, err := h.deps.Unregister(r.Context(), activity, email)
	if err != nil {
		h.fail(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.Message{Message: msg})
}

// rosterParams reads the decoded activity name from the path and the email
// from the query. The email is used as given; only presence is checked.
func rosterParams(op string, r *http.Request) (activity, email string, err error) {
	activity = r.PathValue(pathActivityName)
	query := r.URL.Query()
	if !query.Has("email") {
		return "", "", NewKind(op, ErrMissingEmail)
	}
	email = query.Get("email")
	return activity, email, nil
}

func (h *ActivitiesHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, detail := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
	}
	writeDetail(w, status, detail)
}
