package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stridetrack/apiserver/internal/services"
	"github.com/stridetrack/apiserver/internal/store"
	"github.com/stridetrack/apiserver/types"
)

// GoalHandler provides HTTP handlers for goals, progress and analytics.
type GoalHandler struct {
	goalService *services.GoalService
}

// NewGoalHandler constructs a handler with the provided service.
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// GoalRouter registers goal routes on the given router. All routes assume
// the auth middleware already ran; handlers read the identity from context.
func GoalRouter(r chi.Router, goalService *services.GoalService) {
	handler := NewGoalHandler(goalService)

	r.Post("/goals", handler.CreateGoal)
	r.Get("/goals", handler.ListGoals)
	r.Post("/goals/{goalID}/progress", handler.LogProgress)
	r.Get("/goals/{goalID}/progress", handler.ProgressHistory)
	r.Get("/analytics", handler.Analytics)
}

// CreateGoal inserts a goal with a zero current value for the caller.
func (h *GoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.GoalName = strings.TrimSpace(req.GoalName)
	req.Category = strings.TrimSpace(req.Category)
	if req.GoalName == "" || req.Category == "" || req.Deadline == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	deadline, err := types.ParseDate(req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid deadline")
		return
	}

	goal, err := h.goalService.Create(r.Context(), types.Goal{
		UserID:      identity.UserID,
		Name:        req.GoalName,
		Category:    req.Category,
		TargetValue: req.TargetValue,
		Deadline:    deadline,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidTarget) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create goal")
		return
	}

	writeJSON(w, http.StatusCreated, CreateGoalResponse{
		Success: true,
		GoalID:  goal.ID,
		Message: "Goal created successfully",
	})
}

// LogProgress appends a dated increment to the caller's goal. A goal id that
// belongs to someone else fails exactly like one that does not exist.
func (h *GoalHandler) LogProgress(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	goalID, err := parseGoalID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req LogProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	progress, current, err := h.goalService.LogProgress(r.Context(), identity.UserID, goalID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidIncrement):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "goal not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to log progress")
		}
		return
	}

	writeJSON(w, http.StatusOK, LogProgressResponse{
		Success:      true,
		Progress:     progress,
		CurrentValue: current,
	})
}

// ProgressHistory returns the progress ledger for the caller's goal, in the
// order entries were logged. Foreign goal ids fail exactly like missing ones.
func (h *GoalHandler) ProgressHistory(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	goalID, err := parseGoalID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.goalService.History(r.Context(), identity.UserID, goalID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "goal not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load progress")
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// ListGoals returns the caller's goals, soonest deadline first, annotated
// with progress and days remaining.
func (h *GoalHandler) ListGoals(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	goals, err := h.goalService.List(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list goals")
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

// Analytics returns the aggregate view of the caller's goals.
func (h *GoalHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	analytics, err := h.goalService.Analytics(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load analytics")
		return
	}

	writeJSON(w, http.StatusOK, analytics)
}

type CreateGoalRequest struct {
	GoalName    string  `json:"goalName"`
	Category    string  `json:"category"`
	TargetValue float64 `json:"targetValue"`
	Deadline    string  `json:"deadline"`
}

type CreateGoalResponse struct {
	Success bool   `json:"success"`
	GoalID  int    `json:"goalId"`
	Message string `json:"message"`
}

type LogProgressRequest struct {
	Value float64 `json:"value"`
}

type LogProgressResponse struct {
	Success      bool    `json:"success"`
	Progress     float64 `json:"progress"`
	CurrentValue float64 `json:"currentValue"`
}

func parseGoalID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "goalID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid goal id")
	}
	return id, nil
}
