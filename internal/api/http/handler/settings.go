package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
)

// SettingsStore defines goal and theme operations.
type SettingsStore interface {
	UpdateGoal(ctx context.Context, email string, calories int) (model.Goals, error)
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
	ToggleTheme(ctx context.Context) (string, error)
}

// Settings handles goal and theme endpoints.
type Settings struct {
	store  SettingsStore
	logger *logger.Logger
}

func NewSettings(store SettingsStore, logger *logger.Logger) *Settings {
	return &Settings{
		store:  store,
		logger: logger,
	}
}

type goalRequest struct {
	Calories json.Number `json:"calories"`
}

// UpdateGoal sets the daily calorie goal. Non-numeric input never reaches
// the store.
func (h *Settings) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	var in goalRequest
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "Calorie goal must be a number")
		return
	}

	calories, err := strconv.Atoi(in.Calories.String())
	if err != nil || calories <= 0 {
		errorJSON(w, http.StatusBadRequest, "Calorie goal must be a positive integer")
		return
	}

	goals, err := h.store.UpdateGoal(r.Context(), session.Email, calories)
	if err != nil {
		h.logger.Error("settings handler: goal update failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

type themeResponse struct {
	Theme string `json:"theme"`
}

// GetTheme returns the stored theme preference.
func (h *Settings) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.Theme(r.Context())
	if err != nil {
		h.logger.Error("settings handler: theme read failed", "error", err.Error())
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: theme})
}

// SetTheme stores a theme preference.
func (h *Settings) SetTheme(w http.ResponseWriter, r *http.Request) {
	var in themeResponse
	if err := decodeJSON(r, &in); err != nil {
		errorJSON(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.store.SetTheme(r.Context(), in.Theme); err != nil {
		errorJSON(w, http.StatusBadRequest, "Theme must be light or dark")
		return
	}

	writeJSON(w, http.StatusOK, themeResponse{Theme: in.Theme})
}

// ToggleTheme flips the stored preference.
func (h *Settings) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.ToggleTheme(r.Context())
	if err != nil {
		h.logger.Error("settings handler: theme toggle failed", "error", err.Error())
		handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, themeResponse{Theme: theme})
}
