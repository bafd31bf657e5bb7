package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
)

// StatsService derives totals from logged entries.
type StatsService interface {
	Daily(ctx context.Context, email, date string) (model.NutritionTotals, error)
	Weekly(ctx context.Context, email string) ([]model.DayCalories, error)
}

// Stats handles aggregate endpoints.
type Stats struct {
	stats  StatsService
	logger *logger.Logger
	now    func() time.Time
}

func NewStats(stats StatsService, logger *logger.Logger) *Stats {
	return &Stats{
		stats:  stats,
		logger: logger,
		now:    time.Now,
	}
}

// Daily returns nutrition totals for the date query parameter, defaulting
// to today.
func (h *Stats) Daily(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	date := r.URL.Query().Get("date")
	if date == "" {
		date = h.now().Format(model.DateLayout)
	} else if _, err := time.Parse(model.DateLayout, date); err != nil {
		errorJSON(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	totals, err := h.stats.Daily(r.Context(), session.Email, date)
	if err != nil {
		h.logger.Error("stats handler: daily failed", "date", date, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, totals)
}

// Weekly returns the seven-day calorie series ending today.
func (h *Stats) Weekly(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	series, err := h.stats.Weekly(r.Context(), session.Email)
	if err != nil {
		h.logger.Error("stats handler: weekly failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, series)
}
