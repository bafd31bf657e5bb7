package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/logger"
	"github.com/mkravets/nutrilog-server/internal/model"
)

// maxPhotoSize bounds the multipart form held in memory.
const maxPhotoSize = 10 << 20

// FoodStore defines the log operations the food endpoints need.
type FoodStore interface {
	GetLog(ctx context.Context, email, date string) (model.DayLog, error)
	AddFood(ctx context.Context, email, date string, entry model.FoodEntry) (model.DayLog, error)
}

// Recognizer estimates nutrition from a photo. It degrades to a
// placeholder instead of failing.
type Recognizer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) model.RecognitionResult
}

// Food handles day-log and photo-logging endpoints.
type Food struct {
	store      FoodStore
	recognizer Recognizer
	images     model.ImageStorage
	logger     *logger.Logger
	now        func() time.Time
}

// NewFood creates the handler. images may be nil; photos are then kept
// inline as data URIs.
func NewFood(store FoodStore, recognizer Recognizer, images model.ImageStorage, logger *logger.Logger) *Food {
	return &Food{
		store:      store,
		recognizer: recognizer,
		images:     images,
		logger:     logger,
		now:        time.Now,
	}
}

// GetLog returns the day log for the date in the path.
func (h *Food) GetLog(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	date := chi.URLParam(r, "date")
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		errorJSON(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
		return
	}

	log, err := h.store.GetLog(r.Context(), session.Email, date)
	if err != nil {
		h.logger.Error("food handler: failed to get log", "date", date, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, log)
}

type addFoodResponse struct {
	Detected model.RecognitionResult `json:"detected"`
	Date     string                  `json:"date"`
	Log      model.DayLog            `json:"log"`
}

// AddFood accepts a multipart photo, runs recognition and appends the
// resulting entry to today's log.
func (h *Food) AddFood(w http.ResponseWriter, r *http.Request) {
	session, _ := middleware.SessionFromContext(r.Context())

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		errorJSON(w, http.StatusBadRequest, "Expected multipart form with a photo")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "Photo file is required")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("food handler: failed to read photo", "error", err.Error())
		errorJSON(w, http.StatusBadRequest, "Failed to read photo")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	detected := h.recognizer.Analyze(r.Context(), image, mimeType)

	entry := model.FoodEntry{
		Name:     detected.Name,
		Calories: detected.Calories,
		Protein:  detected.Protein,
		Carbs:    detected.Carbs,
		Fats:     detected.Fats,
		Image:    h.storePhoto(r.Context(), image, mimeType),
	}

	date := h.now().Format(model.DateLayout)
	log, err := h.store.AddFood(r.Context(), session.Email, date, entry)
	if err != nil {
		h.logger.Error("food handler: failed to add food", "date", date, "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, addFoodResponse{
		Detected: detected,
		Date:     date,
		Log:      log,
	})
}

// storePhoto uploads the photo when object storage is configured and
// returns its key; otherwise the photo is inlined as a data URI.
func (h *Food) storePhoto(ctx context.Context, image []byte, mimeType string) string {
	if h.images == nil {
		return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	}

	key := fmt.Sprintf("foods/%s", uuid.NewString())
	if err := h.images.Upload(ctx, key, mimeType, bytes.NewReader(image)); err != nil {
		h.logger.Warn("food handler: photo upload failed, inlining", "error", err.Error())
		return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	}
	return key
}
