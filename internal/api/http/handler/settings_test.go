package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/model"
	"github.com/mkravets/nutrilog-server/internal/testutil"
)

type fakeSettingsStore struct {
	goalCalls int
	gotGoal   int
	theme     string
}

func (f *fakeSettingsStore) UpdateGoal(ctx context.Context, email string, calories int) (model.Goals, error) {
	f.goalCalls++
	f.gotGoal = calories
	goals := model.DefaultGoals()
	goals.Calories = calories
	return goals, nil
}

func (f *fakeSettingsStore) Theme(ctx context.Context) (string, error) {
	return f.theme, nil
}

func (f *fakeSettingsStore) SetTheme(ctx context.Context, theme string) error {
	if theme != "light" && theme != "dark" {
		return assert.AnError
	}
	f.theme = theme
	return nil
}

func (f *fakeSettingsStore) ToggleTheme(ctx context.Context) (string, error) {
	if f.theme == "dark" {
		f.theme = "light"
	} else {
		f.theme = "dark"
	}
	return f.theme, nil
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	session := model.SessionRecord{Email: "a@b.c", Name: "a"}
	return req.WithContext(middleware.SetSessionToContext(req.Context(), session))
}

func TestSettings_UpdateGoal(t *testing.T) {
	store := &fakeSettingsStore{}
	h := NewSettings(store, testutil.MakeNoopLogger())

	req := authedRequest(http.MethodPut, "/api/goal", `{"calories":1800}`)
	rec := httptest.NewRecorder()

	h.UpdateGoal(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1800, store.gotGoal)
	assert.Contains(t, rec.Body.String(), `"calories":1800`)
}

func TestSettings_UpdateGoal_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "non-numeric", body: `{"calories":"plenty"}`},
		{name: "fractional", body: `{"calories":1800.5}`},
		{name: "zero", body: `{"calories":0}`},
		{name: "negative", body: `{"calories":-100}`},
		{name: "missing", body: `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeSettingsStore{}
			h := NewSettings(store, testutil.MakeNoopLogger())

			req := authedRequest(http.MethodPut, "/api/goal", tt.body)
			rec := httptest.NewRecorder()

			h.UpdateGoal(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			// Invalid input never reaches the store.
			assert.Zero(t, store.goalCalls)
		})
	}
}

func TestSettings_ThemeEndpoints(t *testing.T) {
	store := &fakeSettingsStore{theme: "light"}
	h := NewSettings(store, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	h.GetTheme(rec, authedRequest(http.MethodGet, "/api/theme", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"theme":"light"`)

	rec = httptest.NewRecorder()
	h.ToggleTheme(rec, authedRequest(http.MethodPost, "/api/theme/toggle", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"theme":"dark"`)

	rec = httptest.NewRecorder()
	h.SetTheme(rec, authedRequest(http.MethodPut, "/api/theme", `{"theme":"sepia"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
