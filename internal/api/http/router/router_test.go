package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravets/nutrilog-server/internal/api/http/handler"
	"github.com/mkravets/nutrilog-server/internal/api/http/middleware"
	"github.com/mkravets/nutrilog-server/internal/model"
	"github.com/mkravets/nutrilog-server/internal/repository/memory"
	"github.com/mkravets/nutrilog-server/internal/session"
	"github.com/mkravets/nutrilog-server/internal/stats"
	"github.com/mkravets/nutrilog-server/internal/store"
	"github.com/mkravets/nutrilog-server/internal/testutil"
	"github.com/mkravets/nutrilog-server/internal/token"
)

type staticRecognizer struct{}

func (staticRecognizer) Analyze(ctx context.Context, image []byte, mimeType string) model.RecognitionResult {
	return model.RecognitionResult{Name: "Banana", Calories: 105, Protein: 1, Carbs: 27}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	kv := memory.NewKV()
	log := testutil.MakeNoopLogger()
	dataStore := store.NewStore(kv, log)
	sessions := session.NewManager(dataStore, kv, token.NewJWT("test-secret"), log)
	statsEngine := stats.NewStats(dataStore)

	r := New(
		handler.NewAuth(sessions, log),
		handler.NewFood(dataStore, staticRecognizer{}, nil, log),
		handler.NewStats(statsEngine, log),
		handler.NewSettings(dataStore, log),
		middleware.NewAuth(sessions, log),
		log,
		"http://localhost:4200",
	)

	srv := httptest.NewServer(r.Register())
	t.Cleanup(srv.Close)
	return srv
}

func signup(t *testing.T, srv *httptest.Server, email, password string) *http.Cookie {
	t.Helper()

	body := `{"email":"` + email + `","password":"` + password + `"}`
	resp, err := http.Post(srv.URL+"/api/auth/signup", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == middleware.CookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func authedGet(t *testing.T, srv *httptest.Server, cookie *http.Cookie, path string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestRouter_Healthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_GuardedRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/api/auth/me", "/api/stats/weekly", "/api/logs/2026-08-30"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestRouter_SignupLogFoodAndReadStats(t *testing.T) {
	srv := newTestServer(t)
	cookie := signup(t, srv, "alice@example.com", "hunter2")

	// Log a meal from a photo.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="photo"; filename="banana.jpg"`)
	header.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/foods", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var added struct {
		Detected model.RecognitionResult `json:"detected"`
		Date     string                  `json:"date"`
		Log      model.DayLog            `json:"log"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&added))
	assert.Equal(t, "Banana", added.Detected.Name)
	require.Len(t, added.Log.Foods, 1)

	// Daily stats pick the entry up.
	statsResp := authedGet(t, srv, cookie, "/api/stats/daily?date="+added.Date)
	defer statsResp.Body.Close()
	require.Equal(t, http.StatusOK, statsResp.StatusCode)

	var totals model.NutritionTotals
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&totals))
	assert.Equal(t, 105, totals.Calories)

	// Weekly series is always seven days ending today.
	weeklyResp := authedGet(t, srv, cookie, "/api/stats/weekly")
	defer weeklyResp.Body.Close()
	require.Equal(t, http.StatusOK, weeklyResp.StatusCode)

	var series []model.DayCalories
	require.NoError(t, json.NewDecoder(weeklyResp.Body).Decode(&series))
	require.Len(t, series, 7)
	assert.Equal(t, added.Date, series[6].Date)
	assert.Equal(t, 105, series[6].Calories)
}

func TestRouter_DuplicateSignupConflicts(t *testing.T) {
	srv := newTestServer(t)
	signup(t, srv, "alice@example.com", "hunter2")

	resp, err := http.Post(srv.URL+"/api/auth/signup", "application/json",
		strings.NewReader(`{"email":"alice@example.com","password":"other"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRouter_ThemeToggle(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/theme/toggle", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Theme string `json:"theme"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "dark", out.Theme)
}
