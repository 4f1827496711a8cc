package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"nextGamePoints/business/catalog"
	"nextGamePoints/business/dashboard"
	"nextGamePoints/domain"
	"nextGamePoints/internal/middleware"
	"nextGamePoints/internal/repository/memory"
	"nextGamePoints/internal/repository/static"
	"nextGamePoints/internal/views"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// instantPredictor answers immediately with a fixed outcome.
type instantPredictor struct {
	mu     sync.Mutex
	result domain.PredictionResult
	err    error
}

func (p *instantPredictor) Predict(ctx context.Context, playerName string) (domain.PredictionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result, p.err
}

func (p *instantPredictor) set(result domain.PredictionResult, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.result, p.err = result, err
}

var goodResult = domain.PredictionResult{
	PredictedPoints:    21.7,
	ConfidenceInterval: domain.ConfidenceInterval{Lower: 17.2, Upper: 26.2},
	ConfidenceLevel:    80,
}

type testServer struct {
	e         *echo.Echo
	dashboard *dashboard.DashboardService
	predictor *instantPredictor
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	catalogService := catalog.NewCatalogService(static.NewCatalogRepository())
	p := &instantPredictor{result: goodResult}
	dash := dashboard.NewDashboardService(memory.NewSessionRepository(time.Hour), catalogService, p, dashboard.Config{})
	t.Cleanup(func() { _ = dash.Shutdown(context.Background()) })

	renderer, err := views.NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	e.HTTPErrorHandler = middleware.ErrorHandler

	sessionRequired := middleware.SessionCookie(dash, middleware.SessionCookieConfig{CookieName: "npp_session", TTL: time.Hour})
	page := e.Group("", sessionRequired)
	dh := NewDashboardHandler(dash, domain.DefaultLayout(), 1)
	page.GET("/", dh.Index)
	page.GET("/search", dh.Search)
	page.POST("/select", dh.Select)
	page.POST("/clear", dh.Clear)
	page.POST("/predict", dh.Predict)
	page.POST("/retry", dh.Retry)
	page.POST("/toasts/:id/dismiss", dh.DismissToast)

	api := e.Group("/api/v1")
	ph := NewPlayerHandler(catalogService)
	api.GET("/players", ph.GetPlayers)
	api.GET("/players/:id", ph.GetPlayerByID)
	api.POST("/predict", NewPredictHandler(catalogService, p, time.Second).Predict)

	sh := NewSessionHandler(dash)
	api.POST("/sessions", sh.CreateSession)
	api.GET("/sessions/:id", sh.GetSession)
	api.PUT("/sessions/:id/query", sh.UpdateQuery)
	api.POST("/sessions/:id/focus", sh.FocusSearch)
	api.POST("/sessions/:id/selection", sh.SelectPlayer)
	api.DELETE("/sessions/:id/selection", sh.ClearSelection)
	api.POST("/sessions/:id/predict", sh.Predict)
	api.POST("/sessions/:id/retry", sh.Retry)
	api.DELETE("/sessions/:id/toasts/:toast_id", sh.DismissToast)

	e.GET("/health", NewHealthHandler("npp", "test").Health)

	return &testServer{e: e, dashboard: dash, predictor: p}
}

func (s *testServer) do(t *testing.T, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if strings.HasPrefix(body, "{") {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

type sessionBody struct {
	Message string `json:"message"`
	Session struct {
		ID         string              `json:"id"`
		CanPredict bool                `json:"can_predict"`
		State      domain.RequestState `json:"state"`
		Search     domain.SearchState  `json:"search"`
		Toasts     []domain.Toast      `json:"toasts"`
	} `json:"session"`
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var body sessionBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestPlayers_List(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/players", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LeBron James")
	assert.Contains(t, rec.Body.String(), "Kawhi Leonard")
}

func TestPlayers_Search(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/players?q="+url.QueryEscape("ben sim"), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Query       string          `json:"query"`
		Suggestions []domain.Player `json:"suggestions"`
		DidYouMean  []string        `json:"did_you_mean"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ben sim", body.Query)
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, "Ben Simmons", body.Suggestions[0].Name)
	assert.Empty(t, body.DidYouMean)

	rec = s.do(t, http.MethodGet, "/api/v1/players?q=doncic", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Suggestions)
	assert.Contains(t, body.DidYouMean, "Luka Dončić")

	rec = s.do(t, http.MethodGet, "/api/v1/players?q=l", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Suggestions)
}

func TestPlayers_GetByID(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/players/6", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Luka")

	rec = s.do(t, http.MethodGet, "/api/v1/players/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPredictContract(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/predict", `{"player_name":"Stephen Curry"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var res domain.PredictionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, goodResult, res)

	rec = s.do(t, http.MethodPost, "/api/v1/predict", `{"player_name":"Michael Jordan"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/predict", `{"player_name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.predictor.set(domain.PredictionResult{}, domain.ErrModelUnavailable)
	rec = s.do(t, http.MethodPost, "/api/v1/predict", `{"player_name":"Stephen Curry"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"message":"Model temporarily unavailable. Please try again."}`, rec.Body.String())
}

func TestSessionsAPI_Flow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeSession(t, rec)
	id := created.Session.ID
	require.NotEmpty(t, id)
	assert.False(t, created.Session.CanPredict)

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/predict", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/query", `{"query":"tatum"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeSession(t, rec)
	require.Len(t, body.Session.Search.Suggestions, 1)
	assert.True(t, body.Session.Search.ShowSuggestions)

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/selection", `{"player_id":"5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeSession(t, rec)
	assert.True(t, body.Session.CanPredict)
	assert.Equal(t, "Jayson Tatum", body.Session.Search.Query)

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/predict", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	body = decodeSession(t, rec)
	assert.True(t, body.Session.State.IsLoading())

	s.dashboard.Wait()

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeSession(t, rec)
	got, ok := body.Session.State.Result()
	require.True(t, ok)
	assert.Equal(t, goodResult, got)
	// the rejected predict left its own toast behind
	require.Len(t, body.Session.Toasts, 2)
	assert.Equal(t, "No Player Selected", body.Session.Toasts[0].Title)
	latest := body.Session.Toasts[1]
	assert.Equal(t, "Successfully predicted points for Jayson Tatum", latest.Description)

	rec = s.do(t, http.MethodDelete, "/api/v1/sessions/"+id+"/toasts/"+latest.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeSession(t, rec).Session.Toasts, 1)

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/retry", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/v1/sessions/"+id+"/selection", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeSession(t, rec)
	assert.True(t, body.Session.State.IsIdle())
	assert.False(t, body.Session.CanPredict)
}

func TestSessionsAPI_FailureAndRetry(t *testing.T) {
	s := newTestServer(t)
	s.predictor.set(domain.PredictionResult{}, domain.ErrModelUnavailable)

	id := decodeSession(t, s.do(t, http.MethodPost, "/api/v1/sessions", "")).Session.ID
	s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/selection", `{"player_id":"2"}`)
	require.Equal(t, http.StatusAccepted, s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/predict", "").Code)
	s.dashboard.Wait()

	body := decodeSession(t, s.do(t, http.MethodGet, "/api/v1/sessions/"+id, ""))
	msg, ok := body.Session.State.FailureMessage()
	require.True(t, ok)
	assert.Equal(t, domain.MessageModelUnavailable, msg)

	s.predictor.set(goodResult, nil)
	require.Equal(t, http.StatusAccepted, s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/retry", "").Code)
	s.dashboard.Wait()

	body = decodeSession(t, s.do(t, http.MethodGet, "/api/v1/sessions/"+id, ""))
	assert.True(t, body.Session.State.IsSuccess())
}

func TestSessionsAPI_Errors(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/sessions/nope", "").Code)

	id := decodeSession(t, s.do(t, http.MethodPost, "/api/v1/sessions", "")).Session.ID
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/selection", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/selection", `{"player_id":"77"}`).Code)
}

func TestDashboardPages(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Predict Player Performance")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "npp_session", cookies[0].Name)
	cookie := cookies[0]

	// predicting with nothing selected shows a toast
	rec = s.do(t, http.MethodPost, "/predict", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = s.do(t, http.MethodGet, "/", "", cookie)
	assert.Contains(t, rec.Body.String(), "No Player Selected")

	rec = s.do(t, http.MethodGet, "/search?q=embiid", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = s.do(t, http.MethodGet, "/", "", cookie)
	assert.Contains(t, rec.Body.String(), "Joel Embiid")

	rec = s.do(t, http.MethodPost, "/select", "player_id=7", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	rec = s.do(t, http.MethodPost, "/predict", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	s.dashboard.Wait()

	rec = s.do(t, http.MethodGet, "/", "", cookie)
	assert.Contains(t, rec.Body.String(), "Next Game Prediction")
	assert.Contains(t, rec.Body.String(), "21.7")
	assert.Contains(t, rec.Body.String(), "Joel will score between 17.2 and 26.2 points")

	rec = s.do(t, http.MethodPost, "/clear", "", cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	rec = s.do(t, http.MethodGet, "/", "", cookie)
	assert.NotContains(t, rec.Body.String(), "Next Game Prediction")

	rec = s.do(t, http.MethodPost, "/select", "player_id=404", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrSessionNotFound:    http.StatusNotFound,
		domain.ErrPlayerNotFound:     http.StatusNotFound,
		domain.ErrPredictionInFlight: http.StatusConflict,
		domain.ErrNoPlayerSelected:   http.StatusUnprocessableEntity,
		domain.ErrRetryUnavailable:   http.StatusUnprocessableEntity,
		domain.ErrModelUnavailable:   http.StatusServiceUnavailable,
		context.DeadlineExceeded:     http.StatusGatewayTimeout,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}
