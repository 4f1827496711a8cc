package predictor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"nextGamePoints/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPPredictor_Success(t *testing.T) {
	var gotReq domain.PredictRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"predicted_points":24.5,"confidence_interval":{"lower":20.1,"upper":28.9},"confidence_level":80}`))
	}))
	defer srv.Close()

	p := NewHTTPPredictor(HTTPConfig{BaseURL: srv.URL + "/", BasicAuthUsername: "user", BasicAuthPassword: "pass"})

	res, err := p.Predict(context.Background(), "LeBron James")

	require.NoError(t, err)
	assert.Equal(t, "LeBron James", gotReq.PlayerName)
	assert.Equal(t, "Basic dXNlcjpwYXNz", gotAuth)
	assert.InDelta(t, 24.5, res.PredictedPoints, 1e-9)
	assert.Equal(t, 80, res.ConfidenceLevel)
}

func TestHTTPPredictor_NoAuthHeaderWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"predicted_points":10,"confidence_interval":{"lower":7,"upper":13},"confidence_level":80}`))
	}))
	defer srv.Close()

	_, err := NewHTTPPredictor(HTTPConfig{BaseURL: srv.URL}).Predict(context.Background(), "Kevin Durant")
	assert.NoError(t, err)
}

func TestHTTPPredictor_ModelUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"Model temporarily unavailable. Please try again."}`))
	}))
	defer srv.Close()

	_, err := NewHTTPPredictor(HTTPConfig{BaseURL: srv.URL}).Predict(context.Background(), "Joel Embiid")

	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
	assert.Equal(t, domain.MessageModelUnavailable, domain.UserMessage(err))
}

func TestHTTPPredictor_ServerErrorWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPPredictor(HTTPConfig{BaseURL: srv.URL}).Predict(context.Background(), "Joel Embiid")

	require.Error(t, err)
	assert.Equal(t, domain.MessagePredictionFailed, domain.UserMessage(err))
}

func TestHTTPPredictor_InvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"predicted_points":5,"confidence_interval":{"lower":9,"upper":13},"confidence_level":80}`))
	}))
	defer srv.Close()

	_, err := NewHTTPPredictor(HTTPConfig{BaseURL: srv.URL}).Predict(context.Background(), "Jayson Tatum")
	assert.ErrorIs(t, err, domain.ErrInvalidPrediction)
}

func TestHTTPPredictor_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPPredictor(HTTPConfig{BaseURL: srv.URL}).Predict(ctx, "Jayson Tatum")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
