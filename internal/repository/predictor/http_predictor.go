package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"strings"
	"time"

	"github.com/pobyzaarif/goshortcute"
)

type HTTPConfig struct {
	BaseURL           string
	BasicAuthUsername string
	BasicAuthPassword string
	Timeout           time.Duration
}

// HTTPPredictor calls a remote model over POST {BaseURL}/predict.
type HTTPPredictor struct {
	cfg    HTTPConfig
	client *http.Client
}

func NewHTTPPredictor(cfg HTTPConfig) *HTTPPredictor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &HTTPPredictor{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Message string `json:"message"`
}

func (p *HTTPPredictor) Predict(ctx context.Context, playerName string) (domain.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("context error: %w", err)
	}

	payloadByte, err := json.Marshal(domain.PredictRequest{PlayerName: playerName})
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("failed to marshal json payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/predict", bytes.NewReader(payloadByte))
	if err != nil {
		return domain.PredictionResult{}, err
	}
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if p.cfg.BasicAuthUsername != "" {
		buildBasicAuth := goshortcute.StringtoBase64Encode(p.cfg.BasicAuthUsername + ":" + p.cfg.BasicAuthPassword)
		req.Header.Add("Authorization", "Basic "+buildBasicAuth)
	}

	res, err := p.client.Do(req)
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("predictor request failed: %w", err)
	}
	defer res.Body.Close()

	bodyBytes, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return domain.PredictionResult{}, fmt.Errorf("failed to read predictor response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		logger.Warn("Predictor returned negative response", "status", res.StatusCode, "player", playerName)
		return domain.PredictionResult{}, backendError(res.StatusCode, bodyBytes)
	}

	var result domain.PredictionResult
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("failed to unmarshal predictor response: %w", err)
	}
	if err := result.Validate(); err != nil {
		return domain.PredictionResult{}, err
	}

	return result, nil
}

func backendError(status int, body []byte) error {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)

	be := &domain.BackendError{StatusCode: status, Message: eb.Message}
	switch status {
	case http.StatusServiceUnavailable:
		be.Err = domain.ErrModelUnavailable
	case http.StatusNotFound:
		be.Err = domain.ErrPlayerNotFound
	}
	return be
}
