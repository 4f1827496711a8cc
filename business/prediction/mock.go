package prediction

import (
	"context"
	"fmt"
	"math"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// MockConfig holds the tunables of the simulated model.
type MockConfig struct {
	MinDelay        time.Duration
	MaxDelay        time.Duration
	FailureRate     float64
	BaseMin         float64
	BaseSpread      float64
	VarianceMin     float64
	VarianceSpread  float64
	ConfidenceLevel int
	Seed            uint64
}

// DefaultMockConfig mirrors the behaviour of the demo backend.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		MinDelay:        2000 * time.Millisecond,
		MaxDelay:        3500 * time.Millisecond,
		FailureRate:     0.1,
		BaseMin:         15,
		BaseSpread:      20,
		VarianceMin:     3,
		VarianceSpread:  4,
		ConfidenceLevel: 80,
	}
}

func (c MockConfig) Validate() error {
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("invalid mock delay range [%s, %s]", c.MinDelay, c.MaxDelay)
	}
	if c.FailureRate < 0 || c.FailureRate > 1 {
		return fmt.Errorf("mock failure rate must be within [0, 1], got %v", c.FailureRate)
	}
	if c.BaseMin < 0 || c.BaseSpread < 0 || c.VarianceMin < 0 || c.VarianceSpread < 0 {
		return fmt.Errorf("mock distribution parameters must not be negative")
	}
	if c.ConfidenceLevel < 1 || c.ConfidenceLevel > 100 {
		return fmt.Errorf("mock confidence level must be within [1, 100], got %d", c.ConfidenceLevel)
	}
	return nil
}

// MockPredictor simulates a slow, occasionally failing model. The player name
// does not influence the numbers.
type MockPredictor struct {
	cfg MockConfig

	mu       sync.Mutex
	delay    distuv.Uniform
	failure  distuv.Bernoulli
	base     distuv.Uniform
	variance distuv.Uniform

	sleep func(ctx context.Context, d time.Duration) error
}

func NewMockPredictor(cfg MockConfig) (*MockPredictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	return &MockPredictor{
		cfg:      cfg,
		delay:    distuv.Uniform{Min: float64(cfg.MinDelay), Max: float64(cfg.MaxDelay), Src: src},
		failure:  distuv.Bernoulli{P: cfg.FailureRate, Src: src},
		base:     distuv.Uniform{Min: cfg.BaseMin, Max: cfg.BaseMin + cfg.BaseSpread, Src: src},
		variance: distuv.Uniform{Min: cfg.VarianceMin, Max: cfg.VarianceMin + cfg.VarianceSpread, Src: src},
		sleep:    sleepContext,
	}, nil
}

func (m *MockPredictor) Predict(ctx context.Context, playerName string) (domain.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("context error: %w", err)
	}

	delay, fail, result := m.draw()

	if err := m.sleep(ctx, delay); err != nil {
		return domain.PredictionResult{}, fmt.Errorf("context error: %w", err)
	}

	if fail {
		logger.Debug("Mock predictor simulated failure", "player", playerName)
		return domain.PredictionResult{}, fmt.Errorf("mock predictor: %w", domain.ErrModelUnavailable)
	}

	logger.Debug("Mock predictor produced result",
		"player", playerName,
		"predicted_points", result.PredictedPoints,
		"delay", delay)
	return result, nil
}

// draw takes every random sample for one call under the lock.
func (m *MockPredictor) draw() (time.Duration, bool, domain.PredictionResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delay := time.Duration(m.delay.Rand())
	fail := m.failure.Rand() == 1

	base := m.base.Rand()
	variance := m.variance.Rand()

	return delay, fail, domain.PredictionResult{
		PredictedPoints: base,
		ConfidenceInterval: domain.ConfidenceInterval{
			Lower: math.Max(0, base-variance),
			Upper: base + variance,
		},
		ConfidenceLevel: m.cfg.ConfidenceLevel,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
