package prediction

import (
	"context"
	"nextGamePoints/domain"
)

// Predictor produces a points forecast for a named player.
type Predictor interface {
	Predict(ctx context.Context, playerName string) (domain.PredictionResult, error)
}

// PredictorFunc adapts a plain function to Predictor.
type PredictorFunc func(ctx context.Context, playerName string) (domain.PredictionResult, error)

func (f PredictorFunc) Predict(ctx context.Context, playerName string) (domain.PredictionResult, error) {
	return f(ctx, playerName)
}
