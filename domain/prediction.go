package domain

import "fmt"

type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// PredictionResult is the payload every prediction backend returns.
type PredictionResult struct {
	PredictedPoints    float64            `json:"predicted_points"`
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	ConfidenceLevel    int                `json:"confidence_level"`
}

// Validate enforces 0 <= lower <= predicted <= upper and a percentage level.
func (r PredictionResult) Validate() error {
	ci := r.ConfidenceInterval
	if ci.Lower < 0 {
		return fmt.Errorf("%w: lower bound %.2f is negative", ErrInvalidPrediction, ci.Lower)
	}
	if ci.Lower > r.PredictedPoints || r.PredictedPoints > ci.Upper {
		return fmt.Errorf("%w: %.2f outside [%.2f, %.2f]", ErrInvalidPrediction, r.PredictedPoints, ci.Lower, ci.Upper)
	}
	if r.ConfidenceLevel <= 0 || r.ConfidenceLevel > 100 {
		return fmt.Errorf("%w: confidence level %d", ErrInvalidPrediction, r.ConfidenceLevel)
	}
	return nil
}

// PredictRequest is the body accepted by a prediction backend.
type PredictRequest struct {
	PlayerName string `json:"player_name" validate:"required,min=2,max=100"`
}
