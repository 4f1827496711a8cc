package domain

import (
	"errors"
	"fmt"
)

// MessageModelUnavailable is shown to the user when the backend reports a failure.
const MessageModelUnavailable = "Model temporarily unavailable. Please try again."

// MessagePredictionFailed is shown for backend errors that carry no user message.
const MessagePredictionFailed = "Failed to generate prediction"

var (
	ErrNoPlayerSelected   = errors.New("no player selected")
	ErrPredictionInFlight = errors.New("prediction already in progress")
	ErrRetryUnavailable   = errors.New("retry is only available after a failed prediction")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrModelUnavailable   = errors.New("model temporarily unavailable")
	ErrInvalidPrediction  = errors.New("invalid prediction result")
)

// UserMessage maps a prediction error to the text shown in the error view and toast.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	if errors.Is(err, ErrModelUnavailable) {
		return MessageModelUnavailable
	}
	return MessagePredictionFailed
}

// BackendError carries a message reported by a remote prediction backend.
type BackendError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend error (status %d)", e.StatusCode)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
