package prediction

import (
	"errors"
	"nextGamePoints/domain"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ben = domain.Player{ID: "10", Name: "Ben Simmons", Team: "BKN", Position: domain.PositionPointGuard}
	now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	res = domain.PredictionResult{
		PredictedPoints:    22.4,
		ConfidenceInterval: domain.ConfidenceInterval{Lower: 18.1, Upper: 26.7},
		ConfidenceLevel:    80,
	}
)

func sessionWith(p *domain.Player) *domain.Session {
	s := &domain.Session{ID: "s1"}
	if p != nil {
		s.Search.Selected = domain.SomePlayer(*p)
	}
	return s
}

func TestBegin_WithoutSelection(t *testing.T) {
	s := sessionWith(nil)

	_, err := Begin(s, now)

	assert.ErrorIs(t, err, domain.ErrNoPlayerSelected)
	assert.True(t, s.State.IsIdle())
	assert.Zero(t, s.Generation)
}

func TestBegin_EntersLoading(t *testing.T) {
	s := sessionWith(&ben)
	s.State = domain.SuccessState(res)

	ticket, err := Begin(s, now)

	require.NoError(t, err)
	assert.Equal(t, ben, ticket.Player)
	assert.Equal(t, uint64(1), ticket.Generation)
	assert.True(t, s.State.IsLoading())
	_, hasResult := s.State.Result()
	assert.False(t, hasResult)
	assert.Equal(t, now, s.LoadingSince)
}

func TestBegin_WhileLoading(t *testing.T) {
	s := sessionWith(&ben)
	_, err := Begin(s, now)
	require.NoError(t, err)

	_, err = Begin(s, now)

	assert.ErrorIs(t, err, domain.ErrPredictionInFlight)
	assert.Equal(t, uint64(1), s.Generation)
}

func TestComplete_Success(t *testing.T) {
	s := sessionWith(&ben)
	ticket, _ := Begin(s, now)

	outcome := Complete(s, ticket, res, nil, now.Add(3*time.Second))

	assert.Equal(t, OutcomeSuccess, outcome)
	got, ok := s.State.Result()
	require.True(t, ok)
	assert.Equal(t, res, got)
	assert.True(t, s.LoadingSince.IsZero())
}

func TestComplete_Failure(t *testing.T) {
	s := sessionWith(&ben)
	ticket, _ := Begin(s, now)

	outcome := Complete(s, ticket, domain.PredictionResult{}, domain.ErrModelUnavailable, now)

	assert.Equal(t, OutcomeFailure, outcome)
	msg, ok := s.State.FailureMessage()
	require.True(t, ok)
	assert.Equal(t, domain.MessageModelUnavailable, msg)
}

func TestComplete_UnknownErrorUsesFallbackMessage(t *testing.T) {
	s := sessionWith(&ben)
	ticket, _ := Begin(s, now)

	Complete(s, ticket, domain.PredictionResult{}, errors.New("boom"), now)

	msg, _ := s.State.FailureMessage()
	assert.Equal(t, "Failed to generate prediction", msg)
}

func TestComplete_InvalidResultIsFailure(t *testing.T) {
	s := sessionWith(&ben)
	ticket, _ := Begin(s, now)

	bad := res
	bad.ConfidenceInterval.Lower = -2
	outcome := Complete(s, ticket, bad, nil, now)

	assert.Equal(t, OutcomeFailure, outcome)
	assert.True(t, s.State.IsFailure())
}

func TestComplete_StaleAfterReset(t *testing.T) {
	s := sessionWith(&ben)
	ticket, _ := Begin(s, now)

	Reset(s, now)
	outcome := Complete(s, ticket, res, nil, now)

	assert.Equal(t, OutcomeStale, outcome)
	assert.True(t, s.State.IsIdle())
}

func TestComplete_StaleAfterNewCycle(t *testing.T) {
	s := sessionWith(&ben)
	first, _ := Begin(s, now)
	Reset(s, now)
	s.Search.Selected = domain.SomePlayer(ben)
	second, err := Begin(s, now)
	require.NoError(t, err)

	assert.Equal(t, OutcomeStale, Complete(s, first, res, nil, now))
	assert.True(t, s.State.IsLoading())
	assert.Equal(t, OutcomeSuccess, Complete(s, second, res, nil, now))
}

func TestRetry(t *testing.T) {
	s := sessionWith(&ben)

	_, err := Retry(s, now)
	assert.ErrorIs(t, err, domain.ErrRetryUnavailable)

	ticket, _ := Begin(s, now)
	Complete(s, ticket, domain.PredictionResult{}, domain.ErrModelUnavailable, now)

	again, err := Retry(s, now)
	require.NoError(t, err)
	assert.Equal(t, ben, again.Player)
	assert.True(t, s.State.IsLoading())
	_, hasMessage := s.State.FailureMessage()
	assert.False(t, hasMessage)

	Complete(s, again, res, nil, now)
	_, err = Retry(s, now)
	assert.ErrorIs(t, err, domain.ErrRetryUnavailable)
}

func TestReset_FromAnyState(t *testing.T) {
	states := []domain.RequestState{
		domain.IdleState(),
		domain.LoadingState(),
		domain.SuccessState(res),
		domain.FailureState("x"),
	}
	for _, st := range states {
		s := sessionWith(&ben)
		s.State = st

		Reset(s, now)

		assert.True(t, s.State.IsIdle())
		assert.Equal(t, uint64(1), s.Generation)
	}
}
