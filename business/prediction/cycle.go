package prediction

import (
	"fmt"
	"nextGamePoints/domain"
	"time"
)

// Ticket identifies one started request cycle.
type Ticket struct {
	Generation uint64
	Player     domain.Player
}

// Outcome says what became of a completed cycle.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeStale   Outcome = "stale"
)

// Begin moves the session into Loading for its selected player. It fails with
// domain.ErrNoPlayerSelected when nothing is selected and with
// domain.ErrPredictionInFlight while a cycle is running. A previous result or
// error is cleared.
func Begin(s *domain.Session, now time.Time) (Ticket, error) {
	player, ok := s.Search.Selected.Get()
	if !ok {
		return Ticket{}, domain.ErrNoPlayerSelected
	}
	if s.State.IsLoading() {
		return Ticket{}, domain.ErrPredictionInFlight
	}

	s.Generation++
	s.State = domain.LoadingState()
	s.Subject = player
	s.LoadingSince = now
	s.UpdatedAt = now

	return Ticket{Generation: s.Generation, Player: player}, nil
}

// Retry restarts a cycle after a failure.
func Retry(s *domain.Session, now time.Time) (Ticket, error) {
	if !s.State.IsFailure() {
		return Ticket{}, domain.ErrRetryUnavailable
	}
	return Begin(s, now)
}

// Complete applies the backend answer to the session. Answers for a superseded
// generation are dropped and leave the session untouched.
func Complete(s *domain.Session, t Ticket, result domain.PredictionResult, err error, now time.Time) Outcome {
	if t.Generation != s.Generation || !s.State.IsLoading() {
		return OutcomeStale
	}

	if err == nil {
		if verr := result.Validate(); verr != nil {
			err = fmt.Errorf("backend returned unusable result: %w", verr)
		}
	}

	s.LoadingSince = time.Time{}
	s.UpdatedAt = now

	if err != nil {
		s.State = domain.FailureState(domain.UserMessage(err))
		return OutcomeFailure
	}
	s.State = domain.SuccessState(result)
	return OutcomeSuccess
}

// Reset returns the session to Idle and invalidates any running cycle.
func Reset(s *domain.Session, now time.Time) {
	s.Generation++
	s.State = domain.IdleState()
	s.Subject = domain.Player{}
	s.LoadingSince = time.Time{}
	s.UpdatedAt = now
}
