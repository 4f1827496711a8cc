package dashboard

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"nextGamePoints/business/prediction"
	"nextGamePoints/business/search"
	"nextGamePoints/domain"
	"nextGamePoints/pkg/logger"
	"nextGamePoints/pkg/metrics"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ToastTitleNoSelection = "No Player Selected"
	ToastBodyNoSelection  = "Please select a player first."
	ToastTitleSuccess     = "Prediction Generated"
	ToastTitleFailure     = "Prediction Failed"
)

const lockStripes = 64

// SessionRepository contract interface
type SessionRepository interface {
	Save(ctx context.Context, session *domain.Session) error
	// SaveKeepTTL stores an existing session without extending its lifetime.
	SaveKeepTTL(ctx context.Context, session *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	PurgeExpired(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
	IDs(ctx context.Context) ([]string, error)
}

// PlayerCatalog is what the dashboard needs from the player catalog.
type PlayerCatalog interface {
	search.PlayerFinder
	GetPlayer(ctx context.Context, id string) (domain.Player, error)
}

type Config struct {
	PredictTimeout time.Duration
	ToastTTL       time.Duration
}

// DashboardService owns every dashboard session: the search widget state, the
// prediction request cycle and the toasts.
type DashboardService struct {
	sessions  SessionRepository
	catalog   PlayerCatalog
	predictor prediction.Predictor
	cfg       Config

	locks [lockStripes]sync.Mutex
	wg    sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	now func() time.Time
}

func NewDashboardService(sessions SessionRepository, catalog PlayerCatalog, predictor prediction.Predictor, cfg Config) *DashboardService {
	if cfg.PredictTimeout <= 0 {
		cfg.PredictTimeout = 10 * time.Second
	}
	if cfg.ToastTTL <= 0 {
		cfg.ToastTTL = 5 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &DashboardService{
		sessions:  sessions,
		catalog:   catalog,
		predictor: predictor,
		cfg:       cfg,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

func (s *DashboardService) Now() time.Time {
	return s.now()
}

func (s *DashboardService) lock(id string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &s.locks[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}

func (s *DashboardService) NewSession(ctx context.Context) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:    uuid.NewString(),
		State: domain.IdleState(),
		Search: domain.SearchState{
			Suggestions: []domain.Player{},
			Selected:    domain.NoPlayer(),
		},
		Toasts:    []domain.Toast{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		logger.Error("Failed to create session", err)
		return nil, err
	}

	s.refreshGauge(ctx)
	logger.Debug("Session created", "session_id", session.ID)

	return session, nil
}

// GetSession loads a session and drops its expired toasts.
func (s *DashboardService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(session *domain.Session, now time.Time) error {
		return nil
	})
}

// GetOrCreate returns the session behind id, or a fresh one when id is unknown
// or expired. The second value reports whether a new session was made.
func (s *DashboardService) GetOrCreate(ctx context.Context, id string) (*domain.Session, bool, error) {
	if id != "" {
		session, err := s.GetSession(ctx, id)
		if err == nil {
			return session, false, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, false, err
		}
	}

	session, err := s.NewSession(ctx)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

func (s *DashboardService) UpdateQuery(ctx context.Context, id, query string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(session *domain.Session, now time.Time) error {
		return s.widget(session, now).ChangeQuery(ctx, &session.Search, query)
	})
}

func (s *DashboardService) FocusSearch(ctx context.Context, id string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(session *domain.Session, now time.Time) error {
		return s.widget(session, now).Focus(ctx, &session.Search)
	})
}

func (s *DashboardService) SelectPlayer(ctx context.Context, id, playerID string) (*domain.Session, error) {
	player, err := s.catalog.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	return s.mutate(ctx, id, func(session *domain.Session, now time.Time) error {
		s.widget(session, now).Pick(&session.Search, player)
		return nil
	})
}

// ClearSelection empties the search box and the selection, which returns the
// request cycle to Idle and drops any pending result.
func (s *DashboardService) ClearSelection(ctx context.Context, id string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(session *domain.Session, now time.Time) error {
		s.widget(session, now).Clear(&session.Search)
		return nil
	})
}

// Predict starts a request cycle for the selected player. The call returns as
// soon as the session is Loading; the backend answer is applied in the
// background.
func (s *DashboardService) Predict(ctx context.Context, id string) (*domain.Session, error) {
	return s.start(ctx, id, prediction.Begin)
}

// Retry restarts a failed request cycle.
func (s *DashboardService) Retry(ctx context.Context, id string) (*domain.Session, error) {
	return s.start(ctx, id, prediction.Retry)
}

func (s *DashboardService) DismissToast(ctx context.Context, id, toastID string) (*domain.Session, error) {
	return s.mutate(ctx, id, func(session *domain.Session, now time.Time) error {
		kept := session.Toasts[:0]
		for _, t := range session.Toasts {
			if t.ID != toastID {
				kept = append(kept, t)
			}
		}
		session.Toasts = kept
		return nil
	})
}

type beginFunc func(session *domain.Session, now time.Time) (prediction.Ticket, error)

func (s *DashboardService) start(ctx context.Context, id string, begin beginFunc) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	unlock := s.lock(id)
	defer unlock()

	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	session.PruneToasts(now)

	ticket, err := begin(session, now)
	if err != nil {
		metrics.PredictionRejectedTotal.WithLabelValues(rejectReason(err)).Inc()

		if errors.Is(err, domain.ErrNoPlayerSelected) {
			s.addToast(session, now, ToastTitleNoSelection, ToastBodyNoSelection, domain.ToastDestructive)
			if serr := s.sessions.Save(ctx, session); serr != nil {
				return nil, serr
			}
		}
		return session, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		logger.Error("Failed to save session", err)
		return nil, err
	}

	logger.Info("Prediction started",
		"session_id", id,
		"player", ticket.Player.Name,
		"generation", ticket.Generation)

	s.wg.Add(1)
	go s.run(id, ticket)

	return session, nil
}

func (s *DashboardService) run(id string, ticket prediction.Ticket) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(s.ctx, s.cfg.PredictTimeout)
	defer cancel()

	started := s.now()
	result, err := s.predictor.Predict(ctx, ticket.Player.Name)
	metrics.PredictionLatency.Observe(s.now().Sub(started).Seconds())

	unlock := s.lock(id)
	defer unlock()

	// the request context is gone by now, the store still needs a deadline
	storeCtx, storeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer storeCancel()

	session, lerr := s.sessions.FindByID(storeCtx, id)
	if lerr != nil {
		logger.Warn("Dropping prediction for missing session", "session_id", id, "error", lerr)
		metrics.PredictionRequestsTotal.WithLabelValues(string(prediction.OutcomeStale)).Inc()
		return
	}

	now := s.now()
	outcome := prediction.Complete(session, ticket, result, err, now)
	metrics.PredictionRequestsTotal.WithLabelValues(string(outcome)).Inc()

	switch outcome {
	case prediction.OutcomeStale:
		logger.Debug("Discarding superseded prediction", "session_id", id, "generation", ticket.Generation)
		return
	case prediction.OutcomeSuccess:
		s.addToast(session, now, ToastTitleSuccess,
			fmt.Sprintf("Successfully predicted points for %s", ticket.Player.Name), domain.ToastDefault)
	case prediction.OutcomeFailure:
		msg, _ := session.State.FailureMessage()
		logger.Warn("Prediction failed", "session_id", id, "player", ticket.Player.Name, "error", err)
		s.addToast(session, now, ToastTitleFailure, msg, domain.ToastDestructive)
	}

	session.PruneToasts(now)
	if serr := s.sessions.Save(storeCtx, session); serr != nil {
		logger.Error("Failed to save prediction outcome", serr)
	}
}

// PurgeExpired removes expired sessions and expired toasts of live sessions.
func (s *DashboardService) PurgeExpired(ctx context.Context) (int, error) {
	removed, err := s.sessions.PurgeExpired(ctx)
	if err != nil {
		return 0, err
	}

	ids, err := s.sessions.IDs(ctx)
	if err != nil {
		return removed, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return removed, fmt.Errorf("context error: %w", err)
		}
		s.pruneToasts(ctx, id)
	}

	s.refreshGauge(ctx)
	return removed, nil
}

func (s *DashboardService) pruneToasts(ctx context.Context, id string) {
	unlock := s.lock(id)
	defer unlock()

	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return
	}
	if session.PruneToasts(s.now()) {
		if err := s.sessions.SaveKeepTTL(ctx, session); err != nil {
			logger.Warn("Failed to save pruned session", "session_id", id, "error", err)
		}
	}
}

// Wait blocks until every running request cycle has been applied.
func (s *DashboardService) Wait() {
	s.wg.Wait()
}

// Shutdown cancels running request cycles and waits for them to settle or for
// ctx to end.
func (s *DashboardService) Shutdown(ctx context.Context) error {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *DashboardService) mutate(ctx context.Context, id string, fn func(session *domain.Session, now time.Time) error) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	unlock := s.lock(id)
	defer unlock()

	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session.PruneToasts(now)

	if err := fn(session, now); err != nil {
		return nil, err
	}

	session.UpdatedAt = now
	if err := s.sessions.Save(ctx, session); err != nil {
		logger.Error("Failed to save session", err)
		return nil, err
	}
	return session, nil
}

func (s *DashboardService) widget(session *domain.Session, now time.Time) *search.Widget {
	return search.NewWidget(s.catalog, func(selected domain.OptionalPlayer) {
		if !selected.Present {
			prediction.Reset(session, now)
		}
	})
}

func (s *DashboardService) addToast(session *domain.Session, now time.Time, title, description string, variant domain.ToastVariant) {
	session.Toasts = append(session.Toasts, domain.Toast{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Variant:     variant,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.ToastTTL),
	})
}

func (s *DashboardService) refreshGauge(ctx context.Context) {
	n, err := s.sessions.Count(ctx)
	if err != nil {
		return
	}
	metrics.DashboardSessionsActive.Set(float64(n))
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoPlayerSelected):
		return "no_selection"
	case errors.Is(err, domain.ErrPredictionInFlight):
		return "in_flight"
	case errors.Is(err, domain.ErrRetryUnavailable):
		return "retry_unavailable"
	}
	return "other"
}
