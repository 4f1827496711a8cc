package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired(ctx context.Context) (int, error) {
	p.calls.Add(1)
	return 1, p.err
}

func TestScheduler_RunsPurgeJob(t *testing.T) {
	p := &countingPurger{}
	s, err := NewScheduler(p, 20*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestScheduler_PurgeErrorIsLogged(t *testing.T) {
	p := &countingPurger{err: errors.New("store offline")}
	s, err := NewScheduler(p, time.Minute)
	require.NoError(t, err)

	assert.NotPanics(t, s.purgeSessions)
	assert.Equal(t, int32(1), p.calls.Load())
}
