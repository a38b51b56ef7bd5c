package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recruitmate/match-engine/internal/models"
)

// stubEngine returns a canned response and counts invocations.
type stubEngine struct {
	mu    sync.Mutex
	calls int
	resp  *models.MatchResponse
	err   error
	delay time.Duration
}

func (s *stubEngine) CalculateMatch(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.resp, s.err
}

func (s *stubEngine) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestDispatch_ReturnsEngineResult(t *testing.T) {
	engine := &stubEngine{resp: &models.MatchResponse{FinalScore: 0.42}}
	dispatcher := NewMatchDispatcher(engine, 2, 10)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	resp, err := dispatcher.Dispatch(context.Background(), &models.MatchRequest{})

	require.NoError(t, err)
	assert.Equal(t, 0.42, resp.FinalScore)
	assert.Equal(t, 1, engine.callCount())
}

func TestDispatch_PropagatesEngineError(t *testing.T) {
	engine := &stubEngine{err: errors.New("annotation failed")}
	dispatcher := NewMatchDispatcher(engine, 1, 10)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	_, err := dispatcher.Dispatch(context.Background(), &models.MatchRequest{})

	assert.ErrorContains(t, err, "annotation failed")
}

func TestDispatch_ConcurrentRequests(t *testing.T) {
	engine := &stubEngine{resp: &models.MatchResponse{FinalScore: 0.5}}
	dispatcher := NewMatchDispatcher(engine, 4, 32)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = dispatcher.Dispatch(context.Background(), &models.MatchRequest{})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, n, engine.callCount())
}

func TestDispatch_CancelledContext(t *testing.T) {
	engine := &stubEngine{resp: &models.MatchResponse{}, delay: time.Second}
	dispatcher := NewMatchDispatcher(engine, 1, 10)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dispatcher.Dispatch(ctx, &models.MatchRequest{})

	assert.Error(t, err)
}

func TestDispatch_AfterStopRefusesWork(t *testing.T) {
	engine := &stubEngine{resp: &models.MatchResponse{}}
	dispatcher := NewMatchDispatcher(engine, 1, 10)
	dispatcher.Start(context.Background())
	dispatcher.Stop()

	_, err := dispatcher.Dispatch(context.Background(), &models.MatchRequest{})

	assert.ErrorContains(t, err, "shutting down")
}

func TestNewMatchDispatcher_SanitizesParameters(t *testing.T) {
	engine := &stubEngine{resp: &models.MatchResponse{}}
	dispatcher := NewMatchDispatcher(engine, 0, 0)
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	_, err := dispatcher.Dispatch(context.Background(), &models.MatchRequest{})

	assert.NoError(t, err)
}
