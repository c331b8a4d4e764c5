package workload

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/communitybridge/helpdesk-service/internal/domain"
)

type stubLoadSource struct {
	loads map[int64][]domain.HelpRequest
	err   error
}

func (s *stubLoadSource) ListActiveForTechnician(_ context.Context, technicianID int64) ([]domain.HelpRequest, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.loads[technicianID], nil
}

func (s *stubLoadSource) CountActiveForTechnician(_ context.Context, technicianID int64) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.loads[technicianID]), nil
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func activeRequest(priority domain.RequestPriority, status domain.RequestStatus, touched time.Time) domain.HelpRequest {
	return domain.HelpRequest{
		Priority:  priority,
		Status:    status,
		CreatedAt: touched,
		UpdatedAt: touched,
	}
}

func TestWeightedScoreEmptyLoad(t *testing.T) {
	strategy := NewWeighted(&stubLoadSource{loads: map[int64][]domain.HelpRequest{}})

	score, err := strategy.Score(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 0.0, score)
}

func TestWeightedScoreCombinesWeights(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Technician A: two urgent assigned requests untouched for 3 hours.
	// Each scores 4.0 * 1.0 * 1.3 = 5.2.
	// Technician B: one low blocked request untouched for 1 hour:
	// 1.0 * 0.5 * 1.1 = 0.55.
	source := &stubLoadSource{loads: map[int64][]domain.HelpRequest{
		1: {
			activeRequest(domain.RequestPriorityUrgent, domain.RequestStatusAssigned, now.Add(-3*time.Hour)),
			activeRequest(domain.RequestPriorityUrgent, domain.RequestStatusAssigned, now.Add(-3*time.Hour)),
		},
		2: {
			activeRequest(domain.RequestPriorityLow, domain.RequestStatusBlocked, now.Add(-time.Hour)),
		},
	}}
	strategy := NewWeighted(source).WithClock(fixedClock(now))

	scoreA, err := strategy.Score(context.Background(), 1)
	require.NoError(t, err)
	require.InDelta(t, 10.4, scoreA, 1e-9)

	scoreB, err := strategy.Score(context.Background(), 2)
	require.NoError(t, err)
	require.InDelta(t, 0.55, scoreB, 1e-9)
}

func TestWeightedScoreGrowsWithAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := &stubLoadSource{loads: map[int64][]domain.HelpRequest{
		1: {activeRequest(domain.RequestPriorityMedium, domain.RequestStatusAssigned, now.Add(-time.Hour))},
		2: {activeRequest(domain.RequestPriorityMedium, domain.RequestStatusAssigned, now.Add(-10*time.Hour))},
		3: {activeRequest(domain.RequestPriorityMedium, domain.RequestStatusAssigned, now.Add(-100*time.Hour))},
	}}
	strategy := NewWeighted(source).WithClock(fixedClock(now))

	recent, err := strategy.Score(context.Background(), 1)
	require.NoError(t, err)
	older, err := strategy.Score(context.Background(), 2)
	require.NoError(t, err)
	stale, err := strategy.Score(context.Background(), 3)
	require.NoError(t, err)

	require.Less(t, recent, older)
	require.Less(t, older, stale)
	// No cap: 100 hours means an 11x factor.
	require.InDelta(t, 22.0, stale, 1e-9)
}

func TestWeightedScoreHighPriorityUsesFallbackWeight(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := &stubLoadSource{loads: map[int64][]domain.HelpRequest{
		1: {activeRequest(domain.RequestPriorityHigh, domain.RequestStatusAssigned, now)},
		2: {activeRequest(domain.RequestPriorityLow, domain.RequestStatusAssigned, now)},
	}}
	strategy := NewWeighted(source).WithClock(fixedClock(now))

	high, err := strategy.Score(context.Background(), 1)
	require.NoError(t, err)
	low, err := strategy.Score(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, low, high)
}

func TestWeightedScoreFallsBackToCreatedAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := &stubLoadSource{loads: map[int64][]domain.HelpRequest{
		1: {{
			Priority:  domain.RequestPriorityLow,
			Status:    domain.RequestStatusAssigned,
			CreatedAt: now.Add(-2 * time.Hour),
		}},
	}}
	strategy := NewWeighted(source).WithClock(fixedClock(now))

	score, err := strategy.Score(context.Background(), 1)
	require.NoError(t, err)
	require.InDelta(t, 1.2, score, 1e-9)
}

func TestWeightedScorePropagatesStoreError(t *testing.T) {
	strategy := NewWeighted(&stubLoadSource{err: errors.New("connection refused")})

	_, err := strategy.Score(context.Background(), 1)
	require.Error(t, err)
}

func TestSimpleCountScore(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	source := &stubLoadSource{loads: map[int64][]domain.HelpRequest{
		1: {
			activeRequest(domain.RequestPriorityUrgent, domain.RequestStatusAssigned, now),
			activeRequest(domain.RequestPriorityLow, domain.RequestStatusBlocked, now),
		},
	}}
	strategy := NewSimpleCount(source)

	score, err := strategy.Score(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2.0, score)

	score, err = strategy.Score(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 0.0, score)
}

func TestSimpleCountPropagatesStoreError(t *testing.T) {
	strategy := NewSimpleCount(&stubLoadSource{err: errors.New("connection refused")})

	_, err := strategy.Score(context.Background(), 1)
	require.Error(t, err)
}

func TestStrategyNames(t *testing.T) {
	source := &stubLoadSource{}
	require.Equal(t, "weighted", NewWeighted(source).Name())
	require.Equal(t, "simple", NewSimpleCount(source).Name())
}
