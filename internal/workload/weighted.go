package workload

import (
	"context"
	"time"

	"github.com/communitybridge/helpdesk-service/internal/domain"
)

// Priority weights for workload calculation. The "high" tier is deliberately
// absent and falls through to the default weight; it restricts the eligible
// pool instead of inflating the score.
var priorityWeights = map[domain.RequestPriority]float64{
	domain.RequestPriorityUrgent: 4.0,
	domain.RequestPriorityMedium: 2.0,
	domain.RequestPriorityLow:    1.0,
}

// Status weights: blocked requests wait on the requester and count half.
var statusWeights = map[domain.RequestStatus]float64{
	domain.RequestStatusAssigned: 1.0,
	domain.RequestStatusBlocked:  0.5,
}

const (
	defaultPriorityWeight = 1.0
	defaultStatusWeight   = 1.0
	hourlyGrowth          = 0.1
)

// Weighted sums priority x status x time-decay over a technician's active
// load. Untouched requests grow 10% per hour without cap.
type Weighted struct {
	store ActiveLoadSource
	now   func() time.Time
}

// NewWeighted creates the weighted strategy.
func NewWeighted(store ActiveLoadSource) *Weighted {
	return &Weighted{store: store, now: time.Now}
}

var _ Strategy = (*Weighted)(nil)

// Name identifies the strategy in metrics and dashboard output.
func (w *Weighted) Name() string { return "weighted" }

// Score computes the weighted workload. An empty active load scores exactly 0.
func (w *Weighted) Score(ctx context.Context, technicianID int64) (float64, error) {
	requests, err := w.store.ListActiveForTechnician(ctx, technicianID)
	if err != nil {
		return 0, err
	}

	score := 0.0
	now := w.now()
	for i := range requests {
		score += requestWeight(&requests[i], now)
	}
	return score, nil
}

// WithClock overrides the time source, for tests.
func (w *Weighted) WithClock(now func() time.Time) *Weighted {
	w.now = now
	return w
}

func requestWeight(r *domain.HelpRequest, now time.Time) float64 {
	priorityWeight, ok := priorityWeights[r.Priority]
	if !ok {
		priorityWeight = defaultPriorityWeight
	}
	statusWeight, ok := statusWeights[r.Status]
	if !ok {
		statusWeight = defaultStatusWeight
	}

	hours := now.Sub(r.ActivityTime()).Hours()
	timeFactor := 1.0 + hours*hourlyGrowth

	return priorityWeight * statusWeight * timeFactor
}
