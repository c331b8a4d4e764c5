// Package workload scores how busy a technician currently is. Two strategies
// coexist on purpose: the weighted score drives manual rebalancing and the
// balanced bulk path, while the plain count serves the low-latency
// creation-time path. They produce different dashboard numbers and must not
// be unified.
package workload

import (
	"context"

	"github.com/communitybridge/helpdesk-service/internal/domain"
)

// ActiveLoadSource is the slice of the request store the strategies read.
type ActiveLoadSource interface {
	ListActiveForTechnician(ctx context.Context, technicianID int64) ([]domain.HelpRequest, error)
	CountActiveForTechnician(ctx context.Context, technicianID int64) (int, error)
}

// Strategy computes a non-negative busyness score for one technician.
// Higher means busier. A returned error means the load is unknown; callers
// must treat such a technician as maximally busy, never as idle.
type Strategy interface {
	Name() string
	Score(ctx context.Context, technicianID int64) (float64, error)
}
