package workload

import "context"

// SimpleCount scores a technician by the plain number of active-load
// requests, ignoring weights. Used at request creation time and by the
// simple bulk path.
type SimpleCount struct {
	store ActiveLoadSource
}

// NewSimpleCount creates the counting strategy.
func NewSimpleCount(store ActiveLoadSource) *SimpleCount {
	return &SimpleCount{store: store}
}

var _ Strategy = (*SimpleCount)(nil)

// Name identifies the strategy in metrics and dashboard output.
func (s *SimpleCount) Name() string { return "simple" }

// Score returns the active-load count as a float for strategy comparability.
func (s *SimpleCount) Score(ctx context.Context, technicianID int64) (float64, error) {
	count, err := s.store.CountActiveForTechnician(ctx, technicianID)
	if err != nil {
		return 0, err
	}
	return float64(count), nil
}
