package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/observability"
	"github.com/communitybridge/helpdesk-service/internal/persistence"
	"github.com/communitybridge/helpdesk-service/internal/repository"
	"github.com/communitybridge/helpdesk-service/internal/workload"
	apperrors "github.com/communitybridge/helpdesk-service/pkg/util"
)

// AssignResult reports the outcome of a single assignment operation. The
// boolean-plus-message shape is the external contract: internal faults never
// escape as raw errors.
type AssignResult struct {
	OK           bool   `json:"ok"`
	TechnicianID *int64 `json:"technician_id,omitempty"`
	Message      string `json:"message"`
}

// AssignmentFailure records one ticket that a bulk run could not place.
type AssignmentFailure struct {
	RequestID int64  `json:"request_id"`
	Reason    string `json:"reason"`
}

// TechnicianWorkload is one dashboard row.
type TechnicianWorkload struct {
	TechnicianID  int64                 `json:"technician_id"`
	Name          string                `json:"name"`
	Role          domain.TechnicianRole `json:"role"`
	WorkloadScore float64               `json:"workload_score"`
	TotalAssigned int                   `json:"total_assigned"`
	ActiveCount   int                   `json:"active_count"`
	BlockedCount  int                   `json:"blocked_count"`
	UrgentCount   int                   `json:"urgent_count"`
}

const dashboardCacheKey = "helpdesk:workload:simple"

// AssignmentService routes help requests to technicians.
type AssignmentService struct {
	requests    repository.RequestRepository
	technicians repository.TechnicianRepository
	lifecycle   *LifecycleService
	weighted    workload.Strategy
	simple      workload.Strategy
	cache       *persistence.Redis
	cacheTTL    time.Duration
	logger      *zap.Logger
	metrics     *observability.Metrics
}

// AssignmentDependencies bundles collaborators.
type AssignmentDependencies struct {
	RequestRepo    repository.RequestRepository
	TechnicianRepo repository.TechnicianRepository
	Lifecycle      *LifecycleService
	Weighted       workload.Strategy
	Simple         workload.Strategy
	Cache          *persistence.Redis
	CacheTTL       time.Duration
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		requests:    deps.RequestRepo,
		technicians: deps.TechnicianRepo,
		lifecycle:   deps.Lifecycle,
		weighted:    deps.Weighted,
		simple:      deps.Simple,
		cache:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
	}
}

// ShouldAutoAssign reports whether a freshly created request is assigned
// immediately. High priority requests wait for a super admin to act.
func (s *AssignmentService) ShouldAutoAssign(priority domain.RequestPriority) bool {
	return priority != domain.RequestPriorityHigh
}

// Assign routes one request to the least busy eligible technician using the
// weighted score.
func (s *AssignmentService) Assign(ctx context.Context, requestID int64, priority domain.RequestPriority) AssignResult {
	return s.assignWith(ctx, requestID, priority, s.weighted,
		func(tech *domain.Technician, score float64) string {
			return fmt.Sprintf("Auto-assigned to %s (workload: %.2f)", tech.FullName(), score)
		})
}

// SimpleAssign is the low-latency creation-time variant: it selects by plain
// active-load count instead of the weighted score.
func (s *AssignmentService) SimpleAssign(ctx context.Context, requestID int64, priority domain.RequestPriority) AssignResult {
	return s.assignWith(ctx, requestID, priority, s.simple,
		func(tech *domain.Technician, score float64) string {
			return fmt.Sprintf("Assigned to %s (current workload: %d)", tech.FullName(), int(score))
		})
}

func (s *AssignmentService) assignWith(ctx context.Context, requestID int64, priority domain.RequestPriority, strategy workload.Strategy, message func(*domain.Technician, float64) string) AssignResult {
	pool, err := s.technicians.ListEligible(ctx, priority)
	if err != nil {
		s.logger.Error("technician pool lookup failed", zap.Error(err))
		s.metrics.RecordAssignment(strategy.Name(), "pool_error")
		return AssignResult{OK: false, Message: apperrors.MsgNoTechnicians}
	}
	if len(pool) == 0 {
		s.metrics.RecordAssignment(strategy.Name(), "no_pool")
		return AssignResult{OK: false, Message: apperrors.MsgNoTechnicians}
	}

	best, score := s.leastBusy(ctx, pool, strategy)
	if best == nil {
		s.metrics.RecordAssignment(strategy.Name(), "no_candidate")
		return AssignResult{OK: false, Message: apperrors.MsgNoSuitable}
	}

	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		s.metrics.RecordAssignment(strategy.Name(), "store_error")
		return AssignResult{OK: false, Message: apperrors.MsgUpdateFailed}
	}
	// A request already in assigned must be explicitly unassigned before it
	// can be routed again; the same-state allowance in the transition table
	// does not apply here.
	if request.Status == domain.RequestStatusAssigned {
		s.metrics.RecordAssignment(strategy.Name(), "already_assigned")
		return AssignResult{OK: false, Message: apperrors.MsgUpdateFailed}
	}

	err = s.lifecycle.Transition(ctx, TransitionInput{
		RequestID:  requestID,
		Status:     domain.RequestStatusAssigned,
		AssignedTo: &best.ID,
		Priority:   &priority,
	})
	if err != nil {
		s.metrics.RecordAssignment(strategy.Name(), "transition_rejected")
		return AssignResult{OK: false, Message: apperrors.MsgUpdateFailed}
	}

	s.metrics.RecordAssignment(strategy.Name(), "assigned")
	return AssignResult{
		OK:           true,
		TechnicianID: &best.ID,
		Message:      message(best, score),
	}
}

// leastBusy scans the id-ordered pool keeping the first strict minimum, so
// equal scores resolve to the lowest id. A technician whose score cannot be
// read is treated as maximally busy and never selected.
func (s *AssignmentService) leastBusy(ctx context.Context, pool []domain.Technician, strategy workload.Strategy) (*domain.Technician, float64) {
	var best *domain.Technician
	lowest := math.Inf(1)

	for i := range pool {
		score, err := strategy.Score(ctx, pool[i].ID)
		if err != nil {
			s.logger.Warn("workload score unavailable",
				zap.Int64("technician_id", pool[i].ID),
				zap.String("strategy", strategy.Name()),
				zap.Error(err))
			continue
		}
		if score < lowest {
			lowest = score
			best = &pool[i]
		}
	}
	return best, lowest
}

// Distribute assigns a backlog across the technician pool using a one-time
// weighted snapshot plus an in-memory pending counter per technician. The
// store is never re-read mid-run. The pending increment is exactly 1 per
// placed request regardless of its weight; the mixed weighted/unweighted
// accounting is the documented behavior.
func (s *AssignmentService) Distribute(ctx context.Context, backlog []domain.HelpRequest) (int, []AssignmentFailure) {
	failures := []AssignmentFailure{}
	if len(backlog) == 0 {
		return 0, failures
	}

	sorted := make([]domain.HelpRequest, len(backlog))
	copy(sorted, backlog)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, rj := domain.PriorityRank(sorted[i].Priority), domain.PriorityRank(sorted[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	pool, err := s.technicians.ListEligible(ctx, domain.RequestPriorityMedium)
	if err != nil || len(pool) == 0 {
		if err != nil {
			s.logger.Error("technician pool lookup failed", zap.Error(err))
		}
		for _, req := range sorted {
			failures = append(failures, AssignmentFailure{RequestID: req.ID, Reason: apperrors.MsgNoTechnicians})
		}
		return 0, failures
	}

	snapshot := make(map[int64]float64, len(pool))
	for i := range pool {
		score, err := s.weighted.Score(ctx, pool[i].ID)
		if err != nil {
			s.logger.Warn("snapshot score unavailable; technician treated as maximally busy",
				zap.Int64("technician_id", pool[i].ID),
				zap.Error(err))
			score = math.Inf(1)
		}
		snapshot[pool[i].ID] = score
	}
	pending := make(map[int64]int, len(pool))

	assigned := 0
	for _, req := range sorted {
		candidates := pool
		if req.Priority == domain.RequestPriorityHigh {
			candidates = superAdmins(pool)
			if len(candidates) == 0 {
				failures = append(failures, AssignmentFailure{RequestID: req.ID, Reason: apperrors.MsgNoSuperAdmin})
				continue
			}
		}

		best := &candidates[0]
		lowest := snapshot[best.ID] + float64(pending[best.ID])
		for i := 1; i < len(candidates); i++ {
			total := snapshot[candidates[i].ID] + float64(pending[candidates[i].ID])
			if total < lowest {
				lowest = total
				best = &candidates[i]
			}
		}

		priority := req.Priority
		err := s.lifecycle.Transition(ctx, TransitionInput{
			RequestID:  req.ID,
			Status:     domain.RequestStatusAssigned,
			AssignedTo: &best.ID,
			Priority:   &priority,
		})
		if err != nil {
			failures = append(failures, AssignmentFailure{RequestID: req.ID, Reason: apperrors.MsgUpdateFailed})
			continue
		}
		assigned++
		pending[best.ID]++
		s.metrics.RecordAssignment("batch", "assigned")
	}

	return assigned, failures
}

// DistributeBacklog loads the unassigned backlog and runs Distribute on it.
func (s *AssignmentService) DistributeBacklog(ctx context.Context) (int, []AssignmentFailure, error) {
	backlog, err := s.requests.ListUnassigned(ctx)
	if err != nil {
		return 0, nil, apperrors.NewStoreUnavailable(err)
	}
	assigned, failures := s.Distribute(ctx, backlog)
	return assigned, failures, nil
}

// BulkSimpleAssign walks the backlog re-reading the plain count per request.
// It trades the balanced-spread property of Distribute for fresher data.
func (s *AssignmentService) BulkSimpleAssign(ctx context.Context) (int, []AssignmentFailure, error) {
	backlog, err := s.requests.ListUnassigned(ctx)
	if err != nil {
		return 0, nil, apperrors.NewStoreUnavailable(err)
	}

	assigned := 0
	failures := []AssignmentFailure{}
	for _, req := range backlog {
		result := s.SimpleAssign(ctx, req.ID, req.Priority)
		if result.OK {
			assigned++
			continue
		}
		failures = append(failures, AssignmentFailure{RequestID: req.ID, Reason: result.Message})
	}
	return assigned, failures, nil
}

// DashboardSnapshot builds the per-technician workload view, ascending by
// score. Simple mode is served through a short-lived cache when available.
func (s *AssignmentService) DashboardSnapshot(ctx context.Context, mode string) ([]TechnicianWorkload, error) {
	strategy := s.weighted
	if mode == "simple" {
		strategy = s.simple
		if cached := s.cachedDashboard(ctx); cached != nil {
			return cached, nil
		}
	}

	pool, err := s.technicians.ListEligible(ctx, domain.RequestPriorityMedium)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	rows := make([]TechnicianWorkload, 0, len(pool))
	for i := range pool {
		tech := &pool[i]
		score, err := strategy.Score(ctx, tech.ID)
		if err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		stats, err := s.requests.WorkloadStats(ctx, tech.ID)
		if err != nil {
			return nil, apperrors.NewStoreUnavailable(err)
		}
		rows = append(rows, TechnicianWorkload{
			TechnicianID:  tech.ID,
			Name:          tech.FullName(),
			Role:          tech.Role,
			WorkloadScore: math.Round(score*100) / 100,
			TotalAssigned: stats.TotalAssigned,
			ActiveCount:   stats.ActiveCount,
			BlockedCount:  stats.BlockedCount,
			UrgentCount:   stats.UrgentCount,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WorkloadScore < rows[j].WorkloadScore
	})

	if mode == "simple" {
		s.storeDashboard(ctx, rows)
	}
	return rows, nil
}

func (s *AssignmentService) cachedDashboard(ctx context.Context) []TechnicianWorkload {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.GetString(ctx, dashboardCacheKey)
	if err != nil || raw == "" {
		return nil
	}
	var rows []TechnicianWorkload
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil
	}
	return rows
}

func (s *AssignmentService) storeDashboard(ctx context.Context, rows []TechnicianWorkload) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.cache.SetString(ctx, dashboardCacheKey, string(raw), s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
}

func superAdmins(pool []domain.Technician) []domain.Technician {
	admins := make([]domain.Technician, 0, len(pool))
	for _, tech := range pool {
		if tech.Role == domain.RoleSuperAdmin {
			admins = append(admins, tech)
		}
	}
	return admins
}
