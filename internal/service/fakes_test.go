package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/repository"
)

type fakeRequestRepo struct {
	mu            sync.Mutex
	requests      map[int64]*domain.HelpRequest
	nextID        int64
	listActiveErr map[int64]error
	applyErr      map[int64]error
	listUnassErr  error
}

func newFakeRequestRepo(requests ...*domain.HelpRequest) *fakeRequestRepo {
	repo := &fakeRequestRepo{
		requests:      make(map[int64]*domain.HelpRequest),
		nextID:        1,
		listActiveErr: make(map[int64]error),
		applyErr:      make(map[int64]error),
	}
	for _, r := range requests {
		repo.requests[r.ID] = r
		if r.ID >= repo.nextID {
			repo.nextID = r.ID + 1
		}
	}
	return repo
}

func (f *fakeRequestRepo) Create(_ context.Context, request *domain.HelpRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	request.ID = f.nextID
	f.nextID++
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRequestRepo) GetByID(_ context.Context, id int64) (*domain.HelpRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, ok := f.requests[id]
	if !ok {
		return nil, errors.New("request not found")
	}
	clone := *request
	return &clone, nil
}

func (f *fakeRequestRepo) ListActiveForTechnician(_ context.Context, technicianID int64) ([]domain.HelpRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.listActiveErr[technicianID]; err != nil {
		return nil, err
	}
	var result []domain.HelpRequest
	for _, r := range f.requests {
		if r.AssignedTo != nil && *r.AssignedTo == technicianID && r.IsActiveLoad() {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) CountActiveForTechnician(ctx context.Context, technicianID int64) (int, error) {
	active, err := f.ListActiveForTechnician(ctx, technicianID)
	if err != nil {
		return 0, err
	}
	return len(active), nil
}

func (f *fakeRequestRepo) ListUnassigned(_ context.Context) ([]domain.HelpRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listUnassErr != nil {
		return nil, f.listUnassErr
	}
	var result []domain.HelpRequest
	for _, r := range f.requests {
		if r.AssignedTo == nil && r.Status != domain.RequestStatusSolved {
			result = append(result, *r)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		ri, rj := domain.PriorityRank(result[i].Priority), domain.PriorityRank(result[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeRequestRepo) ApplyTransition(_ context.Context, update repository.TransitionUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.applyErr[update.RequestID]; err != nil {
		return err
	}
	request, ok := f.requests[update.RequestID]
	if !ok {
		return errors.New("request not found")
	}
	request.Status = update.Status
	request.AssignedTo = update.AssignedTo
	if update.Priority != nil {
		request.Priority = *update.Priority
	}
	if update.ResolvedAt != nil {
		request.ResolvedAt = update.ResolvedAt
	}
	request.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestRepo) WorkloadStats(ctx context.Context, technicianID int64) (*repository.WorkloadStats, error) {
	active, err := f.ListActiveForTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	stats := &repository.WorkloadStats{TotalAssigned: len(active)}
	for _, r := range active {
		switch r.Status {
		case domain.RequestStatusAssigned:
			stats.ActiveCount++
		case domain.RequestStatusBlocked:
			stats.BlockedCount++
		}
		if r.Priority == domain.RequestPriorityUrgent {
			stats.UrgentCount++
		}
	}
	return stats, nil
}

func (f *fakeRequestRepo) get(id int64) *domain.HelpRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[id]
}

type fakeTechnicianRepo struct {
	technicians []domain.Technician
	listErr     error
}

func (f *fakeTechnicianRepo) GetByID(_ context.Context, id int64) (*domain.Technician, error) {
	for i := range f.technicians {
		if f.technicians[i].ID == id {
			clone := f.technicians[i]
			return &clone, nil
		}
	}
	return nil, errors.New("technician not found")
}

func (f *fakeTechnicianRepo) ListEligible(_ context.Context, priority domain.RequestPriority) ([]domain.Technician, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []domain.Technician
	for _, tech := range f.technicians {
		if !tech.Active {
			continue
		}
		if priority == domain.RequestPriorityHigh && tech.Role != domain.RoleSuperAdmin {
			continue
		}
		result = append(result, tech)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type fakeNotificationRepo struct {
	mu       sync.Mutex
	enabled  map[int64]bool
	created  []domain.Notification
	writeErr error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{enabled: make(map[int64]bool)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, noti *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	noti.ID = int64(len(f.created) + 1)
	f.created = append(f.created, *noti)
	return nil
}

func (f *fakeNotificationRepo) IsEnabled(_ context.Context, userID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	enabled, ok := f.enabled[userID]
	if !ok {
		return true, nil
	}
	return enabled, nil
}

func (f *fakeNotificationRepo) all() []domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Notification{}, f.created...)
}

func technician(id int64, role domain.TechnicianRole) domain.Technician {
	return domain.Technician{
		ID:        id,
		Username:  "tech",
		FirstName: "Tech",
		LastName:  "User",
		Role:      role,
		Active:    true,
	}
}

func int64Ptr(v int64) *int64 { return &v }
