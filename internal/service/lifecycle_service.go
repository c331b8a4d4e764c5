package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/events"
	"github.com/communitybridge/helpdesk-service/internal/observability"
	"github.com/communitybridge/helpdesk-service/internal/repository"
	apperrors "github.com/communitybridge/helpdesk-service/pkg/util"
)

// LifecycleService is the sole writer of help-request status and assignee.
type LifecycleService struct {
	requests    repository.RequestRepository
	technicians repository.TechnicianRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
}

// LifecycleDependencies bundles collaborators.
type LifecycleDependencies struct {
	RequestRepo    repository.RequestRepository
	TechnicianRepo repository.TechnicianRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Metrics        *observability.Metrics
}

// NewLifecycleService creates the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	return &LifecycleService{
		requests:    deps.RequestRepo,
		technicians: deps.TechnicianRepo,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		now:         time.Now,
	}
}

// TransitionInput describes one lifecycle move. AssignedTo nil clears the
// assignee. BypassValidation skips the transition table; it is reserved for
// privileged force-unassign operations and must never be reachable by
// ordinary callers.
type TransitionInput struct {
	RequestID        int64
	Status           domain.RequestStatus
	AssignedTo       *int64
	Priority         *domain.RequestPriority
	BypassValidation bool
}

// Transition validates and applies one status transition. It mutates nothing
// on any failure path. Notification side effects ride on events and are
// best-effort by contract.
func (s *LifecycleService) Transition(ctx context.Context, input TransitionInput) error {
	current, err := s.requests.GetByID(ctx, input.RequestID)
	if err != nil {
		// The outward contract is coarse on purpose: a missing row and an
		// unreachable store report the same failure.
		return apperrors.NewStoreUnavailable(err)
	}

	if !input.BypassValidation {
		if err := domain.ValidateTransition(current.Status, input.Status); err != nil {
			s.metrics.RecordTransition(string(current.Status), string(input.Status), "rejected")
			return apperrors.NewInvalidTransition(err)
		}
	}

	update := repository.TransitionUpdate{
		RequestID:  input.RequestID,
		Status:     input.Status,
		AssignedTo: input.AssignedTo,
		Priority:   input.Priority,
	}
	if input.Status == domain.RequestStatusSolved {
		resolvedAt := s.now()
		update.ResolvedAt = &resolvedAt
	}

	if err := s.requests.ApplyTransition(ctx, update); err != nil {
		s.logger.Error("transition write failed",
			zap.Int64("request_id", input.RequestID),
			zap.String("status", string(input.Status)),
			zap.Error(err))
		return apperrors.NewStoreUnavailable(err)
	}
	s.metrics.RecordTransition(string(current.Status), string(input.Status), "applied")

	s.publishChanges(ctx, current, input)
	return nil
}

func (s *LifecycleService) publishChanges(ctx context.Context, old *domain.HelpRequest, input TransitionInput) {
	if s.dispatcher == nil {
		return
	}

	if old.Status != input.Status {
		s.publish(ctx, events.EventRequestStatusChanged, input.RequestID, events.StatusChangedPayload{
			OwnerID:   old.RequesterID,
			Title:     old.Title,
			OldStatus: old.Status,
			NewStatus: input.Status,
		})
	}

	if !sameAssignee(old.AssignedTo, input.AssignedTo) {
		if input.AssignedTo != nil {
			s.publish(ctx, events.EventRequestAssigned, input.RequestID, events.AssignedPayload{
				OwnerID:        old.RequesterID,
				OwnerName:      s.displayName(ctx, old.RequesterID, "a community member"),
				Title:          old.Title,
				TechnicianID:   *input.AssignedTo,
				TechnicianName: s.displayName(ctx, *input.AssignedTo, "a support technician"),
			})
		} else {
			s.publish(ctx, events.EventRequestUnassigned, input.RequestID, events.UnassignedPayload{
				OwnerID:          old.RequesterID,
				Title:            old.Title,
				PrevTechnicianID: old.AssignedTo,
			})
		}
	}

	if input.Priority != nil && *input.Priority == domain.RequestPriorityHigh && old.Priority != domain.RequestPriorityHigh {
		payload := events.EscalatedPayload{
			Title:        old.Title,
			TechnicianID: input.AssignedTo,
		}
		if old.AssignedTo != nil && !sameAssignee(old.AssignedTo, input.AssignedTo) {
			payload.PrevTechnicianID = old.AssignedTo
		}
		s.publish(ctx, events.EventRequestEscalated, input.RequestID, payload)
	}
}

func (s *LifecycleService) publish(ctx context.Context, eventType events.EventType, requestID int64, payload interface{}) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RequestID: requestID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}

// displayName resolves a name for notification text; the lookup is
// best-effort only.
func (s *LifecycleService) displayName(ctx context.Context, userID int64, fallback string) string {
	if s.technicians == nil {
		return fallback
	}
	tech, err := s.technicians.GetByID(ctx, userID)
	if err != nil {
		return fallback
	}
	return tech.FullName()
}

func sameAssignee(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
