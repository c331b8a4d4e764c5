package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/events"
	"github.com/communitybridge/helpdesk-service/internal/repository"
	apperrors "github.com/communitybridge/helpdesk-service/pkg/util"
)

// RequestService handles help-request intake and reads.
type RequestService struct {
	requests   repository.RequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewRequestService constructs the service.
func NewRequestService(requests repository.RequestRepository, dispatcher events.Dispatcher, logger *zap.Logger) *RequestService {
	return &RequestService{
		requests:   requests,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// RequestCreateInput describes an intake payload.
type RequestCreateInput struct {
	Category    string
	Title       string
	Description string
	Priority    domain.RequestPriority
}

// Create stores a new help request in status new.
func (s *RequestService) Create(ctx context.Context, requesterID int64, input RequestCreateInput) (*domain.HelpRequest, error) {
	request := &domain.HelpRequest{
		ExternalKey: uuid.NewString(),
		RequesterID: requesterID,
		Category:    strings.TrimSpace(input.Category),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.RequestStatusNew,
		Priority:    input.Priority,
	}
	if request.Category == "" {
		request.Category = "general"
	}
	if request.Priority == "" {
		request.Priority = domain.RequestPriorityMedium
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.NewStoreUnavailable(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRequestCreated,
			RequestID: request.ID,
			Timestamp: s.now(),
			Payload: events.RequestCreatedPayload{
				OwnerID:  request.RequesterID,
				Title:    request.Title,
				Priority: request.Priority,
			},
		})
	}
	return request, nil
}

// Get fetches one request by id.
func (s *RequestService) Get(ctx context.Context, id int64) (*domain.HelpRequest, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return request, nil
}
