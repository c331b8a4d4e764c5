package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/events"
	"github.com/communitybridge/helpdesk-service/internal/repository"
)

// NotificationService turns helpdesk events into in-app notification rows.
// Everything here is best-effort: a failed write is logged and dropped, it
// never propagates into the operation that raised the event.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRequestCreated, n.handleCreated)
	n.dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventRequestAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventRequestUnassigned, n.handleUnassigned)
	n.dispatcher.Subscribe(events.EventRequestEscalated, n.handleEscalated)
}

func (n *NotificationService) handleCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCreatedPayload)
	if !ok {
		return nil
	}
	n.notify(ctx, payload.OwnerID, "Help Request Submitted",
		fmt.Sprintf("Your help request #%d: '%s' has been submitted successfully. We will get back to you soon.",
			event.RequestID, payload.Title),
		event.RequestID, false)
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	n.notify(ctx, payload.OwnerID, "Help Request Status Updated",
		fmt.Sprintf("Your help request #%d: '%s' status has been changed to %s",
			event.RequestID, payload.Title, payload.NewStatus),
		event.RequestID, false)
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AssignedPayload)
	if !ok {
		return nil
	}
	// Work handoffs are forced past the technician's opt-out so assignments
	// cannot be missed silently.
	n.notify(ctx, payload.TechnicianID, "New Task Assignment",
		fmt.Sprintf("You have been assigned to help request #%d: '%s' from %s",
			event.RequestID, payload.Title, payload.OwnerName),
		event.RequestID, true)
	n.notify(ctx, payload.OwnerID, "Help Request Assigned",
		fmt.Sprintf("Your help request '%s' has been assigned to %s",
			payload.Title, payload.TechnicianName),
		event.RequestID, false)
	return nil
}

func (n *NotificationService) handleUnassigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UnassignedPayload)
	if !ok {
		return nil
	}
	if payload.PrevTechnicianID != nil {
		n.notify(ctx, *payload.PrevTechnicianID, "Request Unassigned",
			fmt.Sprintf("Help request #%d: '%s' has been unassigned from you",
				event.RequestID, payload.Title),
			event.RequestID, true)
	}
	n.notify(ctx, payload.OwnerID, "Help Request Unassigned",
		fmt.Sprintf("Your help request '%s' has been unassigned and is back in the queue",
			payload.Title),
		event.RequestID, false)
	return nil
}

func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EscalatedPayload)
	if !ok {
		return nil
	}
	if payload.TechnicianID != nil {
		n.notify(ctx, *payload.TechnicianID, "Escalated Help Request",
			fmt.Sprintf("High priority help request #%d: '%s' has been escalated to you",
				event.RequestID, payload.Title),
			event.RequestID, true)
	}
	if payload.PrevTechnicianID != nil {
		n.notify(ctx, *payload.PrevTechnicianID, "Request Escalated and Reassigned",
			fmt.Sprintf("Help request #%d: '%s' was escalated to HIGH and reassigned",
				event.RequestID, payload.Title),
			event.RequestID, true)
	}
	return nil
}

// notify writes one notification row. force bypasses the user's opt-out.
func (n *NotificationService) notify(ctx context.Context, userID int64, title, message string, requestID int64, force bool) {
	if !force {
		enabled, err := n.notifications.IsEnabled(ctx, userID)
		if err != nil {
			n.logger.Warn("notification preference lookup failed",
				zap.Int64("user_id", userID), zap.Error(err))
			return
		}
		if !enabled {
			return
		}
	}

	relatedID := requestID
	noti := &domain.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Category:  domain.NormalizeNotificationCategory("help_request"),
		RelatedID: &relatedID,
	}
	if err := n.notifications.Create(ctx, noti); err != nil {
		n.logger.Warn("notification write failed",
			zap.Int64("user_id", userID), zap.Error(err))
	}
}
