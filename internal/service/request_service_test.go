package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/events"
)

func TestCreateRequestDefaults(t *testing.T) {
	requests := newFakeRequestRepo()
	dispatcher := &capturingDispatcher{}
	svc := NewRequestService(requests, dispatcher, zap.NewNop())

	created, err := svc.Create(context.Background(), 100, RequestCreateInput{
		Title:       "  printer on fire  ",
		Description: "smoke coming out of the tray",
	})

	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.NotEmpty(t, created.ExternalKey)
	require.Equal(t, "printer on fire", created.Title)
	require.Equal(t, "general", created.Category)
	require.Equal(t, domain.RequestStatusNew, created.Status)
	require.Equal(t, domain.RequestPriorityMedium, created.Priority)
	require.Nil(t, created.AssignedTo)

	published := dispatcher.ofType(events.EventRequestCreated)
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.RequestCreatedPayload)
	require.True(t, ok)
	require.Equal(t, int64(100), payload.OwnerID)
	require.Equal(t, domain.RequestPriorityMedium, payload.Priority)
}

func TestCreateRequestKeepsExplicitValues(t *testing.T) {
	requests := newFakeRequestRepo()
	svc := NewRequestService(requests, nil, zap.NewNop())

	created, err := svc.Create(context.Background(), 100, RequestCreateInput{
		Category:    "billing",
		Title:       "invoice missing",
		Description: "last month's invoice never arrived",
		Priority:    domain.RequestPriorityUrgent,
	})

	require.NoError(t, err)
	require.Equal(t, "billing", created.Category)
	require.Equal(t, domain.RequestPriorityUrgent, created.Priority)
}

func TestCreateRequestNotifiesRequester(t *testing.T) {
	requests := newFakeRequestRepo()
	notifications := newFakeNotificationRepo()
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(notifications, dispatcher, zap.NewNop()).RegisterHandlers()
	svc := NewRequestService(requests, dispatcher, zap.NewNop())

	created, err := svc.Create(context.Background(), 100, RequestCreateInput{
		Title:       "printer on fire",
		Description: "smoke coming out of the tray",
	})

	require.NoError(t, err)
	rows := notifications.all()
	require.Len(t, rows, 1)
	require.Equal(t, int64(100), rows[0].UserID)
	require.Equal(t, "Help Request Submitted", rows[0].Title)
	require.Equal(t, created.ID, *rows[0].RelatedID)
}

func TestGetRequestNotFound(t *testing.T) {
	svc := NewRequestService(newFakeRequestRepo(), nil, zap.NewNop())

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
}
