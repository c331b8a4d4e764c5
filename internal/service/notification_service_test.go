package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/communitybridge/helpdesk-service/internal/events"
)

func newNotificationFixture() (*fakeNotificationRepo, events.Dispatcher) {
	repo := newFakeNotificationRepo()
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(repo, dispatcher, zap.NewNop()).RegisterHandlers()
	return repo, dispatcher
}

func TestNotifyRequesterOnSubmission(t *testing.T) {
	repo, dispatcher := newNotificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestCreated,
		RequestID: 10,
		Payload: events.RequestCreatedPayload{
			OwnerID: 100,
			Title:   "printer on fire",
		},
	})

	require.NoError(t, err)
	created := repo.all()
	require.Len(t, created, 1)
	require.Equal(t, int64(100), created[0].UserID)
	require.Equal(t, "Help Request Submitted", created[0].Title)
	require.Contains(t, created[0].Message, "printer on fire")
	require.Contains(t, created[0].Message, "submitted successfully")
	require.Equal(t, int64(10), *created[0].RelatedID)
}

func TestSubmissionNotificationRespectsOptOut(t *testing.T) {
	repo, dispatcher := newNotificationFixture()
	repo.enabled[100] = false

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestCreated,
		RequestID: 10,
		Payload:   events.RequestCreatedPayload{OwnerID: 100, Title: "printer on fire"},
	})

	require.NoError(t, err)
	require.Empty(t, repo.all())
}

func TestNotifyOwnerOnStatusChange(t *testing.T) {
	repo, dispatcher := newNotificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: 10,
		Payload: events.StatusChangedPayload{
			OwnerID:   100,
			Title:     "printer on fire",
			OldStatus: "new",
			NewStatus: "assigned",
		},
	})

	require.NoError(t, err)
	created := repo.all()
	require.Len(t, created, 1)
	require.Equal(t, int64(100), created[0].UserID)
	require.Contains(t, created[0].Message, "printer on fire")
	require.Contains(t, created[0].Message, "assigned")
	require.NotNil(t, created[0].RelatedID)
	require.Equal(t, int64(10), *created[0].RelatedID)
}

func TestNotifyRespectsOptOut(t *testing.T) {
	repo, dispatcher := newNotificationFixture()
	repo.enabled[100] = false

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: 10,
		Payload: events.StatusChangedPayload{
			OwnerID:   100,
			Title:     "printer on fire",
			NewStatus: "solved",
		},
	})

	require.NoError(t, err)
	require.Empty(t, repo.all())
}

func TestAssignmentHandoffForcesPastOptOut(t *testing.T) {
	repo, dispatcher := newNotificationFixture()
	repo.enabled[5] = false
	repo.enabled[100] = false

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestAssigned,
		RequestID: 10,
		Payload: events.AssignedPayload{
			OwnerID:        100,
			OwnerName:      "Pat Smith",
			Title:          "printer on fire",
			TechnicianID:   5,
			TechnicianName: "Tech User",
		},
	})

	require.NoError(t, err)
	created := repo.all()
	// The technician's handoff goes through despite the opt-out; the owner's
	// courtesy copy respects it.
	require.Len(t, created, 1)
	require.Equal(t, int64(5), created[0].UserID)
	require.Equal(t, "New Task Assignment", created[0].Title)
	require.Contains(t, created[0].Message, "from Pat Smith")
}

func TestUnassignNotifiesPreviousTechnician(t *testing.T) {
	repo, dispatcher := newNotificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestUnassigned,
		RequestID: 10,
		Payload: events.UnassignedPayload{
			OwnerID:          100,
			Title:            "printer on fire",
			PrevTechnicianID: int64Ptr(5),
		},
	})

	require.NoError(t, err)
	created := repo.all()
	require.Len(t, created, 2)
	require.Equal(t, int64(5), created[0].UserID)
	require.Contains(t, created[0].Message, "unassigned from you")
	require.Equal(t, int64(100), created[1].UserID)
	require.Contains(t, created[1].Message, "back in the queue")
}

func TestEscalationNotifiesBothTechnicians(t *testing.T) {
	repo, dispatcher := newNotificationFixture()

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestEscalated,
		RequestID: 10,
		Payload: events.EscalatedPayload{
			Title:            "printer on fire",
			TechnicianID:     int64Ptr(5),
			PrevTechnicianID: int64Ptr(1),
		},
	})

	require.NoError(t, err)
	created := repo.all()
	require.Len(t, created, 2)
	require.Equal(t, int64(5), created[0].UserID)
	require.Contains(t, created[0].Message, "escalated to you")
	require.Equal(t, int64(1), created[1].UserID)
	require.Contains(t, created[1].Message, "reassigned")
}

func TestNotificationWriteFailureIsSwallowed(t *testing.T) {
	repo, dispatcher := newNotificationFixture()
	repo.writeErr = errors.New("connection refused")

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: 10,
		Payload: events.StatusChangedPayload{
			OwnerID: 100,
			Title:   "printer on fire",
		},
	})

	require.NoError(t, err)
	require.Empty(t, repo.all())
}
