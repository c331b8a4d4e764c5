package events

import (
	"time"

	"github.com/communitybridge/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestAssigned      EventType = "request_assigned"
	EventRequestUnassigned    EventType = "request_unassigned"
	EventRequestEscalated     EventType = "request_escalated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID int64       `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	OwnerID  int64                  `json:"owner_id"`
	Title    string                 `json:"title"`
	Priority domain.RequestPriority `json:"priority"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OwnerID   int64                `json:"owner_id"`
	Title     string               `json:"title"`
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// AssignedPayload payload. TechnicianName carries a display name so
// subscribers do not need a directory lookup.
type AssignedPayload struct {
	OwnerID        int64  `json:"owner_id"`
	OwnerName      string `json:"owner_name"`
	Title          string `json:"title"`
	TechnicianID   int64  `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
}

// UnassignedPayload payload.
type UnassignedPayload struct {
	OwnerID          int64  `json:"owner_id"`
	Title            string `json:"title"`
	PrevTechnicianID *int64 `json:"prev_technician_id,omitempty"`
}

// EscalatedPayload payload, published when priority is raised to high.
type EscalatedPayload struct {
	Title            string `json:"title"`
	TechnicianID     *int64 `json:"technician_id,omitempty"`
	PrevTechnicianID *int64 `json:"prev_technician_id,omitempty"`
}
