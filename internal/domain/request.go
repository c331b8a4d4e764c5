package domain

import "time"

// RequestStatus enumerates lifecycle states for help requests.
type RequestStatus string

const (
	RequestStatusNew      RequestStatus = "new"
	RequestStatusAssigned RequestStatus = "assigned"
	RequestStatusBlocked  RequestStatus = "blocked"
	RequestStatusSolved   RequestStatus = "solved"
)

// RequestPriority enumerates urgency tiers. The "high" tier is special:
// it restricts the eligible technician pool to super admins.
type RequestPriority string

const (
	RequestPriorityUrgent RequestPriority = "urgent"
	RequestPriorityHigh   RequestPriority = "high"
	RequestPriorityMedium RequestPriority = "medium"
	RequestPriorityLow    RequestPriority = "low"
)

// HelpRequest is the aggregate for helpdesk support requests.
type HelpRequest struct {
	ID          int64
	ExternalKey string
	RequesterID int64
	Category    string
	Title       string
	Description string
	Status      RequestStatus
	Priority    RequestPriority
	AssignedTo  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}

// ActivityTime returns the timestamp used for workload time decay:
// updated_at when present, created_at otherwise.
func (r *HelpRequest) ActivityTime() time.Time {
	if r.UpdatedAt.IsZero() {
		return r.CreatedAt
	}
	return r.UpdatedAt
}

// IsActiveLoad reports whether the request counts toward its assignee's
// active load.
func (r *HelpRequest) IsActiveLoad() bool {
	return r.Status == RequestStatusAssigned || r.Status == RequestStatusBlocked
}

// PriorityRank returns the backlog sort rank for a priority. Unknown
// priorities, including "high", rank last.
func PriorityRank(p RequestPriority) int {
	switch p {
	case RequestPriorityUrgent:
		return 1
	case RequestPriorityMedium:
		return 2
	case RequestPriorityLow:
		return 3
	default:
		return 4
	}
}
