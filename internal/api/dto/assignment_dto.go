package dto

import "github.com/communitybridge/helpdesk-service/internal/service"

// AssignResponse wraps a single assignment outcome.
type AssignResponse struct {
	OK           bool   `json:"ok"`
	TechnicianID *int64 `json:"technician_id,omitempty"`
	Message      string `json:"message"`
}

// BulkAssignResponse reports a bulk run.
type BulkAssignResponse struct {
	AssignedCount int                         `json:"assigned_count"`
	Failures      []service.AssignmentFailure `json:"failures"`
}

// NewAssignResponse maps the service result.
func NewAssignResponse(r service.AssignResult) AssignResponse {
	return AssignResponse{OK: r.OK, TechnicianID: r.TechnicianID, Message: r.Message}
}
