package dto

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/communitybridge/helpdesk-service/internal/domain"
	apperrors "github.com/communitybridge/helpdesk-service/pkg/util"
)

var validate = validator.New()

// Validate runs struct-tag validation and maps failures onto the error
// envelope.
func Validate(payload any) error {
	if err := validate.Struct(payload); err != nil {
		details := map[string]any{}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return apperrors.NewValidationError("invalid payload", details)
	}
	return nil
}

// CreateRequestPayload is the intake body.
type CreateRequestPayload struct {
	Category    string `json:"category" validate:"omitempty,max=100"`
	Title       string `json:"title" validate:"required,min=5,max=200"`
	Description string `json:"description" validate:"required,min=10,max=5000"`
	Priority    string `json:"priority" validate:"omitempty,oneof=urgent high medium low"`
}

// UpdateStatusPayload drives a lifecycle transition.
type UpdateStatusPayload struct {
	Status           string  `json:"status" validate:"required,oneof=new assigned blocked solved"`
	AssignedTo       *int64  `json:"assigned_to"`
	Priority         *string `json:"priority" validate:"omitempty,oneof=urgent high medium low"`
	BypassValidation bool    `json:"bypass_validation"`
}

// AssignPayload selects the tier for a manual auto-assign.
type AssignPayload struct {
	Priority string `json:"priority" validate:"omitempty,oneof=urgent high medium low"`
}

// RequestResponse is the outward help-request shape.
type RequestResponse struct {
	ID          int64                  `json:"id"`
	ExternalKey string                 `json:"external_key"`
	RequesterID int64                  `json:"requester_id"`
	Category    string                 `json:"category"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      domain.RequestStatus   `json:"status"`
	Priority    domain.RequestPriority `json:"priority"`
	AssignedTo  *int64                 `json:"assigned_to,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ResolvedAt  *time.Time             `json:"resolved_at,omitempty"`
}

// NewRequestResponse maps the domain aggregate.
func NewRequestResponse(r *domain.HelpRequest) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		ExternalKey: r.ExternalKey,
		RequesterID: r.RequesterID,
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		AssignedTo:  r.AssignedTo,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		ResolvedAt:  r.ResolvedAt,
	}
}
