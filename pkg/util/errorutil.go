package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Engine failure messages. The operation boundary deliberately reports a
// coarse ok+message contract: callers cannot distinguish a missing row from
// an unreachable store, and that is the documented behavior.
const (
	MsgNoTechnicians    = "No available technicians found"
	MsgNoSuitable       = "No suitable technician found"
	MsgNoSuperAdmin     = "No super admin available for high priority request"
	MsgUpdateFailed     = "Failed to update request status"
	MsgStoreUnavailable = "Helpdesk storage is temporarily unavailable"

	CodeNoEligible        = "NO_ELIGIBLE_TECHNICIAN"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeStoreUnavailable  = "STORE_UNAVAILABLE"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewNoEligibleTechnician reports an empty technician pool for a tier.
func NewNoEligibleTechnician(details map[string]any) error {
	return NewDomainError(CodeNoEligible, MsgNoTechnicians, http.StatusConflict, details)
}

// NewInvalidTransition reports a rejected lifecycle move.
func NewInvalidTransition(err error) error {
	return &DomainError{
		Code:       CodeInvalidTransition,
		Message:    err.Error(),
		HTTPStatus: http.StatusConflict,
	}
}

// NewStoreUnavailable wraps any store read/write failure. The cause stays
// attached for logs; the outward message is intentionally generic.
func NewStoreUnavailable(err error) error {
	return &DomainError{
		Code:       CodeStoreUnavailable,
		Message:    MsgStoreUnavailable,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError converts an error into the DomainError envelope.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
