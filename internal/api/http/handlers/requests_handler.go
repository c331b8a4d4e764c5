package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/communitybridge/helpdesk-service/internal/api/dto"
	"github.com/communitybridge/helpdesk-service/internal/auth"
	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/service"
)

// RequestsHandler handles help-request intake and lifecycle endpoints.
type RequestsHandler struct {
	requests    *service.RequestService
	assignments *service.AssignmentService
	lifecycle   *service.LifecycleService
}

// NewRequestsHandler constructs the handler.
func NewRequestsHandler(requests *service.RequestService, assignments *service.AssignmentService, lifecycle *service.LifecycleService) *RequestsHandler {
	return &RequestsHandler{requests: requests, assignments: assignments, lifecycle: lifecycle}
}

// Create POST /helpdesk/requests.
func (h *RequestsHandler) Create(c *fiber.Ctx) error {
	principal, err := callerPrincipal(c)
	if err != nil {
		return err
	}

	var payload dto.CreateRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(payload); err != nil {
		return err
	}

	request, err := h.requests.Create(c.UserContext(), principal.UserID, service.RequestCreateInput{
		Category:    payload.Category,
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    domain.RequestPriority(payload.Priority),
	})
	if err != nil {
		return err
	}

	response := fiber.Map{"data": dto.NewRequestResponse(request)}

	// High priority requests stay in the queue for a super admin; everything
	// else is routed immediately via the cheap counting strategy.
	if h.assignments.ShouldAutoAssign(request.Priority) {
		result := h.assignments.SimpleAssign(c.UserContext(), request.ID, request.Priority)
		response["assignment"] = dto.NewAssignResponse(result)
		if result.OK {
			if updated, err := h.requests.Get(c.UserContext(), request.ID); err == nil {
				response["data"] = dto.NewRequestResponse(updated)
			}
		}
	}

	return c.Status(http.StatusCreated).JSON(response)
}

// Get GET /helpdesk/requests/:id.
func (h *RequestsHandler) Get(c *fiber.Ctx) error {
	principal, err := callerPrincipal(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}

	request, err := h.requests.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !principal.IsStaff() && request.RequesterID != principal.UserID {
		return fiber.NewError(http.StatusForbidden, "access denied")
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

// UpdateStatus PATCH /helpdesk/requests/:id/status.
func (h *RequestsHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, err := callerPrincipal(c)
	if err != nil {
		return err
	}
	id, err := requestID(c)
	if err != nil {
		return err
	}

	var payload dto.UpdateStatusPayload
	if err := c.BodyParser(&payload); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(payload); err != nil {
		return err
	}

	var priority *domain.RequestPriority
	if payload.Priority != nil {
		p := domain.RequestPriority(*payload.Priority)
		priority = &p
	}

	// Only super admins may skip the transition table.
	bypass := payload.BypassValidation && principal.IsSuperAdmin()

	err = h.lifecycle.Transition(c.UserContext(), service.TransitionInput{
		RequestID:        id,
		Status:           domain.RequestStatus(payload.Status),
		AssignedTo:       payload.AssignedTo,
		Priority:         priority,
		BypassValidation: bypass,
	})
	if err != nil {
		return err
	}

	request, err := h.requests.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(request)})
}

func callerPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, fiber.NewError(http.StatusUnauthorized, "authentication required")
	}
	return principal, nil
}

func requestID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid request id")
	}
	return id, nil
}
