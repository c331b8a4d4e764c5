package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/communitybridge/helpdesk-service/internal/api/dto"
	"github.com/communitybridge/helpdesk-service/internal/domain"
	"github.com/communitybridge/helpdesk-service/internal/service"
	apperrors "github.com/communitybridge/helpdesk-service/pkg/util"
)

// AssignmentsHandler exposes the assignment engine.
type AssignmentsHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentsHandler constructs the handler.
func NewAssignmentsHandler(assignments *service.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments}
}

// Assign POST /helpdesk/requests/:id/assign.
func (h *AssignmentsHandler) Assign(c *fiber.Ctx) error {
	id, err := requestID(c)
	if err != nil {
		return err
	}

	var payload dto.AssignPayload
	if err := c.BodyParser(&payload); err != nil && len(c.Body()) > 0 {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(payload); err != nil {
		return err
	}
	priority := domain.RequestPriority(payload.Priority)
	if priority == "" {
		priority = domain.RequestPriorityMedium
	}

	result := h.assignments.Assign(c.UserContext(), id, priority)
	if !result.OK {
		return assignmentError(result)
	}
	return c.JSON(fiber.Map{"data": dto.NewAssignResponse(result)})
}

// assignmentError maps a failed engine result onto the error envelope. Pool
// failures carry the eligibility code; everything else keeps the coarse
// update-failed message.
func assignmentError(result service.AssignResult) error {
	switch result.Message {
	case apperrors.MsgNoTechnicians, apperrors.MsgNoSuitable, apperrors.MsgNoSuperAdmin:
		return apperrors.NewNoEligibleTechnician(map[string]any{"reason": result.Message})
	}
	return apperrors.NewDomainError(apperrors.CodeStoreUnavailable, result.Message, http.StatusConflict, nil)
}

// BulkAssign POST /helpdesk/assignments/bulk.
func (h *AssignmentsHandler) BulkAssign(c *fiber.Ctx) error {
	assigned, failures, err := h.assignments.DistributeBacklog(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkAssignResponse{
		AssignedCount: assigned,
		Failures:      failures,
	}})
}

// BulkSimpleAssign POST /helpdesk/assignments/bulk-simple.
func (h *AssignmentsHandler) BulkSimpleAssign(c *fiber.Ctx) error {
	assigned, failures, err := h.assignments.BulkSimpleAssign(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BulkAssignResponse{
		AssignedCount: assigned,
		Failures:      failures,
	}})
}

// Workload GET /helpdesk/workload.
func (h *AssignmentsHandler) Workload(c *fiber.Ctx) error {
	mode := c.Query("mode", "weighted")
	if mode != "weighted" && mode != "simple" {
		return fiber.NewError(http.StatusBadRequest, "mode must be weighted or simple")
	}

	rows, err := h.assignments.DashboardSnapshot(c.UserContext(), mode)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows, "mode": mode})
}
