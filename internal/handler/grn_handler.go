package handler

import (
	"errors"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type GRNHandler struct {
	service service.GRNService
}

func NewGRNHandler(s service.GRNService) *GRNHandler {
	return &GRNHandler{service: s}
}

// workflowError maps the error taxonomy onto HTTP statuses: invalid
// transitions are fatal conflicts, policy blocks carry their specific
// condition, everything else is a validation failure.
func workflowError(c *fiber.Ctx, err error) error {
	var overReceipt *service.OverReceiptError
	switch {
	case errors.Is(err, service.ErrInvalidTransition):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &overReceipt):
		return c.Status(422).JSON(fiber.Map{
			"error":    "over-receipt not allowed",
			"warnings": overReceipt.Warnings,
		})
	default:
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
}

func (h *GRNHandler) Create(c *fiber.Ctx) error {
	var grn model.GRN
	if err := c.BodyParser(&grn); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateDraft(&grn, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "GRN draft created", "data": grn})
}

func (h *GRNHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid GRN ID"})
	}

	var grn model.GRN
	if err := c.BodyParser(&grn); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateDraft(id, &grn, getUserID(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "GRN updated", "data": updated})
}

func (h *GRNHandler) Submit(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid GRN ID"})
	}

	grn, warnings, err := h.service.Submit(id, getUserID(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "GRN submitted", "data": grn, "warnings": warnings})
}

func (h *GRNHandler) Approve(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid GRN ID"})
	}

	var body struct {
		Comments string `json:"comments"`
	}
	_ = c.BodyParser(&body)

	grn, err := h.service.Approve(id, body.Comments, getUserID(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "GRN approved", "data": grn})
}

func (h *GRNHandler) Reject(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid GRN ID"})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	grn, err := h.service.Reject(id, body.Reason, getUserID(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "GRN rejected", "data": grn})
}

func (h *GRNHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid GRN ID"})
	}

	grn, err := h.service.Cancel(id, getUserID(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "GRN cancelled", "data": grn})
}

func (h *GRNHandler) Publish(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid GRN ID"})
	}

	grn, err := h.service.Publish(id, getUserID(c))
	if err != nil {
		return workflowError(c, err)
	}
	return c.JSON(fiber.Map{"message": "GRN published", "data": grn})
}

func (h *GRNHandler) GetAll(c *fiber.Ctx) error {
	grns, err := h.service.GetAll(model.GRNStatus(c.Query("status")))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(grns)
}

func (h *GRNHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid GRN ID"})
	}

	grn, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "GRN not found"})
	}
	return c.JSON(grn)
}
