package handler

import (
	"errors"

	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InvoiceHandler struct {
	service service.MatchingService
}

func NewInvoiceHandler(s service.MatchingService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var invoice model.Invoice
	if err := c.BodyParser(&invoice); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateInvoice(&invoice, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Invoice created", "data": invoice})
}

func (h *InvoiceHandler) GetAll(c *fiber.Ctx) error {
	invoices, err := h.service.GetInvoices()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(invoices)
}

func (h *InvoiceHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice ID"})
	}

	invoice, err := h.service.GetInvoiceByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Invoice not found"})
	}
	return c.JSON(invoice)
}

// EvaluateLine returns the computed match result for one invoice line. A
// tolerance breach is a normal outcome here, never an error status.
func (h *InvoiceHandler) EvaluateLine(c *fiber.Ctx) error {
	lineID, err := parseUUID(c.Params("lineID"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice line ID"})
	}

	result, err := h.service.EvaluateLine(lineID)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

func (h *InvoiceHandler) RecordOverride(c *fiber.Ctx) error {
	lineID, err := parseUUID(c.Params("lineID"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid invoice line ID"})
	}

	var body struct {
		Score  decimal.Decimal `json:"score"`
		Reason string          `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	override, err := h.service.RecordOverride(lineID, body.Score, body.Reason, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrLineAlreadyOverridden) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Override recorded", "data": override})
}
