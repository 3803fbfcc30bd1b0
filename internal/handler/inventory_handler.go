package handler

import (
	"go-procure-ledger/internal/ledger"
	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(s service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: s}
}

// Helper untuk ambil User Info dari JWT Context (set by auth middleware)
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system"
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func getUserEmail(c *fiber.Ctx) string {
	userEmail := c.Locals("user_email")
	if userEmail == nil {
		return ""
	}
	return userEmail.(string)
}

// Helper untuk parse UUID dari string
func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func queryUUID(c *fiber.Ctx, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (h *InventoryHandler) RecordEvent(c *fiber.Ctx) error {
	var event model.TransactionEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.RecordEvent(&event, getUserID(c), getUserName(c), getUserEmail(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(201).JSON(fiber.Map{"message": "Event recorded", "data": event})
}

func (h *InventoryHandler) GetEvents(c *fiber.Ctx) error {
	var filter repository.EventFilter

	productID, err := queryUUID(c, "product_id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product_id"})
	}
	warehouseID, err := queryUUID(c, "warehouse_id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warehouse_id"})
	}
	filter.ProductID = productID
	filter.WarehouseID = warehouseID
	filter.Type = model.EventType(c.Query("type"))
	filter.BatchNumber = c.Query("batch_number")

	events, err := h.service.GetEvents(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(events)
}

func (h *InventoryHandler) GetEvent(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid event ID"})
	}

	event, err := h.service.GetEventByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Event not found"})
	}
	return c.JSON(event)
}

func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	warehouseID, err := queryUUID(c, "warehouse_id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warehouse_id"})
	}

	stock, err := h.service.GetStock(warehouseID, c.Query("category"), c.Query("search"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stock)
}

func (h *InventoryHandler) GetBatches(c *fiber.Ctx) error {
	warehouseID, err := queryUUID(c, "warehouse_id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warehouse_id"})
	}

	batches, err := h.service.GetBatches(warehouseID, ledger.ExpiryStatus(c.Query("expiry_status")))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(batches)
}

func (h *InventoryHandler) UpsertItemConfig(c *fiber.Ctx) error {
	var item model.InventoryItem
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.UpsertItemConfig(&item, getUserID(c)); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Item configuration saved", "data": item})
}
