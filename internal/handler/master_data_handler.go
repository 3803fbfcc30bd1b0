package handler

import (
	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MasterDataHandler serves product and warehouse master records. These are
// plain CRUD; all stock figures live in the ledger, not here.
type MasterDataHandler struct {
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
}

func NewMasterDataHandler(productRepo repository.ProductRepository, warehouseRepo repository.WarehouseRepository) *MasterDataHandler {
	return &MasterDataHandler{productRepo: productRepo, warehouseRepo: warehouseRepo}
}

func (h *MasterDataHandler) CreateProduct(c *fiber.Ctx) error {
	var product model.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&product); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed on field " + errs[0].FailedField})
	}

	existing, _ := h.productRepo.FindBySKU(product.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "SKU already exists"})
	}

	userID := getUserID(c)
	product.CreatedBy = userID
	product.UpdatedBy = userID
	product.CreatedByUserID = &userID
	product.UpdatedByUserID = &userID

	if err := h.productRepo.Create(&product); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create product"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

func (h *MasterDataHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req model.Product
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing, err := h.productRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
	}

	userID := getUserID(c)
	existing.SKU = req.SKU
	existing.Name = req.Name
	existing.Category = req.Category
	existing.Unit = req.Unit
	existing.UpdatedBy = userID
	existing.UpdatedByUserID = &userID

	if err := h.productRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update product"})
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": existing})
}

func (h *MasterDataHandler) GetProducts(c *fiber.Ctx) error {
	products, err := h.productRepo.FindAll(c.Query("search"), c.Query("category"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(products)
}

func (h *MasterDataHandler) CreateWarehouse(c *fiber.Ctx) error {
	var warehouse model.Warehouse
	if err := c.BodyParser(&warehouse); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&warehouse); len(errs) > 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed on field " + errs[0].FailedField})
	}

	existing, _ := h.warehouseRepo.FindByCode(warehouse.Code)
	if existing != nil && existing.ID != uuid.Nil {
		return c.Status(400).JSON(fiber.Map{"error": "Warehouse code already exists"})
	}

	userID := getUserID(c)
	warehouse.CreatedBy = userID
	warehouse.UpdatedBy = userID
	warehouse.IsActive = true

	if err := h.warehouseRepo.Create(&warehouse); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create warehouse"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Warehouse created", "data": warehouse})
}

func (h *MasterDataHandler) UpdateWarehouse(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warehouse ID"})
	}

	var req model.Warehouse
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	existing, err := h.warehouseRepo.FindByID(id)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Warehouse not found"})
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Location = req.Location
	existing.IsActive = req.IsActive
	existing.UpdatedBy = getUserID(c)

	if err := h.warehouseRepo.Update(existing); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update warehouse"})
	}
	return c.JSON(fiber.Map{"message": "Warehouse updated", "data": existing})
}

func (h *MasterDataHandler) GetWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.warehouseRepo.FindAll()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(warehouses)
}
