package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-procure-ledger/internal/handler"
	"go-procure-ledger/internal/middleware"
	"go-procure-ledger/internal/model"
	"go-procure-ledger/internal/repository"
	"go-procure-ledger/internal/service"
	"go-procure-ledger/internal/ws"
	"go-procure-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Product{}, &model.Warehouse{}, &model.InventoryItem{},
		&model.TransactionEvent{},
		&model.PurchaseOrder{}, &model.POLineItem{},
		&model.GRN{}, &model.GRNItem{},
		&model.Invoice{}, &model.InvoiceLine{}, &model.MatchOverride{},
		&model.MatchingSettings{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db, log)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	eventRepo := repository.NewEventRepo(db)
	productRepo := repository.NewProductRepo(db)
	warehouseRepo := repository.NewWarehouseRepo(db)
	itemRepo := repository.NewInventoryItemRepo(db)
	poRepo := repository.NewPurchaseOrderRepo(db)
	grnRepo := repository.NewGRNRepo(db)
	invoiceRepo := repository.NewInvoiceRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	invService := service.NewInventoryService(eventRepo, productRepo, itemRepo, db, wsHub)
	poService := service.NewPurchaseOrderService(poRepo)
	grnService := service.NewGRNService(grnRepo, poRepo, eventRepo, settingsRepo, db, wsHub, log)
	matchService := service.NewMatchingService(invoiceRepo, poRepo, grnRepo, settingsRepo, db)
	settingsService := service.NewSettingsService(settingsRepo)
	dashService := service.NewDashboardService(eventRepo, productRepo, invService)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	invHandler := handler.NewInventoryHandler(invService)
	poHandler := handler.NewPurchaseOrderHandler(poService)
	grnHandler := handler.NewGRNHandler(grnService)
	invoiceHandler := handler.NewInvoiceHandler(matchService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	masterHandler := handler.NewMasterDataHandler(productRepo, warehouseRepo)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Procurement Ledger v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)

	// Master data
	protected.Get("/products", masterHandler.GetProducts)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), masterHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), masterHandler.UpdateProduct)
	protected.Get("/warehouses", masterHandler.GetWarehouses)
	protected.Post("/warehouses", middleware.RequirePrivilege("warehouse:create"), masterHandler.CreateWarehouse)
	protected.Put("/warehouses/:id", middleware.RequirePrivilege("warehouse:update"), masterHandler.UpdateWarehouse)

	// Ledger events
	protected.Get("/events", middleware.RequirePrivilege("event:view"), invHandler.GetEvents)
	protected.Get("/events/:id", middleware.RequirePrivilege("event:view"), invHandler.GetEvent)
	protected.Post("/events", middleware.RequirePrivilege("event:create"), invHandler.RecordEvent)

	// Derived inventory views
	protected.Get("/inventory/stock", middleware.RequirePrivilege("inventory:view"), invHandler.GetStock)
	protected.Get("/inventory/batches", middleware.RequirePrivilege("inventory:view"), invHandler.GetBatches)
	protected.Put("/inventory/items", middleware.RequirePrivilege("inventory:view"), invHandler.UpsertItemConfig)

	// Purchase orders
	protected.Get("/purchase-orders", middleware.RequirePrivilege("po:view"), poHandler.GetAll)
	protected.Get("/purchase-orders/:id", middleware.RequirePrivilege("po:view"), poHandler.Get)
	protected.Post("/purchase-orders", middleware.RequirePrivilege("po:create"), poHandler.Create)

	// GRN workflow
	protected.Get("/grns", middleware.RequirePrivilege("grn:view"), grnHandler.GetAll)
	protected.Get("/grns/:id", middleware.RequirePrivilege("grn:view"), grnHandler.Get)
	protected.Post("/grns", middleware.RequirePrivilege("grn:create"), grnHandler.Create)
	protected.Put("/grns/:id", middleware.RequirePrivilege("grn:create"), grnHandler.Update)
	protected.Post("/grns/:id/submit", middleware.RequirePrivilege("grn:submit"), grnHandler.Submit)
	protected.Post("/grns/:id/approve", middleware.RequirePrivilege("grn:approve"), grnHandler.Approve)
	protected.Post("/grns/:id/reject", middleware.RequirePrivilege("grn:approve"), grnHandler.Reject)
	protected.Post("/grns/:id/cancel", middleware.RequirePrivilege("grn:create"), grnHandler.Cancel)
	protected.Post("/grns/:id/publish", middleware.RequirePrivilege("grn:publish"), grnHandler.Publish)

	// Invoice matching
	protected.Get("/invoices", middleware.RequirePrivilege("invoice:view"), invoiceHandler.GetAll)
	protected.Get("/invoices/:id", middleware.RequirePrivilege("invoice:view"), invoiceHandler.Get)
	protected.Post("/invoices", middleware.RequirePrivilege("invoice:create"), invoiceHandler.Create)
	protected.Get("/invoices/:id/lines/:lineID/match", middleware.RequirePrivilege("invoice:match"), invoiceHandler.EvaluateLine)
	protected.Post("/invoices/:id/lines/:lineID/override", middleware.RequirePrivilege("invoice:override"), invoiceHandler.RecordOverride)

	// Matching settings
	protected.Get("/settings/matching", middleware.RequirePrivilege("settings:view"), settingsHandler.Get)
	protected.Put("/settings/matching", middleware.RequirePrivilege("settings:update"), settingsHandler.Update)

	// User Management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles & privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Info("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB, log *logrus.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Warnf("Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Warnf("Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Info("MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets limited privileges (no user management, no settings writes)
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		excluded := map[string]bool{
			"user:create":           true,
			"user:update":           true,
			"user:delete":           true,
			"user:update_privilege": true,
			"settings:update":       true,
		}
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if !excluded[p.Code] {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Info("ADMIN role assigned limited privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Warnf("Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Warnf("Failed to create admin user: %v", err)
		} else {
			log.Info("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
