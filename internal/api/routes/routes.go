// server/internal/api/routes/routes.go
package routes

import (
	"log/slog"
	"net/http"

	"workforce-ops-api-server/config"
	"workforce-ops-api-server/internal/api/handlers"
	"workforce-ops-api-server/internal/api/middleware"
	"workforce-ops-api-server/internal/auth"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/services"
	"workforce-ops-api-server/internal/socket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services gom tất cả service mà router cần.
type Services struct {
	Inventory   *services.InventoryService
	Shifts      *services.ShiftService
	Briefings   *services.BriefingService
	Trainings   *services.TrainingService
	Machines    *services.MachineService
	Invoices    *services.InvoiceService
	Payments    *services.PaymentService
	Expenses    *services.ExpenseService
	Roster      *services.RosterService
	Supervisors *services.SupervisorService
	Users       *services.UserService
	Alerts      *services.AlertService
}

// SetupRouter nhận vào các thành phần phụ thuộc và thiết lập các route
func SetupRouter(cfg config.Config, svc Services, tokens *auth.Manager, hub *socket.Hub, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	if len(cfg.Server.CORSOrigins) == 0 || (len(cfg.Server.CORSOrigins) == 1 && cfg.Server.CORSOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.CORSOrigins
	}
	router.Use(cors.New(corsCfg))

	router.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	if cfg.Metrics.Enabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r := handlers.Responder{Log: log, Production: cfg.IsProduction()}
	up := handlers.Uploads{MaxFileSize: cfg.Upload.MaxFileSize}

	inventoryHandler := &handlers.InventoryHandler{Responder: r, Service: svc.Inventory}
	shiftHandler := &handlers.ShiftHandler{Responder: r, Service: svc.Shifts}
	briefingHandler := &handlers.BriefingHandler{Responder: r, Uploads: up, Service: svc.Briefings}
	trainingHandler := &handlers.TrainingHandler{Responder: r, Uploads: up, Service: svc.Trainings}
	machineHandler := &handlers.MachineHandler{Responder: r, Service: svc.Machines}
	invoiceHandler := &handlers.InvoiceHandler{Responder: r, Service: svc.Invoices}
	paymentHandler := &handlers.PaymentHandler{Responder: r, Service: svc.Payments}
	expenseHandler := &handlers.ExpenseHandler{Responder: r, Service: svc.Expenses}
	rosterHandler := &handlers.RosterHandler{Responder: r, Service: svc.Roster}
	supervisorHandler := &handlers.SupervisorHandler{Responder: r, Service: svc.Supervisors}
	userHandler := &handlers.UserHandler{Responder: r, Service: svc.Users}
	alertHandler := &handlers.AlertHandler{Responder: r, Service: svc.Alerts}
	webSocketHandler := &handlers.WebSocketHandler{Responder: r, Hub: hub, Tokens: tokens}

	// Khi tắt auth (dev), mọi route đều mở.
	authenticate := middleware.Passthrough()
	authorize := func(...string) gin.HandlerFunc { return middleware.Passthrough() }
	if cfg.Auth.Enabled {
		authenticate = middleware.Authenticate(tokens)
		authorize = middleware.Authorize
	}
	admin := string(models.RoleAdmin)
	managers := []string{admin, string(models.RoleManager)}

	apiV1 := router.Group("/api/v1")
	{
		// === CÁC ROUTE KHÔNG YÊU CẦU XÁC THỰC ===
		apiV1.GET("/ws", webSocketHandler.ServeWs)
		apiV1.POST("/users/register", userHandler.Register)
		apiV1.POST("/users/login", userHandler.Login)

		// === CÁC ROUTE YÊU CẦU XÁC THỰC ===
		protected := apiV1.Group("/")
		protected.Use(authenticate)

		protected.GET("/users/me", userHandler.Me)
		users := protected.Group("/users", authorize(admin))
		{
			users.GET("", userHandler.List)
			users.GET("/:id", userHandler.Get)
			users.PUT("/:id", userHandler.Update)
			users.DELETE("/:id", userHandler.Delete)
		}

		inventory := protected.Group("/inventory")
		{
			inventory.GET("", inventoryHandler.List)
			inventory.GET("/stats", inventoryHandler.Stats)
			inventory.GET("/low-stock", inventoryHandler.LowStock)
			inventory.GET("/export", inventoryHandler.Export)
			inventory.GET("/:id", inventoryHandler.Get)
			inventory.POST("", inventoryHandler.Create)
			inventory.PUT("/:id", inventoryHandler.Update)
			inventory.PATCH("/:id/quantity", inventoryHandler.AdjustQuantity)
			inventory.DELETE("/:id", authorize(managers...), inventoryHandler.Delete)
		}

		shifts := protected.Group("/shifts")
		{
			shifts.GET("", shiftHandler.List)
			shifts.GET("/stats", shiftHandler.Stats)
			shifts.GET("/:id", shiftHandler.Get)
			shifts.POST("", shiftHandler.Create)
			shifts.PUT("/:id", shiftHandler.Update)
			shifts.PATCH("/:id/employees", shiftHandler.AssignEmployees)
			shifts.DELETE("/:id/employees/:employeeId", shiftHandler.RemoveEmployee)
			shifts.DELETE("/:id", authorize(managers...), shiftHandler.Delete)
		}

		briefings := protected.Group("/briefings")
		{
			briefings.GET("", briefingHandler.List)
			briefings.GET("/stats", briefingHandler.Stats)
			briefings.GET("/:id", briefingHandler.Get)
			briefings.POST("", briefingHandler.Create)
			briefings.PUT("/:id", briefingHandler.Update)
			briefings.PATCH("/:id/action-items/:index/status", briefingHandler.UpdateActionItemStatus)
			briefings.DELETE("/:id", authorize(managers...), briefingHandler.Delete)
		}

		trainings := protected.Group("/trainings")
		{
			trainings.GET("", trainingHandler.List)
			trainings.GET("/stats", trainingHandler.Stats)
			trainings.GET("/:id", trainingHandler.Get)
			trainings.POST("", trainingHandler.Create)
			trainings.PUT("/:id", trainingHandler.Update)
			trainings.PATCH("/:id/status", trainingHandler.UpdateStatus)
			trainings.POST("/:id/feedback", trainingHandler.AddFeedback)
			trainings.POST("/:id/attendees", trainingHandler.RegisterAttendee)
			trainings.DELETE("/:id", authorize(managers...), trainingHandler.Delete)
		}

		machines := protected.Group("/machines")
		{
			machines.GET("", machineHandler.List)
			machines.GET("/stats", machineHandler.Stats)
			machines.GET("/:id", machineHandler.Get)
			machines.POST("", machineHandler.Create)
			machines.PUT("/:id", machineHandler.Update)
			machines.PATCH("/:id/status", machineHandler.UpdateStatus)
			machines.DELETE("/:id", authorize(managers...), machineHandler.Delete)
		}

		// Tài chính: chỉ admin và manager.
		invoices := protected.Group("/invoices", authorize(managers...))
		{
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/stats", invoiceHandler.Stats)
			invoices.GET("/:id", invoiceHandler.Get)
			invoices.POST("", invoiceHandler.Create)
			invoices.PUT("/:id", invoiceHandler.Update)
			invoices.PATCH("/:id/status", invoiceHandler.UpdateStatus)
			invoices.DELETE("/:id", invoiceHandler.Delete)
		}

		payments := protected.Group("/payments", authorize(managers...))
		{
			payments.GET("", paymentHandler.List)
			payments.GET("/stats", paymentHandler.Stats)
			payments.GET("/:id", paymentHandler.Get)
			payments.POST("", paymentHandler.Create)
			payments.PUT("/:id", paymentHandler.Update)
			payments.PATCH("/:id/status", paymentHandler.UpdateStatus)
			payments.DELETE("/:id", paymentHandler.Delete)
		}

		expenses := protected.Group("/expenses")
		{
			expenses.GET("", expenseHandler.List)
			expenses.GET("/stats", expenseHandler.Stats)
			expenses.GET("/:id", expenseHandler.Get)
			expenses.POST("", expenseHandler.Create)
			expenses.PUT("/:id", expenseHandler.Update)
			expenses.PATCH("/:id/status", authorize(managers...), expenseHandler.UpdateStatus)
			expenses.DELETE("/:id", authorize(managers...), expenseHandler.Delete)
		}

		roster := protected.Group("/roster")
		{
			roster.GET("", rosterHandler.List)
			roster.GET("/:id", rosterHandler.Get)
			roster.POST("", rosterHandler.Create)
			roster.PUT("/:id", rosterHandler.Update)
			roster.PATCH("/:id/status", rosterHandler.UpdateStatus)
			roster.DELETE("/:id", authorize(managers...), rosterHandler.Delete)
		}

		supervisors := protected.Group("/supervisors")
		{
			supervisors.GET("", supervisorHandler.List)
			supervisors.GET("/:id", supervisorHandler.Get)
			supervisors.POST("", authorize(managers...), supervisorHandler.Create)
			supervisors.PUT("/:id", authorize(managers...), supervisorHandler.Update)
			supervisors.PATCH("/:id/employees", supervisorHandler.AssignEmployees)
			supervisors.DELETE("/:id/employees/:employeeId", supervisorHandler.RemoveEmployee)
			supervisors.DELETE("/:id", authorize(managers...), supervisorHandler.Delete)
		}

		alerts := protected.Group("/alerts")
		{
			alerts.GET("", alertHandler.List)
			alerts.GET("/:id", alertHandler.Get)
			alerts.POST("", alertHandler.Create)
			alerts.PATCH("/:id/acknowledge", alertHandler.Acknowledge)
			alerts.DELETE("/:id", authorize(managers...), alertHandler.Delete)
		}
	}

	return router
}
