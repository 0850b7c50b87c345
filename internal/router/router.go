package router

import (
	"github.com/gin-gonic/gin"

	"patrimon/internal/config"
	"patrimon/internal/domain"
	"patrimon/internal/handler"
	"patrimon/internal/middleware"
	"patrimon/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	networkH *handler.NetworkHandler,
	masterH *handler.MasterHandler,
	auditH *handler.AuditHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(cfg.Log))
	r.Use(middleware.CORS(cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Public network discovery and operator join
	v1.GET("/networks", networkH.List)
	v1.POST("/networks/join", networkH.Join)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Network management (admin only)
	networks := protected.Group("/networks")
	networks.POST("", middleware.RequireRole(domain.RoleAdmin), networkH.Create)
	networks.GET("/mine", middleware.RequireRole(domain.RoleAdmin), networkH.ListMine)
	networks.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), networkH.Delete)

	// Master spreadsheet routes (admin only)
	masters := protected.Group("/masters")
	masters.Use(middleware.RequireRole(domain.RoleAdmin))
	masters.POST("/upload", masterH.Upload)
	masters.GET("", masterH.List)
	masters.GET("/:id/download", masterH.DownloadURL)
	masters.DELETE("/:id", masterH.Delete)

	// Audit routes (operators and admins)
	audits := protected.Group("/audits")
	audits.GET("/rooms", auditH.ListRooms)
	audits.POST("/reconcile", auditH.Reconcile)

	// Stored report routes
	reports := protected.Group("/reports")
	reports.GET("", reportH.List)
	reports.GET("/:id/download", reportH.DownloadURL)
	reports.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), reportH.Delete)

	return r
}
