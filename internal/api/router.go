package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/cse-motors/dealership-system/docs"
	"github.com/cse-motors/dealership-system/internal/api/handler"
	"github.com/cse-motors/dealership-system/internal/api/middleware"
	"github.com/cse-motors/dealership-system/internal/core/domain"
	"github.com/cse-motors/dealership-system/internal/core/ports"
	"github.com/cse-motors/dealership-system/internal/core/service"
	mongodb "github.com/cse-motors/dealership-system/internal/infrastructure/db/mongo"
	redisdb "github.com/cse-motors/dealership-system/internal/infrastructure/db/redis"
	"github.com/cse-motors/dealership-system/internal/pkg/config"
	"github.com/cse-motors/dealership-system/pkg/cryptox"
)

// NewRouter builds the Echo instance with all routes registered.
//
// Guard ordering is fixed here: Session runs globally so every route sees
// the same identity-attachment phase, then RequireAccount and RequireRole
// are layered per route group.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, audit ports.AuditSink, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Dependencies ---
	validator := service.NewCredentialValidator()
	hasher := cryptox.NewPasswordHasher(cfg.BcryptCost)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	notices := redisdb.NewNoticeStore(rdb)

	accountRepo := mongodb.NewAccountRepository(db)
	accountService := service.NewAccountService(accountRepo, validator, hasher, tokens, audit, log)
	accountHandler := handler.NewAccountHandler(accountService, notices, cfg.SessionCookie, cfg.TokenTTL)

	inventoryRepo := mongodb.NewInventoryRepository(db)
	inventoryService := service.NewInventoryService(inventoryRepo, validator, log)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, notices)

	healthHandler := handler.NewHealthHandler(db, rdb)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("dealership"))
	e.Use(middleware.Session(tokens, cfg.SessionCookie))

	e.Validator = handler.NewValidator(validator)
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	requireAccount := middleware.RequireAccount(notices)
	requireStaff := middleware.RequireRole(domain.RoleEmployee, domain.RoleAdmin)

	// --- Account routes ---
	account := e.Group("/account")
	account.GET("/login", accountHandler.LoginView)
	account.POST("/login", accountHandler.Login)
	account.GET("/register", accountHandler.RegisterView)
	account.POST("/register", accountHandler.Register)
	account.POST("/logout", accountHandler.Logout)

	account.GET("", accountHandler.Management, requireAccount)
	account.GET("/update/:account_id", accountHandler.UpdateView, requireAccount)
	account.POST("/update", accountHandler.UpdateProfile, requireAccount)
	account.POST("/password", accountHandler.ChangePassword, requireAccount)

	// --- Inventory routes (public browse, staff management) ---
	inv := e.Group("/inv")
	inv.GET("/classifications", inventoryHandler.ListClassifications)
	inv.GET("/classification/:classification_id", inventoryHandler.ListByClassification)
	inv.GET("/vehicle/:vehicle_id", inventoryHandler.VehicleDetail)

	inv.POST("/classifications", inventoryHandler.AddClassification, requireAccount, requireStaff)
	inv.POST("/vehicles", inventoryHandler.AddVehicle, requireAccount, requireStaff)
	inv.PUT("/vehicles/:vehicle_id", inventoryHandler.UpdateVehicle, requireAccount, requireStaff)

	e.GET("/search", inventoryHandler.Search)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
