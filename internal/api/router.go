package api

import (
	"database/sql"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identikit/identity-server/docs"
	"github.com/identikit/identity-server/internal/api/handler"
	"github.com/identikit/identity-server/internal/api/middleware"
	"github.com/identikit/identity-server/internal/core/domain"
	"github.com/identikit/identity-server/internal/core/ports"
	"github.com/identikit/identity-server/internal/core/service"
	"github.com/identikit/identity-server/internal/infrastructure/db/mysql"
	"github.com/identikit/identity-server/internal/infrastructure/db/redis"
)

// ShutdownTimeout bounds how long graceful shutdown waits for in-flight
// requests.
const ShutdownTimeout = 10 * time.Second

// Config carries everything the router needs to assemble the identity API.
type Config struct {
	DB            *sql.DB
	Redis         *goredis.Client
	Mongo         *mongodriver.Database
	Audit         ports.AuditRecorder
	JWTSecret     string
	JWTIssuer     string
	JWTAudience   string
	TokenTTL      time.Duration
	DefaultRoleID int
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Dependencies ---
	userRepo := mysql.NewUserRepository(cfg.DB, cfg.Log)
	var roleRepo ports.RoleRepository = mysql.NewRoleRepository(cfg.DB, cfg.Log)
	if cfg.Redis != nil {
		roleRepo = redis.NewCachedRoleRepository(roleRepo, cfg.Redis, cfg.Log)
	}

	hasher := service.NewPasswordHasher()
	userManager := service.NewUserManager(userRepo, hasher, cfg.Log)
	roleManager := service.NewRoleManager(roleRepo, cfg.Log)
	tokenService := service.NewTokenService(cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTSecret, cfg.TokenTTL)

	userHandler := handler.NewUserHandler(userManager, roleManager, tokenService, cfg.Audit, cfg.DefaultRoleID)
	roleHandler := handler.NewRoleHandler(roleManager, userManager, cfg.Audit)

	// --- User routes ---
	e.POST("/signup", userHandler.SignUp)
	e.POST("/signin", userHandler.SignIn)
	e.PATCH("/update-user/:id", userHandler.UpdateUser)
	e.DELETE("/delete-user/:userId", userHandler.DeleteUser)
	e.GET("/me/info/:userId", userHandler.GetUserInfo)
	e.GET("/all-users", userHandler.GetAllUsers)
	e.POST("/reset-password", userHandler.ResetPassword)
	e.GET("/all-roles", roleHandler.GetAllRoles)

	// --- Role administration (token with the Admin role required) ---
	admin := e.Group("", middleware.Auth(cfg.JWTSecret), middleware.RBAC(domain.RoleAdmin))
	admin.POST("/create-role", roleHandler.CreateRole)
	admin.PATCH("/update-role/:id", roleHandler.UpdateRole)
	admin.DELETE("/delete-role/:id", roleHandler.DeleteRole)
	admin.POST("/assign-role", roleHandler.AssignRole)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.DB, cfg.Redis, cfg.Mongo)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
