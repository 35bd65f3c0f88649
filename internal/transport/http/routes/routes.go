package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/infra/config"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/transport/http/handlers"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/transport/http/middleware"
	"github.com/HosseinHeydarpour/apply-app-backend/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Users         *usecase.UserService
	PasswordReset *usecase.PasswordResetService
	Catalog       *usecase.CatalogService
	Applications  *usecase.ApplicationService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config   *config.AppConfig
	Logger   *zap.Logger
	Services ServiceSet
	Database DatabaseChecker
	Metrics  *middleware.HTTPMetrics
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.CORS([]string{"*"}))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

	healthOptions := make([]handlers.HealthOption, 0, 1)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth)
		passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, deps.Services.Users)
		userHandler := handlers.NewUserHandler(deps.Services.Users, deps.Services.Applications)

		users := api.Group("/users")
		users.POST("/signup", authHandler.Signup)
		users.POST("/login", authHandler.Login)
		users.POST("/forgotPassword", passwordHandler.ForgotPassword)
		users.PATCH("/resetPassword/:token", passwordHandler.ResetPassword)

		users.PATCH("/updateMyPassword", authMiddleware, passwordHandler.ChangePassword)
		users.GET("/me", authMiddleware, userHandler.Me)
		users.PATCH("/updateMe", authMiddleware, userHandler.UpdateMe)

		users.POST("/apply", authMiddleware, userHandler.Apply)
		users.POST("/consultation", authMiddleware, userHandler.Consultation)
		users.GET("/history", authMiddleware, userHandler.History)

		users.GET("", authMiddleware, userHandler.List)
		users.GET("/:id", authMiddleware, userHandler.Get)

		catalogHandler := handlers.NewCatalogHandler(deps.Services.Catalog)

		agencies := api.Group("/agencies")
		agencies.GET("", catalogHandler.ListAgencies)
		agencies.GET("/:id", catalogHandler.GetAgency)
		agencies.POST("", authMiddleware, catalogHandler.CreateAgency)
		agencies.PATCH("/:id", authMiddleware, catalogHandler.UpdateAgency)
		agencies.DELETE("/:id", authMiddleware, catalogHandler.DeleteAgency)

		universities := api.Group("/universities")
		universities.GET("", catalogHandler.ListUniversities)
		universities.GET("/:id", catalogHandler.GetUniversity)
		universities.POST("", authMiddleware, catalogHandler.CreateUniversity)
		universities.PATCH("/:id", authMiddleware, catalogHandler.UpdateUniversity)
		universities.DELETE("/:id", authMiddleware, catalogHandler.DeleteUniversity)

		ads := api.Group("/ads")
		ads.GET("", catalogHandler.ListAds)
		ads.GET("/:id", catalogHandler.GetAd)
		ads.POST("", authMiddleware, catalogHandler.CreateAd)
		ads.PATCH("/:id", authMiddleware, catalogHandler.UpdateAd)
		ads.DELETE("/:id", authMiddleware, catalogHandler.DeleteAd)
	}

	return r
}
