package routes

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"clinic-records-server/internal/config"
	"clinic-records-server/internal/handlers"
	"clinic-records-server/internal/metrics"
	"clinic-records-server/internal/middleware"
	"clinic-records-server/internal/store"
	"clinic-records-server/internal/utils"
)

// NewRouter builds the engine with the global middleware stack and every
// route. The returned stop function releases background resources.
func NewRouter(db *gorm.DB, cfg *config.Config, log zerolog.Logger) (*gin.Engine, func()) {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.Logger(log), m.Middleware())
	router.Use(cors.New(corsConfig(cfg)))

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RateLimit.RPS),
		Burst: cfg.RateLimit.Burst,
	}, log)

	SetupRoutes(router, db, cfg, log, m, limiter)
	return router, limiter.Stop
}

func corsConfig(cfg *config.Config) cors.Config {
	corsConfig := cors.DefaultConfig()
	if cfg.AllowsAllOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return corsConfig
}

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, log zerolog.Logger, m *metrics.Metrics, limiter *middleware.RateLimiter) {
	tokens := utils.NewTokenService(cfg.Token.Secret, cfg.Token.TTL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store.NewAccounts(db), tokens, m, log)
	patientHandler := handlers.NewPatientHandler(store.NewPatients(db), m, log)
	healthHandler := &handlers.HealthHandler{
		Ping: func(ctx context.Context) error { return store.Ping(ctx, db) },
		Log:  log,
	}

	// Public routes (no authentication required)
	router.GET("/", handlers.Root)
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))
	router.POST("/create-account", limiter.Middleware(), authHandler.Register)
	router.POST("/login", limiter.Middleware(), authHandler.Login)
	router.GET("/get-last-patient-id", patientHandler.GetLastPatientID)

	// Authenticated routes
	private := router.Group("/")
	private.Use(middleware.AuthMiddleware(tokens)) // Apply JWT authentication middleware
	{
		private.GET("/get-user", authHandler.GetProfile)

		private.POST("/add-patient", patientHandler.AddPatient)
		private.PUT("/edit-patient/:patientId", patientHandler.EditPatient)
		private.GET("/get-all-patients", patientHandler.GetAllPatients)
		private.GET("/get-patient/:patientId", patientHandler.GetPatient)
		private.DELETE("/delete-patient/:patientId", patientHandler.DeletePatient)
	}
}
