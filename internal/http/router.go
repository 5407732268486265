package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"salary-api/internal/service"
)

// RouterDeps agrupa los handlers y servicios que cuelgan del router.
type RouterDeps struct {
	Users          *UserHandler
	Catalog        *CatalogHandler
	Predictions    *PredictionHandler
	JWT            *service.JWTService
	AllowedOrigins []string
}

// NewRouter configura el router de Gin con middlewares y rutas bajo /api.
func NewRouter(logger *zap.Logger, deps RouterDeps) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(deps.AllowedOrigins), jsonContentTypeMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "PrediSalaire API", "status": "running"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := r.Group("/api")
	requireAuth := JWTAuthMiddleware(deps.JWT)

	auth := api.Group("/auth")
	auth.POST("/register", deps.Users.Register)
	auth.POST("/login", deps.Users.Login)
	auth.GET("/me", requireAuth, deps.Users.Me)
	auth.PUT("/profile", requireAuth, deps.Users.UpdateProfile)
	auth.POST("/change-password", requireAuth, deps.Users.ChangePassword)
	auth.POST("/change-role", requireAuth, deps.Users.ChangeRole)
	auth.POST("/forgot-password", deps.Users.ForgotPassword)
	auth.POST("/reset-password", deps.Users.ResetPassword)
	auth.POST("/send-verification", deps.Users.SendVerification)
	auth.POST("/verify-email", deps.Users.VerifyEmail)

	search := api.Group("/search")
	search.GET("/job-titles", deps.Catalog.JobTitles)
	search.GET("/regions", deps.Catalog.Regions)
	search.GET("/experiences", deps.Catalog.Experiences)
	search.GET("/skills", deps.Catalog.Skills)
	search.GET("/offers", deps.Catalog.SearchOffers)
	search.GET("/offers/:id", deps.Catalog.GetOffer)

	predict := api.Group("/predict", requireAuth)
	predict.POST("/salary", deps.Predictions.PredictSalary)
	predict.GET("/history", deps.Predictions.History)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	config := cors.DefaultConfig()
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.MaxAge = 12 * time.Hour
	return cors.New(config)
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
