// Package router assembles the HTTP API: services, handlers, middleware and routes.
package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"dwight/internal/auth"
	"dwight/internal/config"
	"dwight/internal/handlers"
	"dwight/internal/market"
	"dwight/internal/middleware"
	"dwight/internal/repository"
	"dwight/internal/services"
	"dwight/internal/validator"
)

// Deps are the collaborators the API is built from. ResetSink may be nil,
// in which case reset tokens are only logged.
type Deps struct {
	Config    *config.Config
	DB        *gorm.DB
	Prices    market.PriceProvider
	ResetSink services.ResetTokenSink
}

// New builds the gin engine with every route registered.
func New(deps Deps) *gin.Engine {
	validator.Register()

	tokens := auth.NewTokenManager(deps.Config.JWT)

	// Services
	userService := services.NewUserService(deps.DB, tokens, deps.ResetSink)
	holdingService := services.NewHoldingService(repository.NewHoldingRepository(deps.DB))
	auditService := services.NewAuditService(deps.DB)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, tokens, auditService)
	userHandler := handlers.NewUserHandler(userService, auditService)
	holdingHandler := handlers.NewHoldingHandler(holdingService, auditService)
	marketHandler := handlers.NewMarketHandler(deps.Prices)

	requireUser := middleware.AuthMiddleware(auth.NewAuthenticator(tokens, userService))

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORS(deps.Config.CORS.AllowedOrigins))

	r.GET("/", handlers.Root)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/jwt/login", authHandler.Login)
		authRoutes.POST("/jwt/logout", requireUser, authHandler.Logout)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/reset-password", authHandler.ResetPassword)
	}

	users := r.Group("/users", requireUser)
	{
		users.GET("/me", userHandler.GetMe)
		users.PATCH("/me", userHandler.UpdateMe)
	}

	// Both "/holdings" and "/holdings/" answer directly rather than redirecting.
	holdings := r.Group("/holdings", requireUser)
	{
		for _, root := range []string{"", "/"} {
			holdings.GET(root, holdingHandler.ListHoldings)
			holdings.POST(root, holdingHandler.CreateHolding)
		}
		holdings.GET("/:id", holdingHandler.GetHolding)
		holdings.PUT("/:id", holdingHandler.UpdateHolding)
		holdings.DELETE("/:id", holdingHandler.DeleteHolding)
	}

	marketRoutes := r.Group("/market", requireUser)
	{
		marketRoutes.GET("/quotes/:symbol", marketHandler.GetQuote)
	}

	return r
}
