package api

import (
	"mcjmccartney/practice-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	intakeToken string,
	authService service.AuthService,
	clientService service.ClientService,
	sessionService service.SessionService,
	financeService service.FinanceService,
) {
	authHandler := NewAuthHandler(authService)
	clientHandler := NewClientHandler(clientService)
	sessionHandler := NewSessionHandler(sessionService)
	financeHandler := NewFinanceHandler(financeService)
	intakeHandler := NewIntakeHandler(clientService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		// Public entry point for the intake form service, guarded by the
		// shared intake token rather than a staff JWT.
		apiV1.POST("/intake", IntakeTokenMiddleware(intakeToken), intakeHandler.SubmitIntake)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		clientGroup := protected.Group("/clients")
		{
			clientGroup.GET("", clientHandler.ListClients)
			clientGroup.GET("/:id", clientHandler.GetClient)
			clientGroup.PATCH("/:id", clientHandler.UpdateClient)
			clientGroup.POST("/:id/recompute-summary", clientHandler.RecomputeSummary)
			clientGroup.POST("/:id/brief-upload-url", clientHandler.RequestBriefUpload)
			clientGroup.GET("/:id/brief-url", clientHandler.GetBriefURL)
		}

		sessionGroup := protected.Group("/sessions")
		{
			// Registered before /:id so gin does not treat it as an id
			sessionGroup.GET("/price-suggestion", sessionHandler.PriceSuggestion)

			sessionGroup.GET("", sessionHandler.ListSessions)
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.PATCH("/:id", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
		}

		protected.GET("/finance/summary", financeHandler.GetSummary)
	}
}
