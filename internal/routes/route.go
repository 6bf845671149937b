package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/citypulse/internal/container"
	"github.com/joshua-takyi/citypulse/internal/handlers"
	"github.com/joshua-takyi/citypulse/internal/helpers"
	"github.com/joshua-takyi/citypulse/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	// Set Gin mode for production
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(container.Metrics.Middleware())
	// ErrorHandler sits inside the metrics middleware so the status it
	// writes is the one recorded
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "citypulse-api",
			})
		})

		v1.GET("/metrics", container.Metrics.Handler())

		// public routes
		v1.POST("/signup", handlers.CreateUser(container.UserService))
		v1.POST("/login", handlers.AuthenticateUser(container.UserService))
		v1.POST("/logout", handlers.Logout())

		v1.GET("/feed", handlers.GetFeed(container.FeedService, container.Metrics))
		v1.GET("/search", handlers.SearchEvents(container.SearchService, container.Metrics))

		v1.GET("/events/:id", handlers.GetEvent(container.EventService))
		v1.GET("/events/:id/comments", handlers.ListComments(container.InteractionService))
		v1.GET("/events/:id/chat", handlers.GetChatMessages(container.ChatService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.SupabaseClient, container.UserService, container.Logger))

	userRoutes := protected.Group("/users")
	{
		protected.GET("/profile", func(c *gin.Context) {
			user, exist := c.Get("user")
			if !exist {
				c.JSON(401, gin.H{"error": "Unauthorized"})
				return
			}

			// Cast to EnhancedClaims to access role and other profile data
			enhancedClaims, ok := user.(*helpers.EnhancedClaims)
			if !ok {
				c.JSON(500, gin.H{"error": "Invalid user claims format"})
				return
			}

			c.JSON(200, gin.H{
				"status":   "OK",
				"user_id":  enhancedClaims.UserID,
				"email":    enhancedClaims.Email,
				"role":     enhancedClaims.Role,
				"username": enhancedClaims.Username,
				"is_admin": enhancedClaims.IsAdmin(),
			})
		})

		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.UserService))
	}

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("/", handlers.CreateEvent(container.EventService))
		eventRoutes.PATCH("/:id", handlers.UpdateEvent(container.EventService))
		eventRoutes.DELETE("/:id", handlers.DeleteEvent(container.EventService))

		eventRoutes.POST("/:id/like", handlers.ToggleLike(container.InteractionService))
		eventRoutes.POST("/:id/attend", handlers.MarkAttendance(container.InteractionService))
		eventRoutes.POST("/:id/comments", handlers.AddComment(container.InteractionService))
		eventRoutes.POST("/:id/chat", handlers.PostChatMessage(container.ChatService))
	}

	return r
}
