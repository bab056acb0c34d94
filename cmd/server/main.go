package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"truthhub/internal/auth"
	"truthhub/internal/database"
	"truthhub/internal/handlers"
	"truthhub/internal/realtime"
	"truthhub/internal/services"
	"truthhub/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	dbConfig := database.LoadConfig()
	if err := database.Connect(dbConfig); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	db := database.DB
	hub := realtime.NewHub()
	issuer := auth.NewTokenIssuerFromEnv()

	// Wire up services
	notificationService := services.NewNotificationService(db, hub)
	reputationService := services.NewReputationService(db)
	credibilityService := services.NewCredibilityService(db)
	achievementService := services.NewAchievementService(db, reputationService)
	voteService := services.NewVoteService(db, reputationService, credibilityService, achievementService, notificationService)
	userService := services.NewUserService(db, notificationService)
	articleService := services.NewArticleService(db, reputationService, achievementService, notificationService)
	factCheckService := services.NewFactCheckService(db, reputationService, credibilityService, achievementService, notificationService)
	discussionService := services.NewDiscussionService(db, reputationService)
	annotationService := services.NewAnnotationService(db, reputationService)

	// Start background workers
	workerService := worker.NewWorkerService(db, notificationService)
	if err := workerService.Start(); err != nil {
		log.Fatal("Failed to start background workers:", err)
	}

	setupGracefulShutdown(workerService)

	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, userService, achievementService, issuer)
	articleHandler := handlers.NewArticleHandler(articleService, voteService)
	factCheckHandler := handlers.NewFactCheckHandler(factCheckService, voteService)
	discussionHandler := handlers.NewDiscussionHandler(discussionService, voteService)
	annotationHandler := handlers.NewAnnotationHandler(annotationService, voteService)
	voteHandler := handlers.NewVoteHandler(voteService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, hub, issuer, db)

	requireAuth := auth.RequireAuth(issuer, db)
	optionalAuth := auth.OptionalAuth(issuer, db)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"workers":     workerService.IsRunning(),
			"connections": hub.ConnectionCount(),
		})
	})

	api := r.Group("/api")
	{
		// Auth
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.GET("/auth/me", requireAuth, authHandler.Me)
		api.PUT("/auth/me", requireAuth, authHandler.UpdateProfile)
		api.GET("/auth/me/achievements", requireAuth, authHandler.GetAchievements)
		api.GET("/auth/me/reputation", requireAuth, authHandler.GetReputationHistory)

		// Users and leaderboard
		api.GET("/users/:username", authHandler.GetUser)
		api.GET("/leaderboard", authHandler.GetLeaderboard)

		// Articles
		api.GET("/articles", optionalAuth, articleHandler.List)
		api.GET("/articles/trending", articleHandler.Trending)
		api.POST("/articles", requireAuth, articleHandler.Submit)
		api.GET("/articles/:id", optionalAuth, articleHandler.Get)
		api.DELETE("/articles/:id", requireAuth, articleHandler.Delete)
		api.POST("/articles/:id/vote", requireAuth, articleHandler.Vote)

		// Fact-checks
		api.POST("/articles/:id/factcheck", requireAuth, factCheckHandler.Submit)
		api.GET("/articles/:id/factchecks", optionalAuth, factCheckHandler.ListForArticle)
		api.GET("/factchecks/trending", factCheckHandler.Trending)
		api.GET("/factchecks/mine", requireAuth, factCheckHandler.Mine)
		api.GET("/factchecks/:factCheckId", factCheckHandler.Get)
		api.PUT("/factchecks/:factCheckId", requireAuth, factCheckHandler.Update)
		api.POST("/factchecks/:factCheckId/vote", requireAuth, factCheckHandler.Vote)

		// Annotations
		api.POST("/articles/:id/annotations", requireAuth, annotationHandler.Create)
		api.GET("/articles/:id/annotations", optionalAuth, annotationHandler.ListForArticle)
		api.DELETE("/annotations/:id", requireAuth, annotationHandler.Delete)

		// Discussions
		api.GET("/discussions", discussionHandler.List)
		api.POST("/discussions", requireAuth, discussionHandler.Create)
		api.GET("/discussions/:id", discussionHandler.Get)
		api.DELETE("/discussions/:id", requireAuth, discussionHandler.Delete)
		api.POST("/discussions/:id/vote", requireAuth, discussionHandler.Vote)
		api.PUT("/discussions/:id/lock", requireAuth, discussionHandler.SetLocked)
		api.POST("/discussions/:id/replies", requireAuth, discussionHandler.AddReply)
		api.PUT("/discussions/replies/:replyId", requireAuth, discussionHandler.EditReply)
		api.DELETE("/discussions/replies/:replyId", requireAuth, discussionHandler.DeleteReply)

		// Generic votes
		api.POST("/votes/:id", requireAuth, voteHandler.Cast)
		api.GET("/votes/:id", requireAuth, voteHandler.Get)

		// Notifications
		api.GET("/notifications", requireAuth, notificationHandler.List)
		api.GET("/notifications/unread-count", requireAuth, notificationHandler.UnreadCount)
		api.PUT("/notifications/read-all", requireAuth, notificationHandler.MarkAllRead)
	}

	// Realtime notification stream
	r.GET("/ws/notifications", notificationHandler.ServeWS)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func setupGracefulShutdown(workerService *worker.WorkerService) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Received shutdown signal, gracefully shutting down...")
		workerService.Stop()
		database.Close()
		log.Println("Shutdown complete")
		os.Exit(0)
	}()
}
