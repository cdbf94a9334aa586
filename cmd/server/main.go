package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suduyun739/project-management-platform/internal/config"
	"github.com/suduyun739/project-management-platform/internal/database"
	"github.com/suduyun739/project-management-platform/internal/handlers"
	"github.com/suduyun739/project-management-platform/internal/middleware"
	"github.com/suduyun739/project-management-platform/internal/repository"
	"github.com/suduyun739/project-management-platform/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(db); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Seed initial data when requested
	if cfg.SeedDB {
		if err := database.Seed(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	requirementRepo := repository.NewRequirementRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)

	// Initialize services
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, tokenTTL)
	userService := services.NewUserService(userRepo)
	projectService := services.NewProjectService(projectRepo)
	orderingService := services.NewOrderingService(projectRepo)
	requirementService := services.NewRequirementService(requirementRepo, projectRepo, assignmentRepo)
	taskService := services.NewTaskService(taskRepo, requirementRepo, projectRepo, assignmentRepo)
	commentService := services.NewCommentService(commentRepo, requirementRepo, taskRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService, orderingService)
	requirementHandler := handlers.NewRequirementHandler(requirementService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)

	// Initialize Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AddAllowHeaders("Authorization")
	r.Use(cors.New(corsConfig))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/register", requireAuth, authHandler.Register)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.PUT("/password", requireAuth, authHandler.ChangePassword)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(requireAuth)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
			users.POST("/:id/reset-password", middleware.RequireAdmin(), userHandler.ResetPassword)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.POST("/reorder", projectHandler.ReorderProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/sort", projectHandler.SortProject)
		}

		// Requirement routes (protected)
		requirements := api.Group("/requirements")
		requirements.Use(requireAuth)
		{
			requirements.GET("", requirementHandler.ListRequirements)
			requirements.POST("", requirementHandler.CreateRequirement)
			requirements.GET("/:id", requirementHandler.GetRequirement)
			requirements.PUT("/:id", requirementHandler.UpdateRequirement)
			requirements.DELETE("/:id", requirementHandler.DeleteRequirement)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.GET("/kanban", taskHandler.Kanban)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.POST("", commentHandler.CreateComment)
			comments.DELETE("/:id", commentHandler.DeleteComment)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
