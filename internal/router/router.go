package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/smartplates/smartplates-api/internal/config"
	"github.com/smartplates/smartplates-api/internal/handlers"
	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/middleware"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/service"
	"github.com/smartplates/smartplates-api/internal/spoonacular"
	"github.com/smartplates/smartplates-api/internal/ws"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, database *gorm.DB) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	// One origin allow-list for both CORS and websocket upgrades
	allowedOrigins := []string{
		"https://smartplates.app",
		"https://www.smartplates.app",
		"https://api.smartplates.app",
	}
	if cfg.EnvVars.AllowedOrigins != "" {
		allowedOrigins = strings.Split(cfg.EnvVars.AllowedOrigins, ",")
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowOrigins = allowedOrigins
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Per-IP rate limiting across the whole API
	r.Use(middleware.RateLimitByIP(20, 5*time.Minute, 10*time.Minute))

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Upstream recipe API client
	var upstream service.UpstreamSource
	if cfg.EnvVars.SpoonacularBase != "" {
		upstream = spoonacular.NewClientWithBaseURL(cfg.EnvVars.SpoonacularAPIKey, cfg.EnvVars.SpoonacularBase)
	} else {
		upstream = spoonacular.NewClient(cfg.EnvVars.SpoonacularAPIKey)
	}

	// Facet tables and pagination policy from configuration
	tables := cfg.Facets.Tables()
	policy := cfg.Facets.QueryPolicy()

	// User-related routes setup
	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(userRepo)
	userHandler := handlers.NewUserHandler(userService)

	// Recipe-related routes setup
	recipeRepo := repository.NewRecipeRepository(database)
	recipeService := service.NewRecipeService(cfg, recipeRepo, upstream, tables, policy)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	// Meal plan routes setup
	mealPlanRepo := repository.NewMealPlanRepository(database)
	mealPlanService := service.NewMealPlanService(mealPlanRepo)
	mealPlanHandler := handlers.NewMealPlanHandler(mealPlanService)

	// Favorite routes setup
	favoriteRepo := repository.NewFavoriteRepository(database)
	favoriteService := service.NewFavoriteService(favoriteRepo)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)

	// Shopping list routes setup
	shoppingRepo := repository.NewShoppingRepository(database)
	shoppingService := service.NewShoppingService(shoppingRepo, recipeService)
	shoppingHandler := handlers.NewShoppingHandler(shoppingService)

	// Backfill progress hub
	hub := ws.NewHub()
	go hub.Run()

	// Admin routes setup
	backfillRepo := repository.NewBackfillRepository(database)
	adminService := service.NewAdminService(recipeRepo, backfillRepo, upstream, hub, cfg.EnvVars.BackfillRPS)
	adminHandler := handlers.NewAdminHandler(adminService, hub, allowedOrigins)

	// Group for browse/search routes: anonymous allowed, token honored when
	// present so the access tier can raise the page size.
	apiBrowse := r.Group("/v1")
	{
		apiBrowse.Use(middleware.OptionalTokenMiddleware(cfg))
		apiBrowse.Use(middleware.AttachUserToContext(userService))

		// Discovery query: facet browse or free-text search
		apiBrowse.GET("/recipes", recipeHandler.SearchRecipes)
		// Unified recipe detail
		apiBrowse.GET("/recipes/:recipe_id", recipeHandler.GetRecipe)
	}

	// Group for API routes that require token verification
	apiProtected := r.Group("/v1")
	{
		apiProtected.Use(middleware.VerifyTokenMiddleware(cfg))
		apiProtected.Use(middleware.AttachUserToContext(userService))

		// User profile routes
		apiProtected.GET("/users/me", userHandler.GetMe)
		apiProtected.PUT("/users/me", userHandler.UpdateDisplayName)

		// Community upload routes
		apiProtected.POST("/recipes", recipeHandler.UploadRecipe)
		apiProtected.GET("/recipes/uploads/mine", recipeHandler.GetMyUploads)
		apiProtected.DELETE("/recipes/uploads/:recipe_id", recipeHandler.DeleteUpload)

		// Favorite routes
		apiProtected.GET("/favorites", favoriteHandler.ListFavorites)
		apiProtected.POST("/favorites", favoriteHandler.SaveFavorite)
		apiProtected.DELETE("/favorites/:recipe_id", favoriteHandler.RemoveFavorite)

		// Meal plan routes
		apiProtected.GET("/mealplans", mealPlanHandler.ListPlans)
		apiProtected.GET("/mealplans/week", mealPlanHandler.GetWeek)
		apiProtected.POST("/mealplans/entries", mealPlanHandler.AddEntry)
		apiProtected.DELETE("/mealplans/:plan_id", mealPlanHandler.DeletePlan)
		apiProtected.DELETE("/mealplans/:plan_id/entries/:entry_id", mealPlanHandler.RemoveEntry)

		// Shopping list routes
		apiProtected.GET("/shopping", shoppingHandler.ListItems)
		apiProtected.POST("/shopping", shoppingHandler.AddItem)
		apiProtected.POST("/shopping/from-recipe/:recipe_id", shoppingHandler.AddFromRecipe)
		apiProtected.PUT("/shopping/:item_id", shoppingHandler.SetChecked)
		apiProtected.DELETE("/shopping/:item_id", shoppingHandler.RemoveItem)
		apiProtected.DELETE("/shopping", shoppingHandler.ClearChecked)
	}

	// Group for admin-only routes
	apiAdmin := r.Group("/v1/admin")
	{
		apiAdmin.Use(middleware.VerifyTokenMiddleware(cfg))
		apiAdmin.Use(middleware.AttachUserToContext(userService))
		apiAdmin.Use(middleware.RequireAdmin())

		// Moderation routes
		apiAdmin.GET("/moderation", adminHandler.GetModerationQueue)
		apiAdmin.POST("/moderation/:recipe_id", adminHandler.ReviewUpload)

		// Quota dashboard
		apiAdmin.GET("/quota", adminHandler.GetQuotaReport)

		// Backfill routes
		apiAdmin.POST("/backfill", adminHandler.StartBackfill)
		apiAdmin.GET("/backfill", adminHandler.ListBackfillRuns)
		apiAdmin.GET("/backfill/:run_id", adminHandler.GetBackfillRun)
		// Live progress over WebSocket
		apiAdmin.GET("/backfill/:run_id/watch", adminHandler.WatchBackfill)
	}

	return r
}
