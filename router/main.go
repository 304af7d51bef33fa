package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bosala-platform/bosala-api/config"
	"github.com/bosala-platform/bosala-api/dataset"
	"github.com/bosala-platform/bosala-api/handlers"
	advisor_handlers "github.com/bosala-platform/bosala-api/handlers/advisor"
	institution_handlers "github.com/bosala-platform/bosala-api/handlers/institution"
	program_handlers "github.com/bosala-platform/bosala-api/handlers/program"
	"github.com/bosala-platform/bosala-api/services"
	"github.com/bosala-platform/bosala-api/services/inference"
	"github.com/bosala-platform/bosala-api/utils/cache"
	"github.com/bosala-platform/bosala-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, env *config.EnviornmentVariable, store *dataset.Store) {
	// Redis is optional: without it the advisor loses its rate limit and
	// response cache, nothing else.
	var redisCache *cache.RedisCache
	if env.REDIS_URL != "" {
		var err error
		redisCache, err = cache.NewRedisCache(env.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Advisor rate limiting disabled.", err)
			redisCache = nil
		}
	}

	// Filter engine and scorer over the dataset store
	filterService := services.NewFilterService(store)

	weights := services.DefaultShortlistWeights()
	shortlistService := services.NewShortlistService(filterService, weights)

	// The inference client exists only when a credential is configured;
	// the advisor endpoint degrades gracefully without one.
	var inferenceClient *inference.Client
	if env.INFERENCE_API_KEY != "" {
		inferenceClient = inference.NewClient(inference.Config{
			APIKey:  env.INFERENCE_API_KEY,
			BaseURL: env.INFERENCE_BASE_URL,
			Model:   env.INFERENCE_MODEL,
		})
	} else {
		log.Println("INFERENCE_API_KEY not set; AI ranking disabled")
	}
	advisorService := services.NewAdvisorService(inferenceClient, redisCache)

	// Handlers
	institutionHandler := institution_handlers.NewInstitutionHandler(filterService)
	programHandler := program_handlers.NewProgramHandler(filterService)
	advisorHandler := advisor_handlers.NewAdvisorHandler(shortlistService, advisorService)

	// Security middleware
	allowedOrigins := env.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 120,
		RateLimitWindow:   time.Minute,
	})

	advisorLimit := middleware.NewAdvisorRateLimit(redisCache, 10, time.Hour)

	// Routes
	app.Get("/health", handlers.HandleCheckHealth(store))

	v1 := app.Group("/api/v1")

	institutions := v1.Group("/institutions")
	institutions.Get("/", institutionHandler.ListInstitutions)
	institutions.Get("/facets", institutionHandler.GetFacets)
	institutions.Post("/compare", institutionHandler.CompareInstitutions)
	institutions.Get("/:id", institutionHandler.GetInstitution)

	programs := v1.Group("/programs")
	programs.Get("/", programHandler.ListPrograms)
	programs.Get("/facets", programHandler.GetFacets)

	advisor := v1.Group("/advisor")
	advisor.Post("/shortlist", advisorHandler.BuildShortlist)
	advisor.Post("/rank", advisorLimit.Handler(), advisorHandler.RankShortlist)
}
