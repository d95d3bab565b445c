package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/tripmind/tripmind/internal/api/handler"
	customMiddleware "github.com/tripmind/tripmind/internal/api/middleware"
	"github.com/tripmind/tripmind/internal/bus"
	"github.com/tripmind/tripmind/internal/config"
	"github.com/tripmind/tripmind/internal/dialogue"
	"github.com/tripmind/tripmind/internal/nlu"
	"github.com/tripmind/tripmind/internal/nlu/gemini"
	"github.com/tripmind/tripmind/internal/nlu/openai"
	"github.com/tripmind/tripmind/internal/providers"
	"github.com/tripmind/tripmind/internal/repository/mongo"
	"github.com/tripmind/tripmind/internal/repository/redis"
	"github.com/tripmind/tripmind/internal/security"
	"github.com/tripmind/tripmind/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *mongo.DB, redisClient *redis.Client, busClient *bus.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize security components
	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	// Initialize repositories
	userRepo := mongo.NewUserRepository(db)
	sessionRepo := mongo.NewSessionRepository(db)
	messageRepo := mongo.NewMessageRepository(db)
	tripRepo := mongo.NewTripRepository(db)
	conversationStore := redis.NewConversationStore(redisClient, cfg.Chat.StateTTL)

	// Initialize NLU Router with providers
	nluRouter := nlu.NewRouter(cfg.NLU.DefaultProvider)

	log.Info().Msgf("Initializing NLU providers. Default: %s", cfg.NLU.DefaultProvider)

	if cfg.NLU.Gemini.APIKey != "" {
		nluRouter.RegisterProvider(gemini.NewProvider(cfg.NLU.Gemini))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}
	if cfg.NLU.OpenAI.APIKey != "" {
		nluRouter.RegisterProvider(openai.NewProvider(cfg.NLU.OpenAI))
	}

	// Initialize external data providers
	p := cfg.Providers
	aggregator := providers.NewAggregator(
		providers.NewNominatimGeocoder(p.GeoURL, p.Timeout, p.CacheTTL),
		providers.NewOpenMeteoWeather(p.WeatherURL, p.Timeout, p.CacheTTL),
		providers.NewOSRMRouter(p.RouteURL, p.Timeout),
		providers.NewOpenTripMapAttractions(p.AttractionsURL, p.APIKey, p.Timeout),
		providers.NewHTTPStayProvider(p.StaysURL, p.Timeout),
		providers.NewHTTPEventProvider(p.EventsURL, p.Timeout),
		providers.NewBudgetEstimator(p.Currency),
		p.DefaultOrigin,
	)

	// Initialize dialogue machine and bus publisher
	machine := dialogue.NewMachine(conversationStore, nluRouter, dialogue.CreateTripFlow())
	publisher := bus.NewPublisher(busClient)

	// Initialize services
	assemblyService := service.NewAssemblyService(aggregator, nluRouter, tripRepo, publisher, cfg.Chat.AssemblyTimeout)
	pruner := service.NewPruner(messageRepo, db, cfg.Chat.RetentionLimit)
	chatService := service.NewChatService(machine, sessionRepo, messageRepo, userRepo, tripRepo, assemblyService, pruner, publisher)
	tripService := service.NewTripService(tripRepo)

	// Initialize handlers
	chatHandler := handler.NewChatHandler(chatService)
	sessionHandler := handler.NewSessionHandler(chatService)
	tripHandler := handler.NewTripHandler(tripService)

	// Auth middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db, redisClient, busClient))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/chat/message", chatHandler.Message)

			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", sessionHandler.List)

				r.Route("/{sessionID}", func(r chi.Router) {
					r.Get("/messages", sessionHandler.GetMessages)
					r.Post("/messages", sessionHandler.PostMessage)
				})
			})

			r.Route("/trips", func(r chi.Router) {
				r.Get("/", tripHandler.List)

				r.Route("/{tripID}", func(r chi.Router) {
					r.Get("/", tripHandler.Get)
					r.Put("/favorite", tripHandler.SetFavorite)
				})
			})
		})
	})

	return r
}
