package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/bulkmates/bulkmates-api/docs"
	"github.com/bulkmates/bulkmates-api/internal/activity"
	"github.com/bulkmates/bulkmates-api/internal/auth"
	"github.com/bulkmates/bulkmates-api/internal/claim"
	"github.com/bulkmates/bulkmates-api/internal/config"
	"github.com/bulkmates/bulkmates-api/internal/database"
	"github.com/bulkmates/bulkmates-api/internal/delivery"
	"github.com/bulkmates/bulkmates-api/internal/group"
	"github.com/bulkmates/bulkmates-api/internal/notification"
	"github.com/bulkmates/bulkmates-api/internal/settlement"
	"github.com/bulkmates/bulkmates-api/internal/settlement/unit"
	"github.com/bulkmates/bulkmates-api/internal/trip"
	"github.com/bulkmates/bulkmates-api/internal/user"
	"github.com/bulkmates/bulkmates-api/pkg/logging"
	mw "github.com/bulkmates/bulkmates-api/pkg/middleware"
)

// @title           BulkMates API
// @version         1.0
// @description     Group bulk-purchase coordination and settlement backend.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logging.Setup()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	slog.Info("Connected to database")

	// Optional redis-backed balance cache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			slog.Error("Invalid REDIS_URL", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	} else {
		slog.Warn("REDIS_URL not set, balance caching disabled")
	}

	// Settlement unit strategy (Factory Pattern)
	unitStrategy, err := unit.NewFactory().CreateFromString(cfg.SettlementUnit)
	if err != nil {
		slog.Error("Invalid SETTLEMENT_UNIT", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, tokens)
	userHandler := user.NewHandler(userService)

	// Notification feature (delivers group/trip invitations)
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo, userRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo, notificationService)
	groupHandler := group.NewHandler(groupService)

	// Activity feature (built before trips; trips log through it)
	activityRepo := activity.NewRepository(db)
	activityService := activity.NewService(activityRepo, userRepo)
	activityHandler := activity.NewHandler(activityService)

	// Trip feature
	tripRepo := trip.NewRepository(db)
	tripService := trip.NewService(tripRepo, groupRepo, activityService, notificationService)
	tripHandler := trip.NewHandler(tripService)
	activityService.SetTripService(tripService)

	// Claim feature
	claimRepo := claim.NewRepository(db)
	claimService := claim.NewService(claimRepo, tripService, activityService, notificationService)
	claimHandler := claim.NewHandler(claimService)

	// Delivery feature
	deliveryRepo := delivery.NewRepository(db)
	deliveryService := delivery.NewService(deliveryRepo, claimService, tripService)
	deliveryHandler := delivery.NewHandler(deliveryService)

	// Settlement feature (with unit strategy and balance cache injected)
	settlementRepo := settlement.NewRepository(db)
	balanceCache := settlement.NewBalanceCache(redisClient)
	settlementService := settlement.NewService(settlementRepo, claimService, tripService, unitStrategy, balanceCache)
	settlementHandler := settlement.NewHandler(settlementService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Public auth routes
	r.Mount("/auth", userHandler.AuthRoutes())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(tokens.Validate))

		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupHandler.Routes())
		r.Mount("/trips", tripHandler.Routes())
		r.Mount("/claims", claimHandler.Routes())
		r.Mount("/deliveries", deliveryHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
		r.Mount("/activities", activityHandler.Routes())
	})

	// Start server
	slog.Info("Server starting", "port", cfg.Port, "settlement_unit", unitStrategy.Unit())
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
