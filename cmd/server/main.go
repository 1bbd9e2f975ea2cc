package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/wanderlog/wanderlog-backend/internal/config"
	"github.com/wanderlog/wanderlog-backend/internal/database"
	"github.com/wanderlog/wanderlog-backend/internal/handlers"
	"github.com/wanderlog/wanderlog-backend/internal/logger"
	"github.com/wanderlog/wanderlog-backend/internal/middleware"
	"github.com/wanderlog/wanderlog-backend/internal/routes"
	"github.com/wanderlog/wanderlog-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		logger.Info.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL
	logger.Info.Println("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		logger.Error.Fatal("Failed to connect to PostgreSQL: ", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	logger.Info.Println("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		logger.Error.Fatal("Failed to connect to Redis: ", err)
	}
	defer database.DisconnectRedis()

	// Initialize Cloudinary service
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		if err := handlers.InitCloudinaryService(cfg); err != nil {
			logger.Warn.Printf("Failed to initialize Cloudinary: %v", err)
			logger.Warn.Println("File uploads will not be available")
		} else {
			logger.Info.Println("Cloudinary service initialized")
		}
	} else {
		logger.Warn.Println("Cloudinary credentials not found. File uploads will not be available")
	}

	// Wire handler collaborators
	store := database.NewStore(database.PostgresDB)
	handlers.Init(
		store,
		services.NewJournalService(store),
		services.NewSessionService(database.RedisClient),
	)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r)

	logger.Info.Printf("Wanderlog backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error.Fatal("Failed to start server: ", err)
	}
}
