package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/devjournal/devjournal-backend/internal/config"
	"github.com/devjournal/devjournal-backend/internal/database"
	"github.com/devjournal/devjournal-backend/internal/handlers"
	"github.com/devjournal/devjournal-backend/internal/realtime"
	"github.com/devjournal/devjournal-backend/internal/routes"
	"github.com/devjournal/devjournal-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	// Connect to MongoDB (summary history)
	log.Printf("Connecting to MongoDB...")
	if err := database.ConnectMongo(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo()

	// Cloudinary-backed resume storage. Resume upload/import stay disabled
	// when the credentials are missing, everything else still works.
	var storage *services.ResumeStorage
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		var err error
		storage, err = services.NewResumeStorage(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			log.Println("Resume uploads will not be available")
			storage = nil
		} else {
			log.Println("✅ Cloudinary storage initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Resume uploads will not be available")
	}

	if cfg.AIAPIKey == "" {
		log.Println("⚠️  WARNING: AI_API_KEY not set. Summary generation and resume parsing will fail.")
	}

	// Wire services
	sessionStore := services.NewSessionStore(database.RedisClient)
	entryStore := services.NewPostgresEntryStore(database.PostgresDB)
	aiClient := services.NewCompletionClient(cfg.AIBaseURL, cfg.AIAPIKey, cfg.AIModel, cfg.AITimeout)
	history := services.NewSummaryHistory(database.MongoDB)
	summarySvc := &services.SummaryService{Entries: entryStore, AI: aiClient, History: history}
	resumeSvc := &services.ResumeService{Entries: entryStore, AI: aiClient}
	if storage != nil {
		resumeSvc.Blobs = storage
	}
	statsSvc := services.NewStatsService(database.PostgresDB)
	hub := realtime.NewHub()

	deps := handlers.Deps{
		DB:       database.PostgresDB,
		Sessions: sessionStore,
		Entries:  entryStore,
		Summary:  summarySvc,
		Resume:   resumeSvc,
		History:  history,
		Stats:    statsSvc,
		Events:   hub,
	}
	if storage != nil {
		deps.Storage = storage
	}
	handlers.Init(deps)

	// Setup router
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no rate limit)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, database.RedisClient)

	log.Printf("🚀 DevJournal backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
