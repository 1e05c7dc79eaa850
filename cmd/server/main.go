package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"campus-feedback-backend/internal/authsvc"
	"campus-feedback-backend/internal/database"
	"campus-feedback-backend/internal/handlers"
	customMiddleware "campus-feedback-backend/internal/middleware"
	"campus-feedback-backend/internal/notify"
	"campus-feedback-backend/internal/reconcile"
	"campus-feedback-backend/internal/repository"
	"campus-feedback-backend/internal/sentiment"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	// Required env vars
	mongoURI := getEnv("MONGODB_URI", "")
	dbName := getEnv("DB_NAME", "feedback_portal")
	authURL := getEnv("AUTH_URL", "")
	authAnonKey := getEnv("AUTH_ANON_KEY", "")
	port := getEnv("PORT", "8080")

	if mongoURI == "" {
		log.Fatal("❌ MONGODB_URI is required")
	}
	if authURL == "" {
		log.Fatal("❌ AUTH_URL is required")
	}
	if authAnonKey == "" {
		log.Fatal("❌ AUTH_ANON_KEY is required")
	}

	// Reserved administrator identity
	admin := reconcile.Admin{
		Email: getEnv("ADMIN_EMAIL", "yashpatil@admin.com"),
		Name:  getEnv("ADMIN_NAME", "Yash Patil (Admin)"),
	}

	// Connect to MongoDB
	if err := database.Connect(mongoURI, dbName); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo()
	sessionRepo := repository.NewSessionRepo()
	feedbackRepo := repository.NewFeedbackRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create user indexes: %v", err)
	}
	if err := sessionRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create session indexes: %v", err)
	}
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}

	// External auth service
	authService := authsvc.NewHTTPService(authURL, authAnonKey)

	// Sentiment classifier — Gemini when a key is configured, otherwise the
	// fallback label for every submission
	var classifier sentiment.Classifier
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		gemini, err := sentiment.NewGeminiClassifier(apiKey, os.Getenv("GEMINI_MODEL"))
		if err != nil {
			log.Fatalf("❌ Failed to create Gemini classifier: %v", err)
		}
		classifier = gemini
	} else {
		log.Println("⚠️  GEMINI_API_KEY not set, all feedback will be labeled", sentiment.Fallback)
		classifier = sentiment.Static{Label: sentiment.Fallback}
	}

	// Notifier for new submissions (log-backed)
	notifier := notify.NewLogNotifier()

	// Initialize handlers
	cookieSecure := getEnv("COOKIE_SECURE", "") == "true"
	authHandler := handlers.NewAuthHandler(authService, userRepo, sessionRepo, admin, cookieSecure)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, classifier, notifier)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"campus-feedback-backend"}`))
	})

	// API routes — the session middleware only attaches the user snapshot;
	// each handler enforces its own access rule
	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Session(sessionRepo))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/status", authHandler.Status)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Post("/submit", feedbackHandler.Submit)
			r.Get("/all", feedbackHandler.All)
			r.Get("/stats", feedbackHandler.Stats)
			r.Get("/my-feedback", feedbackHandler.MyFeedback)
			r.Get("/analytics", feedbackHandler.Analytics)
		})
	})

	// Start server
	log.Printf("🚀 Campus feedback backend starting on port %s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
