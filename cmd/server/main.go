package main

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rodr499/kardo/internal/server/api"
	"github.com/rodr499/kardo/internal/server/services"
	"github.com/rodr499/kardo/internal/server/storage"
	"github.com/rodr499/kardo/pkg/version"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var rootCmd = &cobra.Command{
	Use:   "kardo-server",
	Short: "Kardo - digital business cards backed by physical card codes",
	Long:  "Server component for Kardo providing card resolution, public profiles and the management API",
	// Default to serve command if no subcommand provided
	Run: func(cmd *cobra.Command, args []string) {
		runServe(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Kardo server",
	Long:  "Start the Kardo server with the HTTP API and public card routes",
	Run:   runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.GetVersion("kardo-server"))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, adminCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) {

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.Printf("=== Kardo Server ===")
	log.Printf("%s", version.GetVersion("kardo-server"))
	log.Println()

	// Refuse to start without a JWT secret; token validation against an
	// empty key would accept tokens signed with an empty key.
	if os.Getenv("SUPABASE_JWT_SECRET") == "" {
		log.Fatal("SUPABASE_JWT_SECRET environment variable not set")
	}

	// Connect to database
	log.Println("Connecting to database...")
	db, err := storage.NewPostgresDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	// Run embedded migrations
	log.Println("Running database migrations...")
	if err := runEmbeddedMigrations(db.DB.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations complete")

	// Initialize repositories
	cardRepo := storage.NewCardRepository(db)
	profileRepo := storage.NewProfileRepository(db)
	settingsRepo := storage.NewSettingsRepository(db)

	// Initialize Supabase auth client (optional - only if configured)
	var supabaseService *services.SupabaseService
	if svc, err := services.NewSupabaseService(); err != nil {
		log.Printf("Warning: Supabase not configured: %v", err)
		log.Println("Signup, login and account deletion will not be available")
	} else {
		supabaseService = svc
		log.Println("Supabase auth initialized")
	}

	// Initialize storage bucket client (optional - needs the service role key)
	var bucketService *services.BucketService
	if svc, err := services.NewBucketService(); err != nil {
		log.Printf("Warning: storage bucket not configured: %v", err)
		log.Println("Avatar and QR image uploads will not be available")
	} else {
		bucketService = svc
		log.Println("Storage bucket client initialized")
	}

	// Initialize email service (optional - only if RESEND_API_KEY set)
	var emailService *services.EmailService
	if svc, err := services.NewEmailService(); err != nil {
		log.Printf("Warning: email not configured: %v", err)
	} else {
		emailService = svc
	}

	qrService := services.NewQRService()
	codeGenerator := services.NewCodeGenerator(cardRepo)
	cardService := services.NewCardService(cardRepo, profileRepo, codeGenerator, emailService)
	profileService := services.NewProfileService(profileRepo, cardRepo, bucketService, qrService, supabaseService)

	// Initialize handlers
	cardHandler := api.NewCardHandler(cardService)
	vcardHandler := api.NewVCardHandler(profileService)
	profileHandler := api.NewProfileHandler(profileService, cardService)
	authHandler := api.NewAuthHandler(supabaseService, settingsRepo)
	adminHandler := api.NewAdminHandler(cardService, settingsRepo, supabaseService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.CORSMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"kardo"}`))
	})

	// Public card resolution and profiles
	r.Get("/c/{code}", cardHandler.ResolveCard)
	r.Get("/u/{handle}", profileHandler.GetPublicProfile)
	r.Get("/u/{handle}/vcf", vcardHandler.DownloadVCard)
	r.Get("/u/{handle}.vcf", vcardHandler.DownloadVCard)
	r.Get("/api/profiles/{handle}", profileHandler.GetPublicProfile)

	// Public auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	// Protected routes
	r.Route("/api", func(r chi.Router) {
		r.Use(api.AuthMiddleware)

		r.Post("/cards/claim", cardHandler.ClaimCard)
		r.Get("/cards", cardHandler.ListMyCards)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", profileHandler.GetMyProfile)
			r.Put("/", profileHandler.UpdateMyProfile)
			r.Post("/avatar", profileHandler.UploadAvatar)
			r.Post("/qr", profileHandler.GenerateQRCode)
		})

		r.Delete("/account", profileHandler.DeleteAccount)
	})

	// Admin routes
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(api.AuthMiddleware)
		r.Use(api.AdminMiddleware(profileRepo))

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", adminHandler.ListCards)
			r.Post("/generate", adminHandler.GenerateCards)
			r.Post("/{code}/unclaim", adminHandler.UnclaimCard)
			r.Post("/{code}/disable", adminHandler.DisableCard)
			r.Delete("/{code}", adminHandler.DeleteCard)
			r.Patch("/{code}/nfc", adminHandler.SetNfcTag)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", adminHandler.GetSettings)
			r.Put("/", adminHandler.UpdateSettings)
		})
	})

	// Get server config
	host := os.Getenv("API_HOST")
	if host == "" {
		host = "0.0.0.0"
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	// Find available port
	port = findAvailableAPIPort(port)
	addr := fmt.Sprintf("%s:%s", host, port)

	// Create server
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func runEmbeddedMigrations(db *sql.DB) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	// Sort migrations by filename to ensure correct order
	var migrations []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".sql" {
			migrations = append(migrations, entry.Name())
		}
	}
	sort.Strings(migrations)

	for _, migration := range migrations {
		log.Printf("Applying migration: %s", migration)

		content, err := migrationsFS.ReadFile(filepath.Join("migrations", migration))
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", migration, err)
		}

		// Execute migration (ignore errors if table already exists)
		if _, err := db.Exec(string(content)); err != nil {
			log.Printf("Warning: Migration %s: %v (may already exist)", migration, err)
		}
	}

	return nil
}

// isPortAvailable checks if a port is available for binding
func isPortAvailable(port string) bool {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return false // Port in use
	}
	ln.Close()
	return true // Port available
}

// findAvailableAPIPort finds an available port for the API server
func findAvailableAPIPort(preferredPort string) string {
	// Try preferred port first
	if isPortAvailable(preferredPort) {
		log.Printf("✓ Port %s available", preferredPort)
		return preferredPort
	}

	log.Printf("Port %s in use, trying alternatives...", preferredPort)

	startPort := 8080
	if p, err := strconv.Atoi(preferredPort); err == nil {
		startPort = p
	}

	// Try next 20 ports
	for i := 1; i <= 20; i++ {
		port := startPort + i
		portStr := strconv.Itoa(port)
		if isPortAvailable(portStr) {
			log.Printf("✓ Found available port: %s", portStr)
			return portStr
		}
	}

	// No ports available, return preferred (will fail with clear error)
	log.Printf("⚠️  No available ports found, will attempt %s", preferredPort)
	return preferredPort
}
