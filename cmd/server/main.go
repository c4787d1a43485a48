package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"

	"pbm-backend/internal/auth"
	"pbm-backend/internal/config"
	"pbm-backend/internal/database"
	"pbm-backend/internal/handlers"
	"pbm-backend/internal/health"
	h "pbm-backend/internal/http"
	"pbm-backend/internal/idcard"
	"pbm-backend/internal/live"
	"pbm-backend/internal/middleware"
	"pbm-backend/internal/monitoring"
	"pbm-backend/internal/repositories"
	"pbm-backend/internal/services"
	"pbm-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx := context.Background()

	// Connect to database and apply migrations
	pool := database.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool, migrations.FS)
	if err := migrator.Run(ctx); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}

	// Branding assets are checked here so a missing script font kills the
	// process before it serves traffic, not on the first card download.
	renderer, err := idcard.NewRenderer(cfg)
	if err != nil {
		log.Fatalf("Card renderer configuration: %v", err)
	}

	blobs, err := services.NewBlobStore(cfg)
	if err != nil {
		log.Fatalf("Storage backend: %v", err)
	}
	log.Printf("Using %s storage backend", blobs.Name())

	// Initialize repositories
	memberRepo := repositories.NewMemberRepository(pool)
	counterRepo := repositories.NewCounterRepository(pool)
	adminRepo := repositories.NewAdminRepository(pool)
	districtRepo := repositories.NewDistrictRepository(pool)

	// Initialize services
	jwtManager := auth.NewJWTManager(cfg)
	membershipService := services.NewMembershipService(memberRepo, counterRepo, blobs, cfg.Membership)
	cardService := services.NewCardService(memberRepo, blobs, renderer)
	verificationService := services.NewVerificationService(memberRepo, cfg.Membership.Prefix)
	adminService := services.NewAdminService(adminRepo, jwtManager)

	if err := adminService.EnsureDefaultAdmins(ctx); err != nil {
		log.Fatalf("Admin bootstrap failed: %v", err)
	}

	// Live registration feed for admin dashboards
	hub := live.NewHub(cfg.CORS.AllowedOrigins)
	go hub.Run()

	metrics := monitoring.NewMetrics()

	// Initialize handlers
	memberHandler := handlers.NewMemberHandler(membershipService, cardService, verificationService, districtRepo, metrics, hub)
	authHandler := handlers.NewAuthHandler(adminService)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	requestLogger := middleware.NewRequestLogger(metrics)
	corsMiddleware := middleware.NewCORS(cfg)

	uploadsDir := ""
	if local, ok := blobs.(*services.LocalBlobStore); ok {
		uploadsDir, err = local.FilePath("uploads")
		if err != nil {
			log.Fatalf("Uploads directory: %v", err)
		}
	}

	router := h.NewRouter(memberHandler, authHandler, healthHandler, authMiddleware, requestLogger, hub, uploadsDir)
	handler := corsMiddleware(router)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Membership backend running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
