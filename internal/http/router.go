package http

import (
	stdhttp "net/http"
	"time"

	"pbm-backend/internal/handlers"
	"pbm-backend/internal/live"
	"pbm-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route of the membership backend. uploadsDir mounts
// the local photo directory as static files; pass "" for object-storage
// backends.
func NewRouter(
	memberHandler *handlers.MemberHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
	requestLogger *middleware.RequestLogger,
	hub *live.Hub,
	uploadsDir string,
) stdhttp.Handler {
	r := mux.NewRouter()

	// Public registration, rate limited per IP.
	registerLimiter := middleware.NewRateLimiter(30, time.Minute)
	r.Handle("/register",
		registerLimiter.Middleware(stdhttp.HandlerFunc(memberHandler.Register)),
	).Methods(stdhttp.MethodPost, stdhttp.MethodOptions)

	r.HandleFunc("/verify/{key}", memberHandler.Verify).Methods(stdhttp.MethodGet)
	r.HandleFunc("/districts", memberHandler.ListDistricts).Methods(stdhttp.MethodGet)
	r.HandleFunc("/district-secretaries", memberHandler.ListDistrictSecretaries).Methods(stdhttp.MethodGet)

	// Back office.
	r.HandleFunc("/admin/login", authHandler.Login).Methods(stdhttp.MethodPost, stdhttp.MethodOptions)
	r.HandleFunc("/admin", memberHandler.List).Methods(stdhttp.MethodGet)
	r.HandleFunc("/admin/idcard/{mobile}", memberHandler.IDCard).Methods(stdhttp.MethodGet)
	r.Handle("/admin/fix-membership",
		authMiddleware.Require(stdhttp.HandlerFunc(memberHandler.FixMembership)),
	).Methods(stdhttp.MethodPost, stdhttp.MethodOptions)
	if hub != nil {
		r.HandleFunc("/admin/live", hub.ServeWS).Methods(stdhttp.MethodGet)
	}

	// Operations.
	r.HandleFunc("/health", healthHandler.Check).Methods(stdhttp.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(stdhttp.MethodGet)

	// Uploaded photos (local backend only).
	if uploadsDir != "" {
		r.PathPrefix("/uploads/").Handler(
			stdhttp.StripPrefix("/uploads/", stdhttp.FileServer(stdhttp.Dir(uploadsDir))),
		)
	}

	var handler stdhttp.Handler = r
	handler = middleware.GzipCompression(handler)
	handler = middleware.SecurityHeaders(handler)
	if requestLogger != nil {
		handler = requestLogger.Handler(handler)
	}
	return handler
}
