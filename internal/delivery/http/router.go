package http

import (
	"net/http"

	"longa/internal/delivery/http/handler"
	"longa/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	bookingHandler    *handler.BookingHandler
	assignmentHandler *handler.AssignmentHandler
	payoutHandler     *handler.PayoutHandler
	serviceHandler    *handler.ServiceHandler
	providerHandler   *handler.ProviderHandler
	auditLogHandler   *handler.AuditLogHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	rateLimiter       *middleware.RateLimiter
}

func NewRouter(
	authHandler *handler.AuthHandler,
	bookingHandler *handler.BookingHandler,
	assignmentHandler *handler.AssignmentHandler,
	payoutHandler *handler.PayoutHandler,
	serviceHandler *handler.ServiceHandler,
	providerHandler *handler.ProviderHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimiter *middleware.RateLimiter,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		bookingHandler:    bookingHandler,
		assignmentHandler: assignmentHandler,
		payoutHandler:     payoutHandler,
		serviceHandler:    serviceHandler,
		providerHandler:   providerHandler,
		auditLogHandler:   auditLogHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		rateLimiter:       rateLimiter,
	}
}

func (r *Router) Setup() *mux.Router {
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Service catalog (public)
	api.HandleFunc("/services", r.serviceHandler.ListActiveServices).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/client", r.authHandler.RegisterClient).Methods(http.MethodPost)
	auth.HandleFunc("/register/provider", r.authHandler.RegisterProvider).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Client routes
	client := api.PathPrefix("/client").Subrouter()
	client.Use(r.authMiddleware.Authenticate)
	client.Use(middleware.RequireClient)
	client.HandleFunc("/bookings", r.bookingHandler.CreateBooking).Methods(http.MethodPost)
	client.HandleFunc("/bookings", r.bookingHandler.GetMyBookings).Methods(http.MethodGet)

	// Provider routes
	provider := api.PathPrefix("/provider").Subrouter()
	provider.Use(r.authMiddleware.Authenticate)
	provider.Use(middleware.RequireProvider)
	provider.HandleFunc("/bookings", r.bookingHandler.GetProviderBookings).Methods(http.MethodGet)
	provider.HandleFunc("/bookings/{id}/accept", r.bookingHandler.Accept).Methods(http.MethodPost)
	provider.HandleFunc("/bookings/{id}/begin", r.bookingHandler.Begin).Methods(http.MethodPost)
	provider.HandleFunc("/bookings/{id}/complete", r.bookingHandler.Complete).Methods(http.MethodPost)
	provider.HandleFunc("/profile", r.providerHandler.GetMyProfile).Methods(http.MethodGet)
	provider.HandleFunc("/profile/availability", r.providerHandler.UpdateMyAvailability).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Booking lifecycle (admin)
	admin.HandleFunc("/bookings", r.bookingHandler.ListBookings).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}", r.bookingHandler.GetBooking).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}/rollback", r.bookingHandler.Rollback).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/cancel-refund", r.bookingHandler.CancelWithRefund).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/no-show/client", r.bookingHandler.MarkClientNoShow).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/no-show/provider", r.bookingHandler.MarkProviderNoShow).Methods(http.MethodPost)

	// Provider assignment (admin)
	admin.HandleFunc("/bookings/{id}/candidates", r.assignmentHandler.ListCandidates).Methods(http.MethodGet)
	admin.HandleFunc("/bookings/{id}/reassign", r.assignmentHandler.Reassign).Methods(http.MethodPost)
	admin.HandleFunc("/bookings/{id}/assignments", r.assignmentHandler.GetAssignmentHistory).Methods(http.MethodGet)

	// Payouts (admin)
	admin.HandleFunc("/payouts", r.payoutHandler.CreateManualPayout).Methods(http.MethodPost)
	admin.HandleFunc("/payouts", r.payoutHandler.ListPayouts).Methods(http.MethodGet)
	admin.HandleFunc("/payouts/export", r.payoutHandler.Export).Methods(http.MethodGet)
	admin.HandleFunc("/payouts/export", r.payoutHandler.ExportAndMark).Methods(http.MethodPost)
	admin.HandleFunc("/payouts/{id}", r.payoutHandler.GetPayout).Methods(http.MethodGet)
	admin.HandleFunc("/payouts/{id}/process", r.payoutHandler.MarkProcessed).Methods(http.MethodPost)
	admin.HandleFunc("/payouts/{id}/fail", r.payoutHandler.MarkFailed).Methods(http.MethodPost)

	// Service catalog (admin)
	admin.HandleFunc("/services", r.serviceHandler.CreateService).Methods(http.MethodPost)
	admin.HandleFunc("/services", r.serviceHandler.ListAllServices).Methods(http.MethodGet)
	admin.HandleFunc("/services/{id}", r.serviceHandler.GetService).Methods(http.MethodGet)
	admin.HandleFunc("/services/{id}", r.serviceHandler.UpdateService).Methods(http.MethodPut)
	admin.HandleFunc("/services/{id}/items", r.serviceHandler.AddPackageItem).Methods(http.MethodPost)

	// Providers (admin)
	admin.HandleFunc("/providers", r.providerHandler.ListProviders).Methods(http.MethodGet)
	admin.HandleFunc("/providers/{id}", r.providerHandler.GetProvider).Methods(http.MethodGet)
	admin.HandleFunc("/providers/{id}", r.providerHandler.UpdateProvider).Methods(http.MethodPut)

	// Audit logs (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(middleware.Metrics)
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.rateLimiter.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
