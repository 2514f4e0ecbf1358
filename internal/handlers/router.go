package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/services"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Bookings      services.BookingService
	Confirmations services.ConfirmationService
	Messages      services.MessageService
	Automation    services.AutomationService
	Eligibility   services.EligibilityService
	Escalation    services.EscalationService
	Snapshots     services.SnapshotService
	Drafts        services.DraftService
	Quotas        services.QuotaService
	KillSwitch    services.KillSwitchService
	Audit         services.AuditService
}

// RouterConfig carries the HTTP-only settings.
type RouterConfig struct {
	DraftSigningSecret string
	RateLimitPerMinute int
	// Health reports storage liveness; nil means always healthy.
	Health func() error
}

// NewRouter registers every endpoint under /api plus /health and /swagger/.
func NewRouter(svc Services, cfg RouterConfig, logger *zap.Logger) http.Handler {
	bookingHandler := NewBookingHandler(svc.Bookings, svc.Confirmations, logger)
	conversationHandler := NewConversationHandler(svc.Messages, svc.Automation, svc.Eligibility, svc.Escalation, svc.Snapshots, logger)
	draftHandler := NewDraftHandler(svc.Drafts, svc.Messages, cfg.DraftSigningSecret, logger)
	adminHandler := NewAdminHandler(svc.Quotas, svc.KillSwitch, svc.Audit, logger)

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(); err != nil {
				logger.Error("health check failed", zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "lessondesk",
		})
	}).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.PathPrefix("/api").Subrouter()

	// Bookings
	api.HandleFunc("/bookings", bookingHandler.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/bookings/confirmations", bookingHandler.HandleConfirm).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", bookingHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/transition", bookingHandler.HandleTransition).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/lifecycle", bookingHandler.HandleLifecycle).Methods(http.MethodGet)

	// Conversations and automation
	api.HandleFunc("/conversations", conversationHandler.HandleCreate).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}", conversationHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/messages", conversationHandler.HandleInbound).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/automation", conversationHandler.HandleGetAutomation).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/automation", conversationHandler.HandleSetAutomation).Methods(http.MethodPut)
	api.HandleFunc("/conversations/{id}/eligibility", conversationHandler.HandleEligibility).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/escalation", conversationHandler.HandleEscalation).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/snapshot", conversationHandler.HandleSnapshot).Methods(http.MethodGet)

	// Drafts
	api.HandleFunc("/drafts", draftHandler.HandlePropose).Methods(http.MethodPost)
	api.HandleFunc("/conversations/{id}/draft", draftHandler.HandleGet).Methods(http.MethodGet)
	api.HandleFunc("/conversations/{id}/draft/send", draftHandler.HandleSend).Methods(http.MethodPost)

	// Admin
	api.HandleFunc("/admin/quotas/{channel}/{day}", adminHandler.HandleProvisionQuota).Methods(http.MethodPut)
	api.HandleFunc("/admin/quotas/{channel}/{day}", adminHandler.HandleGetQuota).Methods(http.MethodGet)
	api.HandleFunc("/admin/kill-switch/{channel}", adminHandler.HandleGetKillSwitch).Methods(http.MethodGet)
	api.HandleFunc("/admin/kill-switch/{channel}", adminHandler.HandleSetKillSwitch).Methods(http.MethodPut)
	api.HandleFunc("/audit/{entity_type}/{entity_id}", adminHandler.HandleAudit).Methods(http.MethodGet)

	limiter := NewRateLimiter(cfg.RateLimitPerMinute, logger)
	api.Use(limiter.Middleware)

	return CORS(RequestLogger(logger)(r))
}
