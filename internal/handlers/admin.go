package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/services"
)

// AdminHandler serves operator endpoints: quotas, the kill-switch and the audit log.
type AdminHandler struct {
	quotaService      services.QuotaService
	killSwitchService services.KillSwitchService
	auditService      services.AuditService
	logger            *zap.Logger
}

func NewAdminHandler(quotaService services.QuotaService, killSwitchService services.KillSwitchService, auditService services.AuditService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		quotaService:      quotaService,
		killSwitchService: killSwitchService,
		auditService:      auditService,
		logger:            logger,
	}
}

// ProvisionQuotaRequest sets a channel's daily limit
type ProvisionQuotaRequest struct {
	DailyLimit int `json:"daily_limit"`
}

// HandleProvisionQuota handles PUT /api/admin/quotas/{channel}/{day}
// @Summary Provision a channel quota
// @Description Creates or updates the limit for a channel and UTC day; the used count is kept
// @Tags admin
// @Accept json
// @Produce json
// @Param channel path string true "Channel"
// @Param day path string true "UTC day, YYYY-MM-DD"
// @Param X-Actor-ID header string true "Operator id"
// @Param quota body ProvisionQuotaRequest true "Limit"
// @Success 200 {object} models.ChannelQuota
// @Failure 400 {object} ErrorResponse
// @Router /admin/quotas/{channel}/{day} [put]
func (h *AdminHandler) HandleProvisionQuota(w http.ResponseWriter, r *http.Request) {
	actorID, err := requireHeader(r, HeaderActorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req ProvisionQuotaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	vars := mux.Vars(r)
	q, err := h.quotaService.Provision(r.Context(), vars["channel"], vars["day"], req.DailyLimit, actorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// HandleGetQuota handles GET /api/admin/quotas/{channel}/{day}
// @Summary Channel quota usage
// @Tags admin
// @Produce json
// @Param channel path string true "Channel"
// @Param day path string true "UTC day, YYYY-MM-DD"
// @Success 200 {object} models.ChannelQuota
// @Failure 404 {object} ErrorResponse "Not provisioned"
// @Router /admin/quotas/{channel}/{day} [get]
func (h *AdminHandler) HandleGetQuota(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	q, err := h.quotaService.Usage(r.Context(), vars["channel"], vars["day"])
	if errors.Is(err, apperrors.ErrQuotaRowMissing) {
		// Reading an unprovisioned day is not the send-path misconfiguration.
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// KillSwitchState is the kill-switch value for one channel
type KillSwitchState struct {
	Channel string `json:"channel"`
	Enabled bool   `json:"enabled"`
}

// HandleGetKillSwitch handles GET /api/admin/kill-switch/{channel}
// @Summary Read the automation kill-switch
// @Tags admin
// @Produce json
// @Param channel path string true "Channel"
// @Success 200 {object} KillSwitchState
// @Router /admin/kill-switch/{channel} [get]
func (h *AdminHandler) HandleGetKillSwitch(w http.ResponseWriter, r *http.Request) {
	channel := mux.Vars(r)["channel"]
	enabled, err := h.killSwitchService.Enabled(r.Context(), channel)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, KillSwitchState{Channel: channel, Enabled: enabled})
}

// HandleSetKillSwitch handles PUT /api/admin/kill-switch/{channel}
// @Summary Flip the automation kill-switch
// @Tags admin
// @Accept json
// @Produce json
// @Param channel path string true "Channel"
// @Param X-Actor-ID header string true "Operator id"
// @Param state body KillSwitchState true "Enabled flag; channel is taken from the path"
// @Success 200 {object} KillSwitchState
// @Router /admin/kill-switch/{channel} [put]
func (h *AdminHandler) HandleSetKillSwitch(w http.ResponseWriter, r *http.Request) {
	actorID, err := requireHeader(r, HeaderActorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req KillSwitchState
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	channel := mux.Vars(r)["channel"]
	if err := h.killSwitchService.SetEnabled(r.Context(), channel, req.Enabled, actorID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, KillSwitchState{Channel: channel, Enabled: req.Enabled})
}

// HandleAudit handles GET /api/audit/{entity_type}/{entity_id}
// @Summary Audit log for an entity
// @Tags audit
// @Produce json
// @Param entity_type path string true "Entity type, e.g. conversation, booking, draft"
// @Param entity_id path string true "Entity id"
// @Success 200 {array} models.AuditLogEntry
// @Router /audit/{entity_type}/{entity_id} [get]
func (h *AdminHandler) HandleAudit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entries, err := h.auditService.List(r.Context(), vars["entity_type"], vars["entity_id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
