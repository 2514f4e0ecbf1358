package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/services"
)

type ConversationHandler struct {
	messageService     services.MessageService
	automationService  services.AutomationService
	eligibilityService services.EligibilityService
	escalationService  services.EscalationService
	snapshotService    services.SnapshotService
	logger             *zap.Logger
}

func NewConversationHandler(
	messageService services.MessageService,
	automationService services.AutomationService,
	eligibilityService services.EligibilityService,
	escalationService services.EscalationService,
	snapshotService services.SnapshotService,
	logger *zap.Logger,
) *ConversationHandler {
	return &ConversationHandler{
		messageService:     messageService,
		automationService:  automationService,
		eligibilityService: eligibilityService,
		escalationService:  escalationService,
		snapshotService:    snapshotService,
		logger:             logger,
	}
}

// ownedConversation loads the path conversation for the calling instructor.
func ownedConversation(r *http.Request, svc services.MessageService) (*models.Conversation, error) {
	instructorID, err := requireHeader(r, HeaderInstructorID)
	if err != nil {
		return nil, err
	}
	return svc.GetOwnedConversation(r.Context(), mux.Vars(r)["id"], instructorID)
}

// StartConversationRequest opens a conversation on a channel
type StartConversationRequest struct {
	CustomerRef string `json:"customer_ref"`
	Channel     string `json:"channel"`
}

// HandleCreate handles POST /api/conversations
// @Summary Start a conversation
// @Tags conversations
// @Accept json
// @Produce json
// @Param X-Instructor-ID header string true "Instructor id"
// @Param conversation body StartConversationRequest true "Conversation"
// @Success 201 {object} models.Conversation
// @Failure 400 {object} ErrorResponse
// @Router /conversations [post]
func (h *ConversationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	instructorID, err := requireHeader(r, HeaderInstructorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req StartConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	c := &models.Conversation{InstructorID: instructorID, CustomerRef: req.CustomerRef, Channel: req.Channel}
	if err := h.messageService.StartConversation(r.Context(), c); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleGet handles GET /api/conversations/{id}
// @Summary Get a conversation
// @Tags conversations
// @Produce json
// @Param id path string true "Conversation id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Success 200 {object} models.Conversation
// @Failure 404 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id} [get]
func (h *ConversationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	c, err := ownedConversation(r, h.messageService)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// HandleInbound handles POST /api/conversations/{id}/messages
// @Summary Record an inbound message
// @Description Stores a customer message together with the classifier's outputs
// @Tags conversations
// @Accept json
// @Produce json
// @Param id path string true "Conversation id"
// @Param message body services.InboundMessage true "Inbound message"
// @Success 201 {object} models.Message
// @Failure 400 {object} ErrorResponse
// @Router /conversations/{id}/messages [post]
func (h *ConversationHandler) HandleInbound(w http.ResponseWriter, r *http.Request) {
	var in services.InboundMessage
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	m, err := h.messageService.RecordInbound(r.Context(), mux.Vars(r)["id"], &in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleGetAutomation handles GET /api/conversations/{id}/automation
// @Summary Automation state
// @Tags automation
// @Produce json
// @Param id path string true "Conversation id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Success 200 {object} services.AutomationPermissions
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/automation [get]
func (h *ConversationHandler) HandleGetAutomation(w http.ResponseWriter, r *http.Request) {
	if _, err := ownedConversation(r, h.messageService); err != nil {
		writeError(w, h.logger, err)
		return
	}
	perms, err := h.automationService.Permissions(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, perms)
}

// SetAutomationRequest changes a conversation's automation state
type SetAutomationRequest struct {
	State  models.AutomationState `json:"automation_state"`
	Reason *string                `json:"reason,omitempty"`
}

// HandleSetAutomation handles PUT /api/conversations/{id}/automation
// @Summary Change automation state
// @Tags automation
// @Accept json
// @Produce json
// @Param id path string true "Conversation id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Param X-Actor-ID header string true "Operator id"
// @Param state body SetAutomationRequest true "New state"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/automation [put]
func (h *ConversationHandler) HandleSetAutomation(w http.ResponseWriter, r *http.Request) {
	actorID, err := requireHeader(r, HeaderActorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := ownedConversation(r, h.messageService); err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req SetAutomationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	prev, err := h.automationService.SetState(r.Context(), mux.Vars(r)["id"], req.State, models.ActorHuman, &actorID, req.Reason)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"previous_state":   string(prev),
		"automation_state": string(req.State),
	})
}

// HandleEligibility handles GET /api/conversations/{id}/eligibility
// @Summary Automation response eligibility
// @Tags automation
// @Produce json
// @Param id path string true "Conversation id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Success 200 {object} services.Eligibility
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/eligibility [get]
func (h *ConversationHandler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	if _, err := ownedConversation(r, h.messageService); err != nil {
		writeError(w, h.logger, err)
		return
	}
	v, err := h.eligibilityService.Evaluate(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleEscalation handles GET /api/conversations/{id}/escalation
// @Summary Escalation verdict
// @Tags automation
// @Produce json
// @Param id path string true "Conversation id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Success 200 {object} services.Escalation
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/escalation [get]
func (h *ConversationHandler) HandleEscalation(w http.ResponseWriter, r *http.Request) {
	if _, err := ownedConversation(r, h.messageService); err != nil {
		writeError(w, h.logger, err)
		return
	}
	v, err := h.escalationService.Classify(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HandleSnapshot handles GET /api/conversations/{id}/snapshot
// @Summary Decision snapshot
// @Description Decision, gate, explanation, eligibility, escalation and blockers for the latest inbound message
// @Tags automation
// @Produce json
// @Param id path string true "Conversation id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Success 200 {object} services.ConversationSnapshot
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/snapshot [get]
func (h *ConversationHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	if _, err := ownedConversation(r, h.messageService); err != nil {
		writeError(w, h.logger, err)
		return
	}
	v, err := h.snapshotService.Build(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
