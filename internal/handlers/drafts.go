package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/services"
)

// HeaderDraftSignature carries the hex HMAC-SHA256 of the request body.
const HeaderDraftSignature = "X-Draft-Signature"

type DraftHandler struct {
	service       services.DraftService
	conversations services.MessageService
	secret        string
	logger        *zap.Logger
}

func NewDraftHandler(service services.DraftService, conversations services.MessageService, secret string, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{service: service, conversations: conversations, secret: secret, logger: logger}
}

// ProposeDraftRequest is what the drafting worker submits for an inbound message
type ProposeDraftRequest struct {
	MessageID string `json:"message_id"`
	Text      string `json:"text"`
	Model     string `json:"model"`
}

// HandlePropose handles POST /api/drafts
// @Summary Propose a draft reply
// @Description Signed intake from the drafting worker. At most one draft is kept per inbound message.
// @Tags drafts
// @Accept json
// @Produce json
// @Param X-Draft-Signature header string true "hex HMAC-SHA256 of the body"
// @Param draft body ProposeDraftRequest true "Draft"
// @Success 201 {object} services.DraftProposal "Created"
// @Success 200 {object} services.DraftProposal "Existing draft"
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Automation paused"
// @Failure 422 {object} services.DraftProposal "Decision does not allow drafting"
// @Router /drafts [post]
func (h *DraftHandler) HandlePropose(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		return
	}
	defer r.Body.Close()
	if !h.verify(body, r.Header.Get(HeaderDraftSignature)) {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid signature"})
		return
	}
	var req ProposeDraftRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.MessageID == "" {
		writeError(w, h.logger, &apperrors.ErrValidation{Field: "message_id", Message: "is required"})
		return
	}

	proposal, err := h.service.Propose(r.Context(), req.MessageID, req.Text, req.Model)
	if errors.Is(err, apperrors.ErrDraftNotAllowed) && proposal != nil {
		// The caller still needs the decision and whether it escalated.
		writeJSON(w, http.StatusUnprocessableEntity, proposal)
		return
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	status := http.StatusOK
	if proposal.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, proposal)
}

// HandleGet handles GET /api/conversations/{id}/draft
// @Summary Pending draft
// @Tags drafts
// @Produce json
// @Param id path string true "Conversation id"
// @Success 200 {object} models.MessageDraft
// @Failure 404 {object} ErrorResponse
// @Param X-Instructor-ID header string true "Instructor id"
// @Failure 403 {object} ErrorResponse
// @Router /conversations/{id}/draft [get]
func (h *DraftHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if _, err := ownedConversation(r, h.conversations); err != nil {
		writeError(w, h.logger, err)
		return
	}
	d, err := h.service.GetForConversation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandleSend handles POST /api/conversations/{id}/draft/send
// @Summary Approve and send the pending draft
// @Description Creates the outbound message, counts it against the channel quota and removes the draft in one transaction
// @Tags drafts
// @Produce json
// @Param id path string true "Conversation id"
// @Param X-Instructor-ID header string true "Instructor id"
// @Param X-Actor-ID header string true "Approving operator"
// @Success 200 {object} services.SentDraft
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No pending draft"
// @Failure 500 {object} ErrorResponse "Quota row missing"
// @Router /conversations/{id}/draft/send [post]
func (h *DraftHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	approvedBy, err := requireHeader(r, HeaderActorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if _, err := ownedConversation(r, h.conversations); err != nil {
		writeError(w, h.logger, err)
		return
	}
	sent, err := h.service.SendApproved(r.Context(), mux.Vars(r)["id"], approvedBy)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sent)
}

func (h *DraftHandler) verify(body []byte, sig string) bool {
	if h.secret == "" || sig == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(sig))
}
