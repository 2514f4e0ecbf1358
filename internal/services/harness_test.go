package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tropicaldog17/lessondesk/internal/db"
	"github.com/tropicaldog17/lessondesk/internal/flags"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

// harness wires every service against one in-memory database and a movable clock.
type harness struct {
	t   *testing.T
	ctx context.Context
	db  *db.DB
	now time.Time

	conversationRepo repositories.ConversationRepository
	messageRepo      repositories.MessageRepository
	bookingRepo      repositories.BookingRepository
	auditRepo        repositories.AuditLogRepository
	draftRepo        repositories.DraftRepository
	quotaRepo        repositories.QuotaRepository
	confirmationRepo repositories.ConfirmationRepository
	flags            *flags.Static

	bookings      BookingService
	automation    AutomationService
	eligibility   EligibilityService
	escalation    EscalationService
	snapshots     SnapshotService
	drafts        DraftService
	confirmations ConfirmationService
	quotas        QuotaService
	messages      MessageService
	killSwitch    KillSwitchService
}

var allowedChannels = []string{"sms", "whatsapp", "email", "web"}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:   t,
		ctx: context.Background(),
		db:  db.NewTestDB(t),
		now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return h.now }
	log := zap.NewNop()

	h.conversationRepo = repositories.NewConversationRepository(h.db)
	h.messageRepo = repositories.NewMessageRepository(h.db)
	h.bookingRepo = repositories.NewBookingRepository(h.db)
	h.auditRepo = repositories.NewAuditLogRepository(h.db)
	h.draftRepo = repositories.NewDraftRepository(h.db)
	h.quotaRepo = repositories.NewQuotaRepository(h.db)
	h.confirmationRepo = repositories.NewConfirmationRepository(h.db)
	h.flags = flags.NewStatic(nil)

	h.bookings = NewBookingServiceWithClock(h.bookingRepo, h.auditRepo, log, clock)
	h.automation = NewAutomationService(h.conversationRepo, log)
	h.eligibility = NewEligibilityService(h.conversationRepo, h.messageRepo, h.bookings, h.flags, allowedChannels, log)
	h.escalation = NewEscalationService(h.conversationRepo, h.messageRepo, h.bookings, log)
	h.snapshots = NewSnapshotService(h.automation, h.conversationRepo, h.messageRepo, h.bookings, h.flags, allowedChannels, h.auditRepo, log, clock)
	h.drafts = NewDraftService(h.draftRepo, h.messageRepo, h.automation, h.bookings, h.snapshots, h.auditRepo, log, clock)
	h.confirmations = NewConfirmationService(h.confirmationRepo, h.auditRepo, log, clock)
	h.quotas = NewQuotaService(h.quotaRepo, h.auditRepo, log)
	h.messages = NewMessageService(h.conversationRepo, h.messageRepo, log, clock)
	h.killSwitch = NewKillSwitchService(h.flags, h.auditRepo, log)
	return h
}

func (h *harness) advance(d time.Duration) { h.now = h.now.Add(d) }

func (h *harness) conversation(channel string) *models.Conversation {
	h.t.Helper()
	c := &models.Conversation{InstructorID: "inst_1", CustomerRef: "cust_1", Channel: channel}
	require.NoError(h.t, h.messages.StartConversation(h.ctx, c))
	return c
}

func (h *harness) inbound(conversationID string, in *InboundMessage) *models.Message {
	h.t.Helper()
	if in.Body == "" {
		in.Body = "Can I move my lesson to Thursday?"
	}
	m, err := h.messages.RecordInbound(h.ctx, conversationID, in)
	require.NoError(h.t, err)
	h.advance(time.Second)
	return m
}

// booking stores a booking directly, bypassing validation, so tests can seed any state.
func (h *harness) booking(state models.BookingState, createdAt time.Time, conversationID *string) *models.Booking {
	h.t.Helper()
	b := &models.Booking{
		InstructorID:   "inst_1",
		CustomerRef:    "cust_1",
		StartAt:        createdAt.Add(48 * time.Hour),
		EndAt:          createdAt.Add(49 * time.Hour),
		State:          state,
		Price:          decimal.NewFromInt(60),
		Currency:       "USD",
		ConversationID: conversationID,
		CreatedAt:      createdAt,
	}
	require.NoError(h.t, h.bookingRepo.Create(h.ctx, b))
	return b
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }
func yes() *bool             { v := true; return &v }
