package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tropicaldog17/lessondesk/internal/db"
	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
)

func newConversation(t *testing.T, database *db.DB, channel string) *models.Conversation {
	t.Helper()
	c := &models.Conversation{InstructorID: "inst_1", CustomerRef: "cust_1", Channel: channel}
	require.NoError(t, NewConversationRepository(database).Create(context.Background(), c))
	return c
}

func newInbound(t *testing.T, database *db.DB, conversationID string, at time.Time) *models.Message {
	t.Helper()
	m := &models.Message{ConversationID: conversationID, Direction: models.MessageInbound, Channel: "sms", Body: "Can I book Tuesday?", Author: models.ActorHuman, Status: models.MessageStatusReceived, CreatedAt: at}
	require.NoError(t, NewMessageRepository(database).Create(context.Background(), m))
	return m
}

func TestTimestampColumns_RoundTrip(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	c := newConversation(t, database, "sms")
	conv, err := NewConversationRepository(database).GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, conv.CreatedAt.IsZero())

	m := newInbound(t, database, c.ID, at)
	msg, err := NewMessageRepository(database).GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, at.Equal(msg.CreatedAt), "message created_at %s", msg.CreatedAt)

	bookings := NewBookingRepository(database)
	b := &models.Booking{
		InstructorID:   "inst_1",
		CustomerRef:    "cust_1",
		ConversationID: &c.ID,
		StartAt:        at.Add(48 * time.Hour),
		EndAt:          at.Add(49 * time.Hour),
		State:          models.BookingStatePending,
		Price:          decimal.RequireFromString("45.00"),
		Currency:       "USD",
		CreatedAt:      at,
	}
	require.NoError(t, bookings.Create(ctx, b))
	got, err := bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, b.StartAt.Equal(got.StartAt))
	assert.True(t, b.EndAt.Equal(got.EndAt))
	assert.True(t, at.Equal(got.CreatedAt))

	require.NoError(t, bookings.AppendAudit(ctx, &models.BookingAuditEntry{
		BookingID: b.ID,
		NewState:  models.BookingStatePending,
		Actor:     models.ActorSystem,
		CreatedAt: at,
	}))
	trail, err := bookings.ListAudit(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.True(t, at.Equal(trail[0].CreatedAt))

	audit := NewAuditLogRepository(database)
	require.NoError(t, audit.Append(ctx, &models.AuditLogEntry{
		EntityType: models.AuditEntityBooking,
		EntityID:   b.ID,
		Action:     models.AuditActionBookingCreated,
		ActorType:  models.ActorSystem,
		CreatedAt:  at,
	}))
	entries, err := audit.ListByEntity(ctx, models.AuditEntityBooking, b.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, at.Equal(entries[0].CreatedAt))
}

func TestBookingRepository_TransitionStateIsConditional(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)
	repo := NewBookingRepository(database)

	b := &models.Booking{InstructorID: "inst_1", CustomerRef: "cust_1", StartAt: time.Now().UTC(), EndAt: time.Now().UTC().Add(time.Hour), State: models.BookingStatePending, Price: decimal.NewFromInt(50), Currency: "USD"}
	require.NoError(t, repo.Create(ctx, b))

	prev := models.BookingStatePending
	entry := &models.BookingAuditEntry{BookingID: b.ID, PreviousState: &prev, NewState: models.BookingStateConfirmed, Actor: models.ActorHuman}
	require.NoError(t, repo.TransitionState(ctx, b.ID, models.BookingStatePending, models.BookingStateConfirmed, entry))

	// A second writer that still believes the booking is pending loses.
	stale := &models.BookingAuditEntry{BookingID: b.ID, PreviousState: &prev, NewState: models.BookingStateDeclined, Actor: models.ActorHuman}
	err := repo.TransitionState(ctx, b.ID, models.BookingStatePending, models.BookingStateDeclined, stale)
	require.ErrorIs(t, err, apperrors.ErrConcurrentUpdate)

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStateConfirmed, got.State)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(50)))

	audit, err := repo.ListAudit(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, audit, 1)
	assert.Equal(t, models.BookingStateConfirmed, audit[0].NewState)

	_, err = repo.GetByID(ctx, "missing")
	require.ErrorIs(t, err, apperrors.ErrBookingNotFound)
}

func TestConversationRepository_SetAutomationStateWritesAudit(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)
	repo := NewConversationRepository(database)
	c := newConversation(t, database, "sms")

	reason := "customer asked for the owner"
	actorID := "op_7"
	prev, err := repo.SetAutomationState(ctx, c.ID, models.AutomationPausedByHuman, models.ActorHuman, &actorID, &reason)
	require.NoError(t, err)
	assert.Equal(t, models.AutomationOn, prev)

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AutomationPausedByHuman, got.AutomationState)

	entries, err := NewAuditLogRepository(database).ListByEntity(ctx, models.AuditEntityConversation, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditActionAutomationStateChanged, entries[0].Action)
	assert.JSONEq(t, `{"automation_state":"ai_on"}`, string(entries[0].Before))
	assert.JSONEq(t, `{"automation_state":"ai_paused_by_human"}`, string(entries[0].After))

	_, err = repo.SetAutomationState(ctx, "missing", models.AutomationOn, models.ActorHuman, nil, nil)
	require.ErrorIs(t, err, apperrors.ErrConversationNotFound)
}

func TestDraftRepository_InsertOnceKeepsFirstDraft(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)
	repo := NewDraftRepository(database)
	c := newConversation(t, database, "sms")
	m := newInbound(t, database, c.ID, time.Now().UTC())

	first, created, err := repo.InsertOnce(ctx, &models.MessageDraft{MessageID: m.ID, ConversationID: c.ID, SnapshotID: "snap_1", Text: "Tuesday at 5 works!", Model: "drafter-v1"})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.InsertOnce(ctx, &models.MessageDraft{MessageID: m.ID, ConversationID: c.ID, SnapshotID: "snap_2", Text: "Something else", Model: "drafter-v2"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Tuesday at 5 works!", second.Text)
	assert.Equal(t, "snap_1", second.SnapshotID)

	var count int64
	require.NoError(t, database.Model(&models.MessageDraft{}).Where("message_id = ?", m.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDraftRepository_SendApprovedIsAtomic(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)
	repo := NewDraftRepository(database)
	quotas := NewQuotaRepository(database)
	c := newConversation(t, database, "sms")
	m := newInbound(t, database, c.ID, time.Now().UTC())
	now := time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

	_, _, err := repo.InsertOnce(ctx, &models.MessageDraft{MessageID: m.ID, ConversationID: c.ID, SnapshotID: "snap_1", Text: "See you Tuesday", Model: "drafter-v1"})
	require.NoError(t, err)

	// Without a quota row nothing is written.
	_, err = repo.SendApproved(ctx, c.ID, "op_1", now)
	require.ErrorIs(t, err, apperrors.ErrQuotaRowMissing)
	_, err = repo.LatestForConversation(ctx, c.ID)
	require.NoError(t, err, "draft must survive a failed send")
	var outbound int64
	require.NoError(t, database.Model(&models.Message{}).Where("direction = ?", models.MessageOutbound).Count(&outbound).Error)
	assert.Zero(t, outbound)

	_, err = quotas.Provision(ctx, "sms", "2026-10-18", 100)
	require.NoError(t, err)

	res, err := repo.SendApproved(ctx, c.ID, "op_1", now)
	require.NoError(t, err)
	assert.Equal(t, "See you Tuesday", res.Message.Body)
	assert.Nil(t, res.BookingID)

	_, err = repo.LatestForConversation(ctx, c.ID)
	require.ErrorIs(t, err, apperrors.ErrDraftNotFound)
	q, err := quotas.Get(ctx, "sms", "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, 1, q.Used)

	_, err = repo.SendApproved(ctx, c.ID, "op_1", now)
	require.ErrorIs(t, err, apperrors.ErrDraftNotFound)
}

func TestQuotaRepository_ProvisionKeepsUsage(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)
	repo := NewQuotaRepository(database)

	q, err := repo.Provision(ctx, "email", "2026-10-18", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, q.DailyLimit)
	require.NoError(t, database.Model(&models.ChannelQuota{}).Where("id = ?", q.ID).Update("used", 3).Error)

	q, err = repo.Provision(ctx, "email", "2026-10-18", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, q.DailyLimit)
	assert.Equal(t, 3, q.Used)

	_, err = repo.Get(ctx, "email", "2026-10-19")
	require.ErrorIs(t, err, apperrors.ErrQuotaRowMissing)
}

func TestConfirmationRepository_CreateOnce(t *testing.T) {
	ctx := context.Background()
	database := db.NewTestDB(t)
	repo := NewConfirmationRepository(database)
	start := time.Date(2026, 10, 21, 10, 0, 0, 0, time.UTC)

	b1 := &models.Booking{InstructorID: "inst_1", CustomerRef: "cust_1", StartAt: start, EndAt: start.Add(time.Hour), State: models.BookingStatePending, Currency: "USD"}
	id1, replayed, err := repo.CreateOnce(ctx, "inst_1", "req_1", b1)
	require.NoError(t, err)
	assert.False(t, replayed)

	b2 := &models.Booking{InstructorID: "inst_1", CustomerRef: "cust_2", StartAt: start, EndAt: start.Add(2 * time.Hour), State: models.BookingStatePending, Currency: "USD"}
	id2, replayed, err := repo.CreateOnce(ctx, "inst_1", "req_1", b2)
	require.NoError(t, err)
	assert.True(t, replayed)
	assert.Equal(t, id1, id2)

	// The same request id from another instructor is a different key.
	b3 := &models.Booking{InstructorID: "inst_2", CustomerRef: "cust_3", StartAt: start, EndAt: start.Add(time.Hour), State: models.BookingStatePending, Currency: "USD"}
	id3, replayed, err := repo.CreateOnce(ctx, "inst_2", "req_1", b3)
	require.NoError(t, err)
	assert.False(t, replayed)
	assert.NotEqual(t, id1, id3)

	var count int64
	require.NoError(t, database.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}
