package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

const workers = 8

func seedInbound(t *testing.T, ctx context.Context) (*models.Conversation, *models.Message) {
	t.Helper()
	conv := &models.Conversation{InstructorID: "inst_" + uuid.NewString()[:8], CustomerRef: "cust_1", Channel: "sms"}
	require.NoError(t, repositories.NewConversationRepository(current.DB).Create(ctx, conv))

	ic := 0.9
	msg := &models.Message{
		ConversationID:   conv.ID,
		Direction:        models.MessageInbound,
		Channel:          conv.Channel,
		Body:             "Can we do Tuesday at 10?",
		Author:           models.ActorHuman,
		Status:           models.MessageStatusReceived,
		IntentConfidence: &ic,
	}
	require.NoError(t, repositories.NewMessageRepository(current.DB).Create(ctx, msg))
	return conv, msg
}

func TestInsertOnce_ConcurrentProposalsKeepOneDraft(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewDraftRepository(current.DB)
	conv, msg := seedInbound(t, ctx)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[string]struct{}{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, ok, err := repo.InsertOnce(ctx, &models.MessageDraft{
				MessageID:      msg.ID,
				ConversationID: conv.ID,
				SnapshotID:     uuid.NewString(),
				Text:           "Tuesday at 10 works",
				Model:          "drafter-v1",
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if ok {
				created++
			}
			ids[d.ID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1, "every caller sees the stored draft")
}

func TestCreateOnce_ConcurrentConfirmationsCreateOneBooking(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewConfirmationRepository(current.DB)
	instructor := "inst_" + uuid.NewString()[:8]
	start := time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fresh    int
		bookings = map[string]struct{}{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := &models.Booking{
				InstructorID: instructor,
				CustomerRef:  "cust_1",
				StartAt:      start,
				EndAt:        start.Add(time.Hour),
				State:        models.BookingStatePending,
				Price:        decimal.RequireFromString("40.00"),
				Currency:     "USD",
			}
			id, replayed, err := repo.CreateOnce(ctx, instructor, "req_1", b)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if !replayed {
				fresh++
			}
			bookings[id] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh)
	require.Len(t, bookings, 1)

	var count int64
	require.NoError(t, current.DB.Model(&models.Booking{}).Where("instructor_id = ?", instructor).Count(&count).Error)
	assert.Equal(t, int64(1), count, "losing transactions roll back their booking")
}

func TestTransitionState_OnlyOneWriterWins(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewBookingRepository(current.DB)
	start := time.Date(2026, 10, 21, 9, 0, 0, 0, time.UTC)
	b := &models.Booking{
		InstructorID: "inst_" + uuid.NewString()[:8],
		CustomerRef:  "cust_2",
		StartAt:      start,
		EndAt:        start.Add(time.Hour),
		State:        models.BookingStatePending,
		Currency:     "USD",
	}
	require.NoError(t, repo.Create(ctx, b))

	targets := []models.BookingState{models.BookingStateConfirmed, models.BookingStateDeclined}
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(to models.BookingState) {
			defer wg.Done()
			prev := models.BookingStatePending
			err := repo.TransitionState(ctx, b.ID, models.BookingStatePending, to, &models.BookingAuditEntry{
				BookingID:     b.ID,
				PreviousState: &prev,
				NewState:      to,
				Actor:         models.ActorHuman,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperrors.ErrConcurrentUpdate):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(targets[i%len(targets)])
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	assert.Equal(t, workers-1, conflicts)

	entries, err := repo.ListAudit(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the winning transition is audited")
}

func TestSendApproved_ConcurrentSendsConsumeDraftOnce(t *testing.T) {
	ctx := context.Background()
	drafts := repositories.NewDraftRepository(current.DB)
	quotas := repositories.NewQuotaRepository(current.DB)
	now := time.Now().UTC()

	conv, msg := seedInbound(t, ctx)
	_, _, err := drafts.InsertOnce(ctx, &models.MessageDraft{
		MessageID:      msg.ID,
		ConversationID: conv.ID,
		SnapshotID:     uuid.NewString(),
		Text:           "See you Tuesday",
		Model:          "drafter-v1",
	})
	require.NoError(t, err)

	day := models.QuotaDay(now)
	// Provisioning is an upsert that keeps the used counter.
	before, err := quotas.Provision(ctx, conv.Channel, day, 1000)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		sent     int
		notFound int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := drafts.SendApproved(ctx, conv.ID, "op_1", now)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				sent++
			case errors.Is(err, apperrors.ErrDraftNotFound):
				notFound++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, sent)
	assert.Equal(t, workers-1, notFound)

	after, err := quotas.Get(ctx, conv.Channel, day)
	require.NoError(t, err)
	assert.Equal(t, before.Used+1, after.Used)
}
