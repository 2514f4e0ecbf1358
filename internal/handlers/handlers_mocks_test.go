package handlers

import (
	"context"
	"fmt"

	apperrors "github.com/tropicaldog17/lessondesk/internal/errors"
	"github.com/tropicaldog17/lessondesk/internal/decision"
	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/services"
)

type mockDraftService struct {
	proposedText string
	proposal     *services.DraftProposal
	proposeErr   error
	sentBy       string
	sendErr      error
}

func (m *mockDraftService) Propose(_ context.Context, messageID, text, model string) (*services.DraftProposal, error) {
	m.proposedText = text
	if m.proposeErr != nil {
		return m.proposal, m.proposeErr
	}
	if m.proposal != nil {
		return m.proposal, nil
	}
	return &services.DraftProposal{
		Draft:       &models.MessageDraft{ID: "d1", MessageID: messageID, Text: text, Model: model},
		Created:     true,
		Snapshot:    decision.Snapshot{ID: "s1", Decision: decision.DraftOnly, Reason: decision.HighConfidence},
		Permissions: decision.Permissions{AllowDraft: true},
	}, nil
}

func (m *mockDraftService) InsertOnce(_ context.Context, messageID, snapshotID, text, model string) (*models.MessageDraft, bool, error) {
	return &models.MessageDraft{ID: "d1", MessageID: messageID, SnapshotID: snapshotID, Text: text, Model: model}, true, nil
}

func (m *mockDraftService) GetForConversation(_ context.Context, conversationID string) (*models.MessageDraft, error) {
	return nil, fmt.Errorf("%w: conversation %s", apperrors.ErrDraftNotFound, conversationID)
}

func (m *mockDraftService) SendApproved(_ context.Context, conversationID, approvedBy string) (*services.SentDraft, error) {
	m.sentBy = approvedBy
	if m.sendErr != nil {
		return nil, m.sendErr
	}
	return &services.SentDraft{MessageID: "m_out", Text: "See you Tuesday"}, nil
}

var _ services.DraftService = (*mockDraftService)(nil)

type mockBookingService struct {
	bookings    map[string]*models.Booking
	transitions []models.BookingState
}

func (m *mockBookingService) Create(_ context.Context, instructorID string, fields *models.BookingFields, _ models.ActorType, _ string) (*models.Booking, error) {
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	b := fields.NewBooking(instructorID)
	b.ID = "b_new"
	return b, nil
}

func (m *mockBookingService) Get(_ context.Context, id string) (*models.Booking, error) {
	b, ok := m.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrBookingNotFound, id)
	}
	return b, nil
}

func (m *mockBookingService) GetOwned(ctx context.Context, id, instructorID string) (*models.Booking, error) {
	b, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.InstructorID != instructorID {
		return nil, apperrors.ErrForbidden
	}
	return b, nil
}

func (m *mockBookingService) GetForConversation(_ context.Context, _ string) (*models.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) Transition(ctx context.Context, id string, requested models.BookingState, _ models.ActorType, _, _ *string) (*models.Booking, error) {
	b, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := models.NextBookingState(b.State, requested)
	if err != nil {
		return nil, err
	}
	m.transitions = append(m.transitions, next)
	b.State = next
	return b, nil
}

func (m *mockBookingService) Lifecycle(_ context.Context, id string) ([]*models.LifecycleEvent, error) {
	return []*models.LifecycleEvent{{Type: models.LifecycleBookingCreated, ToState: models.BookingStatePending}}, nil
}

var _ services.BookingService = (*mockBookingService)(nil)

type mockConfirmationService struct {
	seen map[string]string
}

func (m *mockConfirmationService) Confirm(_ context.Context, instructorID, requestID string, fields *models.BookingFields) (*services.Confirmation, error) {
	key := instructorID + "/" + requestID
	if id, ok := m.seen[key]; ok {
		return &services.Confirmation{BookingID: id, Replayed: true}, nil
	}
	if err := fields.Validate(); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("b_%d", len(m.seen)+1)
	m.seen[key] = id
	return &services.Confirmation{BookingID: id}, nil
}

var _ services.ConfirmationService = (*mockConfirmationService)(nil)

type mockMessageService struct {
	conversations map[string]*models.Conversation
}

func (m *mockMessageService) StartConversation(_ context.Context, c *models.Conversation) error {
	c.ID = "c_new"
	return nil
}

func (m *mockMessageService) GetConversation(_ context.Context, id string) (*models.Conversation, error) {
	c, ok := m.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConversationNotFound, id)
	}
	return c, nil
}

func (m *mockMessageService) GetOwnedConversation(ctx context.Context, id, instructorID string) (*models.Conversation, error) {
	c, err := m.GetConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.InstructorID != instructorID {
		return nil, apperrors.ErrForbidden
	}
	return c, nil
}

func (m *mockMessageService) RecordInbound(_ context.Context, conversationID string, in *services.InboundMessage) (*models.Message, error) {
	return &models.Message{ID: "m1", ConversationID: conversationID, Body: in.Body}, nil
}

var _ services.MessageService = (*mockMessageService)(nil)

type mockAutomationService struct {
	state models.AutomationState
	sets  int
}

func (m *mockAutomationService) State(_ context.Context, _ string) (models.AutomationState, error) {
	return m.state, nil
}

func (m *mockAutomationService) SetState(_ context.Context, _ string, next models.AutomationState, _ models.ActorType, _, _ *string) (models.AutomationState, error) {
	prev := m.state
	m.state = next
	m.sets++
	return prev, nil
}

func (m *mockAutomationService) Permissions(_ context.Context, _ string) (*services.AutomationPermissions, error) {
	return &services.AutomationPermissions{State: m.state, CanSuggest: m.state == models.AutomationOn}, nil
}

var _ services.AutomationService = (*mockAutomationService)(nil)
