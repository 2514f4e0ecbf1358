package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutomationPredicates(t *testing.T) {
	assert.True(t, CanSuggest(AutomationOn))
	assert.True(t, CanSuggest(AutomationSuggestionOnly))
	assert.False(t, CanSuggest(AutomationPausedByHuman))

	assert.True(t, CanSend(AutomationOn))
	assert.False(t, CanSend(AutomationSuggestionOnly))
	assert.False(t, CanSend(AutomationPausedByHuman))
}

func TestConversation_EffectiveAutomationStateDefaultsOn(t *testing.T) {
	c := &Conversation{}
	assert.Equal(t, AutomationOn, c.EffectiveAutomationState())
	c.AutomationState = AutomationPausedByHuman
	assert.Equal(t, AutomationPausedByHuman, c.EffectiveAutomationState())
}

func TestMessageSignals(t *testing.T) {
	yes := true
	human := "HUMAN_REQUEST"
	neg := "negative"
	score := -0.5
	mild := -0.49

	assert.True(t, (&Message{EscalationRequired: &yes}).RequestsHuman())
	assert.True(t, (&Message{IntentLabel: &human}).RequestsHuman())
	assert.False(t, (&Message{IntentLabel: &human}).EscalationFlagged())
	assert.False(t, (&Message{}).RequestsHuman())

	assert.True(t, (&Message{Sentiment: &neg}).NegativeSentiment())
	assert.True(t, (&Message{SentimentScore: &score}).NegativeSentiment())
	assert.False(t, (&Message{SentimentScore: &mild}).NegativeSentiment())
}
