package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrderedByID(t *testing.T) {
	all, err := Load()
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, "001_initial_schema.sql", all[0].Filename)
	assert.Equal(t, 2, all[1].ID)

	for _, table := range []string{"bookings", "booking_audit", "conversations", "messages", "message_drafts", "audit_log", "channel_quotas", "confirmation_audit"} {
		assert.True(t, strings.Contains(all[0].Content, "CREATE TABLE IF NOT EXISTS "+table+" "), table)
	}
	assert.Contains(t, all[1].Content, "ux_confirmation_audit_request")
}
