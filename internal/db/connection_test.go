package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDSN(t *testing.T) {
	c := &Config{Host: "localhost", Port: "5433", User: "lessondesk", Password: "secret", Name: "lessondesk", SSLMode: "disable"}
	assert.Equal(t, "host=localhost port=5433 user=lessondesk password=secret dbname=lessondesk sslmode=disable", c.DSN())
}

func TestNewTestDB_MigratesTables(t *testing.T) {
	database := NewTestDB(t)
	require.NoError(t, database.Health())
	for _, table := range []string{"bookings", "booking_audit", "conversations", "messages", "message_drafts", "audit_log", "channel_quotas", "confirmation_audit"} {
		assert.True(t, database.Migrator().HasTable(table), table)
	}
}
