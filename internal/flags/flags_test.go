package flags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_DefaultsToEnabled(t *testing.T) {
	ctx := context.Background()
	s := NewStatic([]string{" WhatsApp "})

	on, err := s.Enabled(ctx, "sms")
	require.NoError(t, err)
	assert.True(t, on)

	on, err = s.Enabled(ctx, "whatsapp")
	require.NoError(t, err)
	assert.False(t, on)
}

func TestStatic_SetEnabled(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(nil)

	require.NoError(t, s.SetEnabled(ctx, "sms", false))
	on, _ := s.Enabled(ctx, "SMS")
	assert.False(t, on)

	require.NoError(t, s.SetEnabled(ctx, "sms", true))
	on, _ = s.Enabled(ctx, "sms")
	assert.True(t, on)
}

var (
	_ Store  = (*Static)(nil)
	_ Setter = (*Static)(nil)
	_ Store  = (*RedisStore)(nil)
	_ Setter = (*RedisStore)(nil)
)
