package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifySuccess(t *testing.T) {
	n := NewWelcomeNotifier(0, 0)

	res, err := n.Notify(context.Background(), "alice", 7)
	require.NoError(t, err)
	assert.True(t, res.Sent)
	assert.True(t, strings.HasPrefix(res.MessageID, "msg_7_"), "message id %q should carry the user id", res.MessageID)
}

func TestNotifyAlwaysFailing(t *testing.T) {
	n := NewWelcomeNotifier(0, 1)

	_, err := n.Notify(context.Background(), "alice", 7)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNotifyHonorsContextDuringLatency(t *testing.T) {
	n := NewWelcomeNotifier(5*time.Second, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := n.Notify(ctx, "alice", 7)
	assert.ErrorIs(t, err, context.Canceled)
}
