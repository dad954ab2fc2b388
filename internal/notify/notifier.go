package notify

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	dom "Pulse/internal/domain"

	"github.com/google/uuid"
)

// ErrUnavailable is returned when the simulated notification service fails.
var ErrUnavailable = errors.New("notification service unavailable")

// Notifier sends a welcome notification for a newly created account.
type Notifier interface {
	Notify(ctx context.Context, username string, userID int64) (dom.NotificationResult, error)
}

// WelcomeNotifier models an external notification service: each attempt
// takes a fixed latency and fails with a configured probability.
type WelcomeNotifier struct {
	latency     time.Duration
	failureRate float64
}

// NewWelcomeNotifier returns a WelcomeNotifier with the given latency and
// failure probability in [0,1].
func NewWelcomeNotifier(latency time.Duration, failureRate float64) *WelcomeNotifier {
	return &WelcomeNotifier{latency: latency, failureRate: failureRate}
}

// Notify simulates the external call and returns a message ID correlated to
// the new account on success.
func (n *WelcomeNotifier) Notify(ctx context.Context, username string, userID int64) (dom.NotificationResult, error) {
	_ = username
	if n.latency > 0 {
		select {
		case <-time.After(n.latency):
		case <-ctx.Done():
			return dom.NotificationResult{}, ctx.Err()
		}
	}
	if rand.Float64() < n.failureRate {
		return dom.NotificationResult{}, ErrUnavailable
	}
	return dom.NotificationResult{
		Sent:      true,
		MessageID: fmt.Sprintf("msg_%d_%s", userID, uuid.NewString()),
	}, nil
}
