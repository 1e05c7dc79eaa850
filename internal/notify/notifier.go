package notify

import "context"

// Notifier defines the interface for publishing messages to a notification channel.
// This abstraction allows swapping the log notifier with a real integration
// (Slack, email digest) without refactoring.
type Notifier interface {
	Publish(ctx context.Context, message string) error
}
