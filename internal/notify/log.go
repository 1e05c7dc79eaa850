package notify

import (
	"context"
	"log"
)

// LogNotifier implements the Notifier interface by logging messages to stdout.
// Replace this with a real channel integration for production use.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Publish(ctx context.Context, message string) error {
	log.Printf("📨 [Notify] %s", message)
	return nil
}
