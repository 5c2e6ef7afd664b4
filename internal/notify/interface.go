package notify

import "context"

// Event types
const (
	EventSessionComplete = "session_complete"
	EventSessionFailed   = "session_failed"
)

// Notifier delivers harness lifecycle events to an external channel.
// Delivery is best-effort: implementations log failures instead of
// returning them, so a lost notification never fails a benchmark.
type Notifier interface {
	Notify(ctx context.Context, eventType string, message string)
}
