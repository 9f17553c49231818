package automation

import (
	"context"

	"khesed-tek/internal/features/notification"
	"khesed-tek/internal/features/task"
)

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

type TaskCreator interface {
	Create(ctx context.Context, task *task.Task) error
}

type Notifier interface {
	Create(ctx context.Context, notification *notification.Notification) error
}

type RecordTagger interface {
	TagRecord(ctx context.Context, churchID, sourceType, sourceID, tag string) error
}

// SourceMarker owns the "automation triggered" flag of source records.
// ClaimAutomation must be a conditional write: concurrent callers for the
// same record see exactly one true.
type SourceMarker interface {
	ClaimAutomation(ctx context.Context, churchID, sourceType, sourceID string) (bool, error)
	ReleaseAutomation(ctx context.Context, churchID, sourceType, sourceID string) error
	AppendExecutionIDs(ctx context.Context, churchID, sourceType, sourceID string, executionIDs []string) error
}

// ExecutionBroadcaster pushes execution events to connected admin sessions
type ExecutionBroadcaster interface {
	Broadcast(churchID string, message interface{}) int
}
