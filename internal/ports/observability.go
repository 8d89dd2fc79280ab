package ports

import (
	"time"

	"shopify-mirror/internal/domain"
)

// EventPublisher fans activity events out to live subscribers
type EventPublisher interface {
	Publish(event *domain.Event)
}

// MetricsRecorder receives counters from the application and adapters
type MetricsRecorder interface {
	RecordSyncRun(entity string, count int, err error)
	RecordUpstreamCall(operation string, duration time.Duration, err error)
	RecordMirrorWriteFailure(entity string)
}
