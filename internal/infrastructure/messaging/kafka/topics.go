// Package kafka publishes pipeline lifecycle events and feeds the archival
// worker.  Events travel inside a versioned envelope so consumers can skip
// payloads they do not understand.
package kafka

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Pipeline event topics.
const (
	TopicBatchCompleted = "pipeline.batch.completed"
	TopicBatchFailed    = "pipeline.batch.failed"
)

// EnvelopeVersion is bumped on incompatible payload changes.
const EnvelopeVersion = 1

// EventEnvelope wraps every message on the pipeline topics.
type EventEnvelope struct {
	EventID   uuid.UUID       `json:"event_id"`
	Version   int             `json:"version"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// BatchFailedPayload describes a pipeline run that aborted before producing
// a batch.
type BatchFailedPayload struct {
	Kind   string `json:"kind"`
	Reason string `json:"reason"`
}
