package v1

import (
	"encoding/json"
	"time"
)

// Envelope is the canonical, versioned event envelope exchanged with the
// review system and the realtime collaborator. It must stay backward
// compatible.
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

// ReviewEventData is the payload of envelopes on the review.events subject.
type ReviewEventData struct {
	DraftID       string `json:"draft_id"`
	PullRequestID string `json:"pull_request_id,omitempty"`
	EventType     string `json:"event_type"`
}

const (
	SubjectReviewEvents = "review.events"
	SubjectObserverFeed = "observer.feed"
)
