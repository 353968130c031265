package entities

import "time"

type ArcState string

const (
	ArcStateNeedsHelp      ArcState = "needs_help"
	ArcStateInProgress     ArcState = "in_progress"
	ArcStateReadyForReview ArcState = "ready_for_review"
	ArcStateReleased       ArcState = "released"
)

// ArcEventKind lists the events that can drive the milestone text.
type ArcEventKind string

const (
	ArcEventDraftReleased ArcEventKind = "draft_released"
	ArcEventPRMerged      ArcEventKind = "pr_merged"
	ArcEventPRRejected    ArcEventKind = "pr_rejected"
	ArcEventPRSubmitted   ArcEventKind = "pr_submitted"
	ArcEventFixRequest    ArcEventKind = "fix_request"
)

type ArcEvent struct {
	Kind       ArcEventKind
	OccurredAt time.Time
}

type ArcSummary struct {
	DraftID         string
	State           ArcState
	LatestMilestone string
	FixOpenCount    int
	PRPendingCount  int
	LastMergeAt     *time.Time
	UpdatedAt       time.Time
}

type Recap24h struct {
	DraftID       string
	FixRequests   int
	PRSubmitted   int
	PRMerged      int
	PRRejected    int
	GlowUpDelta   *float64
	HasChanges    bool
	WindowStartAt time.Time
	WindowEndAt   time.Time
}

type DraftArc struct {
	Summary ArcSummary
	Recap   Recap24h
}
