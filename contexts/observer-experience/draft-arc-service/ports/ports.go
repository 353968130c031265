package ports

import (
	"context"
	"time"

	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
)

// FixRequestFilter narrows fix request counts. A non-nil empty IDs slice
// matches nothing.
type FixRequestFilter struct {
	CreatedSince *time.Time
	IDs          []string
}

type PullRequestFilter struct {
	Statuses     []entities.PullRequestStatus
	Severity     entities.Severity
	CreatedSince *time.Time
	DecidedSince *time.Time
}

// ActivityTimes holds the latest occurrence of each arc-relevant event.
type ActivityTimes struct {
	LastFixRequestAt *time.Time
	LastSubmittedAt  *time.Time
	LastMergedAt     *time.Time
	LastRejectedAt   *time.Time
}

// ArcSourceRepository is the read side over review-system rows.
type ArcSourceRepository interface {
	GetDraft(ctx context.Context, draftID string) (entities.Draft, error)
	CountFixRequests(ctx context.Context, draftID string, filter FixRequestFilter) (int, error)
	CountPullRequests(ctx context.Context, draftID string, filter PullRequestFilter) (int, error)
	ListMergedAddressedFixRequests(ctx context.Context, draftID string) ([]entities.AddressedFixRequests, error)
	GetActivityTimes(ctx context.Context, draftID string) (ActivityTimes, error)
}

type ArcSummaryRepository interface {
	UpsertArcSummary(ctx context.Context, summary entities.ArcSummary) (entities.ArcSummary, error)
	GetArcSummary(ctx context.Context, draftID string) (entities.ArcSummary, bool, error)
}

type Clock interface {
	Now() time.Time
}

// SummaryRecomputer rebuilds a cached summary on demand for read-through
// queries.
type SummaryRecomputer interface {
	RecomputeDraftArcSummary(ctx context.Context, draftID string) (entities.ArcSummary, error)
}
