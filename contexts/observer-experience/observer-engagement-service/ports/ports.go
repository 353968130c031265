package ports

import (
	"context"
	"time"

	"atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
)

type DraftReader interface {
	GetDraft(ctx context.Context, draftID string) (entities.DraftRef, error)
}

// FollowRepository writes are insert-or-ignore and delete-if-present; both
// report whether a row changed.
type FollowRepository interface {
	FollowDraft(ctx context.Context, observerID string, draftID string, at time.Time) (bool, error)
	UnfollowDraft(ctx context.Context, observerID string, draftID string) (bool, error)
	FollowStudio(ctx context.Context, observerID string, studioID string, at time.Time) (bool, error)
	UnfollowStudio(ctx context.Context, observerID string, studioID string) (bool, error)
	ListWatchlist(ctx context.Context, observerID string) ([]entities.WatchlistItem, error)
}

type EngagementRepository interface {
	// ApplyEngagement upserts one flag and its timestamp in a single write
	// and returns the stored row.
	ApplyEngagement(ctx context.Context, change entities.EngagementChange) (entities.Engagement, error)
}

type Clock interface {
	Now() time.Time
}
