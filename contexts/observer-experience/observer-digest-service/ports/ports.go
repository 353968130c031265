package ports

import (
	"context"
	"time"

	eventsv1 "atelier/contracts/events/v1"
	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
)

// ArcRecomputer is served by the draft arc service.
type ArcRecomputer interface {
	RecomputeDraftArc(ctx context.Context, draftID string) (entities.ArcSnapshot, error)
}

type FollowerRepository interface {
	// GetDraftStudio returns the owning studio id, or "" when the draft has
	// none.
	GetDraftStudio(ctx context.Context, draftID string) (string, error)
	ListDraftFollowers(ctx context.Context, draftID string) ([]string, error)
	ListStudioFollowers(ctx context.Context, studioID string) ([]string, error)
}

type DigestRepository interface {
	// LockDraftDigest serializes fan-outs for one draft until the surrounding
	// transaction ends.
	LockDraftDigest(ctx context.Context, draftID string) error
	// SaveRecentEntry rewrites the (observer, draft) entry created at or
	// after since, or inserts entry when there is none. It reports whether an
	// existing entry was refreshed.
	SaveRecentEntry(ctx context.Context, entry entities.DigestEntry, since time.Time) (bool, error)
	ListEntries(ctx context.Context, observerID string, query entities.DigestQuery) ([]entities.DigestEntry, error)
	MarkSeen(ctx context.Context, observerID string, entryID string, seenAt time.Time) (entities.DigestEntry, error)
}

type PreferencesRepository interface {
	GetPreferences(ctx context.Context, observerID string) (entities.Preferences, bool, error)
	UpsertPreferences(ctx context.Context, observerID string, update entities.PreferencesUpdate, now time.Time) (entities.Preferences, error)
}

// Transactor runs fn inside one storage transaction carried by the context it
// receives.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type EventHandler = func(context.Context, eventsv1.Envelope) error

type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, queueGroup string, handler EventHandler) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
