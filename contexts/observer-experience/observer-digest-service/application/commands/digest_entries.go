package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/observer-experience/observer-digest-service/application"
	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"
	"atelier/contexts/observer-experience/observer-digest-service/ports"
)

type MarkDigestSeenUseCase struct {
	Digests ports.DigestRepository
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (uc MarkDigestSeenUseCase) MarkDigestSeen(ctx context.Context, observerID string, entryID string) (entities.DigestEntry, error) {
	observerID = strings.TrimSpace(observerID)
	entryID = strings.TrimSpace(entryID)
	if observerID == "" {
		return entities.DigestEntry{}, domainerrors.ErrInvalidObserver
	}
	if entryID == "" {
		return entities.DigestEntry{}, domainerrors.ErrDigestEntryNotFound
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	entry, err := uc.Digests.MarkSeen(ctx, observerID, entryID, now)
	if err != nil {
		return entities.DigestEntry{}, err
	}
	application.ResolveLogger(uc.Logger).Debug("digest entry marked seen",
		"event", "digest_entry_marked_seen",
		"module", "observer-experience/observer-digest-service",
		"layer", "application",
		"observer_id", observerID,
		"entry_id", entryID,
	)
	return entry, nil
}

type UpsertPreferencesUseCase struct {
	Preferences ports.PreferencesRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

// UpsertDigestPreferences writes a partial update in one statement; omitted
// fields keep their stored value.
func (uc UpsertPreferencesUseCase) UpsertDigestPreferences(
	ctx context.Context,
	observerID string,
	update entities.PreferencesUpdate,
) (entities.Preferences, error) {
	observerID = strings.TrimSpace(observerID)
	if observerID == "" {
		return entities.Preferences{}, domainerrors.ErrInvalidObserver
	}
	if update.IsEmpty() {
		return entities.Preferences{}, domainerrors.ErrInvalidPreferences
	}

	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	prefs, err := uc.Preferences.UpsertPreferences(ctx, observerID, update, now)
	if err != nil {
		return entities.Preferences{}, err
	}
	application.ResolveLogger(uc.Logger).Info("digest preferences updated",
		"event", "digest_preferences_updated",
		"module", "observer-experience/observer-digest-service",
		"layer", "application",
		"observer_id", observerID,
		"digest_unseen_only", prefs.DigestUnseenOnly,
		"digest_following_only", prefs.DigestFollowingOnly,
	)
	return prefs, nil
}
