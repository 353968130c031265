package queries

import (
	"context"
	"strings"

	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"
	"atelier/contexts/observer-experience/observer-digest-service/domain/services"
	"atelier/contexts/observer-experience/observer-digest-service/ports"
)

type DigestUseCase struct {
	Digests     ports.DigestRepository
	Preferences ports.PreferencesRepository
}

func (uc DigestUseCase) ListDigest(ctx context.Context, observerID string, filter entities.DigestFilter) ([]entities.DigestEntry, error) {
	observerID = strings.TrimSpace(observerID)
	if observerID == "" {
		return nil, domainerrors.ErrInvalidObserver
	}
	prefs := entities.Preferences{ObserverID: observerID}
	if filter.UnseenOnly == nil || filter.FromFollowingStudioOnly == nil {
		stored, found, err := uc.Preferences.GetPreferences(ctx, observerID)
		if err != nil {
			return nil, err
		}
		if found {
			prefs = stored
		}
	}
	return uc.Digests.ListEntries(ctx, observerID, services.ResolveQuery(filter, prefs))
}

// GetDigestPreferences returns defaults (both false) for observers that never
// saved preferences.
func (uc DigestUseCase) GetDigestPreferences(ctx context.Context, observerID string) (entities.Preferences, error) {
	observerID = strings.TrimSpace(observerID)
	if observerID == "" {
		return entities.Preferences{}, domainerrors.ErrInvalidObserver
	}
	prefs, found, err := uc.Preferences.GetPreferences(ctx, observerID)
	if err != nil {
		return entities.Preferences{}, err
	}
	if !found {
		return entities.Preferences{ObserverID: observerID}, nil
	}
	return prefs, nil
}
