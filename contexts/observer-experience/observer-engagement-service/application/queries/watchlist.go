package queries

import (
	"context"
	"strings"

	"atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-engagement-service/domain/errors"
	"atelier/contexts/observer-experience/observer-engagement-service/ports"
)

type WatchlistUseCase struct {
	Follows ports.FollowRepository
}

// ListWatchlist returns followed drafts, most recently followed first.
func (uc WatchlistUseCase) ListWatchlist(ctx context.Context, observerID string) ([]entities.WatchlistItem, error) {
	observerID = strings.TrimSpace(observerID)
	if observerID == "" {
		return nil, domainerrors.ErrInvalidObserver
	}
	items, err := uc.Follows.ListWatchlist(ctx, observerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entities.WatchlistItem{}
	}
	return items, nil
}
