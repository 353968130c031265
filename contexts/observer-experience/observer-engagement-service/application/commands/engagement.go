package commands

import (
	"context"
	"log/slog"
	"time"

	application "atelier/contexts/observer-experience/observer-engagement-service/application"
	"atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
	"atelier/contexts/observer-experience/observer-engagement-service/ports"
)

type EngagementUseCase struct {
	Drafts      ports.DraftReader
	Engagements ports.EngagementRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func (uc EngagementUseCase) SaveDraft(ctx context.Context, observerID string, draftID string) (entities.Engagement, error) {
	return uc.apply(ctx, observerID, draftID, entities.FlagSaved, true)
}

func (uc EngagementUseCase) UnsaveDraft(ctx context.Context, observerID string, draftID string) (entities.Engagement, error) {
	return uc.apply(ctx, observerID, draftID, entities.FlagSaved, false)
}

func (uc EngagementUseCase) RateDraft(ctx context.Context, observerID string, draftID string) (entities.Engagement, error) {
	return uc.apply(ctx, observerID, draftID, entities.FlagRated, true)
}

func (uc EngagementUseCase) UnrateDraft(ctx context.Context, observerID string, draftID string) (entities.Engagement, error) {
	return uc.apply(ctx, observerID, draftID, entities.FlagRated, false)
}

func (uc EngagementUseCase) apply(
	ctx context.Context,
	observerID string,
	draftID string,
	flag entities.EngagementFlag,
	value bool,
) (entities.Engagement, error) {
	observerID, draftID, err := normalizeDraftTarget(observerID, draftID)
	if err != nil {
		return entities.Engagement{}, err
	}
	if _, err := uc.Drafts.GetDraft(ctx, draftID); err != nil {
		return entities.Engagement{}, err
	}
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	engagement, err := uc.Engagements.ApplyEngagement(ctx, entities.EngagementChange{
		ObserverID: observerID,
		DraftID:    draftID,
		Flag:       flag,
		Value:      value,
		At:         now,
	})
	if err != nil {
		return entities.Engagement{}, err
	}
	application.ResolveLogger(uc.Logger).Debug("draft engagement updated",
		"event", "observer_engagement_updated",
		"module", "observer-experience/observer-engagement-service",
		"layer", "application",
		"observer_id", observerID,
		"draft_id", draftID,
		"flag", string(flag),
		"value", value,
	)
	return engagement, nil
}
