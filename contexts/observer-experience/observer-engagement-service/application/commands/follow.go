package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/observer-experience/observer-engagement-service/application"
	"atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-engagement-service/domain/errors"
	"atelier/contexts/observer-experience/observer-engagement-service/ports"
)

type FollowUseCase struct {
	Drafts  ports.DraftReader
	Follows ports.FollowRepository
	Clock   ports.Clock
	Logger  *slog.Logger
}

func (uc FollowUseCase) FollowDraft(ctx context.Context, observerID string, draftID string) (entities.FollowResult, error) {
	observerID, draftID, err := normalizeDraftTarget(observerID, draftID)
	if err != nil {
		return entities.FollowResult{}, err
	}
	if _, err := uc.Drafts.GetDraft(ctx, draftID); err != nil {
		return entities.FollowResult{}, err
	}
	created, err := uc.Follows.FollowDraft(ctx, observerID, draftID, uc.now())
	if err != nil {
		return entities.FollowResult{}, err
	}
	if created {
		uc.logChange("draft followed", "observer_draft_followed", "draft_id", observerID, draftID)
	}
	return entities.FollowResult{ObserverID: observerID, TargetID: draftID, Created: created}, nil
}

func (uc FollowUseCase) UnfollowDraft(ctx context.Context, observerID string, draftID string) (entities.UnfollowResult, error) {
	observerID, draftID, err := normalizeDraftTarget(observerID, draftID)
	if err != nil {
		return entities.UnfollowResult{}, err
	}
	removed, err := uc.Follows.UnfollowDraft(ctx, observerID, draftID)
	if err != nil {
		return entities.UnfollowResult{}, err
	}
	if removed {
		uc.logChange("draft unfollowed", "observer_draft_unfollowed", "draft_id", observerID, draftID)
	}
	return entities.UnfollowResult{ObserverID: observerID, TargetID: draftID, Removed: removed}, nil
}

// FollowStudio does not check the studio; studios live in the review system
// and a follow of an unknown studio simply never matches a draft.
func (uc FollowUseCase) FollowStudio(ctx context.Context, observerID string, studioID string) (entities.FollowResult, error) {
	observerID, studioID, err := normalizeStudioTarget(observerID, studioID)
	if err != nil {
		return entities.FollowResult{}, err
	}
	created, err := uc.Follows.FollowStudio(ctx, observerID, studioID, uc.now())
	if err != nil {
		return entities.FollowResult{}, err
	}
	if created {
		uc.logChange("studio followed", "observer_studio_followed", "studio_id", observerID, studioID)
	}
	return entities.FollowResult{ObserverID: observerID, TargetID: studioID, Created: created}, nil
}

func (uc FollowUseCase) UnfollowStudio(ctx context.Context, observerID string, studioID string) (entities.UnfollowResult, error) {
	observerID, studioID, err := normalizeStudioTarget(observerID, studioID)
	if err != nil {
		return entities.UnfollowResult{}, err
	}
	removed, err := uc.Follows.UnfollowStudio(ctx, observerID, studioID)
	if err != nil {
		return entities.UnfollowResult{}, err
	}
	if removed {
		uc.logChange("studio unfollowed", "observer_studio_unfollowed", "studio_id", observerID, studioID)
	}
	return entities.UnfollowResult{ObserverID: observerID, TargetID: studioID, Removed: removed}, nil
}

func (uc FollowUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (uc FollowUseCase) logChange(message string, event string, targetKey string, observerID string, targetID string) {
	application.ResolveLogger(uc.Logger).Info(message,
		"event", event,
		"module", "observer-experience/observer-engagement-service",
		"layer", "application",
		"observer_id", observerID,
		targetKey, targetID,
	)
}

func normalizeDraftTarget(observerID string, draftID string) (string, string, error) {
	observerID = strings.TrimSpace(observerID)
	draftID = strings.TrimSpace(draftID)
	if observerID == "" {
		return "", "", domainerrors.ErrInvalidObserver
	}
	if draftID == "" {
		return "", "", domainerrors.ErrInvalidDraft
	}
	return observerID, draftID, nil
}

func normalizeStudioTarget(observerID string, studioID string) (string, string, error) {
	observerID = strings.TrimSpace(observerID)
	studioID = strings.TrimSpace(studioID)
	if observerID == "" {
		return "", "", domainerrors.ErrInvalidObserver
	}
	if studioID == "" {
		return "", "", domainerrors.ErrInvalidStudio
	}
	return observerID, studioID, nil
}
