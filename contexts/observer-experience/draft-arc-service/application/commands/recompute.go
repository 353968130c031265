package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/observer-experience/draft-arc-service/application"
	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/draft-arc-service/domain/errors"
	"atelier/contexts/observer-experience/draft-arc-service/domain/services"
	"atelier/contexts/observer-experience/draft-arc-service/ports"
)

// RecomputeUseCase rebuilds the cached arc summary of one draft from source
// counts and stores it with a single upsert keyed by draft id.
type RecomputeUseCase struct {
	Source    ports.ArcSourceRepository
	Summaries ports.ArcSummaryRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func (uc RecomputeUseCase) RecomputeDraftArcSummary(ctx context.Context, draftID string) (entities.ArcSummary, error) {
	logger := application.ResolveLogger(uc.Logger)
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return entities.ArcSummary{}, domainerrors.ErrInvalidDraft
	}

	draft, err := uc.Source.GetDraft(ctx, draftID)
	if err != nil {
		return entities.ArcSummary{}, err
	}

	fixCount, err := uc.Source.CountFixRequests(ctx, draftID, ports.FixRequestFilter{})
	if err != nil {
		return entities.ArcSummary{}, err
	}
	addressedLists, err := uc.Source.ListMergedAddressedFixRequests(ctx, draftID)
	if err != nil {
		return entities.ArcSummary{}, err
	}
	addressedOwned := 0
	if distinct := services.DistinctAddressed(addressedLists); len(distinct) > 0 {
		addressedOwned, err = uc.Source.CountFixRequests(ctx, draftID, ports.FixRequestFilter{IDs: distinct})
		if err != nil {
			return entities.ArcSummary{}, err
		}
	}
	pendingCount, err := uc.Source.CountPullRequests(ctx, draftID, ports.PullRequestFilter{
		Statuses: []entities.PullRequestStatus{entities.PullRequestStatusPending},
	})
	if err != nil {
		return entities.ArcSummary{}, err
	}
	activity, err := uc.Source.GetActivityTimes(ctx, draftID)
	if err != nil {
		return entities.ArcSummary{}, err
	}

	events := []entities.ArcEvent{
		services.EventAt(entities.ArcEventPRMerged, activity.LastMergedAt),
		services.EventAt(entities.ArcEventPRRejected, activity.LastRejectedAt),
		services.EventAt(entities.ArcEventPRSubmitted, activity.LastSubmittedAt),
		services.EventAt(entities.ArcEventFixRequest, activity.LastFixRequestAt),
	}
	if draft.IsReleased() {
		releasedAt := draft.UpdatedAt
		events = append(events, services.EventAt(entities.ArcEventDraftReleased, &releasedAt))
	}

	openFixes := services.OpenFixCount(fixCount, addressedOwned)
	result := services.CalculateArc(services.ArcInput{
		Released:       draft.IsReleased(),
		OpenFixCount:   openFixes,
		PendingPRCount: pendingCount,
		LatestEvent:    services.LatestEvent(events),
	})

	stored, err := uc.Summaries.UpsertArcSummary(ctx, entities.ArcSummary{
		DraftID:         draftID,
		State:           result.State,
		LatestMilestone: result.Milestone,
		FixOpenCount:    openFixes,
		PRPendingCount:  pendingCount,
		LastMergeAt:     activity.LastMergedAt,
		UpdatedAt:       uc.now(),
	})
	if err != nil {
		return entities.ArcSummary{}, err
	}

	logger.Info("draft arc summary recomputed",
		"event", "draft_arc_summary_recomputed",
		"module", "observer-experience/draft-arc-service",
		"layer", "application",
		"draft_id", draftID,
		"state", string(stored.State),
		"fix_open_count", stored.FixOpenCount,
		"pr_pending_count", stored.PRPendingCount,
	)
	return stored, nil
}

func (uc RecomputeUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
