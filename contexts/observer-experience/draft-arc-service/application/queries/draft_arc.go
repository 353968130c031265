package queries

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

const RecapWindow = 24 * time.Hour

type DraftArcUseCase struct {
	Source     ports.ArcSourceRepository
	Summaries  ports.ArcSummaryRepository
	Recomputer ports.SummaryRecomputer
	Clock      ports.Clock
	Logger     *slog.Logger
}

// GetDraftArc returns the cached summary together with the trailing recap.
// A draft without a cached summary is recomputed first.
func (uc DraftArcUseCase) GetDraftArc(ctx context.Context, draftID string) (entities.DraftArc, error) {
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return entities.DraftArc{}, domainerrors.ErrInvalidDraft
	}
	if _, err := uc.Source.GetDraft(ctx, draftID); err != nil {
		return entities.DraftArc{}, err
	}

	summary, found, err := uc.Summaries.GetArcSummary(ctx, draftID)
	if err != nil {
		return entities.DraftArc{}, err
	}
	if !found {
		application.ResolveLogger(uc.Logger).Debug("draft arc summary missing, recomputing",
			"event", "draft_arc_summary_read_through",
			"module", "observer-experience/draft-arc-service",
			"layer", "application",
			"draft_id", draftID,
		)
		summary, err = uc.Recomputer.RecomputeDraftArcSummary(ctx, draftID)
		if err != nil {
			return entities.DraftArc{}, err
		}
	}

	recap, err := uc.GetRecap24h(ctx, draftID)
	if err != nil {
		return entities.DraftArc{}, err
	}
	return entities.DraftArc{Summary: summary, Recap: recap}, nil
}

// GetRecap24h counts review activity inside the trailing 24 hours. It is
// read-only.
func (uc DraftArcUseCase) GetRecap24h(ctx context.Context, draftID string) (entities.Recap24h, error) {
	draftID = strings.TrimSpace(draftID)
	if draftID == "" {
		return entities.Recap24h{}, domainerrors.ErrInvalidDraft
	}
	if _, err := uc.Source.GetDraft(ctx, draftID); err != nil {
		return entities.Recap24h{}, err
	}

	end := uc.now()
	start := end.Add(-RecapWindow)

	fixRequests, err := uc.Source.CountFixRequests(ctx, draftID, ports.FixRequestFilter{CreatedSince: &start})
	if err != nil {
		return entities.Recap24h{}, err
	}
	submitted, err := uc.Source.CountPullRequests(ctx, draftID, ports.PullRequestFilter{CreatedSince: &start})
	if err != nil {
		return entities.Recap24h{}, err
	}
	merged, err := uc.countDecided(ctx, draftID, entities.PullRequestStatusMerged, "", &start)
	if err != nil {
		return entities.Recap24h{}, err
	}
	rejected, err := uc.countDecided(ctx, draftID, entities.PullRequestStatusRejected, "", &start)
	if err != nil {
		return entities.Recap24h{}, err
	}

	recap := entities.Recap24h{
		DraftID:       draftID,
		FixRequests:   fixRequests,
		PRSubmitted:   submitted,
		PRMerged:      merged,
		PRRejected:    rejected,
		HasChanges:    fixRequests > 0 || submitted > 0 || merged > 0 || rejected > 0,
		WindowStartAt: start,
		WindowEndAt:   end,
	}
	if merged == 0 {
		return recap, nil
	}

	totalMajor, err := uc.countDecided(ctx, draftID, entities.PullRequestStatusMerged, entities.SeverityMajor, nil)
	if err != nil {
		return entities.Recap24h{}, err
	}
	totalMinor, err := uc.countDecided(ctx, draftID, entities.PullRequestStatusMerged, entities.SeverityMinor, nil)
	if err != nil {
		return entities.Recap24h{}, err
	}
	majorInWindow, err := uc.countDecided(ctx, draftID, entities.PullRequestStatusMerged, entities.SeverityMajor, &start)
	if err != nil {
		return entities.Recap24h{}, err
	}
	minorInWindow, err := uc.countDecided(ctx, draftID, entities.PullRequestStatusMerged, entities.SeverityMinor, &start)
	if err != nil {
		return entities.Recap24h{}, err
	}
	delta := services.GlowUpDelta(totalMajor, totalMinor, majorInWindow, minorInWindow)
	recap.GlowUpDelta = &delta
	return recap, nil
}

func (uc DraftArcUseCase) countDecided(
	ctx context.Context,
	draftID string,
	status entities.PullRequestStatus,
	severity entities.Severity,
	decidedSince *time.Time,
) (int, error) {
	return uc.Source.CountPullRequests(ctx, draftID, ports.PullRequestFilter{
		Statuses:     []entities.PullRequestStatus{status},
		Severity:     severity,
		DecidedSince: decidedSince,
	})
}

func (uc DraftArcUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
