package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"atelier/contexts/observer-experience/draft-arc-service/application/commands"
	"atelier/contexts/observer-experience/draft-arc-service/application/queries"
	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
	httptransport "atelier/contexts/observer-experience/draft-arc-service/transport/http"
)

type Handler struct {
	Recompute commands.RecomputeUseCase
	Arcs      queries.DraftArcUseCase
	Logger    *slog.Logger
}

func (h Handler) GetDraftArcHandler(ctx context.Context, draftID string) (httptransport.DraftArcResponse, error) {
	arc, err := h.Arcs.GetDraftArc(ctx, draftID)
	if err != nil {
		return httptransport.DraftArcResponse{}, err
	}
	return httptransport.DraftArcResponse{
		Summary: mapSummary(arc.Summary),
		Recap:   mapRecap(arc.Recap),
	}, nil
}

func (h Handler) RecomputeDraftArcHandler(ctx context.Context, draftID string) (httptransport.ArcSummaryResponse, error) {
	summary, err := h.Recompute.RecomputeDraftArcSummary(ctx, draftID)
	if err != nil {
		return httptransport.ArcSummaryResponse{}, err
	}
	return mapSummary(summary), nil
}

func mapSummary(summary entities.ArcSummary) httptransport.ArcSummaryResponse {
	response := httptransport.ArcSummaryResponse{
		DraftID:         summary.DraftID,
		State:           string(summary.State),
		LatestMilestone: summary.LatestMilestone,
		FixOpenCount:    summary.FixOpenCount,
		PRPendingCount:  summary.PRPendingCount,
		UpdatedAt:       summary.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if summary.LastMergeAt != nil {
		value := summary.LastMergeAt.UTC().Format(time.RFC3339)
		response.LastMergeAt = &value
	}
	return response
}

func mapRecap(recap entities.Recap24h) httptransport.Recap24hResponse {
	return httptransport.Recap24hResponse{
		FixRequests:   recap.FixRequests,
		PRSubmitted:   recap.PRSubmitted,
		PRMerged:      recap.PRMerged,
		PRRejected:    recap.PRRejected,
		GlowUpDelta:   recap.GlowUpDelta,
		HasChanges:    recap.HasChanges,
		WindowStartAt: recap.WindowStartAt.UTC().Format(time.RFC3339),
		WindowEndAt:   recap.WindowEndAt.UTC().Format(time.RFC3339),
	}
}
