package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"atelier/contexts/observer-experience/observer-engagement-service/application/commands"
	"atelier/contexts/observer-experience/observer-engagement-service/application/queries"
	"atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
	httptransport "atelier/contexts/observer-experience/observer-engagement-service/transport/http"
)

type Handler struct {
	Follows     commands.FollowUseCase
	Engagements commands.EngagementUseCase
	Watchlist   queries.WatchlistUseCase
	Logger      *slog.Logger
}

func (h Handler) FollowDraftHandler(ctx context.Context, observerID string, draftID string) (httptransport.FollowResponse, error) {
	result, err := h.Follows.FollowDraft(ctx, observerID, draftID)
	if err != nil {
		return httptransport.FollowResponse{}, err
	}
	return mapFollow(result), nil
}

func (h Handler) UnfollowDraftHandler(ctx context.Context, observerID string, draftID string) (httptransport.UnfollowResponse, error) {
	result, err := h.Follows.UnfollowDraft(ctx, observerID, draftID)
	if err != nil {
		return httptransport.UnfollowResponse{}, err
	}
	return mapUnfollow(result), nil
}

func (h Handler) FollowStudioHandler(ctx context.Context, observerID string, studioID string) (httptransport.FollowResponse, error) {
	result, err := h.Follows.FollowStudio(ctx, observerID, studioID)
	if err != nil {
		return httptransport.FollowResponse{}, err
	}
	return mapFollow(result), nil
}

func (h Handler) UnfollowStudioHandler(ctx context.Context, observerID string, studioID string) (httptransport.UnfollowResponse, error) {
	result, err := h.Follows.UnfollowStudio(ctx, observerID, studioID)
	if err != nil {
		return httptransport.UnfollowResponse{}, err
	}
	return mapUnfollow(result), nil
}

func (h Handler) ListWatchlistHandler(ctx context.Context, observerID string) (httptransport.WatchlistResponse, error) {
	items, err := h.Watchlist.ListWatchlist(ctx, observerID)
	if err != nil {
		return httptransport.WatchlistResponse{}, err
	}
	response := httptransport.WatchlistResponse{Items: make([]httptransport.WatchlistItemResponse, 0, len(items))}
	for _, item := range items {
		mapped := httptransport.WatchlistItemResponse{
			DraftID:         item.DraftID,
			StudioID:        item.StudioID,
			DraftStatus:     item.DraftStatus,
			GlowUpScore:     item.GlowUpScore,
			ArcState:        item.ArcState,
			LatestMilestone: item.LatestMilestone,
			ArcUpdatedAt:    formatOptional(item.ArcUpdatedAt),
			FollowedAt:      item.FollowedAt.UTC().Format(time.RFC3339),
		}
		response.Items = append(response.Items, mapped)
	}
	return response, nil
}

func (h Handler) SaveDraftHandler(ctx context.Context, observerID string, draftID string) (httptransport.EngagementResponse, error) {
	return mapEngagement(h.Engagements.SaveDraft(ctx, observerID, draftID))
}

func (h Handler) UnsaveDraftHandler(ctx context.Context, observerID string, draftID string) (httptransport.EngagementResponse, error) {
	return mapEngagement(h.Engagements.UnsaveDraft(ctx, observerID, draftID))
}

func (h Handler) RateDraftHandler(ctx context.Context, observerID string, draftID string) (httptransport.EngagementResponse, error) {
	return mapEngagement(h.Engagements.RateDraft(ctx, observerID, draftID))
}

func (h Handler) UnrateDraftHandler(ctx context.Context, observerID string, draftID string) (httptransport.EngagementResponse, error) {
	return mapEngagement(h.Engagements.UnrateDraft(ctx, observerID, draftID))
}

func mapFollow(result entities.FollowResult) httptransport.FollowResponse {
	return httptransport.FollowResponse{
		ObserverID: result.ObserverID,
		TargetID:   result.TargetID,
		Following:  true,
		Created:    result.Created,
	}
}

func mapUnfollow(result entities.UnfollowResult) httptransport.UnfollowResponse {
	return httptransport.UnfollowResponse{
		ObserverID: result.ObserverID,
		TargetID:   result.TargetID,
		Removed:    result.Removed,
	}
}

func mapEngagement(engagement entities.Engagement, err error) (httptransport.EngagementResponse, error) {
	if err != nil {
		return httptransport.EngagementResponse{}, err
	}
	return httptransport.EngagementResponse{
		ObserverID: engagement.ObserverID,
		DraftID:    engagement.DraftID,
		IsSaved:    engagement.IsSaved,
		IsRated:    engagement.IsRated,
		SavedAt:    formatOptional(engagement.SavedAt),
		RatedAt:    formatOptional(engagement.RatedAt),
		UpdatedAt:  engagement.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}

func formatOptional(value *time.Time) *string {
	if value == nil {
		return nil
	}
	formatted := value.UTC().Format(time.RFC3339)
	return &formatted
}
