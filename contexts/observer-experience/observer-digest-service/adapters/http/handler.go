package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"atelier/contexts/observer-experience/observer-digest-service/application/commands"
	"atelier/contexts/observer-experience/observer-digest-service/application/queries"
	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	httptransport "atelier/contexts/observer-experience/observer-digest-service/transport/http"
)

type Handler struct {
	Events      commands.RecordDraftEventUseCase
	Seen        commands.MarkDigestSeenUseCase
	Preferences commands.UpsertPreferencesUseCase
	Digests     queries.DigestUseCase
	Logger      *slog.Logger
}

func (h Handler) RecordDraftEventHandler(
	ctx context.Context,
	draftID string,
	req httptransport.RecordDraftEventRequest,
) (httptransport.RecordDraftEventResponse, error) {
	result, err := h.Events.RecordDraftEvent(ctx, commands.RecordDraftEventCommand{
		DraftID:   draftID,
		EventType: req.EventType,
	})
	if err != nil {
		return httptransport.RecordDraftEventResponse{}, err
	}
	return httptransport.RecordDraftEventResponse{
		DraftID:           result.Arc.DraftID,
		State:             result.Arc.State,
		LatestMilestone:   result.Arc.Milestone,
		NotifiedObservers: result.NotifiedObservers,
	}, nil
}

func (h Handler) ListDigestHandler(
	ctx context.Context,
	observerID string,
	filter entities.DigestFilter,
) (httptransport.DigestListResponse, error) {
	items, err := h.Digests.ListDigest(ctx, observerID, filter)
	if err != nil {
		return httptransport.DigestListResponse{}, err
	}
	response := httptransport.DigestListResponse{Items: make([]httptransport.DigestEntryResponse, 0, len(items))}
	for _, item := range items {
		response.Items = append(response.Items, mapEntry(item))
	}
	return response, nil
}

func (h Handler) MarkDigestSeenHandler(ctx context.Context, observerID string, entryID string) (httptransport.DigestEntryResponse, error) {
	entry, err := h.Seen.MarkDigestSeen(ctx, observerID, entryID)
	if err != nil {
		return httptransport.DigestEntryResponse{}, err
	}
	return mapEntry(entry), nil
}

func (h Handler) GetPreferencesHandler(ctx context.Context, observerID string) (httptransport.PreferencesResponse, error) {
	prefs, err := h.Digests.GetDigestPreferences(ctx, observerID)
	if err != nil {
		return httptransport.PreferencesResponse{}, err
	}
	return mapPreferences(prefs), nil
}

func (h Handler) UpsertPreferencesHandler(
	ctx context.Context,
	observerID string,
	req httptransport.PreferencesRequest,
) (httptransport.PreferencesResponse, error) {
	prefs, err := h.Preferences.UpsertDigestPreferences(ctx, observerID, entities.PreferencesUpdate{
		DigestUnseenOnly:    req.DigestUnseenOnly,
		DigestFollowingOnly: req.DigestFollowingOnly,
	})
	if err != nil {
		return httptransport.PreferencesResponse{}, err
	}
	return mapPreferences(prefs), nil
}

func mapEntry(entry entities.DigestEntry) httptransport.DigestEntryResponse {
	response := httptransport.DigestEntryResponse{
		EntryID:               entry.EntryID,
		DraftID:               entry.DraftID,
		StudioID:              entry.StudioID,
		Title:                 entry.Title,
		Summary:               entry.Summary,
		LatestMilestone:       entry.LatestMilestone,
		IsFromFollowingStudio: entry.IsFromFollowingStudio,
		IsSeen:                entry.IsSeen,
		CreatedAt:             entry.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:             entry.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if entry.SeenAt != nil {
		value := entry.SeenAt.UTC().Format(time.RFC3339)
		response.SeenAt = &value
	}
	return response
}

func mapPreferences(prefs entities.Preferences) httptransport.PreferencesResponse {
	return httptransport.PreferencesResponse{
		ObserverID:          prefs.ObserverID,
		DigestUnseenOnly:    prefs.DigestUnseenOnly,
		DigestFollowingOnly: prefs.DigestFollowingOnly,
	}
}
