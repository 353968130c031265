package observerdigest_test

import (
	"context"
	"errors"
	"testing"
	"time"

	observerdigest "atelier/contexts/observer-experience/observer-digest-service"
	"atelier/contexts/observer-experience/observer-digest-service/application/commands"
	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubArcs struct {
	snapshot entities.ArcSnapshot
	err      error
	calls    int
}

func (s *stubArcs) RecomputeDraftArc(_ context.Context, draftID string) (entities.ArcSnapshot, error) {
	s.calls++
	if s.err != nil {
		return entities.ArcSnapshot{}, s.err
	}
	snapshot := s.snapshot
	snapshot.DraftID = draftID
	return snapshot, nil
}

var baseTime = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func newModule(t *testing.T) (observerdigest.Module, *stubArcs) {
	t.Helper()
	arcs := &stubArcs{snapshot: entities.ArcSnapshot{State: "in_progress", Milestone: "1 open fix request"}}
	module := observerdigest.NewInMemoryModule(arcs, nil, nil)
	module.Store.SetNow(baseTime)
	module.Store.SetDraft("draft-1", "studio-1")
	return module, arcs
}

func record(t *testing.T, module observerdigest.Module, eventType string) entities.RecordResult {
	t.Helper()
	result, err := module.Handler.Events.RecordDraftEvent(context.Background(), commands.RecordDraftEventCommand{
		DraftID:   "draft-1",
		EventType: eventType,
	})
	require.NoError(t, err)
	return result
}

func TestRecordDraftEventRejectsEmptyEventType(t *testing.T) {
	module, arcs := newModule(t)
	_, err := module.Handler.Events.RecordDraftEvent(context.Background(), commands.RecordDraftEventCommand{DraftID: "draft-1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidEvent)
	assert.Zero(t, arcs.calls)
}

func TestRecordDraftEventPropagatesArcFailure(t *testing.T) {
	module, arcs := newModule(t)
	arcs.err = errors.New("draft missing")
	_, err := module.Handler.Events.RecordDraftEvent(context.Background(), commands.RecordDraftEventCommand{
		DraftID:   "draft-1",
		EventType: "fix_request",
	})
	assert.EqualError(t, err, "draft missing")
}

func TestRecordDraftEventWithoutFollowersWritesNothing(t *testing.T) {
	module, arcs := newModule(t)
	result := record(t, module, "fix_request")
	assert.Equal(t, 1, arcs.calls)
	assert.Zero(t, result.NotifiedObservers)
	assert.Empty(t, module.Store.Entries())
}

func TestRecordDraftEventFansOutToDraftAndStudioFollowers(t *testing.T) {
	module, _ := newModule(t)
	module.Store.FollowDraft("obs-a", "draft-1")
	module.Store.FollowDraft("obs-b", "draft-1")
	module.Store.FollowStudio("obs-b", "studio-1")
	module.Store.FollowStudio("obs-c", "studio-1")

	result := record(t, module, "fix_request")
	assert.Equal(t, 3, result.NotifiedObservers)

	entries := module.Store.Entries()
	require.Len(t, entries, 3)
	flags := map[string]bool{}
	for _, entry := range entries {
		flags[entry.ObserverID] = entry.IsFromFollowingStudio
		assert.Equal(t, "New critique on watched draft", entry.Title)
		assert.Equal(t, "In progress: 1 open fix request", entry.Summary)
		assert.Equal(t, "studio-1", entry.StudioID)
		assert.False(t, entry.IsSeen)
	}
	assert.Equal(t, map[string]bool{"obs-a": false, "obs-b": true, "obs-c": true}, flags)
}

func TestRecordDraftEventDeduplicatesInsideWindow(t *testing.T) {
	module, arcs := newModule(t)
	module.Store.FollowDraft("obs-a", "draft-1")

	record(t, module, "fix_request")
	entries := module.Store.Entries()
	require.Len(t, entries, 1)

	_, err := module.Handler.Seen.MarkDigestSeen(context.Background(), "obs-a", entries[0].EntryID)
	require.NoError(t, err)

	module.Store.SetNow(baseTime.Add(9 * time.Minute))
	arcs.snapshot = entities.ArcSnapshot{State: "ready_for_review", Milestone: "PR pending review"}
	record(t, module, "pull_request")

	entries = module.Store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "New PR submitted", entries[0].Title)
	assert.Equal(t, "Ready for review: PR pending review", entries[0].Summary)
	assert.False(t, entries[0].IsSeen)
	assert.Nil(t, entries[0].SeenAt)

	module.Store.SetNow(baseTime.Add(11 * time.Minute))
	record(t, module, "pull_request_merged")
	assert.Len(t, module.Store.Entries(), 2)
}

func TestListDigestOrderingAndPreferences(t *testing.T) {
	module, _ := newModule(t)
	ctx := context.Background()
	module.Store.SetDraft("draft-2", "studio-2")
	module.Store.FollowDraft("obs-a", "draft-1")
	module.Store.FollowStudio("obs-a", "studio-2")

	record(t, module, "fix_request")
	module.Store.SetNow(baseTime.Add(time.Minute))
	_, err := module.Handler.Events.RecordDraftEvent(ctx, commands.RecordDraftEventCommand{DraftID: "draft-2", EventType: "draft_released"})
	require.NoError(t, err)

	items, err := module.Handler.Digests.ListDigest(ctx, "obs-a", entities.DigestFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "draft-2", items[0].DraftID)
	assert.True(t, items[0].IsFromFollowingStudio)

	_, err = module.Handler.Seen.MarkDigestSeen(ctx, "obs-a", items[0].EntryID)
	require.NoError(t, err)

	items, err = module.Handler.Digests.ListDigest(ctx, "obs-a", entities.DigestFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "draft-1", items[0].DraftID)

	unseen := true
	_, err = module.Handler.Preferences.UpsertDigestPreferences(ctx, "obs-a", entities.PreferencesUpdate{DigestUnseenOnly: &unseen})
	require.NoError(t, err)
	items, err = module.Handler.Digests.ListDigest(ctx, "obs-a", entities.DigestFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "draft-1", items[0].DraftID)

	all := false
	items, err = module.Handler.Digests.ListDigest(ctx, "obs-a", entities.DigestFilter{UnseenOnly: &all, Limit: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestMarkDigestSeenRequiresOwnership(t *testing.T) {
	module, _ := newModule(t)
	module.Store.FollowDraft("obs-a", "draft-1")
	record(t, module, "fix_request")
	entryID := module.Store.Entries()[0].EntryID

	_, err := module.Handler.Seen.MarkDigestSeen(context.Background(), "obs-b", entryID)
	assert.ErrorIs(t, err, domainerrors.ErrDigestEntryNotFound)

	entry, err := module.Handler.Seen.MarkDigestSeen(context.Background(), "obs-a", entryID)
	require.NoError(t, err)
	assert.True(t, entry.IsSeen)
	require.NotNil(t, entry.SeenAt)
}

func TestDigestPreferencesPartialUpdate(t *testing.T) {
	module, _ := newModule(t)
	ctx := context.Background()

	prefs, err := module.Handler.Digests.GetDigestPreferences(ctx, "obs-a")
	require.NoError(t, err)
	assert.False(t, prefs.DigestUnseenOnly)
	assert.False(t, prefs.DigestFollowingOnly)

	_, err = module.Handler.Preferences.UpsertDigestPreferences(ctx, "obs-a", entities.PreferencesUpdate{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidPreferences)

	yes := true
	_, err = module.Handler.Preferences.UpsertDigestPreferences(ctx, "obs-a", entities.PreferencesUpdate{DigestFollowingOnly: &yes})
	require.NoError(t, err)
	_, err = module.Handler.Preferences.UpsertDigestPreferences(ctx, "obs-a", entities.PreferencesUpdate{DigestUnseenOnly: &yes})
	require.NoError(t, err)

	prefs, err = module.Handler.Digests.GetDigestPreferences(ctx, "obs-a")
	require.NoError(t, err)
	assert.True(t, prefs.DigestUnseenOnly)
	assert.True(t, prefs.DigestFollowingOnly)
}
