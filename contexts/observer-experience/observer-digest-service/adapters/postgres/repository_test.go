package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"
	"atelier/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, *db.Database) {
	t.Helper()
	return newTestRepositoryWithOptions(t, db.Options{})
}

func newTestRepositoryWithOptions(t *testing.T, opts db.Options) (*Repository, *db.Database) {
	t.Helper()
	ctx := context.Background()
	opts.Driver = db.DriverSQLite
	opts.DSN = filepath.Join(t.TempDir(), "digest.db")
	database, err := db.Connect(ctx, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(ctx, Models()))
	for _, statement := range []string{
		"CREATE TABLE drafts (id TEXT PRIMARY KEY, studio_id TEXT)",
		"CREATE TABLE observer_draft_follows (observer_id TEXT, draft_id TEXT, created_at DATETIME)",
		"CREATE TABLE observer_studio_follows (observer_id TEXT, studio_id TEXT, created_at DATETIME)",
	} {
		require.NoError(t, database.DB.Exec(statement).Error)
	}
	return NewRepository(database.DB, nil), database
}

func TestRepositoryFollowers(t *testing.T) {
	repo, database := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, database.DB.Exec("INSERT INTO drafts (id, studio_id) VALUES ('draft-1', 'studio-1')").Error)
	require.NoError(t, database.DB.Exec("INSERT INTO observer_draft_follows (observer_id, draft_id) VALUES ('obs-b', 'draft-1'), ('obs-a', 'draft-1')").Error)
	require.NoError(t, database.DB.Exec("INSERT INTO observer_studio_follows (observer_id, studio_id) VALUES ('obs-c', 'studio-1')").Error)

	studioID, err := repo.GetDraftStudio(ctx, "draft-1")
	require.NoError(t, err)
	assert.Equal(t, "studio-1", studioID)

	_, err = repo.GetDraftStudio(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrDraftNotFound)

	direct, err := repo.ListDraftFollowers(ctx, "draft-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"obs-a", "obs-b"}, direct)

	studio, err := repo.ListStudioFollowers(ctx, "studio-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"obs-c"}, studio)
}

func TestRepositoryRefreshInsertAndList(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	entry := entities.DigestEntry{
		ObserverID: "obs-a", DraftID: "draft-1", Title: "New PR submitted", Summary: "Ready for review: PR pending review",
		UpdatedAt: base,
	}
	refreshed, err := repo.RefreshRecentEntry(ctx, entry, base.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.False(t, refreshed)

	entry.EntryID = "01HZX0000000000000000000A1"
	entry.CreatedAt = base
	require.NoError(t, repo.InsertEntry(ctx, entry))

	seen, err := repo.MarkSeen(ctx, "obs-a", entry.EntryID, base.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, seen.IsSeen)

	_, err = repo.MarkSeen(ctx, "obs-b", entry.EntryID, base.Add(time.Minute))
	assert.ErrorIs(t, err, domainerrors.ErrDigestEntryNotFound)

	entry.Title = "PR merged"
	entry.UpdatedAt = base.Add(5 * time.Minute)
	refreshed, err = repo.RefreshRecentEntry(ctx, entry, base.Add(-5*time.Minute))
	require.NoError(t, err)
	assert.True(t, refreshed)

	other := entities.DigestEntry{
		EntryID: "01HZX0000000000000000000B2", ObserverID: "obs-a", DraftID: "draft-2", Title: "Draft released",
		IsFromFollowingStudio: true, IsSeen: true, CreatedAt: base, UpdatedAt: base.Add(20 * time.Minute),
	}
	require.NoError(t, repo.InsertEntry(ctx, other))

	items, err := repo.ListEntries(ctx, "obs-a", entities.DigestQuery{Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "draft-1", items[0].DraftID)
	assert.Equal(t, "PR merged", items[0].Title)
	assert.False(t, items[0].IsSeen)
	assert.Nil(t, items[0].SeenAt)

	items, err = repo.ListEntries(ctx, "obs-a", entities.DigestQuery{FromFollowingStudioOnly: true, Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "draft-2", items[0].DraftID)

	items, err = repo.ListEntries(ctx, "obs-a", entities.DigestQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "draft-2", items[0].DraftID)
}

func TestRepositoryPreferencesUpsertKeepsOmittedFields(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	yes := true
	no := false

	_, found, err := repo.GetPreferences(ctx, "obs-a")
	require.NoError(t, err)
	assert.False(t, found)

	prefs, err := repo.UpsertPreferences(ctx, "obs-a", entities.PreferencesUpdate{DigestUnseenOnly: &yes}, now)
	require.NoError(t, err)
	assert.True(t, prefs.DigestUnseenOnly)
	assert.False(t, prefs.DigestFollowingOnly)

	prefs, err = repo.UpsertPreferences(ctx, "obs-a", entities.PreferencesUpdate{DigestFollowingOnly: &yes}, now.Add(time.Minute))
	require.NoError(t, err)
	assert.True(t, prefs.DigestUnseenOnly)
	assert.True(t, prefs.DigestFollowingOnly)

	prefs, err = repo.UpsertPreferences(ctx, "obs-a", entities.PreferencesUpdate{DigestUnseenOnly: &no}, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, prefs.DigestUnseenOnly)
	assert.True(t, prefs.DigestFollowingOnly)
}

func TestRepositoryEntriesRollBackWithUnitOfWork(t *testing.T) {
	repo, database := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	errAbort := errors.New("abort fan-out")

	err := db.NewUnitOfWork(database.DB).WithTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.InsertEntry(txCtx, entities.DigestEntry{
			EntryID: "01HZX0000000000000000000B1", ObserverID: "obs-a", DraftID: "draft-1",
			Title: "PR merged", CreatedAt: base, UpdatedAt: base,
		}))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	items, err := repo.ListEntries(ctx, "obs-a", entities.DigestQuery{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepositorySaveRecentEntryRefreshesInsideWindow(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	entry := entities.DigestEntry{
		EntryID: "01HZX0000000000000000000C1", ObserverID: "obs-a", DraftID: "draft-1",
		Title: "New PR submitted", CreatedAt: base, UpdatedAt: base,
	}

	refreshed, err := repo.SaveRecentEntry(ctx, entry, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, refreshed)

	entry.EntryID = "01HZX0000000000000000000C2"
	entry.Title = "PR merged"
	entry.UpdatedAt = base.Add(10 * time.Minute)
	refreshed, err = repo.SaveRecentEntry(ctx, entry, base.Add(-50*time.Minute))
	require.NoError(t, err)
	assert.True(t, refreshed)

	items, err := repo.ListEntries(ctx, "obs-a", entities.DigestQuery{Limit: 20})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "01HZX0000000000000000000C1", items[0].EntryID)
	assert.Equal(t, "PR merged", items[0].Title)

	entry.EntryID = "01HZX0000000000000000000C3"
	entry.CreatedAt = base.Add(2 * time.Hour)
	refreshed, err = repo.SaveRecentEntry(ctx, entry, base.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, refreshed)

	items, err = repo.ListEntries(ctx, "obs-a", entities.DigestQuery{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestRepositoryConcurrentSaveRecentEntryKeepsOneEntry(t *testing.T) {
	repo, _ := newTestRepositoryWithOptions(t, db.Options{MaxOpenConns: 1})
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.SaveRecentEntry(ctx, entities.DigestEntry{
				EntryID: fmt.Sprintf("01HZX0000000000000000000D%d", i), ObserverID: "obs-a", DraftID: "draft-1",
				Title: "PR merged", CreatedAt: base, UpdatedAt: base,
			}, base.Add(-time.Hour))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}

	items, err := repo.ListEntries(ctx, "obs-a", entities.DigestQuery{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRepositorySaveRecentEntryRollsBackWithOuterTransaction(t *testing.T) {
	repo, database := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	errAbort := errors.New("abort fan-out")

	err := db.NewUnitOfWork(database.DB).WithTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, repo.LockDraftDigest(txCtx, "draft-1"))
		_, err := repo.SaveRecentEntry(txCtx, entities.DigestEntry{
			EntryID: "01HZX0000000000000000000E1", ObserverID: "obs-a", DraftID: "draft-1",
			Title: "PR merged", CreatedAt: base, UpdatedAt: base,
		}, base.Add(-time.Hour))
		require.NoError(t, err)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	items, err := repo.ListEntries(ctx, "obs-a", entities.DigestQuery{Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, items)
}
