package postgresadapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/draft-arc-service/domain/errors"
	"atelier/contexts/observer-experience/draft-arc-service/ports"
	"atelier/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, *db.Database) {
	t.Helper()
	ctx := context.Background()
	database, err := db.Connect(ctx, db.Options{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "arc.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(ctx, Models()))
	return NewRepository(database.DB, nil), database
}

func TestRepositoryCountsAndActivity(t *testing.T) {
	repo, database := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	merged := base.Add(2 * time.Hour)

	require.NoError(t, database.DB.Create(&DraftModel{ID: "draft-1", StudioID: "studio-1", Status: "draft", CreatedAt: base, UpdatedAt: base}).Error)
	require.NoError(t, database.DB.Create(&[]FixRequestModel{
		{ID: "fix-1", DraftID: "draft-1", CreatedAt: base},
		{ID: "fix-2", DraftID: "draft-1", CreatedAt: base.Add(time.Hour)},
	}).Error)
	require.NoError(t, database.DB.Create(&[]PullRequestModel{
		{ID: "pr-1", DraftID: "draft-1", Status: "merged", Severity: "major", AddressedFixRequests: `["fix-1"]`, CreatedAt: base.Add(90 * time.Minute), DecidedAt: &merged},
		{ID: "pr-2", DraftID: "draft-1", Status: "pending", Severity: "minor", AddressedFixRequests: `garbage`, CreatedAt: base.Add(3 * time.Hour)},
	}).Error)

	draft, err := repo.GetDraft(ctx, "draft-1")
	require.NoError(t, err)
	assert.Equal(t, "studio-1", draft.StudioID)

	_, err = repo.GetDraft(ctx, "missing")
	assert.ErrorIs(t, err, domainerrors.ErrDraftNotFound)

	count, err := repo.CountFixRequests(ctx, "draft-1", ports.FixRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	since := base.Add(30 * time.Minute)
	count, err = repo.CountFixRequests(ctx, "draft-1", ports.FixRequestFilter{CreatedSince: &since})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountFixRequests(ctx, "draft-1", ports.FixRequestFilter{IDs: []string{"fix-1", "fix-9"}})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountFixRequests(ctx, "draft-1", ports.FixRequestFilter{IDs: []string{}})
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = repo.CountPullRequests(ctx, "draft-1", ports.PullRequestFilter{
		Statuses: []entities.PullRequestStatus{entities.PullRequestStatusMerged},
		Severity: entities.SeverityMajor,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	lists, err := repo.ListMergedAddressedFixRequests(ctx, "draft-1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, entities.AddressedFixRequests{"fix-1"}, lists[0])

	activity, err := repo.GetActivityTimes(ctx, "draft-1")
	require.NoError(t, err)
	require.NotNil(t, activity.LastFixRequestAt)
	assert.True(t, activity.LastFixRequestAt.Equal(base.Add(time.Hour)))
	require.NotNil(t, activity.LastSubmittedAt)
	assert.True(t, activity.LastSubmittedAt.Equal(base.Add(3*time.Hour)))
	require.NotNil(t, activity.LastMergedAt)
	assert.True(t, activity.LastMergedAt.Equal(merged))
	assert.Nil(t, activity.LastRejectedAt)
}

func TestRepositoryUpsertArcSummaryKeepsOneRow(t *testing.T) {
	repo, database := newTestRepository(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	_, found, err := repo.GetArcSummary(ctx, "draft-1")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = repo.UpsertArcSummary(ctx, entities.ArcSummary{
		DraftID: "draft-1", State: entities.ArcStateNeedsHelp, LatestMilestone: "No activity yet", UpdatedAt: now,
	})
	require.NoError(t, err)
	_, err = repo.UpsertArcSummary(ctx, entities.ArcSummary{
		DraftID: "draft-1", State: entities.ArcStateInProgress, LatestMilestone: "1 open fix request", FixOpenCount: 1, UpdatedAt: now.Add(time.Minute),
	})
	require.NoError(t, err)

	stored, found, err := repo.GetArcSummary(ctx, "draft-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, entities.ArcStateInProgress, stored.State)
	assert.Equal(t, 1, stored.FixOpenCount)

	var rows int64
	require.NoError(t, database.DB.Model(&arcSummaryModel{}).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)
}

func TestRepositoryHonoursContextTransaction(t *testing.T) {
	repo, database := newTestRepository(t)
	uow := db.NewUnitOfWork(database.DB)

	err := uow.WithTx(context.Background(), func(ctx context.Context) error {
		_, err := repo.UpsertArcSummary(ctx, entities.ArcSummary{DraftID: "draft-1", State: entities.ArcStateNeedsHelp, UpdatedAt: time.Now().UTC()})
		require.NoError(t, err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	_, found, err := repo.GetArcSummary(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepositoryMatchesStatusesCaseInsensitively(t *testing.T) {
	repo, database := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	merged := base.Add(time.Hour)
	rejected := base.Add(2 * time.Hour)

	require.NoError(t, database.DB.Create(&DraftModel{ID: "draft-1", StudioID: "studio-1", Status: "Draft", CreatedAt: base, UpdatedAt: base}).Error)
	require.NoError(t, database.DB.Create(&[]PullRequestModel{
		{ID: "pr-1", DraftID: "draft-1", Status: "MERGED", Severity: "Major", AddressedFixRequests: `["fix-1"]`, CreatedAt: base, DecidedAt: &merged},
		{ID: "pr-2", DraftID: "draft-1", Status: "Rejected", Severity: "minor", CreatedAt: base, DecidedAt: &rejected},
		{ID: "pr-3", DraftID: "draft-1", Status: "Pending", Severity: "minor", CreatedAt: base.Add(3 * time.Hour)},
	}).Error)

	count, err := repo.CountPullRequests(ctx, "draft-1", ports.PullRequestFilter{
		Statuses: []entities.PullRequestStatus{entities.PullRequestStatusPending},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = repo.CountPullRequests(ctx, "draft-1", ports.PullRequestFilter{
		Statuses: []entities.PullRequestStatus{entities.PullRequestStatusMerged},
		Severity: entities.SeverityMajor,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	lists, err := repo.ListMergedAddressedFixRequests(ctx, "draft-1")
	require.NoError(t, err)
	require.Len(t, lists, 1)
	assert.Equal(t, entities.AddressedFixRequests{"fix-1"}, lists[0])

	activity, err := repo.GetActivityTimes(ctx, "draft-1")
	require.NoError(t, err)
	require.NotNil(t, activity.LastMergedAt)
	assert.True(t, activity.LastMergedAt.Equal(merged))
	require.NotNil(t, activity.LastRejectedAt)
	assert.True(t, activity.LastRejectedAt.Equal(rejected))
}
