package postgresadapter

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	domainerrors "atelier/contexts/observer-experience/prediction-market/domain/errors"
	"atelier/contexts/observer-experience/prediction-market/ports"
	"atelier/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) (*Repository, *db.Database) {
	t.Helper()
	ctx := context.Background()
	database, err := db.Connect(ctx, db.Options{
		Driver: db.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "market.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, database.Migrate(ctx, Models()))
	require.NoError(t, database.DB.Exec("CREATE TABLE pull_requests (id TEXT PRIMARY KEY, draft_id TEXT, status TEXT)").Error)
	require.NoError(t, database.DB.Exec("INSERT INTO pull_requests (id, draft_id, status) VALUES ('pr-1', 'draft-1', 'Pending')").Error)
	return NewRepository(database.DB, nil), database
}

func openPrediction(id string, observerID string, outcome entities.Outcome, stake int, at time.Time) entities.Prediction {
	return entities.Prediction{
		PredictionID:     id,
		ObserverID:       observerID,
		PullRequestID:    "pr-1",
		PredictedOutcome: outcome,
		StakePoints:      stake,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

func TestRepositoryGetPullRequest(t *testing.T) {
	repo, _ := newTestRepository(t)
	pr, err := repo.GetPullRequest(context.Background(), "pr-1")
	require.NoError(t, err)
	assert.Equal(t, entities.PullRequestRef{PullRequestID: "pr-1", DraftID: "draft-1", Status: "pending"}, pr)

	_, err = repo.GetPullRequest(context.Background(), "pr-404")
	assert.ErrorIs(t, err, domainerrors.ErrPullRequestNotFound)
}

func TestRepositoryUpsertOpenPrediction(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)

	stored, applied, err := repo.UpsertOpenPrediction(ctx, openPrediction("p-1", "obs-a", entities.OutcomeMerge, 50, base))
	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, "p-1", stored.PredictionID)

	edit := openPrediction("p-ignored", "obs-a", entities.OutcomeReject, 80, base.Add(time.Hour))
	edit.CreatedAt = base
	stored, applied, err = repo.UpsertOpenPrediction(ctx, edit)
	require.NoError(t, err)
	require.True(t, applied)
	assert.Equal(t, "p-1", stored.PredictionID)
	assert.Equal(t, entities.OutcomeReject, stored.PredictedOutcome)
	assert.Equal(t, 80, stored.StakePoints)
	assert.True(t, stored.CreatedAt.Equal(base))

	usage, err := repo.GetDailyUsage(ctx, "obs-a", time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, entities.DailyUsage{Submissions: 1, StakePoints: 80}, usage)

	usage, err = repo.GetDailyUsage(ctx, "obs-a", time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, usage.Submissions)
}

func TestRepositoryResolvePredictions(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 6, 2, 9, 0, 0, 0, time.UTC)
	for _, prediction := range []entities.Prediction{
		openPrediction("p-a", "obs-a", entities.OutcomeMerge, 100, base),
		openPrediction("p-b", "obs-b", entities.OutcomeMerge, 50, base),
		openPrediction("p-c", "obs-c", entities.OutcomeReject, 100, base),
	} {
		_, applied, err := repo.UpsertOpenPrediction(ctx, prediction)
		require.NoError(t, err)
		require.True(t, applied)
	}

	consensus, err := repo.GetConsensus(ctx, "pr-1")
	require.NoError(t, err)
	assert.Equal(t, entities.Consensus{
		MergeCount: 2, RejectCount: 1, MergeStakePoints: 150, RejectStakePoints: 100, TotalStakePoints: 250,
	}, consensus)

	command := ports.ResolveCommand{
		PullRequestID: "pr-1",
		Outcome:       entities.OutcomeMerge,
		TotalPool:     250,
		WinningPool:   150,
		ResolvedAt:    base.Add(2 * time.Hour),
	}
	resolved, correct, err := repo.ResolvePredictions(ctx, command)
	require.NoError(t, err)
	assert.Equal(t, 3, resolved)
	assert.Equal(t, 2, correct)

	winner, found, err := repo.GetPrediction(ctx, "obs-a", "pr-1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 167, winner.PayoutPoints)
	require.NotNil(t, winner.IsCorrect)
	assert.True(t, *winner.IsCorrect)
	require.NotNil(t, winner.ResolvedOutcome)
	assert.Equal(t, entities.OutcomeMerge, *winner.ResolvedOutcome)

	small, _, err := repo.GetPrediction(ctx, "obs-b", "pr-1")
	require.NoError(t, err)
	assert.Equal(t, 83, small.PayoutPoints)

	loser, _, err := repo.GetPrediction(ctx, "obs-c", "pr-1")
	require.NoError(t, err)
	assert.Zero(t, loser.PayoutPoints)
	assert.False(t, *loser.IsCorrect)

	resolved, _, err = repo.ResolvePredictions(ctx, command)
	require.NoError(t, err)
	assert.Zero(t, resolved)

	_, applied, err := repo.UpsertOpenPrediction(ctx, openPrediction("p-x", "obs-a", entities.OutcomeReject, 10, base))
	require.NoError(t, err)
	assert.False(t, applied)

	stats, hits, err := repo.GetResolvedStats(ctx, "obs-a")
	require.NoError(t, err)
	assert.Equal(t, 1, stats)
	assert.Equal(t, 1, hits)
}
