package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	domainerrors "atelier/contexts/observer-experience/prediction-market/domain/errors"
	"atelier/contexts/observer-experience/prediction-market/ports"
	"atelier/internal/platform/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(gdb *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     gdb,
		logger: logger,
	}
}

// Models lists the tables owned by this module.
func Models() []any {
	return []any{&predictionModel{}}
}

func (r *Repository) GetPullRequest(ctx context.Context, pullRequestID string) (entities.PullRequestRef, error) {
	var row pullRequestRow
	err := db.Conn(ctx, r.db).
		Select("id", "draft_id", "status").
		Where("id = ?", strings.TrimSpace(pullRequestID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.PullRequestRef{}, domainerrors.ErrPullRequestNotFound
		}
		return entities.PullRequestRef{}, r.logError("prediction_repo_get_pull_request_failed", err, "pull_request_id", pullRequestID)
	}
	return entities.PullRequestRef{
		PullRequestID: row.ID,
		DraftID:       row.DraftID,
		Status:        strings.ToLower(strings.TrimSpace(row.Status)),
	}, nil
}

func (r *Repository) GetPrediction(ctx context.Context, observerID string, pullRequestID string) (entities.Prediction, bool, error) {
	var row predictionModel
	err := db.Conn(ctx, r.db).
		Where("observer_id = ? AND pull_request_id = ?", observerID, pullRequestID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Prediction{}, false, nil
		}
		return entities.Prediction{}, false, r.logError("prediction_repo_get_prediction_failed", err,
			"observer_id", observerID,
			"pull_request_id", pullRequestID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpsertOpenPrediction(ctx context.Context, prediction entities.Prediction) (entities.Prediction, bool, error) {
	row := predictionModelFromEntity(prediction)
	conn := db.Conn(ctx, r.db)
	result := conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "observer_id"}, {Name: "pull_request_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"predicted_outcome", "stake_points", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "observer_pr_predictions.resolved_at IS NULL"},
		}},
	}).Create(&row)
	if result.Error != nil {
		return entities.Prediction{}, false, r.logError("prediction_repo_upsert_failed", result.Error,
			"observer_id", prediction.ObserverID,
			"pull_request_id", prediction.PullRequestID,
		)
	}
	if result.RowsAffected == 0 {
		return entities.Prediction{}, false, nil
	}

	stored, found, err := r.GetPrediction(ctx, prediction.ObserverID, prediction.PullRequestID)
	if err != nil {
		return entities.Prediction{}, false, err
	}
	if !found {
		return entities.Prediction{}, false, nil
	}
	return stored, true, nil
}

func (r *Repository) GetConsensus(ctx context.Context, pullRequestID string) (entities.Consensus, error) {
	var rows []struct {
		PredictedOutcome string
		Predictions      int64
		StakePoints      int64
	}
	err := db.Conn(ctx, r.db).
		Model(&predictionModel{}).
		Select("predicted_outcome, COUNT(*) AS predictions, COALESCE(SUM(stake_points), 0) AS stake_points").
		Where("pull_request_id = ?", strings.TrimSpace(pullRequestID)).
		Group("predicted_outcome").
		Scan(&rows).
		Error
	if err != nil {
		return entities.Consensus{}, r.logError("prediction_repo_consensus_failed", err, "pull_request_id", pullRequestID)
	}
	var consensus entities.Consensus
	for _, row := range rows {
		switch entities.Outcome(row.PredictedOutcome) {
		case entities.OutcomeMerge:
			consensus.MergeCount = int(row.Predictions)
			consensus.MergeStakePoints = int(row.StakePoints)
		case entities.OutcomeReject:
			consensus.RejectCount = int(row.Predictions)
			consensus.RejectStakePoints = int(row.StakePoints)
		}
	}
	consensus.TotalStakePoints = consensus.MergeStakePoints + consensus.RejectStakePoints
	return consensus, nil
}

func (r *Repository) GetResolvedStats(ctx context.Context, observerID string) (int, int, error) {
	var resolved, correct int64
	conn := db.Conn(ctx, r.db)
	if err := conn.Model(&predictionModel{}).
		Where("observer_id = ? AND resolved_at IS NOT NULL", observerID).
		Count(&resolved).Error; err != nil {
		return 0, 0, r.logError("prediction_repo_resolved_count_failed", err, "observer_id", observerID)
	}
	if err := conn.Model(&predictionModel{}).
		Where("observer_id = ? AND resolved_at IS NOT NULL AND is_correct = ?", observerID, true).
		Count(&correct).Error; err != nil {
		return 0, 0, r.logError("prediction_repo_correct_count_failed", err, "observer_id", observerID)
	}
	return int(resolved), int(correct), nil
}

func (r *Repository) GetDailyUsage(ctx context.Context, observerID string, dayStart time.Time) (entities.DailyUsage, error) {
	var usage struct {
		Submissions int64
		StakePoints int64
	}
	err := db.Conn(ctx, r.db).
		Model(&predictionModel{}).
		Select("COUNT(*) AS submissions, COALESCE(SUM(stake_points), 0) AS stake_points").
		Where("observer_id = ? AND created_at >= ?", observerID, dayStart.UTC()).
		Scan(&usage).
		Error
	if err != nil {
		return entities.DailyUsage{}, r.logError("prediction_repo_daily_usage_failed", err, "observer_id", observerID)
	}
	return entities.DailyUsage{
		Submissions: int(usage.Submissions),
		StakePoints: int(usage.StakePoints),
	}, nil
}

// ResolvePredictions issues one guarded bulk update per outcome group. The
// payout expression rounds half away from zero on both postgres and sqlite,
// matching services.Payout.
func (r *Repository) ResolvePredictions(ctx context.Context, cmd ports.ResolveCommand) (int, int, error) {
	var resolved, correct int
	err := db.Conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		resolvedAt := cmd.ResolvedAt.UTC()
		outcome := string(cmd.Outcome)

		if cmd.WinningPool > 0 {
			winners := tx.Model(&predictionModel{}).
				Where("pull_request_id = ? AND resolved_at IS NULL AND predicted_outcome = ?", cmd.PullRequestID, outcome).
				Updates(map[string]any{
					"resolved_outcome": outcome,
					"is_correct":       true,
					"payout_points":    gorm.Expr("CAST(ROUND((stake_points * ? * 1.0) / ?) AS INTEGER)", cmd.TotalPool, cmd.WinningPool),
					"resolved_at":      resolvedAt,
					"updated_at":       resolvedAt,
				})
			if winners.Error != nil {
				return winners.Error
			}
			correct = int(winners.RowsAffected)
		}

		losers := tx.Model(&predictionModel{}).
			Where("pull_request_id = ? AND resolved_at IS NULL AND predicted_outcome <> ?", cmd.PullRequestID, outcome).
			Updates(map[string]any{
				"resolved_outcome": outcome,
				"is_correct":       false,
				"payout_points":    0,
				"resolved_at":      resolvedAt,
				"updated_at":       resolvedAt,
			})
		if losers.Error != nil {
			return losers.Error
		}
		resolved = correct + int(losers.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, 0, r.logError("prediction_repo_resolve_failed", err, "pull_request_id", cmd.PullRequestID)
	}
	return resolved, correct, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "observer-experience/prediction-market",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("prediction repository operation failed", fields...)
	return err
}

type pullRequestRow struct {
	ID      string `gorm:"column:id"`
	DraftID string `gorm:"column:draft_id"`
	Status  string `gorm:"column:status"`
}

func (pullRequestRow) TableName() string {
	return "pull_requests"
}

type predictionModel struct {
	ID               string     `gorm:"column:id;primaryKey"`
	ObserverID       string     `gorm:"column:observer_id;uniqueIndex:ux_observer_pr_prediction,priority:1"`
	PullRequestID    string     `gorm:"column:pull_request_id;uniqueIndex:ux_observer_pr_prediction,priority:2;index"`
	PredictedOutcome string     `gorm:"column:predicted_outcome"`
	StakePoints      int        `gorm:"column:stake_points"`
	PayoutPoints     int        `gorm:"column:payout_points"`
	ResolvedOutcome  *string    `gorm:"column:resolved_outcome"`
	IsCorrect        *bool      `gorm:"column:is_correct"`
	CreatedAt        time.Time  `gorm:"column:created_at;index"`
	UpdatedAt        time.Time  `gorm:"column:updated_at"`
	ResolvedAt       *time.Time `gorm:"column:resolved_at"`
}

func (predictionModel) TableName() string {
	return "observer_pr_predictions"
}

func predictionModelFromEntity(prediction entities.Prediction) predictionModel {
	return predictionModel{
		ID:               strings.TrimSpace(prediction.PredictionID),
		ObserverID:       strings.TrimSpace(prediction.ObserverID),
		PullRequestID:    strings.TrimSpace(prediction.PullRequestID),
		PredictedOutcome: string(prediction.PredictedOutcome),
		StakePoints:      prediction.StakePoints,
		PayoutPoints:     prediction.PayoutPoints,
		CreatedAt:        prediction.CreatedAt.UTC(),
		UpdatedAt:        prediction.UpdatedAt.UTC(),
	}
}

func (m predictionModel) toEntity() entities.Prediction {
	prediction := entities.Prediction{
		PredictionID:     m.ID,
		ObserverID:       m.ObserverID,
		PullRequestID:    m.PullRequestID,
		PredictedOutcome: entities.Outcome(m.PredictedOutcome),
		StakePoints:      m.StakePoints,
		PayoutPoints:     m.PayoutPoints,
		IsCorrect:        m.IsCorrect,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}
	if m.ResolvedOutcome != nil {
		outcome := entities.Outcome(*m.ResolvedOutcome)
		prediction.ResolvedOutcome = &outcome
	}
	if m.ResolvedAt != nil {
		value := m.ResolvedAt.UTC()
		prediction.ResolvedAt = &value
	}
	return prediction
}
