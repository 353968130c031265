package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-engagement-service/domain/errors"
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
	return []any{&draftFollowModel{}, &studioFollowModel{}, &engagementModel{}}
}

func (r *Repository) GetDraft(ctx context.Context, draftID string) (entities.DraftRef, error) {
	var row draftRow
	err := db.Conn(ctx, r.db).
		Select("id", "studio_id", "status").
		Where("id = ?", strings.TrimSpace(draftID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.DraftRef{}, domainerrors.ErrDraftNotFound
		}
		return entities.DraftRef{}, r.logError("engagement_repo_get_draft_failed", err, "draft_id", draftID)
	}
	return entities.DraftRef{DraftID: row.ID, StudioID: row.StudioID, Status: row.Status}, nil
}

func (r *Repository) FollowDraft(ctx context.Context, observerID string, draftID string, at time.Time) (bool, error) {
	row := draftFollowModel{ObserverID: observerID, DraftID: draftID, CreatedAt: at.UTC()}
	result := db.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, r.logError("engagement_repo_follow_draft_failed", result.Error,
			"observer_id", observerID,
			"draft_id", draftID,
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) UnfollowDraft(ctx context.Context, observerID string, draftID string) (bool, error) {
	result := db.Conn(ctx, r.db).
		Where("observer_id = ? AND draft_id = ?", observerID, draftID).
		Delete(&draftFollowModel{})
	if result.Error != nil {
		return false, r.logError("engagement_repo_unfollow_draft_failed", result.Error,
			"observer_id", observerID,
			"draft_id", draftID,
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) FollowStudio(ctx context.Context, observerID string, studioID string, at time.Time) (bool, error) {
	row := studioFollowModel{ObserverID: observerID, StudioID: studioID, CreatedAt: at.UTC()}
	result := db.Conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return false, r.logError("engagement_repo_follow_studio_failed", result.Error,
			"observer_id", observerID,
			"studio_id", studioID,
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) UnfollowStudio(ctx context.Context, observerID string, studioID string) (bool, error) {
	result := db.Conn(ctx, r.db).
		Where("observer_id = ? AND studio_id = ?", observerID, studioID).
		Delete(&studioFollowModel{})
	if result.Error != nil {
		return false, r.logError("engagement_repo_unfollow_studio_failed", result.Error,
			"observer_id", observerID,
			"studio_id", studioID,
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ListWatchlist(ctx context.Context, observerID string) ([]entities.WatchlistItem, error) {
	var rows []watchlistRow
	err := db.Conn(ctx, r.db).
		Table("observer_draft_follows AS f").
		Select(strings.Join([]string{
			"f.draft_id AS draft_id",
			"f.created_at AS followed_at",
			"d.studio_id AS studio_id",
			"d.status AS draft_status",
			"d.glow_up_score AS glow_up_score",
			"s.state AS arc_state",
			"s.latest_milestone AS latest_milestone",
			"s.updated_at AS arc_updated_at",
		}, ", ")).
		Joins("JOIN drafts d ON d.id = f.draft_id").
		Joins("LEFT JOIN draft_arc_summaries s ON s.draft_id = f.draft_id").
		Where("f.observer_id = ?", observerID).
		Order("f.created_at DESC").
		Order("f.draft_id ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("engagement_repo_watchlist_failed", err, "observer_id", observerID)
	}
	items := make([]entities.WatchlistItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// ApplyEngagement is a single upsert that only touches the changed flag's
// columns, so concurrent save and rate calls never overwrite each other.
func (r *Repository) ApplyEngagement(ctx context.Context, change entities.EngagementChange) (entities.Engagement, error) {
	flagColumn, stampColumn, err := engagementColumns(change.Flag)
	if err != nil {
		return entities.Engagement{}, err
	}
	at := change.At.UTC()
	row := engagementModel{
		ObserverID: change.ObserverID,
		DraftID:    change.DraftID,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
	var stamp *time.Time
	if change.Value {
		stamp = &at
	}
	switch change.Flag {
	case entities.FlagSaved:
		row.IsSaved = change.Value
		row.SavedAt = stamp
	case entities.FlagRated:
		row.IsRated = change.Value
		row.RatedAt = stamp
	}

	conn := db.Conn(ctx, r.db)
	err = conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "observer_id"}, {Name: "draft_id"}},
		DoUpdates: clause.AssignmentColumns([]string{flagColumn, stampColumn, "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return entities.Engagement{}, r.logError("engagement_repo_apply_failed", err,
			"observer_id", change.ObserverID,
			"draft_id", change.DraftID,
			"flag", string(change.Flag),
		)
	}

	var stored engagementModel
	err = conn.Where("observer_id = ? AND draft_id = ?", change.ObserverID, change.DraftID).First(&stored).Error
	if err != nil {
		return entities.Engagement{}, r.logError("engagement_repo_reload_failed", err,
			"observer_id", change.ObserverID,
			"draft_id", change.DraftID,
		)
	}
	return stored.toEntity(), nil
}

func engagementColumns(flag entities.EngagementFlag) (string, string, error) {
	switch flag {
	case entities.FlagSaved:
		return "is_saved", "saved_at", nil
	case entities.FlagRated:
		return "is_rated", "rated_at", nil
	default:
		return "", "", fmt.Errorf("unknown engagement flag %q", flag)
	}
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "observer-experience/observer-engagement-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("engagement repository operation failed", fields...)
	return err
}

type draftRow struct {
	ID       string `gorm:"column:id"`
	StudioID string `gorm:"column:studio_id"`
	Status   string `gorm:"column:status"`
}

func (draftRow) TableName() string {
	return "drafts"
}

type watchlistRow struct {
	DraftID         string     `gorm:"column:draft_id"`
	FollowedAt      time.Time  `gorm:"column:followed_at"`
	StudioID        *string    `gorm:"column:studio_id"`
	DraftStatus     string     `gorm:"column:draft_status"`
	GlowUpScore     *float64   `gorm:"column:glow_up_score"`
	ArcState        *string    `gorm:"column:arc_state"`
	LatestMilestone *string    `gorm:"column:latest_milestone"`
	ArcUpdatedAt    *time.Time `gorm:"column:arc_updated_at"`
}

func (row watchlistRow) toEntity() entities.WatchlistItem {
	item := entities.WatchlistItem{
		DraftID:     row.DraftID,
		DraftStatus: row.DraftStatus,
		FollowedAt:  row.FollowedAt.UTC(),
	}
	if row.StudioID != nil {
		item.StudioID = *row.StudioID
	}
	if row.GlowUpScore != nil {
		item.GlowUpScore = *row.GlowUpScore
	}
	if row.ArcState != nil {
		item.ArcState = *row.ArcState
	}
	if row.LatestMilestone != nil {
		item.LatestMilestone = *row.LatestMilestone
	}
	if row.ArcUpdatedAt != nil {
		value := row.ArcUpdatedAt.UTC()
		item.ArcUpdatedAt = &value
	}
	return item
}

type draftFollowModel struct {
	ObserverID string    `gorm:"column:observer_id;primaryKey"`
	DraftID    string    `gorm:"column:draft_id;primaryKey;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (draftFollowModel) TableName() string {
	return "observer_draft_follows"
}

type studioFollowModel struct {
	ObserverID string    `gorm:"column:observer_id;primaryKey"`
	StudioID   string    `gorm:"column:studio_id;primaryKey;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (studioFollowModel) TableName() string {
	return "observer_studio_follows"
}

type engagementModel struct {
	ObserverID string     `gorm:"column:observer_id;primaryKey"`
	DraftID    string     `gorm:"column:draft_id;primaryKey"`
	IsSaved    bool       `gorm:"column:is_saved"`
	IsRated    bool       `gorm:"column:is_rated"`
	SavedAt    *time.Time `gorm:"column:saved_at"`
	RatedAt    *time.Time `gorm:"column:rated_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (engagementModel) TableName() string {
	return "observer_draft_engagements"
}

func (m engagementModel) toEntity() entities.Engagement {
	engagement := entities.Engagement{
		ObserverID: m.ObserverID,
		DraftID:    m.DraftID,
		IsSaved:    m.IsSaved,
		IsRated:    m.IsRated,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
	if m.SavedAt != nil {
		value := m.SavedAt.UTC()
		engagement.SavedAt = &value
	}
	if m.RatedAt != nil {
		value := m.RatedAt.UTC()
		engagement.RatedAt = &value
	}
	return engagement
}
