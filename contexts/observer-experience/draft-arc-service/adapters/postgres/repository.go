package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/draft-arc-service/domain/errors"
	"atelier/contexts/observer-experience/draft-arc-service/ports"
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

// Models lists the tables this module reads and writes. drafts, fix_requests
// and pull_requests belong to the review system; they are migrated here so a
// local database is self-contained.
func Models() []any {
	return []any{
		&DraftModel{},
		&FixRequestModel{},
		&PullRequestModel{},
		&arcSummaryModel{},
	}
}

func (r *Repository) GetDraft(ctx context.Context, draftID string) (entities.Draft, error) {
	var row DraftModel
	err := db.Conn(ctx, r.db).
		Where("id = ?", strings.TrimSpace(draftID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Draft{}, domainerrors.ErrDraftNotFound
		}
		return entities.Draft{}, r.logError("draft_arc_repo_get_draft_failed", err, "draft_id", draftID)
	}
	return row.toEntity(), nil
}

func (r *Repository) CountFixRequests(ctx context.Context, draftID string, filter ports.FixRequestFilter) (int, error) {
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return 0, nil
	}
	tx := db.Conn(ctx, r.db).Model(&FixRequestModel{}).
		Where("draft_id = ?", strings.TrimSpace(draftID))
	if filter.CreatedSince != nil {
		tx = tx.Where("created_at >= ?", filter.CreatedSince.UTC())
	}
	if filter.IDs != nil {
		tx = tx.Where("id IN ?", filter.IDs)
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, r.logError("draft_arc_repo_count_fix_requests_failed", err, "draft_id", draftID)
	}
	return int(count), nil
}

// Status and severity columns are compared case-insensitively; rows written
// by other services are not guaranteed to be lowercase.
func (r *Repository) CountPullRequests(ctx context.Context, draftID string, filter ports.PullRequestFilter) (int, error) {
	tx := db.Conn(ctx, r.db).Model(&PullRequestModel{}).
		Where("draft_id = ?", strings.TrimSpace(draftID))
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, strings.ToLower(string(status)))
		}
		tx = tx.Where("LOWER(status) IN ?", statuses)
	}
	if filter.Severity != "" {
		tx = tx.Where("LOWER(severity) = ?", strings.ToLower(string(filter.Severity)))
	}
	if filter.CreatedSince != nil {
		tx = tx.Where("created_at >= ?", filter.CreatedSince.UTC())
	}
	if filter.DecidedSince != nil {
		tx = tx.Where("decided_at IS NOT NULL AND decided_at >= ?", filter.DecidedSince.UTC())
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, r.logError("draft_arc_repo_count_pull_requests_failed", err, "draft_id", draftID)
	}
	return int(count), nil
}

func (r *Repository) ListMergedAddressedFixRequests(ctx context.Context, draftID string) ([]entities.AddressedFixRequests, error) {
	var rows []PullRequestModel
	err := db.Conn(ctx, r.db).
		Select("id", "addressed_fix_requests").
		Where("draft_id = ? AND LOWER(status) = ?", strings.TrimSpace(draftID), string(entities.PullRequestStatusMerged)).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("draft_arc_repo_list_addressed_failed", err, "draft_id", draftID)
	}
	lists := make([]entities.AddressedFixRequests, 0, len(rows))
	for _, row := range rows {
		lists = append(lists, entities.DecodeAddressedFixRequests([]byte(row.AddressedFixRequests)))
	}
	return lists, nil
}

func (r *Repository) GetActivityTimes(ctx context.Context, draftID string) (ports.ActivityTimes, error) {
	draftID = strings.TrimSpace(draftID)
	var (
		activity ports.ActivityTimes
		err      error
	)
	activity.LastFixRequestAt, err = r.latestTime(ctx, &FixRequestModel{}, "created_at", "draft_id = ?", draftID)
	if err != nil {
		return ports.ActivityTimes{}, err
	}
	activity.LastSubmittedAt, err = r.latestTime(ctx, &PullRequestModel{}, "created_at", "draft_id = ?", draftID)
	if err != nil {
		return ports.ActivityTimes{}, err
	}
	activity.LastMergedAt, err = r.latestTime(ctx, &PullRequestModel{}, "decided_at",
		"draft_id = ? AND LOWER(status) = ? AND decided_at IS NOT NULL", draftID, string(entities.PullRequestStatusMerged))
	if err != nil {
		return ports.ActivityTimes{}, err
	}
	activity.LastRejectedAt, err = r.latestTime(ctx, &PullRequestModel{}, "decided_at",
		"draft_id = ? AND LOWER(status) = ? AND decided_at IS NOT NULL", draftID, string(entities.PullRequestStatusRejected))
	if err != nil {
		return ports.ActivityTimes{}, err
	}
	return activity, nil
}

// latestTime orders and limits instead of using MAX() so the scanned value
// keeps its time type on every driver.
func (r *Repository) latestTime(ctx context.Context, model any, column string, query string, args ...any) (*time.Time, error) {
	var values []time.Time
	err := db.Conn(ctx, r.db).
		Model(model).
		Where(query, args...).
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &values).
		Error
	if err != nil {
		return nil, r.logError("draft_arc_repo_latest_activity_failed", err, "column", column)
	}
	if len(values) == 0 || values[0].IsZero() {
		return nil, nil
	}
	value := values[0].UTC()
	return &value, nil
}

func (r *Repository) UpsertArcSummary(ctx context.Context, summary entities.ArcSummary) (entities.ArcSummary, error) {
	row := arcSummaryModelFromEntity(summary)
	err := db.Conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "draft_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"state",
			"latest_milestone",
			"fix_open_count",
			"pr_pending_count",
			"last_merge_at",
			"updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return entities.ArcSummary{}, r.logError("draft_arc_repo_upsert_summary_failed", err, "draft_id", summary.DraftID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetArcSummary(ctx context.Context, draftID string) (entities.ArcSummary, bool, error) {
	var row arcSummaryModel
	err := db.Conn(ctx, r.db).
		Where("draft_id = ?", strings.TrimSpace(draftID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ArcSummary{}, false, nil
		}
		return entities.ArcSummary{}, false, r.logError("draft_arc_repo_get_summary_failed", err, "draft_id", draftID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "observer-experience/draft-arc-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("draft arc repository operation failed", fields...)
	return err
}

// DraftModel, FixRequestModel and PullRequestModel mirror the review-system
// tables. They are exported so seeding tools and tests can write fixtures.
type DraftModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	StudioID    string    `gorm:"column:studio_id;index"`
	Status      string    `gorm:"column:status"`
	GlowUpScore float64   `gorm:"column:glow_up_score"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (DraftModel) TableName() string {
	return "drafts"
}

func (m DraftModel) toEntity() entities.Draft {
	return entities.Draft{
		DraftID:     m.ID,
		StudioID:    m.StudioID,
		Status:      m.Status,
		GlowUpScore: m.GlowUpScore,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

type FixRequestModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	DraftID   string    `gorm:"column:draft_id;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (FixRequestModel) TableName() string {
	return "fix_requests"
}

type PullRequestModel struct {
	ID                   string     `gorm:"column:id;primaryKey"`
	DraftID              string     `gorm:"column:draft_id;index"`
	Status               string     `gorm:"column:status"`
	Severity             string     `gorm:"column:severity"`
	AddressedFixRequests string     `gorm:"column:addressed_fix_requests"`
	CreatedAt            time.Time  `gorm:"column:created_at"`
	DecidedAt            *time.Time `gorm:"column:decided_at"`
}

func (PullRequestModel) TableName() string {
	return "pull_requests"
}

type arcSummaryModel struct {
	DraftID         string     `gorm:"column:draft_id;primaryKey"`
	State           string     `gorm:"column:state"`
	LatestMilestone string     `gorm:"column:latest_milestone"`
	FixOpenCount    int        `gorm:"column:fix_open_count"`
	PRPendingCount  int        `gorm:"column:pr_pending_count"`
	LastMergeAt     *time.Time `gorm:"column:last_merge_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (arcSummaryModel) TableName() string {
	return "draft_arc_summaries"
}

func arcSummaryModelFromEntity(summary entities.ArcSummary) arcSummaryModel {
	row := arcSummaryModel{
		DraftID:         strings.TrimSpace(summary.DraftID),
		State:           string(summary.State),
		LatestMilestone: summary.LatestMilestone,
		FixOpenCount:    summary.FixOpenCount,
		PRPendingCount:  summary.PRPendingCount,
		UpdatedAt:       summary.UpdatedAt.UTC(),
	}
	if summary.LastMergeAt != nil {
		value := summary.LastMergeAt.UTC()
		row.LastMergeAt = &value
	}
	return row
}

func (m arcSummaryModel) toEntity() entities.ArcSummary {
	summary := entities.ArcSummary{
		DraftID:         m.DraftID,
		State:           entities.ArcState(m.State),
		LatestMilestone: m.LatestMilestone,
		FixOpenCount:    m.FixOpenCount,
		PRPendingCount:  m.PRPendingCount,
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
	if m.LastMergeAt != nil {
		value := m.LastMergeAt.UTC()
		summary.LastMergeAt = &value
	}
	return summary
}
