package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"
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
	return []any{
		&digestEntryModel{},
		&preferencesModel{},
	}
}

func (r *Repository) GetDraftStudio(ctx context.Context, draftID string) (string, error) {
	var row draftRow
	err := db.Conn(ctx, r.db).
		Select("id", "studio_id").
		Where("id = ?", strings.TrimSpace(draftID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrDraftNotFound
		}
		return "", r.logError("digest_repo_get_draft_studio_failed", err, "draft_id", draftID)
	}
	return strings.TrimSpace(row.StudioID), nil
}

func (r *Repository) ListDraftFollowers(ctx context.Context, draftID string) ([]string, error) {
	var ids []string
	err := db.Conn(ctx, r.db).
		Table("observer_draft_follows").
		Where("draft_id = ?", strings.TrimSpace(draftID)).
		Order("observer_id ASC").
		Pluck("observer_id", &ids).
		Error
	if err != nil {
		return nil, r.logError("digest_repo_list_draft_followers_failed", err, "draft_id", draftID)
	}
	return ids, nil
}

func (r *Repository) ListStudioFollowers(ctx context.Context, studioID string) ([]string, error) {
	var ids []string
	err := db.Conn(ctx, r.db).
		Table("observer_studio_follows").
		Where("studio_id = ?", strings.TrimSpace(studioID)).
		Order("observer_id ASC").
		Pluck("observer_id", &ids).
		Error
	if err != nil {
		return nil, r.logError("digest_repo_list_studio_followers_failed", err, "studio_id", studioID)
	}
	return ids, nil
}

func digestLockKey(draftID string) string {
	return "observer_digest:" + strings.TrimSpace(draftID)
}

func (r *Repository) LockDraftDigest(ctx context.Context, draftID string) error {
	if err := db.LockKey(ctx, r.db, digestLockKey(draftID)); err != nil {
		return r.logError("digest_repo_lock_draft_failed", err, "draft_id", draftID)
	}
	return nil
}

// SaveRecentEntry joins the caller's transaction or opens its own, and holds
// the draft lock across the refresh and the insert.
func (r *Repository) SaveRecentEntry(ctx context.Context, entry entities.DigestEntry, since time.Time) (bool, error) {
	refreshed := false
	err := db.NewUnitOfWork(r.db).WithTx(ctx, func(txCtx context.Context) error {
		if err := r.LockDraftDigest(txCtx, entry.DraftID); err != nil {
			return err
		}
		var err error
		refreshed, err = r.RefreshRecentEntry(txCtx, entry, since)
		if err != nil || refreshed {
			return err
		}
		return r.InsertEntry(txCtx, entry)
	})
	if err != nil {
		return false, err
	}
	return refreshed, nil
}

func (r *Repository) RefreshRecentEntry(ctx context.Context, entry entities.DigestEntry, since time.Time) (bool, error) {
	result := db.Conn(ctx, r.db).
		Model(&digestEntryModel{}).
		Where("observer_id = ? AND draft_id = ? AND created_at >= ?", entry.ObserverID, entry.DraftID, since.UTC()).
		Updates(map[string]any{
			"title":                    entry.Title,
			"summary":                  entry.Summary,
			"latest_milestone":         entry.LatestMilestone,
			"studio_id":                entry.StudioID,
			"is_from_following_studio": entry.IsFromFollowingStudio,
			"is_seen":                  false,
			"seen_at":                  nil,
			"updated_at":               entry.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return false, r.logError("digest_repo_refresh_entry_failed", result.Error,
			"observer_id", entry.ObserverID,
			"draft_id", entry.DraftID,
		)
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) InsertEntry(ctx context.Context, entry entities.DigestEntry) error {
	row := digestEntryModelFromEntity(entry)
	if err := db.Conn(ctx, r.db).Create(&row).Error; err != nil {
		return r.logError("digest_repo_insert_entry_failed", err,
			"entry_id", entry.EntryID,
			"observer_id", entry.ObserverID,
			"draft_id", entry.DraftID,
		)
	}
	return nil
}

func (r *Repository) ListEntries(ctx context.Context, observerID string, query entities.DigestQuery) ([]entities.DigestEntry, error) {
	tx := db.Conn(ctx, r.db).
		Model(&digestEntryModel{}).
		Where("observer_id = ?", strings.TrimSpace(observerID))
	if query.UnseenOnly {
		tx = tx.Where("is_seen = ?", false)
	}
	if query.FromFollowingStudioOnly {
		tx = tx.Where("is_from_following_studio = ?", true)
	}
	var rows []digestEntryModel
	err := tx.
		Order("is_seen ASC").
		Order("is_from_following_studio DESC").
		Order("updated_at DESC").
		Order("id DESC").
		Limit(query.Limit).
		Offset(query.Offset).
		Find(&rows).
		Error
	if err != nil {
		return nil, r.logError("digest_repo_list_entries_failed", err, "observer_id", observerID)
	}
	items := make([]entities.DigestEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) MarkSeen(ctx context.Context, observerID string, entryID string, seenAt time.Time) (entities.DigestEntry, error) {
	conn := db.Conn(ctx, r.db)
	result := conn.
		Model(&digestEntryModel{}).
		Where("id = ? AND observer_id = ?", entryID, observerID).
		Updates(map[string]any{
			"is_seen":    true,
			"seen_at":    seenAt.UTC(),
			"updated_at": seenAt.UTC(),
		})
	if result.Error != nil {
		return entities.DigestEntry{}, r.logError("digest_repo_mark_seen_failed", result.Error,
			"observer_id", observerID,
			"entry_id", entryID,
		)
	}
	if result.RowsAffected == 0 {
		return entities.DigestEntry{}, domainerrors.ErrDigestEntryNotFound
	}

	var row digestEntryModel
	if err := conn.Where("id = ?", entryID).First(&row).Error; err != nil {
		return entities.DigestEntry{}, r.logError("digest_repo_reload_entry_failed", err, "entry_id", entryID)
	}
	return row.toEntity(), nil
}

func (r *Repository) GetPreferences(ctx context.Context, observerID string) (entities.Preferences, bool, error) {
	var row preferencesModel
	err := db.Conn(ctx, r.db).
		Where("observer_id = ?", strings.TrimSpace(observerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Preferences{}, false, nil
		}
		return entities.Preferences{}, false, r.logError("digest_repo_get_preferences_failed", err, "observer_id", observerID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpsertPreferences(
	ctx context.Context,
	observerID string,
	update entities.PreferencesUpdate,
	now time.Time,
) (entities.Preferences, error) {
	row := preferencesModel{
		ObserverID: strings.TrimSpace(observerID),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	columns := []string{"updated_at"}
	if update.DigestUnseenOnly != nil {
		row.DigestUnseenOnly = *update.DigestUnseenOnly
		columns = append(columns, "digest_unseen_only")
	}
	if update.DigestFollowingOnly != nil {
		row.DigestFollowingOnly = *update.DigestFollowingOnly
		columns = append(columns, "digest_following_only")
	}

	conn := db.Conn(ctx, r.db)
	err := conn.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "observer_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&row).Error
	if err != nil {
		return entities.Preferences{}, r.logError("digest_repo_upsert_preferences_failed", err, "observer_id", observerID)
	}

	var stored preferencesModel
	if err := conn.Where("observer_id = ?", row.ObserverID).First(&stored).Error; err != nil {
		return entities.Preferences{}, r.logError("digest_repo_reload_preferences_failed", err, "observer_id", observerID)
	}
	return stored.toEntity(), nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "observer-experience/observer-digest-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("digest repository operation failed", fields...)
	return err
}

type draftRow struct {
	ID       string `gorm:"column:id"`
	StudioID string `gorm:"column:studio_id"`
}

func (draftRow) TableName() string {
	return "drafts"
}

type digestEntryModel struct {
	ID                    string     `gorm:"column:id;primaryKey"`
	ObserverID            string     `gorm:"column:observer_id;index:idx_digest_observer_draft,priority:1"`
	DraftID               string     `gorm:"column:draft_id;index:idx_digest_observer_draft,priority:2"`
	StudioID              string     `gorm:"column:studio_id"`
	Title                 string     `gorm:"column:title"`
	Summary               string     `gorm:"column:summary"`
	LatestMilestone       string     `gorm:"column:latest_milestone"`
	IsFromFollowingStudio bool       `gorm:"column:is_from_following_studio"`
	IsSeen                bool       `gorm:"column:is_seen"`
	CreatedAt             time.Time  `gorm:"column:created_at;index:idx_digest_observer_draft,priority:3"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
	SeenAt                *time.Time `gorm:"column:seen_at"`
}

func (digestEntryModel) TableName() string {
	return "observer_digest_entries"
}

func digestEntryModelFromEntity(entry entities.DigestEntry) digestEntryModel {
	row := digestEntryModel{
		ID:                    strings.TrimSpace(entry.EntryID),
		ObserverID:            strings.TrimSpace(entry.ObserverID),
		DraftID:               strings.TrimSpace(entry.DraftID),
		StudioID:              strings.TrimSpace(entry.StudioID),
		Title:                 entry.Title,
		Summary:               entry.Summary,
		LatestMilestone:       entry.LatestMilestone,
		IsFromFollowingStudio: entry.IsFromFollowingStudio,
		IsSeen:                entry.IsSeen,
		CreatedAt:             entry.CreatedAt.UTC(),
		UpdatedAt:             entry.UpdatedAt.UTC(),
	}
	if entry.SeenAt != nil {
		value := entry.SeenAt.UTC()
		row.SeenAt = &value
	}
	return row
}

func (m digestEntryModel) toEntity() entities.DigestEntry {
	entry := entities.DigestEntry{
		EntryID:               m.ID,
		ObserverID:            m.ObserverID,
		DraftID:               m.DraftID,
		StudioID:              m.StudioID,
		Title:                 m.Title,
		Summary:               m.Summary,
		LatestMilestone:       m.LatestMilestone,
		IsFromFollowingStudio: m.IsFromFollowingStudio,
		IsSeen:                m.IsSeen,
		CreatedAt:             m.CreatedAt.UTC(),
		UpdatedAt:             m.UpdatedAt.UTC(),
	}
	if m.SeenAt != nil {
		value := m.SeenAt.UTC()
		entry.SeenAt = &value
	}
	return entry
}

type preferencesModel struct {
	ObserverID          string    `gorm:"column:observer_id;primaryKey"`
	DigestUnseenOnly    bool      `gorm:"column:digest_unseen_only"`
	DigestFollowingOnly bool      `gorm:"column:digest_following_only"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (preferencesModel) TableName() string {
	return "observer_preferences"
}

func (m preferencesModel) toEntity() entities.Preferences {
	return entities.Preferences{
		ObserverID:          m.ObserverID,
		DigestUnseenOnly:    m.DigestUnseenOnly,
		DigestFollowingOnly: m.DigestFollowingOnly,
		CreatedAt:           m.CreatedAt.UTC(),
		UpdatedAt:           m.UpdatedAt.UTC(),
	}
}
