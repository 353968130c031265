package db

import (
	"context"
	"fmt"
)

// Migrate applies gorm auto-migration for the given model sets. Each module
// repository exposes its own model set; projection tables owned by the review
// system are included so local sqlite databases are self-contained.
func (d *Database) Migrate(ctx context.Context, modelSets ...[]any) error {
	for _, models := range modelSets {
		if len(models) == 0 {
			continue
		}
		if err := d.DB.WithContext(ctx).AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
	}
	return nil
}
