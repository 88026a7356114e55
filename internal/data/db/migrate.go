package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/nexuslearn-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureIndexes(db)
}

// EnsureIndexes adds indexes gorm tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_resource_active_partition
		ON resource(type, subject_key, section)
		WHERE is_active;
	`).Error; err != nil {
		return fmt.Errorf("create idx_resource_active_partition: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_score_record_user_recorded
		ON score_record(user_id, recorded_at);
	`).Error; err != nil {
		return fmt.Errorf("create idx_score_record_user_recorded: %w", err)
	}
	return nil
}
