package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/trackwire/notification-tracker/internal/domain"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_notifications",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&domain.Notification{}); err != nil {
					return err
				}
				indexes := []string{
					// external_id uniqueness backs the duplicate-request guard.
					`CREATE UNIQUE INDEX IF NOT EXISTS idx_notifications_external_id ON notifications (external_id)`,
					`CREATE INDEX IF NOT EXISTS idx_notifications_channel_created ON notifications (channel, created_at)`,
					`CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications (status)`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&domain.Notification{})
			},
		},
	})

	return m.Migrate()
}
