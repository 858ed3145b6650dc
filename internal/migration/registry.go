package migration

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	appconfigDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/appconfig"
	historyDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/history"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
)

// All returns the full ordered migration set for the photo station
// schema. New migrations append here with the next sequence number.
func All() []Migration {
	return []Migration{
		initialSchema(),
		historyTimeIndexes(),
	}
}

func initialSchema() Migration {
	return Migration{
		Version: "0001_initial_schema",
		Name:    "create app_configs, users, photo_histories, request_histories",
		Up: func(tx *gorm.DB) error {
			if err := tx.Migrator().AutoMigrate(
				&appconfigDatamodel.AppConfig{},
				&userDatamodel.User{},
				&historyDatamodel.PhotoHistory{},
				&historyDatamodel.RequestHistory{},
			); err != nil {
				return err
			}

			defaults := []appconfigDatamodel.AppConfig{
				{Name: "app_name", Value: "ID Card Photo Machine"},
				{Name: "image_save_path", Value: "images"},
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(&defaults).Error
		},
		Down: func(tx *gorm.DB) error {
			// Reverse dependency order: histories reference users.
			return tx.Migrator().DropTable(
				&historyDatamodel.RequestHistory{},
				&historyDatamodel.PhotoHistory{},
				&userDatamodel.User{},
				&appconfigDatamodel.AppConfig{},
			)
		},
	}
}

func historyTimeIndexes() Migration {
	return Migration{
		Version: "0002_history_time_indexes",
		Name:    "composite npk+time indexes for history screens",
		Up: func(tx *gorm.DB) error {
			if err := tx.Exec(
				"CREATE INDEX IF NOT EXISTS idx_photo_histories_npk_time ON photo_histories (npk, photo_time DESC)",
			).Error; err != nil {
				return err
			}
			return tx.Exec(
				"CREATE INDEX IF NOT EXISTS idx_request_histories_npk_time ON request_histories (npk, request_time DESC)",
			).Error
		},
		Down: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP INDEX IF EXISTS idx_photo_histories_npk_time").Error; err != nil {
				return err
			}
			return tx.Exec("DROP INDEX IF EXISTS idx_request_histories_npk_time").Error
		},
	}
}
