package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/frahmantamala/photoid-studio/internal"
	"github.com/frahmantamala/photoid-studio/internal/appconfig"
	appconfigDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/appconfig"
)

// AppConfigRepository implements the appconfig.Repository interface over
// the embedded SQLite store using GORM.
type AppConfigRepository struct {
	db *gorm.DB
}

func NewAppConfigRepository(db *gorm.DB) appconfig.Repository {
	return &AppConfigRepository{db: db}
}

func (r *AppConfigRepository) Get(name string) (string, error) {
	var cfg appconfigDatamodel.AppConfig
	err := r.db.Where("name = ?", name).First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("get app config %s: %w", name, internal.ErrConfigNotFound)
		}
		return "", internal.NewStorageError("get app config", err)
	}
	return cfg.Value, nil
}

func (r *AppConfigRepository) Set(name, value string) error {
	cfg := appconfigDatamodel.AppConfig{Name: name, Value: value}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&cfg).Error
	if err != nil {
		return internal.NewStorageError("set app config", err)
	}
	return nil
}

func (r *AppConfigRepository) All() ([]*appconfigDatamodel.AppConfig, error) {
	var configs []*appconfigDatamodel.AppConfig
	if err := r.db.Order("name ASC").Find(&configs).Error; err != nil {
		return nil, internal.NewStorageError("list app configs", err)
	}
	return configs, nil
}
