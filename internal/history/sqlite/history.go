package sqlite

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/photoid-studio/internal"
	historyDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/history"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
	"github.com/frahmantamala/photoid-studio/internal/history"
)

// HistoryRepository implements the history.Repository interface over the
// embedded SQLite store using GORM. The npk reference is checked inside
// the transaction rather than left to the engine's FK pragma, so callers
// get a deterministic typed error either way.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) history.Repository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) AppendPhoto(npk string, photoTime time.Time) (*historyDatamodel.PhotoHistory, error) {
	record := &historyDatamodel.PhotoHistory{NPK: npk, PhotoTime: photoTime}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, npk); err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return internal.NewStorageError("append photo history", err)
		}
		// The referenced user's last_take_photo moves with the log, in
		// the same transaction.
		err := tx.Model(&userDatamodel.User{}).
			Where("npk = ?", npk).
			Update("last_take_photo", photoTime).Error
		if err != nil {
			return internal.NewStorageError("update last_take_photo", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *HistoryRepository) AppendRequest(npk, desc string, requestTime time.Time) (*historyDatamodel.RequestHistory, error) {
	record := &historyDatamodel.RequestHistory{
		NPK:         npk,
		RequestTime: requestTime,
		RequestDesc: desc,
		Status:      historyDatamodel.RequestStatusRequested,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireUser(tx, npk); err != nil {
			return err
		}
		if err := tx.Create(record).Error; err != nil {
			return internal.NewStorageError("append request history", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *HistoryRepository) GetRequest(id int64) (*historyDatamodel.RequestHistory, error) {
	var record historyDatamodel.RequestHistory
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get request %d: %w", id, internal.ErrRequestNotFound)
		}
		return nil, internal.NewStorageError("get request history", err)
	}
	return &record, nil
}

func (r *HistoryRepository) Resolve(id int64, status historyDatamodel.RequestStatus, remark, responder string, responsTime time.Time) (*historyDatamodel.RequestHistory, error) {
	var record historyDatamodel.RequestHistory

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("resolve request %d: %w", id, internal.ErrRequestNotFound)
			}
			return internal.NewStorageError("load request history", err)
		}

		if record.Status.Terminal() {
			return fmt.Errorf("resolve request %d already %s: %w", id, record.Status, internal.ErrInvalidTransition)
		}

		changes := map[string]any{
			"status":       status,
			"remark":       remark,
			"respons_time": responsTime,
			"respons_name": responder,
		}
		err := tx.Model(&historyDatamodel.RequestHistory{}).Where("id = ?", id).Updates(changes).Error
		if err != nil {
			return internal.NewStorageError("resolve request history", err)
		}
		return tx.Where("id = ?", id).First(&record).Error
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *HistoryRepository) ListPhotos(npk string) ([]*historyDatamodel.PhotoHistory, error) {
	query := r.db.Model(&historyDatamodel.PhotoHistory{})
	if npk != "" {
		query = query.Where("npk = ?", npk)
	}

	var records []*historyDatamodel.PhotoHistory
	if err := query.Order("photo_time DESC").Find(&records).Error; err != nil {
		return nil, internal.NewStorageError("list photo histories", err)
	}
	return records, nil
}

func (r *HistoryRepository) ListRequests(npk string) ([]*historyDatamodel.RequestHistory, error) {
	query := r.db.Model(&historyDatamodel.RequestHistory{})
	if npk != "" {
		query = query.Where("npk = ?", npk)
	}

	var records []*historyDatamodel.RequestHistory
	if err := query.Order("request_time DESC").Find(&records).Error; err != nil {
		return nil, internal.NewStorageError("list request histories", err)
	}
	return records, nil
}

func requireUser(tx *gorm.DB, npk string) error {
	var count int64
	if err := tx.Model(&userDatamodel.User{}).Where("npk = ?", npk).Count(&count).Error; err != nil {
		return internal.NewStorageError("check npk reference", err)
	}
	if count == 0 {
		return fmt.Errorf("npk %s: %w", npk, internal.ErrForeignKeyViolation)
	}
	return nil
}
