package sqlite

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/photoid-studio/internal"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
	"github.com/frahmantamala/photoid-studio/internal/user"
)

// UserRepository implements the user.Repository interface over the
// embedded SQLite store using GORM.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByNPK(npk string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("npk = ?", npk).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("get user %s: %w", npk, internal.ErrUserNotFound)
		}
		return nil, internal.NewStorageError("get user", err)
	}
	return &u, nil
}

func (r *UserRepository) Create(dto user.CreateUserDTO) (*userDatamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	model := dto.ToModel()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userDatamodel.User{}).Where("npk = ?", model.NPK).Count(&count).Error; err != nil {
			return internal.NewStorageError("check npk", err)
		}
		if count > 0 {
			return fmt.Errorf("create user %s: %w", model.NPK, internal.ErrDuplicateNPK)
		}
		if err := tx.Create(model).Error; err != nil {
			return internal.NewStorageError("create user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return model, nil
}

func (r *UserRepository) Update(npk string, dto user.UpdateUserDTO) (*userDatamodel.User, error) {
	changes, err := dto.Changes()
	if err != nil {
		return nil, err
	}

	var updated userDatamodel.User
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("npk = ?", npk).First(&updated).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("update user %s: %w", npk, internal.ErrUserNotFound)
			}
			return internal.NewStorageError("load user", err)
		}

		if len(changes) == 0 {
			return nil
		}

		if err := tx.Model(&userDatamodel.User{}).Where("npk = ?", npk).Updates(changes).Error; err != nil {
			return internal.NewStorageError("update user", err)
		}
		return tx.Where("npk = ?", npk).First(&updated).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *UserRepository) List(filter user.ListFilter) ([]*userDatamodel.User, error) {
	query := r.db.Model(&userDatamodel.User{})
	if filter.Role != "" {
		role, ok := userDatamodel.NormalizeRole(filter.Role)
		if !ok {
			return nil, internal.ErrInvalidRole
		}
		query = query.Where("role = ?", role)
	}
	if filter.DepartmentID != "" {
		query = query.Where("department_id = ?", filter.DepartmentID)
	}

	var users []*userDatamodel.User
	if err := query.Order("npk ASC").Find(&users).Error; err != nil {
		return nil, internal.NewStorageError("list users", err)
	}
	return users, nil
}
