package user

import (
	"time"

	"github.com/frahmantamala/photoid-studio/internal"
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
)

type CreateUserDTO struct {
	NPK            string
	Name           string
	Password       string // PBKDF2 encoding from the auth service, never plaintext
	Role           string
	SectionID      string
	SectionName    string
	DepartmentID   string
	DepartmentName string
	Company        string
	Plant          string
}

func (dto CreateUserDTO) Validate() error {
	if dto.NPK == "" {
		return internal.NewValidationError("npk is required", internal.ErrCodeValidationFailed)
	}
	if dto.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if _, ok := userDatamodel.NormalizeRole(dto.Role); !ok {
		return internal.ErrInvalidRole
	}
	return nil
}

// ToModel maps the DTO onto the persisted model for repository
// implementations.
func (dto CreateUserDTO) ToModel() *userDatamodel.User {
	role, _ := userDatamodel.NormalizeRole(dto.Role)
	return &userDatamodel.User{
		NPK:            dto.NPK,
		Name:           dto.Name,
		Password:       dto.Password,
		Role:           role,
		SectionID:      dto.SectionID,
		SectionName:    dto.SectionName,
		DepartmentID:   dto.DepartmentID,
		DepartmentName: dto.DepartmentName,
		Company:        dto.Company,
		Plant:          dto.Plant,
	}
}

// UpdateUserDTO carries a partial update: only non-nil fields change. NPK
// is immutable and deliberately absent.
type UpdateUserDTO struct {
	Name           *string
	Password       *string
	Role           *string
	SectionID      *string
	SectionName    *string
	DepartmentID   *string
	DepartmentName *string
	Company        *string
	Plant          *string
	LastAccess     *time.Time
	LastTakePhoto  *time.Time
	PhotoFilename  *string
	CardFilename   *string
}

// Changes flattens the set fields into a column→value map for the update
// statement. Role values are normalized and rejected if unrecognized.
func (dto UpdateUserDTO) Changes() (map[string]any, error) {
	changes := make(map[string]any)

	if dto.Name != nil {
		changes["name"] = *dto.Name
	}
	if dto.Password != nil {
		changes["password"] = *dto.Password
	}
	if dto.Role != nil {
		role, ok := userDatamodel.NormalizeRole(*dto.Role)
		if !ok {
			return nil, internal.ErrInvalidRole
		}
		changes["role"] = role
	}
	if dto.SectionID != nil {
		changes["section_id"] = *dto.SectionID
	}
	if dto.SectionName != nil {
		changes["section_name"] = *dto.SectionName
	}
	if dto.DepartmentID != nil {
		changes["department_id"] = *dto.DepartmentID
	}
	if dto.DepartmentName != nil {
		changes["department_name"] = *dto.DepartmentName
	}
	if dto.Company != nil {
		changes["company"] = *dto.Company
	}
	if dto.Plant != nil {
		changes["plant"] = *dto.Plant
	}
	if dto.LastAccess != nil {
		changes["last_access"] = *dto.LastAccess
	}
	if dto.LastTakePhoto != nil {
		changes["last_take_photo"] = *dto.LastTakePhoto
	}
	if dto.PhotoFilename != nil {
		changes["photo_filename"] = *dto.PhotoFilename
	}
	if dto.CardFilename != nil {
		changes["card_filename"] = *dto.CardFilename
	}

	return changes, nil
}
