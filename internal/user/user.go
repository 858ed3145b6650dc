package user

import (
	userDatamodel "github.com/frahmantamala/photoid-studio/internal/core/datamodel/user"
)

// Repository is the data access surface for enrolled users. All mutating
// methods run inside a single transaction; partial writes are never
// visible to concurrent readers.
type Repository interface {
	GetByNPK(npk string) (*userDatamodel.User, error)
	Create(dto CreateUserDTO) (*userDatamodel.User, error)
	Update(npk string, dto UpdateUserDTO) (*userDatamodel.User, error)
	List(filter ListFilter) ([]*userDatamodel.User, error)
}

// ListFilter narrows List results. Zero values mean "no filter"; results
// are always ordered by npk so repeated listings are stable.
type ListFilter struct {
	Role         string
	DepartmentID string
}
