package user

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
	RoleSupervisor Role = "supervisor"
)

// roleAliases maps legacy role spellings still present in HR exports onto
// the canonical set. "manager" predates the supervisor rename.
var roleAliases = map[string]Role{
	"admin":      RoleAdmin,
	"user":       RoleUser,
	"supervisor": RoleSupervisor,
	"manager":    RoleSupervisor,
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleSupervisor:
		return true
	}
	return false
}

// NormalizeRole resolves a raw role string to its canonical Role. The
// second return is false when the input is not a recognized role.
func NormalizeRole(raw string) (Role, bool) {
	role, ok := roleAliases[raw]
	return role, ok
}

// User is one employee enrolled at the photo station. NPK is the employee
// identifier and is immutable once created. Password holds only a salted
// PBKDF2 encoding, never plaintext.
type User struct {
	NPK            string     `gorm:"column:npk;primaryKey"`
	Name           string     `gorm:"column:name;not null"`
	Password       string     `gorm:"column:password"`
	Role           Role       `gorm:"column:role;index"`
	SectionID      string     `gorm:"column:section_id;index"`
	SectionName    string     `gorm:"column:section_name"`
	DepartmentID   string     `gorm:"column:department_id;index"`
	DepartmentName string     `gorm:"column:department_name"`
	Company        string     `gorm:"column:company"`
	Plant          string     `gorm:"column:plant"`
	LastAccess     *time.Time `gorm:"column:last_access"`
	LastTakePhoto  *time.Time `gorm:"column:last_take_photo"`
	PhotoFilename  string     `gorm:"column:photo_filename"`
	CardFilename   string     `gorm:"column:card_filename"`
}

func (User) TableName() string {
	return "users"
}
