package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants, seeded by the initial migration
const (
	RoleIDAdmin    = 1
	RoleIDProvider = 2
	RoleIDClient   = 3
)

// RoleNames constants
const (
	RoleAdmin    = "admin"
	RoleProvider = "provider"
	RoleClient   = "client"
)

// RoleNameByID maps a seeded role id to its name.
func RoleNameByID(roleID int) string {
	switch roleID {
	case RoleIDAdmin:
		return RoleAdmin
	case RoleIDProvider:
		return RoleProvider
	case RoleIDClient:
		return RoleClient
	default:
		return ""
	}
}
