package entity

import (
	"time"

	"github.com/google/uuid"
)

// User represents the centralized authentication table
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RoleID    int       `gorm:"not null;index" json:"role_id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	FullName  string    `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone     string    `gorm:"type:varchar(20);index" json:"phone,omitempty"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Role            Role             `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	ProviderProfile *ProviderProfile `gorm:"foreignKey:UserID" json:"provider_profile,omitempty"`
	ClientProfile   *ClientProfile   `gorm:"foreignKey:UserID" json:"client_profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// Active reports whether the account is enabled. A nil flag means the
// column default (true) was never overridden.
func (u *User) Active() bool {
	return u.IsActive == nil || *u.IsActive
}
