package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognized by the system. Institution accounts are scoped to a
// single distribution center; the other two see every center.
const (
	RoleAdmin       = "admin"
	RoleInstitution = "institution"
	RoleConsultivo  = "consultivo"
)

// CenterAll is the assigned-center value for roles without a center scope.
const CenterAll = "all"

// IsValidRole reports whether role is one of the recognized roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleInstitution || role == RoleConsultivo
}

// User represents a system account.
type User struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username           string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password           string         `gorm:"type:varchar(255);not null" json:"-"`
	Role               string         `gorm:"type:varchar(50);not null" json:"role"`
	CentroDistribuicao string         `gorm:"type:varchar(100);not null;default:'all'" json:"centro_distribuicao"`
	MustChangePassword bool           `gorm:"not null;default:false" json:"must_change_password"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "usuarios"
}
