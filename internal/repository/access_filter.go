package repository

import (
	"github.com/WandevPB/brisagenda-backend/internal/model"

	"gorm.io/gorm"
)

// AccessFilter is the typed row filter derived from a caller's role and
// assigned distribution center. It replaces ad hoc WHERE fragments: every
// appointment query goes through Scope, so an institution account can
// never observe another center's rows.
type AccessFilter struct {
	AllCenters bool
	Center     string
}

// FilterFor builds the filter for a caller. Admin and consultivo see all
// centers; institution is pinned to its assigned center.
func FilterFor(role, center string) AccessFilter {
	if role == model.RoleInstitution {
		return AccessFilter{Center: center}
	}
	return AccessFilter{AllCenters: true}
}

// Scope returns the filter as a GORM scope.
func (f AccessFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.AllCenters {
			return db
		}
		return db.Where("centro_distribuicao = ?", f.Center)
	}
}

// Allows reports whether a row in the given center is visible to the caller.
func (f AccessFilter) Allows(center string) bool {
	return f.AllCenters || f.Center == center
}
