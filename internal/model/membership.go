package model

import (
	"time"

	"github.com/google/uuid"
)

// Membership ties a user to a project with a role. It is the only unit of
// authorization: sprints and tasks derive their permissions from the project
// they hang off.
type Membership struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_memberships_project_user"`
	UserID    string    `gorm:"not null;index;uniqueIndex:idx_memberships_project_user"`
	Role      Role      `gorm:"not null;check:role IN ('lead', 'manager', 'developer')"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Project Project `gorm:"foreignKey:ProjectID"`
	User    User    `gorm:"foreignKey:UserID"`
}

type Role string

const (
	RoleProjectLead Role = "lead"
	RoleManager     Role = "manager"
	RoleDeveloper   Role = "developer"
)

// Valid reports whether r is one of the known role values.
func (r Role) Valid() bool {
	return r == RoleProjectLead || r == RoleManager || r == RoleDeveloper
}

// CanManage reports whether the role may mutate project-level state (the
// project itself, its sprints, its team). Every role above developer is
// equally privileged; lead and manager are never distinguished.
func (r Role) CanManage() bool {
	return r.Valid() && r != RoleDeveloper
}
