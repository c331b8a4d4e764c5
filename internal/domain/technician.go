package domain

import (
	"strings"
	"time"
)

// TechnicianRole enumerates platform roles eligible for helpdesk work.
type TechnicianRole string

const (
	RoleSuperAdmin        TechnicianRole = "super_admin"
	RoleSupportTechnician TechnicianRole = "support_technician"
)

// Technician models a support staff member read from the platform user
// directory. This service never writes technicians.
type Technician struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
	Role      TechnicianRole
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the display name used in assignment messages.
func (t *Technician) FullName() string {
	name := strings.TrimSpace(t.FirstName + " " + t.LastName)
	if name == "" {
		return t.Username
	}
	return name
}
