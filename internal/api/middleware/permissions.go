package middleware

import "strings"

// Role роль пользователя внутри арендатора
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleStaff  Role = "staff"
	RoleViewer Role = "viewer"
)

// Permission право на группу операций
type Permission string

const (
	PermAppointmentsRead  Permission = "appointments:read"
	PermAppointmentsWrite Permission = "appointments:write"
	PermCalendarRead      Permission = "calendar:read"
	PermCalendarWrite     Permission = "calendar:write"
	PermCatalogRead       Permission = "catalog:read"
	PermCatalogWrite      Permission = "catalog:write"
	PermClientsRead       Permission = "clients:read"
	PermClientsWrite      Permission = "clients:write"
	PermUsageRead         Permission = "usage:read"
)

// Permissions матрица прав ролей. Строится один раз при старте, наружу только чтение.
type Permissions struct {
	roles map[Role]map[Permission]struct{}
}

// NewPermissions копирует переданную матрицу
func NewPermissions(matrix map[Role][]Permission) Permissions {
	roles := make(map[Role]map[Permission]struct{}, len(matrix))
	for role, perms := range matrix {
		set := make(map[Permission]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		roles[role] = set
	}
	return Permissions{roles: roles}
}

// DefaultPermissions стандартная матрица для owner/admin/staff/viewer
func DefaultPermissions() Permissions {
	all := []Permission{
		PermAppointmentsRead, PermAppointmentsWrite,
		PermCalendarRead, PermCalendarWrite,
		PermCatalogRead, PermCatalogWrite,
		PermClientsRead, PermClientsWrite,
		PermUsageRead,
	}
	return NewPermissions(map[Role][]Permission{
		RoleOwner: all,
		RoleAdmin: all,
		RoleStaff: {
			PermAppointmentsRead, PermAppointmentsWrite,
			PermCalendarRead,
			PermCatalogRead,
			PermClientsRead, PermClientsWrite,
		},
		RoleViewer: {
			PermAppointmentsRead,
			PermCalendarRead,
			PermCatalogRead,
			PermClientsRead,
		},
	})
}

// Can проверяет право роли
func (p Permissions) Can(role Role, perm Permission) bool {
	_, ok := p.roles[role][perm]
	return ok
}

// ParseRole разбирает заголовок X-Role
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	switch role {
	case RoleOwner, RoleAdmin, RoleStaff, RoleViewer:
		return role, true
	default:
		return role, false
	}
}
