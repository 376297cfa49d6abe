// Package user covers the administration views: listing the clinic staff,
// registering accounts, changing passwords and removing accounts. Only
// administrators reach these views.
package user

import (
	"strings"

	"github.com/clinica/clinica/internal/platform/session"
)

// Usuario mirrors the backend account resource. Password is write-only: the
// backend never echoes it back and list responses leave it empty.
type Usuario struct {
	IDUsuario int64  `json:"idUsuario"`
	Nombre    string `json:"nombre"`
	Apellido  string `json:"apellido"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Rol       string `json:"rol"`
}

func (u Usuario) NombreCompleto() string {
	return strings.TrimSpace(u.Nombre + " " + u.Apellido)
}

// RolesPermitidos lists the roles an administrator can assign when
// registering an account.
func RolesPermitidos() []session.Role {
	return []session.Role{session.RoleAdmin, session.RoleMedico, session.RoleEnfermero, session.RoleTecnico}
}
