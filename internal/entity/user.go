package entity

import (
	"database/sql"

	"github.com/rafflehub/backend/pkg/enum"
)

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleUser       = enum.New(GlobalRole("user"))

	GlobalAdminRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}
)

type User struct {
	Base
	Name      string `gorm:"unique"`
	Role      GlobalRole
	AvatarURL string
	Address   sql.NullString
}
