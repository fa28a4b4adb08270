package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/inkwell/internal/auth/scope"
	staffdomain "github.com/smallbiznis/inkwell/internal/staff/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var roleNames = map[scope.Role]string{
	scope.RoleSuperAdmin: "Super Admin",
	scope.RoleAdmin:      "Admin",
	scope.RoleEditor:     "Editor",
	scope.RoleReviewer:   "Reviewer",
	scope.RoleUser:       "User",
}

// EnsureRoles inserts the fixed role catalog. Rows that already exist are left untouched.
func EnsureRoles(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	rows := make([]staffdomain.Role, 0, len(roleNames))
	for _, role := range scope.Roles() {
		rows = append(rows, staffdomain.Role{ID: role, Name: displayName(role)})
	}

	ctx := context.Background()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&rows).Error
}

func displayName(role scope.Role) string {
	if name, ok := roleNames[role]; ok {
		return name
	}
	return strings.ReplaceAll(string(role), "_", " ")
}
