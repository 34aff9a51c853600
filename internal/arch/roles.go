// Package arch classifies project files into architectural roles and
// detects project-level patterns from them.
package arch

import (
	"strings"

	"archmap/internal/scan"
)

// Role is the architectural role of a single file. Every file gets exactly
// one role.
type Role string

const (
	RoleController Role = "controller"
	RoleModel      Role = "model"
	RoleView       Role = "view"
	RoleRepository Role = "repository"
	RoleService    Role = "service"
	RoleMiddleware Role = "middleware"
	RoleMigration  Role = "migration"
	RoleSeeder     Role = "seeder"
	RoleTest       Role = "test"
	RoleConfig     Role = "config"
	RoleRoute      Role = "route"
	RoleUnknown    Role = "unknown"
)

// Title returns the role with its first letter upper-cased, for reports.
func (r Role) Title() string {
	s := string(r)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ClassifyRole determines the architectural role of a file from its
// project-relative path. The rules are ordered and the first match wins, so
// a path containing both "controller" and "model" is a controller.
func ClassifyRole(path string) Role {
	lower := strings.ToLower(path)

	switch {
	case strings.Contains(lower, "controller"):
		return RoleController
	case strings.Contains(lower, "model"):
		return RoleModel
	case strings.Contains(lower, "/views/") || strings.HasSuffix(lower, ".blade.php"):
		return RoleView
	case strings.Contains(lower, "repository"):
		return RoleRepository
	case strings.Contains(lower, "service"):
		return RoleService
	case strings.Contains(lower, "middleware"):
		return RoleMiddleware
	case strings.Contains(lower, "migration"):
		return RoleMigration
	case strings.Contains(lower, "seeder"):
		return RoleSeeder
	case strings.Contains(lower, "test"):
		return RoleTest
	case strings.Contains(lower, "config"):
		return RoleConfig
	case strings.Contains(lower, "route"):
		return RoleRoute
	default:
		return RoleUnknown
	}
}

// ClassifyAll classifies every file in the table.
func ClassifyAll(table scan.FileTable) map[string]Role {
	roles := make(map[string]Role, len(table))
	for path := range table {
		roles[path] = ClassifyRole(path)
	}
	return roles
}
