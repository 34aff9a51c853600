package arch

import (
	"testing"

	"archmap/internal/scan"
)

func tableOf(paths ...string) scan.FileTable {
	table := make(scan.FileTable, len(paths))
	for _, p := range paths {
		table[p] = &scan.FileRecord{Path: p}
	}
	return table
}

func TestClassifyRole(t *testing.T) {
	cases := []struct {
		path string
		want Role
	}{
		{"app/Http/Controllers/UserController.php", RoleController},
		{"app/Models/User.php", RoleModel},
		{"resources/views/users/index.blade.php", RoleView},
		{"resources/views/emails/welcome.php", RoleView},
		{"app/Repositories/UserRepository.php", RoleRepository},
		{"app/Services/PaymentService.php", RoleService},
		{"app/Http/Middleware/Authenticate.php", RoleMiddleware},
		{"database/migrations/2024_01_01_000000_create_users_table.php", RoleMigration},
		{"database/seeders/UserSeeder.php", RoleSeeder},
		{"tests/Feature/LoginTest.php", RoleTest},
		{"config/app.php", RoleConfig},
		{"routes/web.php", RoleRoute},
		{"app/Support/Helpers.php", RoleUnknown},
		{"src/components/Button.vue", RoleUnknown},
	}

	for _, tc := range cases {
		if got := ClassifyRole(tc.path); got != tc.want {
			t.Errorf("ClassifyRole(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestClassifyRolePrecedence(t *testing.T) {
	// The first matching rule wins, so a controller test is a controller
	// and a service test is a service.
	cases := []struct {
		path string
		want Role
	}{
		{"tests/Feature/UserControllerTest.php", RoleController},
		{"tests/Unit/PaymentServiceTest.php", RoleService},
		{"app/Models/ModelObserver.php", RoleModel},
	}

	for _, tc := range cases {
		if got := ClassifyRole(tc.path); got != tc.want {
			t.Errorf("ClassifyRole(%q) = %s, want %s", tc.path, got, tc.want)
		}
	}
}

func TestClassifyAll(t *testing.T) {
	table := tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Models/User.php",
		"routes/api.php",
	)

	roles := ClassifyAll(table)
	if len(roles) != 3 {
		t.Fatalf("Expected 3 classified files, got %d", len(roles))
	}
	if roles["app/Models/User.php"] != RoleModel {
		t.Errorf("Expected model, got %s", roles["app/Models/User.php"])
	}
	if roles["routes/api.php"] != RoleRoute {
		t.Errorf("Expected route, got %s", roles["routes/api.php"])
	}
}

func TestRoleTitle(t *testing.T) {
	if got := RoleController.Title(); got != "Controller" {
		t.Errorf("Expected Controller, got %s", got)
	}
	if got := RoleUnknown.Title(); got != "Unknown" {
		t.Errorf("Expected Unknown, got %s", got)
	}
}

func TestDetectPatternsMVC(t *testing.T) {
	roles := ClassifyAll(tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Http/Controllers/OrderController.php",
		"app/Models/User.php",
		"resources/views/users/index.blade.php",
	))

	patterns := DetectPatterns(roles)
	if len(patterns) != 1 {
		t.Fatalf("Expected 1 pattern, got %d", len(patterns))
	}
	p := patterns[0]
	if p.Name != PatternMVC {
		t.Errorf("Expected mvc, got %s", p.Name)
	}
	if p.Description != "Model-View-Controller pattern detected" {
		t.Errorf("Unexpected description: %s", p.Description)
	}
	if len(p.Files) != 4 {
		t.Errorf("Expected 4 participating files, got %d", len(p.Files))
	}
}

func TestDetectPatternsMVCNeedsModels(t *testing.T) {
	roles := ClassifyAll(tableOf(
		"app/Http/Controllers/UserController.php",
		"resources/views/users/index.blade.php",
	))

	if patterns := DetectPatterns(roles); len(patterns) != 0 {
		t.Errorf("Expected no patterns without models, got %d", len(patterns))
	}
}

func TestDetectPatternsViewsOptional(t *testing.T) {
	roles := ClassifyAll(tableOf(
		"app/Http/Controllers/ApiController.php",
		"app/Models/Token.php",
	))

	patterns := DetectPatterns(roles)
	if len(patterns) != 1 || patterns[0].Name != PatternMVC {
		t.Fatalf("Expected mvc without views, got %v", patterns)
	}
	if len(patterns[0].Files) != 2 {
		t.Errorf("Expected 2 participating files, got %d", len(patterns[0].Files))
	}
}

func TestDetectPatternsRepositoryAndService(t *testing.T) {
	roles := ClassifyAll(tableOf(
		"app/Repositories/UserRepository.php",
		"app/Services/PaymentService.php",
	))

	patterns := DetectPatterns(roles)
	if len(patterns) != 2 {
		t.Fatalf("Expected 2 patterns, got %d", len(patterns))
	}

	byName := make(map[string]Pattern, len(patterns))
	for _, p := range patterns {
		byName[p.Name] = p
	}
	if p, ok := byName[PatternRepository]; !ok {
		t.Error("Expected repository pattern")
	} else if p.Description != "Repository pattern detected" {
		t.Errorf("Unexpected description: %s", p.Description)
	}
	if p, ok := byName[PatternService]; !ok {
		t.Error("Expected service pattern")
	} else if p.Description != "Service layer pattern detected" {
		t.Errorf("Unexpected description: %s", p.Description)
	}
}

func TestPatternsFor(t *testing.T) {
	roles := ClassifyAll(tableOf(
		"app/Http/Controllers/UserController.php",
		"app/Models/User.php",
		"app/Repositories/UserRepository.php",
	))
	patterns := DetectPatterns(roles)

	mine := PatternsFor(patterns, "app/Repositories/UserRepository.php")
	if len(mine) != 1 || mine[0].Name != PatternRepository {
		t.Fatalf("Expected only the repository pattern, got %v", mine)
	}

	if got := PatternsFor(patterns, "routes/web.php"); len(got) != 0 {
		t.Errorf("Expected no patterns for uninvolved file, got %v", got)
	}
}
