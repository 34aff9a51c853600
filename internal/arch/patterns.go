package arch

import "sort"

// Pattern names for the role-derived detections.
const (
	PatternMVC        = "mvc"
	PatternRepository = "repository"
	PatternService    = "service"
)

// Pattern is an architectural pattern detected in the project, with every
// file that contributes to it.
type Pattern struct {
	Name        string   `json:"name"`
	Files       []string `json:"files"`
	Description string   `json:"description"`
}

// DetectPatterns derives project patterns from the per-file role map.
// MVC requires at least one controller and one model; views join the file
// list when present but are not required. Repository and Service fire on a
// single file of the matching role. File lists are grouped by role and
// sorted within each group.
func DetectPatterns(roles map[string]Role) []Pattern {
	byRole := make(map[Role][]string)
	for path, role := range roles {
		byRole[role] = append(byRole[role], path)
	}
	for role := range byRole {
		sort.Strings(byRole[role])
	}

	var patterns []Pattern

	controllers := byRole[RoleController]
	models := byRole[RoleModel]
	if len(controllers) > 0 && len(models) > 0 {
		files := make([]string, 0, len(controllers)+len(models)+len(byRole[RoleView]))
		files = append(files, controllers...)
		files = append(files, models...)
		files = append(files, byRole[RoleView]...)
		patterns = append(patterns, Pattern{
			Name:        PatternMVC,
			Files:       files,
			Description: "Model-View-Controller pattern detected",
		})
	}

	if repositories := byRole[RoleRepository]; len(repositories) > 0 {
		patterns = append(patterns, Pattern{
			Name:        PatternRepository,
			Files:       repositories,
			Description: "Repository pattern detected",
		})
	}

	if services := byRole[RoleService]; len(services) > 0 {
		patterns = append(patterns, Pattern{
			Name:        PatternService,
			Files:       services,
			Description: "Service layer pattern detected",
		})
	}

	return patterns
}

// PatternsFor returns the patterns the given file participates in.
func PatternsFor(patterns []Pattern, path string) []Pattern {
	var out []Pattern
	for _, p := range patterns {
		for _, f := range p.Files {
			if f == path {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
