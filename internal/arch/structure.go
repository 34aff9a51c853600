package arch

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"archmap/internal/scan"
)

// StructurePattern is one detected project organization style with the
// evidence that supports it.
type StructurePattern struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence"`
}

// DirectoryCount summarizes one top-level directory.
type DirectoryCount struct {
	Dir   string `json:"dir"`
	Files int    `json:"files"`
}

// StructureReport describes how the project is organized.
type StructureReport struct {
	// Primary is the highest-confidence pattern name, empty when nothing
	// was detected
	Primary string `json:"primary,omitempty"`

	// Patterns are all detections above the confidence floor
	Patterns []StructurePattern `json:"patterns,omitempty"`

	// TopLevel counts scanned files per top-level directory
	TopLevel []DirectoryCount `json:"topLevel,omitempty"`
}

// confidenceFloor is the minimum confidence for a pattern to be reported.
const confidenceFloor = 0.3

// AnalyzeStructure inspects the scanned file table for organization styles:
// Domain-Driven Design, modular layout, single-action classes, data transfer
// objects, repositories and a service layer. Detection works purely on the
// paths already in the table, so directories holding no scanned files are
// invisible to it.
func AnalyzeStructure(table scan.FileTable, logger *slog.Logger) *StructureReport {
	dirs := directorySet(table)

	report := &StructureReport{
		TopLevel: topLevelCounts(table),
	}

	detectors := []func(scan.FileTable, map[string]bool) *StructurePattern{
		detectDDD,
		detectModular,
		detectActions,
		detectDTO,
		detectRepository,
		detectService,
	}
	for _, detect := range detectors {
		if p := detect(table, dirs); p != nil {
			report.Patterns = append(report.Patterns, *p)
			logger.Debug("Detected structure pattern",
				"name", p.Name,
				"confidence", p.Confidence,
			)
		}
	}

	best := -1.0
	for _, p := range report.Patterns {
		if p.Confidence > best {
			best = p.Confidence
			report.Primary = p.Name
		}
	}

	return report
}

func detectDDD(table scan.FileTable, dirs map[string]bool) *StructurePattern {
	var evidence []string
	confidence := 0.0

	indicators := []string{
		"Domain", "Domains",
		"Application",
		"Infrastructure",
		"ValueObjects",
		"Entities",
		"Aggregates",
	}
	for _, indicator := range indicators {
		if segmentUnderApp(dirs, indicator) {
			evidence = append(evidence, fmt.Sprintf("Found %s directory", indicator))
			confidence += 0.15
		}
	}

	if modules := domainModules(dirs); len(modules) > 0 {
		evidence = append(evidence, fmt.Sprintf("Found %d domain modules", len(modules)))
		confidence += 0.2
	}

	if countFilesUnderApp(table, "Repository.php") > 0 {
		evidence = append(evidence, "Found Repository pattern")
		confidence += 0.1
	}
	if countFilesUnderApp(table, "Entity.php") > 0 {
		evidence = append(evidence, "Found Entity pattern")
		confidence += 0.1
	}

	return emit("DDD", confidence, evidence)
}

func detectModular(table scan.FileTable, dirs map[string]bool) *StructurePattern {
	var evidence []string
	confidence := 0.0

	if dirs["Modules"] {
		evidence = append(evidence, "Found Modules directory")
		confidence += 0.5

		modules := moduleNames(dirs)
		if len(modules) > 0 {
			preview := modules
			if len(preview) > 3 {
				preview = preview[:3]
			}
			evidence = append(evidence, fmt.Sprintf("Found %d modules: %s",
				len(modules), strings.Join(preview, ", ")))
			confidence += 0.3

			sample := modules[0]
			if dirs["Modules/"+sample+"/Entities"] {
				evidence = append(evidence, "Modules use Entities")
			}
			if dirs["Modules/"+sample+"/Http/Controllers"] {
				evidence = append(evidence, "Modules have Controllers")
			}
		}
	}

	return emit("Modular", confidence, evidence)
}

func detectActions(table scan.FileTable, dirs map[string]bool) *StructurePattern {
	var evidence []string
	confidence := 0.0

	found := 0
	for dir := range dirs {
		if dir == "app/Actions" || wildcardDir(dir, "app", "Domain", "Actions") || wildcardDir(dir, "Modules", "", "Actions") {
			found++
		}
	}
	if found > 0 {
		evidence = append(evidence, fmt.Sprintf("Found %d Actions directories", found))
		confidence += 0.4

		if n := countFilesUnderApp(table, "Action.php"); n > 0 {
			evidence = append(evidence, fmt.Sprintf("Found %d Action classes", n))
			confidence += 0.3
		}
	}

	return emit("Actions", confidence, evidence)
}

func detectDTO(table scan.FileTable, dirs map[string]bool) *StructurePattern {
	var evidence []string
	confidence := 0.0

	found := 0
	for dir := range dirs {
		switch {
		case dir == "app/DTO" || dir == "app/DTOs" || dir == "app/DataTransferObjects":
			found++
		case wildcardDir(dir, "app", "Domain", "DTO") || wildcardDir(dir, "Modules", "", "DTO"):
			found++
		}
	}
	if found > 0 {
		evidence = append(evidence, fmt.Sprintf("Found %d DTO directories", found))
		confidence += 0.4

		if n := countFilesUnderApp(table, "DTO.php"); n > 0 {
			evidence = append(evidence, fmt.Sprintf("Found %d DTO classes", n))
			confidence += 0.3
		}
	}

	return emit("DTO", confidence, evidence)
}

func detectRepository(table scan.FileTable, dirs map[string]bool) *StructurePattern {
	var evidence []string
	confidence := 0.0

	if n := countFilesUnderApp(table, "Repository.php"); n > 0 {
		evidence = append(evidence, fmt.Sprintf("Found %d Repository classes", n))
		confidence += 0.4

		if countFilesUnderApp(table, "RepositoryInterface.php") > 0 {
			evidence = append(evidence, "Found Repository interfaces")
			confidence += 0.2
		}
	}

	return emit("Repository", confidence, evidence)
}

func detectService(table scan.FileTable, dirs map[string]bool) *StructurePattern {
	var evidence []string
	confidence := 0.0

	if segmentUnderApp(dirs, "Services") {
		evidence = append(evidence, "Found Services directory")
		confidence += 0.4

		if n := countFilesUnderApp(table, "Service.php"); n > 0 {
			evidence = append(evidence, fmt.Sprintf("Found %d Service classes", n))
			confidence += 0.3
		}
	}

	return emit("Service", confidence, evidence)
}

func emit(name string, confidence float64, evidence []string) *StructurePattern {
	if confidence <= confidenceFloor {
		return nil
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return &StructurePattern{Name: name, Confidence: confidence, Evidence: evidence}
}

// directorySet collects every directory implied by the table's file paths.
func directorySet(table scan.FileTable) map[string]bool {
	dirs := make(map[string]bool)
	for p := range table {
		for d := path.Dir(p); d != "." && d != "/"; d = path.Dir(d) {
			dirs[d] = true
		}
	}
	return dirs
}

// segmentUnderApp reports whether any directory below app/ has a path
// segment equal to name.
func segmentUnderApp(dirs map[string]bool, name string) bool {
	for dir := range dirs {
		if !strings.HasPrefix(dir, "app/") {
			continue
		}
		for _, seg := range strings.Split(dir, "/")[1:] {
			if seg == name {
				return true
			}
		}
	}
	return false
}

// domainModules lists the distinct direct children of app/Domain or
// app/Domains.
func domainModules(dirs map[string]bool) []string {
	set := make(map[string]bool)
	for dir := range dirs {
		segs := strings.Split(dir, "/")
		if len(segs) == 3 && segs[0] == "app" && (segs[1] == "Domain" || segs[1] == "Domains") {
			set[segs[2]] = true
		}
	}
	return sortedKeys(set)
}

// moduleNames lists the distinct direct children of Modules/.
func moduleNames(dirs map[string]bool) []string {
	set := make(map[string]bool)
	for dir := range dirs {
		segs := strings.Split(dir, "/")
		if len(segs) == 2 && segs[0] == "Modules" {
			set[segs[1]] = true
		}
	}
	return sortedKeys(set)
}

// wildcardDir matches paths of the form first/*/last (three segments) or
// first/mid/*/last (four segments) depending on whether mid is empty.
func wildcardDir(dir, first, mid, last string) bool {
	segs := strings.Split(dir, "/")
	if mid == "" {
		return len(segs) == 3 && segs[0] == first && segs[2] == last
	}
	return len(segs) == 4 && segs[0] == first && segs[1] == mid && segs[3] == last
}

// countFilesUnderApp counts scanned files below app/ whose base name ends
// with the given suffix.
func countFilesUnderApp(table scan.FileTable, suffix string) int {
	n := 0
	for p := range table {
		if strings.HasPrefix(p, "app/") && strings.HasSuffix(path.Base(p), suffix) {
			n++
		}
	}
	return n
}

func topLevelCounts(table scan.FileTable) []DirectoryCount {
	counts := make(map[string]int)
	for p := range table {
		i := strings.Index(p, "/")
		if i < 0 {
			continue
		}
		counts[p[:i]]++
	}

	out := make([]DirectoryCount, 0, len(counts))
	for dir, n := range counts {
		out = append(out, DirectoryCount{Dir: dir, Files: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dir < out[j].Dir })
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
