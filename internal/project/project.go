// Package project identifies what kind of codebase a directory holds by
// looking at its manifest files.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"archmap/internal/logging"
)

// Kind is the detected project flavor.
type Kind string

const (
	KindLaravel Kind = "laravel"
	KindPHP     Kind = "php"
	KindNode    Kind = "node"
	KindPython  Kind = "python"
	KindMixed   Kind = "mixed"
	KindUnknown Kind = "unknown"
)

// Manifest names a manifest file and the project kind it implies.
type Manifest struct {
	// FileName is the manifest file name at the project root
	FileName string
	// Kind is the project kind this manifest implies
	Kind Kind
	// Priority breaks ties when several manifests are present; a Laravel
	// app routinely carries package.json for its frontend build, so
	// composer.json must outrank it
	Priority int
}

// Manifests is the list of manifest files to check, in priority order.
var Manifests = []Manifest{
	{FileName: "composer.json", Kind: KindPHP, Priority: 10},
	{FileName: "pyproject.toml", Kind: KindPython, Priority: 10},
	{FileName: "package.json", Kind: KindNode, Priority: 5},
}

// Info is the result of project detection.
type Info struct {
	// Kind is the winning project kind
	Kind Kind `json:"kind"`
	// Name comes from the winning manifest, or the directory name
	Name string `json:"name"`
	// Manifests lists every manifest file found at the root
	Manifests []string `json:"manifests,omitempty"`
}

// Detect inspects the project root's manifest files and reports the project
// kind. It never fails: unreadable or malformed manifests degrade to
// directory-name fallbacks.
func Detect(root string, logger *logging.Logger) *Info {
	info := &Info{
		Kind: KindUnknown,
		Name: filepath.Base(root),
	}

	var found []Manifest
	for _, m := range Manifests {
		manifestPath := filepath.Join(root, m.FileName)
		if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
			continue
		}
		found = append(found, m)
		info.Manifests = append(info.Manifests, m.FileName)

		logger.Debug("Found project manifest", map[string]interface{}{
			"manifest": m.FileName,
			"kind":     string(m.Kind),
		})
	}
	if len(found) == 0 {
		return info
	}

	top := found[0].Priority
	winner := found[0]
	mixed := false
	for _, m := range found[1:] {
		if m.Priority == top && m.Kind != winner.Kind {
			mixed = true
		}
	}

	info.Kind = winner.Kind
	if mixed {
		info.Kind = KindMixed
	}

	switch winner.FileName {
	case "composer.json":
		name, laravel := readComposer(filepath.Join(root, winner.FileName))
		if name != "" {
			info.Name = name
		}
		if laravel && !mixed {
			info.Kind = KindLaravel
		}
	case "package.json":
		if name := readPackageJSON(filepath.Join(root, winner.FileName)); name != "" {
			info.Name = name
		}
	case "pyproject.toml":
		if name := readPyproject(filepath.Join(root, winner.FileName)); name != "" {
			info.Name = name
		}
	}

	return info
}

// readComposer extracts the package name from composer.json and reports
// whether the project requires the Laravel framework.
func readComposer(path string) (name string, laravel bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	var composer struct {
		Name       string            `json:"name"`
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}
	if err := json.Unmarshal(data, &composer); err != nil {
		return "", false
	}

	if _, ok := composer.Require["laravel/framework"]; ok {
		laravel = true
	}
	if _, ok := composer.RequireDev["laravel/framework"]; ok {
		laravel = true
	}
	return composer.Name, laravel
}

// readPackageJSON extracts the package name from package.json.
func readPackageJSON(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	return pkg.Name
}

// readPyproject extracts the project name from pyproject.toml, checking the
// PEP 621 [project] table first and the poetry table second.
func readPyproject(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	var doc struct {
		Project struct {
			Name string `toml:"name"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Name string `toml:"name"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return ""
	}

	if doc.Project.Name != "" {
		return doc.Project.Name
	}
	return doc.Tool.Poetry.Name
}
