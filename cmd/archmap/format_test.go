package main

import (
	"strings"
	"testing"
	"time"

	"archmap/internal/arch"
	"archmap/internal/impact"
	"archmap/internal/storage"
)

func TestFormatResponse_JSON(t *testing.T) {
	resp := map[string]interface{}{
		"key": "value",
		"num": 42,
	}

	result, err := FormatResponse(resp, FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, `"key": "value"`) {
		t.Error("JSON output missing expected key")
	}
	if !strings.Contains(result, `"num": 42`) {
		t.Error("JSON output missing expected number")
	}
}

func TestFormatResponse_YAML(t *testing.T) {
	resp := struct {
		Name  string
		Value int
	}{
		Name:  "test",
		Value: 123,
	}

	result, err := FormatResponse(resp, FormatYAML)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "name: test") {
		t.Error("YAML output missing name field")
	}
	if !strings.Contains(result, "value: 123") {
		t.Error("YAML output missing value field")
	}
}

func TestFormatResponse_UnsupportedFormat(t *testing.T) {
	resp := map[string]string{"key": "value"}

	_, err := FormatResponse(resp, "xml")
	if err == nil {
		t.Error("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("error should mention unsupported format, got: %v", err)
	}
}

func TestFormatText_UnknownType(t *testing.T) {
	// Unknown types fall back to JSON
	resp := struct {
		Foo string `json:"foo"`
	}{Foo: "bar"}

	result, err := formatText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, `"foo": "bar"`) {
		t.Error("missing JSON content")
	}
}

func TestFormatBuildText(t *testing.T) {
	resp := &BuildResponseCLI{
		Project: "shop",
		Kind:    "laravel",
		Files:   3,
		Edges:   2,
		Roles:   map[string]int{"controller": 1, "model": 2},
		Patterns: []arch.Pattern{
			{Name: "mvc", Files: []string{"a.php", "b.php"}, Description: "Model-View-Controller architecture"},
		},
		DurationMS: 42,
	}

	result, err := formatBuildText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Build Summary - shop (laravel)") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "Files:    3") {
		t.Error("missing file count")
	}
	if !strings.Contains(result, "Edges:    2") {
		t.Error("missing edge count")
	}
	if !strings.Contains(result, "Duration: 42ms") {
		t.Error("missing duration")
	}
	if !strings.Contains(result, "controller") || !strings.Contains(result, "model") {
		t.Error("missing role counts")
	}
	if !strings.Contains(result, "MVC: Model-View-Controller architecture (2 files)") {
		t.Error("missing pattern line")
	}
	if strings.Contains(result, "Restored from cache") {
		t.Error("should not report a cache hit")
	}
}

func TestFormatBuildText_CacheHitAndTruncated(t *testing.T) {
	resp := &BuildResponseCLI{
		Project:   "shop",
		Kind:      "php",
		CacheHit:  true,
		Truncated: true,
	}

	result, err := formatBuildText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Restored from cache") {
		t.Error("missing cache hit line")
	}
	if !strings.Contains(result, "results are partial") {
		t.Error("missing truncation line")
	}
}

func TestFormatContextText(t *testing.T) {
	resp := &ContextResponseCLI{
		File:    "app/Models/User.php",
		Role:    "model",
		Context: "\n\nArchitectural Context for app/Models/User.php:\n- File Role: Model\n",
	}

	result, err := formatContextText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.HasPrefix(result, "\n") {
		t.Error("leading whitespace should be trimmed")
	}
	if !strings.Contains(result, "Architectural Context for app/Models/User.php:") {
		t.Error("missing context header")
	}
}

func TestFormatContextText_Empty(t *testing.T) {
	resp := &ContextResponseCLI{File: "app/Unknown.php"}

	result, err := formatContextText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result != "No context available for app/Unknown.php" {
		t.Errorf("unexpected empty-context message: %q", result)
	}
}

func TestFormatRelatedText(t *testing.T) {
	resp := &RelatedResponseCLI{
		File:  "app/Models/User.php",
		Depth: 2,
		Total: 2,
		Related: []RelatedFileCLI{
			{Path: "app/Http/Controllers/UserController.php", Role: "controller"},
			{Path: "app/Services/UserService.php", Role: "service"},
		},
	}

	result, err := formatRelatedText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Related Files for: app/Models/User.php") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "Found 2 files within depth 2") {
		t.Error("missing count line")
	}
	if !strings.Contains(result, "app/Http/Controllers/UserController.php [controller]") {
		t.Error("missing related file with role")
	}
}

func TestFormatImpactText(t *testing.T) {
	resp := &ImpactResponseCLI{
		File:     "app/Models/User.php",
		Summary:  &impact.Summary{Path: "app/Models/User.php", Risk: impact.RiskHigh},
		Analysis: "\n\nImpact Analysis for app/Models/User.php:\n- Risk Level: high\n",
	}

	result, err := formatImpactText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Impact Analysis for app/Models/User.php:") {
		t.Error("missing analysis block")
	}
}

func TestFormatImpactText_ReportWins(t *testing.T) {
	resp := &ImpactResponseCLI{
		File:     "app/Models/User.php",
		Analysis: "analysis block",
		Report:   "Change Impact Summary for app/Models/User.php:\nrisk line",
	}

	result, err := formatImpactText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Change Impact Summary") {
		t.Error("missing report")
	}
	if strings.Contains(result, "analysis block") {
		t.Error("report output should not include the analysis block")
	}
}

func TestFormatImpactText_Empty(t *testing.T) {
	resp := &ImpactResponseCLI{File: "app/Unknown.php"}

	result, err := formatImpactText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result != "No impact information for app/Unknown.php" {
		t.Errorf("unexpected empty-impact message: %q", result)
	}
}

func TestFormatRefsText_Empty(t *testing.T) {
	resp := &RefsResponseCLI{Symbol: "User"}

	result, err := formatRefsText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result != "No references found for `User`" {
		t.Errorf("unexpected empty-refs message: %q", result)
	}
}

func TestFormatPatternsText(t *testing.T) {
	resp := &PatternsResponseCLI{
		Patterns: []arch.Pattern{
			{Name: "mvc", Files: []string{"a.php"}, Description: "Model-View-Controller architecture"},
		},
		Structure: &arch.StructureReport{
			Primary: "modular",
			Patterns: []arch.StructurePattern{
				{Name: "modular", Confidence: 0.8, Evidence: []string{"modules/Billing"}},
			},
			TopLevel: []arch.DirectoryCount{
				{Dir: "app", Files: 12},
			},
		},
	}

	result, err := formatPatternsText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Architecture Patterns") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "MVC: Model-View-Controller architecture") {
		t.Error("missing role-derived pattern")
	}
	if !strings.Contains(result, "Primary: modular") {
		t.Error("missing primary structure")
	}
	if !strings.Contains(result, "modular (confidence 0.80)") {
		t.Error("missing structure confidence")
	}
	if !strings.Contains(result, "- modules/Billing") {
		t.Error("missing evidence line")
	}
	if !strings.Contains(result, "app") || !strings.Contains(result, "12 files") {
		t.Error("missing top-level directory count")
	}
}

func TestFormatPatternsText_NoDetections(t *testing.T) {
	resp := &PatternsResponseCLI{}

	result, err := formatPatternsText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "No architectural patterns detected") {
		t.Error("missing no-detections line")
	}
}

func TestFormatCacheStatsText(t *testing.T) {
	resp := &CacheStatsResponseCLI{
		Dir:       "/tmp/proj/.archmap/cache",
		Entries:   3,
		SizeBytes: 2048,
		Hits:      1,
		Misses:    2,
	}

	result, err := formatCacheStatsText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Cache Statistics") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "/tmp/proj/.archmap/cache") {
		t.Error("missing directory")
	}
	if !strings.Contains(result, "Entries:   3") {
		t.Error("missing entry count")
	}
	if !strings.Contains(result, "2.0 KiB") {
		t.Error("missing human-readable size")
	}
}

func TestFormatHistoryText(t *testing.T) {
	resp := &HistoryResponseCLI{
		Total: 5,
		Builds: []storage.BuildRecord{
			{
				StartedAt:  time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
				Files:      120,
				Edges:      340,
				Patterns:   2,
				DurationMS: 45,
				CacheHit:   true,
			},
			{
				StartedAt:  time.Date(2026, 8, 24, 9, 30, 0, 0, time.UTC),
				Files:      118,
				Edges:      333,
				Patterns:   2,
				DurationMS: 900,
				Truncated:  true,
			},
		},
	}

	result, err := formatHistoryText(resp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(result, "Build History") {
		t.Error("missing header")
	}
	if !strings.Contains(result, "Showing 2 of 5 builds") {
		t.Error("missing count line")
	}
	if !strings.Contains(result, "1. 2026-08-25 10:00:00  120 files, 340 edges, 2 patterns  45ms  cached") {
		t.Error("missing first build row")
	}
	if !strings.Contains(result, "truncated") {
		t.Error("missing truncated marker")
	}
}

func TestSortedRoleNames(t *testing.T) {
	roles := map[string]int{"view": 3, "controller": 1, "model": 2}

	names := sortedRoleNames(roles)
	want := []string{"controller", "model", "view"}
	if len(names) != len(want) {
		t.Fatalf("Expected %d names, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("Expected %q at position %d, got %q", name, i, names[i])
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1048576, "1.0 MiB"},
		{1073741824, "1.0 GiB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatBytes(tt.bytes)
			if result != tt.expected {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, result, tt.expected)
			}
		})
	}
}
