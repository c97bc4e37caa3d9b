package main

// Notes:
// - ROD_BROWSER_BIN is always set through the test environment so the
//   Chrome check never depends on what the machine has installed.

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
)

func missingBrowser(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "no-chrome")
}

func TestRunDoctor_EmbeddedSite(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(map[string]string{"ROD_BROWSER_BIN": missingBrowser(t)})
	result := runDoctor(context.Background(), env, commonFlags{})

	if result.Site.Source != "embedded" {
		t.Errorf("Source = %q, want embedded", result.Site.Source)
	}
	if result.Site.Page != "index.html" {
		t.Errorf("Page = %q", result.Site.Page)
	}
	if result.Site.Fragments != 8 || len(result.Site.Missing) != 0 {
		t.Errorf("Fragments = %d, Missing = %v; want 8 available", result.Site.Fragments, result.Site.Missing)
	}
	if result.Chrome.Found {
		t.Error("Chrome.Found = true for a nonexistent ROD_BROWSER_BIN")
	}
	if result.Status != "errors" {
		t.Errorf("Status = %q, want errors", result.Status)
	}
	if !containsPrefix(result.Errors, "Chrome not found at") {
		t.Errorf("Errors = %v", result.Errors)
	}
	if !result.System.TempWritable {
		t.Error("temp dir reported unwritable")
	}
}

func TestRunDoctor_MissingFragments(t *testing.T) {
	t.Parallel()

	root := writeSite(t, map[string]string{
		"index.html":       `<div id="one"></div>`,
		"parts/one.html":   "<p>one</p>",
		"clubsite.yaml":    "fragments:\n  - id: one\n    path: parts/one.html\n  - id: two\n    path: parts/two.html\n",
		"data/events.json": "{}",
	})

	env, _, _ := testEnv(map[string]string{
		"CLUBSITE_ROOT":   root,
		"ROD_BROWSER_BIN": missingBrowser(t),
	})
	result := runDoctor(context.Background(), env, commonFlags{config: filepath.Join(root, "clubsite.yaml")})

	if result.Site.Source != root {
		t.Errorf("Source = %q, want %q", result.Site.Source, root)
	}
	if result.Site.Fragments != 1 {
		t.Errorf("Fragments = %d, want 1", result.Site.Fragments)
	}
	if len(result.Site.Missing) != 1 || result.Site.Missing[0] != "parts/two.html" {
		t.Errorf("Missing = %v", result.Site.Missing)
	}
	if !containsPrefix(result.Warnings, "Fragments unavailable: parts/two.html") {
		t.Errorf("Warnings = %v", result.Warnings)
	}
}

func TestRunDoctor_BadConfiguration(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(map[string]string{
		"CLUBSITE_STRATEGY": "eager",
		"ROD_BROWSER_BIN":   missingBrowser(t),
	})
	result := runDoctor(context.Background(), env, commonFlags{})

	if result.Site.Source != "" {
		t.Errorf("Source = %q, want empty", result.Site.Source)
	}
	if !containsPrefix(result.Errors, "Site configuration:") {
		t.Errorf("Errors = %v", result.Errors)
	}

	var buf bytes.Buffer
	printDoctorResult(&buf, result)
	for _, want := range []string{"[ERROR] Not configured", "Status: Not ready"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("text report missing %q:\n%s", want, buf.String())
		}
	}
}

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv(map[string]string{
		"ROD_BROWSER_BIN": missingBrowser(t),
		"PORT":            "8080",
	})
	code := runDoctorCmd(context.Background(), []string{"--json"}, env)
	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d", code, ExitGeneral)
	}

	var got doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout.String())
	}
	if got.Site.Source != "embedded" || got.Site.Fragments != 8 {
		t.Errorf("site = %+v", got.Site)
	}
	if got.Env.Port != "8080" {
		t.Errorf("port = %q", got.Env.Port)
	}
	if got.Status != "errors" {
		t.Errorf("status = %q", got.Status)
	}
}

func TestRunDoctorCmd_Flags(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil)
	if code := runDoctorCmd(context.Background(), []string{"--help"}, env); code != ExitSuccess {
		t.Errorf("--help exit code = %d, want 0", code)
	}
	env, _, _ = testEnv(nil)
	if code := runDoctorCmd(context.Background(), []string{"--bogus"}, env); code != ExitUsage {
		t.Errorf("--bogus exit code = %d, want %d", code, ExitUsage)
	}
}

func TestCheckEnvironment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		vars          map[string]string
		wantContainer bool
		wantCI        bool
		wantWarning   bool
	}{
		{"override", map[string]string{"CLUBSITE_CONTAINER": "1"}, true, false, true},
		{"podman", map[string]string{"container": "podman"}, true, false, true},
		{"kubernetes sandbox off", map[string]string{"KUBERNETES_SERVICE_HOST": "10.0.0.1", "ROD_NO_SANDBOX": "1"}, true, false, false},
		{"github actions", map[string]string{"GITHUB_ACTIONS": "true"}, false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			getenv := func(k string) string { return tt.vars[k] }
			result := &doctorResult{Env: envInfo{NoSandbox: getenv("ROD_NO_SANDBOX")}}
			checkEnvironment(result, getenv)

			// /.dockerenv on the test machine can only add a container signal.
			if tt.wantContainer && !result.Env.Container {
				t.Error("container not detected")
			}
			if result.Env.CI != tt.wantCI {
				t.Errorf("CI = %v, want %v", result.Env.CI, tt.wantCI)
			}
			if tt.wantWarning && len(result.Warnings) == 0 {
				t.Error("expected ROD_NO_SANDBOX warning")
			}
			if !tt.wantWarning && len(result.Warnings) != 0 {
				t.Errorf("unexpected warnings %v", result.Warnings)
			}
		})
	}
}

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	r := &doctorResult{
		Status:   "warnings",
		Site:     siteInfo{Source: "embedded", Page: "index.html", Fragments: 7, Missing: []string{"components/rules.html"}},
		Chrome:   chromeInfo{Found: true, Path: "/usr/bin/chromium", Version: "Chromium 126", Sandbox: false},
		Env:      envInfo{OS: "linux", Arch: "amd64", Container: true, ContainerHint: "/.dockerenv", Port: "8080"},
		System:   systemInfo{TempWritable: true},
		Warnings: []string{"Fragments unavailable: components/rules.html"},
	}

	var buf bytes.Buffer
	printDoctorResult(&buf, r)
	out := buf.String()

	for _, want := range []string{
		"[OK] Source: embedded",
		"[OK] Fragments: 7 available",
		"[WARN] Missing: components/rules.html",
		"[OK] Found at /usr/bin/chromium",
		"[OK] Sandbox: disabled (ROD_NO_SANDBOX=1)",
		"[OK] PORT: 8080",
		"[OK] Container: detected (/.dockerenv)",
		"Status: Ready with warnings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func containsPrefix(list []string, prefix string) bool {
	for _, s := range list {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
