package main

// Notes:
// - templates/page.html in the embedded site uses PAGE_TITLE, CLUB_NAME
//   and PAGE_BODY.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wizardswiffle/clubsite"
	"github.com/wizardswiffle/clubsite/internal/dateutil"
)

func TestParseSetValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{"empty", nil, map[string]string{}, false},
		{"single", []string{"CLUB_NAME=Wizards"}, map[string]string{"CLUB_NAME": "Wizards"}, false},
		{"value keeps equals", []string{"QUERY=a=b"}, map[string]string{"QUERY": "a=b"}, false},
		{"empty value", []string{"PAGE_BODY="}, map[string]string{"PAGE_BODY": ""}, false},
		{"last wins", []string{"A=1", "A=2"}, map[string]string{"A": "2"}, false},
		{"key trimmed", []string{" A =1"}, map[string]string{"A": "1"}, false},
		{"missing equals", []string{"CLUB_NAME"}, nil, true},
		{"empty key", []string{"=value"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseSetValues(tt.pairs)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSetting) {
					t.Fatalf("error = %v, want ErrInvalidSetting", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunTemplate(t *testing.T) {
	t.Parallel()

	allSet := []string{
		"templates/page.html",
		"--set", "PAGE_TITLE=Rules",
		"--set", "CLUB_NAME=Wizards",
		"-s", "PAGE_BODY=<p>Updated auto</p>",
	}

	t.Run("stdout", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(nil)
		if err := runTemplate(context.Background(), allSet, env); err != nil {
			t.Fatalf("runTemplate: %v", err)
		}
		out := stdout.String()
		for _, want := range []string{"<title>Rules | Wizards</title>", "<h1>Rules</h1>", "<p>Updated auto</p>"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "{{") {
			t.Errorf("output still has placeholders:\n%s", out)
		}
		if stderr.Len() != 0 {
			t.Errorf("stderr = %q", stderr.String())
		}
	})

	t.Run("auto date value", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(nil)
		args := []string{"templates/page.html", "-s", "PAGE_TITLE=auto:weekday", "-s", "CLUB_NAME=x", "-s", "PAGE_BODY="}
		if err := runTemplate(context.Background(), args, env); err != nil {
			t.Fatalf("runTemplate: %v", err)
		}
		if !strings.Contains(stdout.String(), "<h1>Saturday, June 14</h1>") {
			t.Errorf("auto date not resolved:\n%s", stdout.String())
		}
	})

	t.Run("unresolved warns", func(t *testing.T) {
		t.Parallel()

		env, stdout, stderr := testEnv(nil)
		if err := runTemplate(context.Background(), []string{"templates/page.html", "-s", "PAGE_TITLE=Rules"}, env); err != nil {
			t.Fatalf("runTemplate: %v", err)
		}
		if !strings.Contains(stdout.String(), "{{CLUB_NAME}}") {
			t.Errorf("unresolved token should be left verbatim:\n%s", stdout.String())
		}
		if !strings.Contains(stderr.String(), "CLUB_NAME, PAGE_BODY") {
			t.Errorf("warning should list unresolved names: %q", stderr.String())
		}
	})

	t.Run("unresolved strict", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv(nil)
		err := runTemplate(context.Background(), []string{"templates/page.html", "--strict"}, env)
		if !errors.Is(err, ErrUnresolved) {
			t.Fatalf("error = %v, want ErrUnresolved", err)
		}
		if exitCodeFor(err) != ExitUsage {
			t.Errorf("exit code = %d, want %d", exitCodeFor(err), ExitUsage)
		}
		if stdout.Len() != 0 {
			t.Errorf("strict failure still wrote output")
		}
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()

		out := filepath.Join(t.TempDir(), "rules", "index.html")
		env, stdout, _ := testEnv(nil)
		if err := runTemplate(context.Background(), append(allSet, "-o", out), env); err != nil {
			t.Fatalf("runTemplate: %v", err)
		}
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !strings.Contains(string(data), "<h1>Rules</h1>") {
			t.Errorf("file content:\n%s", data)
		}
		if got := stdout.String(); got != "templates/page.html -> "+out+"\n" {
			t.Errorf("stdout = %q", got)
		}
	})
}

func TestRunTemplate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		target   error
		wantCode int
	}{
		{"no path", nil, ErrInvalidSetting, ExitUsage},
		{"two paths", []string{"a.html", "b.html"}, ErrInvalidSetting, ExitUsage},
		{"bad set", []string{"templates/page.html", "-s", "novalue"}, ErrInvalidSetting, ExitUsage},
		{"bad date format", []string{"templates/page.html", "-s", "WHEN=auto:[YYYY"}, dateutil.ErrInvalidDateFormat, ExitUsage},
		{"missing template", []string{"templates/nope.html"}, clubsite.ErrRetrieval, ExitIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, _, _ := testEnv(nil)
			err := runTemplate(context.Background(), append(tt.args, "-q"), env)
			if !errors.Is(err, tt.target) {
				t.Fatalf("error = %v, want %v", err, tt.target)
			}
			if got := exitCodeFor(err); got != tt.wantCode {
				t.Errorf("exit code = %d, want %d", got, tt.wantCode)
			}
		})
	}
}
