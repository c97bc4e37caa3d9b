package clubsite

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/logging"
)

const hostPage = `<!DOCTYPE html><html><head><title>t</title></head><body>
<div id="header-container"></div>
<div id="hero-container"></div>
<div id="footer-container"></div>
</body></html>`

var shortManifest = []FragmentRequest{
	{ContainerID: "header-container", SourcePath: "components/header.html"},
	{ContainerID: "hero-container", SourcePath: "components/hero.html"},
	{ContainerID: "footer-container", SourcePath: "components/footer.html"},
}

func mapFetcher(files map[string]string) Fetcher {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return assets.NewFSLoader(fsys)
}

func newSite(t *testing.T, opts ...Option) *Site {
	t.Helper()
	s, err := New(opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestAssemble_EmbeddedSite(t *testing.T) {
	t.Parallel()

	res, err := newSite(t).Assemble(context.Background(), Input{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(res.Outcomes) != len(DefaultManifest()) {
		t.Fatalf("outcomes = %d, want %d", len(res.Outcomes), len(DefaultManifest()))
	}
	if failed := res.Failed(); len(failed) != 0 {
		t.Errorf("failed outcomes: %+v", failed)
	}
	if res.BindErr != nil {
		t.Errorf("BindErr = %v", res.BindErr)
	}
	if res.Bound == 0 {
		t.Error("no elements bound")
	}

	html := string(res.HTML)
	for _, want := range []string{
		`<h1 class="sitename">Wizards Wiffle Ball Club</h1>`,
		"Saturday, June 14",
		"Riverside Park - 1200 River Rd",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("assembled page missing %q", want)
		}
	}
	if strings.Contains(html, ">TBD<") {
		t.Error("placeholder text TBD left in a bound element")
	}
}

func TestAssemble_PartialFailure(t *testing.T) {
	t.Parallel()

	rec := logging.NewRecorder()
	s := newSite(t, WithoutBindings(), WithFetcher(mapFetcher(map[string]string{
		"index.html":             hostPage,
		"components/header.html": "<header>Wizards</header>",
		"components/footer.html": "<footer>Bye</footer>",
	})))

	res, err := s.Assemble(rec.Context(context.Background()), Input{Manifest: shortManifest})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	failed := res.Failed()
	if len(failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(failed))
	}
	if failed[0].Request.ContainerID != "hero-container" || !errors.Is(failed[0].Err, ErrRetrieval) {
		t.Errorf("failed outcome = %+v", failed[0])
	}
	if n := rec.Count(slog.LevelError); n != 1 {
		t.Errorf("error records = %d, want 1", n)
	}

	html := string(res.HTML)
	if !strings.Contains(html, `<div id="hero-container"></div>`) {
		t.Error("hero container should be untouched")
	}
	if !strings.Contains(html, "<footer>Bye</footer>") {
		t.Error("footer not injected")
	}
}

func TestAssemble_MissingContainer(t *testing.T) {
	t.Parallel()

	s := newSite(t, WithoutBindings(), WithStrategy(Sequential), WithFetcher(mapFetcher(map[string]string{
		"components/header.html": "<header>Wizards</header>",
	})))

	res, err := s.Assemble(context.Background(), Input{
		Page:     `<div id="header-container"></div>`,
		Manifest: []FragmentRequest{{ContainerID: "nav-container", SourcePath: "components/header.html"}},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.Outcomes) != 1 || !errors.Is(res.Outcomes[0].Err, ErrContainerMissing) {
		t.Errorf("outcomes = %+v", res.Outcomes)
	}
}

func TestAssemble_Transforms(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"index.html":             hostPage,
		"components/header.html": `<header onclick="x()">{{CLUB_NAME}}</header>`,
		"components/hero.md":     "# {{CLUB_NAME}}\n\nNext game ==Saturday==",
		"components/footer.html": "<footer>{{CLUB_NAME}}</footer>",
	}
	manifest := []FragmentRequest{
		{ContainerID: "header-container", SourcePath: "components/header.html"},
		{ContainerID: "hero-container", SourcePath: "components/hero.md"},
		{ContainerID: "footer-container", SourcePath: "components/footer.html"},
	}

	s := newSite(t,
		WithoutBindings(),
		WithFetcher(mapFetcher(files)),
		WithMarkdown(true),
		WithSanitize(true),
		WithValues(map[string]TemplateContext{
			"header-container": {"CLUB_NAME": "Wizards"},
			"hero-container":   {"CLUB_NAME": "Wizards WBC"},
		}),
	)

	res, err := s.Assemble(context.Background(), Input{Manifest: manifest})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if failed := res.Failed(); len(failed) != 0 {
		t.Fatalf("failed: %+v", failed)
	}

	html := string(res.HTML)
	for _, want := range []string{
		"<header>Wizards</header>",
		"Wizards WBC</h1>",
		"<mark>Saturday</mark>",
		"<footer>{{CLUB_NAME}}</footer>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("page missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "onclick") {
		t.Error("event handler survived sanitizing")
	}
}

func TestAssemble_ValuesSubstitutedBeforeMarkdown(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"index.html":         `<div id="hero-container"></div>`,
		"components/hero.md": "Next opponent: {{OPPONENT}}",
	}

	s := newSite(t,
		WithoutBindings(),
		WithFetcher(mapFetcher(files)),
		WithMarkdown(true),
		WithValues(map[string]TemplateContext{
			"hero-container": {"OPPONENT": "*Rockets*"},
		}),
	)

	res, err := s.Assemble(context.Background(), Input{
		Manifest: []FragmentRequest{{ContainerID: "hero-container", SourcePath: "components/hero.md"}},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	html := string(res.HTML)
	if !strings.Contains(html, "<em>Rockets</em>") {
		t.Errorf("substituted Markdown not converted:\n%s", html)
	}
	if strings.Contains(html, "*Rockets*") {
		t.Errorf("raw Markdown survived:\n%s", html)
	}
}

func TestAssemble_BaseURL(t *testing.T) {
	t.Parallel()

	origin := httptest.NewServer(http.FileServerFS(fstest.MapFS{
		"index.html":          {Data: []byte(`<div id="location-container"></div>`)},
		"components/map.html": {Data: []byte(`<img src="img/field.png"/>`)},
		"data/events.json":    {Data: []byte(`{"nextGame":{"date":"d","time":"t","location":"l","address":"a"}}`)},
	}))
	defer origin.Close()

	s := newSite(t, WithBaseURL(origin.URL), WithHTTPClient(origin.Client()))
	if _, ok := s.FS(); ok {
		t.Error("FS() should be unavailable for an HTTP origin")
	}

	res, err := s.Assemble(context.Background(), Input{
		Manifest: []FragmentRequest{{ContainerID: "location-container", SourcePath: "components/map.html"}},
	})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := `<img src="` + origin.URL + `/img/field.png"/>`
	if !strings.Contains(string(res.HTML), want) {
		t.Errorf("page missing %q:\n%s", want, res.HTML)
	}
}

func TestAssemble_AssetPathFallback(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "components"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "components", "hero.html"), []byte("<section>Custom hero</section>"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := newSite(t, WithAssetPath(dir))
	if _, ok := s.FS(); !ok {
		t.Error("FS() should be available for a directory source")
	}

	res, err := s.Assemble(context.Background(), Input{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if failed := res.Failed(); len(failed) != 0 {
		t.Errorf("failed: %+v", failed)
	}
	html := string(res.HTML)
	if !strings.Contains(html, "Custom hero") {
		t.Error("custom fragment not used")
	}
	if !strings.Contains(html, `class="sitename"`) {
		t.Error("embedded fallback fragment not used")
	}
}

func TestAssemble_ExtraData(t *testing.T) {
	t.Parallel()

	s := newSite(t, WithExtraData("data/rules.json", "data/field-info.json", "data/nope.json"))
	res, err := s.Assemble(context.Background(), Input{})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.Data) != 2 {
		t.Errorf("loaded data files = %d, want 2", len(res.Data))
	}
	if got := res.Data["data/rules.json"].Get("innings").Int(); got != 6 {
		t.Errorf("innings = %d, want 6", got)
	}
}

func TestAssemble_CustomBindings(t *testing.T) {
	t.Parallel()

	s := newSite(t,
		WithFetcher(mapFetcher(map[string]string{
			"data/club.json": `{"club":{"name":"Wizards","founded":2019}}`,
		})),
		WithEventsData("data/club.json", "club"),
		WithBindings(Binding{Class: "club", Fields: []string{"name", "founded"}, Separator: ", est. "}),
	)

	res, err := s.Assemble(context.Background(), Input{Page: `<p class="club"></p>`, Manifest: []FragmentRequest{}})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.Bound != 1 || !strings.Contains(string(res.HTML), "Wizards, est. 2019") {
		t.Errorf("bound = %d, html = %s", res.Bound, res.HTML)
	}
}

func TestAssemble_Errors(t *testing.T) {
	t.Parallel()

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := newSite(t).Assemble(ctx, Input{}); !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})

	t.Run("missing host page", func(t *testing.T) {
		t.Parallel()

		_, err := newSite(t).Assemble(context.Background(), Input{PagePath: "about.html"})
		if !errors.Is(err, ErrRetrieval) || !errors.Is(err, assets.ErrNotFound) {
			t.Errorf("err = %v, want retrieval failure", err)
		}
	})
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr error
	}{
		{"conflicting sources", []Option{WithAssetPath(t.TempDir()), WithBaseURL("http://localhost:3000")}, ErrConflictingSource},
		{"missing asset dir", []Option{WithAssetPath(filepath.Join(t.TempDir(), "nope"))}, ErrInvalidAssetPath},
		{"relative base URL", []Option{WithBaseURL("/site")}, ErrInvalidBaseURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.opts...); !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	s := newSite(t)

	if got := s.ProcessTemplate("Welcome, {{NAME}}!", TemplateContext{"NAME": "Wizards"}); got != "Welcome, Wizards!" {
		t.Errorf("ProcessTemplate = %q", got)
	}

	out, err := s.LoadAndProcessTemplate(context.Background(), "templates/page.html", TemplateContext{
		"PAGE_TITLE": "Rules",
		"CLUB_NAME":  "Wizards",
	})
	if err != nil {
		t.Fatalf("LoadAndProcessTemplate: %v", err)
	}
	if !strings.Contains(out, "<title>Rules | Wizards</title>") {
		t.Errorf("title not substituted:\n%s", out)
	}
	if diff := cmp.Diff([]string{"PAGE_BODY"}, s.UnresolvedPlaceholders(out, nil)); diff != "" {
		t.Errorf("unresolved (-want +got):\n%s", diff)
	}

	if _, err := s.LoadAndProcessTemplate(context.Background(), "templates/missing.html", nil); !errors.Is(err, ErrRetrieval) {
		t.Errorf("err = %v, want ErrRetrieval", err)
	}
}

func TestWithDelims(t *testing.T) {
	t.Parallel()

	s := newSite(t, WithDelims("[[", "]]"))
	if got := s.ProcessTemplate("[[A]] {{A}}", TemplateContext{"A": "x"}); got != "x {{A}}" {
		t.Errorf("ProcessTemplate = %q", got)
	}
}

func TestWritePage(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	var buf strings.Builder
	err := s.WritePage(context.Background(), "templates/page.html", &buf, TemplateContext{
		"PAGE_TITLE": "Field",
		"CLUB_NAME":  "Wizards",
		"PAGE_BODY":  "<p>Bring a glove.</p>",
	})
	if err != nil {
		t.Fatalf("WritePage: %v", err)
	}
	if !strings.Contains(buf.String(), "<p>Bring a glove.</p>") {
		t.Errorf("body not written:\n%s", buf.String())
	}
	if got := s.UnresolvedPlaceholders(buf.String(), nil); len(got) != 0 {
		t.Errorf("unresolved = %v, want none", got)
	}
}
