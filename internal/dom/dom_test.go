package dom

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const page = `<!DOCTYPE html>
<html><head><title>Wizards</title></head>
<body>
<div id="header-container"><p>old header</p></div>
<div id="footer-container"></div>
<span class="event-date">TBD</span>
<p class="lead event-date">TBD</p>
<span class="event-time"></span>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return doc
}

func TestDocument_SetInnerHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		id      string
		markup  string
		want    string
		wantErr error
	}{
		{
			name:   "replaces existing content",
			id:     "header-container",
			markup: `<header id="header"><nav class="navmenu"></nav></header>`,
			want:   `<header id="header"><nav class="navmenu"></nav></header>`,
		},
		{
			name:   "fills empty container",
			id:     "footer-container",
			markup: `<footer>&copy; Wizards</footer>`,
			want:   `<footer>© Wizards</footer>`,
		},
		{
			name:   "plain text fragment",
			id:     "footer-container",
			markup: "just text",
			want:   "just text",
		},
		{
			name:    "missing container",
			id:      "rsvp-container",
			markup:  "<p>rsvp</p>",
			wantErr: ErrElementNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := mustParse(t)
			err := doc.SetInnerHTML(tt.id, tt.markup)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SetInnerHTML() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetInnerHTML() unexpected error: %v", err)
			}

			got, err := doc.InnerHTML(tt.id)
			if err != nil {
				t.Fatalf("InnerHTML() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("InnerHTML(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestDocument_SetInnerHTML_MissingLeavesTreeUnchanged(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	before := doc.String()

	if err := doc.SetInnerHTML("nope", "<p>x</p>"); err == nil {
		t.Fatal("SetInnerHTML() expected error for missing container")
	}

	if diff := cmp.Diff(before, doc.String()); diff != "" {
		t.Errorf("document changed (-before +after):\n%s", diff)
	}
}

func TestDocument_HasElement(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)

	if !doc.HasElement("header-container") {
		t.Error("HasElement(header-container) = false, want true")
	}
	if doc.HasElement("hero-container") {
		t.Error("HasElement(hero-container) = true, want false")
	}
}

func TestDocument_EmptyIDMatchesNothing(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	before := doc.String()

	if doc.HasElement("") {
		t.Error("HasElement(\"\") = true, want false")
	}
	if _, err := doc.InnerHTML(""); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("InnerHTML(\"\") error = %v, want ErrElementNotFound", err)
	}
	if err := doc.SetInnerHTML("", "<p>x</p>"); !errors.Is(err, ErrElementNotFound) {
		t.Errorf("SetInnerHTML(\"\") error = %v, want ErrElementNotFound", err)
	}
	if diff := cmp.Diff(before, doc.String()); diff != "" {
		t.Errorf("document changed (-before +after):\n%s", diff)
	}
}

func TestDocument_SetTextByClass(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)

	n := doc.SetTextByClass("event-date", "Saturday, June 14")
	if n != 2 {
		t.Fatalf("SetTextByClass() updated %d elements, want 2", n)
	}

	got := doc.TextByClass("event-date")
	want := []string{"Saturday, June 14", "Saturday, June 14"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TextByClass() mismatch (-want +got):\n%s", diff)
	}

	if n := doc.SetTextByClass("event-address", "x"); n != 0 {
		t.Errorf("SetTextByClass(unknown) = %d, want 0", n)
	}
}

func TestDocument_SetTextByClass_EscapesMarkup(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)
	doc.SetTextByClass("event-time", "<b>6pm</b>")

	out := doc.String()
	if strings.Contains(out, "<b>6pm</b>") {
		t.Error("text content should be escaped, found raw markup")
	}
	if !strings.Contains(out, "&lt;b&gt;6pm&lt;/b&gt;") {
		t.Errorf("rendered document missing escaped text: %s", out)
	}
}

func TestDocument_ConcurrentWrites(t *testing.T) {
	t.Parallel()

	doc := mustParse(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = doc.SetInnerHTML("header-container", "<p>h</p>")
		}()
		go func() {
			defer wg.Done()
			_ = doc.SetInnerHTML("footer-container", "<p>f</p>")
		}()
	}
	wg.Wait()

	got, _ := doc.InnerHTML("header-container")
	if got != "<p>h</p>" {
		t.Errorf("header-container = %q, want %q", got, "<p>h</p>")
	}
}
