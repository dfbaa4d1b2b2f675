package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/busla/webrag/internal/models"
	"go.uber.org/zap"
)

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 2500)
	got := Truncate(long, MaxContentLength)
	if len(got) != MaxContentLength+3 {
		t.Errorf("truncated length = %d, want %d", len(got), MaxContentLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated text should end with ellipsis")
	}

	short := strings.Repeat("b", 2000)
	if Truncate(short, MaxContentLength) != short {
		t.Error("text at the cap should be unmodified")
	}
	if Truncate("abc", 0) != "abc" {
		t.Error("non-positive cap should leave text unchanged")
	}
}

func TestTruncate_Multibyte(t *testing.T) {
	under := strings.Repeat("世", 1001)
	if Truncate(under, MaxContentLength) != under {
		t.Error("text under the cap in characters should be unmodified")
	}

	over := strings.Repeat("世", 2500)
	got := Truncate(over, MaxContentLength)
	if !utf8.ValidString(got) {
		t.Error("truncated text must stay valid UTF-8")
	}
	if n := utf8.RuneCountInString(got); n != MaxContentLength+3 {
		t.Errorf("truncated rune count = %d, want %d", n, MaxContentLength+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated text should end with ellipsis")
	}
}

func TestStripHTML(t *testing.T) {
	html := `<html><head><style>body{color:red}</style></head>
	<body><script>var x = 1;</script><p>Hello   world</p>
	<noscript>enable js</noscript><p>second   line</p></body></html>`
	got, err := StripHTML(html)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello world second line" {
		t.Errorf("StripHTML = %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	if got := CollapseWhitespace("  a \n\t b   c  "); got != "a b c" {
		t.Errorf("got %q", got)
	}
}

func TestExtract_Static(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		fmt.Fprint(w, "<html><body><script>bad()</script><p>page   content</p></body></html>")
	}))
	defer srv.Close()

	a := NewAdapter(zap.NewNop())
	res := a.Extract(context.Background(), srv.URL, models.ExtractionStatic)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Text != "page content" {
		t.Errorf("Text = %q", res.Text)
	}
	if res.Method != models.ExtractionStatic {
		t.Errorf("Method = %s", res.Method)
	}
}

func TestExtract_StaticFailureIsLocalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewAdapter(zap.NewNop())
	res := a.Extract(context.Background(), srv.URL, models.ExtractionStatic)
	if res.Err == nil {
		t.Fatal("expected error result")
	}
	if !strings.HasPrefix(res.Text, "Error scraping content: ") {
		t.Errorf("Text = %q, want error payload", res.Text)
	}
}

func TestExtract_StaticTruncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "<html><body>%s</body></html>", strings.Repeat("x", 3000))
	}))
	defer srv.Close()

	a := NewAdapter(zap.NewNop())
	res := a.Extract(context.Background(), srv.URL, models.ExtractionStatic)
	if len(res.Text) != MaxContentLength+3 {
		t.Errorf("len = %d, want %d", len(res.Text), MaxContentLength+3)
	}
}

type fakeRenderer struct {
	rendered *Rendered
	err      error
}

func (f *fakeRenderer) Render(_ context.Context, _ string) (*Rendered, error) {
	return f.rendered, f.err
}

func TestExtract_Dynamic(t *testing.T) {
	r := &fakeRenderer{rendered: &Rendered{
		Text:   "This is the rendered page text with plenty of characters in it.",
		Status: 200,
	}}
	a := NewAdapter(zap.NewNop(), WithRenderer(r))
	res := a.Extract(context.Background(), "http://example.com", models.ExtractionDynamic)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Method != models.ExtractionDynamic || res.Degraded {
		t.Errorf("Method=%s Degraded=%v", res.Method, res.Degraded)
	}
	if !strings.HasPrefix(res.Text, "This is the rendered page") {
		t.Errorf("Text = %q", res.Text)
	}
}

func TestExtract_DynamicStatusMapped(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{403, "Access blocked"},
		{404, "Page not found"},
		{429, "Rate limited"},
		{503, "Server error"},
		{418, "HTTP error 418"},
	}
	for _, tc := range cases {
		r := &fakeRenderer{rendered: &Rendered{Text: "ignored", Status: tc.status}}
		a := NewAdapter(zap.NewNop(), WithRenderer(r))
		res := a.Extract(context.Background(), "http://example.com", models.ExtractionDynamic)
		if res.Err == nil {
			t.Errorf("status %d: expected error result", tc.status)
		}
		if !strings.Contains(res.Text, tc.want) {
			t.Errorf("status %d: Text = %q, want substring %q", tc.status, res.Text, tc.want)
		}
	}
}

func TestExtract_DynamicShortTextFallsBackToHTML(t *testing.T) {
	r := &fakeRenderer{rendered: &Rendered{
		Text:   "tiny",
		HTML:   "<html><body><p>The actual content recovered from the raw rendered markup of the page.</p></body></html>",
		Status: 200,
	}}
	a := NewAdapter(zap.NewNop(), WithRenderer(r))
	res := a.Extract(context.Background(), "http://example.com", models.ExtractionDynamic)
	if !strings.Contains(res.Text, "actual content recovered") {
		t.Errorf("Text = %q, want HTML-stripped content", res.Text)
	}
}

func TestExtract_DynamicUnavailableDegradesToStatic(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>static body text</body></html>")
	}))
	defer srv.Close()

	// No renderer configured at all.
	a := NewAdapter(zap.NewNop())
	res := a.Extract(context.Background(), srv.URL, models.ExtractionDynamic)
	if !res.Degraded {
		t.Error("expected degraded result")
	}
	if res.Method != models.ExtractionStatic {
		t.Errorf("Method = %s, want static", res.Method)
	}
	if res.Text != "static body text" {
		t.Errorf("Text = %q", res.Text)
	}

	// Renderer that reports itself unavailable at call time.
	a = NewAdapter(zap.NewNop(), WithRenderer(&fakeRenderer{err: ErrRendererUnavailable}))
	res = a.Extract(context.Background(), srv.URL, models.ExtractionDynamic)
	if !res.Degraded || res.Method != models.ExtractionStatic {
		t.Errorf("Method=%s Degraded=%v", res.Method, res.Degraded)
	}
}

func TestExtract_DynamicRenderError(t *testing.T) {
	a := NewAdapter(zap.NewNop(), WithRenderer(&fakeRenderer{err: errors.New("tab crashed")}))
	res := a.Extract(context.Background(), "http://example.com", models.ExtractionDynamic)
	if res.Err == nil || !strings.HasPrefix(res.Text, "Error scraping content: ") {
		t.Errorf("Text = %q, Err = %v", res.Text, res.Err)
	}
}

func TestIsPDF(t *testing.T) {
	if !isPDF("application/pdf", "http://x/doc") {
		t.Error("content type should mark PDF")
	}
	if !isPDF("text/html", "http://x/paper.PDF?dl=1") {
		t.Error("extension should mark PDF")
	}
	if isPDF("text/html", "http://x/page") {
		t.Error("plain page is not a PDF")
	}
}
