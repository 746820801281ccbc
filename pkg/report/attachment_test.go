package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

func TestResolverLink(t *testing.T) {
	base := t.TempDir()
	r, err := NewResolver(base, filepath.Join(base, "test-results"), false)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	tests := []struct {
		name string
		a    results.Attachment
		want string
	}{
		{"relative path", results.Attachment{Path: "test-results/t2/shot.png"}, "t2/shot.png"},
		{"sibling dir", results.Attachment{Path: "outputfolder/invoice.txt"}, "../outputfolder/invoice.txt"},
		{"backslashes", results.Attachment{Path: `test-results\t2\shot.png`}, "t2/shot.png"},
		{"body fallback", results.Attachment{Body: "test-results/trace.zip"}, "trace.zip"},
		{"name fallback", results.Attachment{Name: "test-results/video.webm"}, "video.webm"},
		{"path wins", results.Attachment{Path: "test-results/a.png", Body: "b.png", Name: "c.png"}, "a.png"},
		{"windows absolute", results.Attachment{Path: `C:\out\shot.png`}, "shot.png"},
		{"empty", results.Attachment{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Link(tt.a)
			if got != tt.want {
				t.Errorf("Link() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, `\`) {
				t.Errorf("Link() = %q contains a backslash", got)
			}
		})
	}
}

func TestResolverLink_AbsolutePOSIX(t *testing.T) {
	base := t.TempDir()
	r, err := NewResolver(base, filepath.Join(base, "report"), false)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	got := r.Link(results.Attachment{Path: filepath.Join(base, "shots", "home.png")})
	if got != "../shots/home.png" {
		t.Errorf("Link() = %q, want ../shots/home.png", got)
	}
	if filepath.IsAbs(got) {
		t.Errorf("Link() leaked an absolute path: %q", got)
	}
}

func TestResolverInline(t *testing.T) {
	base := t.TempDir()
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	if err := os.WriteFile(filepath.Join(base, "shot.png"), png, 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := NewResolver(base, base, true)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	a := results.Attachment{Path: "shot.png"}
	got := string(r.Inline(a, r.Link(a)))
	if !strings.HasPrefix(got, "data:image/png;base64,") {
		t.Errorf("Inline() = %q, want png data URI", got)
	}

	if got := r.Inline(results.Attachment{Path: "missing.png"}, "missing.png"); got != "" {
		t.Errorf("Inline(missing) = %q, want empty", got)
	}
	if got := r.Inline(results.Attachment{Path: "log.txt"}, "log.txt"); got != "" {
		t.Errorf("Inline(generic) = %q, want empty", got)
	}

	r.Embed = false
	if got := r.Inline(a, "shot.png"); got != "" {
		t.Errorf("Inline() without embed = %q, want empty", got)
	}
}
