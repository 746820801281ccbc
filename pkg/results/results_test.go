package results

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "results.json", `{"tests":[
		{"title":["t1"],"status":"passed","duration":120},
		{"title":["suite","t2"],"status":"failed","duration":50,
		 "location":{"file":"tests/ui.spec.js","line":37},
		 "project":"chromium",
		 "attachments":[{"name":"screenshot","path":"test-results/t2/shot.png"}]}
	]}`)

	doc, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Tests) != 2 {
		t.Fatalf("len(Tests) = %d, want 2", len(doc.Tests))
	}

	first := doc.Tests[0]
	if first.DisplayTitle() != "t1" || first.Status != core.StatusPassed || *first.Duration != 120 {
		t.Errorf("first record = %+v", first)
	}

	second := doc.Tests[1]
	if got := second.DisplayTitle(); got != "suite › t2" {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if got := second.Location.String(); got != "tests/ui.spec.js:37" {
		t.Errorf("Location = %q", got)
	}
	if second.Project != "chromium" {
		t.Errorf("Project = %q", second.Project)
	}
	if len(second.Attachments) != 1 || second.Attachments[0].Path != "test-results/t2/shot.png" {
		t.Errorf("Attachments = %+v", second.Attachments)
	}
}

func TestLoad_Unavailable(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.json")},
		{"malformed json", writeFile(t, dir, "bad.json", `{"tests": [`)},
		{"wrong root type", writeFile(t, dir, "array.json", `[1,2,3]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Load(tt.path)
			if doc != nil {
				t.Error("expected nil document")
			}
			if !errors.Is(err, ErrUnavailable) {
				t.Errorf("err = %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestLoad_EmptyIsNotUnavailable(t *testing.T) {
	p := writeFile(t, t.TempDir(), "results.json", `{"tests":[]}`)

	doc, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Tests) != 0 {
		t.Errorf("len(Tests) = %d, want 0", len(doc.Tests))
	}
}

func TestParse_LenientRecords(t *testing.T) {
	doc, err := Parse([]byte(`{"tests":[
		{"title":"single string","status":"passed","duration":12.6},
		{"title":42,"status":"weird","duration":"slow"},
		{"status":"skipped","duration":-5},
		{}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Tests) != 4 {
		t.Fatalf("len(Tests) = %d, want 4", len(doc.Tests))
	}

	if got := doc.Tests[0].DisplayTitle(); got != "single string" {
		t.Errorf("title = %q", got)
	}
	if got := *doc.Tests[0].Duration; got != 13 {
		t.Errorf("duration = %d, want 13", got)
	}
	if got := doc.Tests[1].DisplayTitle(); got != "" {
		t.Errorf("title = %q, want empty", got)
	}
	if doc.Tests[1].Status != core.Status("weird") {
		t.Errorf("status = %q", doc.Tests[1].Status)
	}
	if got := *doc.Tests[1].Duration; got != 0 {
		t.Errorf("duration = %d, want 0", got)
	}
	if got := *doc.Tests[2].Duration; got != 0 {
		t.Errorf("negative duration = %d, want 0", got)
	}
	if doc.Tests[3].Duration != nil || doc.Tests[3].Location.String() != "" {
		t.Errorf("empty record = %+v", doc.Tests[3])
	}
}

func TestParse_PlaywrightSuites(t *testing.T) {
	doc, err := Parse([]byte(`{
	  "stats": {"startTime": "2026-10-19T08:00:00.000Z", "duration": 4200.5},
	  "suites": [{
	    "title": "uitest.spec.js",
	    "file": "uitest.spec.js",
	    "specs": [{
	      "title": "Login Application",
	      "file": "uitest.spec.js",
	      "line": 37,
	      "tests": [{
	        "projectName": "chromium",
	        "status": "unexpected",
	        "results": [{
	          "status": "timedOut",
	          "duration": 120000,
	          "errors": [{"message": "Test timeout of 120000ms exceeded."}],
	          "attachments": [{"name": "screenshot", "contentType": "image/png", "path": "test-results/login/test-failed-1.png"}]
	        }]
	      }]
	    }],
	    "suites": [{
	      "title": "cart",
	      "specs": [{
	        "title": "adds three products",
	        "line": 80,
	        "tests": [
	          {"projectName": "chromium", "status": "flaky", "results": [{"status": "failed", "retry": 0}, {"status": "passed", "retry": 1, "duration": 900}]},
	          {"projectName": "firefox", "status": "skipped", "results": [{"status": "skipped"}]}
	        ]
	      }]
	    }]
	  }]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(doc.Tests) != 3 {
		t.Fatalf("len(Tests) = %d, want 3", len(doc.Tests))
	}
	if doc.Stats == nil || doc.Stats.Duration != 4201 {
		t.Errorf("stats = %+v", doc.Stats)
	}

	login := doc.Tests[0]
	if got := login.DisplayTitle(); got != "uitest.spec.js › Login Application" {
		t.Errorf("title = %q", got)
	}
	if login.Status != core.StatusTimedOut {
		t.Errorf("status = %q, want timedOut", login.Status)
	}
	if login.Error != "Test timeout of 120000ms exceeded." {
		t.Errorf("error = %q", login.Error)
	}
	if login.Location.String() != "uitest.spec.js:37" {
		t.Errorf("location = %q", login.Location.String())
	}
	if len(login.Attachments) != 1 {
		t.Errorf("attachments = %+v", login.Attachments)
	}

	flaky := doc.Tests[1]
	if got := flaky.DisplayTitle(); got != "uitest.spec.js › cart › adds three products" {
		t.Errorf("title = %q", got)
	}
	if flaky.Status != core.StatusFlaky || flaky.Retries != 1 || *flaky.Duration != 900 {
		t.Errorf("flaky record = %+v", flaky)
	}
	if flaky.Location.String() != "uitest.spec.js:80" {
		t.Errorf("inherited location = %q", flaky.Location.String())
	}

	skipped := doc.Tests[2]
	if skipped.Status != core.StatusSkipped || skipped.Project != "firefox" {
		t.Errorf("skipped record = %+v", skipped)
	}
}

func TestParse_FlatTestsWinOverSuites(t *testing.T) {
	doc, err := Parse([]byte(`{"tests":[{"title":["flat"],"status":"passed"}],"suites":[{"title":"nested","specs":[{"title":"x","tests":[{"status":"expected"}]}]}]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Tests) != 1 || doc.Tests[0].DisplayTitle() != "flat" {
		t.Errorf("Tests = %+v", doc.Tests)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "dir", "results.json")
	doc := &RunResult{Tests: []TestRecord{
		{Title: Segments{"api", "products list"}, Status: core.StatusPassed, Duration: MillisPtr(88), Project: "api"},
	}}

	if err := Save(p, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(p + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	got, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Tests) != 1 || got.Tests[0].DisplayTitle() != "api › products list" || *got.Tests[0].Duration != 88 {
		t.Errorf("round trip = %+v", got.Tests)
	}
}
