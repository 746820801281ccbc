package report

import (
	"encoding/base64"
	"html/template"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// Resolver turns attachments into hrefs that are valid from the report's
// directory. Use NewResolver so both directories are absolute.
type Resolver struct {
	BaseDir   string // directory relative attachment paths are resolved against
	OutputDir string // directory the HTML report is written to
	Embed     bool   // inline existing images as data URIs
}

// NewResolver returns a Resolver with absolute directories. An empty baseDir
// means the working directory.
func NewResolver(baseDir, outputDir string, embed bool) (Resolver, error) {
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return Resolver{}, err
	}
	absOut, err := filepath.Abs(outputDir)
	if err != nil {
		return Resolver{}, err
	}
	return Resolver{BaseDir: absBase, OutputDir: absOut, Embed: embed}, nil
}

// Link returns a forward-slash href relative to OutputDir, or "" when the
// attachment names nothing. Resolution prefers Path, then Body, then Name.
func (r Resolver) Link(a results.Attachment) string {
	candidate := firstNonEmpty(a.Path, a.Body, a.Name)
	if candidate == "" {
		return ""
	}

	p := toSlash(candidate)
	if !path.IsAbs(p) && !isWindowsAbs(p) {
		p = path.Join(toSlash(r.BaseDir), p)
	}

	rel, err := filepath.Rel(filepath.FromSlash(toSlash(r.OutputDir)), filepath.FromSlash(p))
	if err != nil || isWindowsAbs(toSlash(rel)) || path.IsAbs(toSlash(rel)) {
		return path.Base(p)
	}
	return toSlash(rel)
}

// Inline returns a data URI for an image attachment in embed mode, or ""
// when the attachment should be referenced by its link.
func (r Resolver) Inline(a results.Attachment, link string) template.URL {
	if !r.Embed || link == "" || core.KindOf(link) != core.KindImage {
		return ""
	}

	onDisk := filepath.Join(filepath.FromSlash(toSlash(r.OutputDir)), filepath.FromSlash(link))
	data, err := os.ReadFile(onDisk) //#nosec G304 -- attachment listed in results
	if err != nil {
		logger.Debug("embed %s: %v", onDisk, err)
		return ""
	}

	mime := a.ContentType
	if !strings.HasPrefix(mime, "image/") {
		mime = mimetype.Detect(data).String()
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)) //#nosec G203 -- base64 payload built here
}

// toSlash normalizes separators regardless of the host OS.
func toSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// isWindowsAbs matches drive-letter paths such as C:/out/shot.png.
func isWindowsAbs(p string) bool {
	return len(p) >= 3 && p[1] == ':' && p[2] == '/' &&
		((p[0] >= 'a' && p[0] <= 'z') || (p[0] >= 'A' && p[0] <= 'Z'))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
