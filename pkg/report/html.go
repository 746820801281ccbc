package report

import (
	"bytes"
	"html/template"
	"path"
	"strconv"

	"github.com/Masterminds/sprig/v3"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// DefaultTitle is used when HTMLConfig.Title is empty.
const DefaultTitle = "Custom Playwright Report"

// HTMLConfig contains configuration for HTML report generation.
type HTMLConfig struct {
	OutputPath string // Path to write the HTML file
	Title      string // Report title (default: DefaultTitle)
	BaseDir    string // Directory relative attachment paths resolve against (default: cwd)
	Embed      bool   // Embed screenshots as base64 (makes file larger but portable)
}

// HTMLData contains all data needed for the HTML template.
type HTMLData struct {
	Title     string
	StartTime string
	Summary   Summary
	Rows      []RowHTMLData
}

// RowHTMLData is one table row. All fields are plain text; escaping happens
// in the template.
type RowHTMLData struct {
	Title       string
	Project     string
	Status      string
	StatusClass string
	Duration    string
	Location    string
	Error       string
	Attachments []AttachmentHTMLData
}

// AttachmentHTMLData is one rendered attachment.
type AttachmentHTMLData struct {
	Href    string       // relative link
	Inline  template.URL // data URI in embed mode
	Label   string
	IsImage bool
}

// BuildRows turns records into row view-models in input order. Records
// with missing fields get empty strings.
func BuildRows(tests []results.TestRecord, r Resolver) []RowHTMLData {
	rows := make([]RowHTMLData, len(tests))
	for i, t := range tests {
		row := RowHTMLData{
			Title:       t.DisplayTitle(),
			Project:     t.Project,
			Status:      string(t.Status),
			StatusClass: t.Status.CSSClass(),
			Location:    t.Location.String(),
			Error:       t.Error,
		}
		if t.Duration != nil {
			row.Duration = strconv.FormatInt(int64(*t.Duration), 10)
		}

		for _, a := range t.Attachments {
			link := r.Link(a)
			if link == "" {
				continue
			}
			row.Attachments = append(row.Attachments, AttachmentHTMLData{
				Href:    link,
				Inline:  r.Inline(a, link),
				Label:   path.Base(link),
				IsImage: core.KindOf(link) == core.KindImage,
			})
		}
		rows[i] = row
	}
	return rows
}

// Render executes the report template. It is a pure function of data.
func Render(data HTMLData) (string, error) {
	tmpl, err := template.New("report").Funcs(sprig.HtmlFuncMap()).Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const htmlTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8"/>
<title>{{.Title}}</title>
<style>
  body{font-family:Arial,Helvetica,sans-serif; padding:20px}
  .stats{display:flex; gap:16px; margin-bottom:18px}
  .card{padding:12px; border-radius:6px; background:#f3f4f6}
  table{width:100%; border-collapse:collapse}
  th,td{border:1px solid #ddd; padding:8px; text-align:left; vertical-align:top}
  th{background:#111827; color:#fff}
  .passed{color:green} .failed{color:red} .skipped{color:orange}
  .flaky{color:#b45309} .timedOut{color:#7c3aed} .unknown{color:#6b7280}
  .thumb{max-width:160px; max-height:90px}
  .error{color:#991b1b; font-family:monospace; white-space:pre-wrap; margin-top:4px}
  .meta{color:#6b7280; margin-bottom:12px}
</style>
</head>
<body>
  <h1>{{.Title}}</h1>
{{- if .StartTime}}
  <div class="meta">Run started {{.StartTime}}</div>
{{- end}}
  <div class="stats">
    <div class="card"><strong>Total:</strong> {{.Summary.Total}}</div>
    <div class="card"><strong class="passed">Passed:</strong> {{.Summary.Passed}} ({{(.Summary.Percent "passed").String}}%)</div>
    <div class="card"><strong class="failed">Failed:</strong> {{.Summary.Failed}} ({{(.Summary.Percent "failed").String}}%)</div>
    <div class="card"><strong class="skipped">Skipped:</strong> {{.Summary.Skipped}}</div>
    <div class="card"><strong class="flaky">Flaky:</strong> {{.Summary.Flaky}}</div>
    <div class="card"><strong class="timedOut">TimedOut:</strong> {{.Summary.TimedOut}}</div>
  </div>

  <table>
    <thead>
      <tr><th>#</th><th>Test</th><th>Project</th><th>Status</th><th>Duration(ms)</th><th>Location</th><th>Attachments</th></tr>
    </thead>
    <tbody>
{{- range $i, $r := .Rows}}
      <tr>
        <td>{{add1 $i}}</td>
        <td>{{$r.Title}}{{if $r.Error}}<div class="error">{{$r.Error}}</div>{{end}}</td>
        <td>{{$r.Project}}</td>
        <td class="{{$r.StatusClass}}">{{$r.Status}}</td>
        <td>{{$r.Duration}}</td>
        <td>{{$r.Location}}</td>
        <td>
{{- range $j, $a := $r.Attachments}}{{if $j}} {{end}}
{{- if $a.IsImage}}<a href="{{$a.Href}}" target="_blank"><img class="thumb" src="{{if $a.Inline}}{{$a.Inline}}{{else}}{{$a.Href}}{{end}}" alt="{{$a.Label}}"/></a>
{{- else}}<a href="{{$a.Href}}" target="_blank">{{$a.Label}}</a>{{end}}
{{- end}}</td>
      </tr>
{{- end}}
    </tbody>
  </table>
</body>
</html>
`
