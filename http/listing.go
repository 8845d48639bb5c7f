package http

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/gradlemirror/gradlemirror"
)

// listingTemplate renders the generated directory index. html/template
// escapes every interpolated name and path, in both text and href contexts.
var listingTemplate = template.Must(template.New("listing").Funcs(template.FuncMap{
	"size":  gradlemirror.FormatSize,
	"mtime": gradlemirror.FormatTime,
}).Parse(listingHTML))

const listingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Index of {{.Path}}</title>
<style>
body { font-family: ui-monospace, monospace; margin: 2rem; color: #1a1a1a; }
h1 { font-size: 1.2rem; }
table { border-collapse: collapse; }
th, td { text-align: left; padding: 0.15rem 2rem 0.15rem 0; }
th { border-bottom: 1px solid #999; }
a { color: #0550ae; text-decoration: none; }
a:hover { text-decoration: underline; }
</style>
</head>
<body>
<h1>Index of {{.Path}}</h1>
<table>
<tr><th>Name</th><th>Size</th><th>Last modified</th></tr>
{{- if .HasParent}}
<tr><td><a href="../">..</a></td><td>-</td><td>-</td></tr>
{{- end}}
{{- range .Dirs}}
<tr><td><a href="{{.}}/">{{.}}/</a></td><td>-</td><td>-</td></tr>
{{- end}}
{{- range .Files}}
<tr><td><a href="{{.Name}}">{{.Name}}</a></td><td>{{size .Size}}</td><td>{{mtime .ModTime}}</td></tr>
{{- end}}
</table>
</body>
</html>
`

// renderListing produces the full page for a directory view. Rendering
// completes before any response byte is written, so callers can set an
// exact Content-Length.
func renderListing(listing gradlemirror.DirectoryListing) ([]byte, error) {
	var buf bytes.Buffer
	if err := listingTemplate.Execute(&buf, listing); err != nil {
		return nil, fmt.Errorf("render listing %s: %w", listing.Path, err)
	}
	return buf.Bytes(), nil
}
