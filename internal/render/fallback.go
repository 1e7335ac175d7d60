package render

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"readmegen/internal/sample"
	"readmegen/internal/scan"
)

// fbCtx feeds the fallback template. All fields are rendered
// deterministically; no timestamps or environment data.
type fbCtx struct {
	Name         string
	Description  string
	LanguagesCSV string
	FileCount    int
	DepsCSV      string
	HasTests     bool
	License      string
	Samples      []string
}

const fallbackTemplate = `# {{.Name}}

{{if .Description}}{{.Description}}{{else}}No project description was detected.{{end}}

## Project Facts
- Files scanned: {{.FileCount}}
{{- if .LanguagesCSV}}
- Languages: {{.LanguagesCSV}}
{{- end}}
{{- if .DepsCSV}}
- Dependencies: {{.DepsCSV}}
{{- end}}
{{- if .License}}
- License: {{.License}}
{{- end}}
{{- if .HasTests}}
- Tests: present
{{- end}}

{{if .Samples -}}
## Notable Files
{{range .Samples}}- {{.}}
{{end}}
{{- end}}
Generated from repository structure without a language model.
`

// Fallback renders a README from extracted facts alone, for runs without
// a model provider.
func Fallback(res scan.ScanResult, meta scan.Metadata, smp sample.Result) []byte {
	name := strings.TrimSpace(meta.Name)
	if name == "" {
		name = "Untitled project"
	}
	langs := make([]string, 0, len(meta.Languages))
	for _, l := range meta.Languages {
		langs = append(langs, fmt.Sprintf("%s (%d files)", l.Name, l.Files))
	}
	paths := make([]string, 0, len(smp.Samples))
	for _, s := range smp.Samples {
		paths = append(paths, s.Meta.Path)
	}
	ctx := fbCtx{
		Name:         name,
		Description:  strings.TrimSpace(meta.Description),
		LanguagesCSV: strings.Join(langs, ", "),
		FileCount:    len(res.Files),
		DepsCSV:      strings.Join(meta.Dependencies, ", "),
		HasTests:     meta.HasTests,
		License:      meta.License,
		Samples:      paths,
	}

	t, _ := template.New("fallback").Parse(fallbackTemplate)
	var buf bytes.Buffer
	_ = t.Execute(&buf, ctx)
	// Strip trailing spaces and guarantee a single trailing newline.
	lines := strings.Split(buf.String(), "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimRight(ln, " \t")
	}
	out := strings.Join(lines, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return []byte(out)
}
