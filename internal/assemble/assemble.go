package assemble

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"readmegen/internal/sample"
	"readmegen/internal/scan"
)

// Section names, in render order.
const (
	SectionStructure = "STRUCTURE"
	SectionManifest  = "MANIFEST"
	SectionSamples   = "SAMPLES"
)

const DefaultMaxPayloadChars = 8000

// Repo-size thresholds that scale the rendered tree depth.
const (
	mediumRepoFiles = 2000
	largeRepoFiles  = 5000
)

const (
	maxTreeFiles = 120
	sep          = "\n\n"
)

type Section struct {
	Name string
	Body string
}

// Payload is the ordered, bounded prompt context handed to the model.
type Payload struct {
	Sections []Section
}

// Render serializes the payload as one text block with bracketed headers.
func (p Payload) Render() string {
	parts := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		parts = append(parts, "["+s.Name+"]\n"+s.Body)
	}
	return strings.Join(parts, sep)
}

type Options struct {
	MaxPayloadChars int
}

// Build merges the listing, extracted metadata and sampled excerpts into a
// payload whose rendered length stays under the budget. Sections are added
// in fixed priority order and, once the budget is hit, whole later entries
// are dropped. The structural summary is only ever cut when it exceeds the
// budget on its own.
func Build(res scan.ScanResult, meta scan.Metadata, smp sample.Result, opts Options) Payload {
	budget := opts.MaxPayloadChars
	if budget <= 0 {
		budget = DefaultMaxPayloadChars
	}

	body := structureBody(res, meta)
	head := len(SectionStructure) + 3 // "[" + name + "]\n"
	if head+len(body) > budget {
		keep := budget - head
		if keep < 0 {
			keep = 0
		}
		body = body[:keep]
	}
	out := Payload{Sections: []Section{{Name: SectionStructure, Body: body}}}
	used := head + len(body)

	used = addSection(&out, used, budget, SectionManifest, manifestEntries(meta))
	addSection(&out, used, budget, SectionSamples, sampleEntries(smp))
	return out
}

// addSection appends as many whole entries as fit under the remaining
// budget. Entries past the first one that does not fit are dropped. A
// section that fits no entries is omitted, header included.
func addSection(p *Payload, used, budget int, name string, entries []string) int {
	if len(entries) == 0 {
		return used
	}
	cost := used + len(sep) + len(name) + 3
	var kept []string
	for _, e := range entries {
		c := len(e)
		if len(kept) > 0 {
			c += len(sep)
		}
		if cost+c > budget {
			break
		}
		cost += c
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return used
	}
	p.Sections = append(p.Sections, Section{Name: name, Body: strings.Join(kept, sep)})
	return cost
}

func structureBody(res scan.ScanResult, meta scan.Metadata) string {
	name := meta.Name
	if name == "" {
		name = path.Base(strings.ReplaceAll(res.Root, "\\", "/"))
	}
	lines := []string{
		"repository: " + name,
		fmt.Sprintf("%d files", len(res.Files)),
	}
	if len(meta.Languages) > 0 {
		parts := make([]string, 0, len(meta.Languages))
		for _, l := range meta.Languages {
			parts = append(parts, fmt.Sprintf("%s (%d)", l.Name, l.Files))
		}
		lines = append(lines, "languages: "+strings.Join(parts, ", "))
	}
	if exts := extCounts(res.Files); len(exts) > 0 {
		lines = append(lines, "extensions: "+strings.Join(exts, ", "))
	}
	if meta.Description != "" {
		lines = append(lines, "description: "+meta.Description)
	}
	if len(meta.LargestFiles) > 0 {
		parts := make([]string, 0, len(meta.LargestFiles))
		for _, f := range meta.LargestFiles {
			parts = append(parts, fmt.Sprintf("%s (%d bytes)", f.Path, f.Size))
		}
		lines = append(lines, "largest files: "+strings.Join(parts, ", "))
	}
	if len(res.Files) > 0 {
		lines = append(lines, "tree:")
		lines = append(lines, renderTree(res.Files)...)
	}
	return strings.Join(lines, "\n")
}

func extCounts(files []scan.FileMeta) []string {
	counts := map[string]int{}
	for _, f := range files {
		if f.Ext != "" {
			counts[f.Ext]++
		}
	}
	exts := make([]string, 0, len(counts))
	for e := range counts {
		exts = append(exts, e)
	}
	sort.Slice(exts, func(i, j int) bool {
		if counts[exts[i]] != counts[exts[j]] {
			return counts[exts[i]] > counts[exts[j]]
		}
		return exts[i] < exts[j]
	})
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		out = append(out, fmt.Sprintf("%s (%d)", e, counts[e]))
	}
	return out
}

// renderTree prints an indented tree of the listing. Depth adapts to the
// repository size so huge trees stay summarizable, and files past the
// depth or line limit are rolled up into a trailing count.
func renderTree(files []scan.FileMeta) []string {
	maxDepth := adaptiveDepth(len(files))
	var lines []string
	seen := map[string]bool{}
	printed, skipped := 0, 0
	for _, f := range files {
		if f.Depth >= maxDepth || printed >= maxTreeFiles {
			skipped++
			continue
		}
		appendDirs(&lines, seen, path.Dir(f.Path))
		lines = append(lines, strings.Repeat("  ", f.Depth+1)+path.Base(f.Path))
		printed++
	}
	if skipped > 0 {
		lines = append(lines, fmt.Sprintf("  ... and %d more files", skipped))
	}
	return lines
}

func appendDirs(lines *[]string, seen map[string]bool, dir string) {
	if dir == "." || dir == "" || seen[dir] {
		return
	}
	appendDirs(lines, seen, path.Dir(dir))
	seen[dir] = true
	indent := strings.Repeat("  ", strings.Count(dir, "/")+1)
	*lines = append(*lines, indent+path.Base(dir)+"/")
}

// adaptiveDepth returns a safe tree depth for the repository size.
func adaptiveDepth(fileCount int) int {
	if fileCount <= 0 {
		return 2
	}
	if fileCount > largeRepoFiles {
		return 2
	}
	if fileCount > mediumRepoFiles {
		return 3
	}
	return 4
}

func manifestEntries(meta scan.Metadata) []string {
	var entries []string
	var facts []string
	if len(meta.Dependencies) > 0 {
		facts = append(facts, "dependencies: "+strings.Join(meta.Dependencies, ", "))
	}
	if meta.License != "" {
		facts = append(facts, "license: "+meta.License)
	}
	if meta.HasTests {
		facts = append(facts, "tests: present")
	}
	if len(facts) > 0 {
		entries = append(entries, strings.Join(facts, "\n"))
	}
	for _, m := range meta.Manifests {
		entries = append(entries, "--- "+m.Path+" ---\n"+m.Content)
	}
	return entries
}

func sampleEntries(smp sample.Result) []string {
	var entries []string
	for _, s := range smp.Samples {
		entries = append(entries, "--- "+s.Meta.Path+" ---\n"+s.Excerpt)
	}
	if len(smp.Skipped) > 0 {
		lines := make([]string, 0, len(smp.Skipped))
		for _, s := range smp.Skipped {
			lines = append(lines, s.Meta.Path+" ("+string(s.Outcome)+")")
		}
		entries = append(entries, "skipped:\n"+strings.Join(lines, "\n"))
	}
	return entries
}
