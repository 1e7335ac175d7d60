package scan

import (
    "path/filepath"
    "regexp"
    "sort"
    "strings"

    "github.com/pelletier/go-toml/v2"
    "github.com/tidwall/gjson"

    "readmegen/internal/cache"
)

// Metadata captures repository-level facts surfaced to the prompt.
type Metadata struct {
    Name         string
    Description  string
    Languages    []LanguageCount // by file count, descending
    LargestFiles []FileMeta      // source files by size, descending
    Manifests    []Manifest      // listing order, content capped
    Dependencies []string
    HasTests     bool
    License      string // "" when no license file exists
    HasReadme    bool
}

type LanguageCount struct {
    Name  string
    Files int
}

// Manifest is a dependency manifest with its content capped near 4KB.
type Manifest struct {
    Path    string
    Content string
}

var manifestNames = map[string]bool{
    "package.json": true, "go.mod": true, "requirements.txt": true,
    "pyproject.toml": true, "pom.xml": true, "build.gradle": true,
    "Cargo.toml": true, "Gemfile": true, "Dockerfile": true,
    "docker-compose.yml": true,
}

const (
    manifestCap = 4000
    maxDeps     = 50
    largestN    = 10
)

// IsManifest reports whether a base name is a known dependency manifest.
func IsManifest(base string) bool { return manifestNames[base] }

// ExtractMetadata derives repository facts from the listing plus bounded
// reads through the shared content cache. It never fails: whatever cannot
// be read is simply absent from the result.
func ExtractMetadata(res ScanResult, files *cache.Contents) Metadata {
    md := Metadata{Name: filepath.Base(filepath.Clean(res.Root))}

    counts := map[string]int{}
    for _, f := range res.Files {
        if lang := LanguageFor(f.Ext); lang != "" {
            counts[lang]++
        }
    }
    for name, n := range counts {
        md.Languages = append(md.Languages, LanguageCount{Name: name, Files: n})
    }
    sort.Slice(md.Languages, func(i, j int) bool {
        if md.Languages[i].Files != md.Languages[j].Files {
            return md.Languages[i].Files > md.Languages[j].Files
        }
        return md.Languages[i].Name < md.Languages[j].Name
    })

    var src []FileMeta
    for _, f := range res.Files {
        if IsSourceExt(f.Ext) { src = append(src, f) }
    }
    sort.Slice(src, func(i, j int) bool {
        if src[i].Size != src[j].Size { return src[i].Size > src[j].Size }
        return src[i].Path < src[j].Path
    })
    if len(src) > largestN { src = src[:largestN] }
    md.LargestFiles = src

    for _, f := range res.Files {
        if !IsManifest(filepath.Base(f.Path)) {
            continue
        }
        content, err := files.Read(f.Path)
        if err != nil { continue }
        if len(content) > manifestCap { content = content[:manifestCap] }
        md.Manifests = append(md.Manifests, Manifest{Path: f.Path, Content: content})
    }

    md.Dependencies = collectDeps(md.Manifests)
    md.HasTests = hasTests(res.Files)
    md.License = detectLicense(res, files)
    md.Description, md.HasReadme = describe(res, files, md.Manifests)
    return md
}

// collectDeps pulls dependency names out of the manifests it knows how to
// read. First occurrence wins; the list is capped to keep the payload sane.
func collectDeps(manifests []Manifest) []string {
    var deps []string
    seen := map[string]bool{}
    add := func(names ...string) {
        for _, n := range names {
            n = strings.TrimSpace(n)
            if n == "" || seen[n] || len(deps) >= maxDeps { continue }
            seen[n] = true
            deps = append(deps, n)
        }
    }
    for _, m := range manifests {
        switch filepath.Base(m.Path) {
        case "package.json":
            add(sortedKeys(gjson.Get(m.Content, "dependencies").Map())...)
        case "requirements.txt":
            for _, line := range strings.Split(m.Content, "\n") {
                line = strings.TrimSpace(line)
                if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") { continue }
                add(cutSpecifier(line))
            }
        case "go.mod":
            add(goModRequires(m.Content)...)
        case "pyproject.toml":
            var doc pyprojectDoc
            if err := toml.Unmarshal([]byte(m.Content), &doc); err == nil {
                for _, d := range doc.Project.Dependencies { add(cutSpecifier(d)) }
            }
        case "Cargo.toml":
            var doc cargoDoc
            if err := toml.Unmarshal([]byte(m.Content), &doc); err == nil {
                add(sortedAnyKeys(doc.Dependencies)...)
            }
        }
    }
    return deps
}

type pyprojectDoc struct {
    Project struct {
        Name         string   `toml:"name"`
        Description  string   `toml:"description"`
        Dependencies []string `toml:"dependencies"`
    } `toml:"project"`
}

type cargoDoc struct {
    Package struct {
        Name        string `toml:"name"`
        Description string `toml:"description"`
    } `toml:"package"`
    Dependencies map[string]any `toml:"dependencies"`
}

// cutSpecifier strips version constraints from a requirement line
// (e.g. "requests>=2.31" -> "requests").
func cutSpecifier(s string) string {
    if i := strings.IndexAny(s, " =<>~!;["); i >= 0 { s = s[:i] }
    return strings.TrimSpace(s)
}

func goModRequires(content string) []string {
    var names []string
    in := false
    for _, line := range strings.Split(content, "\n") {
        line = strings.TrimSpace(line)
        switch {
        case line == "require (":
            in = true
        case in && line == ")":
            in = false
        case in:
            if strings.Contains(line, "// indirect") || strings.HasPrefix(line, "//") { continue }
            if f := strings.Fields(line); len(f) >= 2 { names = append(names, f[0]) }
        case strings.HasPrefix(line, "require "):
            if f := strings.Fields(line); len(f) >= 3 && f[1] != "(" { names = append(names, f[1]) }
        }
    }
    return names
}

func sortedKeys(m map[string]gjson.Result) []string {
    keys := make([]string, 0, len(m))
    for k := range m { keys = append(keys, k) }
    sort.Strings(keys)
    return keys
}

func sortedAnyKeys(m map[string]any) []string {
    keys := make([]string, 0, len(m))
    for k := range m { keys = append(keys, k) }
    sort.Strings(keys)
    return keys
}

func hasTests(files []FileMeta) bool {
    for _, f := range files {
        base := strings.ToLower(filepath.Base(f.Path))
        if strings.HasSuffix(base, "_test.go") || strings.HasPrefix(base, "test_") ||
            strings.Contains(base, ".test.") || strings.Contains(base, ".spec.") {
            return true
        }
        segs := strings.Split(f.Path, "/")
        for _, seg := range segs[:len(segs)-1] {
            switch seg {
            case "test", "tests", "spec", "__tests__":
                return true
            }
        }
    }
    return false
}

// detectLicense sniffs the head of a root-level license file. It returns ""
// when no such file exists and "unknown" when one exists but matches nothing.
func detectLicense(res ScanResult, files *cache.Contents) string {
    for _, f := range res.Files {
        if f.Depth != 0 { continue }
        base := strings.ToUpper(strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path)))
        if base != "LICENSE" && base != "LICENCE" && base != "COPYING" { continue }
        head, err := files.ReadHead(f.Path, 2048)
        if err != nil { return "unknown" }
        low := strings.ToLower(head)
        switch {
        case strings.Contains(low, "mit license"):
            return "MIT"
        case strings.Contains(low, "apache license"):
            return "Apache-2.0"
        case strings.Contains(low, "gnu general public license"):
            return "GPL"
        case strings.Contains(low, "mozilla public license"):
            return "MPL-2.0"
        case strings.Contains(low, "bsd"):
            return "BSD"
        }
        return "unknown"
    }
    return ""
}

var (
    reImageMD   = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
    reEmptyLink = regexp.MustCompile(`\[\s*\]\([^)]*\)`)
    reImageHTML = regexp.MustCompile(`(?is)<img[^>]*>`)
    reComment   = regexp.MustCompile(`(?s)<!--.*?-->`)
)

// describe returns a one-line project description and whether a README
// already exists. The README's opening paragraph wins; manifest description
// fields are the fallback.
func describe(res ScanResult, files *cache.Contents, manifests []Manifest) (string, bool) {
    hasReadme := false
    for _, f := range res.Files {
        base := strings.ToLower(filepath.Base(f.Path))
        if f.Depth != 0 || !strings.HasPrefix(base, "readme") { continue }
        hasReadme = true
        content, err := files.Read(f.Path)
        if err != nil { break }
        if d := firstParagraph(cleanMarkdown(content)); d != "" {
            return d, true
        }
        break
    }
    for _, m := range manifests {
        switch filepath.Base(m.Path) {
        case "package.json":
            if d := gjson.Get(m.Content, "description").String(); d != "" { return d, hasReadme }
        case "pyproject.toml":
            var doc pyprojectDoc
            if err := toml.Unmarshal([]byte(m.Content), &doc); err == nil && doc.Project.Description != "" {
                return doc.Project.Description, hasReadme
            }
        case "Cargo.toml":
            var doc cargoDoc
            if err := toml.Unmarshal([]byte(m.Content), &doc); err == nil && doc.Package.Description != "" {
                return doc.Package.Description, hasReadme
            }
        }
    }
    return "", hasReadme
}

// cleanMarkdown removes images, badges, and HTML comments that carry no
// prose value.
func cleanMarkdown(text string) string {
    text = reImageMD.ReplaceAllString(text, "")
    text = reEmptyLink.ReplaceAllString(text, "")
    text = reImageHTML.ReplaceAllString(text, "")
    text = reComment.ReplaceAllString(text, "")
    return text
}

func firstParagraph(text string) string {
    var para []string
    for _, line := range strings.Split(text, "\n") {
        line = strings.TrimSpace(line)
        if line == "" {
            if len(para) > 0 { break }
            continue
        }
        if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[![") || strings.HasPrefix(line, ">") {
            if len(para) > 0 { break }
            continue
        }
        para = append(para, line)
    }
    out := strings.Join(para, " ")
    if len(out) > 300 {
        if i := strings.LastIndex(out[:300], " "); i > 0 { out = out[:i] } else { out = out[:300] }
    }
    return out
}
