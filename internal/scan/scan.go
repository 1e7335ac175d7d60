package scan

import (
    "errors"
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "sort"
    "strings"

    ignore "github.com/sabhiram/go-gitignore"
)

// FileMeta describes one regular file under the scan root.
type FileMeta struct {
    Path  string // repo-relative, forward slashes
    Size  int64
    Depth int    // directories between the root and the file
    Ext   string // lowercased, with the dot
}

// ScanResult is the deterministic listing produced by Scan.
// Files are sorted lexicographically by Path.
type ScanResult struct {
    Root  string
    Files []FileMeta
}

// ScanError reports a root that cannot be scanned at all.
type ScanError struct {
    Root string
    Err  error
}

func (e *ScanError) Error() string { return fmt.Sprintf("scan %s: %v", e.Root, e.Err) }
func (e *ScanError) Unwrap() error { return e.Err }

// Options control which paths enter the listing.
type Options struct {
    IgnoreDirs   []string // extra directory names pruned during descent
    IgnoreGlobs  []string // extra gitignore-style patterns
    UseGitignore bool     // honor the repository's own .gitignore
}

var skipDirs = map[string]bool{
    ".git": true, ".hg": true, ".svn": true,
    "node_modules": true, "vendor": true, "target": true,
    "dist": true, "build": true, "out": true,
    "__pycache__": true, ".venv": true, "venv": true,
    ".next": true, ".cache": true, ".tox": true,
    ".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true,
    ".idea": true, ".vscode": true, ".gradle": true, ".terraform": true,
    "coverage": true,
}

// Scan walks root and lists every regular file that survives the ignore
// rules. Ignored directories are pruned before descent and symbolic links
// are never followed. A missing or non-directory root fails with *ScanError
// and no partial listing.
func Scan(root string, opts Options) (ScanResult, error) {
    info, err := os.Stat(root)
    if err != nil {
        return ScanResult{}, &ScanError{Root: root, Err: err}
    }
    if !info.IsDir() {
        return ScanResult{}, &ScanError{Root: root, Err: errors.New("not a directory")}
    }

    extraDirs := map[string]bool{}
    for _, d := range opts.IgnoreDirs { extraDirs[d] = true }
    matcher := compileIgnore(root, opts)

    var files []FileMeta
    walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
        if err != nil {
            if p == root { return err }
            return nil // unreadable subtrees are simply absent
        }
        rel, rerr := filepath.Rel(root, p)
        if rerr != nil || rel == "." { return nil }
        rel = filepath.ToSlash(rel)
        if d.IsDir() {
            if skipDirs[d.Name()] || extraDirs[d.Name()] {
                return filepath.SkipDir
            }
            if matcher != nil && (matcher.MatchesPath(rel+"/") || matcher.MatchesPath(rel)) {
                return filepath.SkipDir
            }
            return nil
        }
        if d.Type()&fs.ModeSymlink != 0 { return nil }
        if !d.Type().IsRegular() { return nil }
        if matcher != nil && matcher.MatchesPath(rel) { return nil }
        fi, ferr := d.Info()
        if ferr != nil { return nil }
        files = append(files, FileMeta{
            Path:  rel,
            Size:  fi.Size(),
            Depth: strings.Count(rel, "/"),
            Ext:   strings.ToLower(filepath.Ext(rel)),
        })
        return nil
    })
    if walkErr != nil {
        return ScanResult{}, &ScanError{Root: root, Err: walkErr}
    }
    sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
    return ScanResult{Root: root, Files: files}, nil
}

// compileIgnore merges the repository's own .gitignore with user patterns.
func compileIgnore(root string, opts Options) *ignore.GitIgnore {
    var lines []string
    if opts.UseGitignore {
        if b, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
            lines = append(lines, strings.Split(string(b), "\n")...)
        }
    }
    lines = append(lines, opts.IgnoreGlobs...)
    if len(lines) == 0 { return nil }
    return ignore.CompileIgnoreLines(lines...)
}
