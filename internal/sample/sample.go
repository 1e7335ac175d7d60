package sample

import (
    "path/filepath"
    "sort"
    "strings"

    "readmegen/internal/cache"
    "readmegen/internal/logger"
    "readmegen/internal/scan"
)

// Outcome tags every file the sampler considered.
type Outcome string

const (
    OutcomeSampled    Outcome = "sampled"
    OutcomeBinary     Outcome = "skipped: binary"
    OutcomeUnreadable Outcome = "skipped: unreadable"
)

// TruncationMarker ends every excerpt that was cut at the per-file cap.
const TruncationMarker = "\n[truncated]"

// sniffLen is how many leading bytes are checked for null bytes before a
// full read is attempted.
const sniffLen = 1024

// FileSample is one considered file with its excerpt and outcome.
type FileSample struct {
    Meta      scan.FileMeta
    Excerpt   string
    Truncated bool
    Outcome   Outcome
}

// Options bound how much content sampling may pull in.
type Options struct {
    MaxSamples int
    PerFileCap int
}

// Result keeps sampled excerpts apart from skip records.
type Result struct {
    Samples []FileSample // Outcome == sampled, selection order
    Skipped []FileSample // binary / unreadable, discovery order
}

// Run selects up to MaxSamples files in three tiers (manifests first, then
// entry points, then smallest files), reads each one, and truncates at the
// per-file cap. A binary or unreadable file never aborts the run: it is
// recorded and selection moves to the next candidate.
func Run(res scan.ScanResult, files *cache.Contents, opts Options, log logger.Logger) Result {
    var out Result
    candidates := selectCandidates(res.Files, &out)
    if opts.MaxSamples <= 0 { return out }

    for _, fm := range candidates {
        if len(out.Samples) >= opts.MaxSamples { break }
        head, err := files.ReadHead(fm.Path, sniffLen)
        if err != nil {
            log.Warn("sample: %s unreadable: %v", fm.Path, err)
            out.Skipped = append(out.Skipped, FileSample{Meta: fm, Outcome: OutcomeUnreadable})
            continue
        }
        if strings.IndexByte(head, 0) >= 0 {
            out.Skipped = append(out.Skipped, FileSample{Meta: fm, Outcome: OutcomeBinary})
            continue
        }
        content, err := files.Read(fm.Path)
        if err != nil {
            log.Warn("sample: %s unreadable: %v", fm.Path, err)
            out.Skipped = append(out.Skipped, FileSample{Meta: fm, Outcome: OutcomeUnreadable})
            continue
        }
        // The sniff only covers the head; a null byte anywhere still
        // disqualifies the file.
        if strings.IndexByte(content, 0) >= 0 {
            out.Skipped = append(out.Skipped, FileSample{Meta: fm, Outcome: OutcomeBinary})
            continue
        }
        excerpt, truncated := truncate(content, opts.PerFileCap)
        out.Samples = append(out.Samples, FileSample{Meta: fm, Excerpt: excerpt, Truncated: truncated, Outcome: OutcomeSampled})
    }
    return out
}

// selectCandidates orders the listing by sampling priority: manifests in
// listing order, entry points in listing order, then everything else by
// size ascending with path as the tie-break. A path appears once, first
// tier wins. Files with a known binary extension are recorded immediately
// and never become candidates.
func selectCandidates(files []scan.FileMeta, out *Result) []scan.FileMeta {
    seen := map[string]bool{}
    var candidates []scan.FileMeta
    add := func(fm scan.FileMeta) {
        if seen[fm.Path] { return }
        seen[fm.Path] = true
        candidates = append(candidates, fm)
    }

    var rest []scan.FileMeta
    for _, fm := range files {
        if scan.IsBinaryExt(fm.Ext) {
            out.Skipped = append(out.Skipped, FileSample{Meta: fm, Outcome: OutcomeBinary})
            continue
        }
        rest = append(rest, fm)
    }
    for _, fm := range rest {
        if scan.IsManifest(filepath.Base(fm.Path)) { add(fm) }
    }
    for _, fm := range rest {
        if scan.IsEntryPoint(fm) { add(fm) }
    }
    bySize := make([]scan.FileMeta, len(rest))
    copy(bySize, rest)
    sort.Slice(bySize, func(i, j int) bool {
        if bySize[i].Size != bySize[j].Size { return bySize[i].Size < bySize[j].Size }
        return bySize[i].Path < bySize[j].Path
    })
    for _, fm := range bySize { add(fm) }
    return candidates
}

func truncate(s string, n int) (string, bool) {
    if n <= 0 || len(s) <= n { return s, false }
    keep := n - len(TruncationMarker)
    if keep < 0 { keep = 0 }
    return s[:keep] + TruncationMarker, true
}
