package sample

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"readmegen/internal/cache"
	"readmegen/internal/logger"
	"readmegen/internal/safeio"
	"readmegen/internal/scan"
)

func write(t *testing.T, root, rel string, content []byte) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, content, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func setup(t *testing.T, root string) (scan.ScanResult, *cache.Contents) {
	t.Helper()
	res, err := scan.Scan(root, scan.Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	fs, err := safeio.NewSafeFS(root)
	if err != nil {
		t.Fatalf("NewSafeFS: %v", err)
	}
	files, err := cache.NewContents(fs, 64)
	if err != nil {
		t.Fatalf("NewContents: %v", err)
	}
	return res, files
}

func sampledPaths(r Result) []string {
	var out []string
	for _, s := range r.Samples {
		out = append(out, s.Meta.Path)
	}
	return out
}

func TestRun_TierOrder(t *testing.T) {
	root := t.TempDir()
	write(t, root, "zzz/tiny.txt", []byte("t"))
	write(t, root, "cmd/app/main.go", []byte("package main\nfunc main() {}\n"))
	write(t, root, "go.mod", []byte("module demo\n"))
	write(t, root, "docs/guide.txt", []byte(strings.Repeat("guide ", 10)))

	res, files := setup(t, root)
	out := Run(res, files, Options{MaxSamples: 10, PerFileCap: 500}, logger.NewNop())

	want := []string{"go.mod", "cmd/app/main.go", "zzz/tiny.txt", "docs/guide.txt"}
	got := sampledPaths(out)
	if len(got) != len(want) {
		t.Fatalf("sampled=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sampled=%v want=%v", got, want)
		}
	}
}

func TestRun_MaxSamples(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", []byte("aa"))
	write(t, root, "b.txt", []byte("bbb"))
	write(t, root, "c.txt", []byte("cccc"))
	write(t, root, "logo.png", []byte{0x89, 0x50, 0x4e, 0x47})

	res, files := setup(t, root)
	out := Run(res, files, Options{MaxSamples: 2, PerFileCap: 100}, logger.NewNop())

	want := []string{"a.txt", "b.txt"}
	got := sampledPaths(out)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("sampled=%v want=%v", got, want)
	}
	if len(out.Skipped) != 1 || out.Skipped[0].Meta.Path != "logo.png" || out.Skipped[0].Outcome != OutcomeBinary {
		t.Fatalf("skipped=%+v want logo.png as binary", out.Skipped)
	}
}

func TestRun_Truncation(t *testing.T) {
	root := t.TempDir()
	write(t, root, "long.txt", []byte(strings.Repeat("x", 500)))

	res, files := setup(t, root)
	out := Run(res, files, Options{MaxSamples: 5, PerFileCap: 100}, logger.NewNop())
	if len(out.Samples) != 1 {
		t.Fatalf("samples=%d want 1", len(out.Samples))
	}
	s := out.Samples[0]
	if !s.Truncated {
		t.Fatal("expected truncation flag")
	}
	if len(s.Excerpt) > 100 {
		t.Fatalf("excerpt length %d exceeds cap", len(s.Excerpt))
	}
	if !strings.HasSuffix(s.Excerpt, TruncationMarker) {
		t.Fatalf("excerpt missing marker: %q", s.Excerpt[len(s.Excerpt)-20:])
	}

	short := Run(res, files, Options{MaxSamples: 5, PerFileCap: 1000}, logger.NewNop())
	if short.Samples[0].Truncated {
		t.Fatal("unexpected truncation for content under the cap")
	}
}

func TestRun_NullByteSkipped(t *testing.T) {
	root := t.TempDir()
	write(t, root, "blob.dat", []byte{'M', 'Z', 0x00, 0x01, 0x02})
	write(t, root, "a.txt", []byte("text one"))
	write(t, root, "b.txt", []byte("text two long"))
	write(t, root, "c.txt", []byte("text three longer"))

	res, files := setup(t, root)
	out := Run(res, files, Options{MaxSamples: 2, PerFileCap: 100}, logger.NewNop())

	if len(out.Samples) != 2 {
		t.Fatalf("samples=%v want 2 text files", sampledPaths(out))
	}
	for _, s := range out.Samples {
		if s.Meta.Path == "blob.dat" {
			t.Fatal("binary file was sampled")
		}
		if strings.IndexByte(s.Excerpt, 0) >= 0 {
			t.Fatal("null byte leaked into an excerpt")
		}
	}
	foundSkip := false
	for _, s := range out.Skipped {
		if s.Meta.Path == "blob.dat" && s.Outcome == OutcomeBinary {
			foundSkip = true
		}
	}
	if !foundSkip {
		t.Fatalf("binary skip not recorded: %+v", out.Skipped)
	}
}

func TestRun_BinaryExtRecordedWithoutRead(t *testing.T) {
	root := t.TempDir()
	write(t, root, "logo.png", []byte("pretend image"))
	write(t, root, "a.txt", []byte("text"))

	res, files := setup(t, root)
	out := Run(res, files, Options{MaxSamples: 1, PerFileCap: 100}, logger.NewNop())

	if len(out.Samples) != 1 || out.Samples[0].Meta.Path != "a.txt" {
		t.Fatalf("sampled=%v want [a.txt]", sampledPaths(out))
	}
	if len(out.Skipped) != 1 || out.Skipped[0].Meta.Path != "logo.png" || out.Skipped[0].Outcome != OutcomeBinary {
		t.Fatalf("skipped=%+v want logo.png binary", out.Skipped)
	}
}

func TestRun_UnreadableContinues(t *testing.T) {
	root := t.TempDir()
	write(t, root, "gone.txt", []byte("x"))
	write(t, root, "stay.txt", []byte("still here"))

	res, files := setup(t, root)
	// Simulate a file deleted between scan and sampling.
	if err := os.Remove(filepath.Join(root, "gone.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}

	out := Run(res, files, Options{MaxSamples: 5, PerFileCap: 100}, logger.NewNop())
	if len(out.Samples) != 1 || out.Samples[0].Meta.Path != "stay.txt" {
		t.Fatalf("sampled=%v want [stay.txt]", sampledPaths(out))
	}
	if len(out.Skipped) != 1 || out.Skipped[0].Outcome != OutcomeUnreadable {
		t.Fatalf("skipped=%+v want gone.txt unreadable", out.Skipped)
	}
}

func TestRun_ZeroBudget(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", []byte("text"))
	write(t, root, "logo.png", []byte("img"))

	res, files := setup(t, root)
	out := Run(res, files, Options{MaxSamples: 0, PerFileCap: 100}, logger.NewNop())
	if len(out.Samples) != 0 {
		t.Fatalf("samples=%v want none", sampledPaths(out))
	}
	// Known-binary files are still recorded.
	if len(out.Skipped) != 1 || out.Skipped[0].Meta.Path != "logo.png" {
		t.Fatalf("skipped=%+v want logo.png", out.Skipped)
	}
}
