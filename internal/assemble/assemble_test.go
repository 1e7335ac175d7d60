package assemble

import (
	"path"
	"strings"
	"testing"

	"readmegen/internal/sample"
	"readmegen/internal/scan"
)

func fixture() (scan.ScanResult, scan.Metadata, sample.Result) {
	res := scan.ScanResult{
		Root: "/tmp/demo",
		Files: []scan.FileMeta{
			{Path: "cmd/app/main.go", Size: 120, Depth: 2, Ext: ".go"},
			{Path: "go.mod", Size: 40, Depth: 0, Ext: ".mod"},
			{Path: "readme.md", Size: 300, Depth: 0, Ext: ".md"},
		},
	}
	meta := scan.Metadata{
		Name:         "demo",
		Description:  "A demo project.",
		Languages:    []scan.LanguageCount{{Name: "Go", Files: 1}},
		Dependencies: []string{"github.com/pkg/a", "github.com/pkg/b"},
		License:      "MIT",
		HasTests:     true,
		Manifests:    []scan.Manifest{{Path: "go.mod", Content: "module demo\n"}},
	}
	smp := sample.Result{
		Samples: []sample.FileSample{
			{Meta: res.Files[1], Excerpt: "module demo\n", Outcome: sample.OutcomeSampled},
			{Meta: res.Files[0], Excerpt: "package main\n\nfunc main() {}\n", Outcome: sample.OutcomeSampled},
		},
		Skipped: []sample.FileSample{
			{Meta: scan.FileMeta{Path: "logo.png", Ext: ".png"}, Outcome: sample.OutcomeBinary},
		},
	}
	return res, meta, smp
}

func TestBuild_SectionOrder(t *testing.T) {
	res, meta, smp := fixture()
	r := Build(res, meta, smp, Options{}).Render()

	iS := strings.Index(r, "[STRUCTURE]")
	iM := strings.Index(r, "[MANIFEST]")
	iX := strings.Index(r, "[SAMPLES]")
	if iS != 0 || iM < iS || iX < iM {
		t.Fatalf("section order wrong: structure=%d manifest=%d samples=%d", iS, iM, iX)
	}
	for _, want := range []string{
		"repository: demo",
		"3 files",
		"languages: Go (1)",
		"description: A demo project.",
		"dependencies: github.com/pkg/a, github.com/pkg/b",
		"license: MIT",
		"tests: present",
		"--- go.mod ---\nmodule demo",
		"--- cmd/app/main.go ---\npackage main",
		"logo.png (skipped: binary)",
	} {
		if !strings.Contains(r, want) {
			t.Fatalf("payload missing %q:\n%s", want, r)
		}
	}
}

func TestBuild_Deterministic(t *testing.T) {
	res, meta, smp := fixture()
	a := Build(res, meta, smp, Options{}).Render()
	b := Build(res, meta, smp, Options{}).Render()
	if a != b {
		t.Fatal("two builds over the same input differ")
	}
}

func TestBuild_BudgetBound(t *testing.T) {
	res, meta, smp := fixture()
	for budget := 40; budget <= 2000; budget += 37 {
		r := Build(res, meta, smp, Options{MaxPayloadChars: budget}).Render()
		if len(r) > budget {
			t.Fatalf("budget %d exceeded: got %d chars", budget, len(r))
		}
	}
}

func TestBuild_NoMidEntryCuts(t *testing.T) {
	res, meta, smp := fixture()
	for budget := 40; budget <= 2000; budget += 13 {
		r := Build(res, meta, smp, Options{MaxPayloadChars: budget}).Render()
		for _, s := range smp.Samples {
			// Manifests show up in the manifest section too, so their
			// header alone does not prove the sample entry was kept.
			if scan.IsManifest(path.Base(s.Meta.Path)) {
				continue
			}
			header := "--- " + s.Meta.Path + " ---"
			if strings.Contains(r, header) && !strings.Contains(r, header+"\n"+s.Excerpt) {
				t.Fatalf("budget %d: excerpt for %s was cut mid-entry", budget, s.Meta.Path)
			}
		}
	}
}

func TestBuild_StructureSurvivesTightBudget(t *testing.T) {
	res, meta, smp := fixture()
	full := Build(res, meta, smp, Options{MaxPayloadChars: 1 << 20})
	structure := full.Sections[0].Body

	budget := len("[STRUCTURE]\n") + len(structure) + 5
	p := Build(res, meta, smp, Options{MaxPayloadChars: budget})
	if len(p.Sections) != 1 {
		t.Fatalf("expected structure only, got %d sections", len(p.Sections))
	}
	if p.Sections[0].Body != structure {
		t.Fatal("structure body was altered under a budget it fits in")
	}
}

func TestBuild_OversizedStructureIsCut(t *testing.T) {
	res, meta, smp := fixture()
	r := Build(res, meta, smp, Options{MaxPayloadChars: 40}).Render()
	if len(r) != 40 {
		t.Fatalf("expected a hard cut at 40 chars, got %d", len(r))
	}
	if !strings.HasPrefix(r, "[STRUCTURE]\n") {
		t.Fatalf("cut payload lost its header: %q", r)
	}
}

func TestBuild_EmptyRepo(t *testing.T) {
	res := scan.ScanResult{Root: "/tmp/empty"}
	r := Build(res, scan.Metadata{}, sample.Result{}, Options{}).Render()
	if r != "[STRUCTURE]\nrepository: empty\n0 files" {
		t.Fatalf("unexpected empty-repo payload: %q", r)
	}
}

func TestBuild_DeepFilesRolledUp(t *testing.T) {
	res := scan.ScanResult{
		Root: "/tmp/deep",
		Files: []scan.FileMeta{
			{Path: "a/b/c/d/e/buried.txt", Size: 5, Depth: 5, Ext: ".txt"},
			{Path: "top.txt", Size: 5, Depth: 0, Ext: ".txt"},
		},
	}
	r := Build(res, scan.Metadata{}, sample.Result{}, Options{}).Render()
	if strings.Contains(r, "buried.txt") {
		t.Fatal("file past the depth limit still rendered")
	}
	if !strings.Contains(r, "... and 1 more files") {
		t.Fatalf("missing roll-up line:\n%s", r)
	}
	if !strings.Contains(r, "  top.txt") {
		t.Fatalf("shallow file missing from tree:\n%s", r)
	}
}
