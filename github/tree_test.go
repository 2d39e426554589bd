package github

import (
	"strings"
	"testing"
)

func TestTreeContext(t *testing.T) {
	tree := &Tree{
		Entries: []TreeItem{
			{Path: "src", Type: "tree"},
			{Path: "README.md", Type: "blob"},
			{Path: "src/index.ts", Type: "blob"},
			{Path: "src/lib", Type: "tree"},
			{Path: "src/lib/util.ts", Type: "blob"},
			{Path: "src/lib/deep/nested/far.ts", Type: "blob"}, // depth 5, dropped
		},
	}

	got := TreeContext(tree, 3)
	lines := strings.Split(got, "\n")

	want := []string{
		"📄 README.md",
		"📁 src",
		"  📄 index.ts",
		"  📁 lib",
		"    📄 util.ts",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestTreeContextDepthDefault(t *testing.T) {
	tree := &Tree{
		Entries: []TreeItem{
			{Path: "a/b/c/d.txt", Type: "blob"}, // depth 4
			{Path: "a/b/c.txt", Type: "blob"},   // depth 3
		},
	}

	got := TreeContext(tree, 0)
	if strings.Contains(got, "d.txt") {
		t.Error("entries beyond the default depth should be dropped")
	}
	if !strings.Contains(got, "c.txt") {
		t.Error("entries at the default depth should be kept")
	}
}

func TestTreeContextNil(t *testing.T) {
	if got := TreeContext(nil, 3); got != "" {
		t.Errorf("nil tree should render empty, got %q", got)
	}
}
