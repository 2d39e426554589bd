package github

import (
	"sort"
	"strings"
)

// DefaultTreeDepth caps how many path levels TreeContext renders. Deep
// trees blow up the prompt without adding much orientation value.
const DefaultTreeDepth = 3

// TreeContext renders a depth-capped, indented text view of a repository
// tree for use as model prompt context.
func TreeContext(tree *Tree, maxDepth int) string {
	if tree == nil {
		return ""
	}
	if maxDepth <= 0 {
		maxDepth = DefaultTreeDepth
	}

	items := make([]TreeItem, 0, len(tree.Entries))
	for _, item := range tree.Entries {
		if strings.Count(item.Path, "/")+1 <= maxDepth {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path < items[j].Path
	})

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		depth := strings.Count(item.Path, "/")
		b.WriteString(strings.Repeat("  ", depth))
		if item.Type == "tree" {
			b.WriteString("📁 ")
		} else {
			b.WriteString("📄 ")
		}
		name := item.Path
		if idx := strings.LastIndexByte(item.Path, '/'); idx >= 0 {
			name = item.Path[idx+1:]
		}
		b.WriteString(name)
	}
	return b.String()
}
