package github

// Repository is the subset of repository metadata the app consumes.
type Repository struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Owner         string   `json:"owner"`
	HTMLURL       string   `json:"html_url"`
	DefaultBranch string   `json:"default_branch"`
	Language      string   `json:"language"`
	Stars         int      `json:"stargazers_count"`
	Forks         int      `json:"forks_count"`
	Topics        []string `json:"topics"`
}

// TreeItem is one entry of a recursive repository tree.
type TreeItem struct {
	Path string `json:"path"`
	Mode string `json:"mode"`
	Type string `json:"type"` // "blob" | "tree"
	SHA  string `json:"sha"`
	Size int    `json:"size,omitempty"`
}

// Tree is a recursive repository file tree.
type Tree struct {
	SHA       string     `json:"sha"`
	Entries   []TreeItem `json:"tree"`
	Truncated bool       `json:"truncated"`
}

// ContentItem is one entry of a directory listing.
type ContentItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"` // "file" | "dir"
	Size int    `json:"size,omitempty"`
}

// SearchResult is one code search match.
type SearchResult struct {
	Path string `json:"path"`
	Name string `json:"name"`
	URL  string `json:"url"`
}
