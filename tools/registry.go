// Package tools declares the repository-analysis tools offered to the model
// and executes tool calls against the GitHub content provider.
//
// Tool declarations use MCP tool schemas; provider packages convert them to
// each SDK's native tool format.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"temetro/github"
	"temetro/model"
)

// Result bounding caps. Tool outputs are folded back into the model
// conversation and must stay within context limits. Hardcoded policy,
// not derived from any context-window calculation.
const (
	MaxFileContentChars = 50000
	MaxSearchResults    = 20
	MaxDirectoryEntries = 100
)

// ContentProvider is the slice of the GitHub client the registry needs.
// Tests substitute it with stubs.
type ContentProvider interface {
	GetFileContent(ctx context.Context, owner, repo, path, branch string) (string, error)
	GetDirectoryContents(ctx context.Context, owner, repo, path, branch string) ([]github.ContentItem, error)
	SearchCode(ctx context.Context, owner, repo, query string) ([]github.SearchResult, error)
}

// Registry executes named tool calls against a content provider.
type Registry struct {
	provider ContentProvider
}

func NewRegistry(provider ContentProvider) *Registry {
	return &Registry{provider: provider}
}

// Declarations returns the three tools offered to the model when a
// repository context is resolvable.
func Declarations() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool("fetchFileContent",
			mcp.WithDescription("Fetch the content of a specific file from the repository. Use this to read code files and understand their implementation."),
			mcp.WithString("path",
				mcp.Required(),
				mcp.Description(`The file path relative to repository root (e.g., "src/index.ts")`),
			),
		),
		mcp.NewTool("searchRepository",
			mcp.WithDescription("Search for files or code patterns in the repository. Use this to find relevant files."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Search query for files or code patterns"),
			),
		),
		mcp.NewTool("listDirectory",
			mcp.WithDescription("List files and folders in a specific directory. Use this to explore the repository structure."),
			mcp.WithString("path",
				mcp.Description("Directory path relative to root, empty string for root directory"),
			),
		),
	}
}

type fileResult struct {
	Success bool   `json:"success"`
	Path    string `json:"path"`
	Content string `json:"content"`
}

type searchResult struct {
	Success bool                  `json:"success"`
	Query   string                `json:"query"`
	Results []github.SearchResult `json:"results"`
}

type listResult struct {
	Success  bool                 `json:"success"`
	Path     string               `json:"path"`
	Contents []github.ContentItem `json:"contents"`
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Execute dispatches a named tool call and returns a JSON envelope with a
// success flag. Provider failures become {"success":false,...} rather than
// Go errors: a failed tool call is surfaced to the model, not to the
// transport.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, repo *model.RepositoryContext) string {
	switch name {
	case "fetchFileContent":
		path := stringArg(args, "path")
		content, err := r.provider.GetFileContent(ctx, repo.Owner, repo.Repo, path, repo.Branch)
		if err != nil {
			return encodeFailure(err)
		}
		if len(content) > MaxFileContentChars {
			content = content[:MaxFileContentChars]
		}
		return encode(fileResult{Success: true, Path: path, Content: content})

	case "searchRepository":
		query := stringArg(args, "query")
		results, err := r.provider.SearchCode(ctx, repo.Owner, repo.Repo, query)
		if err != nil {
			return encodeFailure(err)
		}
		if len(results) > MaxSearchResults {
			results = results[:MaxSearchResults]
		}
		if results == nil {
			results = []github.SearchResult{}
		}
		return encode(searchResult{Success: true, Query: query, Results: results})

	case "listDirectory":
		path := stringArg(args, "path")
		contents, err := r.provider.GetDirectoryContents(ctx, repo.Owner, repo.Repo, path, repo.Branch)
		if err != nil {
			return encodeFailure(err)
		}
		if len(contents) > MaxDirectoryEntries {
			contents = contents[:MaxDirectoryEntries]
		}
		if contents == nil {
			contents = []github.ContentItem{}
		}
		return encode(listResult{Success: true, Path: path, Contents: contents})

	default:
		return encode(failure{Error: "Unknown tool"})
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func encode(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())
	}
	return string(data)
}

func encodeFailure(err error) string {
	return encode(failure{Error: err.Error()})
}
