package ai

import (
	"fmt"
	"strings"

	"temetro/model"
)

const systemPromptPreamble = `You are an expert code assistant specialized in analyzing GitHub repositories. You help developers understand codebases, explain code structure, identify patterns, and answer questions about any repository.

Your capabilities:
- Analyze repository structure and architecture
- Explain code files and their purposes
- Identify design patterns and best practices
- Suggest improvements and optimizations
- Answer specific questions about code functionality
- Trace data flow and understand how components interact

Guidelines:
- Be concise but thorough
- Reference specific files and paths when relevant
- Use markdown formatting for code blocks and lists
- Provide actionable insights when possible
- If you're unsure about something, say so
- When explaining code, use code snippets with proper syntax highlighting`

// BuildSystemPrompt produces the system instruction for a chat turn. Pure
// and deterministic: the fixed preamble, then the repository name, tree
// structure and selected-node sections in that order, each omitted entirely
// when its input is absent.
func BuildSystemPrompt(ctx *model.RepositoryContext) string {
	var b strings.Builder
	b.WriteString(systemPromptPreamble)
	if ctx == nil {
		return b.String()
	}

	if ctx.Owner != "" && ctx.Repo != "" {
		fmt.Fprintf(&b, "\n\n## Current Repository\nYou are currently analyzing the repository: **%s/%s**", ctx.Owner, ctx.Repo)
	}

	if ctx.Structure != "" {
		fmt.Fprintf(&b, "\n\n## Repository Structure\n```\n%s\n```", ctx.Structure)
	}

	if len(ctx.SelectedNodes) > 0 {
		b.WriteString("\n\n## Selected Context\nThe user has selected the following files/folders for context:")
		for _, n := range ctx.SelectedNodes {
			typ := n.Type
			if typ == "" {
				typ = "unknown"
			}
			fmt.Fprintf(&b, "\n- `%s` (%s)", n.Path, typ)
		}
		b.WriteString("\n\nFocus your responses on these selected items when relevant.")
	}

	return b.String()
}
