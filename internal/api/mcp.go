package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/devprompt/devprompt/internal/catalog"
	"github.com/devprompt/devprompt/internal/composer"
	"github.com/devprompt/devprompt/internal/interview"
	"github.com/devprompt/devprompt/internal/storage"
	"github.com/devprompt/devprompt/internal/vendors"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Catalog  *catalog.Catalog
	Renderer *composer.Renderer
	Registry *vendors.Registry
	Store    *storage.Store // optional; if nil, the sessions resource returns an error
}

// NewMCPServer creates an MCP server exposing the question catalog and the
// rules renderer, so editor agents can generate rules files without running
// the interactive interview.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"devprompt",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("devprompt — generates coding-assistant rules files from developer preference answers."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("list_vendors",
			mcp.WithDescription("List supported coding-assistant vendors and the rules filename each one uses."),
		),
		mcpListVendors(deps),
	)

	s.AddTool(
		mcp.NewTool("render_rules",
			mcp.WithDescription("Generate a coding-assistant rules document from preference answers. Unanswered fields fall back to standard assumptions."),
			mcp.WithString("answers", mcp.Description(`JSON object mapping profile field names to answer strings, e.g. {"primary_languages": "go, python"}`), mcp.Required()),
			mcp.WithString("vendor", mcp.Description("Optional vendor name (see list_vendors); omit for plain markdown")),
		),
		mcpRenderRules(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"devprompt://catalog",
			"Question Catalog",
			mcp.WithResourceDescription("Profile fields and interview questions as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"devprompt://sessions",
			"Recent Sessions",
			mcp.WithResourceDescription("Last 10 archived interview sessions"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceSessions(deps),
	)

	return s
}

func mcpListVendors(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		type vendorInfo struct {
			Name        string `json:"name"`
			DisplayName string `json:"display_name"`
			Filename    string `json:"filename"`
		}

		names := deps.Registry.List()
		infos := make([]vendorInfo, 0, len(names))
		for _, name := range names {
			a, err := deps.Registry.Get(name)
			if err != nil {
				continue
			}
			infos = append(infos, vendorInfo{
				Name:        a.Name(),
				DisplayName: a.DisplayName(),
				Filename:    a.OutputFilename(),
			})
		}

		b, err := json.Marshal(infos)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal vendors: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRenderRules(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		answersJSON, err := req.RequireString("answers")
		if err != nil {
			return mcpError("answers is required"), nil
		}

		var answers map[string]string
		if err := json.Unmarshal([]byte(answersJSON), &answers); err != nil {
			return mcpError(fmt.Sprintf("invalid answers JSON: %v", err)), nil
		}

		for field := range answers {
			if _, ok := deps.Catalog.Field(field); !ok {
				return mcpError(fmt.Sprintf("unknown profile field %q", field)), nil
			}
		}

		p := interview.NewProfile(deps.Catalog)
		for _, f := range deps.Catalog.Fields() {
			if v, ok := answers[f.Name]; ok {
				p.Merge(f.Name, v)
			}
		}

		snap := p.Snapshot()
		snap.Partial = !p.IsRequiredComplete()

		prompt := deps.Renderer.Render(ctx, snap, nil)

		vendor := req.GetString("vendor", "")
		if vendor == "" {
			return mcpText(prompt), nil
		}

		a, err := deps.Registry.Get(vendor)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		out, err := a.Format(prompt, snap)
		if err != nil {
			return mcpError(fmt.Sprintf("formatting for %s: %v", vendor, err)), nil
		}

		b, err := json.Marshal(map[string]string{
			"filename": a.OutputFilename(),
			"content":  out,
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceCatalog(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type fieldInfo struct {
			Name     string   `json:"name"`
			Required bool     `json:"required"`
			Shape    string   `json:"shape"`
			Options  []string `json:"options,omitempty"`
			Default  string   `json:"default,omitempty"`
		}
		type questionInfo struct {
			ID       string   `json:"id"`
			Fields   []string `json:"fields"`
			Priority int      `json:"priority"`
			Requires []string `json:"requires,omitempty"`
			Prompt   string   `json:"prompt"`
		}

		var out struct {
			Fields    []fieldInfo    `json:"fields"`
			Questions []questionInfo `json:"questions"`
		}
		for _, f := range deps.Catalog.Fields() {
			out.Fields = append(out.Fields, fieldInfo{
				Name:     f.Name,
				Required: f.Required,
				Shape:    string(f.Shape),
				Options:  f.Options,
				Default:  f.Default,
			})
		}
		for _, q := range deps.Catalog.Questions() {
			out.Questions = append(out.Questions, questionInfo{
				ID:       q.ID,
				Fields:   q.Fields,
				Priority: q.Priority,
				Requires: q.Requires,
				Prompt:   q.Prompt,
			})
		}

		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceSessions(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		if deps.Store == nil {
			return nil, fmt.Errorf("session history not available")
		}

		sessions, err := deps.Store.ListSessions(10)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}

		type sessionSummary struct {
			ID            string `json:"id"`
			StartedAt     string `json:"started_at"`
			State         string `json:"state"`
			QuestionCount int    `json:"question_count"`
			Vendor        string `json:"vendor,omitempty"`
		}

		summaries := make([]sessionSummary, len(sessions))
		for i, sess := range sessions {
			summaries[i] = sessionSummary{
				ID:            sess.ID,
				StartedAt:     sess.StartedAt.Format(time.RFC3339),
				State:         sess.State,
				QuestionCount: sess.QuestionCount,
				Vendor:        sess.Vendor,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sessions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
