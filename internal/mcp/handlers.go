package mcp

import (
	"context"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ppiankov/pmx/internal/profile"
	"github.com/ppiankov/pmx/internal/prompt"
	"github.com/ppiankov/pmx/internal/template"
)

// --- Input/Output types ---

// ListProfilesInput takes no parameters.
type ListProfilesInput struct{}

// ProfileInfo describes one profile in list_profiles output.
type ProfileInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Placeholders []string `json:"placeholders,omitempty"`
}

// ListProfilesOutput lists the visible profiles.
type ListProfilesOutput struct {
	Profiles []ProfileInfo `json:"profiles"`
}

// ShowProfileInput defines parameters for the show_profile tool.
type ShowProfileInput struct {
	Name string `json:"name" jsonschema:"profile name, e.g. design/plan"`
}

// ShowProfileOutput returns the raw profile content.
type ShowProfileOutput struct {
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	Placeholders []string `json:"placeholders,omitempty"`
}

// RenderProfileInput defines parameters for the render_profile tool.
type RenderProfileInput struct {
	Name      string         `json:"name" jsonschema:"profile name"`
	Arguments map[string]any `json:"arguments,omitempty" jsonschema:"placeholder values keyed by placeholder name"`
}

// RenderProfileOutput is the substituted content.
type RenderProfileOutput struct {
	Name    string   `json:"name"`
	Content string   `json:"content"`
	Unbound []string `json:"unbound,omitempty"`
}

// CreateProfileInput defines parameters for the create_profile tool.
type CreateProfileInput struct {
	Name    string `json:"name" jsonschema:"new profile name"`
	Content string `json:"content" jsonschema:"profile content (markdown)"`
}

// CreateProfileOutput confirms the creation.
type CreateProfileOutput struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

const (
	toolListProfiles  = "list_profiles"
	toolShowProfile   = "show_profile"
	toolRenderProfile = "render_profile"
	toolCreateProfile = "create_profile"
)

// registerTools adds the tools allowed by mcp.disable_tools.
func (s *Server) registerTools() {
	if s.tools.Allows(toolListProfiles) {
		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        toolListProfiles,
			Description: "List pmx profiles with their placeholders.",
		}, s.handleListProfiles)
	}
	if s.tools.Allows(toolShowProfile) {
		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        toolShowProfile,
			Description: "Show the raw content of a pmx profile.",
		}, s.handleShowProfile)
	}
	if s.tools.Allows(toolRenderProfile) {
		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        toolRenderProfile,
			Description: "Render a pmx profile, replacing <{{NAME}}> placeholders with the given arguments.",
		}, s.handleRenderProfile)
	}
	if s.tools.Allows(toolCreateProfile) {
		mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
			Name:        toolCreateProfile,
			Description: "Create a new pmx profile. Fails if the profile already exists.",
		}, s.handleCreateProfile)
	}
}

// --- Prompt handlers ---

func (s *Server) listPrompts() (*mcpsdk.ListPromptsResult, error) {
	entries, err := s.prompts.List()
	s.record("prompts/list", "", outcomeOf(err), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	res := &mcpsdk.ListPromptsResult{Prompts: make([]*mcpsdk.Prompt, 0, len(entries))}
	for _, e := range entries {
		res.Prompts = append(res.Prompts, sdkPrompt(e))
	}
	return res, nil
}

func (s *Server) handleGetPrompt(ctx context.Context, req *mcpsdk.GetPromptRequest) (*mcpsdk.GetPromptResult, error) {
	if req.Params == nil {
		return nil, errors.New("missing prompt name")
	}
	name := req.Params.Name
	content, err := s.prompts.Get(name, template.StringBindings(req.Params.Arguments))
	s.record("prompts/get", name, outcomeOf(err), err)
	if err != nil {
		return nil, promptError(name, err)
	}
	return &mcpsdk.GetPromptResult{
		Messages: []*mcpsdk.PromptMessage{{
			Role:    "user",
			Content: &mcpsdk.TextContent{Text: content},
		}},
	}, nil
}

// promptError keeps "disabled" and "not found" distinguishable for clients.
func promptError(name string, err error) error {
	switch {
	case errors.Is(err, prompt.ErrDisabled):
		return fmt.Errorf("prompt disabled: %s", name)
	case errors.Is(err, profile.ErrNotFound):
		return fmt.Errorf("prompt not found: %s", name)
	case errors.Is(err, profile.ErrInvalidName):
		return fmt.Errorf("invalid prompt name: %w", err)
	default:
		return fmt.Errorf("failed to read prompt %s: %w", name, err)
	}
}

// --- Tool handlers ---

// The profile tools apply the prompt policy too, so disable_prompts hides
// a profile from every protocol surface.

func (s *Server) handleListProfiles(ctx context.Context, req *mcpsdk.CallToolRequest, input ListProfilesInput) (*mcpsdk.CallToolResult, ListProfilesOutput, error) {
	entries, err := s.prompts.List()
	s.record("tools/"+toolListProfiles, "", outcomeOf(err), err)
	if err != nil {
		return nil, ListProfilesOutput{}, err
	}
	out := ListProfilesOutput{Profiles: make([]ProfileInfo, 0, len(entries))}
	for _, e := range entries {
		info := ProfileInfo{Name: e.Name, Description: e.Description}
		for _, a := range e.Arguments {
			info.Placeholders = append(info.Placeholders, a.Name)
		}
		out.Profiles = append(out.Profiles, info)
	}
	return nil, out, nil
}

func (s *Server) handleShowProfile(ctx context.Context, req *mcpsdk.CallToolRequest, input ShowProfileInput) (*mcpsdk.CallToolResult, ShowProfileOutput, error) {
	content, err := s.prompts.Get(input.Name, nil)
	s.record("tools/"+toolShowProfile, input.Name, outcomeOf(err), err)
	if err != nil {
		return nil, ShowProfileOutput{}, promptError(input.Name, err)
	}
	return nil, ShowProfileOutput{
		Name:         input.Name,
		Content:      content,
		Placeholders: template.Extract(content),
	}, nil
}

func (s *Server) handleRenderProfile(ctx context.Context, req *mcpsdk.CallToolRequest, input RenderProfileInput) (*mcpsdk.CallToolResult, RenderProfileOutput, error) {
	content, err := s.prompts.Get(input.Name, input.Arguments)
	s.record("tools/"+toolRenderProfile, input.Name, outcomeOf(err), err)
	if err != nil {
		return nil, RenderProfileOutput{}, promptError(input.Name, err)
	}
	return nil, RenderProfileOutput{
		Name:    input.Name,
		Content: content,
		Unbound: template.Extract(content),
	}, nil
}

func (s *Server) handleCreateProfile(ctx context.Context, req *mcpsdk.CallToolRequest, input CreateProfileInput) (*mcpsdk.CallToolResult, CreateProfileOutput, error) {
	err := s.repo.Create(input.Name, input.Content)
	s.record("tools/"+toolCreateProfile, input.Name, outcomeOf(err), err)
	if err != nil {
		return nil, CreateProfileOutput{}, fmt.Errorf("failed to create profile: %w", err)
	}
	path, err := s.repo.Resolve(input.Name)
	if err != nil {
		return nil, CreateProfileOutput{}, err
	}

	// Called from within the request middleware, which already holds mu.
	if err := s.syncPromptsLocked(); err != nil {
		s.log.Warn().Err(err).Msg("prompt sync after create failed")
	}
	return nil, CreateProfileOutput{Name: input.Name, Path: path}, nil
}
