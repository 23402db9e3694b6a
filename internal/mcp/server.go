package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/ppiankov/pmx/internal/audit"
	"github.com/ppiankov/pmx/internal/config"
	"github.com/ppiankov/pmx/internal/profile"
	"github.com/ppiankov/pmx/internal/prompt"
	"github.com/ppiankov/pmx/internal/storage"
)

const (
	// ServerName is the implementation name reported to MCP clients.
	ServerName   = "pmx-mcp-server"
	instructions = "This server provides system prompts managed by pmx."
)

// Config holds MCP server configuration.
type Config struct {
	Storage      *storage.Storage
	Version      string
	AuditLogPath string
	// Watch re-syncs the prompt list when files under repo/ change.
	Watch  bool
	Logger zerolog.Logger
}

// Server exposes a pmx storage root over MCP.
type Server struct {
	mcpServer *mcpsdk.Server
	repo      *profile.Repository
	prompts   *prompt.Server
	tools     config.DisableOption
	auditLog  *audit.Log
	watcher   *Watcher
	log       zerolog.Logger

	// mu serializes request handling and prompt re-syncs; the repository
	// does unlocked read-then-write sequences.
	mu sync.Mutex
	// registered maps prompt name to the fingerprint last handed to the SDK.
	registered map[string]string
}

// New creates an MCP server for the storage root in cfg.
func New(cfg Config) (*Server, error) {
	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}
	pc := cfg.Storage.Config
	if !pc.ProtocolEnabled() {
		return nil, errors.New("MCP server is disabled: both mcp.disable_prompts and mcp.disable_tools are true")
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := &Server{
		repo:       cfg.Storage.Profiles,
		prompts:    prompt.New(cfg.Storage.Profiles, pc),
		tools:      pc.MCP.DisableTools,
		log:        cfg.Logger,
		registered: make(map[string]string),
	}

	if cfg.AuditLogPath != "" {
		l, err := audit.Open(cfg.AuditLogPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open audit log: %w", err)
		}
		s.auditLog = l
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{Name: ServerName, Version: version},
		&mcpsdk.ServerOptions{
			Instructions: instructions,
			HasPrompts:   pc.MCP.DisablePrompts.Mode != config.DisableAll,
			HasTools:     pc.MCP.DisableTools.Mode != config.DisableAll,
		},
	)
	s.mcpServer.AddReceivingMiddleware(s.middleware)

	s.registerTools()
	if err := s.SyncPrompts(); err != nil {
		s.Close()
		return nil, err
	}

	if cfg.Watch {
		w, err := NewWatcher(s, s.repo.Dir())
		if err != nil {
			s.Close()
			return nil, err
		}
		s.watcher = w
	}
	return s, nil
}

// Run serves MCP on stdio. Blocks until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	if s.watcher != nil {
		go func() {
			if err := s.watcher.Run(ctx); err != nil {
				s.log.Error().Err(err).Msg("repository watcher stopped")
			}
		}()
	}
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the audit log and watcher.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Close()
	}
	if s.auditLog != nil {
		return s.auditLog.Close()
	}
	return nil
}

// SyncPrompts registers every visible prompt with the SDK and removes the
// ones that disappeared, so connected clients get prompts/list_changed.
func (s *Server) SyncPrompts() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncPromptsLocked()
}

func (s *Server) syncPromptsLocked() error {
	entries, err := s.prompts.List()
	if err != nil {
		return fmt.Errorf("failed to list prompts: %w", err)
	}

	next := make(map[string]string, len(entries))
	for _, e := range entries {
		fp := fingerprint(e)
		next[e.Name] = fp
		if s.registered[e.Name] == fp {
			continue
		}
		s.mcpServer.AddPrompt(sdkPrompt(e), s.handleGetPrompt)
	}

	var stale []string
	for name := range s.registered {
		if _, ok := next[name]; !ok {
			stale = append(stale, name)
		}
	}
	if len(stale) > 0 {
		s.mcpServer.RemovePrompts(stale...)
	}

	if len(stale) > 0 || len(next) != len(s.registered) {
		s.log.Debug().Int("prompts", len(next)).Int("removed", len(stale)).Msg("prompts synced")
	}
	s.registered = next
	return nil
}

// middleware serializes requests and answers prompts/list and prompts/get
// from the repository directly, so results are never staler than the
// files and hidden prompts report "disabled" instead of "unknown".
func (s *Server) middleware(next mcpsdk.MethodHandler) mcpsdk.MethodHandler {
	return func(ctx context.Context, method string, req mcpsdk.Request) (mcpsdk.Result, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		switch r := req.(type) {
		case *mcpsdk.ListPromptsRequest:
			res, err := s.listPrompts()
			if err != nil {
				return nil, err
			}
			return res, nil
		case *mcpsdk.GetPromptRequest:
			res, err := s.handleGetPrompt(ctx, r)
			if err != nil {
				return nil, err
			}
			return res, nil
		}
		return next(ctx, method, req)
	}
}

func (s *Server) record(method, name, outcome string, err error) {
	if s.auditLog == nil {
		return
	}
	e := audit.Entry{Method: method, Name: name, Outcome: outcome}
	if err != nil {
		e.Error = err.Error()
	}
	if rerr := s.auditLog.Record(e); rerr != nil {
		s.log.Warn().Err(rerr).Msg("audit record failed")
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return audit.OutcomeOK
	case errors.Is(err, prompt.ErrDisabled):
		return audit.OutcomeDisabled
	case errors.Is(err, profile.ErrNotFound):
		return audit.OutcomeNotFound
	default:
		return audit.OutcomeError
	}
}

func fingerprint(e prompt.Entry) string {
	fp := e.Description + "\x00"
	if e.Arguments == nil {
		return fp + "-"
	}
	for _, a := range e.Arguments {
		fp += a.Name + ","
	}
	return fp
}

func sdkPrompt(e prompt.Entry) *mcpsdk.Prompt {
	p := &mcpsdk.Prompt{Name: e.Name, Description: e.Description}
	for _, a := range e.Arguments {
		p.Arguments = append(p.Arguments, &mcpsdk.PromptArgument{Name: a.Name, Required: a.Required})
	}
	return p
}
