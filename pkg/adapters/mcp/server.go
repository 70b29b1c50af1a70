package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/segue"
	"github.com/aretw0/segue/internal/logging"
	"github.com/aretw0/segue/pkg/command"
	"github.com/aretw0/segue/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const settingsURI = "segue://settings"

// TransitionResult is the structured output of the scene_transition tool.
type TransitionResult struct {
	Outcome string `json:"outcome" jsonschema_description:"The outcome message of the transition"`
	OK      bool   `json:"ok" jsonschema_description:"False when the outcome is an error"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	InvokeNamed(ctx context.Context, named map[string]any, note string) domain.Outcome
	Settings(ctx context.Context) (domain.Settings, error)
	UpdateSettings(ctx context.Context, s domain.Settings) error
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("segue-mcp", strings.TrimSpace(segue.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server, e.g. for in-process transports.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves MCP over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: scene_transition
	transitionTool := mcp.NewTool("scene_transition",
		mcp.WithDescription("Generate a short in-character line that moves the conversation to a new scene and insert it into the chat. Chat equivalent: "+Usage()),
		mcp.WithString("note", mcp.Description("Guidance for the new scene (optional)")),
		mcp.WithString("style", mcp.Description("Style hint, e.g. noir (optional)")),
		mcp.WithNumber("max", mcp.Description("Token budget for the line (default 120)")),
		mcp.WithBoolean("background", mcp.Description("Force (true) or suppress (false) background regeneration")),
		mcp.WithOutputSchema[TransitionResult](),
	)
	s.mcpServer.AddTool(transitionTool, mcp.NewStructuredToolHandler(s.handleTransition))

	// TOOL: get_settings
	s.mcpServer.AddTool(mcp.NewTool("get_settings",
		mcp.WithDescription("Get the effective scene transition settings."),
		mcp.WithOutputSchema[domain.Settings](),
	), mcp.NewStructuredToolHandler(s.handleGetSettings))

	// TOOL: update_settings
	s.mcpServer.AddTool(mcp.NewTool("update_settings",
		mcp.WithDescription("Update the scene transition settings. Omitted fields keep their value."),
		mcp.WithString(domain.KeyInstructionTemplate, mcp.Description("Base directive text; empty restores the default")),
		mcp.WithBoolean(domain.KeyAutoTriggerBackground, mcp.Description("Trigger background regeneration when the request does not decide")),
		mcp.WithOutputSchema[domain.Settings](),
	), mcp.NewStructuredToolHandler(s.handleUpdateSettings))
}

func (s *Server) handleTransition(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (TransitionResult, error) {
	named := make(map[string]any, len(args))
	for k, v := range args {
		named[k] = v
	}

	note := ""
	if v, ok := named["note"]; ok {
		str, isString := v.(string)
		if !isString {
			return TransitionResult{}, fmt.Errorf("note must be a string")
		}
		note = str
		delete(named, "note")
	}

	outcome := s.engine.InvokeNamed(ctx, named, note)
	if outcome.IsError() {
		s.logger.Warn("MCP scene_transition failed", "outcome", outcome.String())
	}
	return TransitionResult{Outcome: outcome.String(), OK: !outcome.IsError()}, nil
}

func (s *Server) handleGetSettings(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Settings, error) {
	settings, err := s.engine.Settings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Settings, error) {
	settings, err := s.engine.Settings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	if v, ok := args[domain.KeyInstructionTemplate]; ok {
		str, isString := v.(string)
		if !isString {
			return domain.Settings{}, fmt.Errorf("%w: %s must be a string", domain.ErrInvalidArgument, domain.KeyInstructionTemplate)
		}
		settings.InstructionTemplate = str
	}
	if v, ok := args[domain.KeyAutoTriggerBackground]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return domain.Settings{}, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidArgument, domain.KeyAutoTriggerBackground)
		}
		settings.AutoTriggerBackground = b
	}

	if err := s.engine.UpdateSettings(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return s.engine.Settings(ctx)
}

func (s *Server) registerResources() {
	// EXPOSE: segue://settings
	s.mcpServer.AddResource(mcp.NewResource(settingsURI, "Scene Transition Settings",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		settings, err := s.engine.Settings(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
		jsonBytes, _ := json.Marshal(settings)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      settingsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

// Usage returns a one-line description of the command surface, for clients that list tools.
func Usage() string {
	return fmt.Sprintf("/%s [style=..] [max=..] [background=..] note (aliases: %s)", command.Name, strings.Join(command.Aliases, ", "))
}
