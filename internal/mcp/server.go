// Package mcp exposes the SimpleTask adapter as MCP tools.
//
// This implementation uses the MCP SDK (github.com/modelcontextprotocol/go-sdk/mcp)
// and calls the gateway and resolver directly. Every domain failure is
// converted at this boundary into a failure tool result; nothing escapes as
// a crash.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskbridge/internal/logging"
	"github.com/fyrsmithlabs/taskbridge/internal/registry"
	"github.com/fyrsmithlabs/taskbridge/internal/session"
	"github.com/fyrsmithlabs/taskbridge/internal/simpletask"
)

// Server is the MCP server binding tool calls to the SimpleTask gateway.
type Server struct {
	mcp      *mcp.Server
	registry *registry.Registry
	resolver *session.Resolver
	client   *simpletask.Client
	metrics  *Metrics
	logger   *logging.Logger
}

// Config configures the MCP server.
type Config struct {
	// Name is the server implementation name (default: "taskbridge").
	Name string

	// Version is the server version (default: "0.1.0").
	Version string

	// Logger for structured logging.
	Logger *logging.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Name:    "taskbridge",
		Version: "0.1.0",
		Logger:  logging.NewNop(),
	}
}

// NewServer creates the MCP server and registers the tool catalog.
func NewServer(cfg *Config, reg *registry.Registry, resolver *session.Resolver, client *simpletask.Client) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if reg == nil {
		return nil, fmt.Errorf("project registry is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("project resolver is required")
	}
	if client == nil {
		return nil, fmt.Errorf("simpletask client is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s := &Server{
		mcp:      mcpServer,
		registry: reg,
		resolver: resolver,
		client:   client,
		metrics:  NewMetrics(logger.Zap()),
		logger:   logger,
	}

	s.registerProjectTools()
	s.registerTaskTools()
	s.registerCommentTools()
	s.registerChecklistTools()

	return s, nil
}

// Run starts the MCP server on the stdio transport.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info(ctx, "starting MCP server on stdio transport")
	transport := &mcp.StdioTransport{}
	if err := s.mcp.Run(ctx, transport); err != nil {
		return fmt.Errorf("server run failed: %w", err)
	}
	return nil
}

// begin instruments one tool invocation. The returned finish func must be
// called with the handler's final error.
func (s *Server) begin(ctx context.Context, tool string) (context.Context, func(error)) {
	ctx = logging.WithTool(ctx, tool)
	ctx = logging.WithRequestID(ctx, uuid.NewString())
	start := time.Now()
	s.metrics.IncrementActive(ctx, tool)
	return ctx, func(err error) {
		s.metrics.DecrementActive(ctx, tool)
		s.metrics.RecordInvocation(ctx, tool, time.Since(start), err)
		if err != nil {
			s.logger.Warn(ctx, "tool call failed", zap.Error(err))
		}
	}
}

// resolve picks the tenant for a call and tags the context with it.
func (s *Server) resolve(ctx context.Context, explicit string) (registry.Definition, context.Context, error) {
	def, err := s.resolver.Resolve(explicit)
	if err != nil {
		return registry.Definition{}, ctx, err
	}
	return def, logging.WithProject(ctx, def.Key), nil
}

// jsonResult renders v as an indented JSON text content block, the wire shape
// downstream agents parse.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}
