package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	mcpserver "github.com/felixgeelhaar/mcp-go/server"

	"github.com/felixgeelhaar/popsolver/domain/tool"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
	"github.com/felixgeelhaar/popsolver/infrastructure/resilience"
	"github.com/felixgeelhaar/popsolver/infrastructure/telemetry"
)

// Server exposes the tools of a registry to MCP clients.
// Every call runs under the resilience guard.
type Server struct {
	srv      *mcpgo.Server
	registry tool.Registry
	guard    *resilience.Guard
	metrics  telemetry.Metrics
	info     mcpgo.ServerInfo
}

// ServerConfig configures a server.
type ServerConfig struct {
	// Name is the server name.
	Name string

	// Version is the server version.
	Version string

	// Description is an optional server description.
	Description string

	// Instructions provides usage instructions for clients.
	Instructions string

	// Registry holds the tools to expose.
	Registry tool.Registry

	// Guard bounds tool calls. A default guard is used when nil.
	Guard *resilience.Guard

	// Metrics records failed calls. Defaults to a noop recorder.
	Metrics telemetry.Metrics
}

// ToolDef is the client-facing description of one tool.
type ToolDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Usage       string          `json:"usage"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// NewServer creates a server and registers every tool of the registry.
func NewServer(cfg ServerConfig) *Server {
	info := mcpgo.ServerInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Description: cfg.Description,
		Capabilities: mcpgo.Capabilities{
			Tools: true,
		},
	}

	var opts []mcpgo.Option
	if cfg.Instructions != "" {
		opts = append(opts, mcpgo.WithInstructions(cfg.Instructions))
	}

	s := &Server{
		srv:      mcpgo.NewServer(info, opts...),
		registry: cfg.Registry,
		guard:    cfg.Guard,
		metrics:  cfg.Metrics,
		info:     info,
	}
	if s.guard == nil {
		s.guard = resilience.NewDefaultGuard()
	}
	if s.metrics == nil {
		s.metrics = telemetry.NoopMetricsProvider{}
	}

	s.srv.Use(serverMiddleware(mcpgo.Recover()), serverMiddleware(mcpgo.RequestID()))

	if cfg.Registry != nil {
		for _, t := range cfg.Registry.List() {
			s.registerTool(t)
		}
	}
	return s
}

// serverMiddleware adapts an mcp-go middleware to the server package's
// identically shaped middleware type.
func serverMiddleware(m mcpgo.Middleware) mcpserver.Middleware {
	return func(next mcpserver.HandlerFunc) mcpserver.HandlerFunc {
		return mcpserver.HandlerFunc(m(mcpgo.MiddlewareHandlerFunc(next)))
	}
}

func (s *Server) registerTool(t tool.Tool) {
	name := t.Name()
	handler := func(ctx context.Context, input json.RawMessage) (string, error) {
		result, err := s.Call(ctx, name, input)
		if err != nil {
			return "", err
		}
		return Render(result), nil
	}

	s.srv.Tool(name).
		Description(Describe(t)).
		Handler(handler)
}

// Call runs one tool by name under the guard.
func (s *Server) Call(ctx context.Context, name string, input json.RawMessage) (tool.Result, error) {
	if s.registry == nil {
		return tool.Result{}, fmt.Errorf("%w: %s", tool.ErrToolNotFound, name)
	}
	t, ok := s.registry.Get(name)
	if !ok {
		return tool.Result{}, fmt.Errorf("%w: %s", tool.ErrToolNotFound, name)
	}

	start := time.Now()
	result, err := s.guard.Execute(ctx, t, input)
	if err != nil {
		s.metrics.RecordError(ctx, name, err)
		logging.Error().
			Add(logging.Component("mcp")).
			Add(logging.Str("tool", name)).
			Add(logging.Duration(time.Since(start))).
			Add(logging.ErrorClass(err)).
			Add(logging.ErrorField(err)).
			Msg("tool call failed")
		return tool.Result{}, err
	}

	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Str("tool", name)).
		Add(logging.Duration(result.Duration)).
		Add(logging.Str("outcome", outcome(result))).
		Msg("tool call")
	return result, nil
}

func outcome(r tool.Result) string {
	if r.Failed {
		return "failed"
	}
	return "ok"
}

// Render turns a result into the text returned to MCP clients: the message,
// followed by the structured output when there is one.
func Render(r tool.Result) string {
	if len(r.Output) == 0 {
		return r.Text
	}
	return r.Text + "\n\n" + string(r.Output)
}

// Describe is the description announced to MCP clients. Handlers take raw
// JSON, so the argument list and input schema travel in the description.
func Describe(t tool.Tool) string {
	var b strings.Builder
	b.WriteString(t.Description())
	b.WriteString("\n\nUsage: ")
	b.WriteString(tool.Usage(t))
	if schema := t.InputSchema(); !schema.IsEmpty() {
		var compact bytes.Buffer
		if err := json.Compact(&compact, schema.Raw()); err == nil {
			b.WriteString("\nInput schema: ")
			b.WriteString(compact.String())
		}
	}
	return b.String()
}

// Definitions describes every exposed tool, ordered by name.
func (s *Server) Definitions() []ToolDef {
	if s.registry == nil {
		return nil
	}
	tools := s.registry.List()
	defs := make([]ToolDef, len(tools))
	for i, t := range tools {
		schema := t.InputSchema().Raw()
		if len(schema) == 0 {
			schema = json.RawMessage(`{}`)
		}
		defs[i] = ToolDef{
			Name:        t.Name(),
			Description: t.Description(),
			Usage:       tool.Usage(t),
			InputSchema: schema,
		}
	}
	return defs
}

// Info returns the server metadata.
func (s *Server) Info() ServerInfo {
	return s.info
}

// ServeStdio runs the server over stdin/stdout until ctx is done.
func (s *Server) ServeStdio(ctx context.Context, opts ...ServeOption) error {
	logging.Info().
		Add(logging.Component("mcp")).
		Add(logging.Str("server", s.info.Name)).
		Add(logging.Str("tools", fmt.Sprint(s.toolNames()))).
		Msg("serving tools over stdio")
	return mcpgo.ServeStdio(ctx, s.srv, opts...)
}

func (s *Server) toolNames() []string {
	if s.registry == nil {
		return nil
	}
	return s.registry.Names()
}
