package mcptools

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
	"github.com/riskibarqy/fantasy-rules-engine/internal/usecase"
)

const (
	serverName = "fantasy-rules-engine"
	// DefaultPath is where the streamable HTTP handler is mounted.
	DefaultPath = "/mcp"
)

// Services are the use cases the tools call into.
type Services struct {
	Gameweeks *usecase.GameweekService
	Squads    *usecase.SquadService
	Transfers *usecase.TransferService
	Chips     *usecase.ChipService
	Scoring   *usecase.ScoringService
}

type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Server exposes the rules engine as MCP tools.
type Server struct {
	mcp      *mcp.Server
	services Services
	logger   *logging.Logger
	tools    []ToolInfo
}

func NewServer(services Services, version string, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	if strings.TrimSpace(version) == "" {
		version = "dev"
	}

	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version,
		}, nil),
		services: services,
		logger:   logger.Named("mcp"),
		tools:    make([]ToolInfo, 0, 8),
	}
	s.registerTools()
	return s
}

// Tools lists the registered tool names and descriptions.
func (s *Server) Tools() []ToolInfo {
	return append([]ToolInfo(nil), s.tools...)
}

// Run serves a single session on transport until ctx is done or the client
// disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcp.Run(ctx, transport)
}

// Connect starts a session on transport and returns without waiting for it.
func (s *Server) Connect(ctx context.Context, transport mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, transport, nil)
}

// HTTPHandler serves the tools over streamable HTTP with a /tools listing
// next to it.
func (s *Server) HTTPHandler(path string) http.Handler {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	mux := http.NewServeMux()
	mux.Handle(path, streamable)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /tools", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = sonic.ConfigDefault.NewEncoder(w).Encode(s.Tools())
	})
	return mux
}

func addTool[T any](s *Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(s.mcp, tool, handler)
}

func (s *Server) toolJSON(ctx context.Context, tool string, payload any, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		s.logger.InfoContext(ctx, "tool call rejected", "tool", tool, "error", err)
		return toolError(err), nil, nil
	}
	raw, err := sonic.Marshal(payload)
	if err != nil {
		return toolError(fmt.Errorf("encode %s result: %w", tool, err)), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(raw)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
