package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/avandersen/prosecheck/internal/checker"
	"github.com/avandersen/prosecheck/internal/metrics"
	"github.com/avandersen/prosecheck/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "prosecheck"
	// ServerVersion is the protocol-visible server version
	ServerVersion = "1.0.0"
)

// Config carries the dependencies the MCP server is built from. Metrics may
// be nil.
type Config struct {
	Checker *checker.Checker
	Store   storage.Storage
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// Server wraps the MCP server with the checking pipeline
type Server struct {
	mcp     *server.MCPServer
	checker *checker.Checker
	store   storage.Storage
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewServer creates an MCP server exposing the check tools. The caller owns
// the injected dependencies and closes them after Serve returns.
func NewServer(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		checker: cfg.Checker,
		store:   cfg.Store,
		metrics: cfg.Metrics,
		log:     log.Named("mcp"),
	}

	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until the client
// disconnects. Stdout carries the protocol; logging stays on stderr.
func (s *Server) Serve() error {
	s.log.Info("mcp server listening on stdio",
		zap.String("name", ServerName),
		zap.String("version", ServerVersion))
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(checkTextTool(), s.handleCheckText)
	s.mcp.AddTool(checkDocumentTool(), s.handleCheckDocument)
	s.mcp.AddTool(getPipelineStatusTool(), s.handleGetPipelineStatus)
}
