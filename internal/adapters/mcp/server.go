package mcpadapter

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/deb-sahu/docu-query/internal/core/ports"
)

const (
	serverName    = "docu-query"
	serverVersion = "1.0.0"
)

// Server exposes retrieval over MCP stdio so editor agents can query the
// same registry the REST API serves.
type Server struct {
	mcp       *server.MCPServer
	ingestor  ports.DocumentIngestor
	manager   ports.DocumentManager
	extractor ports.PassageExtractor
	answerer  ports.AnswerService
}

func NewServer(
	ingestor ports.DocumentIngestor,
	manager ports.DocumentManager,
	extractor ports.PassageExtractor,
	answerer ports.AnswerService,
) *Server {
	s := &Server{
		mcp:       server.NewMCPServer(serverName, serverVersion),
		ingestor:  ingestor,
		manager:   manager,
		extractor: extractor,
		answerer:  answerer,
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	s.mcp.AddTool(answerQuestionTool(), s.handleAnswerQuestion)
	s.mcp.AddTool(extractPassagesTool(), s.handleExtractPassages)
	s.mcp.AddTool(addTextTool(), s.handleAddText)
	s.mcp.AddTool(listDocumentsTool(), s.handleListDocuments)
}

// Serve runs the stdio transport until the peer disconnects.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
