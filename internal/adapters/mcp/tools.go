package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func answerQuestionTool() mcp.Tool {
	return mcp.Tool{
		Name:        "answer_question",
		Description: "Answer a question from the uploaded documents, with ranked source passages",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of source passages to use",
					"default":     4,
					"minimum":     1,
				},
				"doc_ids": map[string]interface{}{
					"type":        "array",
					"description": "Restrict retrieval to these document ids",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"question"},
		},
	}
}

func extractPassagesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "extract_passages",
		Description: "Return the raw ranked passages for a query without composing an answer",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The query to rank passages against",
				},
				"top_k": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of passages to return",
					"default":     4,
					"minimum":     1,
				},
				"doc_ids": map[string]interface{}{
					"type":        "array",
					"description": "Restrict retrieval to these document ids",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
			},
			Required: []string{"question"},
		},
	}
}

func addTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_text",
		Description: "Index a block of text so it becomes searchable",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "The text to index",
				},
				"title": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the text document",
				},
			},
			Required: []string{"text"},
		},
	}
}

func listDocumentsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents currently held in the registry",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
		},
	}
}

func (s *Server) handleAnswerQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, topK, docIDs, err := retrievalArgs(request)
	if err != nil {
		return nil, err
	}

	result, err := s.answerer.Answer(ctx, question, topK, docIDs)
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}
	return mcp.NewToolResultText(formatJSON(result)), nil
}

func (s *Server) handleExtractPassages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, topK, docIDs, err := retrievalArgs(request)
	if err != nil {
		return nil, err
	}

	passages, err := s.extractor.Extract(ctx, question, topK, docIDs)
	if err != nil {
		return nil, fmt.Errorf("extract passages: %w", err)
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":    question,
		"passages": passages,
	})), nil
}

func (s *Server) handleAddText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid arguments")
	}
	text, _ := args["text"].(string)
	if text == "" {
		return nil, fmt.Errorf("text parameter is required")
	}
	title, _ := args["title"].(string)

	meta, err := s.ingestor.AddText(ctx, title, text)
	if err != nil {
		return nil, fmt.Errorf("add text: %w", err)
	}
	return mcp.NewToolResultText(formatJSON(meta)), nil
}

func (s *Server) handleListDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs := s.manager.ListDocuments(ctx)
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})), nil
}

func retrievalArgs(request mcp.CallToolRequest) (question string, topK int, docIDs []string, err error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", 0, nil, fmt.Errorf("invalid arguments")
	}

	question, _ = args["question"].(string)
	if question == "" {
		return "", 0, nil, fmt.Errorf("question parameter is required")
	}

	if raw, ok := args["top_k"].(float64); ok {
		topK = int(raw)
	}
	if raw, ok := args["doc_ids"].([]interface{}); ok {
		for _, item := range raw {
			if id, ok := item.(string); ok && id != "" {
				docIDs = append(docIDs, id)
			}
		}
	}
	return question, topK, docIDs, nil
}

func formatJSON(v interface{}) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
