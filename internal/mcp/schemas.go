package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// checkTextTool returns the tool definition for check_text
func checkTextTool() mcp.Tool {
	return mcp.Tool{
		Name:        "check_text",
		Description: "Check prose for spelling, grammar, and style errors with byte-exact offsets into the submitted text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "The prose to check",
				},
				"sentences_per_chunk": map[string]interface{}{
					"type":        "integer",
					"description": "Sentences grouped per chunk sent to the correction provider (defaults to the server's configured value)",
					"minimum":     1,
					"maximum":     10,
				},
			},
			Required: []string{"text"},
		},
	}
}

// checkDocumentTool returns the tool definition for check_document
func checkDocumentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "check_document",
		Description: "Check a stored document and persist the findings, replacing earlier results for that document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of a stored document",
				},
				"sentences_per_chunk": map[string]interface{}{
					"type":        "integer",
					"description": "Sentences grouped per chunk sent to the correction provider (defaults to the server's configured value)",
					"minimum":     1,
					"maximum":     10,
				},
			},
			Required: []string{"document_id"},
		},
	}
}

// getPipelineStatusTool returns the tool definition for get_pipeline_status
func getPipelineStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_pipeline_status",
		Description: "Report pipeline configuration, correction providers, and stored document count",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
