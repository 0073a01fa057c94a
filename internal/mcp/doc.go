// Package mcp implements the Model Context Protocol (MCP) server for prosecheck.
//
// The MCP server exposes three tools to AI writing assistants:
//   - check_text: Check prose for spelling, grammar, and style errors
//   - check_document: Check a stored document and persist the findings
//   - get_pipeline_status: Report pipeline configuration and statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output. Stdout
// is reserved for the protocol; all logging goes to stderr.
//
// # Basic Usage
//
// The MCP server is typically started via the mcp command:
//
//	prosecheck mcp
//
// It then listens on stdin for MCP protocol messages and writes responses to stdout.
//
// # Tool: check_text
//
// Check a piece of prose in one shot:
//
//	Request:
//	{
//	  "name": "check_text",
//	  "arguments": {
//	    "text": "She recieve the letter yesterday.",
//	    "sentences_per_chunk": 3
//	  }
//	}
//
//	Response:
//	{
//	  "errors": [
//	    {
//	      "type": "spelling",
//	      "word": "recieve",
//	      "start": 4,
//	      "end": 11,
//	      "suggestion": "receives",
//	      "contextBefore": "",
//	      "contextAfter": "the letter"
//	    }
//	  ],
//	  "stats": {
//	    "chunks_processed": 1,
//	    "entities_masked": 0,
//	    "errors_reported": 1,
//	    "duration_ms": 412
//	  }
//	}
//
// Offsets are byte positions into the submitted text, so clients can
// highlight the flagged span directly.
//
// # Tool: check_document
//
// Check a stored document. The findings replace the document's previously
// persisted results:
//
//	Request:
//	{
//	  "name": "check_document",
//	  "arguments": {
//	    "document_id": "4f7c9a02-..."
//	  }
//	}
//
//	Response:
//	{
//	  "document_id": "4f7c9a02-...",
//	  "errors": [...],
//	  "stats": {...}
//	}
//
// # Tool: get_pipeline_status
//
// Inspect the running pipeline:
//
//	Request:
//	{
//	  "name": "get_pipeline_status",
//	  "arguments": {}
//	}
//
//	Response:
//	{
//	  "server": {"name": "prosecheck", "version": "1.0.0"},
//	  "pipeline": {
//	    "providers": ["openai", "rules"],
//	    "sentences_per_chunk": 3,
//	    "max_chunk_chars": 4000,
//	    "max_concurrent_chunks": 4,
//	    "active_checks": 0
//	  },
//	  "documents": 12
//	}
//
// # MCP Client Configuration
//
// Configure in an MCP client's settings:
//
//	{
//	  "mcpServers": {
//	    "prosecheck": {
//	      "command": "/usr/local/bin/prosecheck",
//	      "args": ["mcp"],
//	      "env": {
//	        "OPENAI_API_KEY": "your-api-key"
//	      }
//	    }
//	  }
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32001,
//	    "message": "text parameter is required and cannot be empty",
//	    "data": {
//	      "param": "text",
//	      "reason": "missing or empty"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (pipeline, database)
//   - -32001: Text is empty
//   - -32002: Document not found
//   - -32003: Check superseded by a newer check of the same document
package mcp
