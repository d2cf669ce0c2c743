// Package mcp exposes the workflow turn loop as an MCP server, so agent
// hosts can submit instructions and inspect the resulting document.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/flowsmith/flowsmith"
	"github.com/flowsmith/flowsmith/internal/presentation/graph"
	"github.com/flowsmith/flowsmith/pkg/session"
	"github.com/flowsmith/flowsmith/pkg/workflow"
)

// TurnOutput is the structured result of submit_instruction.
type TurnOutput struct {
	Message   string             `json:"message" jsonschema_description:"Assistant response for the turn"`
	Committed bool               `json:"committed" jsonschema_description:"Whether the document was replaced"`
	Document  *workflow.Workflow `json:"document" jsonschema_description:"The committed workflow document"`
}

// Server wraps the Architect and session manager as an MCP server.
type Server struct {
	arch      *flowsmith.Architect
	sessions  *session.Manager
	mcpServer *server.MCPServer
}

// NewServer creates the MCP server and registers its tools and resources.
func NewServer(arch *flowsmith.Architect, sessions *session.Manager) *Server {
	s := &Server{
		arch:      arch,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("flowsmith-mcp", strings.TrimSpace(flowsmith.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	// TOOL: submit_instruction
	submitTool := mcp.NewTool("submit_instruction",
		mcp.WithDescription("Submit a natural-language instruction against a workflow session. "+
			"The session is created on first use. Returns the assistant response and the committed document."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("instruction", mcp.Required(), mcp.Description("The instruction to apply")),
		mcp.WithOutputSchema[TurnOutput](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmit))

	// TOOL: get_workflow
	s.mcpServer.AddTool(mcp.NewTool("get_workflow",
		mcp.WithDescription("Get the committed workflow document for a session as JSON."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		sess, err := s.sessions.Load(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(workflow.EncodeJSONIndent(sess.Document))), nil
	})

	// TOOL: render_graph
	s.mcpServer.AddTool(mcp.NewTool("render_graph",
		mcp.WithDescription("Render the session's workflow as a graph. Formats: mermaid (default), dot."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("format", mcp.Description("Output format: mermaid or dot")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("session_id", "")
		sess, err := s.sessions.Load(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
		}
		switch request.GetString("format", "mermaid") {
		case "mermaid":
			return mcp.NewToolResultText(graph.GenerateMermaid(sess.Document)), nil
		case "dot":
			return mcp.NewToolResultText(graph.GenerateDOT(sess.Document)), nil
		default:
			return mcp.NewToolResultError("unknown format, expected mermaid or dot"), nil
		}
	})
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TurnOutput, error) {
	id, _ := args["session_id"].(string)
	instruction, _ := args["instruction"].(string)
	if id == "" || instruction == "" {
		return TurnOutput{}, fmt.Errorf("session_id and instruction are required")
	}

	if _, err := s.sessions.LoadOrStart(ctx, id); err != nil {
		return TurnOutput{}, fmt.Errorf("session init failed: %w", err)
	}

	var out TurnOutput
	err := s.sessions.Update(ctx, id, func(sess *session.Session) error {
		res, err := s.arch.Submit(ctx, sess, instruction)
		if err != nil {
			return err
		}
		out = TurnOutput{Message: res.Message, Committed: res.Committed, Document: res.Document}
		return nil
	})
	if err != nil {
		return TurnOutput{}, fmt.Errorf("turn failed: %w", err)
	}
	return out, nil
}

func (s *Server) registerResources() {
	// EXPOSE: flowsmith://schema
	s.mcpServer.AddResource(mcp.NewResource("flowsmith://schema", "Workflow Document Schema",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "flowsmith://schema",
				MIMEType: "text/plain",
				Text:     workflow.SchemaDescription,
			},
		}, nil
	})

	// EXPOSE: flowsmith://sessions
	s.mcpServer.AddResource(mcp.NewResource("flowsmith://sessions", "Active Session IDs",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.sessions.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "flowsmith://sessions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
