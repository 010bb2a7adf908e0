// Package mcptools exposes graphlink operations as MCP tools.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/perihelia/graphlink"
)

const (
	toolNameQuery    = "graphql_query"
	toolNameMutation = "graphql_mutation"
)

// Runner is the slice of the graphlink client the tools need.
type Runner interface {
	Query(ctx context.Context, document *graphlink.Document, variables graphlink.Variables) (*graphlink.Result, error)
	Mutate(ctx context.Context, document *graphlink.Document, variables graphlink.Variables) (*graphlink.Result, error)
}

// Registration pairs an MCP tool definition with its handler function.
type Registration struct {
	Tool    mcp.Tool
	Handler server.ToolHandlerFunc
}

// All returns every tool registration backed by runner.
func All(runner Runner, logger *slog.Logger) []Registration {
	return []Registration{
		toolQuery(runner, logger),
		toolMutation(runner, logger),
	}
}

// RegisterAll adds every Registration to the given MCP server.
func RegisterAll(s *server.MCPServer, registrations []Registration) {
	for _, r := range registrations {
		s.AddTool(r.Tool, r.Handler)
	}
}

// operationArgs are the arguments both tools accept.
type operationArgs struct {
	Query     string         `mapstructure:"query"`
	Variables map[string]any `mapstructure:"variables"`
}

func toolQuery(runner Runner, logger *slog.Logger) Registration {
	tool := mcp.NewTool(toolNameQuery,
		mcp.WithDescription("Execute a GraphQL query against the configured endpoint. Results include both data and any GraphQL errors."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The GraphQL query document to execute."),
		),
		mcp.WithObject("variables",
			mcp.Description("Optional variables for the operation."),
		),
	)
	return Registration{
		Tool:    tool,
		Handler: operationHandler(toolNameQuery, runner.Query, logger),
	}
}

func toolMutation(runner Runner, logger *slog.Logger) Registration {
	tool := mcp.NewTool(toolNameMutation,
		mcp.WithDescription("Execute a GraphQL mutation against the configured endpoint. The document is sent exactly as written."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The GraphQL mutation document to execute."),
		),
		mcp.WithObject("variables",
			mcp.Description("Optional variables for the operation."),
		),
	)
	return Registration{
		Tool:    tool,
		Handler: operationHandler(toolNameMutation, runner.Mutate, logger),
	}
}

func operationHandler(
	name string,
	run func(context.Context, *graphlink.Document, graphlink.Variables) (*graphlink.Result, error),
	logger *slog.Logger,
) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args operationArgs
		if err := mapstructure.Decode(req.GetArguments(), &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		if strings.TrimSpace(args.Query) == "" {
			return mcp.NewToolResultError("query must not be empty"), nil
		}

		doc, err := graphlink.ParseDocument(args.Query)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := run(ctx, doc, args.Variables)
		if err != nil {
			logger.ErrorContext(ctx, "graphql call failed",
				"tool", name, "err", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
		}
		logger.DebugContext(ctx, "graphql call finished",
			"tool", name, "errors", len(res.Errors))
		return mcp.NewToolResultText(string(out)), nil
	}
}
