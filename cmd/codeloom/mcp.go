// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/codeloom/codeloom/pkg/assist"
	"github.com/codeloom/codeloom/pkg/types"
)

// newMCPCmd creates the "mcp" command.
func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start an MCP server exposing the index over stdio",
		Long:  "Mcp indexes the working directory once at startup, then serves retrieval, classification, and merge-planning tools over the Model Context Protocol on stdin/stdout.",
		RunE:  runMCP,
	}
}

// runMCP builds the index and serves it.
func runMCP(cmd *cobra.Command, args []string) error {
	a, err := newAssistant(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := indexProject(a); err != nil {
		return err
	}

	s := mcpserver.NewMCPServer("codeloom", version, mcpserver.WithToolCapabilities(false))

	s.AddTool(searchChunksTool(), makeSearchChunksHandler(a))
	s.AddTool(classifyIntentTool(), makeClassifyIntentHandler(a))
	s.AddTool(planMergeTool(), makePlanMergeHandler(a))
	s.AddTool(projectSummaryTool(), makeProjectSummaryHandler(a))
	s.AddTool(reindexProjectTool(), makeReindexHandler(a))

	return mcpserver.ServeStdio(s)
}

// --- Tool schema builders ---

var readOnlyAnnotation = mcp.ToolAnnotation{
	ReadOnlyHint:    mcp.ToBoolPtr(true),
	DestructiveHint: mcp.ToBoolPtr(false),
	IdempotentHint:  mcp.ToBoolPtr(true),
	OpenWorldHint:   mcp.ToBoolPtr(false),
}

func searchChunksTool() mcp.Tool {
	return mcp.NewTool("search_chunks",
		mcp.WithDescription("Rank indexed code chunks against a natural language or keyword query. Returns chunks with file paths, line ranges, scores, and match reasons."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Natural language or keyword query"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of chunks to return (default 10)"),
		),
		mcp.WithString("language",
			mcp.Description("Optional language filter (e.g. 'go', 'python')"),
		),
	)
}

func classifyIntentTool() mcp.Tool {
	return mcp.NewTool("classify_intent",
		mcp.WithDescription("Classify a natural language instruction into an intent (generate, modify, explain, debug, refactor, file operation, ...) with confidence and routing."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("Instruction text to classify"),
		),
		mcp.WithString("current_file",
			mcp.Description("Name of the file currently open in the editor"),
		),
	)
}

func planMergeTool() mcp.Tool {
	return mcp.NewTool("plan_merge",
		mcp.WithDescription("Plan how generated code merges into an existing file. Returns the merged content, the operation list, a confidence score, and warnings."),
		mcp.WithString("existing",
			mcp.Description("Current file content (empty for a new file)"),
		),
		mcp.WithString("generated",
			mcp.Required(),
			mcp.Description("Generated content to merge"),
		),
		mcp.WithString("file_name",
			mcp.Required(),
			mcp.Description("Target file name, used for language detection"),
		),
		mcp.WithString("instruction",
			mcp.Description("Instruction text that produced the generated content"),
		),
	)
}

func projectSummaryTool() mcp.Tool {
	return mcp.NewTool("project_summary",
		mcp.WithDescription("Get the index summary: version, chunk and file counts, clusters, and any per-file extraction diagnostics."),
		mcp.WithToolAnnotation(readOnlyAnnotation),
	)
}

func reindexProjectTool() mcp.Tool {
	return mcp.NewTool("reindex_project",
		mcp.WithDescription("Rebuild the index from the current working directory, bumping the index version."),
	)
}

// --- Handler factories ---

func makeSearchChunksHandler(a *assist.Assistant) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return mcp.NewToolResultError("query is required"), nil
		}
		maxResults := req.GetInt("max_results", 10)
		if maxResults <= 0 {
			maxResults = 10
		}

		q := types.RetrievalQuery{
			Query:      query,
			QueryType:  types.QueryHybrid,
			MaxResults: maxResults,
		}
		if lang := req.GetString("language", ""); lang != "" {
			q.Filters = &types.RetrievalFilters{Language: lang}
		}

		result, err := a.Search(ctx, projectID(), q)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func makeClassifyIntentHandler(a *assist.Assistant) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		prompt := req.GetString("prompt", "")
		if prompt == "" {
			return mcp.NewToolResultError("prompt is required"), nil
		}

		classification := a.Classify(prompt, types.ContextFlags{
			CurrentFileName: req.GetString("current_file", ""),
		})
		return jsonResult(classification)
	}
}

func makePlanMergeHandler(a *assist.Assistant) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		generated := req.GetString("generated", "")
		fileName := req.GetString("file_name", "")
		if generated == "" || fileName == "" {
			return mcp.NewToolResultError("generated and file_name are required"), nil
		}

		result, err := a.PlanMerge(types.MergeRequest{
			ExistingContent:  req.GetString("existing", ""),
			GeneratedContent: generated,
			FileName:         fileName,
			InstructionText:  req.GetString("instruction", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("merge planning failed: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func makeProjectSummaryHandler(a *assist.Assistant) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ix, ok := a.ProjectIndex(projectID())
		if !ok {
			return mcp.NewToolResultError("project is not indexed — call reindex_project first"), nil
		}
		return jsonResult(ix.Summary())
	}
}

func makeReindexHandler(a *assist.Assistant) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ix, err := indexProject(a)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("reindex failed: %v", err)), nil
		}
		return jsonResult(ix.Summary())
	}
}

// jsonResult marshals v as the tool's text payload.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
