// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline wires the classifier, retrieval engine, generation
// service, and merge planner into the single assist flow: classify the
// instruction, fetch context, optionally enrich it, and plan the merge
// when new content is supplied.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeloom/codeloom/internal/generation"
	"github.com/codeloom/codeloom/internal/intent"
	"github.com/codeloom/codeloom/internal/merge"
	"github.com/codeloom/codeloom/internal/retrieval"
	"github.com/codeloom/codeloom/pkg/types"
)

// enrichTopHits caps how many retrieval hits get a generated summary.
const enrichTopHits = 3

// Request is one assist invocation.
type Request struct {
	ProjectID   string
	Instruction string
	Flags       types.ContextFlags

	// Retrieval controls.
	MaxResults    int
	ContextWindow int

	// Merge inputs; merging is skipped while GeneratedContent is empty.
	ExistingContent  string
	GeneratedContent string
	FileName         string
	FileExtension    string

	// EnrichSummaries asks the generation backend to rewrite the top
	// hits' summaries. Failures degrade to the deterministic summaries.
	EnrichSummaries bool
}

// Response aggregates the stage outputs. Stages that did not run leave
// their field nil.
type Response struct {
	Classification types.IntentClassification
	Retrieval      *types.RetrievalResult
	Merge          *types.MergeResult
	Warnings       []string
}

// Deps holds the injected stage implementations.
type Deps struct {
	Classifier *intent.Classifier
	Engine     *retrieval.Engine
	Planner    *merge.Planner
	Generator  generation.Service // nil disables enrichment
	Log        *slog.Logger
}

// Runner executes assist requests.
type Runner struct {
	deps Deps
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Log == nil {
		deps.Log = slog.New(slog.DiscardHandler)
	}
	if deps.Generator == nil {
		deps.Generator = generation.Disabled{}
	}
	return &Runner{deps: deps}
}

// Run executes the flow. Retrieval and merge failures from malformed
// input are returned; generation failures never are — they degrade with
// a warning, so the deterministic result always comes back.
func (r *Runner) Run(ctx context.Context, req Request) (*Response, error) {
	if req.Instruction == "" {
		return nil, &types.ValidationError{Field: "instruction", Message: "instruction text is required"}
	}

	resp := &Response{
		Classification: r.deps.Classifier.Classify(req.Instruction, req.Flags),
	}
	r.deps.Log.Debug("instruction classified",
		"intent", resp.Classification.PrimaryIntent,
		"confidence", resp.Classification.Confidence)

	if req.ProjectID != "" && wantsRetrieval(resp.Classification.PrimaryIntent) {
		result, err := r.deps.Engine.Retrieve(ctx, req.ProjectID, types.RetrievalQuery{
			Query:           req.Instruction,
			QueryType:       types.QueryHybrid,
			MaxResults:      req.MaxResults,
			ContextWindow:   req.ContextWindow,
			IncludeMetadata: true,
		})
		if err != nil {
			return nil, fmt.Errorf("retrieving context: %w", err)
		}
		resp.Retrieval = result

		if req.EnrichSummaries {
			r.enrich(ctx, resp)
		}
	}

	if req.GeneratedContent != "" && req.FileName != "" {
		plan, err := r.deps.Planner.Plan(types.MergeRequest{
			ExistingContent:  req.ExistingContent,
			GeneratedContent: req.GeneratedContent,
			FileName:         req.FileName,
			FileExtension:    req.FileExtension,
			InstructionText:  req.Instruction,
		})
		if err != nil {
			return nil, fmt.Errorf("planning merge: %w", err)
		}
		resp.Merge = plan
	}

	return resp, nil
}

// wantsRetrieval reports whether the routed intent benefits from
// project context. File operations and filename suggestions act on
// paths, not chunk content.
func wantsRetrieval(i types.Intent) bool {
	switch i {
	case types.IntentFileOperation, types.IntentSuggestFilename:
		return false
	}
	return true
}

// enrich rewrites the top hits' summaries through the generation
// backend. Cancellation or provider failure keeps the deterministic
// summaries and records one warning; each hit is enriched independently
// with no ordering guarantees between the calls' backends.
func (r *Runner) enrich(ctx context.Context, resp *Response) {
	degraded := false
	for i := range resp.Retrieval.Chunks {
		if i == enrichTopHits {
			break
		}
		if ctx.Err() != nil {
			degraded = true
			break
		}
		summary, err := generation.Summarize(ctx, r.deps.Generator, resp.Retrieval.Chunks[i].Chunk)
		if err != nil {
			degraded = true
			continue
		}
		resp.Retrieval.Chunks[i].Chunk.SemanticSummary = summary
	}
	if degraded {
		resp.Warnings = append(resp.Warnings, "summary enrichment unavailable; deterministic summaries retained")
	}
}
