// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package assist defines the public interface for codeloom, a code
// indexing and context-retrieval library for editor assistants.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/internal/generation"
	"github.com/codeloom/codeloom/internal/index"
	"github.com/codeloom/codeloom/internal/intent"
	"github.com/codeloom/codeloom/internal/language"
	"github.com/codeloom/codeloom/internal/merge"
	"github.com/codeloom/codeloom/internal/pipeline"
	"github.com/codeloom/codeloom/internal/retrieval"
	"github.com/codeloom/codeloom/pkg/types"
)

// ErrInvalidConfig is returned by New for a config that cannot work.
var ErrInvalidConfig = errors.New("invalid config")

// Config configures an Assistant.
type Config struct {
	Model   string // Bedrock model ID; empty keeps generation disabled
	Region  string // AWS region (required when Model is set)
	Profile string // AWS shared config profile (optional)

	// Heuristics scores retrieval with the local heuristic signal
	// provider when no model is configured. Without it, generation-less
	// retrieval ranks by keyword overlap alone.
	Heuristics bool

	MaxResults    int // Default retrieval result cap (0 = engine default)
	ContextWindow int // Default surrounding-lines window (0 = none)

	Log *slog.Logger // nil discards logs
}

// Request is one end-to-end assist invocation: classify the
// instruction, retrieve project context, and plan a merge when
// generated content is supplied.
type Request struct {
	ProjectID   string
	Instruction string
	Flags       types.ContextFlags

	ExistingContent  string
	GeneratedContent string
	FileName         string
	FileExtension    string

	EnrichSummaries bool
}

// Response carries the stage outputs; stages that did not run leave
// their field nil.
type Response struct {
	Classification types.IntentClassification
	Retrieval      *types.RetrievalResult
	Merge          *types.MergeResult
	Warnings       []string
}

// Assistant owns the in-memory project indexes and the classification,
// retrieval, and merge machinery behind them. All methods are safe for
// concurrent use.
type Assistant struct {
	cfg        Config
	store      *index.Store
	engine     *retrieval.Engine
	classifier *intent.Classifier
	planner    *merge.Planner
	runner     *pipeline.Runner
	generator  generation.Service
	log        *slog.Logger
}

// New validates cfg and wires an Assistant. When cfg.Model is set the
// AWS credential chain is resolved here, so a misconfigured
// environment fails at startup instead of on the first request.
func New(ctx context.Context, cfg Config) (*Assistant, error) {
	if cfg.Model != "" && cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required when a model is set", ErrInvalidConfig)
	}
	if cfg.MaxResults < 0 {
		return nil, fmt.Errorf("%w: max results must not be negative", ErrInvalidConfig)
	}
	if cfg.ContextWindow < 0 {
		return nil, fmt.Errorf("%w: context window must not be negative", ErrInvalidConfig)
	}
	log := cfg.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	var generator generation.Service = generation.Disabled{}
	var signals retrieval.SignalProvider
	if cfg.Model != "" {
		bedrock, err := generation.NewBedrock(ctx, generation.BedrockConfig{
			ModelID: cfg.Model,
			Region:  cfg.Region,
			Profile: cfg.Profile,
		}, log)
		if err != nil {
			return nil, fmt.Errorf("initializing generation backend: %w", err)
		}
		generator = bedrock
		signals = generation.NewSignalProvider(bedrock)
	} else if cfg.Heuristics {
		signals = retrieval.HeuristicSignals{}
	}

	extractor := extract.New(language.NewRegistry())
	store := index.NewStore(extractor)
	engine := retrieval.NewEngine(store, signals, log)
	classifier := intent.NewClassifier()
	planner := merge.NewPlanner(extractor, log)

	return &Assistant{
		cfg:        cfg,
		store:      store,
		engine:     engine,
		classifier: classifier,
		planner:    planner,
		runner: pipeline.NewRunner(pipeline.Deps{
			Classifier: classifier,
			Engine:     engine,
			Planner:    planner,
			Generator:  generator,
			Log:        log,
		}),
		generator: generator,
		log:       log,
	}, nil
}

// Index builds a fresh index for a project that has none yet.
func (a *Assistant) Index(projectID string, files []types.SourceFile) (*types.ProjectIndex, error) {
	return a.store.Create(projectID, files)
}

// Reindex rebuilds the project index from the full corpus, bumping the
// version, and creates it when the project is unknown.
func (a *Assistant) Reindex(projectID string, files []types.SourceFile) (*types.ProjectIndex, error) {
	return a.store.Refresh(projectID, files)
}

// UpdateIndex re-extracts only the changed files of an existing index.
func (a *Assistant) UpdateIndex(projectID string, changed []types.SourceFile) (*types.ProjectIndex, error) {
	return a.store.Update(projectID, changed)
}

// ProjectIndex returns the current index snapshot, or false when the
// project has never been indexed.
func (a *Assistant) ProjectIndex(projectID string) (*types.ProjectIndex, bool) {
	return a.store.Query(projectID)
}

// Search ranks indexed chunks against the query.
func (a *Assistant) Search(ctx context.Context, projectID string, q types.RetrievalQuery) (*types.RetrievalResult, error) {
	if q.MaxResults == 0 {
		q.MaxResults = a.cfg.MaxResults
	}
	if q.ContextWindow == 0 {
		q.ContextWindow = a.cfg.ContextWindow
	}
	return a.engine.Retrieve(ctx, projectID, q)
}

// Classify routes a natural-language instruction to an intent.
func (a *Assistant) Classify(instruction string, flags types.ContextFlags) types.IntentClassification {
	return a.classifier.Classify(instruction, flags)
}

// PlanMerge plans how generated content lands in an existing file.
func (a *Assistant) PlanMerge(req types.MergeRequest) (*types.MergeResult, error) {
	return a.planner.Plan(req)
}

// Assist runs the full flow for one instruction.
func (a *Assistant) Assist(ctx context.Context, req Request) (*Response, error) {
	resp, err := a.runner.Run(ctx, pipeline.Request{
		ProjectID:        req.ProjectID,
		Instruction:      req.Instruction,
		Flags:            req.Flags,
		MaxResults:       a.cfg.MaxResults,
		ContextWindow:    a.cfg.ContextWindow,
		ExistingContent:  req.ExistingContent,
		GeneratedContent: req.GeneratedContent,
		FileName:         req.FileName,
		FileExtension:    req.FileExtension,
		EnrichSummaries:  req.EnrichSummaries,
	})
	if err != nil {
		return nil, err
	}
	return &Response{
		Classification: resp.Classification,
		Retrieval:      resp.Retrieval,
		Merge:          resp.Merge,
		Warnings:       resp.Warnings,
	}, nil
}
