// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codeloom/codeloom/pkg/types"
)

// maxScoredContent caps how much of each chunk goes into a scoring
// prompt.
const maxScoredContent = 400

// SignalProvider adapts a Service to the retrieval engine's external
// signal port: it asks the backend for a JSON score array and validates
// the shape. Any failure is returned as-is so the engine can fall back
// to keyword scoring.
type SignalProvider struct {
	svc Service
}

// NewSignalProvider wraps a generation service.
func NewSignalProvider(svc Service) *SignalProvider {
	return &SignalProvider{svc: svc}
}

// Score requests one relevance score per chunk. The backend supplies
// only the semantic column; functional and quality stay nil, which the
// engine resolves to the keyword overlap.
func (p *SignalProvider) Score(ctx context.Context, query string, chunks []types.CodeChunk) (semantic, functional, quality []float64, err error) {
	if len(chunks) == 0 {
		return []float64{}, nil, nil, nil
	}

	var buf strings.Builder
	for i, c := range chunks {
		content := c.Content
		if len(content) > maxScoredContent {
			content = content[:maxScoredContent]
		}
		fmt.Fprintf(&buf, "[%d] %s (%s)\n%s\n\n", i+1, c.FilePath, c.ChunkType, content)
	}

	res := p.svc.Generate(ctx, Request{
		Template: "score",
		Fields:   map[string]string{"query": query, "chunks": buf.String()},
		Shape:    ShapeJSONScores,
	})
	if !res.Ok() {
		return nil, nil, nil, res.Err
	}

	scores, err := parseScores(res.Value, len(chunks))
	if err != nil {
		return nil, nil, nil, err
	}
	return scores, nil, nil, nil
}

// parseScores validates the backend's reply against the requested
// shape: a JSON array of per-chunk values in [0, 1].
func parseScores(raw string, want int) ([]float64, error) {
	raw = strings.TrimSpace(raw)
	// Models often wrap JSON in a code fence; strip it.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var scores []float64
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, fmt.Errorf("%w: not a JSON number array: %v", ErrSchemaViolation, err)
	}
	if len(scores) != want {
		return nil, fmt.Errorf("%w: got %d scores, want %d", ErrSchemaViolation, len(scores), want)
	}
	for i, s := range scores {
		if s < 0 || s > 1 {
			return nil, fmt.Errorf("%w: score %d out of range: %v", ErrSchemaViolation, i, s)
		}
	}
	return scores, nil
}

// Summarize asks the backend for a one-sentence chunk summary. The
// deterministic summary already on the chunk stays in place when the
// call fails.
func Summarize(ctx context.Context, svc Service, chunk types.CodeChunk) (string, error) {
	res := svc.Generate(ctx, Request{
		Template: "summarize",
		Fields: map[string]string{
			"language": chunk.Language,
			"filePath": chunk.FilePath,
			"content":  chunk.Content,
		},
		Shape: ShapeText,
	})
	if !res.Ok() {
		return "", res.Err
	}
	return strings.TrimSpace(res.Value), nil
}
