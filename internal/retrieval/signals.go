// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package retrieval ranks indexed chunks against natural-language
// queries. Scoring blends four signals with fixed weights; the keyword
// overlap is always computed locally, and the other three factors come
// from an external provider when one is configured, defaulting to the
// keyword overlap otherwise.
package retrieval

import (
	"context"
	"strings"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/pkg/types"
)

// SignalProvider supplies the external score columns in [0, 1], one
// value per chunk, in chunk order. A nil column means the provider does
// not compute that factor and the engine substitutes the keyword
// overlap. Errors make every external factor fall back the same way.
type SignalProvider interface {
	Score(ctx context.Context, query string, chunks []types.CodeChunk) (semantic, functional, quality []float64, err error)
}

// HeuristicSignals is a local, deterministic provider: semantic from
// content and summary overlap, functional from declared-name, type, and
// path matches, quality from a complexity prior. A middle ground
// between keyword-only scoring and an LLM-backed provider; callers opt
// in by passing it to NewEngine.
type HeuristicSignals struct{}

// Score implements SignalProvider with all three columns filled.
func (HeuristicSignals) Score(_ context.Context, query string, chunks []types.CodeChunk) (semantic, functional, quality []float64, err error) {
	queryTokens := tokenSet(query)
	queryLower := strings.ToLower(query)

	semantic = make([]float64, len(chunks))
	functional = make([]float64, len(chunks))
	quality = make([]float64, len(chunks))
	for i, c := range chunks {
		semantic[i] = overlap(queryTokens, tokenSet(c.SemanticSummary+" "+c.Content))
		functional[i] = functionalScore(queryTokens, queryLower, c)
		quality[i] = qualityScore(c)
	}
	return semantic, functional, quality, nil
}

// tokenSet tokenizes the same way the extractor builds keywords, so
// query tokens and chunk keywords line up.
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range extract.Tokenize(text) {
		set[tok] = true
	}
	return set
}

// overlap returns the fraction of query tokens present in the candidate
// set. Empty queries score zero.
func overlap(query, candidate map[string]bool) float64 {
	if len(query) == 0 {
		return 0
	}
	hits := 0
	for tok := range query {
		if candidate[tok] {
			hits++
		}
	}
	return float64(hits) / float64(len(query))
}

// keywordScore measures query overlap against the chunk's extracted
// keyword list plus its name, which is what a syntactic search keys on.
func keywordScore(queryTokens map[string]bool, c types.CodeChunk) float64 {
	candidate := make(map[string]bool, len(c.Keywords)+1)
	for _, kw := range c.Keywords {
		candidate[kw] = true
	}
	if c.FunctionName != "" {
		candidate[strings.ToLower(c.FunctionName)] = true
	}
	return overlap(queryTokens, candidate)
}

// functionalScore rewards matches on what the chunk is rather than what
// it says: declared name, chunk type named in the query, file path
// segments.
func functionalScore(queryTokens map[string]bool, queryLower string, c types.CodeChunk) float64 {
	score := 0.0

	if c.FunctionName != "" {
		name := strings.ToLower(c.FunctionName)
		if strings.Contains(queryLower, name) || queryTokens[name] {
			score += 0.6
		}
	}
	if typeMentions[string(c.ChunkType)] != "" && strings.Contains(queryLower, typeMentions[string(c.ChunkType)]) {
		score += 0.2
	}
	for _, seg := range strings.FieldsFunc(strings.ToLower(c.FilePath), func(r rune) bool {
		return r == '/' || r == '.'
	}) {
		if len(seg) > 2 && queryTokens[seg] {
			score += 0.2
			break
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

// typeMentions maps chunk types to the query word that asks for them.
var typeMentions = map[string]string{
	"function":      "function",
	"class":         "class",
	"interface":     "interface",
	"component":     "component",
	"test":          "test",
	"config":        "config",
	"import":        "import",
	"documentation": "doc",
}

// qualityScore is a query-independent prior: simpler, well-described
// chunks rank above opaque high-complexity ones at equal relevance.
func qualityScore(c types.CodeChunk) float64 {
	score := 0.0
	switch c.Complexity {
	case types.ComplexityLow:
		score = 0.6
	case types.ComplexityMedium:
		score = 0.4
	case types.ComplexityHigh:
		score = 0.2
	}
	if c.SemanticSummary != "" {
		score += 0.2
	}
	if len(c.Keywords) > 0 {
		score += 0.2
	}
	return score
}
