// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// QueryType selects the retrieval strategy a caller intends.
type QueryType string

const (
	QuerySemantic  QueryType = "semantic"
	QuerySyntactic QueryType = "syntactic"
	QueryHybrid    QueryType = "hybrid"
)

// Valid reports whether q is a known query type.
func (q QueryType) Valid() bool {
	return q == QuerySemantic || q == QuerySyntactic || q == QueryHybrid
}

// RetrievalFilters are hard pre-filters applied before scoring. A chunk
// failing any set filter is removed from consideration.
type RetrievalFilters struct {
	Language     string      `json:"language,omitempty"`
	FileTypes    []string    `json:"fileTypes,omitempty"` // File extensions, without dot
	Complexity   Complexity  `json:"complexity,omitempty"`
	ChunkTypes   []ChunkType `json:"chunkTypes,omitempty"`
	ExcludeFiles []string    `json:"excludeFiles,omitempty"`
}

// RetrievalQuery is a read-only request against a project index.
type RetrievalQuery struct {
	Query           string            `json:"query"`
	QueryType       QueryType         `json:"queryType"`
	Filters         *RetrievalFilters `json:"filters,omitempty"`
	MaxResults      int               `json:"maxResults"`
	ContextWindow   int               `json:"contextWindow"`
	IncludeMetadata bool              `json:"includeMetadata"`
}

// Validate checks the query shape before any processing.
func (q RetrievalQuery) Validate() error {
	if q.Query == "" {
		return &ValidationError{Field: "query", Message: "query text is required"}
	}
	if !q.QueryType.Valid() {
		return &ValidationError{Field: "queryType", Message: "must be semantic, syntactic, or hybrid"}
	}
	if q.MaxResults < 0 {
		return &ValidationError{Field: "maxResults", Message: "must not be negative"}
	}
	if q.ContextWindow < 0 {
		return &ValidationError{Field: "contextWindow", Message: "must not be negative"}
	}
	if q.Filters != nil {
		if q.Filters.Complexity != "" && !q.Filters.Complexity.Valid() {
			return &ValidationError{Field: "filters.complexity", Message: "must be low, medium, or high"}
		}
		for _, ct := range q.Filters.ChunkTypes {
			if !ct.Valid() {
				return &ValidationError{Field: "filters.chunkTypes", Message: "unknown chunk type " + string(ct)}
			}
		}
	}
	return nil
}

// ScoredChunk is one ranked retrieval hit.
type ScoredChunk struct {
	Chunk          CodeChunk   `json:"chunk"`
	RelevanceScore float64     `json:"relevanceScore"` // In [0,1]
	MatchReason    string      `json:"matchReason"`
	ContextChunks  []CodeChunk `json:"contextChunks,omitempty"`
}

// SearchMetadata describes how a retrieval result was produced.
type SearchMetadata struct {
	QueryID         string    `json:"queryId"`
	ProjectID       string    `json:"projectId"`
	QueryType       QueryType `json:"queryType"`
	IndexVersion    int       `json:"indexVersion"`
	CandidateCount  int       `json:"candidateCount"`  // Chunks surviving the pre-filter
	DegradedSignals []string  `json:"degradedSignals,omitempty"` // External signals that fell back
}

// RetrievalResult is the ranked response to a RetrievalQuery.
// TotalResults counts matches before truncation to MaxResults.
type RetrievalResult struct {
	Chunks       []ScoredChunk   `json:"chunks"`
	TotalResults int             `json:"totalResults"`
	Metadata     *SearchMetadata `json:"metadata,omitempty"`
	Suggestions  []string        `json:"suggestions"`
}
