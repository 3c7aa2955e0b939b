// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package retrieval

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/internal/index"
	"github.com/codeloom/codeloom/internal/language"
	"github.com/codeloom/codeloom/pkg/types"
)

type stubSignals struct {
	scores []float64
	err    error
	calls  int
}

func (s *stubSignals) Score(_ context.Context, _ string, chunks []types.CodeChunk) (semantic, functional, quality []float64, err error) {
	s.calls++
	if s.err != nil {
		return nil, nil, nil, s.err
	}
	if s.scores != nil {
		return s.scores, nil, nil, nil
	}
	return make([]float64, len(chunks)), nil, nil, nil
}

func newTestEngine(t *testing.T, signals SignalProvider) (*Engine, *index.Store) {
	t.Helper()
	e := extract.New(language.NewRegistry())
	e.Now = func() time.Time {
		return time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	}
	store := index.NewStore(e)
	return NewEngine(store, signals, nil), store
}

func indexFixture(t *testing.T, store *index.Store) {
	t.Helper()
	_, err := store.Create("proj-1", []types.SourceFile{
		{Path: "src/auth.py", Content: "def authenticate(user, password):\n    return check(user, password)\n\ndef logout(session):\n    session.clear()\n"},
		{Path: "src/auth.ts", Content: "export function authenticate(user: User) {\n  return verify(user)\n}\n"},
		{Path: "src/billing.py", Content: "def charge(card, amount):\n    return gateway.charge(card, amount)\n"},
	})
	require.NoError(t, err)
}

func TestRetrieveRanksRelevantChunksFirst(t *testing.T) {
	engine, store := newTestEngine(t, nil)
	indexFixture(t, store)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:     "authenticate user",
		QueryType: types.QueryHybrid,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)

	top := result.Chunks[0]
	assert.Equal(t, "authenticate", top.Chunk.FunctionName)
	assert.Greater(t, top.RelevanceScore, 0.0)
	assert.LessOrEqual(t, top.RelevanceScore, 1.0)

	for i := 1; i < len(result.Chunks); i++ {
		assert.GreaterOrEqual(t, result.Chunks[i-1].RelevanceScore, result.Chunks[i].RelevanceScore)
	}
}

func TestRetrieveLanguageFilter(t *testing.T) {
	engine, store := newTestEngine(t, nil)
	indexFixture(t, store)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:     "authenticate user",
		QueryType: types.QuerySemantic,
		Filters:   &types.RetrievalFilters{Language: "python"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)

	for _, sc := range result.Chunks {
		assert.Equal(t, "python", sc.Chunk.Language)
	}
}

func TestRetrieveFilters(t *testing.T) {
	engine, store := newTestEngine(t, nil)
	indexFixture(t, store)

	tests := []struct {
		name    string
		filters *types.RetrievalFilters
		check   func(t *testing.T, sc types.ScoredChunk)
	}{
		{
			name:    "file types",
			filters: &types.RetrievalFilters{FileTypes: []string{"ts"}},
			check: func(t *testing.T, sc types.ScoredChunk) {
				assert.Equal(t, "src/auth.ts", sc.Chunk.FilePath)
			},
		},
		{
			name:    "chunk types",
			filters: &types.RetrievalFilters{ChunkTypes: []types.ChunkType{types.ChunkFunction}},
			check: func(t *testing.T, sc types.ScoredChunk) {
				assert.Equal(t, types.ChunkFunction, sc.Chunk.ChunkType)
			},
		},
		{
			name:    "exclude glob",
			filters: &types.RetrievalFilters{ExcludeFiles: []string{"src/*.py"}},
			check: func(t *testing.T, sc types.ScoredChunk) {
				assert.NotContains(t, sc.Chunk.FilePath, ".py")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
				Query:     "authenticate",
				QueryType: types.QuerySyntactic,
				Filters:   tt.filters,
			})
			require.NoError(t, err)
			for _, sc := range result.Chunks {
				tt.check(t, sc)
			}
		})
	}
}

func TestRetrieveBoundedResults(t *testing.T) {
	engine, store := newTestEngine(t, nil)

	files := make([]types.SourceFile, 30)
	for i := range files {
		files[i] = types.SourceFile{
			Path:    fmt.Sprintf("src/mod%02d.py", i),
			Content: "def process(payload):\n    return transform(payload)\n",
		}
	}
	_, err := store.Create("proj-1", files)
	require.NoError(t, err)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:      "process payload",
		QueryType:  types.QueryHybrid,
		MaxResults: 5,
	})
	require.NoError(t, err)

	assert.Len(t, result.Chunks, 5)
	assert.Equal(t, 30, result.TotalResults, "totalResults counts matches before truncation")
}

func TestRetrieveUnindexedProject(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	result, err := engine.Retrieve(context.Background(), "ghost", types.RetrievalQuery{
		Query:     "anything",
		QueryType: types.QuerySemantic,
	})
	require.NoError(t, err, "missing index is an empty result, not an error")
	assert.Empty(t, result.Chunks)
	assert.Zero(t, result.TotalResults)
	assert.NotEmpty(t, result.Suggestions)
}

func TestRetrieveValidation(t *testing.T) {
	engine, _ := newTestEngine(t, nil)

	tests := []struct {
		name  string
		proj  string
		query types.RetrievalQuery
	}{
		{"empty project", "", types.RetrievalQuery{Query: "x", QueryType: types.QuerySemantic}},
		{"empty query", "p", types.RetrievalQuery{QueryType: types.QuerySemantic}},
		{"bad query type", "p", types.RetrievalQuery{Query: "x", QueryType: "vibes"}},
		{"negative max", "p", types.RetrievalQuery{Query: "x", QueryType: types.QuerySemantic, MaxResults: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Retrieve(context.Background(), tt.proj, tt.query)
			var verr *types.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestRetrieveProviderFailureDegrades(t *testing.T) {
	signals := &stubSignals{err: errors.New("backend down")}
	engine, store := newTestEngine(t, signals)
	indexFixture(t, store)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:           "authenticate user",
		QueryType:       types.QuerySemantic,
		IncludeMetadata: true,
	})
	require.NoError(t, err, "provider failure degrades, it does not fail the query")

	require.NotNil(t, result.Metadata)
	assert.Equal(t, []string{"semantic", "functional", "quality"}, result.Metadata.DegradedSignals)
	assert.NotEmpty(t, result.Chunks, "keyword fallback still ranks")
	assert.Equal(t, 1, signals.calls)
}

func TestRetrieveSyntacticSkipsProvider(t *testing.T) {
	signals := &stubSignals{}
	engine, store := newTestEngine(t, signals)
	indexFixture(t, store)

	_, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:     "authenticate",
		QueryType: types.QuerySyntactic,
	})
	require.NoError(t, err)
	assert.Zero(t, signals.calls)
}

func TestRetrieveContextWindow(t *testing.T) {
	engine, store := newTestEngine(t, nil)
	_, err := store.Create("proj-1", []types.SourceFile{
		{Path: "src/flow.py", Content: "def first():\n    pass\n\ndef second():\n    pass\n\ndef third():\n    pass\n"},
	})
	require.NoError(t, err)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:         "second",
		QueryType:     types.QueryHybrid,
		MaxResults:    1,
		ContextWindow: 2,
	})
	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)

	hit := result.Chunks[0]
	assert.Equal(t, "second", hit.Chunk.FunctionName)

	var names []string
	for _, c := range hit.ContextChunks {
		names = append(names, c.FunctionName)
	}
	assert.Equal(t, []string{"first", "third"}, names)
}

func TestRetrieveMetadata(t *testing.T) {
	engine, store := newTestEngine(t, nil)
	indexFixture(t, store)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:           "authenticate",
		QueryType:       types.QueryHybrid,
		IncludeMetadata: true,
	})
	require.NoError(t, err)

	md := result.Metadata
	require.NotNil(t, md)
	assert.NotEmpty(t, md.QueryID)
	assert.Equal(t, "proj-1", md.ProjectID)
	assert.Equal(t, types.QueryHybrid, md.QueryType)
	assert.Equal(t, 1, md.IndexVersion)
	assert.Equal(t, 4, md.CandidateCount)
	assert.Empty(t, md.DegradedSignals)
}

// keywordFixture holds a term ("telemetry") that appears in one chunk's
// content but past the ten-keyword cutoff, and as another chunk's name.
func keywordFixture(t *testing.T, store *index.Store) {
	t.Helper()
	_, err := store.Create("proj-1", []types.SourceFile{
		{Path: "src/pipeline.py", Content: "def alpha_one(beta, gamma, delta):\n    epsilon = zeta(eta, theta)\n    iota = kappa\n    return telemetry\n"},
		{Path: "src/metrics.py", Content: "def telemetry():\n    pass\n"},
	})
	require.NoError(t, err)
}

func TestRetrieveKeywordOnlyWithoutProvider(t *testing.T) {
	engine, store := newTestEngine(t, nil)
	keywordFixture(t, store)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:     "telemetry",
		QueryType: types.QueryHybrid,
	})
	require.NoError(t, err)

	require.Len(t, result.Chunks, 2, "zero-scoring candidates still appear in the result")
	assert.Equal(t, 2, result.TotalResults)

	assert.Equal(t, "telemetry", result.Chunks[0].Chunk.FunctionName)
	assert.Equal(t, "alpha_one", result.Chunks[1].Chunk.FunctionName)
	assert.Zero(t, result.Chunks[1].RelevanceScore,
		"a content-only match carries no keyword overlap and must not outrank by content")

	queryTokens := tokenSet("telemetry")
	for _, sc := range result.Chunks {
		assert.Equal(t, keywordScore(queryTokens, sc.Chunk), sc.RelevanceScore,
			"without a provider, relevance reduces to the keyword overlap")
	}
}

func TestRetrieveHeuristicSignals(t *testing.T) {
	engine, store := newTestEngine(t, HeuristicSignals{})
	keywordFixture(t, store)

	result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
		Query:     "telemetry",
		QueryType: types.QueryHybrid,
	})
	require.NoError(t, err)
	require.Len(t, result.Chunks, 2)

	var contentHit types.ScoredChunk
	for _, sc := range result.Chunks {
		if sc.Chunk.FunctionName == "alpha_one" {
			contentHit = sc
		}
	}
	assert.Positive(t, contentHit.RelevanceScore,
		"the heuristic provider scores content overlap beyond the keyword set")
	assert.Contains(t, contentHit.MatchReason, "signal_divergence")
}

func TestRetrieveContextWindowCapsCount(t *testing.T) {
	engine, store := newTestEngine(t, nil)
	_, err := store.Create("proj-1", []types.SourceFile{
		{Path: "src/flow.py", Content: "def first():\n    pass\n\ndef second():\n    pass\n\ndef third():\n    pass\n"},
	})
	require.NoError(t, err)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "second", want: []string{"first"}},
		{query: "first", want: []string{"second"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result, err := engine.Retrieve(context.Background(), "proj-1", types.RetrievalQuery{
				Query:         tt.query,
				QueryType:     types.QueryHybrid,
				MaxResults:    1,
				ContextWindow: 1,
			})
			require.NoError(t, err)
			require.Len(t, result.Chunks, 1)
			assert.Equal(t, tt.query, result.Chunks[0].Chunk.FunctionName)

			var names []string
			for _, c := range result.Chunks[0].ContextChunks {
				names = append(names, c.FunctionName)
			}
			assert.Equal(t, tt.want, names, "contextWindow caps the neighbor count, nearest first")
		})
	}
}

func TestMatchReasonDivergence(t *testing.T) {
	assert.Contains(t, matchReason(0.9, 0.1, 0), "signal_divergence")
	assert.NotContains(t, matchReason(0.6, 0.5, 0), "signal_divergence")
	assert.Equal(t, "weak_match", matchReason(0.2, 0.2, 0.2))
}
