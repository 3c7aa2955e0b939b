// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package assist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/pkg/types"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "model without region", cfg: Config{Model: "anthropic.claude-3"}},
		{name: "negative max results", cfg: Config{MaxResults: -1}},
		{name: "negative context window", cfg: Config{ContextWindow: -3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(context.Background(), tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func newTestAssistant(t *testing.T) *Assistant {
	t.Helper()
	a, err := New(context.Background(), Config{})
	require.NoError(t, err)
	return a
}

func TestIndexSearchRoundTrip(t *testing.T) {
	a := newTestAssistant(t)

	ix, err := a.Index("proj-1", []types.SourceFile{
		{Path: "src/totals.py", Content: "def sum_totals(rows):\n    return sum(r.amount for r in rows)\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ix.Version)

	got, ok := a.ProjectIndex("proj-1")
	require.True(t, ok)
	assert.Equal(t, ix.BuildID, got.BuildID)

	result, err := a.Search(context.Background(), "proj-1", types.RetrievalQuery{
		Query:     "sum totals",
		QueryType: types.QueryHybrid,
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Chunks)
	assert.Equal(t, "sum_totals", result.Chunks[0].Chunk.FunctionName)
}

func TestReindexBumpsVersion(t *testing.T) {
	a := newTestAssistant(t)

	_, err := a.Index("proj-1", []types.SourceFile{{Path: "a.go", Content: "package a\n"}})
	require.NoError(t, err)

	ix, err := a.Reindex("proj-1", []types.SourceFile{{Path: "a.go", Content: "package a\n\nfunc A() {}\n"}})
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Version)
}

func TestAssistEndToEnd(t *testing.T) {
	a := newTestAssistant(t)

	_, err := a.Index("proj-1", []types.SourceFile{
		{Path: "src/dates.py", Content: "def parse_date(raw):\n    return datetime.fromisoformat(raw)\n"},
	})
	require.NoError(t, err)

	resp, err := a.Assist(context.Background(), Request{
		ProjectID:   "proj-1",
		Instruction: "explain what parse_date does",
	})
	require.NoError(t, err)

	assert.Equal(t, types.IntentExplainCode, resp.Classification.PrimaryIntent)
	require.NotNil(t, resp.Retrieval)
	assert.NotEmpty(t, resp.Retrieval.Chunks)
	assert.Nil(t, resp.Merge)
}

func TestClassifyAndPlanMerge(t *testing.T) {
	a := newTestAssistant(t)

	cls := a.Classify("rename utils.js to helpers.js", types.ContextFlags{})
	assert.Equal(t, types.IntentFileOperation, cls.PrimaryIntent)

	plan, err := a.PlanMerge(types.MergeRequest{
		ExistingContent:  "",
		GeneratedContent: "def greet():\n    return \"hi\"\n",
		FileName:         "greet.py",
	})
	require.NoError(t, err)
	assert.Equal(t, "def greet():\n    return \"hi\"\n", plan.MergedContent)
}
