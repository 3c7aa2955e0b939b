// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/pkg/types"
)

func fileChunk(filePath, lang string, ctype types.ChunkType) types.CodeChunk {
	return types.CodeChunk{ID: filePath + "#0", FilePath: filePath, Language: lang, ChunkType: ctype}
}

func TestBuildFileStructure(t *testing.T) {
	chunks := []types.CodeChunk{
		fileChunk("src/app/main.go", "go", types.ChunkFunction),
		fileChunk("src/app/main_test.go", "go", types.ChunkTest),
		fileChunk("src/util.ts", "typescript", types.ChunkFunction),
		fileChunk("README.md", "markdown", types.ChunkDocumentation),
	}

	structure := BuildFileStructure(chunks)

	main, ok := structure["src/app/main.go"]
	require.True(t, ok)
	assert.Equal(t, types.NodeFile, main.Type)
	assert.Equal(t, "go", main.Language)
	assert.Equal(t, "entry point", main.Purpose)

	assert.Equal(t, "tests", structure["src/app/main_test.go"].Purpose)
	assert.Equal(t, "documentation", structure["README.md"].Purpose)

	src, ok := structure["src"]
	require.True(t, ok)
	assert.Equal(t, types.NodeDirectory, src.Type)
	assert.Equal(t, []string{"src/app", "src/util.ts"}, src.Children)

	app := structure["src/app"]
	assert.Equal(t, []string{"src/app/main.go", "src/app/main_test.go"}, app.Children)
}

func TestFilePurposeFromChunkMix(t *testing.T) {
	tests := []struct {
		name   string
		chunks []types.CodeChunk
		path   string
		want   string
	}{
		{
			name: "mostly config chunks",
			path: "deploy/values.yaml",
			chunks: []types.CodeChunk{
				fileChunk("deploy/values.yaml", "config", types.ChunkConfig),
				fileChunk("deploy/values.yaml", "config", types.ChunkConfig),
			},
			want: "configuration",
		},
		{
			name: "mixed file gets no label",
			path: "src/mixed.go",
			chunks: []types.CodeChunk{
				fileChunk("src/mixed.go", "go", types.ChunkFunction),
				fileChunk("src/mixed.go", "go", types.ChunkImport),
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filePurpose(tt.path, tt.chunks))
		})
	}
}

func TestBuildClusters(t *testing.T) {
	mk := func(id string, keywords ...string) types.CodeChunk {
		return types.CodeChunk{ID: id, Keywords: keywords}
	}
	chunks := []types.CodeChunk{
		mk("a#0", "payment", "invoice"),
		mk("a#1", "payment", "refund"),
		mk("b#0", "payment", "ledger"),
		mk("c#0", "widget"),
	}

	clusters := BuildClusters(chunks)
	require.Len(t, clusters, 1, "singleton groupings are dropped")

	c := clusters[0]
	assert.Equal(t, "cluster-payment", c.ClusterID)
	assert.Equal(t, "payment", c.Theme)
	assert.Equal(t, []string{"a#0", "a#1", "b#0"}, c.ChunkIDs)
	assert.Contains(t, c.Keywords, "payment")
}

func TestBuildClustersDeterministic(t *testing.T) {
	mk := func(id string, keywords ...string) types.CodeChunk {
		return types.CodeChunk{ID: id, Keywords: keywords}
	}
	chunks := []types.CodeChunk{
		mk("a#0", "auth"), mk("a#1", "auth"),
		mk("b#0", "cache"), mk("b#1", "cache"), mk("b#2", "cache"),
	}

	first := BuildClusters(chunks)
	second := BuildClusters(chunks)
	assert.Equal(t, first, second)

	require.Len(t, first, 2)
	assert.Equal(t, "cache", first[0].Theme, "larger cluster sorts first")
	assert.Equal(t, "auth", first[1].Theme)
}

func TestBuildClustersNoKeywords(t *testing.T) {
	chunks := []types.CodeChunk{{ID: "a#0"}, {ID: "a#1"}}
	assert.Empty(t, BuildClusters(chunks))
}
