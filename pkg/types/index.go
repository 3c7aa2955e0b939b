// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "time"

// FileNodeType distinguishes files from directories in the project tree.
type FileNodeType string

const (
	NodeFile      FileNodeType = "file"
	NodeDirectory FileNodeType = "directory"
)

// FileNode describes one entry of a project's file structure.
type FileNode struct {
	Type     FileNodeType `json:"type"`
	Children []string     `json:"children,omitempty"` // Child paths, directories only
	Language string       `json:"language,omitempty"`
	Purpose  string       `json:"purpose,omitempty"`
}

// SemanticCluster groups related chunks under a shared theme. Every chunk
// id referenced by a cluster resolves to a chunk in the owning index.
type SemanticCluster struct {
	ClusterID string   `json:"clusterId"`
	Theme     string   `json:"theme"`
	ChunkIDs  []string `json:"chunkIds"`
	Keywords  []string `json:"keywords"`
}

// IndexDiagnostic records a per-file failure during an index build.
// Failures are reported, never raised: a file that cannot be extracted is
// omitted and the build continues.
type IndexDiagnostic struct {
	FilePath string `json:"filePath"`
	Message  string `json:"message"`
}

// ProjectIndex is the retrievable state for one project. It is replaced
// wholesale on refresh and extended per file on update; readers always
// see a fully committed version.
type ProjectIndex struct {
	ProjectID        string              `json:"projectId"`
	Chunks           []CodeChunk         `json:"chunks"`
	FileStructure    map[string]FileNode `json:"fileStructure"`
	DependencyGraph  map[string][]string `json:"dependencyGraph"` // file → dependent files
	SemanticClusters []SemanticCluster   `json:"semanticClusters"`
	CreatedAt        time.Time           `json:"createdAt"`
	Version          int                 `json:"version"` // Increments on every rebuild
	BuildID          string              `json:"buildId"`
	Diagnostics      []IndexDiagnostic   `json:"diagnostics,omitempty"`
}

// IndexSummary is the compact, caller-facing view of an index.
type IndexSummary struct {
	ProjectID    string            `json:"projectId"`
	Version      int               `json:"version"`
	BuildID      string            `json:"buildId"`
	ChunkCount   int               `json:"chunkCount"`
	FileCount    int               `json:"fileCount"`
	ClusterCount int               `json:"clusterCount"`
	CreatedAt    time.Time         `json:"createdAt"`
	Diagnostics  []IndexDiagnostic `json:"diagnostics,omitempty"`
}

// Summary derives the compact view of the index.
func (ix *ProjectIndex) Summary() IndexSummary {
	files := make(map[string]bool, len(ix.Chunks))
	for _, c := range ix.Chunks {
		files[c.FilePath] = true
	}
	return IndexSummary{
		ProjectID:    ix.ProjectID,
		Version:      ix.Version,
		BuildID:      ix.BuildID,
		ChunkCount:   len(ix.Chunks),
		FileCount:    len(files),
		ClusterCount: len(ix.SemanticClusters),
		CreatedAt:    ix.CreatedAt,
		Diagnostics:  ix.Diagnostics,
	}
}
