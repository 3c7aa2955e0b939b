// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines the shared, serializable types exchanged between
// codeloom components and their callers. Field names and enum values are
// part of the wire contract and must stay stable.
package types

import "time"

// ChunkType categorizes a code chunk by the kind of declaration that
// opens it.
type ChunkType string

const (
	ChunkFunction      ChunkType = "function"
	ChunkClass         ChunkType = "class"
	ChunkInterface     ChunkType = "interface"
	ChunkComponent     ChunkType = "component"
	ChunkImport        ChunkType = "import"
	ChunkConfig        ChunkType = "config"
	ChunkDocumentation ChunkType = "documentation"
	ChunkTest          ChunkType = "test"
)

// Valid reports whether t is one of the known chunk types.
func (t ChunkType) Valid() bool {
	switch t {
	case ChunkFunction, ChunkClass, ChunkInterface, ChunkComponent,
		ChunkImport, ChunkConfig, ChunkDocumentation, ChunkTest:
		return true
	}
	return false
}

// Complexity is a coarse complexity bucket computed from line count,
// branching keywords, and nesting depth.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Valid reports whether c is one of the known complexity buckets.
func (c Complexity) Valid() bool {
	return c == ComplexityLow || c == ComplexityMedium || c == ComplexityHigh
}

// LineRange is a 1-based, inclusive span of lines within a file.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Valid reports whether the range is 1-based and non-inverted.
func (r LineRange) Valid() bool {
	return r.Start >= 1 && r.End >= r.Start
}

// Lines returns the number of lines covered by the range.
func (r LineRange) Lines() int {
	return r.End - r.Start + 1
}

// Overlaps reports whether two ranges share at least one line.
func (r LineRange) Overlaps(other LineRange) bool {
	return r.Start <= other.End && other.Start <= r.End
}

// CodeChunk is a contiguous, self-contained unit of source text produced
// by one extraction pass over a file. Chunks are immutable: re-extraction
// of a file replaces its chunks rather than mutating them.
type CodeChunk struct {
	ID              string     `json:"id"`       // Unique within a project
	FilePath        string     `json:"filePath"` // Path relative to the project root
	FileName        string     `json:"fileName"`
	Content         string     `json:"content"`
	Language        string     `json:"language"`
	ChunkType       ChunkType  `json:"chunkType"`
	FunctionName    string     `json:"functionName,omitempty"`
	Dependencies    []string   `json:"dependencies"` // Import targets, order-irrelevant
	SemanticSummary string     `json:"semanticSummary"`
	Keywords        []string   `json:"keywords"` // At most ten distinct tokens
	Complexity      Complexity `json:"complexity"`
	LastModified    time.Time  `json:"lastModified"`
	LineRange       LineRange  `json:"lineRange"`
}
