// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package index

import (
	"path"
	"sort"
	"strings"

	"github.com/codeloom/codeloom/pkg/types"
)

// BuildFileStructure derives the directory tree view from the indexed
// chunks. Keys are the file and directory paths; directory nodes list
// their sorted immediate children.
func BuildFileStructure(chunks []types.CodeChunk) map[string]types.FileNode {
	structure := make(map[string]types.FileNode)
	children := make(map[string]map[string]bool)

	langByPath := make(map[string]string)
	chunksByPath := make(map[string][]types.CodeChunk)
	for _, c := range chunks {
		langByPath[c.FilePath] = c.Language
		chunksByPath[c.FilePath] = append(chunksByPath[c.FilePath], c)
	}

	for filePath := range langByPath {
		structure[filePath] = types.FileNode{
			Type:     types.NodeFile,
			Language: langByPath[filePath],
			Purpose:  filePurpose(filePath, chunksByPath[filePath]),
		}

		// Walk up to the root registering each parent directory.
		cur := filePath
		for {
			dir := path.Dir(cur)
			if dir == cur || dir == "." || dir == "/" {
				break
			}
			if children[dir] == nil {
				children[dir] = make(map[string]bool)
			}
			children[dir][cur] = true
			cur = dir
		}
	}

	for dir, kids := range children {
		sorted := make([]string, 0, len(kids))
		for kid := range kids {
			sorted = append(sorted, kid)
		}
		sort.Strings(sorted)
		structure[dir] = types.FileNode{Type: types.NodeDirectory, Children: sorted}
	}

	return structure
}

// filePurpose is a heuristic label for what a file is for, derived from
// its path and chunk mix. Empty when nothing stands out.
func filePurpose(filePath string, chunks []types.CodeChunk) string {
	base := strings.ToLower(path.Base(filePath))
	name := strings.TrimSuffix(base, path.Ext(base))

	switch {
	case strings.HasSuffix(name, "_test") || strings.HasSuffix(name, ".test") ||
		strings.HasSuffix(name, ".spec") || strings.HasPrefix(name, "test_"):
		return "tests"
	case name == "readme" || name == "changelog" || name == "license":
		return "documentation"
	case name == "main" || name == "index" || name == "app":
		return "entry point"
	case name == "config" || name == "settings" || strings.HasPrefix(base, "."):
		return "configuration"
	}

	counts := make(map[types.ChunkType]int)
	for _, c := range chunks {
		counts[c.ChunkType]++
	}
	switch dominantType(counts) {
	case types.ChunkTest:
		return "tests"
	case types.ChunkConfig:
		return "configuration"
	case types.ChunkDocumentation:
		return "documentation"
	case types.ChunkInterface:
		return "interfaces"
	case types.ChunkComponent:
		return "ui components"
	}
	return ""
}

// dominantType picks the most frequent chunk type, breaking ties by the
// type name so the result is stable.
func dominantType(counts map[types.ChunkType]int) types.ChunkType {
	var best types.ChunkType
	bestCount := 0
	for ctype, n := range counts {
		if n > bestCount || (n == bestCount && string(ctype) < string(best)) {
			best = ctype
			bestCount = n
		}
	}
	// A lone documentation or import chunk alongside real code should not
	// label the whole file.
	if bestCount*2 <= total(counts) {
		return ""
	}
	return best
}

func total(counts map[types.ChunkType]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
