// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package corpus

import (
	"strings"

	"github.com/codeloom/codeloom/pkg/types"
)

// FromTreeText parses a textual project-tree listing into a
// content-less file corpus. Indexing such a corpus yields structure
// (fileStructure, languages, purposes) without chunk content, which is
// enough for a project summary. Accepted formats: `tree`-style drawings
// with branch glyphs, plain indented listings, and flat path-per-line
// lists. Directories end with "/" or are inferred from deeper entries
// that follow.
func FromTreeText(text string) ([]types.SourceFile, error) {
	entries := parseTreeEntries(text)
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}

	var files []types.SourceFile
	var stack []string // Directory names above the current entry

	for i, e := range entries {
		if len(stack) > e.depth {
			stack = stack[:e.depth]
		}

		isDir := strings.HasSuffix(e.name, "/")
		if !isDir && i+1 < len(entries) && entries[i+1].depth > e.depth {
			isDir = true
		}

		if isDir {
			stack = append(stack, strings.TrimSuffix(e.name, "/"))
			continue
		}

		parts := append(append([]string{}, stack...), e.name)
		files = append(files, types.SourceFile{Path: strings.Join(parts, "/")})
	}
	if len(files) == 0 {
		return nil, ErrEmptyCorpus
	}
	return files, nil
}

type treeEntry struct {
	depth int
	name  string
}

// branchGlyphs are the box-drawing characters `tree` emits; each
// contributes to depth, not to the name.
const branchGlyphs = "│├└─| `"

// parseTreeEntries turns listing lines into (depth, name) pairs. Depth
// is the count of leading glyph/indent columns divided by the smallest
// indent step seen, so two-space, four-space, and glyph trees all work.
func parseTreeEntries(text string) []treeEntry {
	type rawEntry struct {
		indent int
		name   string
	}

	var raw []rawEntry
	minStep := 0
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed == "" {
			continue
		}

		indent := 0
		for _, r := range trimmed {
			if r == '\t' {
				indent += 4
				continue
			}
			if strings.ContainsRune(branchGlyphs, r) {
				indent++
				continue
			}
			break
		}
		name := strings.TrimLeft(trimmed, branchGlyphs+"\t")
		if name == "" || name == "." {
			continue
		}
		// Flat listings carry their own hierarchy in the path.
		if strings.Contains(name, "/") && indent == 0 && !strings.HasSuffix(name, "/") {
			raw = append(raw, rawEntry{indent: 0, name: name})
			continue
		}

		if indent > 0 && (minStep == 0 || indent < minStep) {
			minStep = indent
		}
		raw = append(raw, rawEntry{indent: indent, name: name})
	}
	if minStep == 0 {
		minStep = 1
	}

	entries := make([]treeEntry, 0, len(raw))
	for _, r := range raw {
		entries = append(entries, treeEntry{depth: r.indent / minStep, name: r.name})
	}
	return entries
}
