// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package extract turns one file's text into an ordered list of code
// chunks using the language profile registry. Extraction is pure:
// identical input text and language always yield byte-identical chunk
// boundaries and classifications.
package extract

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/codeloom/codeloom/internal/language"
	"github.com/codeloom/codeloom/pkg/types"
)

const (
	maxKeywords      = 10
	summaryHeadLen   = 100
	complexityLowMax = 20
	complexityMedMax = 50
)

// Residual text with no recognized boundary (file preambles, unknown
// syntax) is filed as documentation.
const residualType = types.ChunkDocumentation

// Extractor scans files line by line and closes a chunk at every profile
// boundary.
type Extractor struct {
	Registry *language.Registry
	// Now stamps lastModified on extracted chunks. Defaults to time.Now;
	// tests pin it for reproducible output.
	Now func() time.Time
}

// New returns an extractor over the given registry.
func New(reg *language.Registry) *Extractor {
	return &Extractor{Registry: reg}
}

// Extract splits fileText into chunks for the given language. Chunks are
// ordered by starting line, never overlap, and jointly cover the file;
// the trailing partial chunk is always closed and emitted.
func (e *Extractor) Extract(fileText, filePath, lang string) []types.CodeChunk {
	profile := e.Registry.Lookup(lang)
	now := e.now()

	lines := strings.Split(fileText, "\n")
	var chunks []types.CodeChunk

	open := -1 // Index of the first line of the open chunk, -1 when none
	boundary := ""
	for i, line := range lines {
		if profile.IsChunkBoundary(line) {
			if open >= 0 {
				chunks = append(chunks, e.close(profile, filePath, lang, lines, open, i-1, boundary, now, len(chunks)))
			}
			open = i
			boundary = line
		} else if open < 0 {
			// Residual preamble before the first boundary.
			open = i
			boundary = ""
		}
	}
	if open >= 0 {
		chunks = append(chunks, e.close(profile, filePath, lang, lines, open, len(lines)-1, boundary, now, len(chunks)))
	}

	return chunks
}

// close materializes the chunk spanning lines[start..end] (0-based,
// inclusive). boundary is the line that opened it, empty for residual
// chunks.
func (e *Extractor) close(profile language.Profile, filePath, lang string, lines []string, start, end int, boundary string, now time.Time, ordinal int) types.CodeChunk {
	content := strings.Join(lines[start:end+1], "\n")

	ctype := residualType
	name := ""
	if boundary != "" {
		ctype = profile.ChunkTypeOf(boundary)
		if n, ok := profile.ExtractName(boundary); ok {
			name = n
		}
	}

	return types.CodeChunk{
		ID:              filePath + "#" + strconv.Itoa(ordinal),
		FilePath:        filePath,
		FileName:        filepath.Base(filePath),
		Content:         content,
		Language:        lang,
		ChunkType:       ctype,
		FunctionName:    name,
		Dependencies:    profile.DependencyTargets(content),
		SemanticSummary: Summary(ctype, lines[start]),
		Keywords:        Keywords(content),
		Complexity:      Complexity(content),
		LastModified:    now,
		LineRange:       types.LineRange{Start: start + 1, End: end + 1},
	}
}

func (e *Extractor) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

// Summary builds the deterministic fallback summary. A generation
// service may overwrite it with a richer description later, but this one
// is always produced first so the pipeline never blocks on the external
// collaborator.
func Summary(ctype types.ChunkType, firstLine string) string {
	head := strings.TrimSpace(firstLine)
	// Truncate on rune boundaries; a byte slice could split a
	// multi-byte character and emit invalid UTF-8.
	if runes := []rune(head); len(runes) > summaryHeadLen {
		head = string(runes[:summaryHeadLen])
	}
	return fmt.Sprintf("%s: %s", ctype, head)
}

// Keywords returns up to ten distinct lowercase tokens of length greater
// than two, with punctuation stripped and pure-numeric tokens dropped.
// First-seen order is preserved.
func Keywords(content string) []string {
	var keywords []string
	seen := make(map[string]bool)
	for _, tok := range Tokenize(content) {
		if len(keywords) == maxKeywords {
			break
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}
	return keywords
}

// Tokenize splits text into lowercase identifier-like tokens of length
// greater than two, skipping pure-numeric runs.
func Tokenize(text string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		tok := cur.String()
		cur.Reset()
		if len(tok) <= 2 {
			return
		}
		if isNumeric(tok) {
			return
		}
		tokens = append(tokens, strings.ToLower(tok))
	}
	for _, r := range text {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			cur.WriteRune(r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// branchKeywords weigh into the complexity score at 2x.
var branchKeywords = map[string]bool{
	"if": true, "else": true, "elif": true, "for": true, "while": true,
	"switch": true, "case": true, "catch": true, "when": true,
}

// ComplexityScore computes the weighted score: line count + 2x branch
// keywords + 3x nested brace pairs. Appending branch keywords to a chunk
// never decreases the score.
func ComplexityScore(content string) int {
	lines := strings.Count(content, "\n") + 1

	branches := 0
	for _, tok := range strings.FieldsFunc(content, func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}) {
		if branchKeywords[tok] {
			branches++
		}
	}

	nested := 0
	depth := 0
	for _, r := range content {
		switch r {
		case '{':
			depth++
			if depth >= 2 {
				nested++
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}

	return lines + 2*branches + 3*nested
}

// Complexity buckets the score: low up to 20, medium up to 50, high
// beyond.
func Complexity(content string) types.Complexity {
	score := ComplexityScore(content)
	switch {
	case score <= complexityLowMax:
		return types.ComplexityLow
	case score <= complexityMedMax:
		return types.ComplexityMedium
	default:
		return types.ComplexityHigh
	}
}
