// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package merge plans how newly produced content lands in an existing
// file. The planner decides structure only (which spans change and
// how), never content quality, and it never drops content: with no
// confident anchor it still returns an append plan with warnings.
package merge

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/pkg/types"
)

const (
	baseConfidence     = 0.9
	ambiguityPenalty   = 0.2
	lowConfidenceFloor = 0.5
)

// Planner computes merge plans using the extractor to locate chunk
// boundaries in both the existing and the generated text.
type Planner struct {
	extractor *extract.Extractor
	log       *slog.Logger
}

// NewPlanner builds a planner. A nil logger discards.
func NewPlanner(extractor *extract.Extractor, log *slog.Logger) *Planner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Planner{extractor: extractor, log: log}
}

// plan carries the intermediate state of one planning pass.
type plan struct {
	ops         []types.MergeOperation
	warnings    []string
	ambiguities int
	touched     map[string]bool // Existing chunk IDs changed by an op
}

// Plan decides how req.GeneratedContent merges into req.ExistingContent.
// Decision ladder: empty file, instruction-named section, redeclared
// names, import-only content, append.
func (p *Planner) Plan(req types.MergeRequest) (*types.MergeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lang := p.language(req)
	existingChunks := []types.CodeChunk{}
	if req.ExistingContent != "" {
		existingChunks = p.extractor.Extract(req.ExistingContent, req.FileName, lang)
	}
	genChunks := p.extractor.Extract(req.GeneratedContent, req.FileName, lang)

	pl := &plan{touched: make(map[string]bool)}
	switch {
	case req.ExistingContent == "":
		pl.ops = append(pl.ops, types.MergeOperation{
			Type:      types.MergeInsert,
			Content:   req.GeneratedContent,
			Reasoning: "file is empty; inserting full generated content",
		})
	case p.planNamedSection(pl, req, existingChunks, genChunks):
	case p.planRedeclarations(pl, req, existingChunks, genChunks):
	case p.planImportsOnly(pl, req, existingChunks, genChunks):
	default:
		p.planAppend(pl, req)
	}

	merged := applyOperations(req.ExistingContent, pl.ops)

	confidence := baseConfidence - ambiguityPenalty*float64(pl.ambiguities)
	if confidence < 0 {
		confidence = 0
	}
	if confidence < lowConfidenceFloor && len(pl.ops) > 0 {
		pl.warnings = append(pl.warnings, "low confidence plan; consider keeping the file unchanged")
	}

	result := &types.MergeResult{
		MergedContent:     merged,
		Operations:        pl.ops,
		Summary:           summarize(req.ExistingContent, merged, len(pl.ops)),
		Confidence:        confidence,
		Warnings:          pl.warnings,
		PreservedSections: preserved(existingChunks, pl.touched),
	}
	p.log.Debug("merge planned",
		"file", req.FileName, "operations", len(pl.ops), "confidence", confidence)
	return result, nil
}

// language resolves the profile id from the file name, falling back to
// the explicit extension field.
func (p *Planner) language(req types.MergeRequest) string {
	if lang := p.extractor.Registry.DetectLanguage(req.FileName); lang != "plaintext" {
		return lang
	}
	if req.FileExtension != "" {
		return p.extractor.Registry.DetectLanguage("f." + strings.TrimPrefix(req.FileExtension, "."))
	}
	return "plaintext"
}

// planNamedSection handles an instruction that names an existing chunk:
// the chunk's span is updated in place. Returns false when the
// instruction names nothing recognizable.
func (p *Planner) planNamedSection(pl *plan, req types.MergeRequest, existingChunks, genChunks []types.CodeChunk) bool {
	if req.InstructionText == "" {
		return false
	}
	words := wordSet(req.InstructionText)

	var matches []types.CodeChunk
	for _, c := range existingChunks {
		if c.FunctionName != "" && words[strings.ToLower(c.FunctionName)] {
			matches = append(matches, c)
		}
	}
	if len(matches) == 0 {
		return false
	}
	if len(matches) > 1 {
		pl.ambiguities++
		pl.warnings = append(pl.warnings, fmt.Sprintf(
			"instruction matches %d sections; updating the first (%s)", len(matches), matches[0].FunctionName))
	}
	target := matches[0]

	// Pull the replacement span out of the generated text by name; when
	// the name is absent there, the whole generated content stands in.
	content := ""
	for _, g := range genChunks {
		if strings.EqualFold(g.FunctionName, target.FunctionName) {
			content = g.Content
			break
		}
	}
	if content == "" {
		content = req.GeneratedContent
		pl.ambiguities++
		pl.warnings = append(pl.warnings, fmt.Sprintf(
			"generated content does not declare %q; using it wholesale for the section", target.FunctionName))
	}

	if spanEquals(target.Content, content) {
		return true // Idempotent: nothing to do.
	}

	pl.touched[target.ID] = true
	pl.ops = append(pl.ops, types.MergeOperation{
		Type:            types.MergeUpdateSection,
		StartLineNumber: target.LineRange.Start,
		EndLineNumber:   target.LineRange.End,
		AnchorPattern:   target.FunctionName,
		Content:         content,
		Reasoning:       fmt.Sprintf("instruction names %q; updating its section", target.FunctionName),
	})
	return true
}

// planRedeclarations handles generated content that re-declares names
// already present: each redeclared span is replaced, with a warning.
// Generated chunks with new names are appended afterwards.
func (p *Planner) planRedeclarations(pl *plan, req types.MergeRequest, existingChunks, genChunks []types.CodeChunk) bool {
	byName := make(map[string][]types.CodeChunk)
	for _, c := range existingChunks {
		if c.FunctionName != "" {
			name := strings.ToLower(c.FunctionName)
			byName[name] = append(byName[name], c)
		}
	}

	var leftovers []string
	matched := false
	for _, g := range genChunks {
		name := strings.ToLower(g.FunctionName)
		targets := byName[name]
		if g.FunctionName == "" || len(targets) == 0 {
			leftovers = append(leftovers, g.Content)
			continue
		}
		matched = true
		if len(targets) > 1 {
			pl.ambiguities++
			pl.warnings = append(pl.warnings, fmt.Sprintf(
				"%d existing definitions of %q; replacing the first", len(targets), g.FunctionName))
		}
		target := targets[0]
		if spanEquals(target.Content, g.Content) {
			continue // Identical redeclaration is a no-op.
		}
		pl.touched[target.ID] = true
		pl.warnings = append(pl.warnings, fmt.Sprintf("overwriting existing definition of %s", g.FunctionName))
		pl.ops = append(pl.ops, types.MergeOperation{
			Type:            types.MergeReplace,
			StartLineNumber: target.LineRange.Start,
			EndLineNumber:   target.LineRange.End,
			AnchorPattern:   g.FunctionName,
			Content:         g.Content,
			Reasoning:       fmt.Sprintf("generated content redeclares %q", g.FunctionName),
		})
	}
	if !matched {
		return false
	}

	if rest := strings.TrimSpace(strings.Join(leftovers, "\n")); rest != "" {
		pl.ops = append(pl.ops, types.MergeOperation{
			Type:      types.MergeAppend,
			Content:   rest,
			Reasoning: "generated content includes declarations not present in the file",
		})
	}
	return true
}

// planImportsOnly handles generated content consisting solely of import
// chunks: it lands right after the file's last import, or at the top
// when the file has none.
func (p *Planner) planImportsOnly(pl *plan, req types.MergeRequest, existingChunks, genChunks []types.CodeChunk) bool {
	for _, g := range genChunks {
		if g.ChunkType != types.ChunkImport {
			return false
		}
	}
	if len(genChunks) == 0 {
		return false
	}

	content := strings.TrimRight(req.GeneratedContent, "\n")
	if strings.Contains(req.ExistingContent, strings.TrimSpace(content)) {
		return true // Imports already present.
	}

	// Anchor on the last non-blank line of the last import chunk; the
	// chunk's range may include trailing blank lines.
	lastImport := 0
	found := false
	for _, c := range existingChunks {
		if c.ChunkType != types.ChunkImport {
			continue
		}
		line := c.LineRange.Start
		for i, l := range strings.Split(c.Content, "\n") {
			if strings.TrimSpace(l) != "" {
				line = c.LineRange.Start + i
			}
		}
		if line > lastImport {
			lastImport = line
			found = true
		}
	}

	if !found {
		pl.ops = append(pl.ops, types.MergeOperation{
			Type:      types.MergePrepend,
			Content:   content,
			Reasoning: "file has no imports; adding them at the top",
		})
		return true
	}
	pl.ops = append(pl.ops, types.MergeOperation{
		Type:            types.MergeInsert,
		StartLineNumber: lastImport,
		Content:         content,
		Reasoning:       "inserting imports after the last existing import",
	})
	return true
}

// planAppend is the worst-case placement: no anchor was found, which
// counts as one ambiguity.
func (p *Planner) planAppend(pl *plan, req types.MergeRequest) {
	if strings.Contains(req.ExistingContent, strings.TrimSpace(req.GeneratedContent)) {
		return // Already present verbatim.
	}
	pl.ambiguities++
	pl.ops = append(pl.ops, types.MergeOperation{
		Type:      types.MergeAppend,
		Content:   strings.TrimRight(req.GeneratedContent, "\n"),
		Reasoning: "no anchor found; appending at end of file",
	})
}

// applyOperations materializes the merged text. Positioned operations
// are applied bottom-up so earlier splices do not shift later
// coordinates; append and prepend wrap around the result.
func applyOperations(existing string, ops []types.MergeOperation) string {
	if existing == "" {
		parts := make([]string, 0, len(ops))
		for _, op := range ops {
			parts = append(parts, op.Content)
		}
		return strings.Join(parts, "\n")
	}

	positioned := make([]types.MergeOperation, 0, len(ops))
	var appends, prepends []string
	for _, op := range ops {
		switch op.Type {
		case types.MergeAppend:
			appends = append(appends, op.Content)
		case types.MergePrepend:
			prepends = append(prepends, op.Content)
		default:
			positioned = append(positioned, op)
		}
	}
	sort.SliceStable(positioned, func(i, j int) bool {
		return positioned[i].StartLineNumber > positioned[j].StartLineNumber
	})

	lines := strings.Split(existing, "\n")
	for _, op := range positioned {
		switch op.Type {
		case types.MergeInsert:
			at := op.StartLineNumber // Content goes after this line; 0 is the top
			if at > len(lines) {
				at = len(lines)
			}
			insert := strings.Split(op.Content, "\n")
			lines = append(lines[:at], append(insert, lines[at:]...)...)
		case types.MergeReplace, types.MergeUpdateSection:
			start, end := op.StartLineNumber-1, op.EndLineNumber
			if start < 0 {
				start = 0
			}
			if end > len(lines) {
				end = len(lines)
			}
			replacement := strings.Split(strings.TrimRight(op.Content, "\n"), "\n")
			lines = append(lines[:start], append(replacement, lines[end:]...)...)
		}
	}

	out := strings.Join(lines, "\n")
	for _, pre := range prepends {
		out = pre + "\n" + out
	}
	for _, app := range appends {
		if out == "" {
			out = app
			continue
		}
		out = strings.TrimRight(out, "\n") + "\n\n" + app + "\n"
	}
	return out
}

// spanEquals compares two spans ignoring leading/trailing blank space,
// which is what textual idempotence means for a merge.
func spanEquals(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

// summarize counts the line-level delta with a text diff.
func summarize(before, after string, opCount int) string {
	if before == after || opCount == 0 {
		return "no changes needed; content already present"
	}

	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	added, removed := 0, 0
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") && d.Text != "" {
			n++
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}
	return fmt.Sprintf("applied %d operation(s): +%d/-%d lines", opCount, added, removed)
}

// preserved lists the named existing sections no operation touched.
func preserved(existingChunks []types.CodeChunk, touched map[string]bool) []string {
	out := []string{}
	for _, c := range existingChunks {
		if c.FunctionName != "" && !touched[c.ID] {
			out = append(out, c.FunctionName)
		}
	}
	return out
}

// wordSet lowercases and splits on non-identifier runs.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	}) {
		set[w] = true
	}
	return set
}
