// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// MergeOpType identifies a single structural edit the merge planner can
// emit.
type MergeOpType string

const (
	MergeInsert        MergeOpType = "insert"
	MergeReplace       MergeOpType = "replace"
	MergeAppend        MergeOpType = "append"
	MergePrepend       MergeOpType = "prepend"
	MergeUpdateSection MergeOpType = "update_section"
)

// Valid reports whether t is a known merge operation type.
func (t MergeOpType) Valid() bool {
	switch t {
	case MergeInsert, MergeReplace, MergeAppend, MergePrepend, MergeUpdateSection:
		return true
	}
	return false
}

// MergeOperation describes how one span of new content lands in the
// existing file. Line numbers are 1-based; insert places content after
// StartLineNumber (0 means at the very top).
type MergeOperation struct {
	Type            MergeOpType `json:"type"`
	StartLineNumber int         `json:"startLineNumber,omitempty"`
	EndLineNumber   int         `json:"endLineNumber,omitempty"`
	AnchorPattern   string      `json:"anchorPattern,omitempty"`
	Content         string      `json:"content"`
	Reasoning       string      `json:"reasoning"`
}

// MergeRequest is the input to the merge planner.
type MergeRequest struct {
	ExistingContent  string `json:"existingContent"`
	GeneratedContent string `json:"generatedContent"`
	FileName         string `json:"fileName"`
	FileExtension    string `json:"fileExtension"`
	InstructionText  string `json:"instructionText,omitempty"`
}

// Validate checks the request shape before planning.
func (r MergeRequest) Validate() error {
	if r.GeneratedContent == "" {
		return &ValidationError{Field: "generatedContent", Message: "generated content is required"}
	}
	if r.FileName == "" {
		return &ValidationError{Field: "fileName", Message: "file name is required"}
	}
	return nil
}

// MergeResult is the planned outcome. The planner never drops content:
// when no confident anchor exists it still returns a plan (append, worst
// case) with warnings and a confidence below 0.5 so the caller can offer
// the unmodified alternative.
type MergeResult struct {
	MergedContent     string           `json:"mergedContent"`
	Operations        []MergeOperation `json:"operations"`
	Summary           string           `json:"summary"`
	Confidence        float64          `json:"confidence"` // In [0,1]
	Warnings          []string         `json:"warnings,omitempty"`
	PreservedSections []string         `json:"preservedSections"`
}
