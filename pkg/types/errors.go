// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "fmt"

// ValidationError rejects malformed top-level input before any
// processing. It is the only hard failure in the core: everything below
// the input boundary degrades and reports instead of raising.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// SourceFile is one entry of a file corpus: a path and its raw content.
type SourceFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}
