// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// Intent is the actionable category assigned to a free-text instruction.
type Intent string

const (
	IntentGenerateCode    Intent = "generate_code"
	IntentModifyCode      Intent = "modify_code"
	IntentSuggestFilename Intent = "suggest_filename"
	IntentFileOperation   Intent = "file_operation"
	IntentAskQuestion     Intent = "ask_question"
	IntentExplainCode     Intent = "explain_code"
	IntentDebugCode       Intent = "debug_code"
	IntentRefactorCode    Intent = "refactor_code"
)

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	switch i {
	case IntentGenerateCode, IntentModifyCode, IntentSuggestFilename,
		IntentFileOperation, IntentAskQuestion, IntentExplainCode,
		IntentDebugCode, IntentRefactorCode:
		return true
	}
	return false
}

// Priority orders routed work for the caller.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// SubIntent refines the primary intent with the concrete operation and
// its target, when the instruction names them.
type SubIntent struct {
	Operation string `json:"operation,omitempty"` // e.g. "rename", "delete", "add_function"
	Target    string `json:"target,omitempty"`    // e.g. a file name or symbol
	Context   string `json:"context,omitempty"`   // e.g. a destination path
}

// RoutingInfo tells the caller which capability to invoke and how.
type RoutingInfo struct {
	ToolToCall               string   `json:"toolToCall"`
	Priority                 Priority `json:"priority"`
	RequiresUserConfirmation bool     `json:"requiresUserConfirmation"`
	ExpectedOutputType       string   `json:"expectedOutputType"` // "code", "text", "filename", "operation"
}

// Analysis carries the deterministic token-level breakdown of the
// instruction text.
type Analysis struct {
	Keywords            []string `json:"keywords"` // At most ten non-stopword tokens
	ActionVerbs         []string `json:"actionVerbs"`
	ProgrammingLanguage string   `json:"programmingLanguage,omitempty"`
	FileType            string   `json:"fileType,omitempty"`
	DomainContext       string   `json:"domainContext,omitempty"`
}

// IntentClassification is the routed decision for one instruction.
// Classification is total: every input string produces exactly one.
type IntentClassification struct {
	PrimaryIntent Intent      `json:"primaryIntent"`
	Confidence    float64     `json:"confidence"` // In [0,1]
	SubIntent     SubIntent   `json:"subIntent"`
	RoutingInfo   RoutingInfo `json:"routingInfo"`
	Analysis      Analysis    `json:"analysis"`
}

// ContextFlags are the editor-state hints supplied alongside an
// instruction.
type ContextFlags struct {
	HasAttachments  bool   `json:"hasAttachments"`
	CurrentFileName string `json:"currentFileName,omitempty"`
	CurrentFilePath string `json:"currentFilePath,omitempty"`
	HasFileContent  bool   `json:"hasFileContent"`
}
