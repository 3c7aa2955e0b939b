// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package intent

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/pkg/types"
)

func TestClassifyRenameScenario(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("rename file.ts to util.ts", types.ContextFlags{})

	assert.Equal(t, types.IntentFileOperation, got.PrimaryIntent)
	assert.Equal(t, "rename", got.SubIntent.Operation)
	assert.Equal(t, "file.ts", got.SubIntent.Target)
	assert.Equal(t, "util.ts", got.SubIntent.Context)
	assert.True(t, got.RoutingInfo.RequiresUserConfirmation)
	assert.Equal(t, "file_manager", got.RoutingInfo.ToolToCall)
	assert.Equal(t, "typescript", got.Analysis.ProgrammingLanguage)
	assert.Equal(t, "ts", got.Analysis.FileType)
}

func TestClassifyRuleTable(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name       string
		text       string
		ctx        types.ContextFlags
		wantIntent types.Intent
		wantOp     string
		wantTool   string
	}{
		{
			name:       "filename suggestion",
			text:       "suggest a good name for this file",
			wantIntent: types.IntentSuggestFilename,
			wantOp:     "suggest_name",
			wantTool:   "filename_suggester",
		},
		{
			name:       "move with destination",
			text:       "move utils.py into src/helpers",
			wantIntent: types.IntentFileOperation,
			wantOp:     "move",
			wantTool:   "file_manager",
		},
		{
			name:       "delete folder",
			text:       "delete the folder build",
			wantIntent: types.IntentFileOperation,
			wantOp:     "delete",
			wantTool:   "file_manager",
		},
		{
			name:       "create folder beats generate",
			text:       "create a folder for this code",
			wantIntent: types.IntentFileOperation,
			wantOp:     "create_folder",
			wantTool:   "file_manager",
		},
		{
			name:       "generate with code noun",
			text:       "write a function that parses dates",
			wantIntent: types.IntentGenerateCode,
			wantOp:     "generate",
			wantTool:   "code_generator",
		},
		{
			name:       "plain generate verb",
			text:       "generate pagination helpers",
			wantIntent: types.IntentGenerateCode,
			wantOp:     "generate",
			wantTool:   "code_generator",
		},
		{
			name:       "modify with open file",
			text:       "update the error handling here",
			ctx:        types.ContextFlags{CurrentFileName: "server.go", HasFileContent: true},
			wantIntent: types.IntentModifyCode,
			wantOp:     "modify",
			wantTool:   "code_modifier",
		},
		{
			name:       "add function without file context",
			text:       "add a function to validate emails",
			wantIntent: types.IntentModifyCode,
			wantOp:     "add_member",
			wantTool:   "code_modifier",
		},
		{
			name:       "explain",
			text:       "explain this regular expression",
			wantIntent: types.IntentExplainCode,
			wantOp:     "explain",
			wantTool:   "code_explainer",
		},
		{
			name:       "what does",
			text:       "what does the scheduler loop do",
			wantIntent: types.IntentExplainCode,
			wantOp:     "explain",
			wantTool:   "code_explainer",
		},
		{
			name:       "debug",
			text:       "fix the crash on startup",
			wantIntent: types.IntentDebugCode,
			wantOp:     "debug",
			wantTool:   "code_debugger",
		},
		{
			name:       "refactor",
			text:       "refactor the payment flow",
			wantIntent: types.IntentRefactorCode,
			wantOp:     "refactor",
			wantTool:   "code_refactorer",
		},
		{
			name:       "fallback question",
			text:       "is there a standard port convention",
			wantIntent: types.IntentAskQuestion,
			wantOp:     "answer",
			wantTool:   "question_answerer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.text, tt.ctx)
			assert.Equal(t, tt.wantIntent, got.PrimaryIntent)
			assert.Equal(t, tt.wantOp, got.SubIntent.Operation)
			assert.Equal(t, tt.wantTool, got.RoutingInfo.ToolToCall)
		})
	}
}

func TestClassifyModifyNeedsContext(t *testing.T) {
	c := NewClassifier()

	// Without file context, a bare modification verb is not a code edit.
	got := c.Classify("update the plan", types.ContextFlags{})
	assert.Equal(t, types.IntentAskQuestion, got.PrimaryIntent)

	got = c.Classify("update the plan", types.ContextFlags{HasFileContent: true})
	assert.Equal(t, types.IntentModifyCode, got.PrimaryIntent)
}

func TestClassifyTotality(t *testing.T) {
	c := NewClassifier()

	inputs := []string{
		"",
		"   ",
		"???",
		strings.Repeat("zzz ", 500),
		"généralisons les choses",
	}
	for _, text := range inputs {
		got := c.Classify(text, types.ContextFlags{})
		assert.True(t, got.PrimaryIntent.Valid(), "input %q must classify", text)
		assert.GreaterOrEqual(t, got.Confidence, 0.0)
		assert.LessOrEqual(t, got.Confidence, 1.0)
	}
}

func TestClassifyEmptyString(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("", types.ContextFlags{})
	assert.Equal(t, types.IntentAskQuestion, got.PrimaryIntent)
	assert.Equal(t, 0.5, got.Confidence)
	assert.False(t, got.RoutingInfo.RequiresUserConfirmation)
}

func TestAnalyze(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("create a login endpoint in python for the auth api", types.ContextFlags{})

	require.Equal(t, types.IntentGenerateCode, got.PrimaryIntent)
	assert.Contains(t, got.Analysis.Keywords, "login")
	assert.Contains(t, got.Analysis.Keywords, "endpoint")
	assert.NotContains(t, got.Analysis.Keywords, "the")
	assert.LessOrEqual(t, len(got.Analysis.Keywords), 10)
	assert.Equal(t, []string{"create"}, got.Analysis.ActionVerbs)
	assert.Equal(t, "python", got.Analysis.ProgrammingLanguage)
	assert.Equal(t, "api", got.Analysis.DomainContext)
}

func TestAnalyzeFileTypeFromContext(t *testing.T) {
	c := NewClassifier()

	got := c.Classify("explain this", types.ContextFlags{CurrentFileName: "handler.RS"})
	assert.Equal(t, "rs", got.Analysis.FileType)
}
