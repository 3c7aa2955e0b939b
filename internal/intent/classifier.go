// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package intent maps free-text instructions to routed intents. The
// classifier is a fixed ordered rule table evaluated top to bottom;
// the first matching rule wins and no backtracking occurs. It is total:
// every string, including the empty one, yields exactly one
// classification.
package intent

import (
	"regexp"
	"strings"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/pkg/types"
)

// Classifier evaluates the builtin rule table. Stateless and safe for
// concurrent use.
type Classifier struct {
	rules []ruleEntry
}

// ruleEntry is one row of the ordered table: a matcher plus the fixed
// classification it assigns.
type ruleEntry struct {
	name    string
	match   func(text string, ctx types.ContextFlags) (types.SubIntent, bool)
	intent  types.Intent
	conf    float64
	routing types.RoutingInfo
}

// NewClassifier builds the classifier with the builtin rules.
func NewClassifier() *Classifier {
	return &Classifier{rules: builtinRules()}
}

// Classify assigns the instruction exactly one intent. Matching and
// analysis both work on the lowercased, trimmed text.
func (c *Classifier) Classify(promptText string, ctx types.ContextFlags) types.IntentClassification {
	text := strings.ToLower(strings.TrimSpace(promptText))

	for _, r := range c.rules {
		sub, ok := r.match(text, ctx)
		if !ok {
			continue
		}
		return types.IntentClassification{
			PrimaryIntent: r.intent,
			Confidence:    r.conf,
			SubIntent:     sub,
			RoutingInfo:   r.routing,
			Analysis:      analyze(text, ctx),
		}
	}

	// Fallthrough: the question rule matches everything, so this is
	// unreachable, but the compiler cannot know that.
	return types.IntentClassification{
		PrimaryIntent: types.IntentAskQuestion,
		Confidence:    0.5,
		RoutingInfo:   questionRouting,
		Analysis:      analyze(text, ctx),
	}
}

var questionRouting = types.RoutingInfo{
	ToolToCall:         "question_answerer",
	Priority:           types.PriorityLow,
	ExpectedOutputType: "text",
}

var (
	reSuggestName = regexp.MustCompile(`\b(?:suggest|recommend)\b.*\b(?:name|filename|file name)\b|` +
		`\bwhat\s+should\s+i\s+(?:name|call)\b|\b(?:name|filename)\s+for\s+(?:this|the|my)\b`)
	reRename       = regexp.MustCompile(`\brename\s+(\S+)\s+to\s+(\S+)`)
	reMove         = regexp.MustCompile(`\bmove\s+(\S+)\s+(?:to|into)\s+(\S+)`)
	reDelete       = regexp.MustCompile(`\b(?:delete|remove)\s+(?:the\s+)?(?:file|folder|directory)\s+(\S+)|\bdelete\s+(\S+\.\w+)`)
	reCreateFolder = regexp.MustCompile(`\b(?:create|make|add)\s+(?:a\s+|new\s+)?(?:folder|directory)\b(?:\s+(?:called|named)\s+(\S+))?`)
	reGenerate     = regexp.MustCompile(`\bgenerate\b|\b(?:create|write|build|implement|scaffold)\b.*\b(?:function|method|class|component|module|script|endpoint|api|test|tests|page|app|handler|service|snippet|code)\b`)
	reModifyVerb   = regexp.MustCompile(`\b(?:modify|update|edit|change|adjust)\b`)
	reAddMember    = regexp.MustCompile(`\badd\s+(?:a\s+|an\s+|new\s+)?(?:function|method|field|property|parameter|import)\b`)
	reExplain      = regexp.MustCompile(`\bexplain\b|\bwhat\s+(?:does|do|is)\b|\bhow\s+(?:does|do)\b|\bwalk\s+me\s+through\b`)
	reDebug        = regexp.MustCompile(`\b(?:fix|debug|error|issue|bug|broken|crash|failing|exception)\b`)
	reRefactor     = regexp.MustCompile(`\b(?:refactor|improve|optimize|optimise|simplify|clean\s+up|restructure)\b`)
)

// builtinRules returns the table in precedence order. Filename
// suggestion outranks file operations so "suggest a name for this
// file" never reads as a rename; file operations outrank generation so
// "create a folder for this code" is treated as the explicit folder
// request it is.
func builtinRules() []ruleEntry {
	return []ruleEntry{
		{
			name: "suggest_filename",
			match: func(text string, _ types.ContextFlags) (types.SubIntent, bool) {
				if !reSuggestName.MatchString(text) {
					return types.SubIntent{}, false
				}
				return types.SubIntent{Operation: "suggest_name"}, true
			},
			intent: types.IntentSuggestFilename,
			conf:   0.85,
			routing: types.RoutingInfo{
				ToolToCall:         "filename_suggester",
				Priority:           types.PriorityNormal,
				ExpectedOutputType: "filename",
			},
		},
		{
			name:   "file_operation",
			match:  matchFileOperation,
			intent: types.IntentFileOperation,
			conf:   0.9,
			routing: types.RoutingInfo{
				ToolToCall:               "file_manager",
				Priority:                 types.PriorityHigh,
				RequiresUserConfirmation: true,
				ExpectedOutputType:       "operation",
			},
		},
		{
			name: "generate_code",
			match: func(text string, _ types.ContextFlags) (types.SubIntent, bool) {
				if !reGenerate.MatchString(text) {
					return types.SubIntent{}, false
				}
				return types.SubIntent{Operation: "generate"}, true
			},
			intent: types.IntentGenerateCode,
			conf:   0.85,
			routing: types.RoutingInfo{
				ToolToCall:         "code_generator",
				Priority:           types.PriorityHigh,
				ExpectedOutputType: "code",
			},
		},
		{
			name:   "modify_code",
			match:  matchModify,
			intent: types.IntentModifyCode,
			conf:   0.8,
			routing: types.RoutingInfo{
				ToolToCall:         "code_modifier",
				Priority:           types.PriorityHigh,
				ExpectedOutputType: "code",
			},
		},
		{
			name: "explain_code",
			match: func(text string, _ types.ContextFlags) (types.SubIntent, bool) {
				if !reExplain.MatchString(text) {
					return types.SubIntent{}, false
				}
				return types.SubIntent{Operation: "explain"}, true
			},
			intent: types.IntentExplainCode,
			conf:   0.8,
			routing: types.RoutingInfo{
				ToolToCall:         "code_explainer",
				Priority:           types.PriorityNormal,
				ExpectedOutputType: "text",
			},
		},
		{
			name: "debug_code",
			match: func(text string, _ types.ContextFlags) (types.SubIntent, bool) {
				if !reDebug.MatchString(text) {
					return types.SubIntent{}, false
				}
				return types.SubIntent{Operation: "debug"}, true
			},
			intent: types.IntentDebugCode,
			conf:   0.75,
			routing: types.RoutingInfo{
				ToolToCall:         "code_debugger",
				Priority:           types.PriorityHigh,
				ExpectedOutputType: "code",
			},
		},
		{
			name: "refactor_code",
			match: func(text string, _ types.ContextFlags) (types.SubIntent, bool) {
				if !reRefactor.MatchString(text) {
					return types.SubIntent{}, false
				}
				return types.SubIntent{Operation: "refactor"}, true
			},
			intent: types.IntentRefactorCode,
			conf:   0.75,
			routing: types.RoutingInfo{
				ToolToCall:         "code_refactorer",
				Priority:           types.PriorityNormal,
				ExpectedOutputType: "code",
			},
		},
		{
			name: "ask_question",
			match: func(string, types.ContextFlags) (types.SubIntent, bool) {
				return types.SubIntent{Operation: "answer"}, true
			},
			intent:  types.IntentAskQuestion,
			conf:    0.5,
			routing: questionRouting,
		},
	}
}

// matchFileOperation recognizes rename/move with a destination, delete
// of a file or folder, and folder creation. All of these route through
// the confirming file manager.
func matchFileOperation(text string, _ types.ContextFlags) (types.SubIntent, bool) {
	if m := reRename.FindStringSubmatch(text); m != nil {
		return types.SubIntent{Operation: "rename", Target: m[1], Context: m[2]}, true
	}
	if m := reMove.FindStringSubmatch(text); m != nil {
		return types.SubIntent{Operation: "move", Target: m[1], Context: m[2]}, true
	}
	if m := reDelete.FindStringSubmatch(text); m != nil {
		target := m[1]
		if target == "" {
			target = m[2]
		}
		return types.SubIntent{Operation: "delete", Target: target}, true
	}
	if m := reCreateFolder.FindStringSubmatch(text); m != nil {
		return types.SubIntent{Operation: "create_folder", Target: m[1]}, true
	}
	return types.SubIntent{}, false
}

// matchModify requires either editor context with real file content or
// the explicit add-a-member phrasing, so bare "change the plan" chatter
// does not read as a code edit.
func matchModify(text string, ctx types.ContextFlags) (types.SubIntent, bool) {
	if reAddMember.MatchString(text) {
		return types.SubIntent{Operation: "add_member", Target: ctx.CurrentFileName}, true
	}
	if reModifyVerb.MatchString(text) && (ctx.HasFileContent || ctx.CurrentFileName != "") {
		return types.SubIntent{Operation: "modify", Target: ctx.CurrentFileName}, true
	}
	return types.SubIntent{}, false
}

// stopwords excluded from analysis keywords.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "this": true, "that": true,
	"with": true, "from": true, "into": true, "can": true, "you": true,
	"please": true, "should": true, "would": true, "could": true,
	"what": true, "how": true, "does": true, "are": true, "was": true,
	"a": true, "an": true, "to": true, "of": true, "in": true, "my": true,
	"me": true, "its": true, "his": true, "her": true, "their": true,
}

// actionVerbVocabulary is the fixed verb set intersected against the
// instruction text.
var actionVerbVocabulary = []string{
	"add", "build", "change", "create", "debug", "delete", "edit",
	"explain", "fix", "generate", "improve", "make", "modify", "move",
	"optimize", "refactor", "remove", "rename", "suggest", "update", "write",
}

// languageMentions maps instruction words to language ids, checked in
// order so classification stays deterministic. Longer names come first
// so "typescript" wins over the bare "ts" mention in the same text.
var languageMentions = []struct{ word, lang string }{
	{"typescript", "typescript"}, {"javascript", "javascript"},
	{"golang", "go"}, {"python", "python"},
	{"java", "java"}, {"rust", "rust"}, {"ruby", "ruby"},
	{"go", "go"}, {"js", "javascript"}, {"ts", "typescript"}, {"py", "python"},
}

// domainMentions label the broad area an instruction touches.
var domainMentions = []struct{ word, domain string }{
	{"api", "api"}, {"endpoint", "api"}, {"database", "database"},
	{"sql", "database"}, {"auth", "authentication"}, {"login", "authentication"},
	{"test", "testing"}, {"ui", "frontend"}, {"component", "frontend"},
	{"deploy", "infrastructure"}, {"docker", "infrastructure"},
}

// analyze produces the deterministic token-level breakdown attached to
// every classification.
func analyze(text string, ctx types.ContextFlags) types.Analysis {
	tokens := extract.Tokenize(text)

	var keywords []string
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if len(keywords) == 10 {
			break
		}
		if stopwords[tok] || seen[tok] {
			continue
		}
		seen[tok] = true
		keywords = append(keywords, tok)
	}

	// Tokenize drops two-letter tokens, which loses "go"/"ts"/"js";
	// language and verb detection need the raw word set.
	words := wordSet(text)
	var verbs []string
	for _, v := range actionVerbVocabulary {
		if words[v] {
			verbs = append(verbs, v)
		}
	}

	return types.Analysis{
		Keywords:            keywords,
		ActionVerbs:         verbs,
		ProgrammingLanguage: detectLanguage(text, words, ctx),
		FileType:            detectFileType(text, ctx),
		DomainContext:       detectDomain(words),
	}
}

// wordSet lowercases and splits on non-alphanumeric runs with no
// length filtering.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	}) {
		set[w] = true
	}
	return set
}

var reFileMention = regexp.MustCompile(`\b[\w./-]+\.(\w{1,5})\b`)

func detectLanguage(text string, words map[string]bool, ctx types.ContextFlags) string {
	for _, m := range languageMentions {
		if words[m.word] {
			return m.lang
		}
	}
	if ft := detectFileType(text, ctx); ft != "" {
		for _, m := range languageMentions {
			if m.word == ft {
				return m.lang
			}
		}
	}
	return ""
}

func detectFileType(text string, ctx types.ContextFlags) string {
	if m := reFileMention.FindStringSubmatch(text); m != nil {
		return strings.ToLower(m[1])
	}
	if ctx.CurrentFileName != "" {
		if i := strings.LastIndex(ctx.CurrentFileName, "."); i >= 0 && i < len(ctx.CurrentFileName)-1 {
			return strings.ToLower(ctx.CurrentFileName[i+1:])
		}
	}
	return ""
}

func detectDomain(words map[string]bool) string {
	for _, m := range domainMentions {
		for w := range words {
			if strings.HasPrefix(w, m.word) {
				return m.domain
			}
		}
	}
	return ""
}
