// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package language

import (
	"regexp"

	"github.com/codeloom/codeloom/pkg/types"
)

// Builtin profile table. Rule order matters: the first matching rule
// classifies the line, so test patterns sit above plain function
// patterns and methods above free functions.
var builtinSpecs = []profileSpec{
	{
		language:   "go",
		extensions: []string{"go"},
		rules: []rule{
			{regexp.MustCompile(`^func\s+(?P<name>Test\w+|Benchmark\w+|Fuzz\w+)\s*\(`), types.ChunkTest},
			{regexp.MustCompile(`^func\s+\([^)]*\)\s+(?P<name>\w+)`), types.ChunkFunction},
			{regexp.MustCompile(`^func\s+(?P<name>\w+)`), types.ChunkFunction},
			{regexp.MustCompile(`^type\s+(?P<name>\w+)\s+interface`), types.ChunkInterface},
			{regexp.MustCompile(`^type\s+(?P<name>\w+)\s+struct`), types.ChunkClass},
			{regexp.MustCompile(`^type\s+(?P<name>\w+)`), types.ChunkClass},
			{regexp.MustCompile(`^import\b`), types.ChunkImport},
			{regexp.MustCompile(`^(?:const|var)\b`), types.ChunkConfig},
			{regexp.MustCompile(`^package\s+(?P<name>\w+)`), types.ChunkDocumentation},
		},
		depRes: []*regexp.Regexp{
			regexp.MustCompile(`"([^"]+)"`),
		},
		depFn: goDependencyTargets,
	},
	{
		language:   "javascript",
		extensions: []string{"js", "jsx", "mjs", "cjs"},
		rules:      scriptRules(false),
		depRes:     scriptDepRes,
	},
	{
		language:   "typescript",
		extensions: []string{"ts", "tsx"},
		rules:      scriptRules(true),
		depRes:     scriptDepRes,
	},
	{
		language:   "python",
		extensions: []string{"py"},
		rules: []rule{
			{regexp.MustCompile(`^(?:async\s+)?def\s+(?P<name>test_\w+)`), types.ChunkTest},
			{regexp.MustCompile(`^(?:async\s+)?def\s+(?P<name>\w+)`), types.ChunkFunction},
			{regexp.MustCompile(`^class\s+(?P<name>\w+)`), types.ChunkClass},
			{regexp.MustCompile(`^(?:import|from)\s+`), types.ChunkImport},
			{regexp.MustCompile(`^if\s+__name__\s*==`), types.ChunkConfig},
		},
		depRes: []*regexp.Regexp{
			regexp.MustCompile(`^\s*import\s+([\w.]+)`),
			regexp.MustCompile(`^\s*from\s+([\w.]+)\s+import`),
		},
	},
	{
		language:   "java",
		extensions: []string{"java"},
		rules: []rule{
			{regexp.MustCompile(`^\s*@Test\b`), types.ChunkTest},
			{regexp.MustCompile(`^(?:public\s+|abstract\s+|final\s+)*interface\s+(?P<name>\w+)`), types.ChunkInterface},
			{regexp.MustCompile(`^(?:public\s+|abstract\s+|final\s+)*class\s+(?P<name>\w+)`), types.ChunkClass},
			{regexp.MustCompile(`^\s+(?:public|private|protected|static)[\w<>,\[\]\s]*\s(?P<name>\w+)\s*\(`), types.ChunkFunction},
			{regexp.MustCompile(`^import\s`), types.ChunkImport},
			{regexp.MustCompile(`^package\s+(?P<name>[\w.]+)`), types.ChunkDocumentation},
		},
		depRes: []*regexp.Regexp{
			regexp.MustCompile(`^import\s+(?:static\s+)?([\w.]+)\s*;`),
		},
	},
	{
		language:   "rust",
		extensions: []string{"rs"},
		rules: []rule{
			{regexp.MustCompile(`^\s*#\[(?:test|tokio::test)\]`), types.ChunkTest},
			{regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?(?:async\s+)?fn\s+(?P<name>\w+)`), types.ChunkFunction},
			{regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?trait\s+(?P<name>\w+)`), types.ChunkInterface},
			{regexp.MustCompile(`^(?:pub(?:\([^)]*\))?\s+)?(?:struct|enum)\s+(?P<name>\w+)`), types.ChunkClass},
			{regexp.MustCompile(`^impl\b`), types.ChunkClass},
			{regexp.MustCompile(`^use\s`), types.ChunkImport},
			{regexp.MustCompile(`^(?:pub\s+)?mod\s+(?P<name>\w+)`), types.ChunkConfig},
		},
		depRes: []*regexp.Regexp{
			regexp.MustCompile(`^use\s+([\w:]+)`),
			regexp.MustCompile(`^extern\s+crate\s+(\w+)`),
		},
	},
	{
		language:   "ruby",
		extensions: []string{"rb"},
		rules: []rule{
			{regexp.MustCompile(`^\s*def\s+(?P<name>test_\w+)`), types.ChunkTest},
			{regexp.MustCompile(`^\s*def\s+(?P<name>[\w?!]+)`), types.ChunkFunction},
			{regexp.MustCompile(`^class\s+(?P<name>\w+)`), types.ChunkClass},
			{regexp.MustCompile(`^module\s+(?P<name>\w+)`), types.ChunkComponent},
			{regexp.MustCompile(`^require`), types.ChunkImport},
		},
		depRes: []*regexp.Regexp{
			regexp.MustCompile(`^require(?:_relative)?\s+['"]([^'"]+)['"]`),
		},
	},
	{
		language:   "markdown",
		extensions: []string{"md", "markdown"},
		rules: []rule{
			{regexp.MustCompile(`^#{1,6}\s+(?P<name>.+?)\s*$`), types.ChunkDocumentation},
		},
	},
	{
		language:   "config",
		extensions: []string{"json", "yaml", "yml", "toml", "ini"},
		rules: []rule{
			{regexp.MustCompile(`^\[(?P<name>[^\]]+)\]`), types.ChunkConfig},
			{regexp.MustCompile(`^"?(?P<name>[\w.-]+)"?\s*[:=]`), types.ChunkConfig},
		},
	},
}

// genericSpec is the bracket/keyword fallback for unknown languages.
var genericSpec = profileSpec{
	language: "generic",
	rules: []rule{
		{regexp.MustCompile(`^(?:export\s+)?import\b`), types.ChunkImport},
		{regexp.MustCompile(`^(?:export\s+)?(?:abstract\s+)?class\s+(?P<name>[\w$]+)`), types.ChunkClass},
		{regexp.MustCompile(`^(?:export\s+)?interface\s+(?P<name>[\w$]+)`), types.ChunkInterface},
		{regexp.MustCompile(`^(?:export\s+)?(?:async\s+)?(?:function|func|def|fn|sub|proc)\s+(?P<name>[\w$]+)`), types.ChunkFunction},
		{regexp.MustCompile(`^(?:module|namespace|package)\s+(?P<name>[\w.$]+)`), types.ChunkComponent},
		{regexp.MustCompile(`^(?:const|let|var|static)\b`), types.ChunkConfig},
		{regexp.MustCompile(`^\S.*\{\s*$`), types.ChunkFunction},
	},
	depRes: []*regexp.Regexp{
		regexp.MustCompile(`import\s+["']?([\w./@-]+)`),
		regexp.MustCompile(`#include\s+[<"]([^>"]+)[>"]`),
		regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`),
	},
}

// scriptRules builds the shared JavaScript rule set; TypeScript adds
// interface, type alias, and enum declarations on top.
func scriptRules(typescript bool) []rule {
	rules := []rule{
		{regexp.MustCompile(`^\s*(?:it|test|describe)\s*\(`), types.ChunkTest},
	}
	if typescript {
		rules = append(rules,
			rule{regexp.MustCompile(`^(?:export\s+)?interface\s+(?P<name>\w+)`), types.ChunkInterface},
			rule{regexp.MustCompile(`^(?:export\s+)?type\s+(?P<name>\w+)\s*=`), types.ChunkInterface},
			rule{regexp.MustCompile(`^(?:export\s+)?(?:const\s+)?enum\s+(?P<name>\w+)`), types.ChunkConfig},
		)
	}
	return append(rules,
		// Capitalized declarations are treated as UI components, the
		// convention in JSX/TSX codebases.
		rule{regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?function\s+(?P<name>[A-Z]\w*)`), types.ChunkComponent},
		rule{regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:async\s+)?function\s*\*?\s*(?P<name>[\w$]+)`), types.ChunkFunction},
		rule{regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?class\s+(?P<name>[\w$]+)`), types.ChunkClass},
		rule{regexp.MustCompile(`^(?:export\s+)?const\s+(?P<name>[A-Z]\w*)\s*=\s*(?:async\b|\()`), types.ChunkComponent},
		rule{regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+(?P<name>[\w$]+)\s*=\s*(?:async\b|\(|function\b)`), types.ChunkFunction},
		rule{regexp.MustCompile(`^import\b`), types.ChunkImport},
		rule{regexp.MustCompile(`^(?:const|let|var)\s+.*=\s*require\(`), types.ChunkImport},
		rule{regexp.MustCompile(`^(?:module\.exports|export\s+default\s+\{)`), types.ChunkConfig},
	)
}

// scriptDepRes extracts module specifiers from ES imports, bare side
// effect imports, dynamic imports, and CommonJS requires.
var scriptDepRes = []*regexp.Regexp{
	regexp.MustCompile(`import\s+[^'"]*from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`^import\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`import\(['"]([^'"]+)['"]\)`),
	regexp.MustCompile(`require\(['"]([^'"]+)['"]\)`),
}
