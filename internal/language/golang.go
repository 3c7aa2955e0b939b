// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package language

import (
	"go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"
)

// goDependencyTargets parses a Go chunk in imports-only mode and returns
// the unquoted import paths. Chunks are fragments, so a package clause is
// prepended when missing. Any parse failure falls back to the regex
// matchers so dependency extraction never errors.
func goDependencyTargets(chunkText string, fallback []*regexp.Regexp) []string {
	src := chunkText
	if !strings.HasPrefix(strings.TrimSpace(src), "package ") {
		src = "package p\n" + src
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "chunk.go", src, parser.ImportsOnly)
	if err != nil {
		return goRegexDependencies(chunkText, fallback)
	}

	var targets []string
	seen := make(map[string]bool)
	for _, group := range astutil.Imports(fset, file) {
		for _, spec := range group {
			path, err := strconv.Unquote(spec.Path.Value)
			if err != nil || path == "" || seen[path] {
				continue
			}
			seen[path] = true
			targets = append(targets, path)
		}
	}
	return targets
}

// goRegexDependencies restricts the quoted-string fallback to lines that
// actually look like imports, so string literals elsewhere in a chunk do
// not register as dependencies.
func goRegexDependencies(chunkText string, fallback []*regexp.Regexp) []string {
	var importLines []string
	inBlock := false
	for _, line := range strings.Split(chunkText, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && trimmed == ")":
			inBlock = false
		case inBlock || strings.HasPrefix(trimmed, "import "):
			importLines = append(importLines, line)
		}
	}
	return regexDependencies(strings.Join(importLines, "\n"), fallback)
}
