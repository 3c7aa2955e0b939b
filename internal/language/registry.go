// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package language holds the profile registry: per-language chunking
// rules expressed as data, not behavior hierarchies. A profile is a table
// entry of independent matcher functions, so adding a language never
// touches existing entries.
package language

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/codeloom/codeloom/pkg/types"
)

// Profile exposes the four pure functions the chunk extractor needs.
// All functions are deterministic over their inputs.
type Profile struct {
	Language string

	// IsChunkBoundary reports whether a line opens a new chunk.
	IsChunkBoundary func(line string) bool
	// ChunkTypeOf classifies the chunk opened by a boundary line.
	ChunkTypeOf func(line string) types.ChunkType
	// ExtractName pulls the declared name from a boundary line, if any.
	ExtractName func(line string) (string, bool)
	// DependencyTargets scans a whole chunk for import targets.
	DependencyTargets func(chunkText string) []string
}

// rule pairs a boundary pattern with the chunk type it opens. The first
// matching rule wins; patterns with a `name` capture group feed
// ExtractName.
type rule struct {
	re    *regexp.Regexp
	ctype types.ChunkType
}

// profileSpec is the data an entry in the builtin table is built from.
type profileSpec struct {
	language   string
	extensions []string
	rules      []rule
	depRes     []*regexp.Regexp // Capture group 1 is the import target
	// depFn overrides regex dependency extraction when set (Go uses the
	// real parser with the regexes as fallback).
	depFn func(chunkText string, fallback []*regexp.Regexp) []string
}

// Registry maps language ids to profiles and file extensions to
// language ids. Unknown languages resolve to the generic profile.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
	exts     map[string]string
	generic  Profile
}

// NewRegistry returns a registry populated with the builtin profiles.
func NewRegistry() *Registry {
	r := &Registry{
		profiles: make(map[string]Profile),
		exts:     make(map[string]string),
		generic:  buildProfile(genericSpec),
	}
	for _, spec := range builtinSpecs {
		r.register(spec)
	}
	return r
}

func (r *Registry) register(spec profileSpec) {
	p := buildProfile(spec)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[spec.language] = p
	for _, ext := range spec.extensions {
		r.exts[ext] = spec.language
	}
}

// Lookup returns the profile for a language id, falling back to the
// generic bracket/keyword profile for unknown languages.
func (r *Registry) Lookup(language string) Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.profiles[strings.ToLower(language)]; ok {
		return p
	}
	return r.generic
}

// DetectLanguage maps a file path to a language id by extension.
// Unrecognized extensions return the extension itself (or "plaintext"
// when there is none) so callers still get a stable id.
func (r *Registry) DetectLanguage(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "plaintext"
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if lang, ok := r.exts[ext]; ok {
		return lang
	}
	return ext
}

// Languages returns the ids of all registered profiles.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.profiles))
	for lang := range r.profiles {
		out = append(out, lang)
	}
	return out
}

// buildProfile closes a profileSpec's rule table into the four matcher
// functions.
func buildProfile(spec profileSpec) Profile {
	rules := spec.rules
	depRes := spec.depRes
	depFn := spec.depFn

	return Profile{
		Language: spec.language,
		IsChunkBoundary: func(line string) bool {
			for _, ru := range rules {
				if ru.re.MatchString(line) {
					return true
				}
			}
			return false
		},
		ChunkTypeOf: func(line string) types.ChunkType {
			for _, ru := range rules {
				if ru.re.MatchString(line) {
					return ru.ctype
				}
			}
			return types.ChunkFunction
		},
		ExtractName: func(line string) (string, bool) {
			for _, ru := range rules {
				m := ru.re.FindStringSubmatch(line)
				if m == nil {
					continue
				}
				for i, group := range ru.re.SubexpNames() {
					if group == "name" && i < len(m) && m[i] != "" {
						return m[i], true
					}
				}
				return "", false
			}
			return "", false
		},
		DependencyTargets: func(chunkText string) []string {
			if depFn != nil {
				return depFn(chunkText, depRes)
			}
			return regexDependencies(chunkText, depRes)
		},
	}
}

// regexDependencies collects distinct capture-group matches line by line,
// preserving first-seen order.
func regexDependencies(chunkText string, depRes []*regexp.Regexp) []string {
	var targets []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(chunkText, "\n") {
		for _, re := range depRes {
			for _, m := range re.FindAllStringSubmatch(line, -1) {
				if len(m) > 1 && m[1] != "" && !seen[m[1]] {
					seen[m[1]] = true
					targets = append(targets, m[1])
				}
			}
		}
	}
	return targets
}
