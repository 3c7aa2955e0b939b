// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package index

import (
	"path"
	"sort"
	"strings"

	"github.com/codeloom/codeloom/pkg/types"
)

// resolveExts are the extension candidates tried when an import target
// omits the file extension, as module specifiers usually do.
var resolveExts = []string{".go", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".py", ".rs", ".rb", ".java"}

// BuildDependencyGraph resolves every chunk's import targets against the
// indexed file paths and returns, for each file, the sorted list of
// files that depend on it. Targets pointing outside the project
// (standard libraries, published packages) resolve to nothing and are
// dropped.
func BuildDependencyGraph(chunks []types.CodeChunk) map[string][]string {
	res := newResolver(chunks)

	dependents := make(map[string]map[string]bool)
	for _, c := range chunks {
		for _, target := range c.Dependencies {
			resolved, ok := res.resolve(c.FilePath, target)
			if !ok || resolved == c.FilePath {
				continue
			}
			if dependents[resolved] == nil {
				dependents[resolved] = make(map[string]bool)
			}
			dependents[resolved][c.FilePath] = true
		}
	}

	graph := make(map[string][]string, len(dependents))
	for filePath, deps := range dependents {
		sorted := make([]string, 0, len(deps))
		for dep := range deps {
			sorted = append(sorted, dep)
		}
		sort.Strings(sorted)
		graph[filePath] = sorted
	}
	return graph
}

// resolver matches import targets to project file paths.
type resolver struct {
	paths map[string]bool
	// bySuffix maps path fragments without extension ("pkg/util") to the
	// file paths ending in them. Ambiguous fragments map to nothing.
	bySuffix map[string]string
	// dirSuffix maps trailing directory fragments ("internal/store") to
	// the directory's first file in path order, so package-style imports
	// resolve to a representative file.
	dirSuffix map[string]string
}

func newResolver(chunks []types.CodeChunk) *resolver {
	r := &resolver{
		paths:     make(map[string]bool),
		bySuffix:  make(map[string]string),
		dirSuffix: make(map[string]string),
	}

	dirFiles := make(map[string][]string)
	seen := make(map[string]bool)
	for _, c := range chunks {
		if seen[c.FilePath] {
			continue
		}
		seen[c.FilePath] = true
		r.paths[c.FilePath] = true
		dirFiles[path.Dir(c.FilePath)] = append(dirFiles[path.Dir(c.FilePath)], c.FilePath)

		stem := strings.TrimSuffix(c.FilePath, path.Ext(c.FilePath))
		parts := strings.Split(stem, "/")
		for i := range parts {
			suffix := strings.Join(parts[i:], "/")
			if prev, ok := r.bySuffix[suffix]; ok && prev != c.FilePath {
				r.bySuffix[suffix] = "" // ambiguous
				continue
			}
			r.bySuffix[suffix] = c.FilePath
		}
	}

	for dir, files := range dirFiles {
		if dir == "." || dir == "/" {
			continue
		}
		sort.Strings(files)
		parts := strings.Split(dir, "/")
		for i := range parts {
			suffix := strings.Join(parts[i:], "/")
			if prev, ok := r.dirSuffix[suffix]; ok && prev != files[0] {
				r.dirSuffix[suffix] = "" // ambiguous
				continue
			}
			r.dirSuffix[suffix] = files[0]
		}
	}
	return r
}

// resolve maps an import target from a file to a project path. Relative
// targets resolve against the importing file's directory; bare targets
// resolve by unique path suffix, including package-style targets whose
// leading segments name a module root outside the project.
func (r *resolver) resolve(fromPath, target string) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false
	}

	if strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") {
		joined := path.Join(path.Dir(fromPath), target)
		return r.lookup(joined)
	}

	if p, ok := r.lookup(target); ok {
		return p, ok
	}

	// Dotted Python modules normalize to slash-separated fragments.
	normalized := strings.ReplaceAll(target, ".", "/")
	for _, candidate := range []string{target, normalized} {
		parts := strings.Split(candidate, "/")
		for i := range parts {
			fragment := strings.Join(parts[i:], "/")
			if resolved, ok := r.bySuffix[fragment]; ok && resolved != "" {
				return resolved, true
			}
			if resolved, ok := r.dirSuffix[fragment]; ok && resolved != "" {
				return resolved, true
			}
		}
	}
	return "", false
}

// lookup tries the candidate as an exact path, then with each known
// extension, then as a directory index module.
func (r *resolver) lookup(candidate string) (string, bool) {
	if r.paths[candidate] {
		return candidate, true
	}
	for _, ext := range resolveExts {
		if r.paths[candidate+ext] {
			return candidate + ext, true
		}
	}
	for _, base := range []string{"/index", "/__init__"} {
		for _, ext := range resolveExts {
			if r.paths[candidate+base+ext] {
				return candidate + base + ext, true
			}
		}
	}
	return "", false
}

// centrality constants follow the usual damped random-surfer setup.
const (
	centralityDamping    = 0.85
	centralityIterations = 30
)

// Centrality scores every file in the dependency graph by damped
// iteration: files imported by many central files score high. Scores
// sum to roughly 1 across the project; files absent from the graph get
// the base teleport mass.
func Centrality(graph map[string][]string) map[string]float64 {
	// Collect every node and invert to outgoing edges (importer -> imported).
	nodes := make(map[string]bool)
	outgoing := make(map[string][]string)
	for imported, importers := range graph {
		nodes[imported] = true
		for _, importer := range importers {
			nodes[importer] = true
			outgoing[importer] = append(outgoing[importer], imported)
		}
	}
	n := len(nodes)
	if n == 0 {
		return map[string]float64{}
	}

	ranks := make(map[string]float64, n)
	for node := range nodes {
		ranks[node] = 1.0 / float64(n)
	}

	for i := 0; i < centralityIterations; i++ {
		next := make(map[string]float64, n)
		base := (1 - centralityDamping) / float64(n)
		for node := range nodes {
			next[node] = base
		}

		for node, rank := range ranks {
			outs := outgoing[node]
			if len(outs) == 0 {
				// Dangling mass spreads uniformly.
				share := centralityDamping * rank / float64(n)
				for other := range nodes {
					next[other] += share
				}
				continue
			}
			share := centralityDamping * rank / float64(len(outs))
			for _, out := range outs {
				next[out] += share
			}
		}
		ranks = next
	}
	return ranks
}

// RankFiles returns the graph's files ordered by descending centrality,
// ties broken by path.
func RankFiles(graph map[string][]string) []string {
	ranks := Centrality(graph)
	files := make([]string, 0, len(ranks))
	for f := range ranks {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		if ranks[files[i]] != ranks[files[j]] {
			return ranks[files[i]] > ranks[files[j]]
		}
		return files[i] < files[j]
	})
	return files
}
