// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/codeloom/codeloom/internal/index"
	"github.com/codeloom/codeloom/pkg/types"
)

// Signal weights. Fixed: ranking changes should come from better
// signals, not weight tuning per call site.
const (
	weightSemantic   = 0.4
	weightKeyword    = 0.3
	weightFunctional = 0.2
	weightQuality    = 0.1
)

const defaultMaxResults = 10

// Thresholds for naming match reasons and flagging signal disagreement.
const (
	strongSignal    = 0.5
	divergenceDelta = 0.5
)

// Engine answers retrieval queries against the store's committed
// snapshots. Read-only: an Engine never mutates an index.
type Engine struct {
	store   *index.Store
	signals SignalProvider
	log     *slog.Logger
}

// NewEngine builds an engine. With a nil provider every external
// factor defaults to the keyword overlap, so relevance reduces to
// keyword-only scoring. A nil logger discards.
func NewEngine(store *index.Store, signals SignalProvider, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{store: store, signals: signals, log: log}
}

// Retrieve ranks the project's chunks against the query. A project with
// no index yields an explicit empty result, not an error, so callers
// can uniformly render "nothing found".
func (e *Engine) Retrieve(ctx context.Context, projectID string, q types.RetrievalQuery) (*types.RetrievalResult, error) {
	if projectID == "" {
		return nil, &types.ValidationError{Field: "projectId", Message: "project id is required"}
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	maxResults := q.MaxResults
	if maxResults == 0 {
		maxResults = defaultMaxResults
	}

	ix, ok := e.store.Query(projectID)
	if !ok {
		e.log.Debug("retrieve on unindexed project", "projectId", projectID)
		result := &types.RetrievalResult{
			Chunks:      []types.ScoredChunk{},
			Suggestions: []string{"no index exists for this project; index it first"},
		}
		if q.IncludeMetadata {
			result.Metadata = e.metadata(projectID, q, 0, 0, nil)
		}
		return result, nil
	}

	candidates := filterChunks(ix.Chunks, q.Filters)

	cols, degraded := e.externalSignals(ctx, q, candidates)

	queryTokens := tokenSet(q.Query)

	scored := make([]types.ScoredChunk, 0, len(candidates))
	for i, c := range candidates {
		kw := keywordScore(queryTokens, c)
		// External factors default to the keyword overlap when the
		// provider does not supply them.
		sem, fn, quality := kw, kw, kw
		if cols.semantic != nil {
			sem = cols.semantic[i]
		}
		if cols.functional != nil {
			fn = cols.functional[i]
		}
		if cols.quality != nil {
			quality = cols.quality[i]
		}

		relevance := weightSemantic*sem + weightKeyword*kw + weightFunctional*fn + weightQuality*quality

		scored = append(scored, types.ScoredChunk{
			Chunk:          c,
			RelevanceScore: relevance,
			MatchReason:    matchReason(sem, kw, fn),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if !a.Chunk.LastModified.Equal(b.Chunk.LastModified) {
			return a.Chunk.LastModified.After(b.Chunk.LastModified)
		}
		if a.Chunk.FilePath != b.Chunk.FilePath {
			return a.Chunk.FilePath < b.Chunk.FilePath
		}
		return a.Chunk.LineRange.Start < b.Chunk.LineRange.Start
	})

	total := len(scored)
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	if q.ContextWindow > 0 {
		attachContext(scored, ix.Chunks, q.ContextWindow)
	}

	result := &types.RetrievalResult{
		Chunks:       scored,
		TotalResults: total,
		Suggestions:  e.suggestions(ix, total),
	}
	if q.IncludeMetadata {
		result.Metadata = e.metadata(projectID, q, ix.Version, len(candidates), degraded)
	}
	return result, nil
}

// signalColumns holds the externally supplied score columns. A nil
// column defaults to the keyword overlap during scoring.
type signalColumns struct {
	semantic   []float64
	functional []float64
	quality    []float64
}

// lengthsMatch reports whether every supplied column has one value per
// candidate.
func (s signalColumns) lengthsMatch(n int) bool {
	for _, col := range [][]float64{s.semantic, s.functional, s.quality} {
		if col != nil && len(col) != n {
			return false
		}
	}
	return true
}

// degradedExternals names the factors that fall back to the keyword
// overlap when the provider fails.
var degradedExternals = []string{"semantic", "functional", "quality"}

// externalSignals asks the configured provider for the external score
// columns. No provider, a syntactic query, or an empty candidate set
// returns empty columns, so every external factor takes the keyword
// value. Provider failures do the same and are reported as degraded
// signals, never an error.
func (e *Engine) externalSignals(ctx context.Context, q types.RetrievalQuery, candidates []types.CodeChunk) (signalColumns, []string) {
	if e.signals == nil || q.QueryType == types.QuerySyntactic || len(candidates) == 0 {
		return signalColumns{}, nil
	}

	sem, fn, quality, err := e.signals.Score(ctx, q.Query, candidates)
	if err != nil {
		e.log.Warn("signal provider failed, falling back to keyword overlap", "error", err)
		return signalColumns{}, degradedExternals
	}
	cols := signalColumns{semantic: sem, functional: fn, quality: quality}
	if !cols.lengthsMatch(len(candidates)) {
		e.log.Warn("signal provider returned wrong score count", "want", len(candidates))
		return signalColumns{}, degradedExternals
	}
	return cols, nil
}

// filterChunks applies the hard pre-filters.
func filterChunks(chunks []types.CodeChunk, f *types.RetrievalFilters) []types.CodeChunk {
	if f == nil {
		return chunks
	}

	var out []types.CodeChunk
	for _, c := range chunks {
		if f.Language != "" && !strings.EqualFold(f.Language, c.Language) {
			continue
		}
		if f.Complexity != "" && f.Complexity != c.Complexity {
			continue
		}
		if len(f.ChunkTypes) > 0 && !containsType(f.ChunkTypes, c.ChunkType) {
			continue
		}
		if len(f.FileTypes) > 0 && !matchesFileType(f.FileTypes, c.FilePath) {
			continue
		}
		if excluded(f.ExcludeFiles, c.FilePath) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func containsType(set []types.ChunkType, t types.ChunkType) bool {
	for _, ct := range set {
		if ct == t {
			return true
		}
	}
	return false
}

func matchesFileType(exts []string, filePath string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filePath), "."))
	for _, want := range exts {
		if strings.EqualFold(strings.TrimPrefix(want, "."), ext) {
			return true
		}
	}
	return false
}

// excluded matches exact paths and path.Match globs.
func excluded(patterns []string, filePath string) bool {
	for _, pat := range patterns {
		if pat == filePath {
			return true
		}
		if ok, err := path.Match(pat, filePath); err == nil && ok {
			return true
		}
	}
	return false
}

// matchReason names the signals that carried the hit, flagging strong
// disagreement between the semantic and keyword columns.
func matchReason(sem, kw, fn float64) string {
	var reasons []string
	if sem >= strongSignal {
		reasons = append(reasons, "semantic_match")
	}
	if kw >= strongSignal {
		reasons = append(reasons, "keyword_match")
	}
	if fn >= strongSignal {
		reasons = append(reasons, "name_match")
	}
	if len(reasons) == 0 {
		reasons = append(reasons, "weak_match")
	}
	if sem-kw >= divergenceDelta || kw-sem >= divergenceDelta {
		reasons = append(reasons, "signal_divergence")
	}
	return strings.Join(reasons, ",")
}

// attachContext adds up to window same-file neighbors to each hit,
// nearest by line range first, with the selection ordered by starting
// line. The hit itself is excluded.
func attachContext(scored []types.ScoredChunk, all []types.CodeChunk, window int) {
	byFile := make(map[string][]types.CodeChunk)
	for _, c := range all {
		byFile[c.FilePath] = append(byFile[c.FilePath], c)
	}
	for f := range byFile {
		sort.Slice(byFile[f], func(i, j int) bool {
			return byFile[f][i].LineRange.Start < byFile[f][j].LineRange.Start
		})
	}

	for i := range scored {
		hit := scored[i].Chunk
		var neighbors []types.CodeChunk
		for _, c := range byFile[hit.FilePath] {
			if c.ID != hit.ID {
				neighbors = append(neighbors, c)
			}
		}
		// Stable on a start-ordered slice, so equal distances keep the
		// earlier chunk first.
		sort.SliceStable(neighbors, func(a, b int) bool {
			return lineDistance(hit, neighbors[a]) < lineDistance(hit, neighbors[b])
		})
		if len(neighbors) > window {
			neighbors = neighbors[:window]
		}
		sort.Slice(neighbors, func(a, b int) bool {
			return neighbors[a].LineRange.Start < neighbors[b].LineRange.Start
		})
		scored[i].ContextChunks = neighbors
	}
}

// lineDistance is the gap in lines between two non-overlapping ranges,
// zero when they touch or overlap.
func lineDistance(hit, c types.CodeChunk) int {
	switch {
	case c.LineRange.Start > hit.LineRange.End:
		return c.LineRange.Start - hit.LineRange.End
	case hit.LineRange.Start > c.LineRange.End:
		return hit.LineRange.Start - c.LineRange.End
	default:
		return 0
	}
}

// suggestions offers follow-up directions when results are thin,
// grounded in the index's clusters and most central files.
func (e *Engine) suggestions(ix *types.ProjectIndex, total int) []string {
	if total > 0 {
		return []string{}
	}

	var out []string
	for i, cluster := range ix.SemanticClusters {
		if i == 3 {
			break
		}
		out = append(out, fmt.Sprintf("try searching for %q (%d related chunks)", cluster.Theme, len(cluster.ChunkIDs)))
	}
	if ranked := index.RankFiles(ix.DependencyGraph); len(ranked) > 0 {
		out = append(out, "browse the most depended-on file: "+ranked[0])
	}
	if len(out) == 0 {
		out = append(out, "no matches; try broader terms")
	}
	return out
}

func (e *Engine) metadata(projectID string, q types.RetrievalQuery, version, candidates int, degraded []string) *types.SearchMetadata {
	return &types.SearchMetadata{
		QueryID:         uuid.NewString(),
		ProjectID:       projectID,
		QueryType:       q.QueryType,
		IndexVersion:    version,
		CandidateCount:  candidates,
		DegradedSignals: degraded,
	}
}
