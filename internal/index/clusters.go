// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package index

import (
	"sort"

	"github.com/codeloom/codeloom/pkg/types"
)

// minClusterSize filters out singleton groupings that would add noise
// rather than structure.
const minClusterSize = 2

// BuildClusters groups chunks by their dominant keyword: each chunk
// joins the cluster of its corpus-wide most frequent keyword. The
// result is deterministic for a given chunk list: clusters are ordered
// by size descending, then by theme.
func BuildClusters(chunks []types.CodeChunk) []types.SemanticCluster {
	freq := make(map[string]int)
	for _, c := range chunks {
		for _, kw := range c.Keywords {
			freq[kw]++
		}
	}

	members := make(map[string][]string)
	sharedKw := make(map[string]map[string]int)
	for _, c := range chunks {
		theme, ok := dominantKeyword(c.Keywords, freq)
		if !ok {
			continue
		}
		members[theme] = append(members[theme], c.ID)
		if sharedKw[theme] == nil {
			sharedKw[theme] = make(map[string]int)
		}
		for _, kw := range c.Keywords {
			sharedKw[theme][kw]++
		}
	}

	var clusters []types.SemanticCluster
	for theme, ids := range members {
		if len(ids) < minClusterSize {
			continue
		}
		clusters = append(clusters, types.SemanticCluster{
			ClusterID: "cluster-" + theme,
			Theme:     theme,
			ChunkIDs:  ids,
			Keywords:  topKeywords(sharedKw[theme], len(ids)),
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if len(clusters[i].ChunkIDs) != len(clusters[j].ChunkIDs) {
			return len(clusters[i].ChunkIDs) > len(clusters[j].ChunkIDs)
		}
		return clusters[i].Theme < clusters[j].Theme
	})
	return clusters
}

// dominantKeyword picks the chunk keyword with the highest corpus-wide
// frequency, ties broken lexicographically.
func dominantKeyword(keywords []string, freq map[string]int) (string, bool) {
	best := ""
	bestFreq := 0
	for _, kw := range keywords {
		f := freq[kw]
		if f > bestFreq || (f == bestFreq && (best == "" || kw < best)) {
			best = kw
			bestFreq = f
		}
	}
	return best, best != ""
}

// topKeywords returns up to five keywords shared by at least half the
// cluster members, most shared first.
func topKeywords(counts map[string]int, size int) []string {
	type kwCount struct {
		kw string
		n  int
	}
	var shared []kwCount
	for kw, n := range counts {
		if n*2 >= size {
			shared = append(shared, kwCount{kw, n})
		}
	}
	sort.Slice(shared, func(i, j int) bool {
		if shared[i].n != shared[j].n {
			return shared[i].n > shared[j].n
		}
		return shared[i].kw < shared[j].kw
	})
	if len(shared) > 5 {
		shared = shared[:5]
	}
	out := make([]string, len(shared))
	for i, s := range shared {
		out[i] = s.kw
	}
	return out
}
