// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/codeloom/codeloom/pkg/types"
)

// newSearchCmd creates the "search" command.
func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Rank indexed chunks against a query",
		Long:  "Search indexes the working directory, scores every chunk against the query, and prints the ranked results as JSON.",
		RunE:  runSearch,
	}

	cmd.Flags().StringP("query", "q", "", "Natural language or keyword query (required)")
	cmd.MarkFlagRequired("query")
	cmd.Flags().String("type", string(types.QueryHybrid), "Query type: semantic, syntactic, or hybrid")
	cmd.Flags().String("language", "", "Only consider chunks in this language")
	cmd.Flags().String("complexity", "", "Only consider chunks at this complexity (low, medium, high)")
	cmd.Flags().StringSlice("exclude", nil, "File paths or glob patterns to exclude")
	cmd.Flags().Bool("metadata", false, "Include search metadata in the output")

	return cmd
}

// runSearch indexes the corpus and executes the query.
func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newAssistant(cmd.Context())
	if err != nil {
		return err
	}
	if _, err := indexProject(a); err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	queryType, _ := cmd.Flags().GetString("type")
	lang, _ := cmd.Flags().GetString("language")
	complexity, _ := cmd.Flags().GetString("complexity")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	metadata, _ := cmd.Flags().GetBool("metadata")

	q := types.RetrievalQuery{
		Query:           query,
		QueryType:       types.QueryType(queryType),
		IncludeMetadata: metadata,
	}
	if lang != "" || complexity != "" || len(exclude) > 0 {
		q.Filters = &types.RetrievalFilters{
			Language:     lang,
			Complexity:   types.Complexity(complexity),
			ExcludeFiles: exclude,
		}
	}

	result, err := a.Search(cmd.Context(), projectID(), q)
	if err != nil {
		return err
	}
	printJSON(result)
	return nil
}
