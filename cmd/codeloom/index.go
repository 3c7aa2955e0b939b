// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codeloom/codeloom/internal/corpus"
	"github.com/codeloom/codeloom/pkg/types"
)

// newIndexCmd creates the "index" command.
func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the project index and print its summary",
		Long:  "Index walks the working directory (or the git HEAD tree with --git), chunks every source file, and prints the resulting index summary as JSON.",
		RunE:  runIndex,
	}

	cmd.Flags().String("tree", "", "Index a textual tree listing from this file instead of real files")
	cmd.Flags().Bool("full", false, "Print the full index instead of the summary")

	return cmd
}

// runIndex builds the index and prints it.
func runIndex(cmd *cobra.Command, args []string) error {
	a, err := newAssistant(cmd.Context())
	if err != nil {
		return err
	}

	var ix *types.ProjectIndex
	if treePath, _ := cmd.Flags().GetString("tree"); treePath != "" {
		text, err := readContentArg("@" + treePath)
		if err != nil {
			return err
		}
		files, err := corpus.FromTreeText(text)
		if err != nil {
			return fmt.Errorf("parsing tree listing: %w", err)
		}
		ix, err = a.Reindex(projectID(), files)
		if err != nil {
			return fmt.Errorf("indexing failed: %w", err)
		}
	} else {
		ix, err = indexProject(a)
		if err != nil {
			return err
		}
	}

	if full, _ := cmd.Flags().GetBool("full"); full {
		printJSON(ix)
	} else {
		printJSON(ix.Summary())
	}
	return nil
}
