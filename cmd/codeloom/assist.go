// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/codeloom/codeloom/pkg/assist"
)

// newAssistCmd creates the "assist" command.
func newAssistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assist",
		Short: "Run the full assist flow for one instruction",
		Long:  "Assist classifies the instruction, indexes the working directory, retrieves relevant chunks, and plans a merge when generated content is supplied. The combined result is printed as JSON.",
		RunE:  runAssist,
	}

	cmd.Flags().StringP("prompt", "p", "", "Instruction text (required)")
	cmd.MarkFlagRequired("prompt")
	cmd.Flags().String("existing", "", "Existing file content for merge planning (literal, @path, or -)")
	cmd.Flags().String("generated", "", "Generated content to merge (literal, @path, or -)")
	cmd.Flags().String("file-name", "", "Target file name for merge planning")
	cmd.Flags().Bool("enrich", false, "Rewrite top result summaries via the generation backend")

	return cmd
}

// runAssist executes the assist flow.
func runAssist(cmd *cobra.Command, args []string) error {
	prompt, _ := cmd.Flags().GetString("prompt")
	existingArg, _ := cmd.Flags().GetString("existing")
	generatedArg, _ := cmd.Flags().GetString("generated")
	fileName, _ := cmd.Flags().GetString("file-name")
	enrich, _ := cmd.Flags().GetBool("enrich")

	existing, err := readContentArg(existingArg)
	if err != nil {
		return err
	}
	generated, err := readContentArg(generatedArg)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a, err := newAssistant(ctx)
	if err != nil {
		return err
	}
	if _, err := indexProject(a); err != nil {
		return err
	}

	resp, err := a.Assist(ctx, assist.Request{
		ProjectID:        projectID(),
		Instruction:      prompt,
		ExistingContent:  existing,
		GeneratedContent: generated,
		FileName:         fileName,
		EnrichSummaries:  enrich,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	printJSON(resp)
	return nil
}
