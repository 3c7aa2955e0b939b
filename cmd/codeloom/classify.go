// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/codeloom/codeloom/internal/intent"
	"github.com/codeloom/codeloom/pkg/types"
)

// newClassifyCmd creates the "classify" command.
func newClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify an instruction into an intent",
		Long:  "Classify routes a natural language instruction to its intent and prints the classification, confidence, and routing decision as JSON.",
		RunE:  runClassify,
	}

	cmd.Flags().StringP("prompt", "p", "", "Instruction text (required)")
	cmd.MarkFlagRequired("prompt")
	cmd.Flags().String("current-file", "", "Name of the file currently open in the editor")
	cmd.Flags().Bool("has-file-content", false, "Whether file content accompanies the instruction")
	cmd.Flags().Bool("has-attachments", false, "Whether the instruction carries attachments")

	return cmd
}

// runClassify classifies the prompt. No index is needed; the
// classifier is deterministic over the instruction and editor flags.
func runClassify(cmd *cobra.Command, args []string) error {
	prompt, _ := cmd.Flags().GetString("prompt")
	currentFile, _ := cmd.Flags().GetString("current-file")
	hasContent, _ := cmd.Flags().GetBool("has-file-content")
	hasAttachments, _ := cmd.Flags().GetBool("has-attachments")

	classification := intent.NewClassifier().Classify(prompt, types.ContextFlags{
		CurrentFileName: currentFile,
		HasFileContent:  hasContent,
		HasAttachments:  hasAttachments,
	})
	printJSON(classification)
	return nil
}
