// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/internal/language"
	"github.com/codeloom/codeloom/internal/merge"
	"github.com/codeloom/codeloom/pkg/types"
)

// newPlanCmd creates the "plan" command.
func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan how generated code merges into an existing file",
		Long:  "Plan takes existing and generated content, decides where the new code lands (replace, insert, append), and prints the merged content with the operation list as JSON. Content flags accept a literal value, @path to read a file, or - for stdin.",
		RunE:  runPlan,
	}

	cmd.Flags().String("existing", "", "Existing file content (literal, @path, or -)")
	cmd.Flags().String("generated", "", "Generated content to merge (required; literal, @path, or -)")
	cmd.MarkFlagRequired("generated")
	cmd.Flags().String("file-name", "", "Target file name (required)")
	cmd.MarkFlagRequired("file-name")
	cmd.Flags().String("instruction", "", "Instruction text that produced the generated content")

	return cmd
}

// runPlan plans the merge and prints the result.
func runPlan(cmd *cobra.Command, args []string) error {
	existingArg, _ := cmd.Flags().GetString("existing")
	generatedArg, _ := cmd.Flags().GetString("generated")
	fileName, _ := cmd.Flags().GetString("file-name")
	instruction, _ := cmd.Flags().GetString("instruction")

	existing, err := readContentArg(existingArg)
	if err != nil {
		return err
	}
	generated, err := readContentArg(generatedArg)
	if err != nil {
		return err
	}

	planner := merge.NewPlanner(extract.New(language.NewRegistry()), nil)
	result, err := planner.Plan(types.MergeRequest{
		ExistingContent:  existing,
		GeneratedContent: generated,
		FileName:         fileName,
		InstructionText:  instruction,
	})
	if err != nil {
		return err
	}
	printJSON(result)
	return nil
}
