// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Command codeloom indexes a project and answers context-retrieval,
// intent-classification, and merge-planning requests over it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "codeloom",
		Short: "Code indexing and context retrieval for editor assistants",
		Long:  "codeloom chunks a codebase into an in-memory index, ranks chunks against natural language queries, classifies instructions, and plans how generated code merges into existing files.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Project root directory")
	rootCmd.PersistentFlags().String("project", "local", "Project identifier for the index")
	rootCmd.PersistentFlags().Bool("git", false, "Read the corpus from the git HEAD tree instead of the working directory")
	rootCmd.PersistentFlags().String("model", "", "Bedrock model ID (empty disables generation)")
	rootCmd.PersistentFlags().String("region", "", "AWS region for Bedrock")
	rootCmd.PersistentFlags().String("profile", "", "AWS shared config profile")
	rootCmd.PersistentFlags().Bool("heuristics", false, "Score retrieval with local heuristics when no model is configured")
	rootCmd.PersistentFlags().Int("max-results", 10, "Maximum chunks returned by retrieval")
	rootCmd.PersistentFlags().Int("context-window", 0, "Lines of surrounding context per result chunk")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "Log format (json or text)")

	// Bind flags to viper.
	viper.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("git", rootCmd.PersistentFlags().Lookup("git"))
	viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	viper.BindPFlag("region", rootCmd.PersistentFlags().Lookup("region"))
	viper.BindPFlag("profile", rootCmd.PersistentFlags().Lookup("profile"))
	viper.BindPFlag("heuristics", rootCmd.PersistentFlags().Lookup("heuristics"))
	viper.BindPFlag("max-results", rootCmd.PersistentFlags().Lookup("max-results"))
	viper.BindPFlag("context-window", rootCmd.PersistentFlags().Lookup("context-window"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log-format", rootCmd.PersistentFlags().Lookup("log-format"))

	// Env vars: CODELOOM_MODEL, CODELOOM_REGION, etc.
	viper.SetEnvPrefix("CODELOOM")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".codeloom")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newAssistCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print codeloom version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codeloom %s\n", version)
		},
	}
}
