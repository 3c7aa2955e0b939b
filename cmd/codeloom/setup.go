// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/codeloom/codeloom/internal/corpus"
	"github.com/codeloom/codeloom/internal/logging"
	"github.com/codeloom/codeloom/pkg/assist"
	"github.com/codeloom/codeloom/pkg/types"
)

// newAssistant builds an Assistant from the resolved viper config.
func newAssistant(ctx context.Context) (*assist.Assistant, error) {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: viper.GetString("log-format"),
	})

	a, err := assist.New(ctx, assist.Config{
		Model:         viper.GetString("model"),
		Region:        viper.GetString("region"),
		Profile:       viper.GetString("profile"),
		Heuristics:    viper.GetBool("heuristics"),
		MaxResults:    viper.GetInt("max-results"),
		ContextWindow: viper.GetInt("context-window"),
		Log:           log,
	})
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return a, nil
}

// loadCorpus reads the project files from the working directory, or
// from the committed git HEAD tree when --git is set. Falling back
// from git to the directory walk is deliberate only in the other
// direction: an explicit --git on a non-repository is an error.
func loadCorpus() ([]types.SourceFile, error) {
	workDir := viper.GetString("workdir")
	if viper.GetBool("git") {
		return corpus.FromGitHead(workDir)
	}

	files, err := corpus.FromDirectory(workDir)
	if errors.Is(err, corpus.ErrEmptyCorpus) {
		return nil, fmt.Errorf("no indexable files under %s: %w", workDir, err)
	}
	return files, err
}

// projectID returns the configured project identifier.
func projectID() string {
	return viper.GetString("project")
}

// indexProject loads the corpus and builds (or rebuilds) the index.
func indexProject(a *assist.Assistant) (*types.ProjectIndex, error) {
	files, err := loadCorpus()
	if err != nil {
		return nil, err
	}
	ix, err := a.Reindex(projectID(), files)
	if err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}
	return ix, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling result: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// readContentArg resolves a flag that names either a literal value, a
// file path prefixed with "@", or "-" for stdin.
func readContentArg(arg string) (string, error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	case len(arg) > 1 && arg[0] == '@':
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", arg[1:], err)
		}
		return string(data), nil
	default:
		return arg, nil
	}
}
