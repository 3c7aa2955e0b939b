// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package corpus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/codeloom/codeloom/pkg/types"
)

// ErrNoGit is returned when the directory is not a git repository.
var ErrNoGit = errors.New("not a git repository")

// FromGitHead reads the committed file set at HEAD of the repository at
// workDir. Uncommitted changes are deliberately invisible: indexing the
// committed tree gives a stable corpus that two machines on the same
// commit agree on.
func FromGitHead(workDir string) ([]types.SourceFile, error) {
	repo, err := gogit.PlainOpen(workDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("getting HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree: %w", err)
	}

	var files []types.SourceFile
	err = tree.Files().ForEach(func(f *object.File) error {
		if skippedPath(f.Name) || f.Size > maxFileSize {
			return nil
		}
		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}
		if !utf8.ValidString(content) {
			return nil
		}
		files = append(files, types.SourceFile{Path: f.Name, Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: HEAD tree of %s", ErrEmptyCorpus, workDir)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// skippedPath reports whether any segment of a repo-relative path is a
// skipped directory or hidden entry.
func skippedPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if skipDirs[seg] || strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}
