// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package corpus collects {path, content} file sets for indexing. It
// reads from explicit pairs, a directory walk, a git HEAD tree, or a
// textual project-tree listing. All readers are read-only: nothing in
// codeloom ever writes to a workspace.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/codeloom/codeloom/pkg/types"
)

// maxFileSize caps what the walker will load; larger files are skipped
// as generated artifacts or binaries.
const maxFileSize = 1 << 20

// skipDirs are directory names never descended into.
var skipDirs = map[string]bool{
	".git": true, "vendor": true, "node_modules": true,
	".idea": true, ".vscode": true, "dist": true, "build": true,
}

// ErrEmptyCorpus is returned when a source yields no files at all.
var ErrEmptyCorpus = errors.New("corpus contains no files")

// FromPairs validates an explicit {path, content} list.
func FromPairs(files []types.SourceFile) ([]types.SourceFile, error) {
	if len(files) == 0 {
		return nil, ErrEmptyCorpus
	}
	for i, f := range files {
		if f.Path == "" {
			return nil, &types.ValidationError{
				Field:   fmt.Sprintf("files[%d].path", i),
				Message: "file path is required",
			}
		}
	}
	return files, nil
}

// FromDirectory walks root and loads every regular text file, skipping
// VCS metadata, dependency trees, build output, hidden files, and
// anything over the size cap. Paths in the result are relative to root
// with forward slashes.
func FromDirectory(root string) ([]types.SourceFile, error) {
	var files []types.SourceFile

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		base := filepath.Base(path)
		if info.IsDir() {
			if path != root && (skipDirs[base] || strings.HasPrefix(base, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") || info.Size() > maxFileSize || !info.Mode().IsRegular() {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if !utf8.Valid(data) {
			return nil // Binary
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, types.SourceFile{
			Path:    filepath.ToSlash(rel),
			Content: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCorpus, root)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// FromFS is FromDirectory over an fs.FS, which the tests use with
// fstest.MapFS.
func FromFS(fsys fs.FS) ([]types.SourceFile, error) {
	var files []types.SourceFile

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		base := filepath.Base(path)
		if d.IsDir() {
			if path != "." && (skipDirs[base] || strings.HasPrefix(base, ".")) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(base, ".") {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return err
		}
		if len(data) > maxFileSize || !utf8.Valid(data) {
			return nil
		}
		files = append(files, types.SourceFile{Path: path, Content: string(data)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrEmptyCorpus
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
