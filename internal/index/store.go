// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

// Package index maintains the per-project chunk indexes. The store is
// the only shared mutable state in codeloom: writes for one project are
// serialized, reads return the last committed snapshot without blocking
// on in-flight writes.
package index

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/pkg/types"
)

// ErrIndexNotFound is returned when an operation targets a project that
// was never indexed. Retrieval turns it into an explicit empty result.
var ErrIndexNotFound = errors.New("project index not found")

// ErrIndexExists is returned by Create when the project already has an
// index; callers wanting replacement use Refresh.
var ErrIndexExists = errors.New("project index already exists")

// project pairs the per-project writer lock with the atomically
// swapped committed snapshot.
type project struct {
	writeMu  sync.Mutex
	snapshot atomic.Pointer[types.ProjectIndex]
}

// Store owns every project index. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	projects  map[string]*project
	extractor *extract.Extractor
}

// NewStore creates an empty store building chunks with the given
// extractor.
func NewStore(extractor *extract.Extractor) *Store {
	return &Store{
		projects:  make(map[string]*project),
		extractor: extractor,
	}
}

// Create builds the first index for a project from the file corpus.
// Returns ErrIndexExists when the project is already indexed.
func (s *Store) Create(projectID string, files []types.SourceFile) (*types.ProjectIndex, error) {
	if err := validateCorpus(projectID, files); err != nil {
		return nil, err
	}

	p := s.project(projectID)
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	if p.snapshot.Load() != nil {
		return nil, fmt.Errorf("%w: %s", ErrIndexExists, projectID)
	}

	ix := s.build(projectID, files, 1)
	p.snapshot.Store(ix)
	return ix, nil
}

// Refresh replaces a project's index wholesale, incrementing the
// version. A project with no index yet is created at version 1.
func (s *Store) Refresh(projectID string, files []types.SourceFile) (*types.ProjectIndex, error) {
	if err := validateCorpus(projectID, files); err != nil {
		return nil, err
	}

	p := s.project(projectID)
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	version := 1
	if prev := p.snapshot.Load(); prev != nil {
		version = prev.Version + 1
	}

	ix := s.build(projectID, files, version)
	p.snapshot.Store(ix)
	return ix, nil
}

// Update replaces the chunks of the changed files only, appends chunks
// for files not seen before, and leaves every other file's chunks
// untouched. The update commits atomically: readers see either the old
// snapshot or the fully rebuilt one.
func (s *Store) Update(projectID string, changed []types.SourceFile) (*types.ProjectIndex, error) {
	if err := validateCorpus(projectID, changed); err != nil {
		return nil, err
	}

	p := s.project(projectID)
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	prev := p.snapshot.Load()
	if prev == nil {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, projectID)
	}

	changedPaths := make(map[string]bool, len(changed))
	for _, f := range changed {
		changedPaths[f.Path] = true
	}

	// Carry over untouched files as-is, then re-extract the changed set.
	retained := make(map[string][]types.CodeChunk)
	for _, c := range prev.Chunks {
		if !changedPaths[c.FilePath] {
			retained[c.FilePath] = append(retained[c.FilePath], c)
		}
	}

	byFile, diags := s.extractAll(changed)
	for path, chunks := range retained {
		byFile[path] = chunks
	}

	ix := s.assemble(projectID, byFile, diags, prev.Version+1)
	p.snapshot.Store(ix)
	return ix, nil
}

// Query returns the last committed snapshot for a project, or false when
// the project has no index.
func (s *Store) Query(projectID string) (*types.ProjectIndex, bool) {
	s.mu.RLock()
	p, ok := s.projects[projectID]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	ix := p.snapshot.Load()
	if ix == nil {
		return nil, false
	}
	return ix, true
}

// project returns the entry for projectID, creating it when absent.
func (s *Store) project(projectID string) *project {
	s.mu.RLock()
	p, ok := s.projects[projectID]
	s.mu.RUnlock()
	if ok {
		return p
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.projects[projectID]; ok {
		return p
	}
	p = &project{}
	s.projects[projectID] = p
	return p
}

// build extracts the whole corpus and assembles a fresh index.
func (s *Store) build(projectID string, files []types.SourceFile, version int) *types.ProjectIndex {
	byFile, diags := s.extractAll(files)
	return s.assemble(projectID, byFile, diags, version)
}

// extractAll runs extraction file by file. A file that fails is omitted
// and recorded as a diagnostic; the build never aborts because one file
// failed.
func (s *Store) extractAll(files []types.SourceFile) (map[string][]types.CodeChunk, []types.IndexDiagnostic) {
	byFile := make(map[string][]types.CodeChunk, len(files))
	var diags []types.IndexDiagnostic

	for _, f := range files {
		chunks, err := s.extractFile(f)
		if err != nil {
			diags = append(diags, types.IndexDiagnostic{FilePath: f.Path, Message: err.Error()})
			continue
		}
		byFile[f.Path] = chunks
	}
	return byFile, diags
}

// extractFile isolates a single file's extraction, converting panics
// from malformed profiles or pathological input into errors.
func (s *Store) extractFile(f types.SourceFile) (chunks []types.CodeChunk, err error) {
	defer func() {
		if r := recover(); r != nil {
			chunks = nil
			err = fmt.Errorf("extraction panic: %v", r)
		}
	}()

	lang := s.extractor.Registry.DetectLanguage(f.Path)
	return s.extractor.Extract(f.Content, f.Path, lang), nil
}

// assemble sorts chunks deterministically and derives the structural
// views committed with the snapshot.
func (s *Store) assemble(projectID string, byFile map[string][]types.CodeChunk, diags []types.IndexDiagnostic, version int) *types.ProjectIndex {
	paths := make([]string, 0, len(byFile))
	for path := range byFile {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var chunks []types.CodeChunk
	for _, path := range paths {
		chunks = append(chunks, byFile[path]...)
	}

	sort.SliceStable(diags, func(i, j int) bool { return diags[i].FilePath < diags[j].FilePath })

	return &types.ProjectIndex{
		ProjectID:        projectID,
		Chunks:           chunks,
		FileStructure:    BuildFileStructure(chunks),
		DependencyGraph:  BuildDependencyGraph(chunks),
		SemanticClusters: BuildClusters(chunks),
		CreatedAt:        time.Now().UTC(),
		Version:          version,
		BuildID:          uuid.NewString(),
		Diagnostics:      diags,
	}
}

// validateCorpus rejects malformed top-level input before any
// processing.
func validateCorpus(projectID string, files []types.SourceFile) error {
	if projectID == "" {
		return &types.ValidationError{Field: "projectId", Message: "project id is required"}
	}
	seen := make(map[string]bool, len(files))
	for i, f := range files {
		if f.Path == "" {
			return &types.ValidationError{
				Field:   fmt.Sprintf("files[%d].path", i),
				Message: "file path is required",
			}
		}
		if seen[f.Path] {
			return &types.ValidationError{
				Field:   fmt.Sprintf("files[%d].path", i),
				Message: "duplicate file path " + f.Path,
			}
		}
		seen[f.Path] = true
	}
	return nil
}
