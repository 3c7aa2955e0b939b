// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package index

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/internal/language"
	"github.com/codeloom/codeloom/pkg/types"
)

func newTestStore() *Store {
	e := extract.New(language.NewRegistry())
	e.Now = func() time.Time {
		return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	}
	return NewStore(e)
}

func sampleCorpus() []types.SourceFile {
	return []types.SourceFile{
		{Path: "src/util.js", Content: "export function add(a, b) {\n  return a + b\n}\nexport function sub(a, b) {\n  return a - b\n}"},
		{Path: "src/app.js", Content: "import { add } from './util'\n\nfunction main() {\n  return add(1, 2)\n}"},
	}
}

func TestStoreCreate(t *testing.T) {
	s := newTestStore()

	ix, err := s.Create("proj-1", sampleCorpus())
	require.NoError(t, err)

	assert.Equal(t, "proj-1", ix.ProjectID)
	assert.Equal(t, 1, ix.Version)
	assert.NotEmpty(t, ix.BuildID)
	assert.Len(t, ix.Chunks, 4)

	// Chunks are grouped by file in path order.
	assert.Equal(t, "src/app.js", ix.Chunks[0].FilePath)
	assert.Equal(t, "src/util.js", ix.Chunks[2].FilePath)

	// app.js imports util.js, so util.js lists app.js as a dependent.
	assert.Equal(t, []string{"src/app.js"}, ix.DependencyGraph["src/util.js"])

	_, err = s.Create("proj-1", sampleCorpus())
	assert.ErrorIs(t, err, ErrIndexExists)
}

func TestStoreCreateValidation(t *testing.T) {
	s := newTestStore()

	tests := []struct {
		name      string
		projectID string
		files     []types.SourceFile
		wantField string
	}{
		{"missing project id", "", sampleCorpus(), "projectId"},
		{"empty path", "p", []types.SourceFile{{Path: ""}}, "files[0].path"},
		{
			"duplicate path", "p",
			[]types.SourceFile{{Path: "a.go"}, {Path: "a.go"}},
			"files[1].path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(tt.projectID, tt.files)
			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestStoreRefreshIncrementsVersion(t *testing.T) {
	s := newTestStore()

	_, err := s.Create("proj-1", sampleCorpus())
	require.NoError(t, err)

	ix, err := s.Refresh("proj-1", sampleCorpus()[:1])
	require.NoError(t, err)
	assert.Equal(t, 2, ix.Version)
	assert.Len(t, ix.Chunks, 2)

	// Refresh on an unindexed project creates it at version 1.
	fresh, err := s.Refresh("proj-2", sampleCorpus())
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.Version)
}

func TestStoreUpdateReplacesChangedFilesOnly(t *testing.T) {
	s := newTestStore()

	_, err := s.Create("proj-1", sampleCorpus())
	require.NoError(t, err)

	ix, err := s.Update("proj-1", []types.SourceFile{
		{Path: "src/util.js", Content: "export function mul(a, b) {\n  return a * b\n}"},
		{Path: "src/extra.js", Content: "export function extra() {}"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, ix.Version)

	byFile := make(map[string][]string)
	for _, c := range ix.Chunks {
		byFile[c.FilePath] = append(byFile[c.FilePath], c.FunctionName)
	}
	assert.Equal(t, []string{"mul"}, byFile["src/util.js"])
	assert.Equal(t, []string{"extra"}, byFile["src/extra.js"])
	assert.Len(t, byFile["src/app.js"], 2, "untouched file keeps its chunks")
}

func TestStoreUpdateUnknownProject(t *testing.T) {
	s := newTestStore()

	_, err := s.Update("nope", sampleCorpus())
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestStoreQuery(t *testing.T) {
	s := newTestStore()

	_, ok := s.Query("proj-1")
	assert.False(t, ok)

	created, err := s.Create("proj-1", sampleCorpus())
	require.NoError(t, err)

	got, ok := s.Query("proj-1")
	require.True(t, ok)
	assert.Equal(t, created.BuildID, got.BuildID)
}

func TestStoreConcurrentWritersAndReaders(t *testing.T) {
	s := newTestStore()
	_, err := s.Create("proj-1", sampleCorpus())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				_, err := s.Update("proj-1", []types.SourceFile{{
					Path:    fmt.Sprintf("src/w%d.js", w),
					Content: fmt.Sprintf("export function w%d_%d() {}", w, i),
				}})
				assert.NoError(t, err)
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				ix, ok := s.Query("proj-1")
				if assert.True(t, ok) {
					// Snapshots are always internally complete.
					assert.Equal(t, "proj-1", ix.ProjectID)
					assert.NotEmpty(t, ix.BuildID)
				}
			}
		}()
	}
	wg.Wait()

	ix, ok := s.Query("proj-1")
	require.True(t, ok)
	assert.Equal(t, 41, ix.Version, "40 updates after the initial build")
}
