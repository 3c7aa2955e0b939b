// Copyright (c) 2026 Codeloom Authors. All rights reserved.
// SPDX-License-Identifier: MIT

package corpus

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/pkg/types"
)

func TestFromPairs(t *testing.T) {
	files, err := FromPairs([]types.SourceFile{{Path: "a.go", Content: "package a"}})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	_, err = FromPairs(nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	_, err = FromPairs([]types.SourceFile{{Content: "nameless"}})
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"src/app.go":               {Data: []byte("package app")},
		"src/util.go":              {Data: []byte("package app")},
		"node_modules/x/index.js":  {Data: []byte("module.exports = 1")},
		".git/config":              {Data: []byte("[core]")},
		"assets/logo.bin":          {Data: []byte{0xff, 0xfe, 0x00, 0x01}},
		"vendor/dep/dep.go":        {Data: []byte("package dep")},
		"docs/guide.md":            {Data: []byte("# Guide")},
		"src/.hidden":              {Data: []byte("secret")},
	}

	files, err := FromFS(fsys)
	require.NoError(t, err)

	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{"docs/guide.md", "src/app.go", "src/util.go"}, paths)
}

func TestFromDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "x"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.go"), []byte("package main"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "x", "i.js"), []byte("x"), 0o644))

	files, err := FromDirectory(root)
	require.NoError(t, err)

	require.Len(t, files, 1)
	assert.Equal(t, "src/main.go", files[0].Path)
	assert.Equal(t, "package main", files[0].Content)
}

func TestFromDirectoryEmpty(t *testing.T) {
	_, err := FromDirectory(t.TempDir())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestFromTreeText(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "tree glyphs",
			text: "src/\n├── app.ts\n├── lib/\n│   ├── util.ts\n│   └── io.ts\n└── main.ts\n",
			want: []string{"src/app.ts", "src/lib/util.ts", "src/lib/io.ts", "src/main.ts"},
		},
		{
			name: "indented listing",
			text: "src/\n  app.py\n  helpers/\n    text.py\nREADME.md\n",
			want: []string{"src/app.py", "src/helpers/text.py", "README.md"},
		},
		{
			name: "flat paths",
			text: "cmd/main.go\ninternal/store/store.go\n",
			want: []string{"cmd/main.go", "internal/store/store.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := FromTreeText(tt.text)
			require.NoError(t, err)

			var paths []string
			for _, f := range files {
				paths = append(paths, f.Path)
			}
			assert.Equal(t, tt.want, paths)
		})
	}
}

func TestFromTreeTextEmpty(t *testing.T) {
	_, err := FromTreeText("\n  \n")
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}
