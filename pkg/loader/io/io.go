package io

import (
	"context"
	"os"
	"path/filepath"

	"github.com/OFFIS-RIT/coauthor/pkg/loader"
)

// IOFileLoader loads documents directly from the local filesystem.
type IOFileLoader struct{}

// NewIOFileLoader creates a new filesystem-based document loader.
func NewIOFileLoader() *IOFileLoader {
	return &IOFileLoader{}
}

// GetFileContent reads the whole file at doc.Path.
func (l *IOFileLoader) GetFileContent(ctx context.Context, doc loader.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(doc.Path)
}

// DirectorySource lists the documents of a single directory. Subdirectories
// are not descended into and only files whose extension matches Ext
// (case-insensitive) are returned. Entries come back in os.ReadDir order,
// which is sorted by file name.
type DirectorySource struct {
	dir    string
	ext    string
	loader loader.DocumentLoader
}

// NewDirectorySourceParams configures a DirectorySource. Loader defaults to
// an IOFileLoader.
type NewDirectorySourceParams struct {
	Dir       string
	Extension string
	Loader    loader.DocumentLoader
}

func NewDirectorySource(params NewDirectorySourceParams) *DirectorySource {
	l := params.Loader
	if l == nil {
		l = NewIOFileLoader()
	}
	return &DirectorySource{
		dir:    params.Dir,
		ext:    params.Extension,
		loader: l,
	}
}

// ListDocuments returns the matching documents. A missing or unreadable
// directory is reported as *loader.DirectoryAccessError.
func (s *DirectorySource) ListDocuments(ctx context.Context) ([]loader.Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &loader.DirectoryAccessError{Path: s.dir, Err: err}
	}

	docs := make([]loader.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !loader.HasExtension(entry.Name(), s.ext) {
			continue
		}
		docs = append(docs, loader.Document{
			ID:     entry.Name(),
			Path:   filepath.Join(s.dir, entry.Name()),
			Loader: s.loader,
		})
	}

	return docs, nil
}
