package loader

import (
	"context"
	"path/filepath"
	"strings"
)

// Document is one input file of the corpus. It is identified by its path
// (a filesystem path or an object key) and carries the DocumentLoader that
// knows how to fetch its raw bytes.
type Document struct {
	ID     string
	Path   string
	Loader DocumentLoader
}

// GetContent retrieves the raw bytes of the document using its Loader.
func (d *Document) GetContent(ctx context.Context) ([]byte, error) {
	return d.Loader.GetFileContent(ctx, *d)
}

// DocumentLoader fetches the raw content of a Document.
// Implementations may load files from disk, cloud storage, or other sources.
type DocumentLoader interface {
	GetFileContent(ctx context.Context, doc Document) ([]byte, error)
}

// TextLoader turns a Document into plain text. Failures are reported as
// *ReadError so callers can skip the document and continue.
type TextLoader interface {
	GetText(ctx context.Context, doc Document) (string, error)
}

// DocumentSource enumerates the documents of a corpus.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]Document, error)
}

// HasExtension reports whether name ends in ext, ignoring case.
// ext may be given with or without the leading dot.
func HasExtension(name string, ext string) bool {
	if ext == "" {
		return true
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return strings.EqualFold(filepath.Ext(name), ext)
}
