package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/coauthor/internal/util"
	"github.com/OFFIS-RIT/coauthor/pkg/loader"
	"github.com/OFFIS-RIT/coauthor/pkg/logger"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	defaultMaxPages  = 2
	defaultSeparator = " "
)

// pageSource yields the text of single pages of one opened PDF.
type pageSource interface {
	PageCount() int
	PageText(ctx context.Context, pageNr int) (string, error)
	Close() error
}

// PDFLoader extracts the text of the first pages of a PDF document.
// Only pages whose text is non-empty count towards the page window.
type PDFLoader struct {
	maxPages     int
	separator    string
	usePdftotext bool
}

// NewPDFLoaderParams configures a PDFLoader.
//
// MaxPages is the number of non-empty pages to read (default 2).
// DisablePdftotext forces the in-process content stream extractor even if
// pdftotext is installed.
type NewPDFLoaderParams struct {
	MaxPages         int
	DisablePdftotext bool
}

func NewPDFLoader(params NewPDFLoaderParams) *PDFLoader {
	maxPages := params.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	return &PDFLoader{
		maxPages:     maxPages,
		separator:    defaultSeparator,
		usePdftotext: !params.DisablePdftotext,
	}
}

// GetText returns the text of the first non-empty pages joined by a single
// space. Every failure, including a panic inside the PDF parser, is returned
// as *loader.ReadError. An empty string with a nil error means the document
// was readable but carried no text.
func (l *PDFLoader) GetText(ctx context.Context, doc loader.Document) (text string, err error) {
	defer func() {
		// pdfcpu can panic on malformed cross-reference tables.
		if r := recover(); r != nil {
			text = ""
			err = &loader.ReadError{Path: doc.Path, Err: fmt.Errorf("pdf parser panic: %v", r)}
		}
	}()

	content, err := doc.GetContent(ctx)
	if err != nil {
		return "", &loader.ReadError{Path: doc.Path, Err: err}
	}

	pages, err := l.open(content)
	if err != nil {
		return "", &loader.ReadError{Path: doc.Path, Err: err}
	}
	defer pages.Close()

	parts, err := firstNonEmptyPages(ctx, pages, l.maxPages)
	if err != nil {
		return "", &loader.ReadError{Path: doc.Path, Err: err}
	}

	return strings.Join(parts, l.separator), nil
}

func (l *PDFLoader) open(content []byte) (pageSource, error) {
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(content), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}

	if l.usePdftotext && pdftotextAvailable() {
		pages, err := newPdftotextPages(content, pdfCtx.PageCount)
		if err == nil {
			return pages, nil
		}
		logger.Debug("[PDF] Falling back to content stream extraction", "err", err)
	}

	return &streamPages{ctx: pdfCtx}, nil
}

func firstNonEmptyPages(ctx context.Context, pages pageSource, maxPages int) ([]string, error) {
	parts := make([]string, 0, maxPages)
	for pageNr := 1; pageNr <= pages.PageCount() && len(parts) < maxPages; pageNr++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := pages.PageText(ctx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNr, err)
		}
		text = strings.TrimSpace(util.SanitizeText(text))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return parts, nil
}
