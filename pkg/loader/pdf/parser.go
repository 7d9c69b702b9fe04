package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const pdftotextTimeout = 30 * time.Second

func pdftotextAvailable() bool {
	_, err := exec.LookPath("pdftotext")
	return err == nil
}

// pdftotextPages renders single pages with poppler's pdftotext. The PDF is
// written once to a private temp dir that Close removes.
type pdftotextPages struct {
	tmpDir    string
	pdfPath   string
	pageCount int
}

func newPdftotextPages(content []byte, pageCount int) (*pdftotextPages, error) {
	id, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("nanoid: %w", err)
	}
	tmpDir := filepath.Join(os.TempDir(), "coauthor-pdf-"+id)
	if err := os.MkdirAll(tmpDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, content, 0o600); err != nil {
		os.RemoveAll(tmpDir)
		return nil, fmt.Errorf("failed to write temp PDF: %w", err)
	}

	return &pdftotextPages{
		tmpDir:    tmpDir,
		pdfPath:   pdfPath,
		pageCount: pageCount,
	}, nil
}

func (p *pdftotextPages) PageCount() int {
	return p.pageCount
}

func (p *pdftotextPages) PageText(ctx context.Context, pageNr int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, pdftotextTimeout)
	defer cancel()

	page := strconv.Itoa(pageNr)
	cmd := exec.CommandContext(
		ctx,
		"pdftotext",
		"-enc", "UTF-8",
		"-eol", "unix",
		"-nopgbrk",
		"-q",
		"-f", page,
		"-l", page,
		p.pdfPath,
		"-",
	)
	cmd.Env = append(os.Environ(), "LANG=C.UTF-8", "LC_ALL=C.UTF-8")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("pdftotext timed out")
	}
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	return string(out), nil
}

func (p *pdftotextPages) Close() error {
	return os.RemoveAll(p.tmpDir)
}
