package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/OFFIS-RIT/coauthor/internal/util"
	"github.com/OFFIS-RIT/coauthor/pkg/author"
	"github.com/OFFIS-RIT/coauthor/pkg/loader"
	"github.com/OFFIS-RIT/coauthor/pkg/logger"
	"github.com/OFFIS-RIT/coauthor/pkg/ner"
)

const defaultProgressEvery = 10

// Builder is the run context of one corpus pass. It owns the Graph and the
// collaborators used to fill it.
//
// A Builder should be created using NewBuilder.
type Builder struct {
	graph         *Graph
	textLoader    loader.TextLoader
	recognizer    ner.EntityRecognizer
	keywords      *author.Keywords
	progressEvery int
}

// NewBuilderParams defines the collaborators of a Builder.
//
// TextLoader turns documents into text, Recognizer finds PERSON spans in
// that text and Keywords drives the candidate filter. ProgressEvery sets how
// many successful documents pass between progress notices (default 10).
type NewBuilderParams struct {
	TextLoader    loader.TextLoader
	Recognizer    ner.EntityRecognizer
	Keywords      *author.Keywords
	ProgressEvery int
}

// NewBuilder creates a Builder with an empty Graph.
func NewBuilder(params NewBuilderParams) (*Builder, error) {
	if params.TextLoader == nil {
		return nil, errors.New("text loader is required")
	}
	if params.Recognizer == nil {
		return nil, errors.New("entity recognizer is required")
	}
	if params.Keywords == nil {
		return nil, errors.New("keywords are required")
	}

	every := params.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}

	return &Builder{
		graph:         New(),
		textLoader:    params.TextLoader,
		recognizer:    params.Recognizer,
		keywords:      params.Keywords,
		progressEvery: every,
	}, nil
}

// Graph returns the graph accumulated so far.
func (b *Builder) Graph() *Graph {
	return b.graph
}

// Stats summarizes a ProcessCorpus run.
type Stats struct {
	Processed int
	Failed    int
	Skipped   int
	Nodes     int
	Edges     int
}

// ProcessCorpus runs every document through text extraction, recognition,
// filtering and accumulation, in order. Documents that cannot be read are
// logged and counted as failed. A recognizer error aborts the run, as does
// cancellation of ctx, which is checked between documents.
func (b *Builder) ProcessCorpus(ctx context.Context, docs []loader.Document) (Stats, error) {
	var stats Stats
	start := time.Now()
	progress := util.NewBatchProgress(len(docs), start)

	logger.Info("[Graph] Processing", "total_files", len(docs))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return b.finish(stats), err
		}

		text, err := b.textLoader.GetText(ctx, doc)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return b.finish(stats), ctxErr
			}
			var readErr *loader.ReadError
			if !errors.As(err, &readErr) {
				return b.finish(stats), fmt.Errorf("failed to load %s: %w", doc.Path, err)
			}
			logger.Error("[Graph] Failed to read document", "path", readErr.Path, "err", readErr.Err)
			stats.Failed++
			progress.Step()
			continue
		}

		if text == "" {
			logger.Debug("[Graph] Document has no text", "path", doc.Path)
			stats.Skipped++
			progress.Step()
			continue
		}

		if err := b.processText(ctx, doc, text); err != nil {
			return b.finish(stats), err
		}

		stats.Processed++
		progress.Step()
		if stats.Processed%b.progressEvery == 0 {
			logger.Info("[Graph] Progress",
				"processed", stats.Processed,
				"files", progress.Fraction(),
				"percentage", progress.Percentage(),
				"time_remaining", progress.TimeRemaining(time.Now()).Round(time.Second),
				"authors", b.graph.NodeCount(),
			)
		}
	}

	stats = b.finish(stats)
	logger.Info("[Graph] Corpus processed",
		"processed", stats.Processed,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return stats, nil
}

func (b *Builder) processText(ctx context.Context, doc loader.Document, text string) error {
	spans, err := b.recognizer.Recognize(ctx, text)
	if err != nil {
		return fmt.Errorf("failed to recognize entities in %s: %w", doc.Path, err)
	}

	authors := author.FilterFunc(spans, b.keywords, func(span ner.EntitySpan, d author.Decision) {
		logger.Debug("[Graph] Discarded candidate", "path", doc.Path, "text", span.Text, "reason", d)
	})

	nodes, edges := b.graph.Accumulate(authors)
	logger.Debug("[Graph] Document accumulated",
		"path", doc.Path,
		"authors", len(authors),
		"new_nodes", nodes,
		"new_edges", edges,
	)
	return nil
}

func (b *Builder) finish(stats Stats) Stats {
	stats.Nodes = b.graph.NodeCount()
	stats.Edges = b.graph.EdgeCount()
	return stats
}
