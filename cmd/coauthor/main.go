package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/coauthor/internal/util"
	"github.com/OFFIS-RIT/coauthor/pkg/ai"
	oai "github.com/OFFIS-RIT/coauthor/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/coauthor/pkg/ai/openai"
	"github.com/OFFIS-RIT/coauthor/pkg/author"
	"github.com/OFFIS-RIT/coauthor/pkg/export"
	"github.com/OFFIS-RIT/coauthor/pkg/graph"
	"github.com/OFFIS-RIT/coauthor/pkg/loader"
	lio "github.com/OFFIS-RIT/coauthor/pkg/loader/io"
	"github.com/OFFIS-RIT/coauthor/pkg/loader/pdf"
	ls3 "github.com/OFFIS-RIT/coauthor/pkg/loader/s3"
	"github.com/OFFIS-RIT/coauthor/pkg/logger"
	"github.com/OFFIS-RIT/coauthor/pkg/logger/console"
	"github.com/OFFIS-RIT/coauthor/pkg/ner"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

func main() {
	util.LoadEnv()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		logger.Fatal("Author network build failed", "err", err)
	}
}

// run performs one complete batch. Every setup or processing failure is
// returned; only main decides to exit.
func run(ctx context.Context) error {
	runID, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("could not generate run id: %w", err)
	}
	startTime := time.Now()
	logger.Info("Starting author network build", "run_id", runID)

	keywords, err := loadKeywords()
	if err != nil {
		return fmt.Errorf("invalid keyword configuration: %w", err)
	}
	logger.Debug("Keywords loaded", "count", keywords.Len())

	source, err := newSource(ctx)
	if err != nil {
		return err
	}
	docs, err := source.ListDocuments(ctx)
	if err != nil {
		var dirErr *loader.DirectoryAccessError
		if errors.As(err, &dirErr) {
			return fmt.Errorf("could not access input documents: %w", err)
		}
		return fmt.Errorf("could not list input documents: %w", err)
	}

	// GraphAiClient
	aiClient, err := newAIClient()
	if err != nil {
		return err
	}

	recognizer := ner.NewAIRecognizer(ner.NewAIRecognizerParams{
		Client:     aiClient,
		Thinking:   util.GetEnv("AI_THINKING"),
		MaxRetries: util.GetEnvInt("AI_MAX_RETRIES", 3),
	})
	if err := recognizer.Init(ctx); err != nil {
		return fmt.Errorf("could not initialize entity recognizer: %w", err)
	}

	builder, err := graph.NewBuilder(graph.NewBuilderParams{
		TextLoader: pdf.NewPDFLoader(pdf.NewPDFLoaderParams{
			MaxPages: util.GetEnvInt("MAX_PAGES", 2),
		}),
		Recognizer:    recognizer,
		Keywords:      keywords,
		ProgressEvery: util.GetEnvInt("PROGRESS_EVERY", 10),
	})
	if err != nil {
		return fmt.Errorf("could not create graph builder: %w", err)
	}

	stats, err := builder.ProcessCorpus(ctx, docs)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("Interrupted, no network written", "processed", stats.Processed)
		}
		return err
	}

	logger.Info("Results",
		"unique_authors", stats.Nodes,
		"collaborations", stats.Edges,
		"documents", stats.Processed,
		"failed", stats.Failed,
		"skipped", stats.Skipped,
	)

	layout := export.DefaultLayout()
	layout.ScriptPath = util.GetEnv("VIS_NETWORK_JS")
	res, err := export.Export(builder.Graph(), layout, util.GetEnvString("OUTPUT_FILE", "author_network.html"))
	if err != nil {
		return fmt.Errorf("could not write network: %w", err)
	}
	if res.Empty {
		logger.Warn("No authors found, nothing to visualize")
	} else {
		logger.Info("Visualization generated", "path", res.Path)
	}

	metrics := aiClient.GetMetrics()
	logger.Info(
		"AI Metrics",
		"requests", metrics.Requests,
		"input_tokens", metrics.InputTokens,
		"output_tokens", metrics.OutputTokens,
		"total_tokens", metrics.TotalTokens,
		"ai_duration", (time.Duration(metrics.DurationMs) * time.Millisecond).String(),
	)
	logger.Info("Done", "run_id", runID, "duration", time.Since(startTime).Round(time.Millisecond).String())
	return nil
}

func newAIClient() (ai.GraphAIClient, error) {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),
		})
		if err != nil {
			return nil, fmt.Errorf("could not create Ollama client: %w", err)
		}
		return client, nil
	default:
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		}), nil
	}
}

func loadKeywords() (*author.Keywords, error) {
	if path := util.GetEnv("KEYWORDS_FILE"); path != "" {
		return author.LoadKeywords(path)
	}
	return author.DefaultKeywords()
}

// newSource reads from S3 when AWS_BUCKET is set and from INPUT_DIR otherwise.
func newSource(ctx context.Context) (loader.DocumentSource, error) {
	bucket := util.GetEnv("AWS_BUCKET")
	if bucket == "" {
		return lio.NewDirectorySource(lio.NewDirectorySourceParams{
			Dir:       util.GetEnvString("INPUT_DIR", "PDF"),
			Extension: ".pdf",
		}), nil
	}

	client, err := ls3.NewS3Client(ctx, ls3.NewS3ClientParams{
		Endpoint:  util.GetEnv("AWS_ENDPOINT"),
		Region:    util.GetEnv("AWS_REGION"),
		AccessKey: util.GetEnv("AWS_ACCESS_KEY"),
		SecretKey: util.GetEnv("AWS_SECRET_KEY"),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create S3 client: %w", err)
	}
	return ls3.NewS3Source(ls3.NewS3SourceParams{
		Bucket:    bucket,
		Prefix:    util.GetEnv("INPUT_PREFIX"),
		Extension: ".pdf",
		Client:    client,
	}), nil
}
