package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"comment_analysis/pkg/core/analyzer"
	"comment_analysis/pkg/core/embedding"
	"comment_analysis/pkg/core/ingest"
	"comment_analysis/pkg/core/llm"
	"comment_analysis/pkg/core/pipeline"
	"comment_analysis/pkg/core/report"
	"comment_analysis/pkg/core/store"
)

func buildEmbeddingProvider(ctx context.Context, cfg pipeline.Config) (embedding.Provider, func(), error) {
	switch cfg.EmbedProvider {
	case "openai":
		return &embedding.OpenAIProvider{Model: cfg.EmbedModel}, func() {}, nil
	case "gemini", "":
		p, err := embedding.NewGeminiProvider(ctx, cfg.EmbedModel)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { p.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown embed_provider %q", cfg.EmbedProvider)
	}
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	configPath := flag.String("config", "config/pipeline.yaml", "pipeline config file")
	documentPath := flag.String("document", "", "proposal document text file")
	commentsPath := flag.String("comments", "", "comments JSON file")
	reportDir := flag.String("report-dir", "output", "directory for report files")
	withAttachments := flag.Bool("attachments", false, "download and extract PDF attachments")
	analyze := flag.Bool("analyze", false, "run LLM section analysis on each comment")
	skipDB := flag.Bool("skip-db", false, "run without persisting to Postgres")
	flag.Parse()

	if *documentPath == "" || *commentsPath == "" {
		log.Fatal("Error: -document and -comments are required.")
	}

	cfg, err := pipeline.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx := context.Background()
	fmt.Println("Comment Analysis Pipeline Starting...")
	fmt.Printf("  Proposal: %s\n", cfg.ProposalID)

	docBytes, err := os.ReadFile(*documentPath)
	if err != nil {
		log.Fatalf("Error reading document %s: %v", *documentPath, err)
	}

	comments, err := ingest.LoadComments(*commentsPath)
	if err != nil {
		log.Fatalf("Error loading comments: %v", err)
	}
	for i := range comments {
		if comments[i].ProposalID == "" {
			comments[i].ProposalID = cfg.ProposalID
		}
	}
	fmt.Printf("  Loaded %d comments from %s\n", len(comments), *commentsPath)

	if *withAttachments {
		ingest.NewAttachmentProcessor().Process(ctx, comments)
	}

	provider, closeProvider, err := buildEmbeddingProvider(ctx, cfg)
	if err != nil {
		log.Fatalf("Error creating embedding provider: %v", err)
	}
	defer closeProvider()

	llmMgr := llm.NewManager(cfg.LLM)

	orch := pipeline.NewOrchestrator(cfg, provider, llmMgr)

	if !*skipDB {
		if err := store.InitDB(ctx, os.Getenv("DATABASE_URL")); err != nil {
			log.Fatalf("Error connecting to database: %v", err)
		}
		defer store.Close()
		pool := store.GetPool()
		matchesRepo := store.NewMatchesRepo(pool)
		matchesRepo.BatchSize = cfg.StoreBatchSize
		orch.SetStores(
			store.NewSectionsRepo(pool),
			store.NewCommentsRepo(pool),
			matchesRepo,
		)
	}

	result, err := orch.Run(ctx, string(docBytes), comments)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	if err := writeReports(*reportDir, result); err != nil {
		log.Fatalf("Error writing reports: %v", err)
	}

	if *analyze {
		ca := analyzer.NewCommentAnalyzer(llmMgr, cfg.DocumentTitle)
		results := ca.AnalyzeAll(ctx, result.Comments)
		if err := writeAnalysis(*reportDir, results); err != nil {
			log.Fatalf("Error writing analysis: %v", err)
		}
	}

	fmt.Println("Pipeline complete.")
}

func writeReports(dir string, result *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}

	groups := report.GroupBySection(result.Matches, result.Sections, result.Comments)

	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"matches.txt", func(f *os.File) error { return report.WriteText(f, groups) }},
		{"matches.csv", func(f *os.File) error { return report.WriteCSV(f, groups) }},
		{"matches.html", func(f *os.File) error { return report.WriteHTML(f, groups) }},
	}
	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := wr.write(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		f.Close()
		fmt.Printf("  Wrote %s\n", path)
	}
	return nil
}

func writeAnalysis(dir string, results []analyzer.Result) error {
	path := filepath.Join(dir, "analysis.json")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Printf("  Wrote %s\n", path)
	return nil
}
