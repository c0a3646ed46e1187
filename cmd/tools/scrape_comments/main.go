package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"comment_analysis/pkg/core/ingest"
	"comment_analysis/pkg/core/scrape"
)

func main() {
	docketURL := flag.String("docket", "", "docket comment listing URL")
	output := flag.String("output", "comments.json", "output JSON file")
	proposalID := flag.String("proposal", "", "proposal id stamped on comments")
	maxPages := flag.Int("max-pages", 10, "maximum listing pages to walk")
	rps := flag.Float64("rps", 1, "requests per second")
	attachments := flag.Bool("attachments", false, "download and extract PDF attachments")
	flag.Parse()

	if *docketURL == "" {
		log.Fatal("Error: -docket is required.")
	}

	ctx := context.Background()
	scraper := scrape.NewScraper(*rps)

	links, err := scraper.CollectCommentLinks(ctx, *docketURL, *maxPages)
	if err != nil {
		log.Fatalf("Error collecting comment links: %v", err)
	}
	fmt.Printf("Found %d comment links\n", len(links))

	comments := make([]ingest.Comment, 0, len(links))
	for i, link := range links {
		c, err := scraper.ScrapeComment(ctx, link)
		if err != nil {
			fmt.Printf("  [%d/%d] failed %s: %v\n", i+1, len(links), link, err)
			continue
		}
		c.ProposalID = *proposalID
		comments = append(comments, c)
		fmt.Printf("  [%d/%d] scraped %s\n", i+1, len(links), c.CommentID)
	}

	if *attachments {
		ingest.NewAttachmentProcessor().Process(ctx, comments)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Error creating %s: %v", *output, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(comments); err != nil {
		log.Fatalf("Error writing %s: %v", *output, err)
	}
	fmt.Printf("Wrote %d comments to %s\n", len(comments), *output)
}
