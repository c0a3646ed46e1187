package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"comment_analysis/pkg/core/document"
)

func main() {
	input := flag.String("input", "", "document text file to section")
	output := flag.String("output", "sections.json", "output JSON file")
	proposalID := flag.String("proposal", "", "proposal id stamped on sections")
	minLen := flag.Int("min-length", document.DefaultMinSectionLength, "minimum subsection text length")
	generic := flag.Bool("generic", false, "use markdown heading detection instead of Federal Register markers")
	flag.Parse()

	if *input == "" {
		log.Fatal("Error: -input is required.")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *input, err)
	}

	dialect := document.DialectRoman
	if *generic {
		dialect = document.DialectGeneric
	}
	sections := document.Extract(string(data), document.ExtractOptions{
		Dialect:    dialect,
		ProposalID: *proposalID,
	})
	sections = document.Clean(sections, *minLen, nil)
	if len(sections) == 0 {
		log.Fatal("Error: no sections found in document.")
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Error creating %s: %v", *output, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(sections); err != nil {
		log.Fatalf("Error writing %s: %v", *output, err)
	}

	fmt.Printf("Extracted %d sections from %s -> %s\n", len(sections), *input, *output)
	for _, s := range sections {
		fmt.Printf("  [%d] %s %s (%d chars)\n", s.HierarchyLevel, s.SectionNumber, s.SectionTitle, len(s.SectionText))
	}
}
