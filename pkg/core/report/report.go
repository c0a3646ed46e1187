// Package report renders match results grouped by section as plain text,
// CSV, and HTML.
package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"

	"comment_analysis/pkg/core/document"
	"comment_analysis/pkg/core/ingest"
	"comment_analysis/pkg/core/match"
)

// SectionGroup is one section together with the comments matched to it,
// score descending.
type SectionGroup struct {
	Section document.Section
	Entries []Entry
}

// Entry pairs a matched comment with its score.
type Entry struct {
	Comment ingest.Comment
	Score   float64
}

// GroupBySection reorganizes matches from per-comment into per-section
// order. Sections appear sorted by comment count descending, ties by
// section number; matches referencing unknown sections or comments are
// skipped.
func GroupBySection(matches []match.Match, sections []document.Section, comments []ingest.Comment) []SectionGroup {
	sectionByID := make(map[string]document.Section, len(sections))
	for _, s := range sections {
		sectionByID[s.SectionID] = s
	}
	commentByID := make(map[string]ingest.Comment, len(comments))
	for _, c := range comments {
		commentByID[c.CommentID] = c
	}

	entries := make(map[string][]Entry)
	for _, m := range matches {
		section, ok := sectionByID[m.SectionID]
		if !ok {
			continue
		}
		comment, ok := commentByID[m.CommentID]
		if !ok {
			continue
		}
		entries[section.SectionID] = append(entries[section.SectionID], Entry{Comment: comment, Score: m.SimilarityScore})
	}

	groups := make([]SectionGroup, 0, len(entries))
	for sectionID, sectionEntries := range entries {
		sort.SliceStable(sectionEntries, func(i, j int) bool {
			return sectionEntries[i].Score > sectionEntries[j].Score
		})
		groups = append(groups, SectionGroup{Section: sectionByID[sectionID], Entries: sectionEntries})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].Entries) != len(groups[j].Entries) {
			return len(groups[i].Entries) > len(groups[j].Entries)
		}
		return groups[i].Section.SectionNumber < groups[j].Section.SectionNumber
	})
	return groups
}

// WriteText writes the classic sections-and-their-comments report.
func WriteText(w io.Writer, groups []SectionGroup) error {
	rule := strings.Repeat("=", 80)
	if _, err := fmt.Fprintf(w, "%s\nSECTIONS AND THEIR COMMENTS\n%s\n\n", rule, rule); err != nil {
		return err
	}

	for _, g := range groups {
		fmt.Fprintf(w, "Section %s: %s (%d comments):\n", g.Section.SectionNumber, g.Section.SectionTitle, len(g.Entries))
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 80))

		for i, e := range g.Entries {
			fmt.Fprintf(w, "Comment %d: %s (score %.3f)\n", i+1, e.Comment.CommentID, e.Score)
			if e.Comment.CommenterName != "" {
				fmt.Fprintf(w, "Commenter: %s\n", e.Comment.CommenterName)
			}
			if e.Comment.Organization != "" {
				fmt.Fprintf(w, "Organization: %s\n", e.Comment.Organization)
			}
			fmt.Fprintf(w, "\n%s\n", wrap(e.Comment.BodyText(), 80))
			if i < len(g.Entries)-1 {
				fmt.Fprintf(w, "\n%s\n\n", strings.Repeat("-", 40))
			}
		}
		if _, err := fmt.Fprint(w, "\n\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteCSV writes one row per match with section and comment context.
func WriteCSV(w io.Writer, groups []SectionGroup) error {
	writer := csv.NewWriter(w)
	header := []string{"section_number", "section_title", "comment_id", "commenter_name", "organization", "similarity_score"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, g := range groups {
		for _, e := range g.Entries {
			row := []string{
				g.Section.SectionNumber,
				g.Section.SectionTitle,
				e.Comment.CommentID,
				e.Comment.CommenterName,
				e.Comment.Organization,
				strconv.FormatFloat(e.Score, 'f', 4, 64),
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteHTML renders the report as HTML by building Markdown and running it
// through goldmark.
func WriteHTML(w io.Writer, groups []SectionGroup) error {
	var md bytes.Buffer
	md.WriteString("# Sections and Their Comments\n\n")
	for _, g := range groups {
		fmt.Fprintf(&md, "## Section %s: %s\n\n", g.Section.SectionNumber, g.Section.SectionTitle)
		fmt.Fprintf(&md, "%d matched comments\n\n", len(g.Entries))
		for _, e := range g.Entries {
			fmt.Fprintf(&md, "- **%s** (score %.3f)", e.Comment.CommentID, e.Score)
			if e.Comment.Organization != "" {
				fmt.Fprintf(&md, " - %s", e.Comment.Organization)
			}
			md.WriteString("\n")
		}
		md.WriteString("\n")
	}

	if err := goldmark.Convert(md.Bytes(), w); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}
	return nil
}

// wrap hard-wraps text at width characters per line.
func wrap(text string, width int) string {
	var b strings.Builder
	runes := []rune(text)
	for len(runes) > width {
		b.WriteString(string(runes[:width]))
		b.WriteString("\n")
		runes = runes[width:]
	}
	b.WriteString(string(runes))
	return b.String()
}
