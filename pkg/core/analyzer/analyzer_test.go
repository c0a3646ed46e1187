package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"comment_analysis/pkg/core/ingest"
)

// mockRunner implements PromptRunner with a scriptable function.
type mockRunner struct {
	tasks       []string
	executeFunc func(task, prompt string) (string, error)
}

func (m *mockRunner) ExecutePrompt(_ context.Context, task string, prompt string, _ string, _ map[string]interface{}) (string, error) {
	m.tasks = append(m.tasks, task)
	return m.executeFunc(task, prompt)
}

func TestAnalyzeIncludesCommentBody(t *testing.T) {
	var seenPrompt string
	runner := &mockRunner{
		executeFunc: func(_, prompt string) (string, error) {
			seenPrompt = prompt
			return "Section IV.B.2: Requirements", nil
		},
	}

	a := NewCommentAnalyzer(runner, "Universal Waste Regulations")
	comment := ingest.Comment{CommentID: "c-1", Title: "Concerns", CommentText: "Puncturing requirements are unclear."}

	result, err := a.Analyze(context.Background(), comment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SectionAnalysis != "Section IV.B.2: Requirements" {
		t.Errorf("unexpected analysis: %q", result.SectionAnalysis)
	}
	if !strings.Contains(seenPrompt, "Puncturing requirements are unclear.") {
		t.Errorf("prompt should carry the comment body")
	}
	if !strings.Contains(seenPrompt, "Universal Waste Regulations") {
		t.Errorf("prompt should name the document under analysis")
	}
	if len(runner.tasks) != 1 || runner.tasks[0] != "analysis" {
		t.Errorf("expected the analysis task, got %v", runner.tasks)
	}
}

func TestAnalyzeAllContinuesPastFailures(t *testing.T) {
	runner := &mockRunner{
		executeFunc: func(_, prompt string) (string, error) {
			if strings.Contains(prompt, "bad") {
				return "", errors.New("rate limited")
			}
			return "No specific sections identified", nil
		},
	}

	a := NewCommentAnalyzer(runner, "Test Document")
	results := a.AnalyzeAll(context.Background(), []ingest.Comment{
		{CommentID: "c-1", CommentText: "fine"},
		{CommentID: "c-2", CommentText: "bad"},
		{CommentID: "c-3", CommentText: "fine"},
	})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !strings.Contains(results[1].SectionAnalysis, "Error during analysis") {
		t.Errorf("failed comment should record the error inline: %q", results[1].SectionAnalysis)
	}
	if strings.Contains(results[2].SectionAnalysis, "Error") {
		t.Errorf("later comments should still be analyzed: %q", results[2].SectionAnalysis)
	}
}

func TestAnalyzeExcerptTruncation(t *testing.T) {
	runner := &mockRunner{
		executeFunc: func(_, _ string) (string, error) { return "ok", nil },
	}
	a := NewCommentAnalyzer(runner, "Doc")

	long := strings.Repeat("w", excerptLength+100)
	result, err := a.Analyze(context.Background(), ingest.Comment{CommentID: "c", CommentText: long})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.CommentExcerpt) != excerptLength+3 || !strings.HasSuffix(result.CommentExcerpt, "...") {
		t.Errorf("excerpt should be truncated with ellipsis, got %d chars", len(result.CommentExcerpt))
	}
}

func TestSectionWithLLMParsesAndWiresParents(t *testing.T) {
	// Malformed trailing comma exercises the repair path.
	response := `Here you go:
[
  {"section_number": "I", "section_title": "Background", "section_text": "intro text", "hierarchy_level": 1, "parent_section": null},
  {"section_number": "A", "section_title": "Scope", "section_text": "scope text", "hierarchy_level": "2", "parent_section": "I"},
]`
	runner := &mockRunner{
		executeFunc: func(_, _ string) (string, error) { return response, nil },
	}

	sections, err := SectionWithLLM(context.Background(), runner, "short document", "prop-9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].SectionID == "" || sections[1].SectionID == "" {
		t.Error("sections should get minted ids")
	}
	if sections[1].ParentSectionID != sections[0].SectionID {
		t.Errorf("subsection should point at its parent, got %q", sections[1].ParentSectionID)
	}
	if sections[1].HierarchyLevel != 2 {
		t.Errorf("string hierarchy level should coerce to 2, got %d", sections[1].HierarchyLevel)
	}
	for _, s := range sections {
		if s.ProposalID != "prop-9" {
			t.Errorf("sections should carry the proposal id, got %q", s.ProposalID)
		}
	}
}

func TestSectionWithLLMSkipsBadChunks(t *testing.T) {
	calls := 0
	runner := &mockRunner{
		executeFunc: func(_, _ string) (string, error) {
			calls++
			if calls == 1 {
				return "I cannot help with that.", nil
			}
			return `[{"section_number": "II", "section_title": "Analysis", "section_text": "text", "hierarchy_level": 1, "parent_section": null}]`, nil
		},
	}

	text := strings.Repeat("a", sectioningChunkSize) + "tail"
	sections, err := SectionWithLLM(context.Background(), runner, text, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 chunk calls, got %d", calls)
	}
	if len(sections) != 1 || sections[0].SectionNumber != "II" {
		t.Errorf("good chunk should still produce sections, got %+v", sections)
	}
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	runner := &mockRunner{
		executeFunc: func(_, _ string) (string, error) {
			return "```markdown\nSection VI: Requests for Comment\n```", nil
		},
	}

	a := NewCommentAnalyzer(runner, "Universal Waste Regulations")
	result, err := a.Analyze(context.Background(), ingest.Comment{CommentID: "c-1", CommentText: "body"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SectionAnalysis != "Section VI: Requests for Comment" {
		t.Errorf("fences should be stripped, got %q", result.SectionAnalysis)
	}
}

func TestExcerptCutsOnRuneBoundary(t *testing.T) {
	runner := &mockRunner{
		executeFunc: func(_, _ string) (string, error) { return "ok", nil },
	}
	a := NewCommentAnalyzer(runner, "Universal Waste Regulations")

	body := strings.Repeat("é", excerptLength+10)
	result, err := a.Analyze(context.Background(), ingest.Comment{CommentID: "c-1", CommentText: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.ValidString(result.CommentExcerpt) {
		t.Fatal("excerpt split a multi-byte rune")
	}
	if got := utf8.RuneCountInString(result.CommentExcerpt); got != excerptLength+3 {
		t.Errorf("excerpt length = %d runes, want %d plus ellipsis", got, excerptLength)
	}
}
