package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"comment_analysis/pkg/core/document"
	"comment_analysis/pkg/core/utils"
)

const (
	// sectioningChunkSize splits large documents so each request stays
	// well under model input limits.
	sectioningChunkSize = 4000

	// MinPatternSections is the extractor output size below which the
	// document is considered poorly structured and handed to the LLM.
	MinPatternSections = 10
)

// ShouldUseLLMSectioning reports whether pattern-based extraction found too
// little structure to trust.
func ShouldUseLLMSectioning(sections []document.Section) bool {
	return len(sections) < MinPatternSections
}

// llmSection is the schema the model is asked to emit per section.
type llmSection struct {
	SectionNumber  string  `json:"section_number"`
	SectionTitle   string  `json:"section_title"`
	SectionText    string  `json:"section_text"`
	HierarchyLevel flexInt `json:"hierarchy_level"`
	ParentSection  string  `json:"parent_section"`
}

// flexInt tolerates models emitting levels as numbers or strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			*f = flexInt(n)
			return nil
		}
	}
	*f = 1
	return nil
}

var jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// SectionWithLLM asks the model to identify sections with hierarchy,
// chunk by chunk, then mints ids and wires parent references by section
// number. Chunks whose output cannot be parsed are logged and skipped.
func SectionWithLLM(ctx context.Context, manager PromptRunner, text string, proposalID string) ([]document.Section, error) {
	var raw []llmSection
	chunks := splitChunks(text, sectioningChunkSize)
	for i, chunk := range chunks {
		prompt := fmt.Sprintf(`You're going to help me identify sections in a legal document. Here's chunk %d of the document.

Please identify any clear sections, subsections and their hierarchy. Format your response as JSON with the following structure:
[
    {
        "section_number": "The section number/identifier if present",
        "section_title": "The section title",
        "section_text": "The full section text",
        "hierarchy_level": "Numeric level in hierarchy (1 for top, 2 for subsections, etc.)",
        "parent_section": "The parent section number (null for top level)"
    }
]

Only output valid JSON without any explanation or additional text.

Document chunk:
%s`, i+1, chunk)

		systemPrompt := "You are a helpful assistant that identifies sections in legal documents."
		response, err := manager.ExecutePrompt(ctx, "sectioning", prompt, systemPrompt, nil)
		if err != nil {
			fmt.Printf("Error processing chunk %d: %v\n", i+1, err)
			continue
		}

		payload := jsonArrayPattern.FindString(response)
		if payload == "" {
			payload = response
		}
		var chunkSections []llmSection
		if _, err := utils.SmartParse(payload, &chunkSections); err != nil {
			fmt.Printf("Couldn't extract JSON from chunk %d: %v\n", i+1, err)
			continue
		}
		raw = append(raw, chunkSections...)
	}

	if len(raw) == 0 {
		return nil, fmt.Errorf("LLM sectioning produced no sections")
	}
	return assemble(raw, proposalID), nil
}

// assemble mints section ids and resolves parent references, which the
// model expresses by section number.
func assemble(raw []llmSection, proposalID string) []document.Section {
	idByNumber := make(map[string]string, len(raw))
	sections := make([]document.Section, 0, len(raw))
	for _, r := range raw {
		s := document.Section{
			SectionID:      uuid.New().String(),
			SectionNumber:  r.SectionNumber,
			SectionTitle:   r.SectionTitle,
			SectionText:    r.SectionText,
			HierarchyLevel: int(r.HierarchyLevel),
			ProposalID:     proposalID,
		}
		if s.HierarchyLevel < 1 {
			s.HierarchyLevel = 1
		}
		if _, exists := idByNumber[r.SectionNumber]; !exists {
			idByNumber[r.SectionNumber] = s.SectionID
		}
		sections = append(sections, s)
	}

	for i, r := range raw {
		if r.ParentSection == "" || strings.EqualFold(r.ParentSection, "null") {
			continue
		}
		if parentID, ok := idByNumber[r.ParentSection]; ok && parentID != sections[i].SectionID {
			sections[i].ParentSectionID = parentID
		}
	}
	return sections
}

func splitChunks(text string, size int) []string {
	var chunks []string
	for len(text) > size {
		chunks = append(chunks, text[:size])
		text = text[size:]
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
