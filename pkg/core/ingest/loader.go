package ingest

import (
	"encoding/json"
	"fmt"
	"os"
)

// commentEnvelope covers the wrapper shapes scraper exports use. Only one
// of the keys is populated in any given file.
type commentEnvelope struct {
	Comments []rawComment `json:"comments"`
	Results  []rawComment `json:"results"`
	Data     []rawComment `json:"data"`
}

// rawComment adds the alternate id key some exports carry.
type rawComment struct {
	Comment
	ID string `json:"id,omitempty"`
}

func (r rawComment) normalized() Comment {
	c := r.Comment
	if c.CommentID == "" {
		c.CommentID = r.ID
	}
	return c
}

// ParseComments decodes a comments export. It accepts either a bare JSON
// array of comments or an object wrapping the array under a "comments",
// "results", or "data" key.
func ParseComments(data []byte) ([]Comment, error) {
	var raws []rawComment
	if err := json.Unmarshal(data, &raws); err != nil {
		var envelope commentEnvelope
		if envErr := json.Unmarshal(data, &envelope); envErr != nil {
			return nil, fmt.Errorf("failed to parse comments JSON: %w", envErr)
		}
		switch {
		case envelope.Comments != nil:
			raws = envelope.Comments
		case envelope.Results != nil:
			raws = envelope.Results
		case envelope.Data != nil:
			raws = envelope.Data
		default:
			return nil, fmt.Errorf("comments JSON object has no comments, results, or data key")
		}
	}

	comments := make([]Comment, 0, len(raws))
	for _, r := range raws {
		comments = append(comments, r.normalized())
	}
	return comments, nil
}

// LoadComments reads and parses a comments export file.
func LoadComments(path string) ([]Comment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read comments file %s: %w", path, err)
	}
	return ParseComments(data)
}
