package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestParseCommentsBareArray(t *testing.T) {
	data := `[
		{"comment_id": "c-1", "comment_text": "first"},
		{"id": "c-2", "text": "second"}
	]`

	comments, err := ParseComments([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].CommentID != "c-1" {
		t.Errorf("unexpected id %q", comments[0].CommentID)
	}
	if comments[1].CommentID != "c-2" {
		t.Errorf("id key should fall back to \"id\", got %q", comments[1].CommentID)
	}
}

func TestParseCommentsWrappedShapes(t *testing.T) {
	for _, key := range []string{"comments", "results", "data"} {
		data := `{"` + key + `": [{"comment_id": "x", "comment_text": "body"}]}`
		comments, err := ParseComments([]byte(data))
		if err != nil {
			t.Fatalf("key %s: unexpected error: %v", key, err)
		}
		if len(comments) != 1 || comments[0].CommentID != "x" {
			t.Errorf("key %s: unexpected result %+v", key, comments)
		}
	}

	if _, err := ParseComments([]byte(`{"unrelated": []}`)); err == nil {
		t.Error("unknown wrapper key should fail")
	}
	if _, err := ParseComments([]byte(`not json`)); err == nil {
		t.Error("garbage input should fail")
	}
}

func TestParseCommentsEmbeddingRepresentations(t *testing.T) {
	data := `[
		{"comment_id": "array", "embedding": [0.25, 0.5]},
		{"comment_id": "string", "embedding": "[0.25, 0.5]"},
		{"comment_id": "garbage", "embedding": "not a vector"}
	]`

	comments, err := ParseComments([]byte(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, i := range []int{0, 1} {
		if len(comments[i].Embedding) != 2 || comments[i].Embedding[0] != 0.25 {
			t.Errorf("%s: embedding not decoded: %v", comments[i].CommentID, comments[i].Embedding)
		}
	}
	if len(comments[2].Embedding) != 0 {
		t.Errorf("garbage embedding should decode empty, got %v", comments[2].Embedding)
	}
}

func TestBodyTextPriority(t *testing.T) {
	c := Comment{Text: "text", Content: "content", Markdown: "markdown"}
	if got := c.BodyText(); got != "text" {
		t.Errorf("expected text field, got %q", got)
	}
	c.CommentText = "comment_text"
	if got := c.BodyText(); got != "comment_text" {
		t.Errorf("comment_text should win, got %q", got)
	}
	if got := (&Comment{Markdown: "md"}).BodyText(); got != "md" {
		t.Errorf("markdown is the last fallback, got %q", got)
	}
}

func TestEmbeddingTextPrefersCombined(t *testing.T) {
	c := Comment{CommentText: "body", CombinedText: "body plus attachments"}
	if got := c.EmbeddingText(); got != "body plus attachments" {
		t.Errorf("combined text should win, got %q", got)
	}
	c.CombinedText = "  "
	if got := c.EmbeddingText(); got != "body" {
		t.Errorf("blank combined text should fall back to the body, got %q", got)
	}
}

func TestProcessSkipsNonPDFAttachments(t *testing.T) {
	comments := []Comment{
		{
			CommentID:   "c-1",
			CommentText: "the body",
			Attachments: []Attachment{
				{Filename: "notes.docx", Link: "https://example.org/notes.docx"},
				{Filename: "no-link.pdf"},
			},
		},
		{CommentID: "c-2", CommentText: "untouched"},
	}

	NewAttachmentProcessor().Process(context.Background(), comments)

	if comments[0].CombinedText != "the body" {
		t.Errorf("skipped attachments should leave combined text as the body, got %q", comments[0].CombinedText)
	}
	if comments[1].CombinedText != "" {
		t.Errorf("comments without attachments should be untouched, got %q", comments[1].CombinedText)
	}
}

func TestProcessPacesDownloads(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("not a real pdf"))
	}))
	defer server.Close()

	p := &AttachmentProcessor{
		Client:  server.Client(),
		Limiter: rate.NewLimiter(100, 1),
	}
	comments := []Comment{{
		CommentID:   "c-1",
		CommentText: "body",
		Attachments: []Attachment{
			{Filename: "a.pdf", Link: server.URL + "/a.pdf"},
			{Filename: "b.pdf", Link: server.URL + "/b.pdf"},
			{Filename: "c.pdf", Link: server.URL + "/c.pdf"},
		},
	}}

	start := time.Now()
	p.Process(context.Background(), comments)
	elapsed := time.Since(start)

	if hits != 3 {
		t.Fatalf("expected 3 downloads, got %d", hits)
	}
	// 100 req/s with burst 1 forces at least 10ms between downloads.
	if elapsed < 20*time.Millisecond {
		t.Errorf("downloads were not paced: 3 fetches in %v", elapsed)
	}
}
