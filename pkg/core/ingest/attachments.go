package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	pdflib "github.com/ledongthuc/pdf"
	"golang.org/x/time/rate"
)

// defaultDownloadRPS keeps attachment downloads polite to the source site.
const defaultDownloadRPS = 1

// AttachmentProcessor downloads PDF attachments and folds their text into
// each comment's combined body for embedding.
type AttachmentProcessor struct {
	Client  *http.Client
	Limiter *rate.Limiter
}

// NewAttachmentProcessor creates a processor with a long download timeout
// and a one-request-per-second download pace.
func NewAttachmentProcessor() *AttachmentProcessor {
	return &AttachmentProcessor{
		Client:  &http.Client{Timeout: 2 * time.Minute},
		Limiter: rate.NewLimiter(rate.Limit(defaultDownloadRPS), 1),
	}
}

// Process downloads and extracts every PDF attachment of every comment in
// place. The original comment text is never modified; extracted text lands
// in Attachment.ExtractedText and in Comment.CombinedText, separated by a
// per-attachment marker. Failures are logged and leave the attachment
// empty rather than aborting the batch.
func (p *AttachmentProcessor) Process(ctx context.Context, comments []Comment) {
	total, processed := 0, 0
	for i := range comments {
		c := &comments[i]
		if len(c.Attachments) == 0 {
			continue
		}

		combined := c.BodyText()
		for j := range c.Attachments {
			total++
			att := &c.Attachments[j]
			if att.Link == "" || !strings.HasSuffix(strings.ToLower(att.Link), ".pdf") {
				fmt.Printf("Skipping non-PDF attachment: %s\n", att.Filename)
				att.ExtractedText = ""
				continue
			}

			text, err := p.extractFromURL(ctx, att.Link)
			if err != nil {
				fmt.Printf("Warning: attachment %s failed: %v\n", att.Filename, err)
				att.ExtractedText = ""
				continue
			}

			att.ExtractedText = text
			if strings.TrimSpace(text) != "" {
				combined += fmt.Sprintf("\n\n--- ATTACHMENT CONTENT: %s ---\n\n", att.Filename)
				combined += text
				processed++
			}
		}
		c.CombinedText = combined
	}
	fmt.Printf("Processed %d/%d attachments\n", processed, total)
}

func (p *AttachmentProcessor) extractFromURL(ctx context.Context, link string) (string, error) {
	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("download wait canceled: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	res, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: status %d", res.StatusCode)
	}

	// The PDF reader needs a ReadSeeker and a size, so spool to disk.
	tmp, err := os.CreateTemp("", "comment-attachment-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, res.Body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	tmp.Close()

	return ExtractPDFText(tmpPath)
}

// ExtractPDFText pulls plain text from a PDF file, one page per line
// group. Pages that fail to extract are skipped.
func ExtractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		buf.WriteString(text)
		buf.WriteString("\n")
	}
	return buf.String(), nil
}
