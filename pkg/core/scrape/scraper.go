// Package scrape collects public comments from a regulations docket site by
// walking its paginated listing and pulling individual comment pages.
package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"comment_analysis/pkg/core/ingest"
)

const (
	userAgent = "CommentAnalysisPipeline/1.0 (regulatory comment research)"

	// fullPageSize is the listing page size; a full page suggests more
	// pages follow even without an explicit next link.
	fullPageSize = 25
)

// Scraper fetches docket pages politely: one shared rate limiter across
// all requests and a custom User-Agent.
type Scraper struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewScraper creates a Scraper limited to requestsPerSec outbound
// requests; zero or negative defaults to 1 request per second.
func NewScraper(requestsPerSec float64) *Scraper {
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}
	return &Scraper{
		client:  &http.Client{Timeout: 60 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
	}
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// CollectCommentLinks walks the docket listing page by page and returns
// every distinct comment page URL. Pagination continues while a next-page
// link exists or a page came back full, and stops after maxPages when
// maxPages > 0.
func (s *Scraper) CollectCommentLinks(ctx context.Context, docketURL string, maxPages int) ([]string, error) {
	base, err := url.Parse(docketURL)
	if err != nil {
		return nil, fmt.Errorf("invalid docket URL %s: %w", docketURL, err)
	}
	// Drop any caller-supplied page number; pagination restarts at 1.
	query := base.Query()
	query.Del("pageNumber")
	base.RawQuery = query.Encode()

	var all []string
	seen := make(map[string]bool)
	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		pageURL := withPageNumber(base, page)
		fmt.Printf("Processing page %d: %s\n", page, pageURL)

		doc, err := s.fetchDocument(ctx, pageURL)
		if err != nil {
			if page == 1 {
				return nil, err
			}
			fmt.Printf("Warning: stopping pagination: %v\n", err)
			break
		}

		var pageLinks []string
		doc.Find("a[href*='/comment/']").Each(func(_ int, sel *goquery.Selection) {
			href, ok := sel.Attr("href")
			if !ok {
				return
			}
			resolved := resolveURL(base, href)
			if resolved != "" && !seen[resolved] {
				seen[resolved] = true
				pageLinks = append(pageLinks, resolved)
			}
		})
		if len(pageLinks) == 0 {
			break
		}
		all = append(all, pageLinks...)
		fmt.Printf("Found %d comment links on page %d\n", len(pageLinks), page)

		if !hasNextPage(doc, page) && len(pageLinks) < fullPageSize {
			break
		}
	}

	fmt.Printf("Found %d total comment links\n", len(all))
	return all, nil
}

// ScrapeComment fetches one comment page. The comment id is the trailing
// path segment of the URL, the convention for regulations.gov comment
// pages.
func (s *Scraper) ScrapeComment(ctx context.Context, commentURL string) (ingest.Comment, error) {
	doc, err := s.fetchDocument(ctx, commentURL)
	if err != nil {
		return ingest.Comment{}, err
	}

	comment := ingest.Comment{
		CommentID: commentIDFromURL(commentURL),
		SourceURL: commentURL,
		Title:     strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	var paragraphs []string
	doc.Find(".comment-text, [class*='comment'] p, main p, article p").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	comment.CommentText = strings.Join(paragraphs, "\n\n")

	doc.Find("a[href$='.pdf'], a[href*='attachment']").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		base, err := url.Parse(commentURL)
		if err != nil {
			return
		}
		comment.Attachments = append(comment.Attachments, ingest.Attachment{
			Filename: strings.TrimSpace(sel.Text()),
			Link:     resolveURL(base, href),
		})
	})

	return comment, nil
}

func withPageNumber(base *url.URL, page int) string {
	u := *base
	query := u.Query()
	query.Set("pageNumber", fmt.Sprintf("%d", page))
	u.RawQuery = query.Encode()
	return u.String()
}

func hasNextPage(doc *goquery.Document, current int) bool {
	marker := fmt.Sprintf("pageNumber=%d", current+1)
	found := false
	doc.Find("a[href*='pageNumber=']").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && strings.Contains(href, marker) {
			found = true
		}
	})
	return found
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func commentIDFromURL(commentURL string) string {
	u, err := url.Parse(commentURL)
	if err != nil {
		return commentURL
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	return segments[len(segments)-1]
}
