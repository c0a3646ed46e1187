package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

func TestCollectCommentLinksPaginates(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("pageNumber")
		switch page {
		case "", "1":
			fmt.Fprintf(w, `<html><body>
				<a href="/comment/EPA-0001">Comment 1</a>
				<a href="/comment/EPA-0002">Comment 2</a>
				<a href="%s/docket?pageNumber=2">Next</a>
			</body></html>`, server.URL)
		case "2":
			fmt.Fprint(w, `<html><body>
				<a href="/comment/EPA-0003">Comment 3</a>
				<a href="/comment/EPA-0001">Comment 1 again</a>
			</body></html>`)
		default:
			fmt.Fprint(w, `<html><body>no comments here</body></html>`)
		}
	}))
	defer server.Close()

	s := NewScraper(1000)
	links, err := s.CollectCommentLinks(context.Background(), server.URL+"/docket?pageNumber=7", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(links) != 3 {
		t.Fatalf("expected 3 distinct links, got %d: %v", len(links), links)
	}
	for i, suffix := range []string{"EPA-0001", "EPA-0002", "EPA-0003"} {
		if !strings.HasSuffix(links[i], suffix) {
			t.Errorf("link %d: expected suffix %s, got %s", i, suffix, links[i])
		}
	}
}

func TestCollectCommentLinksRespectsMaxPages(t *testing.T) {
	requests := 0
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page, _ := strconv.Atoi(r.URL.Query().Get("pageNumber"))
		if page == 0 {
			page = 1
		}
		// Always advertises another page; maxPages must cut it off.
		fmt.Fprintf(w, `<html><body>
			<a href="/comment/C-%d">Comment</a>
			<a href="%s/docket?pageNumber=%d">Next</a>
		</body></html>`, page, server.URL, page+1)
	}))
	defer server.Close()

	s := NewScraper(1000)
	links, err := s.CollectCommentLinks(context.Background(), server.URL+"/docket", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests > 2 {
		t.Errorf("expected at most 2 page fetches, got %d", requests)
	}
	if len(links) != 2 {
		t.Errorf("expected one link per page, got %v", links)
	}
}

func TestScrapeComment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("missing custom User-Agent, got %q", r.Header.Get("User-Agent"))
		}
		fmt.Fprint(w, `<html><body>
			<h1>Comment on Aerosol Can Handling</h1>
			<main>
				<p>We support the proposed change.</p>
				<p>However, puncturing requirements need clarification.</p>
			</main>
			<a href="/attachments/study.pdf">Supporting Study</a>
		</body></html>`)
	}))
	defer server.Close()

	s := NewScraper(1000)
	comment, err := s.ScrapeComment(context.Background(), server.URL+"/comment/EPA-HQ-2019-0055")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if comment.CommentID != "EPA-HQ-2019-0055" {
		t.Errorf("comment id should come from the URL path, got %q", comment.CommentID)
	}
	if comment.Title != "Comment on Aerosol Can Handling" {
		t.Errorf("unexpected title %q", comment.Title)
	}
	if !strings.Contains(comment.CommentText, "puncturing requirements") {
		t.Errorf("body paragraphs missing: %q", comment.CommentText)
	}
	if len(comment.Attachments) != 1 || !strings.HasSuffix(comment.Attachments[0].Link, "/attachments/study.pdf") {
		t.Errorf("expected one resolved attachment link, got %+v", comment.Attachments)
	}
}
