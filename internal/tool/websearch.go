package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"

	"github.com/aether-ai/aether/pkg/types"
)

const (
	fetchTimeout  = 10 * time.Second
	searchTimeout = 15 * time.Second

	// maxContentLength bounds fetched page content before it is handed to
	// the model.
	maxContentLength = 4000

	searchUserAgent = "Mozilla/5.0 (compatible; WebBot/1.0)"
	serpAPIBase     = "https://serpapi.com/search"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// searchClient implements the web_search tool: either a SerpAPI-backed
// Google search or a direct page fetch.
type searchClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func newSearchClient() *searchClient {
	return &searchClient{
		baseURL: serpAPIBase,
		client:  &http.Client{},
	}
}

// run executes a web_search call. A url argument takes precedence over a
// query. Search failures degrade to a suggestion string rather than an
// error so the model can still point the user somewhere.
func (s *searchClient) run(ctx context.Context, args map[string]any) types.ToolResult {
	if target, ok := stringArg(args, "url"); ok {
		content, err := s.fetchContent(ctx, target)
		if err != nil {
			return errorResult(fmt.Sprintf("Failed to fetch: %v", err))
		}
		return types.TextResult{Content: content}
	}

	if query, ok := stringArg(args, "query"); ok {
		numResults := 5
		if n, ok := intArg(args, "num_results"); ok && n > 0 {
			numResults = n
		}
		return types.TextResult{Content: s.performSearch(ctx, query, numResults)}
	}

	return errorResult("Either query or url parameter is required")
}

// fetchContent downloads a page and reduces it to model-readable text.
func (s *searchClient) fetchContent(ctx context.Context, target string) (string, error) {
	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("invalid URL: %s", target)
	}

	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", searchUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/") {
		return "", errors.New("unsupported content type")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var text string
	if strings.Contains(contentType, "text/html") {
		text = reduceHTML(string(body))
	} else {
		text = strings.TrimSpace(string(body))
	}

	if text == "" {
		return fmt.Sprintf("No readable content found at %s", target), nil
	}

	runes := []rune(text)
	if len(runes) > maxContentLength {
		text = string(runes[:maxContentLength]) + "..."
	}
	return fmt.Sprintf("Content from %s:\n\n%s", target, text), nil
}

// reduceHTML converts an HTML page to markdown for the model, falling back
// to bare text extraction when conversion fails.
func reduceHTML(html string) string {
	converter := md.NewConverter("", true, nil)
	converter.Remove("script", "style", "noscript", "meta", "link")

	markdown, err := converter.ConvertString(html)
	if err == nil && strings.TrimSpace(markdown) != "" {
		return strings.TrimSpace(markdown)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	doc.Find("script, style, noscript, iframe").Remove()
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(doc.Text(), " "))
}

// serpResponse mirrors the subset of the SerpAPI payload the formatter
// reads.
type serpResponse struct {
	KnowledgeGraph *struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Source      *struct {
			Link string `json:"link"`
		} `json:"source"`
	} `json:"knowledge_graph"`
	AnswerBox *struct {
		Answer  string `json:"answer"`
		Snippet string `json:"snippet"`
		Title   string `json:"title"`
		Link    string `json:"link"`
	} `json:"answer_box"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	LocalResults []struct {
		Title   string  `json:"title"`
		Address string  `json:"address"`
		Phone   string  `json:"phone"`
		Rating  float64 `json:"rating"`
	} `json:"local_results"`
	Error string `json:"error"`
}

// performSearch runs a Google search through SerpAPI. All failure modes
// return a human-readable string with a fallback search link.
func (s *searchClient) performSearch(ctx context.Context, query string, numResults int) string {
	fallback := "https://www.google.com/search?q=" + url.QueryEscape(query)

	if s.apiKey == "" {
		return fmt.Sprintf("🔍 Web search requires SerpAPI key. Get one at https://serpapi.com/\nFallback: %s", fallback)
	}

	reqCtx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.searchURL(query, numResults), nil)
	if err != nil {
		return fmt.Sprintf("Search failed: API error. Try: %s", fallback)
	}
	req.Header.Set("User-Agent", searchUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		reason := "API error"
		if errors.Is(err, context.DeadlineExceeded) || reqCtx.Err() != nil {
			reason = "timeout"
		}
		return fmt.Sprintf("Search failed: %s. Try: %s", reason, fallback)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Search failed: API error. Try: %s", fallback)
	}

	var data serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil || data.Error != "" {
		return fmt.Sprintf("Search failed: API error. Try: %s", fallback)
	}

	return formatSearchResults(&data, query, numResults, fallback)
}

func (s *searchClient) searchURL(query string, numResults int) string {
	if numResults > 10 {
		numResults = 10
	}
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", query)
	params.Set("api_key", s.apiKey)
	params.Set("num", fmt.Sprintf("%d", numResults))
	return s.baseURL + "?" + params.Encode()
}

func formatSearchResults(data *serpResponse, query string, numResults int, fallback string) string {
	var results []string

	if kg := data.KnowledgeGraph; kg != nil && kg.Title != "" && kg.Description != "" {
		results = append(results, fmt.Sprintf("**%s**\n%s", kg.Title, kg.Description))
		if kg.Source != nil && kg.Source.Link != "" {
			results = append(results, fmt.Sprintf("Source: %s", kg.Source.Link))
		}
	}

	if ab := data.AnswerBox; ab != nil {
		switch {
		case ab.Answer != "":
			results = append(results, fmt.Sprintf("**Answer**: %s", ab.Answer))
		case ab.Snippet != "":
			title := ab.Title
			if title == "" {
				title = "Answer"
			}
			results = append(results, fmt.Sprintf("**%s**: %s", title, ab.Snippet))
		}
		if ab.Link != "" {
			results = append(results, fmt.Sprintf("Source: %s", ab.Link))
		}
	}

	if len(data.OrganicResults) > 0 {
		results = append(results, "\n**Search Results:**")
		for i, r := range data.OrganicResults {
			if i >= numResults {
				break
			}
			if r.Title == "" || r.Link == "" {
				continue
			}
			lines := []string{fmt.Sprintf("%d. **%s**", i+1, r.Title)}
			if r.Snippet != "" {
				lines = append(lines, fmt.Sprintf("   %s", r.Snippet))
			}
			lines = append(lines, fmt.Sprintf("   Link: %s", r.Link))
			results = append(results, strings.Join(lines, "\n"))
		}
	}

	if len(data.LocalResults) > 0 {
		results = append(results, "\n**Local Results:**")
		for i, r := range data.LocalResults {
			if i >= 3 {
				break
			}
			if r.Title == "" {
				continue
			}
			lines := []string{fmt.Sprintf("%d. **%s**", i+1, r.Title)}
			if r.Address != "" {
				lines = append(lines, fmt.Sprintf("   Address: %s", r.Address))
			}
			if r.Phone != "" {
				lines = append(lines, fmt.Sprintf("   Phone: %s", r.Phone))
			}
			if r.Rating > 0 {
				lines = append(lines, fmt.Sprintf("   Rating: %g stars", r.Rating))
			}
			results = append(results, strings.Join(lines, "\n"))
		}
	}

	if len(results) == 0 {
		return fmt.Sprintf("No results found for %q. Try: %s", query, fallback)
	}
	return fmt.Sprintf("🔍 Search results for %q:\n\n%s", query, strings.Join(results, "\n\n"))
}
