package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "researchhub/internal/errors"
)

const searchFields = "title,abstract,authors,year,citationCount,url,openAccessPdf,venue"

// Config holds the settings for the academic search provider.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client queries the Semantic Scholar Graph API.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a new search client.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: httpClient}
}

// Paper is one search result in the shape the front-end consumes.
type Paper struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Authors   string `json:"authors"`
	Year      string `json:"year"`
	Citations int    `json:"citations"`
	URL       string `json:"url"`
	PDFURL    string `json:"pdf_url,omitempty"`
	Venue     string `json:"venue"`
}

type searchResponse struct {
	Total int `json:"total"`
	Data  []struct {
		PaperID  string `json:"paperId"`
		Title    string `json:"title"`
		Abstract string `json:"abstract"`
		Year     int    `json:"year"`
		Authors  []struct {
			Name string `json:"name"`
		} `json:"authors"`
		CitationCount int    `json:"citationCount"`
		URL           string `json:"url"`
		OpenAccessPdf *struct {
			URL string `json:"url"`
		} `json:"openAccessPdf"`
		Venue string `json:"venue"`
	} `json:"data"`
}

// Search returns up to limit papers matching the query.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Paper, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", searchFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/paper/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("x-api-key", c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamProvider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", apperrors.ErrUpstreamProvider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", apperrors.ErrUpstreamProvider, resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", apperrors.ErrUpstreamProvider, err)
	}

	papers := make([]Paper, 0, len(parsed.Data))
	for _, item := range parsed.Data {
		names := make([]string, 0, len(item.Authors))
		for _, a := range item.Authors {
			names = append(names, a.Name)
		}
		year := ""
		if item.Year != 0 {
			year = strconv.Itoa(item.Year)
		}
		paper := Paper{
			ID:        item.PaperID,
			Source:    "semantic_scholar",
			Title:     item.Title,
			Abstract:  item.Abstract,
			Authors:   strings.Join(names, ", "),
			Year:      year,
			Citations: item.CitationCount,
			URL:       item.URL,
			Venue:     item.Venue,
		}
		if item.OpenAccessPdf != nil {
			paper.PDFURL = item.OpenAccessPdf.URL
		}
		papers = append(papers, paper)
	}
	return papers, nil
}
