package searchclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"funstar-catalog/internal/models"
)

// HTTPSearcher calls the catalog's /search endpoint.
type HTTPSearcher struct {
	baseURL string
	limit   int
	http    *http.Client
}

// NewHTTPSearcher creates a searcher for the catalog served at baseURL,
// e.g. "http://localhost:8080" or "http://localhost:8080/api".
func NewHTTPSearcher(baseURL string) *HTTPSearcher {
	return &HTTPSearcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		limit:   models.DefaultSearchLimit,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Search runs one query. Any non-2xx status is an error.
func (s *HTTPSearcher) Search(ctx context.Context, query, category string) ([]models.Movie, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("category", category)
	params.Set("limit", strconv.Itoa(s.limit))
	target := s.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	slog.Debug("searching catalog", "query", query, "category", category)
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var movies []models.Movie
	if err := json.NewDecoder(resp.Body).Decode(&movies); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return movies, nil
}
