// Package client provides an HTTP client for the SmartContent API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ContentItem represents a catalogued item from the content engine.
type ContentItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
	ImageURL    string   `json:"image_url,omitempty"`
	SourceURL   string   `json:"source_url,omitempty"`

	Article *ArticleMeta `json:"article,omitempty"`
	Video   *VideoMeta   `json:"video,omitempty"`
	Product *ProductMeta `json:"product,omitempty"`

	Stats     Stats     `json:"stats"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ArticleMeta is only present on items of kind article.
type ArticleMeta struct {
	Source      string     `json:"source,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// VideoMeta is only present on items of kind video.
type VideoMeta struct {
	Duration string `json:"duration,omitempty"`
}

// ProductMeta is only present on items of kind product.
type ProductMeta struct {
	Price float64 `json:"price"`
}

// Stats are the engagement counters attached to a content item.
type Stats struct {
	Views         uint64  `json:"views"`
	Likes         uint64  `json:"likes"`
	AverageRating float64 `json:"average_rating"`
	TotalRatings  uint64  `json:"total_ratings"`
}

// Overview is the engine-wide aggregate snapshot.
type Overview struct {
	TotalContent      int64  `json:"total_content"`
	TotalUsers        int64  `json:"total_users"`
	TotalInteractions int64  `json:"total_interactions"`
	TotalViews        uint64 `json:"total_views"`
	TotalLikes        uint64 `json:"total_likes"`
}

// InteractionResult is what the API returns after recording an interaction.
type InteractionResult struct {
	Outcome string `json:"outcome"`
	Stats   Stats  `json:"stats"`
}

// ContentResponse represents the paginated response for content lists.
type ContentResponse struct {
	Data     []ContentItem `json:"data"`
	Metadata struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"metadata"`
}

// RecommendationsResponse represents the recommendations list response.
type RecommendationsResponse struct {
	Data     []ContentItem `json:"data"`
	Metadata struct {
		Personalized bool `json:"personalized"`
	} `json:"metadata"`
}

type itemsResponse struct {
	Data []ContentItem `json:"data"`
}

// SearchFilters contains search parameters for listing content.
type SearchFilters struct {
	Query    string
	Kind     string
	Category string
	Page     int
	PageSize int
}

// Client is an HTTP client for the SmartContent API.
type Client struct {
	baseURL    string
	apiToken   string
	userID     string
	httpClient *http.Client
}

// NewClient creates a new API client. The token is sent as a bearer token
// when set; the user ID is sent as the X-User-ID development header.
func NewClient(baseURL, apiToken, userID string) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiToken: apiToken,
		userID:   userID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	return c.doRequestWithBody(ctx, method, path, nil)
}

func (c *Client) doRequestWithBody(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

func (c *Client) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func (f SearchFilters) queryParams() url.Values {
	params := url.Values{}

	if f.Query != "" {
		params.Set("q", f.Query)
	}
	if f.Kind != "" {
		params.Set("kind", f.Kind)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(f.PageSize))
	}

	return params
}

// SearchContent searches the content catalog with the given filters.
func (c *Client) SearchContent(ctx context.Context, filters SearchFilters) (*ContentResponse, error) {
	params := filters.queryParams()

	path := "/v1/content"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var result ContentResponse
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetContent retrieves a single content item by ID.
func (c *Client) GetContent(ctx context.Context, contentID string) (*ContentItem, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/content/"+url.PathEscape(contentID))
	if err != nil {
		return nil, err
	}

	var item ContentItem
	if err := c.handleResponse(resp, &item); err != nil {
		return nil, err
	}

	return &item, nil
}

// GetRanking retrieves a content ranking of the given kind, one of
// most_viewed, most_liked, top_rated, or trending.
func (c *Client) GetRanking(ctx context.Context, ranking string, limit int) ([]ContentItem, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/rankings/" + url.PathEscape(ranking)
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var result itemsResponse
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}

	return result.Data, nil
}

// GetSimilarContent finds items similar to the given content item.
func (c *Client) GetSimilarContent(ctx context.Context, contentID string, limit int) ([]ContentItem, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/content/" + url.PathEscape(contentID) + "/similar"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var result itemsResponse
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}

	return result.Data, nil
}

// GetRecommendations retrieves personalized content recommendations.
func (c *Client) GetRecommendations(ctx context.Context, limit int) (*RecommendationsResponse, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	path := "/v1/recommendations"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return nil, err
	}

	var result RecommendationsResponse
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// RecordInteraction records a view, like toggle, or rating against a
// content item as the authenticated user.
func (c *Client) RecordInteraction(ctx context.Context, contentID, kind string, rating int) (*InteractionResult, error) {
	reqBody := struct {
		Kind   string `json:"kind"`
		Rating int    `json:"rating,omitempty"`
	}{
		Kind:   kind,
		Rating: rating,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshalling request: %w", err)
	}

	path := "/v1/content/" + url.PathEscape(contentID) + "/interactions"
	resp, err := c.doRequestWithBody(ctx, http.MethodPost, path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}

	var result InteractionResult
	if err := c.handleResponse(resp, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetOverview retrieves the engine-wide aggregate snapshot.
func (c *Client) GetOverview(ctx context.Context) (*Overview, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/overview")
	if err != nil {
		return nil, err
	}

	var overview Overview
	if err := c.handleResponse(resp, &overview); err != nil {
		return nil, err
	}

	return &overview, nil
}
