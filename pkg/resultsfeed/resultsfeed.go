// Package resultsfeed provides a client for a published contest results feed.
//
// The feed exposes two JSON documents under its base URL:
//
//	GET {base}/participants  -> {"contest": "...", "participants": [...]}
//	GET {base}/results       -> {"contest": "...", "results": [...]}
//
// Ranks may be published as numbers, numeric strings or null while voting
// is still being counted.
package resultsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/abrezinsky/eurovote/internal/logger"
)

// FlexRank is a rank that can be unmarshaled from a number, a numeric
// string, or null. Zero, negative, blank and null values mean "not yet known".
type FlexRank struct {
	value int
	set   bool
}

// UnmarshalJSON implements json.Unmarshaler for FlexRank
func (f *FlexRank) UnmarshalJSON(data []byte) error {
	*f = FlexRank{}
	if string(data) == "null" {
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		return f.parse(n.String())
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return f.parse(strings.TrimSpace(s))
	}

	return fmt.Errorf("FlexRank: cannot unmarshal %s", string(data))
}

func (f *FlexRank) parse(s string) error {
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("FlexRank: %q is not an integer", s)
	}
	if v > 0 {
		f.value = v
		f.set = true
	}
	return nil
}

// MarshalJSON implements json.Marshaler for FlexRank
func (f FlexRank) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(f.value)), nil
}

// Ptr returns the rank, or nil if it is not known
func (f FlexRank) Ptr() *int {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// Rank builds a known FlexRank
func Rank(v int) FlexRank {
	if v <= 0 {
		return FlexRank{}
	}
	return FlexRank{value: v, set: true}
}

// Participant is an entry in the contest
type Participant struct {
	CountryCode  string `json:"country_code"`
	Country      string `json:"country"`
	Artist       string `json:"artist"`
	Song         string `json:"song"`
	RunningOrder int    `json:"running_order"`
}

// Result holds the official placings of one entry
type Result struct {
	CountryCode  string   `json:"country_code"`
	Country      string   `json:"country"`
	FinalRank    FlexRank `json:"final_rank"`
	JuryRank     FlexRank `json:"jury_rank"`
	TelevoteRank FlexRank `json:"televote_rank"`
}

// ParticipantsResponse is the response from the participants document
type ParticipantsResponse struct {
	Contest      string        `json:"contest"`
	Participants []Participant `json:"participants"`
}

// ResultsResponse is the response from the results document
type ResultsResponse struct {
	Contest string   `json:"contest"`
	Results []Result `json:"results"`
}

// Client defines the interface for results feed operations
type Client interface {
	// FetchParticipants retrieves the list of entries
	FetchParticipants(ctx context.Context) ([]Participant, error)
	// FetchResults retrieves the official placings
	FetchResults(ctx context.Context) ([]Result, error)
	// SetToken configures a bearer token sent with every request
	SetToken(token string)
	// BaseURL returns the configured feed base URL
	BaseURL() string
	// SetBaseURL updates the feed base URL
	SetBaseURL(url string)
}

// HTTPClient is a real HTTP client for the results feed
type HTTPClient struct {
	mu         sync.RWMutex
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new results feed HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return NewHTTPClientWithHTTPClient(baseURL, &http.Client{Timeout: 30 * time.Second}, log)
}

// NewHTTPClientWithHTTPClient creates a new results feed client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured feed base URL
func (c *HTTPClient) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL updates the feed base URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(url, "/")
}

// SetToken configures a bearer token sent with every request
func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// getJSON fetches {base}/{doc} and decodes it into response
func (c *HTTPClient) getJSON(ctx context.Context, doc string, response interface{}) error {
	c.mu.RLock()
	base, token := c.baseURL, c.token
	c.mu.RUnlock()

	if base == "" {
		return fmt.Errorf("results feed URL is not configured")
	}
	reqURL := fmt.Sprintf("%s/%s", base, doc)

	c.log.Debug("Results feed request", "method", "GET", "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to results feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Results feed response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("results feed returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchParticipants retrieves the list of entries
func (c *HTTPClient) FetchParticipants(ctx context.Context) ([]Participant, error) {
	var response ParticipantsResponse
	if err := c.getJSON(ctx, "participants", &response); err != nil {
		return nil, err
	}
	return response.Participants, nil
}

// FetchResults retrieves the official placings
func (c *HTTPClient) FetchResults(ctx context.Context) ([]Result, error) {
	var response ResultsResponse
	if err := c.getJSON(ctx, "results", &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
