package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.twitter.com/2"
	DefaultTimeout = 30 * time.Second
)

// tweetFields is the pinned field list requested for every lookup. The
// eligibility and scoring stages depend on created_at, text, withheld
// and public_metrics being populated.
var tweetFields = []string{
	"author_id",
	"context_annotations",
	"conversation_id",
	"created_at",
	"in_reply_to_user_id",
	"public_metrics",
	"source",
	"text",
	"withheld",
}

// ErrTweetNotFound is returned when the API responds without tweet data.
var ErrTweetNotFound = errors.New("tweet not found")

// Client fetches tweets using an app-only bearer token.
type Client struct {
	baseURL     string
	bearerToken string
	client      *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// NewClient creates a new X API v2 client.
func NewClient(bearerToken string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// tweetResponse is the raw GET /2/tweets/:id response envelope.
type tweetResponse struct {
	Data   *Tweet `json:"data"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// GetTweet retrieves a single tweet by its numeric ID with the pinned
// field list. There is no retry here: a failed fetch is terminal for the
// invocation and any re-invocation belongs to the surrounding runtime.
func (c *Client) GetTweet(ctx context.Context, id uint64) (*Tweet, error) {
	endpoint := fmt.Sprintf("%s/tweets/%s", c.baseURL, strconv.FormatUint(id, 10))

	query := url.Values{}
	query.Set("tweet.fields", strings.Join(tweetFields, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var envelope tweetResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if envelope.Data == nil {
		if len(envelope.Errors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrTweetNotFound, envelope.Errors[0].Title)
		}
		return nil, ErrTweetNotFound
	}

	return envelope.Data, nil
}
