// Package scrape fetches recent original tweets for an account through the
// X API v2. One lookup call resolves the handle to a user ID, one listing
// call returns a single page of tweets. No pagination, no retries.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/HugoVuach/finjuice/internal/event"
)

const defaultBaseURL = "https://api.twitter.com/2"

// Client is a bearer-token X API client.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the client
// at a local server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a Client authenticated with the given bearer token.
func NewClient(bearerToken string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   bearerToken,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("X API returned status %d: %.200s", resp.StatusCode, string(body))
	}
	return json.Unmarshal(body, out)
}

type userLookupResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type tweetListResponse struct {
	Data []event.RawPost `json:"data"`
}

// LookupUserID resolves an account handle to its numeric user ID.
func (c *Client) LookupUserID(ctx context.Context, handle string) (string, error) {
	params := url.Values{"user.fields": {"id"}}
	var resp userLookupResponse
	if err := c.get(ctx, "/users/by/username/"+url.PathEscape(handle), params, &resp); err != nil {
		return "", &ResolutionError{Handle: handle, Err: err}
	}
	if resp.Data.ID == "" {
		return "", &ResolutionError{Handle: handle, Err: fmt.Errorf("no user in response")}
	}
	slog.Info("resolved user", "handle", handle, "user_id", resp.Data.ID)
	return resp.Data.ID, nil
}

// CollectTweets returns up to clamp(maxTweets, 5, 100) of the account's most
// recent original tweets, excluding retweets and replies, newest first. An
// account with no qualifying tweets yields an empty slice and no error.
func (c *Client) CollectTweets(ctx context.Context, handle string, maxTweets int) ([]event.RawPost, error) {
	userID, err := c.LookupUserID(ctx, handle)
	if err != nil {
		return nil, err
	}

	// The API rejects max_results outside [5, 100].
	maxResults := min(max(maxTweets, 5), 100)

	params := url.Values{
		"max_results":  {strconv.Itoa(maxResults)},
		"exclude":      {"retweets,replies"},
		"tweet.fields": {"created_at"},
	}
	var resp tweetListResponse
	if err := c.get(ctx, "/users/"+userID+"/tweets", params, &resp); err != nil {
		return nil, &FetchError{Handle: handle, Err: err}
	}

	slog.Info("tweets retrieved", "handle", handle, "count", len(resp.Data))
	return resp.Data, nil
}
