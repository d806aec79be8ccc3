// Package remote implements the remote post collections the store client talks to.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/ftsanjuan/modern-react-redux-blog/store"
)

// HTTP is a client for the JSON posts API.
type HTTP struct {
	client *http.Client
	config HTTPConfig
	logger *slog.Logger
}

// NewHTTP creates a new HTTP remote. A nil client uses a client with config.Timeout.
func NewHTTP(client *http.Client, config HTTPConfig, logger *slog.Logger) *HTTP {
	config.validate()
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTP{
		client: client,
		config: config,
		logger: logger,
	}
}

// ListPosts fetches the full collection.
func (h *HTTP) ListPosts(ctx context.Context) ([]store.Post, error) {
	var posts []store.Post
	if err := h.do(ctx, http.MethodGet, h.postsURL(""), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost fetches a single post, returning ErrNotFound if the server has none.
func (h *HTTP) GetPost(ctx context.Context, id store.ID) (store.Post, error) {
	var post store.Post
	if err := h.do(ctx, http.MethodGet, h.postsURL(id), nil, &post); err != nil {
		return store.Post{}, err
	}
	return post, nil
}

// CreatePost submits fields and returns the post as stored by the server.
func (h *HTTP) CreatePost(ctx context.Context, fields store.Fields) (store.Post, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return store.Post{}, fmt.Errorf("marshal fields: %w", err)
	}
	var post store.Post
	if err := h.do(ctx, http.MethodPost, h.postsURL(""), body, &post); err != nil {
		return store.Post{}, err
	}
	return post, nil
}

// DeletePost deletes a post on the server.
func (h *HTTP) DeletePost(ctx context.Context, id store.ID) error {
	return h.do(ctx, http.MethodDelete, h.postsURL(id), nil, nil)
}

// postsURL builds the collection URL, or the member URL when id is set.
func (h *HTTP) postsURL(id store.ID) string {
	u := h.config.BaseURL + "/posts"
	if id != "" {
		u += "/" + url.PathEscape(id.String())
	}
	if h.config.APIKey != "" {
		u += "?key=" + url.QueryEscape(h.config.APIKey)
	}
	return u
}

// do sends a request and decodes a JSON response into out when out is non-nil.
// GET requests are retried when no response was received.
func (h *HTTP) do(ctx context.Context, method, u string, body []byte, out any) error {
	attempts := 1
	if method == http.MethodGet {
		attempts += h.config.Retries
	}

	var (
		resp *http.Response
		err  error
	)
	for i := 0; i < attempts; i++ {
		resp, err = h.send(ctx, method, u, body)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if i < attempts-1 {
			h.logger.Debug("retrying request",
				"method", method,
				"attempt", i+1,
				"error", err,
			)
			if err := sleep(ctx, h.config.RetryDelay); err != nil {
				return err
			}
		}
	}
	if err != nil {
		return fmt.Errorf("%s posts: %w", method, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Method: method, URL: resp.Request.URL.Path, StatusCode: resp.StatusCode}
	}

	if out == nil {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("decode %s response: empty body", method)
		}
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	return nil
}

func (h *HTTP) send(ctx context.Context, method, u string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return nil, redactURL(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, redactURL(err)
	}
	return resp, nil
}

// redactURL strips the query, and with it the API key, from the URL that
// net/http puts into transport errors.
func redactURL(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	redacted := ""
	if u, perr := url.Parse(uerr.URL); perr == nil {
		u.RawQuery = ""
		u.User = nil
		redacted = u.String()
	}
	return &url.Error{Op: uerr.Op, URL: redacted, Err: uerr.Err}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
