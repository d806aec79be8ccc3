// Package client binds views to the post store.
//
// A [Client] owns a [Dispatcher] and a [Remote]. Read views project from the
// current snapshot; write intents talk to the remote and dispatch exactly one
// action when they complete:
//
//   - RequestFetchAll dispatches FetchAll after a successful response
//   - RequestFetchOne dispatches FetchOne after a successful response
//   - RequestCreate validates, then dispatches FetchOne with the created post
//   - RequestDelete dispatches Delete before the remote call, and never rolls back
//
// Failed fetches and creates dispatch nothing, so the store is left as it was.
package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/ftsanjuan/modern-react-redux-blog/remote"
	"github.com/ftsanjuan/modern-react-redux-blog/store"
)

// Remote is the remote post collection.
type Remote interface {
	ListPosts(ctx context.Context) ([]store.Post, error)
	GetPost(ctx context.Context, id store.ID) (store.Post, error)
	CreatePost(ctx context.Context, fields store.Fields) (store.Post, error)
	DeletePost(ctx context.Context, id store.ID) error
}

var (
	_ Remote = (*remote.HTTP)(nil)
	_ Remote = (*remote.Dynamo)(nil)
)

// Client connects views to the store and the remote collection.
type Client struct {
	remote     Remote
	dispatcher *Dispatcher
	logger     *slog.Logger

	mu      sync.Mutex
	lookups map[store.ID]Status
}

// New creates a Client with its own empty store.
func New(r Remote, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return NewWithDispatcher(r, NewDispatcher(store.Reduce, logger), logger)
}

// NewWithDispatcher creates a Client on an existing dispatcher, so that other
// producers (such as a stream handler) can feed the same store.
func NewWithDispatcher(r Remote, d *Dispatcher, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		remote:     r,
		dispatcher: d,
		logger:     logger,
		lookups:    make(map[store.ID]Status),
	}
}

// Dispatcher returns the dispatcher owning the store.
func (c *Client) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// State returns the current store snapshot.
func (c *Client) State() store.State {
	return c.dispatcher.State()
}

// List returns the posts for a listing view.
func (c *Client) List() []store.Post {
	return ListView(c.State())
}

// Detail returns the projection for a detail view of id.
func (c *Client) Detail(id store.ID) Detail {
	if p, ok := DetailView(c.State(), id); ok {
		return Detail{Post: p, Status: StatusLoaded}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Detail{Status: c.lookups[id]}
}

// Subscribe calls fn with each new store snapshot. See Dispatcher.Subscribe.
func (c *Client) Subscribe(fn func(store.State)) (cancel func()) {
	return c.dispatcher.Subscribe(fn)
}

// Close stops the dispatcher.
func (c *Client) Close() {
	c.dispatcher.Close()
}

// RequestFetchAll fetches the whole collection and replaces the store with it.
func (c *Client) RequestFetchAll(ctx context.Context) error {
	posts, err := c.remote.ListPosts(ctx)
	if err != nil {
		c.logger.Error("failed to fetch posts", "error", err)
		return err
	}
	return c.dispatch(ctx, store.FetchAll{Posts: posts})
}

// RequestFetchOne fetches a single post and merges it into the store.
// A not-found answer is recorded for Detail and dispatches nothing.
func (c *Client) RequestFetchOne(ctx context.Context, id store.ID) error {
	c.setLookup(id, StatusLoading)

	post, err := c.remote.GetPost(ctx, id)
	if err != nil {
		if errors.Is(err, remote.ErrNotFound) {
			c.setLookup(id, StatusNotFound)
			c.logger.Info("post not found", "id", id)
			return err
		}
		c.logger.Error("failed to fetch post", "id", id, "error", err)
		return err
	}

	if err := c.dispatch(ctx, store.FetchOne{Post: post}); err != nil {
		return err
	}
	c.clearLookup(id)
	return nil
}

// RequestCreate validates fields, creates the post remotely and merges it
// into the store. Invalid fields are returned as store.ValidationErrors
// without contacting the remote.
func (c *Client) RequestCreate(ctx context.Context, fields store.Fields) (store.Post, error) {
	if errs := store.Validate(fields); !errs.OK() {
		return store.Post{}, errs
	}

	post, err := c.remote.CreatePost(ctx, fields)
	if err != nil {
		c.logger.Error("failed to create post", "error", err)
		return store.Post{}, err
	}

	if err := c.dispatch(ctx, store.FetchOne{Post: post}); err != nil {
		return post, err
	}
	c.logger.Info("created post", "id", post.ID)
	return post, nil
}

// RequestDelete removes the post from the store immediately, then deletes it
// remotely. The post is not restored if the remote call fails.
func (c *Client) RequestDelete(ctx context.Context, id store.ID) error {
	if err := c.dispatch(ctx, store.Delete{ID: id}); err != nil {
		return err
	}

	if err := c.remote.DeletePost(ctx, id); err != nil {
		// No rollback, the local store already dropped the post
		c.logger.Warn("remote delete failed", "id", id, "error", err)
		return err
	}
	c.logger.Info("deleted post", "id", id)
	return nil
}

// dispatch sends action and waits until it is applied or ctx ends.
// Once queued, the action is applied even if ctx ends first.
func (c *Client) dispatch(ctx context.Context, action store.Action) error {
	applied, ok := c.dispatcher.TryDispatch(action)
	if !ok {
		return ErrClosed
	}

	select {
	case <-applied:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) setLookup(id store.ID, s Status) {
	c.mu.Lock()
	c.lookups[id] = s
	c.mu.Unlock()
}

func (c *Client) clearLookup(id store.ID) {
	c.mu.Lock()
	delete(c.lookups, id)
	c.mu.Unlock()
}
