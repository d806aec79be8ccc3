package client

import "github.com/ftsanjuan/modern-react-redux-blog/store"

// ListView returns the posts to render in a listing, in store order.
func ListView(s store.State) []store.Post {
	return s.Posts()
}

// DetailView looks up a single post. ok is false while the post is not loaded.
func DetailView(s store.State, id store.ID) (post store.Post, ok bool) {
	return s.Get(id)
}

// Status describes where a single post lookup stands.
type Status int

const (
	// StatusNotRequested means the post is not loaded and nobody asked for it.
	StatusNotRequested Status = iota
	// StatusLoading means a fetch was issued and has not produced the post.
	// A failed fetch stays in this state.
	StatusLoading
	// StatusNotFound means the remote answered that the post does not exist.
	StatusNotFound
	// StatusLoaded means the post is in the store.
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusNotRequested:
		return "not requested"
	case StatusLoading:
		return "loading"
	case StatusNotFound:
		return "not found"
	case StatusLoaded:
		return "loaded"
	}
	return "unknown"
}

// Detail is the projection consumed by a detail view.
type Detail struct {
	Post   store.Post
	Status Status
}
