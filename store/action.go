package store

// Action type tags.
const (
	TypeFetchAll = "FETCH_POSTS"
	TypeFetchOne = "FETCH_POST"
	TypeDelete   = "DELETE_POST"
)

// Action describes a state transition applied by [Reduce].
type Action interface {
	// ActionType returns the tag identifying the transition.
	ActionType() string
}

// FetchAll carries the full collection returned by the server.
type FetchAll struct {
	Posts []Post
}

// ActionType implements Action.
func (FetchAll) ActionType() string { return TypeFetchAll }

// FetchOne carries a single fetched or newly created post.
type FetchOne struct {
	Post Post
}

// ActionType implements Action.
func (FetchOne) ActionType() string { return TypeFetchOne }

// Delete removes the post with ID.
type Delete struct {
	ID ID
}

// ActionType implements Action.
func (Delete) ActionType() string { return TypeDelete }
