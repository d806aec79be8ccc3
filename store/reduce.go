package store

// Reducer computes the next state for an action.
type Reducer func(state State, action Action) State

// Reduce applies action to state and returns the resulting state.
// It is pure and total: unknown or nil actions return state unchanged and the
// input is never modified.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case FetchAll:
		// Authoritative refresh, ids missing from the response are dropped.
		return fromPosts(a.Posts)

	case FetchOne:
		return state.with(a.Post)

	case Delete:
		return state.without(a.ID)

	case *FetchAll:
		if a != nil {
			return fromPosts(a.Posts)
		}
	case *FetchOne:
		if a != nil {
			return state.with(a.Post)
		}
	case *Delete:
		if a != nil {
			return state.without(a.ID)
		}
	}

	return state
}
