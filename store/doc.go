// Package store provides the normalized client-side entity store for posts.
//
// Posts are held keyed by their [ID] in an immutable [State]. The only way to
// derive a new State is [Reduce], a pure function applying an [Action]:
//
//	state := store.Empty()
//	state = store.Reduce(state, store.FetchAll{Posts: posts})
//	state = store.Reduce(state, store.Delete{ID: "1"})
//
// # Actions
//
//   - [FetchAll] - authoritative refresh; replaces the whole store
//   - [FetchOne] - merges a single fetched or created post
//   - [Delete] - removes a post; removing a missing id is a no-op
//
// The action set is open. Any other type implementing [Action] is accepted by
// Reduce and leaves the state unchanged.
//
// # Optimistic deletes
//
// Delete is applied locally before the remote deletion is confirmed. Nothing
// reintroduces the post if the remote call later fails, and a [FetchAll]
// applied after a Delete brings the post back if the server still returns it.
//
// # Validation
//
// [Validate] checks create [Fields] before anything is sent or dispatched.
package store
