package store

// State is an immutable snapshot of loaded posts keyed by ID.
//
// The zero value is the empty store. A State is never modified after it is
// built; [Reduce] returns a new one. Iteration order is the order in which ids
// first appeared.
type State struct {
	posts map[ID]Post
	order []ID
}

// Empty returns the empty store.
func Empty() State {
	return State{}
}

// Len returns the number of loaded posts.
func (s State) Len() int {
	return len(s.order)
}

// Get returns the post for id. ok is false when the post is not loaded.
func (s State) Get(id ID) (Post, bool) {
	p, ok := s.posts[id]
	return p, ok
}

// Has reports whether id is loaded.
func (s State) Has(id ID) bool {
	_, ok := s.posts[id]
	return ok
}

// Keys returns the loaded ids in store order.
func (s State) Keys() []ID {
	keys := make([]ID, len(s.order))
	copy(keys, s.order)
	return keys
}

// Posts returns the loaded posts in store order.
func (s State) Posts() []Post {
	posts := make([]Post, 0, len(s.order))
	for _, id := range s.order {
		posts = append(posts, s.posts[id])
	}
	return posts
}

// Equal reports whether both stores hold the same posts. Order is ignored.
func (s State) Equal(other State) bool {
	if len(s.posts) != len(other.posts) {
		return false
	}
	for id, p := range s.posts {
		q, ok := other.posts[id]
		if !ok || p != q {
			return false
		}
	}
	return true
}

// with returns a copy of s with post set.
func (s State) with(post Post) State {
	if _, exists := s.posts[post.ID]; exists {
		posts := make(map[ID]Post, len(s.posts))
		for id, p := range s.posts {
			posts[id] = p
		}
		posts[post.ID] = post
		return State{posts: posts, order: s.order}
	}

	posts := make(map[ID]Post, len(s.posts)+1)
	for id, p := range s.posts {
		posts[id] = p
	}
	posts[post.ID] = post

	order := make([]ID, len(s.order), len(s.order)+1)
	copy(order, s.order)
	order = append(order, post.ID)

	return State{posts: posts, order: order}
}

// without returns a copy of s with id removed, or s itself if id is absent.
func (s State) without(id ID) State {
	if _, exists := s.posts[id]; !exists {
		return s
	}

	posts := make(map[ID]Post, len(s.posts)-1)
	for k, p := range s.posts {
		if k != id {
			posts[k] = p
		}
	}

	order := make([]ID, 0, len(s.order)-1)
	for _, k := range s.order {
		if k != id {
			order = append(order, k)
		}
	}

	return State{posts: posts, order: order}
}

// fromPosts builds a store from posts. Later duplicates win.
func fromPosts(posts []Post) State {
	if len(posts) == 0 {
		return State{}
	}
	m := make(map[ID]Post, len(posts))
	order := make([]ID, 0, len(posts))
	for _, p := range posts {
		if _, seen := m[p.ID]; !seen {
			order = append(order, p.ID)
		}
		m[p.ID] = p
	}
	return State{posts: m, order: order}
}
