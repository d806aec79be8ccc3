package store_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ftsanjuan/modern-react-redux-blog/store"
)

// --- Fixtures ---

var (
	postA = store.Post{ID: "1", Title: "A", Categories: "go", Content: "first"}
	postB = store.Post{ID: "2", Title: "B", Categories: "redux", Content: "second"}
	postC = store.Post{ID: "2", Title: "C", Categories: "misc", Content: "third"}
)

// stateOf builds a store through the public API only.
func stateOf(posts ...store.Post) store.State {
	return store.Reduce(store.Empty(), store.FetchAll{Posts: posts})
}

// unknownAction is an action type the reducer knows nothing about.
type unknownAction struct{}

func (unknownAction) ActionType() string { return "CREATE_POST" }

// --- Reduce: FetchAll ---

func TestReduce_FetchAll_FromEmpty(t *testing.T) {
	result := store.Reduce(store.Empty(), store.FetchAll{Posts: []store.Post{postA, postB}})

	if result.Len() != 2 {
		t.Fatalf("expected 2 posts, got %d", result.Len())
	}
	if got, _ := result.Get("1"); got != postA {
		t.Errorf("expected %+v at 1, got %+v", postA, got)
	}
	if got, _ := result.Get("2"); got != postB {
		t.Errorf("expected %+v at 2, got %+v", postB, got)
	}
}

func TestReduce_FetchAll_ReplacesStore(t *testing.T) {
	stale := store.Post{ID: "99", Title: "stale"}
	before := stateOf(postA, stale)

	result := store.Reduce(before, store.FetchAll{Posts: []store.Post{postB}})

	if result.Has("99") || result.Has("1") {
		t.Errorf("expected ids absent from the response to be dropped, got keys %v", result.Keys())
	}
	if !result.Has("2") {
		t.Error("expected id 2 to be present")
	}
}

func TestReduce_FetchAll_DuplicateLaterWins(t *testing.T) {
	result := store.Reduce(store.Empty(), store.FetchAll{Posts: []store.Post{postB, postA, postC}})

	if result.Len() != 2 {
		t.Fatalf("expected 2 posts, got %d", result.Len())
	}
	if got, _ := result.Get("2"); got != postC {
		t.Errorf("expected later duplicate %+v, got %+v", postC, got)
	}
}

func TestReduce_FetchAll_KeySetMatchesInput(t *testing.T) {
	inputs := [][]store.Post{
		nil,
		{postA},
		{postA, postB},
		{postB, postA},
	}

	for i, posts := range inputs {
		t.Run(fmt.Sprintf("input_%d", i), func(t *testing.T) {
			result := store.Reduce(stateOf(store.Post{ID: "x"}), store.FetchAll{Posts: posts})

			if result.Len() != len(posts) {
				t.Fatalf("expected %d keys, got %d", len(posts), result.Len())
			}
			for _, p := range posts {
				got, ok := result.Get(p.ID)
				if !ok || got != p {
					t.Errorf("expected %+v for id %q, got %+v (ok=%v)", p, p.ID, got, ok)
				}
			}
		})
	}
}

func TestReduce_FetchAll_OrderIndependent(t *testing.T) {
	forward := stateOf(postA, postB)
	backward := stateOf(postB, postA)

	if !forward.Equal(backward) {
		t.Error("expected input order not to affect store contents")
	}
}

// --- Reduce: FetchOne ---

func TestReduce_FetchOne_Merges(t *testing.T) {
	before := stateOf(postA)
	fetched := store.Post{ID: "2", Title: "C"}

	result := store.Reduce(before, store.FetchOne{Post: fetched})

	if result.Len() != 2 {
		t.Fatalf("expected 2 posts, got %d", result.Len())
	}
	if got, _ := result.Get("1"); got != postA {
		t.Errorf("expected existing post kept, got %+v", got)
	}
	if got, _ := result.Get("2"); got != fetched {
		t.Errorf("expected fetched post, got %+v", got)
	}
}

func TestReduce_FetchOne_Overwrites(t *testing.T) {
	before := stateOf(postA, postB)

	result := store.Reduce(before, store.FetchOne{Post: postC})

	if result.Len() != 2 {
		t.Fatalf("expected 2 posts, got %d", result.Len())
	}
	if got, _ := result.Get("2"); got != postC {
		t.Errorf("expected overwritten post %+v, got %+v", postC, got)
	}
	if got, _ := result.Get("1"); got != postA {
		t.Errorf("expected post 1 untouched, got %+v", got)
	}
}

func TestReduce_FetchOne_KeepsPosition(t *testing.T) {
	before := stateOf(postA, postB)

	result := store.Reduce(before, store.FetchOne{Post: postC})

	keys := result.Keys()
	if len(keys) != 2 || keys[0] != "1" || keys[1] != "2" {
		t.Errorf("expected order [1 2], got %v", keys)
	}
}

// --- Reduce: Delete ---

func TestReduce_Delete_Present(t *testing.T) {
	before := stateOf(postA, postB)

	result := store.Reduce(before, store.Delete{ID: "1"})

	if result.Has("1") {
		t.Error("expected post 1 to be removed")
	}
	if result.Len() != 1 {
		t.Fatalf("expected 1 post, got %d", result.Len())
	}
	if got, _ := result.Get("2"); got != postB {
		t.Errorf("expected post 2 unchanged, got %+v", got)
	}
}

func TestReduce_Delete_Absent(t *testing.T) {
	tests := []struct {
		name  string
		state store.State
		id    store.ID
	}{
		{name: "empty store", state: store.Empty(), id: "1"},
		{name: "other ids", state: stateOf(postA, postB), id: "3"},
		{name: "empty id", state: stateOf(postA), id: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := store.Reduce(tt.state, store.Delete{ID: tt.id})
			if !result.Equal(tt.state) {
				t.Errorf("expected unchanged store, got keys %v", result.Keys())
			}
		})
	}
}

// --- Reduce: other actions ---

func TestReduce_UnknownAction(t *testing.T) {
	before := stateOf(postA)

	result := store.Reduce(before, unknownAction{})

	if !result.Equal(before) {
		t.Errorf("expected unknown action to leave store unchanged, got %v", result.Keys())
	}
}

func TestReduce_NilAction(t *testing.T) {
	before := stateOf(postA)

	result := store.Reduce(before, nil)

	if !result.Equal(before) {
		t.Error("expected nil action to leave store unchanged")
	}
}

func TestReduce_PointerActions(t *testing.T) {
	result := store.Reduce(store.Empty(), &store.FetchAll{Posts: []store.Post{postA}})
	result = store.Reduce(result, &store.FetchOne{Post: postB})
	result = store.Reduce(result, &store.Delete{ID: "1"})

	if !result.Equal(stateOf(postB)) {
		t.Errorf("expected only post 2, got %v", result.Keys())
	}

	var nilDelete *store.Delete
	if got := store.Reduce(result, nilDelete); !got.Equal(result) {
		t.Error("expected typed nil action to be a no-op")
	}
}

// --- Purity ---

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := stateOf(postA, postB)
	snapshot := before.Posts()

	actions := []store.Action{
		store.FetchOne{Post: store.Post{ID: "3", Title: "new"}},
		store.FetchOne{Post: postC},
		store.Delete{ID: "1"},
		store.FetchAll{Posts: []store.Post{{ID: "9"}}},
	}

	for _, action := range actions {
		store.Reduce(before, action)
	}

	after := before.Posts()
	if len(after) != len(snapshot) {
		t.Fatalf("expected %d posts in input, got %d", len(snapshot), len(after))
	}
	for i := range snapshot {
		if after[i] != snapshot[i] {
			t.Errorf("input mutated at %d: %+v -> %+v", i, snapshot[i], after[i])
		}
	}
}

func TestReduce_Deterministic(t *testing.T) {
	before := stateOf(postA)
	action := store.FetchOne{Post: postB}

	first := store.Reduce(before, action)
	second := store.Reduce(before, action)

	if !first.Equal(second) {
		t.Error("expected identical results for identical arguments")
	}
}

func TestReduce_FetchAll_InputSliceReuse(t *testing.T) {
	posts := []store.Post{postA}
	result := store.Reduce(store.Empty(), store.FetchAll{Posts: posts})

	posts[0].Title = "changed"

	if got, _ := result.Get("1"); got.Title != "A" {
		t.Errorf("expected store unaffected by caller slice, got %q", got.Title)
	}
}

// --- Scenarios ---

func TestScenario_DeleteAfterFetchAll(t *testing.T) {
	state := store.Reduce(store.Empty(), store.FetchAll{Posts: []store.Post{postA, postB}})
	state = store.Reduce(state, store.Delete{ID: "1"})

	if !state.Equal(stateOf(postB)) {
		t.Errorf("expected {2:B}, got %v", state.Keys())
	}
}

func TestScenario_FetchAllAfterDeleteReintroduces(t *testing.T) {
	// A slow refresh applied after an optimistic delete brings the post back.
	state := stateOf(postA, postB)
	state = store.Reduce(state, store.Delete{ID: "1"})
	state = store.Reduce(state, store.FetchAll{Posts: []store.Post{postA, postB}})

	if !state.Has("1") {
		t.Error("expected post 1 to be reintroduced by the later refresh")
	}
}

// --- State ---

func TestState_ZeroValue(t *testing.T) {
	var s store.State

	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d", s.Len())
	}
	if _, ok := s.Get("1"); ok {
		t.Error("expected Get on zero store to miss")
	}
	if len(s.Posts()) != 0 || len(s.Keys()) != 0 {
		t.Error("expected no posts or keys")
	}
	if !s.Equal(store.Empty()) {
		t.Error("expected zero value to equal Empty()")
	}
}

func TestState_KeysIsCopy(t *testing.T) {
	s := stateOf(postA, postB)

	keys := s.Keys()
	keys[0] = "mutated"

	if s.Keys()[0] != "1" {
		t.Error("expected Keys to return a copy")
	}
}

func TestState_Equal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     store.State
		expected bool
	}{
		{name: "both empty", a: store.Empty(), b: store.Empty(), expected: true},
		{name: "same posts", a: stateOf(postA, postB), b: stateOf(postB, postA), expected: true},
		{name: "different size", a: stateOf(postA), b: stateOf(postA, postB), expected: false},
		{name: "different value", a: stateOf(postB), b: stateOf(postC), expected: false},
		{name: "different key", a: stateOf(postA), b: stateOf(store.Post{ID: "3", Title: "A"}), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

// --- Actions ---

func TestActionTypes(t *testing.T) {
	tests := []struct {
		action   store.Action
		expected string
	}{
		{store.FetchAll{}, "FETCH_POSTS"},
		{store.FetchOne{}, "FETCH_POST"},
		{store.Delete{}, "DELETE_POST"},
	}

	for _, tt := range tests {
		if got := tt.action.ActionType(); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

// --- Validate ---

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		fields   store.Fields
		expected store.ValidationErrors
	}{
		{
			name:     "missing title",
			fields:   store.Fields{Title: "", Categories: "x", Content: "y"},
			expected: store.ValidationErrors{"title": "Enter a title"},
		},
		{
			name:     "complete",
			fields:   store.Fields{Title: "x", Categories: "y", Content: "z"},
			expected: store.ValidationErrors{},
		},
		{
			name:   "all missing",
			fields: store.Fields{},
			expected: store.ValidationErrors{
				"title":      "Enter a title",
				"categories": "Enter some categories",
				"content":    "Enter some content please",
			},
		},
		{
			name:     "whitespace counts as present",
			fields:   store.Fields{Title: "   ", Categories: "\t", Content: "\n"},
			expected: store.ValidationErrors{},
		},
		{
			name:     "missing content",
			fields:   store.Fields{Title: "x", Categories: "y"},
			expected: store.ValidationErrors{"content": "Enter some content please"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Validate(tt.fields)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for field, msg := range tt.expected {
				if got[field] != msg {
					t.Errorf("field %s: expected %q, got %q", field, msg, got[field])
				}
			}
			if got.OK() != (len(tt.expected) == 0) {
				t.Errorf("expected OK()=%v", len(tt.expected) == 0)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := store.Validate(store.Fields{Categories: "x"})

	expected := "posts: invalid fields: title: Enter a title; content: Enter some content please"
	if errs.Error() != expected {
		t.Errorf("expected %q, got %q", expected, errs.Error())
	}
}

// --- ID ---

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input    string
		expected store.ID
	}{
		{`12`, "12"},
		{`"12"`, "12"},
		{`"abc-def"`, "abc-def"},
		{`null`, ""},
		{`123456789012345678`, "123456789012345678"},
		{`1.0`, "1"},
		{`1e0`, "1"},
		{`-3`, "-3"},
		{`1.5`, "1.5"},
		{`1e300`, "1e300"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var id store.ID
			if err := json.Unmarshal([]byte(tt.input), &id); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, id)
			}
		})
	}
}

func TestID_UnmarshalJSON_Invalid(t *testing.T) {
	for _, input := range []string{`true`, `{}`, `[1]`} {
		var id store.ID
		if err := json.Unmarshal([]byte(input), &id); err == nil {
			t.Errorf("expected error for %s, got id %q", input, id)
		}
	}
}

func TestPost_DecodeNumericID(t *testing.T) {
	var posts []store.Post
	body := `[{"id":1,"title":"A","categories":"go","content":"first"},{"id":"2","title":"B"}]`
	if err := json.Unmarshal([]byte(body), &posts); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	state := stateOf(posts...)
	if got, _ := state.Get("1"); got != postA {
		t.Errorf("expected %+v, got %+v", postA, got)
	}
	if !state.Has("2") {
		t.Error("expected string id 2 to be present")
	}
}

// --- Examples ---

func ExampleReduce() {
	state := store.Empty()
	state = store.Reduce(state, store.FetchAll{Posts: []store.Post{
		{ID: "1", Title: "A"},
		{ID: "2", Title: "B"},
	}})
	state = store.Reduce(state, store.Delete{ID: "1"})
	state = store.Reduce(state, store.FetchOne{Post: store.Post{ID: "3", Title: "C"}})

	for _, p := range state.Posts() {
		fmt.Println(p.ID, p.Title)
	}
	// Output:
	// 2 B
	// 3 C
}

func ExampleValidate() {
	errs := store.Validate(store.Fields{Categories: "x", Content: "y"})
	fmt.Println(errs["title"])
	// Output: Enter a title
}

// --- Benchmarks ---

func BenchmarkReduce_FetchOne(b *testing.B) {
	posts := make([]store.Post, 100)
	for i := range posts {
		posts[i] = store.Post{ID: store.ID(fmt.Sprintf("%d", i))}
	}
	state := stateOf(posts...)
	action := store.FetchOne{Post: store.Post{ID: "new"}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store.Reduce(state, action)
	}
}
