package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID is an externally assigned post identifier.
//
// Remote APIs hand out either numeric or string ids; both decode into the same
// ID so that 12 and "12" address the same post. Integral numbers are written
// in plain decimal, so 1, 1.0 and 1e0 are all ID "1". Other numbers keep
// their JSON text.
type ID string

// String returns the id as a string.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*id = ID(canonicalNumber(n))
	return nil
}

// maxExactFloat is the largest integer a float64 holds without rounding.
const maxExactFloat = 1 << 53

func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	f, err := n.Float64()
	if err == nil && f == math.Trunc(f) && math.Abs(f) <= maxExactFloat {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// Post is a single post record.
type Post struct {
	ID         ID     `json:"id"`
	Title      string `json:"title"`
	Categories string `json:"categories"`
	Content    string `json:"content"`
}

// Fields holds the user supplied values for a new post.
type Fields struct {
	Title      string `json:"title"`
	Categories string `json:"categories"`
	Content    string `json:"content"`
}

// Form field names, as used in [ValidationErrors].
const (
	FieldTitle      = "title"
	FieldCategories = "categories"
	FieldContent    = "content"
)

// ValidationErrors maps a field name to the message shown for it.
// An empty map means the fields are ready to submit.
type ValidationErrors map[string]string

// OK reports whether there are no validation errors.
func (v ValidationErrors) OK() bool { return len(v) == 0 }

// Error implements error with messages in field order.
func (v ValidationErrors) Error() string {
	var msgs []string
	for _, field := range []string{FieldTitle, FieldCategories, FieldContent} {
		if msg, ok := v[field]; ok {
			msgs = append(msgs, field+": "+msg)
		}
	}
	return "posts: invalid fields: " + strings.Join(msgs, "; ")
}

// Validate returns one message per empty field.
func Validate(f Fields) ValidationErrors {
	errs := ValidationErrors{}
	if f.Title == "" {
		errs[FieldTitle] = "Enter a title"
	}
	if f.Categories == "" {
		errs[FieldCategories] = "Enter some categories"
	}
	if f.Content == "" {
		errs[FieldContent] = "Enter some content please"
	}
	return errs
}
