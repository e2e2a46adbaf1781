package cms

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a single page document as delivered by the CMS. Every field is optional; a nil
// pointer means the CMS sent null or omitted the key.
type Record struct {
	Type           *string `json:"_type,omitempty"`
	ID             *string `json:"_id,omitempty"`
	Slug           Slug    `json:"slug"`
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	SEOTitle       *string `json:"seoTitle,omitempty"`
	SEODescription *string `json:"seoDescription,omitempty"`
	Body           string  `json:"body,omitempty"`
}

// SlugKind tags which shape the CMS used for a slug.
type SlugKind int

const (
	SlugAbsent SlugKind = iota
	SlugString
	SlugWrapper
)

func (k SlugKind) String() string {
	switch k {
	case SlugString:
		return "string"
	case SlugWrapper:
		return "wrapper"
	default:
		return "absent"
	}
}

// Slug is either a bare string, a {"current": ...} wrapper whose current value may be null,
// or absent altogether.
type Slug struct {
	kind    SlugKind
	value   string
	current *string
}

// StringSlug returns a slug sent as a plain string.
func StringSlug(s string) Slug {
	return Slug{kind: SlugString, value: s}
}

// WrapperSlug returns a slug sent as {"current": current}. A nil current models null.
func WrapperSlug(current *string) Slug {
	return Slug{kind: SlugWrapper, current: current}
}

// NoSlug returns the absent slug.
func NoSlug() Slug { return Slug{} }

// Kind reports the slug shape.
func (s Slug) Kind() SlugKind { return s.kind }

// Resolve returns the page path segment carried by the slug. Wrappers without a current value
// and absent slugs resolve to "".
func (s Slug) Resolve() string {
	switch s.kind {
	case SlugString:
		return s.value
	case SlugWrapper:
		if s.current == nil {
			return ""
		}
		return *s.current
	default:
		return ""
	}
}

type slugWrapper struct {
	Current *string `json:"current"`
}

// UnmarshalJSON accepts a string, a {"current": string|null} object or null.
func (s *Slug) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = NoSlug()
		return nil
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("cms: decode slug: %w", err)
		}
		*s = StringSlug(v)
		return nil
	case '{':
		var w slugWrapper
		if err := json.Unmarshal(data, &w); err != nil {
			return fmt.Errorf("cms: decode slug: %w", err)
		}
		*s = WrapperSlug(w.Current)
		return nil
	default:
		return fmt.Errorf("cms: unsupported slug payload %s", truncate(string(data), 32))
	}
}

// MarshalJSON writes the slug back in the shape it was received.
func (s Slug) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case SlugString:
		return json.Marshal(s.value)
	case SlugWrapper:
		return json.Marshal(slugWrapper{Current: s.current})
	default:
		return []byte("null"), nil
	}
}

// Clone returns a deep copy so cached records cannot be mutated through returned values.
func (r Record) Clone() Record {
	cp := r
	cp.Type = cloneString(r.Type)
	cp.ID = cloneString(r.ID)
	cp.Title = cloneString(r.Title)
	cp.Description = cloneString(r.Description)
	cp.SEOTitle = cloneString(r.SEOTitle)
	cp.SEODescription = cloneString(r.SEODescription)
	if r.Slug.current != nil {
		cp.Slug.current = cloneString(r.Slug.current)
	}
	return cp
}

// String returns a pointer to s, for building records in code.
func String(s string) *string { return &s }

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
