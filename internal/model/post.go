// Package model defines the core data structures for the blog manager.
package model

import (
	"encoding/json"
	"time"
)

// PostID is the unique, filesystem-safe key of a post. It is derived
// from the title at creation time and never recomputed on edit.
type PostID string

// Post is a single stored text document with metadata.
//
// CreatedAt is set once at creation and immutable afterwards.
// UpdatedAt is nil until the first update, then holds the update time.
type Post struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    string     `json:"author"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// DefaultAuthor is used when a post is created without an author.
const DefaultAuthor = "Anonymous"

// NewPost builds a post with construction defaults applied: author
// falls back to DefaultAuthor, tags are deduplicated and never nil,
// CreatedAt is the current time and UpdatedAt is absent.
func NewPost(title, content, author string, tags []string) *Post {
	if author == "" {
		author = DefaultAuthor
	}
	return &Post{
		Title:     title,
		Content:   content,
		Author:    author,
		Tags:      NormalizeTags(tags),
		CreatedAt: time.Now(),
	}
}

// Touch records an update timestamp. CreatedAt is left untouched.
func (p *Post) Touch(now time.Time) {
	t := now
	p.UpdatedAt = &t
}

// Marshal encodes the post into its on-disk JSON record.
func (p *Post) Marshal() ([]byte, error) {
	cp := *p
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	return json.MarshalIndent(&cp, "", "  ")
}

// UnmarshalPost decodes an on-disk JSON record into a post.
func UnmarshalPost(data []byte) (*Post, error) {
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if p.Author == "" {
		p.Author = DefaultAuthor
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// IndexEntry is the denormalized projection of a post kept in the
// store's index file for cheap enumeration.
type IndexEntry struct {
	Title     string     `json:"title"`
	Author    string     `json:"author"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// IndexEntry returns the index projection of the post.
func (p *Post) IndexEntry() IndexEntry {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return IndexEntry{
		Title:     p.Title,
		Author:    p.Author,
		Tags:      tags,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NormalizeTags drops empty tags and duplicates (case-sensitive),
// preserving first-encounter order for display.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
