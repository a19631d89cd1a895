package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewPost(t *testing.T) {
	t.Run("Defaults applied", func(t *testing.T) {
		before := time.Now()
		post := NewPost("Hello", "Some content", "", nil)

		if post.Author != DefaultAuthor {
			t.Errorf("Expected author %q, got %q", DefaultAuthor, post.Author)
		}
		if post.Tags == nil || len(post.Tags) != 0 {
			t.Errorf("Expected empty non-nil tags, got %#v", post.Tags)
		}
		if post.CreatedAt.Before(before) {
			t.Error("Expected CreatedAt to be set to the current time")
		}
		if post.UpdatedAt != nil {
			t.Errorf("Expected UpdatedAt to be absent, got %v", post.UpdatedAt)
		}
	})

	t.Run("Explicit author kept", func(t *testing.T) {
		post := NewPost("Hello", "Some content", "Ada", []string{"go"})
		if post.Author != "Ada" {
			t.Errorf("Expected author 'Ada', got %q", post.Author)
		}
	})

	t.Run("Tags deduplicated preserving order", func(t *testing.T) {
		post := NewPost("Hello", "Some content", "", []string{"go", "", "blog", "go"})
		expected := []string{"go", "blog"}
		if diff := cmp.Diff(expected, post.Tags); diff != "" {
			t.Errorf("Tags mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestPostTouch(t *testing.T) {
	post := NewPost("Hello", "Some content", "", nil)
	created := post.CreatedAt

	now := time.Now().Add(time.Hour)
	post.Touch(now)

	if post.UpdatedAt == nil || !post.UpdatedAt.Equal(now) {
		t.Errorf("Expected UpdatedAt %v, got %v", now, post.UpdatedAt)
	}
	if !post.CreatedAt.Equal(created) {
		t.Error("Expected CreatedAt to remain untouched")
	}
	if post.UpdatedAt.Before(post.CreatedAt) {
		t.Error("Expected UpdatedAt >= CreatedAt")
	}
}

func TestPostRoundTrip(t *testing.T) {
	updated := time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC)

	testCases := []struct {
		name string
		post *Post
	}{
		{
			name: "Full post",
			post: &Post{
				Title:     "Hello World",
				Content:   "Body text with some length.",
				Author:    "Ada",
				Tags:      []string{"go", "blog"},
				CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
				UpdatedAt: &updated,
			},
		},
		{
			name: "No update timestamp",
			post: &Post{
				Title:     "Draft",
				Content:   "Unfinished thoughts.",
				Author:    "Anonymous",
				Tags:      []string{},
				CreatedAt: time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := tc.post.Marshal()
			if err != nil {
				t.Fatalf("Expected no error marshalling, got: %v", err)
			}

			got, err := UnmarshalPost(data)
			if err != nil {
				t.Fatalf("Expected no error unmarshalling, got: %v", err)
			}

			if diff := cmp.Diff(tc.post, got); diff != "" {
				t.Errorf("Round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPostRecordShape(t *testing.T) {
	post := &Post{
		Title:     "Hello",
		Content:   "Body",
		Author:    "Ada",
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	data, err := post.Marshal()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("Expected valid JSON, got: %v", err)
	}

	for _, key := range []string{"title", "content", "author", "tags", "created_at", "updated_at"} {
		if _, ok := record[key]; !ok {
			t.Errorf("Expected key %q in record", key)
		}
	}

	if record["updated_at"] != nil {
		t.Errorf("Expected updated_at to be null, got %v", record["updated_at"])
	}
	if _, ok := record["tags"].([]any); !ok {
		t.Errorf("Expected tags to be an array even when empty, got %T", record["tags"])
	}
	if created, ok := record["created_at"].(string); !ok || !strings.HasPrefix(created, "2025-03-01T09:00:00") {
		t.Errorf("Expected ISO-8601 created_at, got %v", record["created_at"])
	}
}

func TestUnmarshalPostDefaults(t *testing.T) {
	t.Run("Missing author defaults to Anonymous", func(t *testing.T) {
		post, err := UnmarshalPost([]byte(`{"title":"T","content":"C","created_at":"2025-01-01T00:00:00Z"}`))
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if post.Author != DefaultAuthor {
			t.Errorf("Expected author %q, got %q", DefaultAuthor, post.Author)
		}
		if post.Tags == nil {
			t.Error("Expected tags to be non-nil")
		}
	})

	t.Run("Malformed record errors", func(t *testing.T) {
		if _, err := UnmarshalPost([]byte("{not json")); err == nil {
			t.Error("Expected error for malformed record")
		}
	})
}

func TestIndexEntry(t *testing.T) {
	post := NewPost("Hello", "Body content here", "Ada", []string{"go"})
	entry := post.IndexEntry()

	if entry.Title != post.Title {
		t.Errorf("Expected title %q, got %q", post.Title, entry.Title)
	}
	if entry.Author != post.Author {
		t.Errorf("Expected author %q, got %q", post.Author, entry.Author)
	}
	if diff := cmp.Diff(post.Tags, entry.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if !entry.CreatedAt.Equal(post.CreatedAt) {
		t.Error("Expected CreatedAt to match")
	}
	if entry.UpdatedAt != nil {
		t.Error("Expected UpdatedAt to be absent")
	}
}
