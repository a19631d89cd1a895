package blog

import (
	"errors"
	"testing"
	"time"

	"github.com/ecarvalho/scribe/internal/model"
	"github.com/ecarvalho/scribe/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	s, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("Expected no error creating store, got: %v", err)
	}
	return New(s)
}

func mustCreate(t *testing.T, m *Manager, post *model.Post) model.PostID {
	t.Helper()

	id, err := m.Create(post)
	if err != nil {
		t.Fatalf("Expected no error creating %q, got: %v", post.Title, err)
	}
	return id
}

func post(title, content, author string, tags []string, createdAt time.Time) *model.Post {
	return &model.Post{
		Title:     title,
		Content:   content,
		Author:    author,
		Tags:      model.NormalizeTags(tags),
		CreatedAt: createdAt,
	}
}

func TestCreateAssignsSlugIDs(t *testing.T) {
	m := newTestManager(t)

	id := mustCreate(t, m, model.NewPost("Hello World", "First body text", "Ada", nil))
	if id != "hello-world" {
		t.Errorf("Expected id 'hello-world', got %q", id)
	}

	// Same title again: collision resolved with a numeric suffix.
	id2 := mustCreate(t, m, model.NewPost("Hello World", "Second body text", "Ada", nil))
	if id2 != "hello-world-1" {
		t.Errorf("Expected id 'hello-world-1', got %q", id2)
	}

	id3 := mustCreate(t, m, model.NewPost("Hello World", "Third body text", "Ada", nil))
	if id3 != "hello-world-2" {
		t.Errorf("Expected id 'hello-world-2', got %q", id3)
	}
}

func TestGetAbsent(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Get("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestUpdate(t *testing.T) {
	m := newTestManager(t)

	id := mustCreate(t, m, model.NewPost("Original Title", "Original content here", "Ada", []string{"go"}))

	original, err := m.Get(id)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	edited := model.NewPost("New Title", "Edited content here", "Ada", []string{"go"})
	if err := m.Update(id, edited); err != nil {
		t.Fatalf("Expected no error updating, got: %v", err)
	}

	got, err := m.Get(id)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if got.Title != "New Title" {
		t.Errorf("Expected updated title, got %q", got.Title)
	}
	if !got.CreatedAt.Equal(original.CreatedAt) {
		t.Error("Expected CreatedAt to be preserved across update")
	}
	if got.UpdatedAt == nil {
		t.Fatal("Expected UpdatedAt to be set after update")
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Error("Expected UpdatedAt >= CreatedAt")
	}
}

func TestUpdateAbsent(t *testing.T) {
	m := newTestManager(t)

	err := m.Update("missing", model.NewPost("Title Here", "Content goes here", "", nil))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got: %v", err)
	}
}

func TestList(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mustCreate(t, m, post("Oldest", "content one", "Ada", []string{"go"}, base))
	mustCreate(t, m, post("Middle", "content two", "Grace", []string{"go", "unix"}, base.Add(24*time.Hour)))
	mustCreate(t, m, post("Newest", "content three", "ada", []string{"unix"}, base.Add(48*time.Hour)))

	t.Run("Sorted newest first", func(t *testing.T) {
		records, err := m.List(ListOptions{Limit: 10})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("Expected 3 records, got %d", len(records))
		}

		expected := []string{"Newest", "Middle", "Oldest"}
		for i, want := range expected {
			if records[i].Post.Title != want {
				t.Errorf("Expected position %d to be %q, got %q", i, want, records[i].Post.Title)
			}
		}

		for i := 1; i < len(records); i++ {
			if records[i].Post.CreatedAt.After(records[i-1].Post.CreatedAt) {
				t.Error("Expected non-increasing created_at order")
			}
		}
	})

	t.Run("Limit truncates", func(t *testing.T) {
		records, err := m.List(ListOptions{Limit: 2})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("Expected 2 records, got %d", len(records))
		}
	})

	t.Run("Non-positive limit yields empty", func(t *testing.T) {
		for _, limit := range []int{0, -1} {
			records, err := m.List(ListOptions{Limit: limit})
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("Expected empty result for limit %d, got %d records", limit, len(records))
			}
		}
	})

	t.Run("Tag filter is exact and case-sensitive", func(t *testing.T) {
		records, err := m.List(ListOptions{Limit: 10, Tag: "go"})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("Expected 2 records tagged 'go', got %d", len(records))
		}

		records, err = m.List(ListOptions{Limit: 10, Tag: "GO"})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no records tagged 'GO', got %d", len(records))
		}
	})

	t.Run("Author filter is case-insensitive", func(t *testing.T) {
		records, err := m.List(ListOptions{Limit: 10, Author: "ADA"})
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(records) != 2 {
			t.Errorf("Expected 2 records by Ada (any case), got %d", len(records))
		}
	})
}

func TestSearch(t *testing.T) {
	m := newTestManager(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mustCreate(t, m, post("Go Concurrency", "channels and goroutines", "Ada", []string{"go"}, base))
	mustCreate(t, m, post("Unix History", "the go command appears here", "Grace", []string{"unix"}, base))
	mustCreate(t, m, post("Gardening", "plants and soil", "Ada", []string{"hobby", "golang"}, base))

	t.Run("Empty query matches everything", func(t *testing.T) {
		records, err := m.Search("")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(records) != 3 {
			t.Errorf("Expected all 3 posts, got %d", len(records))
		}
	})

	t.Run("Results are ranked by field weights", func(t *testing.T) {
		records, err := m.Search("go")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}

		if len(records) != 3 {
			t.Fatalf("Expected 3 matches, got %d", len(records))
		}

		// Title match (10) + content + tag beats content-only and tag-only.
		if records[0].Post.Title != "Go Concurrency" {
			t.Errorf("Expected 'Go Concurrency' first, got %q", records[0].Post.Title)
		}
		// Content match (5) beats tag match (3).
		if records[1].Post.Title != "Unix History" {
			t.Errorf("Expected 'Unix History' second, got %q", records[1].Post.Title)
		}
		if records[2].Post.Title != "Gardening" {
			t.Errorf("Expected 'Gardening' third, got %q", records[2].Post.Title)
		}
	})

	t.Run("Case-insensitive matching", func(t *testing.T) {
		records, err := m.Search("UNIX")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("Expected 1 match, got %d", len(records))
		}
		if records[0].Post.Title != "Unix History" {
			t.Errorf("Expected 'Unix History', got %q", records[0].Post.Title)
		}
	})

	t.Run("No match for absent keyword", func(t *testing.T) {
		records, err := m.Search("kubernetes")
		if err != nil {
			t.Fatalf("Expected no error, got: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("Expected no matches, got %d", len(records))
		}
	})
}

func TestDeleteThroughManager(t *testing.T) {
	m := newTestManager(t)

	id := mustCreate(t, m, model.NewPost("Ephemeral", "soon to be gone", "Ada", nil))

	if err := m.Delete(id); err != nil {
		t.Fatalf("Expected no error deleting, got: %v", err)
	}
	if _, err := m.Get(id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got: %v", err)
	}

	// Deleting again is a no-op.
	if err := m.Delete(id); err != nil {
		t.Errorf("Expected no error on repeated delete, got: %v", err)
	}
}
