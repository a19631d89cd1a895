// Package blog implements the query and aggregation layer on top of
// the flat-file store: listing, search, statistics and export.
package blog

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecarvalho/scribe/internal/export"
	"github.com/ecarvalho/scribe/internal/model"
	"github.com/ecarvalho/scribe/internal/slug"
	"github.com/ecarvalho/scribe/internal/store"
)

var blogLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	blogLogger = l
}

// Relevance weights for search, per matched field.
const (
	titleWeight   = 10
	contentWeight = 5
	tagWeight     = 3
)

// Manager owns the derived views over a store. It never mutates
// persisted state except through the store's documented operations.
type Manager struct {
	store *store.Store
}

func New(s *store.Store) *Manager {
	return &Manager{store: s}
}

// Create assigns the post a title-derived identifier, resolving
// collisions with numeric suffixes, and persists it.
func (m *Manager) Create(post *model.Post) (model.PostID, error) {
	id := model.PostID(slug.Unique(slug.BaseID(post.Title), func(candidate string) bool {
		return m.store.Exists(model.PostID(candidate))
	}))

	if err := m.store.Save(id, post); err != nil {
		return "", err
	}

	blogLogger.Info().Str("post_id", string(id)).Str("title", post.Title).Msg("Created post")
	return id, nil
}

// Get returns the post for id. Absence is store.ErrNotFound.
func (m *Manager) Get(id model.PostID) (*model.Post, error) {
	return m.store.Load(id)
}

// Update replaces the stored record wholesale, preserving the original
// creation time and stamping the update time. The identifier never
// changes, even when the title does.
func (m *Manager) Update(id model.PostID, post *model.Post) error {
	existing, err := m.store.Load(id)
	if err != nil {
		return err
	}

	post.CreatedAt = existing.CreatedAt
	post.Touch(time.Now())

	if err := m.store.Save(id, post); err != nil {
		return err
	}

	blogLogger.Info().Str("post_id", string(id)).Msg("Updated post")
	return nil
}

// Delete removes the post and its index entry. Absent ids are a no-op.
func (m *Manager) Delete(id model.PostID) error {
	return m.store.Delete(id)
}

// ListOptions filters and bounds a listing.
type ListOptions struct {
	Limit  int
	Tag    string // exact tag membership, case-sensitive
	Author string // exact author match, case-insensitive
}

// List returns up to Limit posts matching the filters, newest first.
// A non-positive limit yields an empty result.
func (m *Manager) List(opts ListOptions) ([]store.Record, error) {
	records, err := m.store.LoadAll()
	if err != nil {
		return nil, err
	}

	filtered := make([]store.Record, 0, len(records))
	for _, rec := range records {
		if opts.Tag != "" && !slices.Contains(rec.Post.Tags, opts.Tag) {
			continue
		}
		if opts.Author != "" && !strings.EqualFold(rec.Post.Author, opts.Author) {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Post.CreatedAt.After(filtered[j].Post.CreatedAt)
	})

	if opts.Limit <= 0 {
		return []store.Record{}, nil
	}
	if opts.Limit < len(filtered) {
		filtered = filtered[:opts.Limit]
	}

	return filtered, nil
}

// Search returns posts whose title, content or any tag contains query
// as a case-insensitive substring, ranked by relevance: a title match
// weighs 10, a content match 5, any tag match 3, summed per post. Ties
// keep encounter order. An empty query matches everything.
func (m *Manager) Search(query string) ([]store.Record, error) {
	records, err := m.store.LoadAll()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)

	type scored struct {
		rec   store.Record
		score int
	}

	var results []scored
	for _, rec := range records {
		score := 0
		if strings.Contains(strings.ToLower(rec.Post.Title), q) {
			score += titleWeight
		}
		if strings.Contains(strings.ToLower(rec.Post.Content), q) {
			score += contentWeight
		}
		for _, tag := range rec.Post.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				score += tagWeight
				break
			}
		}
		if score > 0 {
			results = append(results, scored{rec: rec, score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	out := make([]store.Record, len(results))
	for i, r := range results {
		out[i] = r.rec
	}
	return out, nil
}

// Export renders every post into outputDir in the given format and
// returns the written filenames.
func (m *Manager) Export(outputDir string, format export.Format) ([]string, error) {
	records, err := m.store.LoadAll()
	if err != nil {
		return nil, err
	}

	files, err := export.Write(outputDir, records, format)
	if err != nil {
		return nil, err
	}

	blogLogger.Info().Int("count", len(files)).Str("dir", outputDir).Msg("Exported posts")
	return files, nil
}
