// Package store persists posts as one JSON file each under a posts
// directory, alongside a denormalized index file kept in lockstep.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/rs/zerolog"

	"github.com/ecarvalho/scribe/internal/model"
)

var storeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

var (
	// ErrNotFound indicates the requested identifier has no record.
	ErrNotFound = errors.New("post not found")
	// ErrCorrupt indicates a record exists but failed to parse.
	ErrCorrupt = errors.New("corrupt post record")
)

const (
	postsDirName  = "posts"
	indexFileName = "index.json"
	postExt       = ".json"

	dirPerms = 0o755
)

// Record pairs a post with its identifier.
type Record struct {
	ID   model.PostID
	Post *model.Post
}

// Store is a flat-file post store rooted at a data directory. It owns
// all persisted state: the per-post records and the index file.
//
// The two writes behind Save and Delete are not transactional with
// respect to each other. A crash between them leaves the index stale
// relative to the post files; RebuildIndex recovers from that. Post
// records are written before the index, so orphaned records are the
// authoritative side.
type Store struct {
	postsDir  string
	indexPath string
}

// New creates a store rooted at dataDir, creating the posts directory
// if needed.
func New(dataDir string) (*Store, error) {
	postsDir := filepath.Join(dataDir, postsDirName)
	if err := os.MkdirAll(postsDir, dirPerms); err != nil {
		return nil, fmt.Errorf("creating posts directory: %w", err)
	}

	return &Store{
		postsDir:  postsDir,
		indexPath: filepath.Join(dataDir, indexFileName),
	}, nil
}

func (s *Store) postPath(id model.PostID) string {
	return filepath.Join(s.postsDir, string(id)+postExt)
}

// Save writes the full post record for id and upserts the matching
// index entry. The record is written first; a crash before the index
// write leaves a missing index entry, never a half-written file.
func (s *Store) Save(id model.PostID, post *model.Post) error {
	data, err := post.Marshal()
	if err != nil {
		storeLogger.Error().Err(err).Str("post_id", string(id)).Msg("Error encoding post")
		return fmt.Errorf("encoding post %s: %w", id, err)
	}

	if err := atomic.WriteFile(s.postPath(id), bytes.NewReader(data)); err != nil {
		storeLogger.Error().Err(err).Str("post_id", string(id)).Msg("Error saving post")
		return fmt.Errorf("saving post %s: %w", id, err)
	}

	index := s.readIndexTolerant()
	index[id] = post.IndexEntry()
	if err := s.writeIndex(index); err != nil {
		storeLogger.Error().Err(err).Str("post_id", string(id)).Msg("Error updating index")
		return err
	}

	return nil
}

// Load reads and decodes the record for id. A missing record yields
// ErrNotFound; a record that fails to parse yields ErrCorrupt. Raw
// decode errors never reach the caller unwrapped.
func (s *Store) Load(id model.PostID) (*model.Post, error) {
	data, err := os.ReadFile(s.postPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		storeLogger.Error().Err(err).Str("post_id", string(id)).Msg("Error reading post")
		return nil, fmt.Errorf("reading post %s: %w", id, err)
	}

	post, err := model.UnmarshalPost(data)
	if err != nil {
		storeLogger.Error().Err(err).Str("post_id", string(id)).Msg("Error decoding post")
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, id)
	}

	return post, nil
}

// Exists checks for a record without deserializing it.
func (s *Store) Exists(id model.PostID) bool {
	_, err := os.Stat(s.postPath(id))
	return err == nil
}

// Delete removes the post record if present and drops its index entry.
// Deleting an absent id is a no-op, not an error.
func (s *Store) Delete(id model.PostID) error {
	if err := os.Remove(s.postPath(id)); err != nil && !os.IsNotExist(err) {
		storeLogger.Error().Err(err).Str("post_id", string(id)).Msg("Error deleting post")
		return fmt.Errorf("deleting post %s: %w", id, err)
	}

	index := s.readIndexTolerant()
	if _, ok := index[id]; !ok {
		return nil
	}
	delete(index, id)

	if err := s.writeIndex(index); err != nil {
		storeLogger.Error().Err(err).Str("post_id", string(id)).Msg("Error updating index")
		return err
	}

	return nil
}

// LoadAll enumerates every valid record in the posts directory. Records
// that fail to parse are skipped and logged so one corrupt file never
// blocks access to the rest. Order is unspecified.
func (s *Store) LoadAll() ([]Record, error) {
	entries, err := os.ReadDir(s.postsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		storeLogger.Error().Err(err).Msg("Error reading posts directory")
		return nil, fmt.Errorf("reading posts directory: %w", err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), postExt) {
			continue
		}

		id := model.PostID(strings.TrimSuffix(entry.Name(), postExt))
		post, err := s.Load(id)
		if err != nil {
			storeLogger.Warn().Err(err).Str("post_id", string(id)).Msg("Skipping unreadable post")
			continue
		}

		records = append(records, Record{ID: id, Post: post})
	}

	return records, nil
}

// ReadIndex returns the current denormalized index. An empty or missing
// index file is an empty mapping, never an error.
func (s *Store) ReadIndex() (map[model.PostID]model.IndexEntry, error) {
	data, err := os.ReadFile(s.indexPath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[model.PostID]model.IndexEntry{}, nil
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	index := map[model.PostID]model.IndexEntry{}
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("%w: index", ErrCorrupt)
	}

	return index, nil
}

// RebuildIndex regenerates the index from a full scan of the posts
// directory. This is the recovery path for a crash that left the index
// stale relative to the post records.
func (s *Store) RebuildIndex() error {
	records, err := s.LoadAll()
	if err != nil {
		return err
	}

	index := make(map[model.PostID]model.IndexEntry, len(records))
	for _, rec := range records {
		index[rec.ID] = rec.Post.IndexEntry()
	}

	return s.writeIndex(index)
}

// readIndexTolerant loads the index for a read-modify-write cycle. A
// missing or corrupt index degrades to an empty mapping: the follow-up
// write replaces the whole file anyway.
func (s *Store) readIndexTolerant() map[model.PostID]model.IndexEntry {
	index, err := s.ReadIndex()
	if err != nil {
		storeLogger.Warn().Err(err).Msg("Index unreadable, starting fresh")
		return map[model.PostID]model.IndexEntry{}
	}
	return index
}

// writeIndex rewrites the whole index file in one atomic rename.
func (s *Store) writeIndex(index map[model.PostID]model.IndexEntry) error {
	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	if err := atomic.WriteFile(s.indexPath, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	return nil
}
