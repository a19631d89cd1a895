package blog

import (
	"sort"
	"unicode/utf8"
)

// TagCount pairs a tag with how many posts carry it.
type TagCount struct {
	Tag   string
	Count int
}

// Statistics aggregates the whole store. MostActiveAuthor is empty on
// an empty store; callers render that however they like ("None").
type Statistics struct {
	TotalPosts       int
	TotalAuthors     int // distinct authors, case-sensitive
	TotalTags        int // distinct tags, case-sensitive
	MostActiveAuthor string
	MostUsedTags     []TagCount // up to ten, by descending frequency
	AvgPostLength    int        // characters, integer-truncated
}

const topTagCount = 10

// Statistics computes aggregate counts over all posts. Frequency ties
// for the most active author and the top tags are broken by first
// encounter in the store's enumeration order, which is
// implementation-defined.
func (m *Manager) Statistics() (Statistics, error) {
	records, err := m.store.LoadAll()
	if err != nil {
		return Statistics{}, err
	}

	if len(records) == 0 {
		return Statistics{MostUsedTags: []TagCount{}}, nil
	}

	authorCounts := map[string]int{}
	var authorOrder []string
	tagCounts := map[string]int{}
	var tagOrder []string
	totalContentLength := 0

	for _, rec := range records {
		if _, seen := authorCounts[rec.Post.Author]; !seen {
			authorOrder = append(authorOrder, rec.Post.Author)
		}
		authorCounts[rec.Post.Author]++

		for _, tag := range rec.Post.Tags {
			if _, seen := tagCounts[tag]; !seen {
				tagOrder = append(tagOrder, tag)
			}
			tagCounts[tag]++
		}

		totalContentLength += utf8.RuneCountInString(rec.Post.Content)
	}

	mostActive := ""
	for _, author := range authorOrder {
		if mostActive == "" || authorCounts[author] > authorCounts[mostActive] {
			mostActive = author
		}
	}

	topTags := make([]TagCount, 0, len(tagOrder))
	for _, tag := range tagOrder {
		topTags = append(topTags, TagCount{Tag: tag, Count: tagCounts[tag]})
	}
	// Stable sort keeps first-encounter order under ties.
	sort.SliceStable(topTags, func(i, j int) bool {
		return topTags[i].Count > topTags[j].Count
	})
	if len(topTags) > topTagCount {
		topTags = topTags[:topTagCount]
	}

	return Statistics{
		TotalPosts:       len(records),
		TotalAuthors:     len(authorCounts),
		TotalTags:        len(tagCounts),
		MostActiveAuthor: mostActive,
		MostUsedTags:     topTags,
		AvgPostLength:    totalContentLength / len(records),
	}, nil
}
