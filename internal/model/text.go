package model

import (
	"regexp"
	"strings"
)

const (
	minTitleLen   = 3
	maxTitleLen   = 200
	minContentLen = 10

	wordsPerMinute = 200
)

var (
	tagCharsRe   = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ParseTags splits a comma-separated tag list into clean tags: trimmed,
// stripped of special characters, with empties and duplicates dropped.
func ParseTags(input string) []string {
	if input == "" {
		return []string{}
	}

	var tags []string
	for _, raw := range strings.Split(input, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		tag = tagCharsRe.ReplaceAllString(tag, "")
		tag = strings.TrimSpace(whitespaceRe.ReplaceAllString(tag, " "))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	return NormalizeTags(tags)
}

// ValidTitle reports whether a title is acceptable: non-blank and
// between 3 and 200 characters after trimming.
func ValidTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	return len(trimmed) >= minTitleLen && len(trimmed) <= maxTitleLen
}

// ValidContent reports whether content is acceptable: non-blank and at
// least 10 characters after trimming.
func ValidContent(content string) bool {
	return len(strings.TrimSpace(content)) >= minContentLen
}

// WordCount counts whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// ReadingTime estimates reading time in minutes at 200 words per
// minute, never less than one minute.
func ReadingTime(text string) int {
	minutes := WordCount(text) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Summary extracts a short summary from content, preferring to break at
// a sentence boundary and truncating with an ellipsis otherwise.
func Summary(content string, maxLength int) string {
	content = strings.TrimSpace(whitespaceRe.ReplaceAllString(content, " "))

	if len(content) <= maxLength {
		return content
	}

	var summary strings.Builder
	for _, sentence := range strings.Split(content, ".") {
		if summary.Len()+len(sentence)+1 > maxLength {
			break
		}
		summary.WriteString(sentence)
		summary.WriteString(".")
	}

	if summary.Len() == 0 {
		return content[:maxLength-3] + "..."
	}

	return strings.TrimSpace(summary.String())
}
