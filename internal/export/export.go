// Package export renders posts into static files: markdown with front
// matter, minimal standalone HTML, or the raw JSON record shape.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	"github.com/ecarvalho/scribe/internal/model"
	"github.com/ecarvalho/scribe/internal/slug"
	"github.com/ecarvalho/scribe/internal/store"
)

// ErrUnsupportedFormat indicates a format value outside the closed set.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is the closed set of export formats.
type Format int

const (
	Markdown Format = iota
	HTML
	JSON
)

// ParseFormat maps a user-supplied format name onto the enum.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return Markdown, nil
	case "html":
		return HTML, nil
	case "json":
		return JSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

func (f Format) String() string {
	switch f {
	case Markdown:
		return "markdown"
	case HTML:
		return "html"
	case JSON:
		return "json"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return "md"
	case HTML:
		return "html"
	case JSON:
		return "json"
	default:
		return ""
	}
}

const displayTime = "2006-01-02 15:04:05"

// Filename builds the export filename for a post:
// <creation date>-<sanitized title>.<ext>. Two posts sharing a date and
// sanitized title collide and the later one overwrites the earlier,
// a known limitation at this scale.
func Filename(post *model.Post, f Format) string {
	return fmt.Sprintf("%s-%s.%s",
		post.CreatedAt.Format("2006-01-02"),
		slug.SanitizeFilename(post.Title),
		f.Ext())
}

// Render produces the file contents for a post in the given format.
func Render(post *model.Post, f Format) ([]byte, error) {
	switch f {
	case Markdown:
		return renderMarkdown(post), nil
	case HTML:
		return renderHTML(post), nil
	case JSON:
		return post.Marshal()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(f))
	}
}

// Write renders every record into outputDir, creating it if needed, and
// returns the written filenames.
func Write(outputDir string, records []store.Record, f Format) ([]string, error) {
	// Validate the format up front so a bad value fails before any file
	// is written.
	if f.Ext() == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int(f))
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	files := make([]string, 0, len(records))
	for _, rec := range records {
		content, err := Render(rec.Post, f)
		if err != nil {
			return nil, err
		}

		name := Filename(rec.Post, f)
		if err := atomic.WriteFile(filepath.Join(outputDir, name), bytes.NewReader(content)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", name, err)
		}

		files = append(files, name)
	}

	return files, nil
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return "None"
	}
	return strings.Join(tags, ", ")
}

func isoTime(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Format(time.RFC3339)
}

func displayTimeOrNever(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Format(displayTime)
}

func renderMarkdown(post *model.Post) []byte {
	tags := tagList(post.Tags)

	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %s\n", post.Title)
	fmt.Fprintf(&b, "author: %s\n", post.Author)
	fmt.Fprintf(&b, "tags: [%s]\n", tags)
	fmt.Fprintf(&b, "created: %s\n", post.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "updated: %s\n", isoTime(post.UpdatedAt))
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", post.Title)
	fmt.Fprintf(&b, "**Author:** %s  \n", post.Author)
	fmt.Fprintf(&b, "**Tags:** %s  \n", tags)
	fmt.Fprintf(&b, "**Created:** %s  \n", post.CreatedAt.Format(displayTime))
	fmt.Fprintf(&b, "**Updated:** %s\n\n", displayTimeOrNever(post.UpdatedAt))
	b.WriteString("---\n\n")
	b.WriteString(post.Content)
	b.WriteString("\n")

	return []byte(b.String())
}

const htmlPage = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto; padding: 20px; }
        .meta { color: #666; border-bottom: 1px solid #eee; padding-bottom: 10px; margin-bottom: 20px; }
        .content { line-height: 1.6; }
    </style>
</head>
<body>
    <h1>%s</h1>
    <div class="meta">
        <p><strong>Author:</strong> %s</p>
        <p><strong>Tags:</strong> %s</p>
        <p><strong>Created:</strong> %s</p>
        <p><strong>Updated:</strong> %s</p>
    </div>
    <div class="content">
        %s
    </div>
</body>
</html>`

func renderHTML(post *model.Post) []byte {
	title := html.EscapeString(post.Title)

	// Newlines become explicit line breaks; the content is otherwise
	// rendered as-is (escaped, not interpreted as markup).
	content := html.EscapeString(post.Content)
	content = strings.ReplaceAll(content, "\n", "<br>\n")

	page := fmt.Sprintf(htmlPage,
		title,
		title,
		html.EscapeString(post.Author),
		html.EscapeString(tagList(post.Tags)),
		post.CreatedAt.Format(displayTime),
		displayTimeOrNever(post.UpdatedAt),
		content)

	return []byte(page)
}
