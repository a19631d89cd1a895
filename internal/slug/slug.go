// Package slug derives URL- and filesystem-safe identifiers from post titles.
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxFilenameLen  = 100
	defaultFilename = "untitled"
)

var (
	nonWordRe   = regexp.MustCompile(`[^\w\s-]`)
	separatorRe = regexp.MustCompile(`[-\s]+`)
)

// asciiFold decomposes accented characters (NFKD), strips the combining
// marks, and drops anything left that is not plain ASCII.
var asciiFold = transform.Chain(
	norm.NFKD,
	runes.Remove(runes.In(unicode.Mn)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
)

// BaseID generates a URL-friendly identifier from a title: lowercased,
// stripped of special characters, with whitespace and hyphen runs
// collapsed to single hyphens. Titles that reduce to nothing (all
// punctuation) fall back to a timestamp-based identifier.
func BaseID(title string) string {
	id := strings.ToLower(strings.TrimSpace(title))
	id = nonWordRe.ReplaceAllString(id, "")
	id = separatorRe.ReplaceAllString(id, "-")
	id = strings.Trim(id, "-")

	if id == "" {
		id = "post-" + time.Now().Format("20060102150405")
	}

	return id
}

// Unique returns base unchanged when exists reports it free, otherwise
// probes base-1, base-2, ... until an unused suffix is found.
//
// The check-then-write window is not locked: two concurrent creations
// with the same title can race, and the last writer wins. Acceptable
// for the single-user scope this tool targets.
func Unique(base string, exists func(string) bool) string {
	if !exists(base) {
		return base
	}

	for counter := 1; ; counter++ {
		candidate := base + "-" + strconv.Itoa(counter)
		if !exists(candidate) {
			return candidate
		}
	}
}

// SanitizeFilename turns an arbitrary string into a safe ASCII
// filename fragment: accented characters are folded to their closest
// ASCII form, remaining non-ASCII and special characters are dropped,
// separator runs collapse to single hyphens, and the result is
// lowercased and capped at 100 characters. Empty results become
// "untitled".
func SanitizeFilename(name string) string {
	folded, _, err := transform.String(asciiFold, name)
	if err != nil {
		folded = name
	}

	out := nonWordRe.ReplaceAllString(folded, "")
	out = separatorRe.ReplaceAllString(out, "-")
	out = strings.ToLower(strings.Trim(out, "-"))

	if out == "" {
		out = defaultFilename
	}

	if len(out) > maxFilenameLen {
		out = out[:maxFilenameLen]
	}

	return out
}
