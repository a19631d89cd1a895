// Command scribe is a terminal blog manager backed by a flat-file
// store: one JSON record per post plus a denormalized index.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/ecarvalho/scribe/internal/blog"
	"github.com/ecarvalho/scribe/internal/config"
	"github.com/ecarvalho/scribe/internal/export"
	"github.com/ecarvalho/scribe/internal/logger"
	"github.com/ecarvalho/scribe/internal/model"
	"github.com/ecarvalho/scribe/internal/render"
	"github.com/ecarvalho/scribe/internal/store"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const usage = `scribe - file-backed blog manager

Usage:
  scribe <command> [flags]

Commands:
  create         Create a new post
  view           Show a single post
  edit           Replace fields of an existing post
  list           List posts, newest first
  search         Search posts by keyword
  delete         Delete a post
  export         Export all posts as static files
  stats          Show aggregate statistics
  preview        Render a post's markdown body to an HTML file
  rebuild-index  Regenerate the index from the post records

Global flags:
  --config PATH  Config file (default "scribe.yaml")
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		fmt.Print(usage)
		return nil
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "Error loading .env file")
	}

	command, args := args[0], args[1:]

	configPath := "scribe.yaml"
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			configPath = args[i+1]
		}
	}

	// Bootstrap logger; replaced once the configured level is known.
	l := logger.New("info")
	config.SetLogger(l)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	l = logger.New(cfg.Logging.Level)
	config.SetLogger(l)
	store.SetLogger(l)
	blog.SetLogger(l)

	st, err := store.New(cfg.Data.Dir)
	if err != nil {
		return err
	}
	mgr := blog.New(st)

	switch command {
	case "create":
		return cmdCreate(mgr, cfg, args)
	case "view":
		return cmdView(mgr, args)
	case "edit":
		return cmdEdit(mgr, args)
	case "list":
		return cmdList(mgr, cfg, args)
	case "search":
		return cmdSearch(mgr, args)
	case "delete":
		return cmdDelete(mgr, args)
	case "export":
		return cmdExport(mgr, cfg, args)
	case "stats":
		return cmdStats(mgr)
	case "preview":
		return cmdPreview(mgr, args)
	case "rebuild-index":
		return st.RebuildIndex()
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "scribe.yaml", "config file")
	return fs
}

func cmdCreate(mgr *blog.Manager, cfg *config.Config, args []string) error {
	fs := newFlagSet("create")
	title := fs.String("title", "", "post title (required)")
	content := fs.String("content", "", "post content (required)")
	author := fs.String("author", "", "post author")
	tags := fs.String("tags", "", "comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !model.ValidTitle(*title) {
		return errors.New("title must be between 3 and 200 characters")
	}
	if !model.ValidContent(*content) {
		return errors.New("content must be at least 10 characters")
	}

	postAuthor := *author
	if postAuthor == "" {
		postAuthor = cfg.Blog.DefaultAuthor
	}

	post := model.NewPost(*title, *content, postAuthor, model.ParseTags(*tags))
	id, err := mgr.Create(post)
	if err != nil {
		return err
	}

	fmt.Println(okStyle.Render("Created post ") + idStyle.Render(string(id)))
	return nil
}

func requireID(fs *pflag.FlagSet) (model.PostID, error) {
	rest := fs.Args()
	if len(rest) != 1 {
		return "", errors.New("expected exactly one post id")
	}
	return model.PostID(rest[0]), nil
}

func cmdView(mgr *blog.Manager, args []string) error {
	fs := newFlagSet("view")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs)
	if err != nil {
		return err
	}

	post, err := mgr.Get(id)
	if err != nil {
		return err
	}

	fmt.Println(renderFullPost(id, post))
	return nil
}

func cmdEdit(mgr *blog.Manager, args []string) error {
	fs := newFlagSet("edit")
	title := fs.String("title", "", "new title")
	content := fs.String("content", "", "new content")
	author := fs.String("author", "", "new author")
	tags := fs.String("tags", "", "new comma-separated tags")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs)
	if err != nil {
		return err
	}

	post, err := mgr.Get(id)
	if err != nil {
		return err
	}

	if *title != "" {
		if !model.ValidTitle(*title) {
			return errors.New("title must be between 3 and 200 characters")
		}
		post.Title = *title
	}
	if *content != "" {
		if !model.ValidContent(*content) {
			return errors.New("content must be at least 10 characters")
		}
		post.Content = *content
	}
	if *author != "" {
		post.Author = *author
	}
	if fs.Changed("tags") {
		post.Tags = model.ParseTags(*tags)
	}

	if err := mgr.Update(id, post); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("Updated post ") + idStyle.Render(string(id)))
	return nil
}

func cmdList(mgr *blog.Manager, cfg *config.Config, args []string) error {
	fs := newFlagSet("list")
	limit := fs.Int("limit", cfg.Blog.ListLimit, "maximum number of posts")
	tag := fs.String("tag", "", "filter by exact tag")
	author := fs.String("author", "", "filter by author (case-insensitive)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := mgr.List(blog.ListOptions{Limit: *limit, Tag: *tag, Author: *author})
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println(metaStyle.Render("No posts found."))
		return nil
	}

	for _, rec := range records {
		fmt.Println(renderPostSummary(rec.ID, rec.Post))
	}
	return nil
}

func cmdSearch(mgr *blog.Manager, args []string) error {
	fs := newFlagSet("search")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) != 1 {
		return errors.New("expected exactly one search query")
	}

	records, err := mgr.Search(rest[0])
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println(metaStyle.Render("No matching posts."))
		return nil
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d post(s)", len(records))))
	for _, rec := range records {
		fmt.Println(renderPostSummary(rec.ID, rec.Post))
	}
	return nil
}

func cmdDelete(mgr *blog.Manager, args []string) error {
	fs := newFlagSet("delete")
	force := fs.Bool("force", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs)
	if err != nil {
		return err
	}

	if !*force {
		fmt.Printf("Delete post %s? [y/N] ", id)
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(answer, "y") {
			fmt.Println(metaStyle.Render("Aborted."))
			return nil
		}
	}

	if err := mgr.Delete(id); err != nil {
		return err
	}

	fmt.Println(okStyle.Render("Deleted post ") + idStyle.Render(string(id)))
	return nil
}

func cmdExport(mgr *blog.Manager, cfg *config.Config, args []string) error {
	fs := newFlagSet("export")
	dir := fs.String("dir", cfg.Export.Dir, "output directory")
	formatName := fs.String("format", cfg.Export.Format, "markdown, html or json")
	bundle := fs.Bool("bundle", false, "also write a .tar.gz of the export")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	files, err := mgr.Export(*dir, format)
	if err != nil {
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("Exported %d post(s) to %s", len(files), *dir)))
	for _, name := range files {
		fmt.Println("  " + metaStyle.Render(name))
	}

	if *bundle {
		bundlePath := filepath.Join(*dir, "export.tar.gz")
		if err := export.Bundle(*dir, files, bundlePath); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("Bundled export into ") + metaStyle.Render(bundlePath))
	}
	return nil
}

func cmdStats(mgr *blog.Manager) error {
	stats, err := mgr.Statistics()
	if err != nil {
		return err
	}

	mostActive := stats.MostActiveAuthor
	if mostActive == "" {
		mostActive = "None"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Blog Statistics") + "\n\n")
	fmt.Fprintf(&b, "Total posts:        %d\n", stats.TotalPosts)
	fmt.Fprintf(&b, "Distinct authors:   %d\n", stats.TotalAuthors)
	fmt.Fprintf(&b, "Distinct tags:      %d\n", stats.TotalTags)
	fmt.Fprintf(&b, "Most active author: %s\n", mostActive)
	fmt.Fprintf(&b, "Avg post length:    %d chars\n", stats.AvgPostLength)
	if len(stats.MostUsedTags) > 0 {
		b.WriteString("Top tags:\n")
		for _, tc := range stats.MostUsedTags {
			fmt.Fprintf(&b, "  %-20s %d\n", tc.Tag, tc.Count)
		}
	}

	fmt.Println(panelStyle.Render(strings.TrimRight(b.String(), "\n")))
	return nil
}

func cmdPreview(mgr *blog.Manager, args []string) error {
	fs := newFlagSet("preview")
	out := fs.String("out", "", "output file (default <id>.html)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := requireID(fs)
	if err != nil {
		return err
	}

	post, err := mgr.Get(id)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = string(id) + ".html"
	}

	if err := os.WriteFile(path, render.PreviewPage(post), 0o644); err != nil {
		return fmt.Errorf("writing preview: %w", err)
	}

	fmt.Println(okStyle.Render("Preview written to ") + metaStyle.Render(path))
	return nil
}

func renderPostSummary(id model.PostID, post *model.Post) string {
	tags := "-"
	if len(post.Tags) > 0 {
		tags = strings.Join(post.Tags, ", ")
	}

	return fmt.Sprintf("%s  %s\n    %s\n    %s",
		idStyle.Render(string(id)),
		headerStyle.Render(post.Title),
		metaStyle.Render(fmt.Sprintf("by %s | %s | tags: %s",
			post.Author, blog.FormatRelativeDate(post.CreatedAt), tags)),
		model.Summary(post.Content, 120))
}

func renderFullPost(id model.PostID, post *model.Post) string {
	updated := "Never"
	if post.UpdatedAt != nil {
		updated = blog.FormatRelativeDate(*post.UpdatedAt)
	}

	meta := fmt.Sprintf("by %s | created %s | updated %s | %d words, ~%d min read",
		post.Author,
		blog.FormatRelativeDate(post.CreatedAt),
		updated,
		model.WordCount(post.Content),
		model.ReadingTime(post.Content))

	var b strings.Builder
	b.WriteString(headerStyle.Render(post.Title) + "\n")
	b.WriteString(idStyle.Render(string(id)) + "\n")
	b.WriteString(metaStyle.Render(meta) + "\n")
	if len(post.Tags) > 0 {
		b.WriteString(metaStyle.Render("tags: "+strings.Join(post.Tags, ", ")) + "\n")
	}
	b.WriteString("\n" + post.Content)

	return panelStyle.Render(b.String())
}
