package docs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/csheth/docchat/internal/sources"
)

// Page is one document in the content tree.
type Page struct {
	// ContentID is the identifier the backend cites, e.g. "docs/Part-3-ros2/nodes.md".
	ContentID string
	// Route is the in-site path, e.g. "/docs/Part-3-ros2/nodes".
	Route string
	Title string
	Part  string
	Body  string
}

// Library holds the loaded pages in route order.
type Library struct {
	pages   []Page
	byRoute map[string]int
}

var (
	frontmatterTitle = regexp.MustCompile(`(?m)^title:\s*["']?(.+?)["']?\s*$`)
	firstHeading     = regexp.MustCompile(`(?m)^#\s+(.+)$`)
	partDir          = regexp.MustCompile(`^(?i)part-(\d+)(?:-(.*))?$`)
)

// Load reads every Markdown and PDF page under root.
func Load(root string) (*Library, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("docs root %s is not a directory", root)
	}

	var pages []Page
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".mdx":
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			pages = append(pages, markdownPage(rel, string(data)))
		case ".pdf":
			text, err := extractPDFText(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", rel, err)
			}
			pages = append(pages, pdfPage(rel, text))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return NewLibrary(pages), nil
}

// NewLibrary indexes pages by route.
func NewLibrary(pages []Page) *Library {
	sorted := append([]Page(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Route < sorted[j].Route })
	lib := &Library{pages: sorted, byRoute: make(map[string]int, len(sorted))}
	for i, page := range sorted {
		lib.byRoute[page.Route] = i
	}
	return lib
}

// Pages returns all pages in route order.
func (l *Library) Pages() []Page {
	if l == nil {
		return nil
	}
	return append([]Page(nil), l.pages...)
}

// Len reports the page count.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.pages)
}

// At returns the page at index i.
func (l *Library) At(i int) (Page, bool) {
	if l == nil || i < 0 || i >= len(l.pages) {
		return Page{}, false
	}
	return l.pages[i], true
}

// IndexOf returns the position of the page served at route.
func (l *Library) IndexOf(route string) (int, bool) {
	if l == nil {
		return 0, false
	}
	idx, ok := l.byRoute[strings.TrimRight(route, "/")]
	return idx, ok
}

func markdownPage(rel, content string) Page {
	contentID := sources.ContentID(rel)
	body := stripFrontmatter(content)
	return Page{
		ContentID: contentID,
		Route:     routeFor(contentID),
		Title:     pageTitle(content, rel),
		Part:      PartLabel(rel),
		Body:      strings.TrimSpace(body),
	}
}

func pdfPage(rel, text string) Page {
	contentID := sources.ContentID(rel)
	return Page{
		ContentID: contentID,
		Route:     routeFor(contentID),
		Title:     strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel)),
		Part:      PartLabel(rel),
		Body:      text,
	}
}

// routeFor resolves like a citation would, additionally dropping .mdx and .pdf extensions
// so every page gets a clean route.
func routeFor(contentID string) string {
	route, _ := sources.Resolve(contentID)
	for _, ext := range []string{".mdx", ".pdf"} {
		route = strings.TrimSuffix(route, ext)
	}
	return route
}

func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	end := strings.Index(content[3:], "---")
	if end < 0 {
		return content
	}
	return strings.TrimSpace(content[3+end+3:])
}

func pageTitle(content, rel string) string {
	if strings.HasPrefix(content, "---") {
		if m := frontmatterTitle.FindStringSubmatch(content); len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}
	if m := firstHeading.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
}

// PartLabel derives a display label from the top-level directory, turning
// "Part-2-humanoid-robotics/urdf.md" into "Part 2 · Humanoid Robotics".
func PartLabel(rel string) string {
	rel = filepath.ToSlash(rel)
	dir, _, found := strings.Cut(rel, "/")
	if !found {
		return ""
	}
	m := partDir.FindStringSubmatch(dir)
	if m == nil {
		return humanize(dir)
	}
	label := "Part " + m[1]
	if m[2] != "" {
		label += " · " + humanize(m[2])
	}
	return label
}

func humanize(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		if len(w) <= 3 && strings.ToUpper(w) == w {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
