package sources

import "strings"

const (
	// Sentinel marks a citation that points at the reader's own selection rather than a page.
	Sentinel = "user-selected"
	// ContentRoot is the prefix the backend uses for document content identifiers.
	ContentRoot = "docs/"
	// RoutePrefix is where the site mounts document pages.
	RoutePrefix = "/docs/"

	markupSuffix = ".md"
)

// Resolve maps a backend content identifier such as "docs/Part-1-introduction/overview.md"
// onto the in-site route "/docs/Part-1-introduction/overview". The second return value is
// false when there is nothing to link to.
func Resolve(contentID string) (string, bool) {
	if contentID == "" || contentID == Sentinel {
		return "", false
	}
	path := contentID
	if strings.HasPrefix(path, ContentRoot) {
		path = RoutePrefix + strings.TrimPrefix(path, ContentRoot)
	}
	path = strings.TrimSuffix(path, markupSuffix)
	if !strings.HasPrefix(path, "/") {
		path = RoutePrefix + path
	}
	return path, true
}

// ContentID builds the identifier the backend would report for a page stored at rel,
// relative to the content root.
func ContentID(rel string) string {
	rel = strings.TrimPrefix(strings.ReplaceAll(rel, "\\", "/"), "/")
	return ContentRoot + rel
}
