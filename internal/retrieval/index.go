package retrieval

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/csheth/docchat/internal/docs"
)

// Hit is a scored passage.
type Hit struct {
	Chunk Chunk
	Score int
}

// Index is an in-memory keyword index over page chunks.
type Index struct {
	chunks []Chunk
	lower  []string
}

var whitespaceRe = regexp.MustCompile(`\s+`)

var stopwords = map[string]struct{}{
	"what": {}, "why": {}, "how": {}, "is": {}, "the": {}, "a": {}, "an": {}, "of": {},
	"does": {}, "do": {}, "in": {}, "on": {}, "for": {}, "are": {}, "be": {}, "use": {},
	"using": {}, "and": {}, "can": {}, "this": {}, "that": {}, "with": {}, "about": {},
	"explain": {}, "tell": {}, "me": {}, "please": {},
}

// Build chunks every page and drops duplicate passages.
func Build(pages []docs.Page) *Index {
	idx := &Index{}
	seen := map[string]bool{}
	for _, page := range pages {
		for _, chunk := range ChunkPage(page) {
			if seen[chunk.ID] {
				continue
			}
			seen[chunk.ID] = true
			idx.chunks = append(idx.chunks, chunk)
			idx.lower = append(idx.lower, strings.ToLower(chunk.Section+" "+chunk.Text))
		}
	}
	return idx
}

// Len reports the number of indexed passages.
func (i *Index) Len() int {
	return len(i.chunks)
}

// Search returns up to limit passages sharing keywords with query, best first.
func (i *Index) Search(query string, limit int) []Hit {
	keywords := Keywords(query)
	if len(keywords) == 0 || limit <= 0 {
		return nil
	}
	var hits []Hit
	for n, text := range i.lower {
		score := 0
		for keyword := range keywords {
			score += strings.Count(text, keyword)
		}
		if score > 0 {
			hits = append(hits, Hit{Chunk: i.chunks[n], Score: score})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Keywords lowercases the query and keeps tokens of three or more letters that are not stopwords.
func Keywords(query string) map[string]struct{} {
	query = strings.ToLower(query)
	query = whitespaceRe.ReplaceAllString(query, " ")
	tokens := strings.FieldsFunc(query, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	keywords := map[string]struct{}{}
	for _, token := range tokens {
		if len(token) < 3 {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		keywords[token] = struct{}{}
	}
	return keywords
}
