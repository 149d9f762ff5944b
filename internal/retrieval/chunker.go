package retrieval

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/csheth/docchat/internal/docs"
)

// MaxChunkChars caps a single passage.
const MaxChunkChars = 1000

const introSection = "Introduction"

// Chunk is a retrievable passage of one page section.
type Chunk struct {
	ID        string
	ContentID string
	Title     string
	Part      string
	Section   string
	Index     int
	Text      string
}

var (
	sectionHeading   = regexp.MustCompile(`(?m)^(#{2,3})\s+(.+)$`)
	whitespaceSanity = regexp.MustCompile(`\s+`)
)

// ChunkPage splits a page on its ## and ### headings. Text before the first heading becomes
// the "Introduction" section; long sections are split further.
func ChunkPage(page docs.Page) []Chunk {
	type section struct{ heading, text string }
	body := strings.ReplaceAll(page.Body, "\r\n", "\n")

	var sections []section
	matches := sectionHeading.FindAllStringSubmatchIndex(body, -1)
	if len(matches) == 0 {
		sections = append(sections, section{introSection, strings.TrimSpace(body)})
	} else {
		if pre := strings.TrimSpace(body[:matches[0][0]]); pre != "" {
			sections = append(sections, section{introSection, pre})
		}
		for i, m := range matches {
			heading := strings.TrimSpace(body[m[4]:m[5]])
			end := len(body)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
			if text := strings.TrimSpace(body[m[1]:end]); text != "" {
				sections = append(sections, section{heading, text})
			}
		}
	}

	var chunks []Chunk
	for _, s := range sections {
		if s.text == "" {
			continue
		}
		for idx, piece := range splitLong(s.text, MaxChunkChars) {
			chunks = append(chunks, Chunk{
				ID:        hashChunk(canonical(piece)),
				ContentID: page.ContentID,
				Title:     page.Title,
				Part:      page.Part,
				Section:   s.heading,
				Index:     idx,
				Text:      piece,
			})
		}
	}
	return chunks
}

// splitLong breaks text at paragraph, sentence or word boundaries so no piece exceeds max bytes.
func splitLong(text string, max int) []string {
	if len(text) <= max {
		return []string{text}
	}
	var pieces []string
	for text != "" {
		if len(text) <= max {
			pieces = append(pieces, text)
			break
		}
		cut := strings.LastIndex(text[:max], "\n\n")
		if cut <= 0 {
			cut = strings.LastIndex(text[:max], ". ")
		}
		if cut <= 0 {
			cut = strings.LastIndex(text[:max], " ")
		}
		if cut <= 0 {
			cut = max
		} else {
			cut++
		}
		if piece := strings.TrimSpace(text[:cut]); piece != "" {
			pieces = append(pieces, piece)
		}
		text = strings.TrimSpace(text[cut:])
	}
	return pieces
}

func canonical(text string) string {
	return whitespaceSanity.ReplaceAllString(strings.TrimSpace(text), " ")
}

func hashChunk(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}
