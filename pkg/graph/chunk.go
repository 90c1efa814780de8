package graph

import (
	"strings"

	"github.com/kgraphrag/backend/pkg/common"
)

// ChunkText splits text into overlapping chunks of at most chunkSize runes.
// Each chunk after the first starts exactly chunkOverlap runes before the
// end of its predecessor, so the shared region is always the configured
// overlap. Chunk ends prefer natural boundaries (paragraph break, sentence
// end, then whitespace) found in the trailing part of the window, so a
// chunk may end early but never exceeds the size limit.
//
// Text no longer than chunkSize yields a single chunk with the full text.
func (c *GraphClient) ChunkText(text string) []common.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= c.chunkSize {
		return []common.Chunk{{Index: 0, Text: text}}
	}

	chunks := []common.Chunk{}
	start := 0
	for {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, common.Chunk{
				Index: len(chunks),
				Text:  string(runes[start:]),
			})
			break
		}

		// only accept a cut that keeps the next start moving forward
		if cut := naturalBoundary(runes, start, end); cut > start+c.chunkOverlap {
			end = cut
		}

		chunks = append(chunks, common.Chunk{
			Index: len(chunks),
			Text:  string(runes[start:end]),
		})
		start = end - c.chunkOverlap
	}

	return chunks
}

// naturalBoundary finds the best cut position in (start, end]. It scans the
// last quarter of the window backwards for a paragraph break, then a
// sentence end, then any whitespace. Returns end when nothing suitable is
// found, so the caller falls back to the hard size limit.
func naturalBoundary(runes []rune, start, end int) int {
	windowStart := end - (end-start)/4
	if windowStart <= start {
		windowStart = start + 1
	}

	// paragraph break: cut after the newline pair
	for i := end - 1; i >= windowStart; i-- {
		if runes[i] == '\n' && i > 0 && runes[i-1] == '\n' {
			return i + 1
		}
	}
	// sentence end: cut after ". ", "! ", "? "
	for i := end - 1; i > windowStart; i-- {
		if isSentenceEnd(runes[i-1]) && isSpace(runes[i]) {
			return i + 1
		}
	}
	// any whitespace
	for i := end - 1; i >= windowStart; i-- {
		if isSpace(runes[i]) {
			return i + 1
		}
	}
	return end
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isSpace(r rune) bool {
	return strings.ContainsRune(" \t\n\r", r)
}
