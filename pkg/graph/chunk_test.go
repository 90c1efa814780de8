package graph

import (
	"strings"
	"testing"
)

func newTestClient(t *testing.T, size, overlap int) *GraphClient {
	t.Helper()
	c, err := NewGraphClient(NewGraphClientParams{
		ChunkSize:    size,
		ChunkOverlap: overlap,
	})
	if err != nil {
		t.Fatalf("NewGraphClient() error = %v", err)
	}
	return c
}

func TestChunkText_ShortTextSingleChunk(t *testing.T) {
	c := newTestClient(t, 1000, 200)

	text := "A short document."
	chunks := c.ChunkText(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != text {
		t.Fatalf("chunk text = %q, want %q", chunks[0].Text, text)
	}
	if chunks[0].Index != 0 {
		t.Fatalf("chunk index = %d, want 0", chunks[0].Index)
	}
}

func TestChunkText_Empty(t *testing.T) {
	c := newTestClient(t, 1000, 200)
	if chunks := c.ChunkText(""); chunks != nil {
		t.Fatalf("expected nil for empty text, got %d chunks", len(chunks))
	}
}

func TestChunkText_OverlapAndReconstruction(t *testing.T) {
	c := newTestClient(t, 1000, 200)

	text := strings.Repeat("a", 2500)
	chunks := c.ChunkText(text)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for 2500 runes, got %d", len(chunks))
	}

	for i, ch := range chunks {
		if ch.Index != i {
			t.Fatalf("chunk %d carries index %d", i, ch.Index)
		}
		if n := len([]rune(ch.Text)); n > 1000 {
			t.Fatalf("chunk %d has %d runes, limit is 1000", i, n)
		}
	}

	// consecutive chunks share exactly the overlap
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Text)
		cur := []rune(chunks[i].Text)
		tail := string(prev[len(prev)-200:])
		head := string(cur[:200])
		if tail != head {
			t.Fatalf("chunks %d/%d do not share a 200-rune overlap", i-1, i)
		}
	}

	// dropping each chunk's leading overlap reconstructs the text
	var sb strings.Builder
	sb.WriteString(chunks[0].Text)
	for i := 1; i < len(chunks); i++ {
		cur := []rune(chunks[i].Text)
		sb.WriteString(string(cur[200:]))
	}
	if sb.String() != text {
		t.Fatal("concatenated chunks do not reconstruct the original text")
	}
}

func TestChunkText_PrefersNaturalBoundaries(t *testing.T) {
	c := newTestClient(t, 1000, 200)

	// sentence ends all through the text give the chunker cut points
	sentence := "This is a sentence about nothing in particular. "
	text := strings.Repeat(sentence, 60)

	chunks := c.ChunkText(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// every non-final chunk should end right after a sentence boundary
	for i := 0; i < len(chunks)-1; i++ {
		if !strings.HasSuffix(chunks[i].Text, ". ") {
			t.Fatalf("chunk %d does not end at a sentence boundary: %q",
				i, chunks[i].Text[len(chunks[i].Text)-20:])
		}
	}
}

func TestChunkText_MultiByteRunes(t *testing.T) {
	c := newTestClient(t, 100, 20)

	text := strings.Repeat("ä", 250)
	chunks := c.ChunkText(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if n := len([]rune(ch.Text)); n > 100 {
			t.Fatalf("chunk %d has %d runes, limit is 100", i, n)
		}
	}
}

func TestNewGraphClient_RejectsOverlapNotSmallerThanSize(t *testing.T) {
	if _, err := NewGraphClient(NewGraphClientParams{ChunkSize: 100, ChunkOverlap: 100}); err == nil {
		t.Fatal("expected an error for overlap == size")
	}
	if _, err := NewGraphClient(NewGraphClientParams{ChunkSize: 100, ChunkOverlap: 150}); err == nil {
		t.Fatal("expected an error for overlap > size")
	}
}
