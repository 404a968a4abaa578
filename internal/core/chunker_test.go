// ABOUTME: Tests for the overlapping character chunker
// ABOUTME: Verifies spans, overlap equality, reconstruction, and determinism

package core

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/yashraj10/retention-rag/internal/models"
)

func mustChunker(t *testing.T, size, overlap int) *Chunker {
	t.Helper()
	c, err := NewChunker(size, overlap)
	if err != nil {
		t.Fatalf("NewChunker(%d, %d) error = %v", size, overlap, err)
	}
	return c
}

func repeatText(n int) string {
	// Distinct characters at every position so span errors are visible.
	alphabet := "abcdefghijklmnopqrstuvwxyz0123456789"
	var sb strings.Builder
	for sb.Len() < n {
		sb.WriteString(alphabet)
	}
	return sb.String()[:n]
}

func TestNewChunker_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap exceeds size", 100, 150},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChunker(tt.size, tt.overlap); err == nil {
				t.Errorf("NewChunker(%d, %d) succeeded, want error", tt.size, tt.overlap)
			}
		})
	}
}

func TestChunk_ReferenceExample(t *testing.T) {
	// size 1500, overlap 200, 3200 chars -> spans [0,1500), [1300,2800), [2600,3200).
	c := mustChunker(t, 1500, 200)
	src := models.Source{ID: "web_0", RawText: repeatText(3200)}

	chunks := c.Chunk(src)
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}

	wantSpans := [][2]int{{0, 1500}, {1300, 2800}, {2600, 3200}}
	for i, want := range wantSpans {
		if chunks[i].Start != want[0] || chunks[i].End != want[1] {
			t.Errorf("chunk %d span = [%d,%d), want [%d,%d)", i, chunks[i].Start, chunks[i].End, want[0], want[1])
		}
	}

	wantIDs := []string{"web_0_c0", "web_0_c1", "web_0_c2"}
	for i, want := range wantIDs {
		if chunks[i].ID != want {
			t.Errorf("chunk %d id = %q, want %q", i, chunks[i].ID, want)
		}
	}
}

func TestChunk_OverlapEquality(t *testing.T) {
	c := mustChunker(t, 500, 120)
	src := models.Source{ID: "vt_0", RawText: repeatText(2345)}

	chunks := c.Chunk(src)
	for i := 0; i+1 < len(chunks); i++ {
		cur, next := chunks[i].Text, chunks[i+1].Text
		overlap := 120
		if len(next) < overlap {
			overlap = len(next)
		}
		tail := cur[len(cur)-overlap:]
		head := next[:overlap]
		if tail != head {
			t.Errorf("chunks %d/%d: tail %q != head %q", i, i+1, tail, head)
		}
	}
}

func TestChunk_Reconstruction(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
		textLen       int
	}{
		{"reference", 1500, 200, 3200},
		{"no overlap", 100, 0, 1024},
		{"tiny tail", 100, 30, 173},
		{"exact multiple", 100, 20, 420},
		{"single chunk", 1000, 100, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := mustChunker(t, tt.size, tt.overlap)
			text := repeatText(tt.textLen)
			chunks := c.Chunk(models.Source{ID: "s", RawText: text})

			// Concatenating chunks with the declared overlap removed must
			// reproduce the original text exactly.
			var sb strings.Builder
			for i, ch := range chunks {
				if i == 0 {
					sb.WriteString(ch.Text)
					continue
				}
				overlap := tt.overlap
				if len(ch.Text) < overlap {
					overlap = len(ch.Text)
				}
				sb.WriteString(ch.Text[overlap:])
			}
			if sb.String() != text {
				t.Errorf("reconstruction mismatch: got %d chars, want %d", sb.Len(), len(text))
			}

			// No chunk may exceed the declared size.
			for i, ch := range chunks {
				if len(ch.Text) > tt.size {
					t.Errorf("chunk %d length %d exceeds size %d", i, len(ch.Text), tt.size)
				}
			}
		})
	}
}

func TestChunk_MultiByteText(t *testing.T) {
	// Ten three-byte runes; windows of 7 with overlap 2 would land mid-rune
	// if the chunker counted bytes.
	c := mustChunker(t, 7, 2)
	src := models.Source{ID: "vt_1", RawText: strings.Repeat("す", 10)}

	chunks := c.Chunk(src)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2", len(chunks))
	}

	wantSpans := [][2]int{{0, 7}, {5, 10}}
	for i, ch := range chunks {
		if !utf8.ValidString(ch.Text) {
			t.Errorf("chunk %d text is invalid UTF-8: %q", i, ch.Text)
		}
		if got := utf8.RuneCountInString(ch.Text); got > 7 {
			t.Errorf("chunk %d has %d runes, want at most 7", i, got)
		}
		if ch.Start != wantSpans[i][0] || ch.End != wantSpans[i][1] {
			t.Errorf("chunk %d span = [%d,%d), want [%d,%d)", i, ch.Start, ch.End, wantSpans[i][0], wantSpans[i][1])
		}
	}

	// Adjacent chunks still share exactly overlap characters.
	cur, next := []rune(chunks[0].Text), []rune(chunks[1].Text)
	if string(cur[len(cur)-2:]) != string(next[:2]) {
		t.Errorf("overlap mismatch: tail %q != head %q", string(cur[len(cur)-2:]), string(next[:2]))
	}
}

func TestChunk_Deterministic(t *testing.T) {
	c := mustChunker(t, 300, 50)
	src := models.Source{ID: "web_3", RawText: repeatText(999)}

	first := c.Chunk(src)
	second := c.Chunk(src)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestChunk_Empty(t *testing.T) {
	c := mustChunker(t, 100, 10)
	if chunks := c.Chunk(models.Source{ID: "s", RawText: ""}); chunks != nil {
		t.Errorf("Chunk(empty) = %d chunks, want none", len(chunks))
	}
}
