package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p, err := New()
		require.NoError(t, err)
		assert.Equal(t, 500, p.ChunkSize())
		assert.Equal(t, 50, p.Overlap())
	})

	t.Run("custom values", func(t *testing.T) {
		p, err := New(WithChunkSize(200), WithOverlap(20))
		require.NoError(t, err)
		assert.Equal(t, 200, p.ChunkSize())
		assert.Equal(t, 20, p.Overlap())
	})

	t.Run("overlap equal to chunk size is rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(100))
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("overlap above chunk size is rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("non-positive size is rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(0), WithOverlap(0))
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})

	t.Run("negative overlap is rejected", func(t *testing.T) {
		_, err := New(WithOverlap(-1))
		assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
	})
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		size     int
		overlap  int
		expected []string
	}{
		{"stride three", "abcdefghij", 4, 1, []string{"abcd", "defg", "ghij"}},
		{"short text is one chunk", "abc", 4, 1, []string{"abc"}},
		{"exact size is one chunk", "abcd", 4, 1, []string{"abcd"}},
		{"partial final window", "abcdefghijk", 4, 1, []string{"abcd", "defg", "ghij", "jk"}},
		{"no overlap", "abcdef", 2, 0, []string{"ab", "cd", "ef"}},
		{"empty text", "", 4, 1, nil},
		{"multi-byte runes", "ñandú über", 4, 1, []string{"ñand", "dú ü", "über"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := Split(tt.text, tt.size, tt.overlap)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, chunks)
		})
	}
}

func TestSplit_InvalidConfiguration(t *testing.T) {
	_, err := Split("abcdef", 3, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSplit_CountFormula(t *testing.T) {
	p, err := New(WithChunkSize(7), WithOverlap(3))
	require.NoError(t, err)

	for length := 1; length <= 60; length++ {
		text := strings.Repeat("x", length)
		chunks := p.Chunk(text)

		want := 1
		if length > 7 {
			// ceil((L - O) / (S - O))
			want = (length - 3 + 3) / 4
		}
		assert.Len(t, chunks, want, "length %d", length)
		assert.Equal(t, want, p.Count(length), "length %d", length)
	}
}

func TestSplit_Coverage(t *testing.T) {
	text := "The quarterly planning meeting covered hiring, budget and the roadmap."

	for _, cfg := range []struct{ size, overlap int }{{5, 0}, {5, 4}, {16, 3}, {100, 10}} {
		chunks, err := Split(text, cfg.size, cfg.overlap)
		require.NoError(t, err)

		// Rebuild the text from chunk starts: each chunk after the first
		// contributes only its non-overlapping tail.
		var rebuilt strings.Builder
		for i, c := range chunks {
			if i == 0 {
				rebuilt.WriteString(c)
				continue
			}
			rebuilt.WriteString(c[cfg.overlap:])
		}
		assert.Equal(t, text, rebuilt.String(), "size=%d overlap=%d", cfg.size, cfg.overlap)
	}
}
