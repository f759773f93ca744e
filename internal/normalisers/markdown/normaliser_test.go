package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notefuse/internal/core/domain"
)

func TestNormalise(t *testing.T) {
	content := "---\ntags: [sync]\n---\n# Weekly Sync\n\nDiscussed **roadmap** and *hiring*.\n\n- item one\n- [x] done task\n\nSee [the doc](https://example.com).\n"

	doc, err := New().Normalise(context.Background(), &domain.RawDocument{
		URI:      "/notes/sync.md",
		MIMEType: "text/markdown",
		Content:  []byte(content),
	})

	require.NoError(t, err)
	assert.Equal(t, "Weekly Sync", doc.Title)
	assert.Equal(t, "Weekly Sync\n\nDiscussed roadmap and hiring.\n\nitem one\ndone task\n\nSee the doc.", doc.Body)
	assert.Equal(t, "markdown", doc.Metadata["format"])
	assert.Equal(t, "text/markdown", doc.Metadata["mime_type"])
}

func TestNormalise_Nil(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		expected string
	}{
		{"first h1", "intro\n# Title Here\n## Sub", "/a.md", "Title Here"},
		{"h2 is not a title", "## Only Sub", "/path/project_plan-v2.md", "project plan v2"},
		{"no uri", "text", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTitle(tt.content, tt.uri))
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"code fence keeps code", "```bash\nmake build\n```", "make build"},
		{"inline code", "run `go test` now", "run go test now"},
		{"image alt text", "![diagram](d.png)", "diagram"},
		{"blockquote", "> quoted", "quoted"},
		{"numbered list", "1. first\n2. second", "first\nsecond"},
		{"horizontal rule", "above\n\n---\n\nbelow", "above\n\nbelow"},
		{"snake case untouched", "call get_user_name", "call get_user_name"},
		{"collapse blank lines", "a\n\n\n\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strip(tt.input))
		})
	}
}
