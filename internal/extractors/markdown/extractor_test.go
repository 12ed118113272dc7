package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

func TestExtract_StripsFormatting(t *testing.T) {
	extractor := New()

	doc := "# Getting Started\n\nSome **bold** and *italic* text with a [link](https://example.com).\n\n- item one\n- item two\n"
	result, err := extractor.Extract(context.Background(), &driven.RawContent{
		Data:     []byte(doc),
		MIMEType: "text/markdown",
	})

	require.NoError(t, err)
	assert.NotContains(t, result.Text, "#")
	assert.NotContains(t, result.Text, "**")
	assert.NotContains(t, result.Text, "](")
	assert.Contains(t, result.Text, "Getting Started")
	assert.Contains(t, result.Text, "bold")
	assert.Contains(t, result.Text, "link")
	assert.Contains(t, result.Text, "item one")
}

func TestExtract_TitleFromFirstHeading(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), &driven.RawContent{
		Data:     []byte("intro line\n\n# The Title\n\nbody"),
		MIMEType: "text/markdown",
	})

	require.NoError(t, err)
	assert.Equal(t, "The Title", result.Metadata["title"])
	assert.Equal(t, "markdown", result.Metadata["format"])
}

func TestExtract_NoHeadingNoTitle(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), &driven.RawContent{
		Data:     []byte("just a paragraph"),
		MIMEType: "text/markdown",
	})

	require.NoError(t, err)
	_, hasTitle := result.Metadata["title"]
	assert.False(t, hasTitle)
}

func TestExtract_CodeBlocksRemoved(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), &driven.RawContent{
		Data:     []byte("before\n\n```go\nfunc secret() {}\n```\n\nafter"),
		MIMEType: "text/markdown",
	})

	require.NoError(t, err)
	assert.NotContains(t, result.Text, "secret")
	assert.Contains(t, result.Text, "before")
	assert.Contains(t, result.Text, "after")
}
