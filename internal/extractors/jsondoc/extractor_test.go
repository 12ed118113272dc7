package jsondoc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

func TestExtract_FlattensLeaves(t *testing.T) {
	extractor := New()

	data := `{"title":"Intro","meta":{"tags":["go","search"],"draft":false}}`
	result, err := extractor.Extract(context.Background(), &driven.RawContent{
		Data:     []byte(data),
		MIMEType: "application/json",
	})

	require.NoError(t, err)
	// Map keys are visited in sorted order; arrays by index.
	assert.Equal(t, "meta.draft: false\nmeta.tags[0]: go\nmeta.tags[1]: search\ntitle: Intro", result.Text)
	assert.Equal(t, 4, result.Metadata["leaves"])
}

func TestExtract_DeterministicAcrossKeyOrder(t *testing.T) {
	extractor := New()

	a, err := extractor.Extract(context.Background(), &driven.RawContent{Data: []byte(`{"a":1,"b":2}`), MIMEType: "application/json"})
	require.NoError(t, err)
	b, err := extractor.Extract(context.Background(), &driven.RawContent{Data: []byte(`{"b":2,"a":1}`), MIMEType: "application/json"})
	require.NoError(t, err)

	assert.Equal(t, a.Text, b.Text)
	assert.Equal(t, a.ContentHash, b.ContentHash)
}

func TestExtract_NullLeaf(t *testing.T) {
	extractor := New()

	result, err := extractor.Extract(context.Background(), &driven.RawContent{
		Data:     []byte(`{"gone":null}`),
		MIMEType: "application/json",
	})

	require.NoError(t, err)
	assert.Equal(t, "gone: null", result.Text)
}

func TestExtract_InvalidJSON(t *testing.T) {
	extractor := New()

	_, err := extractor.Extract(context.Background(), &driven.RawContent{
		Data:     []byte(`{"broken":`),
		MIMEType: "application/json",
	})
	assert.Error(t, err)
}
