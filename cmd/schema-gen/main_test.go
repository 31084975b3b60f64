package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/invopop/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductSchemas(t *testing.T) {
	schema := generateGroupSchema(schemaGroups()[0])

	defs, ok := schema["$defs"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"AddRequest", "SaveRequest", "DetailedRequest", "SellerRequest"} {
		assert.Contains(t, defs, name)
	}

	add, ok := defs["AddRequest"].(*jsonschema.Schema)
	require.True(t, ok)
	assert.Contains(t, add.Required, "title")
	assert.Contains(t, add.Required, "url")

	number, ok := defs["Number"].(*jsonschema.Schema)
	require.True(t, ok)
	assert.NotEmpty(t, number.OneOf)
}

func TestWriteSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, writeSchema(generateGroupSchema(schemaGroups()[2]), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, "Catalog API Types", parsed["title"])
	assert.Contains(t, parsed["$defs"], "ProductDetailsResponse")
}
