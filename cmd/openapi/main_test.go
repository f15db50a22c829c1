package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportWritesEveOperations(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--output", "-"})
	require.NoError(t, cmd.Execute())

	var spec struct {
		OpenAPI string                    `json:"openapi"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &spec))

	assert.Equal(t, "3.1.0", spec.OpenAPI)
	for _, path := range []string{
		"/eve/characters/ids",
		"/eve/characters/id",
		"/eve/characters/{character_id}",
		"/eve/alliances",
		"/eve/alliances/{alliance_id}",
		"/eve/alliances/sync",
		"/eve/status",
	} {
		assert.Contains(t, spec.Paths, path)
	}
	assert.Contains(t, spec.Paths["/eve/alliances/sync"], "post")
}
