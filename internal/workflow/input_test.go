package workflow

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInput_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	require.NoError(t, os.WriteFile(path, []byte("\n{\"b\":1,\"a\":\"<x>\"}\n"), 0o644))

	in, err := LoadInput(path)
	require.NoError(t, err)
	assert.False(t, in.Fallback)
	assert.Equal(t, path, in.Source)
	assert.JSONEq(t, `{"b":1,"a":"<x>"}`, string(in.Raw))
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": \"<x>\"\n}", in.Indented())
}

func TestLoadInput_InvalidJSONFallsBackToRawText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.json")
	contents := "```json\n{\"screening_score\": 80,\n```"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	in, err := LoadInput(path)
	require.NoError(t, err)
	assert.True(t, in.Fallback)

	var container map[string]string
	require.NoError(t, json.Unmarshal(in.Raw, &container))
	assert.Equal(t, map[string]string{RawTextKey: contents}, container)
}

func TestLoadInput_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	_, err := LoadInput(path)

	var missing *MissingInputError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, path, missing.Path)
}

func TestNewInput(t *testing.T) {
	in, err := NewInput("inline", map[string]any{"q": "a"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"q":"a"}`, string(in.Raw))

	arr, err := NewInput("inline", json.RawMessage(`["fb1","fb2"]`))
	require.NoError(t, err)
	assert.True(t, arr.IsArray())

	text, err := NewInput("inline", []byte("free text"))
	require.NoError(t, err)
	assert.True(t, text.Fallback)
	assert.False(t, text.IsArray())
}

func TestInput_IndentedEmpty(t *testing.T) {
	assert.Equal(t, "null", Input{}.Indented())
}
