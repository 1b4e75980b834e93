package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		base     Table
		override Table
		expected Table
	}{
		{
			name:     "override wins on collision",
			base:     Table{"a": "base", "b": "keep"},
			override: Table{"a": "override"},
			expected: Table{"a": "override", "b": "keep"},
		},
		{
			name:     "disjoint ids combine",
			base:     Table{"a": "A"},
			override: Table{"b": "B"},
			expected: Table{"a": "A", "b": "B"},
		},
		{
			name:     "nested tables merge recursively",
			base:     Table{"m": map[string]interface{}{"x": "1", "y": "2"}},
			override: Table{"m": map[string]interface{}{"y": "3", "z": "4"}},
			expected: Table{"m": map[string]interface{}{"x": "1", "y": "3", "z": "4"}},
		},
		{
			name:     "non-map override replaces map",
			base:     Table{"m": map[string]interface{}{"x": "1"}},
			override: Table{"m": "flat"},
			expected: Table{"m": "flat"},
		},
		{
			name:     "nil override is a no-op",
			base:     Table{"a": "A"},
			override: nil,
			expected: Table{"a": "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Merge(tt.base, tt.override))
		})
	}
}

func TestDefaults(t *testing.T) {
	tests := []struct {
		name     string
		target   Table
		defaults Table
		expected Table
	}{
		{
			name:     "fills missing ids only",
			target:   Table{"a": "mine"},
			defaults: Table{"a": "default", "b": "filled"},
			expected: Table{"a": "mine", "b": "filled"},
		},
		{
			name:     "never overwrites existing ids",
			target:   Table{"a": ""},
			defaults: Table{"a": "default"},
			expected: Table{"a": ""},
		},
		{
			name:     "nested tables fill recursively",
			target:   Table{"m": map[string]interface{}{"x": "mine"}},
			defaults: Table{"m": map[string]interface{}{"x": "default", "y": "filled"}},
			expected: Table{"m": map[string]interface{}{"x": "mine", "y": "filled"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Defaults(tt.target, tt.defaults))
		})
	}
}

func TestMergeDoesNotModifyInputs(t *testing.T) {
	base := Table{"m": map[string]interface{}{"x": "1"}}
	override := Table{"m": map[string]interface{}{"x": "2"}}

	out := Merge(base, override)
	out["m"].(map[string]interface{})["x"] = "mutated"

	assert.Equal(t, "1", base["m"].(map[string]interface{})["x"])
	assert.Equal(t, "2", override["m"].(map[string]interface{})["x"])
}

func TestClone(t *testing.T) {
	orig := Table{"m": map[string]interface{}{"x": "1"}}

	c := Clone(orig)
	c["m"].(map[string]interface{})["x"] = "changed"

	assert.Equal(t, "1", orig["m"].(map[string]interface{})["x"])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"general.a":"A","nested":{"x":"1"}}`), 0o644))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Table{"general.a": "A", "nested": map[string]interface{}{"x": "1"}}, table)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte(`{"a":`))
	assert.Error(t, err)
}
