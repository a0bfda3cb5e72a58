package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isJSON(name string) bool { return strings.HasSuffix(name, ".json") }

func TestFindDirPrefersWorkingDir(t *testing.T) {
	cwd := t.TempDir()
	cfg := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(cwd, "catalog"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(cfg, "catalog"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg, "catalog", "go.json"), []byte("[]"), 0o644))
	t.Chdir(cwd)

	pr, err := NewPathResolver(cfg)
	require.NoError(t, err)

	// the working dir copy has no lists, so the config dir wins
	dir, ok := pr.FindDir("catalog", isJSON)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(cfg, "catalog"), dir)

	require.NoError(t, os.WriteFile(filepath.Join(cwd, "catalog", "rust.json"), []byte("[]"), 0o644))
	dir, ok = pr.FindDir("catalog", isJSON)
	assert.True(t, ok)
	assert.True(t, strings.HasSuffix(dir, filepath.Join(filepath.Base(cwd), "catalog")))
}

func TestFindDirMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	pr, err := NewPathResolver("")
	require.NoError(t, err)

	abs := filepath.Join(t.TempDir(), "nowhere")
	dir, ok := pr.FindDir(abs, isJSON)
	assert.False(t, ok)
	assert.Equal(t, abs, dir)
	assert.Equal(t, []string{abs}, pr.Candidates(abs))
}

func TestWriteFileAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, WriteFileAtomic(path, []byte("a = 1\n")))
	require.NoError(t, WriteFileAtomic(path, []byte("a = 2\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a = 2\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{"menu": map[string]any{"rows": int64(4), "on": true, "name": "x", "bad": "4"}}
	section, ok := ExtractSection(data, "menu")
	require.True(t, ok)

	n, ok := ExtractInt64(section, "rows")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	_, ok = ExtractInt64(section, "bad")
	assert.False(t, ok)

	b, ok := ExtractBool(section, "on")
	assert.True(t, ok && b)
	s, ok := ExtractString(section, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = ExtractSection(data, "nope")
	assert.False(t, ok)
}
