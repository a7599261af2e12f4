package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListArtifacts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"map.html", "tracts.geojson", "table.xlsx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	names, err := listArtifacts(dir)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"map.html", "tracts.geojson", "table.xlsx"}, names)
}

func TestListArtifacts_MissingDir(t *testing.T) {
	_, err := listArtifacts(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
