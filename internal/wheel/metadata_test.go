package wheel

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMetadata = "Metadata-Version: 2.1\r\n" +
	"Name: json4\r\n" +
	"Version: 1.0.2\r\n" +
	"Summary: JSON helpers for echarts options\r\n" +
	"\r\n" +
	"# json4\n\nRender echarts option dictionaries.\n"

func writeTestWheel(t *testing.T, dir, name string, files map[string]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for entry, content := range files {
		w, err := zw.Create(entry)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestReadMetadata(t *testing.T) {
	dir := t.TempDir()
	path := writeTestWheel(t, dir, "json4-1.0.2-py3-none-any.whl", map[string]string{
		"json4/__init__.py":              "",
		"json4-1.0.2.dist-info/WHEEL":    "Wheel-Version: 1.0\n",
		"json4-1.0.2.dist-info/METADATA": sampleMetadata,
		"json4-1.0.2.dist-info/RECORD":   "",
	})

	meta, err := ReadMetadata(path)
	require.NoError(t, err)

	assert.Equal(t, "json4", meta.Get("Name"))
	assert.Equal(t, "1.0.2", meta.Get("Version"))
	assert.True(t, meta.Has("Summary"))
	assert.False(t, meta.Has("License"))
	assert.Contains(t, meta.LongDescription(), "Render echarts option dictionaries")
}

func TestReadMetadataMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := writeTestWheel(t, dir, "json4-1.0.2-py3-none-any.whl", map[string]string{
		"json4/__init__.py": "",
	})

	_, err := ReadMetadata(path)
	assert.ErrorContains(t, err, "no .dist-info/METADATA")
}

func TestReadMetadataNotAZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.whl")
	require.NoError(t, os.WriteFile(path, []byte("not a zip"), 0o644))

	_, err := ReadMetadata(path)
	assert.Error(t, err)
}
