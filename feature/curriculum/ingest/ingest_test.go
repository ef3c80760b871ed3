package ingest

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"curriculum-loader/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const bundleDoc = `{
	"category_slug": "frontend",
	"topic": {"slug": "react-hooks", "name": "React Hooks", "order_index": 1},
	"lessons": [
		{
			"slug": "use-state",
			"title": "useState",
			"summary": "Local component state",
			"content": "Call useState inside the component body.",
			"difficulty_level": "beginner",
			"order_index": 1,
			"key_points": ["state is local"]
		}
	]
}`

func TestDecodeBundle(t *testing.T) {
	bundle, err := DecodeBundle([]byte(bundleDoc))
	require.NoError(t, err)

	assert.Equal(t, "frontend", bundle.CategorySlug)
	assert.Equal(t, "frontend/react-hooks", bundle.BundleID())
	require.Len(t, bundle.Lessons, 1)
	assert.Equal(t, "use-state", bundle.Lessons[0].Slug)
}

func TestDecodeBundle_Invalid(t *testing.T) {
	_, err := DecodeBundle([]byte(`{"category_slug": `))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode bundle")
}

func TestDecodeBundle_UnescapesLegacyText(t *testing.T) {
	// The exported text carries backslash-escaped backticks and template
	// interpolation markers; the decoded bundle must hold the clean form.
	doc := "{\"category_slug\": \"frontend\"," +
		"\"topic\": {\"slug\": \"react-hooks\", \"name\": \"React Hooks\"}," +
		"\"lessons\": [{\"slug\": \"use-state\", \"title\": \"useState\"," +
		"\"summary\": \"s\", \"difficulty_level\": \"beginner\", \"order_index\": 1," +
		"\"content\": \"Use \\\\`count\\\\` and \\\\${value} in templates.\"}]}"

	bundle, err := DecodeBundle([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Use `count` and ${value} in templates.", bundle.Lessons[0].Content)
}

func TestUnescapeLegacyText(t *testing.T) {
	assert.Equal(t, "`code`", unescapeLegacyText("\\`code\\`"))
	assert.Equal(t, "${x}", unescapeLegacyText("\\${x}"))
	assert.Equal(t, "plain text", unescapeLegacyText("plain text"))
}

func TestReadBundleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(bundleDoc), 0o644))

	bundle, err := ReadBundleFile(path)
	require.NoError(t, err)
	assert.Equal(t, "frontend/react-hooks", bundle.BundleID())
}

func TestReadBundleFile_Missing(t *testing.T) {
	_, err := ReadBundleFile("/nonexistent/bundle.json")
	assert.Error(t, err)
}

func TestReadBundleDir(t *testing.T) {
	dir := t.TempDir()

	second := strings.Replace(bundleDoc, "react-hooks", "react-router", 1)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-router.json"), []byte(second), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-hooks.json"), []byte(bundleDoc), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	bundles, err := ReadBundleDir(dir)
	require.NoError(t, err)
	require.Len(t, bundles, 2)

	// Lexical order: a-hooks.json before b-router.json
	assert.Equal(t, "frontend/react-hooks", bundles[0].BundleID())
	assert.Equal(t, "frontend/react-router", bundles[1].BundleID())
}

func TestReadBundlesFromStorage(t *testing.T) {
	client := new(mocks.Client)

	ch := make(chan minio.ObjectInfo, 3)
	ch <- minio.ObjectInfo{Key: "bundles/b-router.json"}
	ch <- minio.ObjectInfo{Key: "bundles/a-hooks.json"}
	ch <- minio.ObjectInfo{Key: "bundles/readme.md"}
	close(ch)

	client.On("ListObjects", mock.Anything, "curriculum", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))
	client.On("GetObject", mock.Anything, "curriculum", "bundles/a-hooks.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(bundleDoc)), nil)
	client.On("GetObject", mock.Anything, "curriculum", "bundles/b-router.json", mock.Anything).
		Return(io.NopCloser(strings.NewReader(strings.Replace(bundleDoc, "react-hooks", "react-router", 1))), nil)

	bundles, err := ReadBundlesFromStorage(context.Background(), client, "curriculum", "bundles/")
	require.NoError(t, err)
	require.Len(t, bundles, 2)
	assert.Equal(t, "frontend/react-hooks", bundles[0].BundleID())
	assert.Equal(t, "frontend/react-router", bundles[1].BundleID())

	client.AssertExpectations(t)
}

func TestReadBundlesFromStorage_ListError(t *testing.T) {
	client := new(mocks.Client)

	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: assert.AnError}
	close(ch)

	client.On("ListObjects", mock.Anything, "curriculum", mock.Anything).
		Return((<-chan minio.ObjectInfo)(ch))

	_, err := ReadBundlesFromStorage(context.Background(), client, "curriculum", "bundles/")
	assert.Error(t, err)
}

func TestReadCategoriesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.json")
	doc := `[{"name": "Frontend", "slug": "frontend"}, {"name": "Backend", "slug": "backend"}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cats, err := ReadCategoriesFile(path)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "frontend", cats[0].Slug)
	assert.Equal(t, "Backend", cats[1].Name)
}
