package htmlparse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDispatchesOnMode(t *testing.T) {
	src := `<p>hi</p>`

	sync := Parse(src, Options{Mode: Synchronous})
	assert.Equal(t, "p", sync.Document.Children()[0].TagName())

	spec := Parse(src, Options{Mode: Speculative})
	assert.Equal(t, "p", spec.Document.Children()[0].TagName())
}

func TestParseFileRejectsUnrecognizedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.txt")
	require.NoError(t, os.WriteFile(path, []byte(`<p>hi</p>`), 0o644))

	_, err := ParseFile(path, Options{})
	require.Error(t, err)

	var extErr *FileExtensionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "txt", extErr.Ext)
	assert.True(t, errors.Is(err, &FileExtensionError{}))
}

func TestParseFileRejectsMissingExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(path, []byte(`<p>hi</p>`), 0o644))

	_, err := ParseFile(path, Options{})
	require.Error(t, err)

	var extErr *FileExtensionError
	require.True(t, errors.As(err, &extErr))
	assert.Equal(t, "", extErr.Ext)
}

func TestParseFileAcceptsKnownExtensions(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{"html", "htm", "xhtml", "dhtml", "HTML"} {
		path := filepath.Join(dir, "page."+ext)
		require.NoError(t, os.WriteFile(path, []byte(`<div id="root">ok</div>`), 0o644))

		res, err := ParseFile(path, Options{})
		require.NoError(t, err)
		require.Len(t, res.Document.Children(), 1)
		assert.Equal(t, "root", res.Document.Children()[0].ID())
	}
}

func TestParseFileHonorsAllowedExtensionsOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`<p>hi</p>`), 0o644))

	_, err := ParseFile(path, Options{AllowedExtensions: []string{"tmpl"}})
	require.NoError(t, err)
}

func TestParseFileSurfacesReadErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing.html")

	_, err := ParseFile(path, Options{})
	require.Error(t, err)

	var extErr *FileExtensionError
	assert.False(t, errors.As(err, &extErr), "a missing file should fail on read, not extension validation")
}
