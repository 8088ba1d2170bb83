// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalReqIF = `<?xml version="1.0" encoding="UTF-8"?>
<REQ-IF xmlns="http://www.omg.org/spec/ReqIF/20110401/reqif.xsd">
	<CORE-CONTENT><REQ-IF-CONTENT/></CORE-CONTENT>
</REQ-IF>`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeArchive(t *testing.T, name string, members map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for member, content := range members {
		w, err := zw.Create(member)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return path
}

func TestLoadReqIF(t *testing.T) {
	path := writeTemp(t, "sample.reqif", minimalReqIF)

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://www.omg.org/spec/ReqIF/20110401/reqif.xsd", doc.Namespace)
	assert.Len(t, doc.ElementsByLocal("REQ-IF-CONTENT"), 1)
}

func TestLoadReqIFZUsesFirstReqIFMember(t *testing.T) {
	path := writeArchive(t, "bundle.reqifz", map[string]string{
		"readme.txt":      "not a document",
		"data/spec.reqif": minimalReqIF,
	})

	doc, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, doc.Root)
	assert.Equal(t, "REQ-IF", doc.Root.Local)
}

func TestLoadMissingPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.reqif"))
	assert.True(t, errors.Is(err, ErrDocumentNotFound), "want ErrDocumentNotFound, got %v", err)
}

func TestLoadArchiveWithoutReqIFMember(t *testing.T) {
	path := writeArchive(t, "empty.reqifz", map[string]string{"readme.txt": "nothing here"})

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrDocumentNotFound), "want ErrDocumentNotFound, got %v", err)
}

func TestLoadMalformedXML(t *testing.T) {
	path := writeTemp(t, "broken.reqif", `<REQ-IF><oops</REQ-IF>`)

	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrMalformedXML), "want ErrMalformedXML, got %v", err)
}

func TestDiscoverFindsDocumentsRecursively(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a.reqif", "sub/b.reqifz", "sub/skip.xml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	found, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, filepath.Join(dir, "a.reqif"), found[0])
	assert.Equal(t, filepath.Join(dir, "sub", "b.reqifz"), found[1])
}
