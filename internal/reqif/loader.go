// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reqif converts ReqIF and ReqIFz requirement-interchange
// documents into normalized, deduplicated Requirement records. Authoring
// tools (DOORS, Polarion, Jama, Enterprise Architect, PTC, ReqIF Studio)
// encode definitions, enumerations, rich text, and hierarchy with
// inconsistent element patterns and variable namespace usage, so every
// lookup runs through ordered fallback strategies instead of a single
// schema-shaped path.
package reqif

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a .reqif or .reqifz file from path and parses it into a
// Document. For .reqifz archives the first member whose name ends in
// .reqif is used. A missing path or archive member yields
// ErrDocumentNotFound; a parse failure yields ErrMalformedXML wrapped
// with the underlying decoder error.
func Load(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
	}

	var (
		src []byte
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".reqifz") {
		src, err = readArchiveMember(path)
		if err != nil {
			return nil, err
		}
	} else {
		src, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	doc, err := parseDocument(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedXML, path, err)
	}
	return doc, nil
}

// readArchiveMember extracts the first *.reqif member from a .reqifz
// zip archive.
func readArchiveMember(path string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".reqif") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening archive member %s: %w", f.Name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("reading archive member %s: %w", f.Name, err)
		}
		return data, nil
	}

	return nil, fmt.Errorf("%w: no .reqif member in %s", ErrDocumentNotFound, path)
}

// Discover walks root recursively and returns every .reqif and .reqifz
// file in lexical order. Used when no input path is given explicitly.
func Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".reqif", ".reqifz":
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	return found, nil
}
