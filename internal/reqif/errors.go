// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reqif

import "errors"

// ErrDocumentNotFound reports a missing input path or, for .reqifz
// archives, an archive without any .reqif member. Fatal before parsing.
var ErrDocumentNotFound = errors.New("reqif document not found")

// ErrMalformedXML reports input that is not well-formed XML. Fatal for
// the document; no partial results are produced.
var ErrMalformedXML = errors.New("malformed reqif xml")
