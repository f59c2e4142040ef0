package cli

import (
	"bytes"
	"os"

	"github.com/roach88/focusnav/internal/digest"
	"github.com/roach88/focusnav/internal/htmldoc"
)

// loadDocument parses the HTML file at path and returns it together with
// the fingerprint of its raw bytes.
func loadDocument(path string) (*htmldoc.Document, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", &cliError{code: ErrCodeNotFound, msg: "failed to load document", err: err}
	}
	doc, err := htmldoc.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, "", &cliError{code: ErrCodeGeneric, msg: "failed to parse " + path, err: err}
	}
	return doc, digest.Bytes(digest.DomainDocument, raw), nil
}
