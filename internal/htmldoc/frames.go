package htmldoc

import (
	"encoding/base64"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// nestedDocument parses the browsing context content of an <iframe srcdoc>
// or an <object> holding an HTML data: URL. Anything else, including
// content that cannot be decoded, yields nil.
func nestedDocument(n *html.Node) *html.Node {
	if n.Namespace != "" {
		return nil
	}
	var markup string
	switch {
	case n.Data == "iframe" && hasAttr(n, "srcdoc"):
		markup = attr(n, "srcdoc")
	case n.Data == "object":
		var ok bool
		markup, ok = htmlDataURL(attr(n, "data"), attr(n, "type"))
		if !ok {
			return nil
		}
	default:
		return nil
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil
	}
	return doc
}

// htmlDataURL decodes a data: URL whose media type, or the declared type
// when the URL omits one, is text/html.
func htmlDataURL(raw, declared string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(raw), "data:")
	if !ok {
		return "", false
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", false
	}
	meta, isBase64 := strings.CutSuffix(meta, ";base64")

	mediaType := declared
	if mt, _, _ := strings.Cut(meta, ";"); mt != "" {
		mediaType = mt
	}
	if !strings.EqualFold(strings.TrimSpace(mediaType), "text/html") {
		return "", false
	}

	if isBase64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return "", false
	}
	return s, true
}
