// Package htmldoc builds a dom.Element tree from HTML markup.
//
// Parsing uses golang.org/x/net/html. On top of the parsed tree the package
// composes what a browser would present to the focus classifiers:
//
//   - declarative shadow roots (<template shadowrootmode>) become shadow trees
//     of their parent element, with shadowrootdelegatesfocus honoured
//   - <iframe srcdoc> content is parsed into a nested browsing context whose
//     frame element is the iframe
//   - inline style declarations, the hidden attribute and inherited
//     properties resolve into ComputedStyle
//
// Elements are numbered in composed preorder: a host precedes its shadow
// content, which precedes the host's light children. XPath selection goes
// through github.com/antchfx/htmlquery.
package htmldoc
