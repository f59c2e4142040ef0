package htmldoc

import "strings"

// inherited lists the properties that resolve through ancestors when unset.
var inherited = map[string]bool{
	"visibility":          true,
	"-webkit-user-modify": true,
}

// hiddenByDefault lists elements the user agent stylesheet does not render.
var hiddenByDefault = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"title":    true,
	"meta":     true,
	"link":     true,
	"base":     true,
	"noscript": true,
	"datalist": true,
}

// parseDeclarations splits an inline style attribute into lowercase
// property names and their values. Later declarations win.
func parseDeclarations(style string) map[string]string {
	if strings.TrimSpace(style) == "" {
		return nil
	}
	decls := make(map[string]string)
	for _, part := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if name == "" || value == "" {
			continue
		}
		decls[name] = strings.ToLower(value)
	}
	return decls
}

// ComputedStyle implements dom.Element. It resolves inline declarations,
// the hidden attribute, user agent display defaults and inheritance along
// the composed tree. Nested documents do not inherit from their frame.
func (e *Element) ComputedStyle(property string) string {
	property = strings.ToLower(property)
	if v, ok := e.declared(property); ok {
		return v
	}

	switch property {
	case "display":
		if hasAttr(e.node, "hidden") || hiddenByDefault[e.Tag()] {
			return "none"
		}
		return ""
	case "overflow-x", "overflow-y":
		if v, ok := e.declared("overflow"); ok {
			// the shorthand may carry two values: x then y
			fields := strings.Fields(v)
			if property == "overflow-y" && len(fields) > 1 {
				return fields[1]
			}
			return fields[0]
		}
		return ""
	case "overflow":
		x, _ := e.declared("overflow-x")
		y, _ := e.declared("overflow-y")
		if x != "" && x == y {
			return x
		}
		return ""
	}

	if inherited[property] {
		if p := e.composedParent(); p != nil {
			return p.ComputedStyle(property)
		}
	}
	return ""
}

func (e *Element) declared(property string) (string, bool) {
	v, ok := e.decls[property]
	return v, ok
}

func (e *Element) composedParent() *Element {
	if e.parent != nil {
		return e.parent
	}
	return e.host
}
