package dom

import "fmt"

// Strategy selects how the candidate query finds elements.
type Strategy string

const (
	// Quick matches a selector of element types and attributes that are
	// commonly focus relevant. Layout-dependent candidates are missed.
	Quick Strategy = "quick"
	// Strict visits every element and leaves the decision to the classifier.
	Strict Strategy = "strict"
	// All visits every element and also keeps hidden and disabled
	// elements that would otherwise be tabbable.
	All Strategy = "all"
)

// ParseStrategy validates a strategy name; "" selects Quick.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return Quick, nil
	case Quick, Strict, All:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q: must be one of quick, strict, all", s)
	}
}

// Querier produces candidate elements under a root, in document order,
// descending into shadow trees. Nested browsing contexts have their own
// sequence and are not entered.
type Querier interface {
	// Candidates returns the candidates below root; root itself is included
	// first when includeRoot is set and root matches the strategy.
	Candidates(root Element, strategy Strategy, includeRoot bool) []Element

	// DocumentElement returns the root element of the top-level document.
	DocumentElement() Element
}
