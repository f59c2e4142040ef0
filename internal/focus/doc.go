// Package focus classifies elements as focus relevant, focusable and
// tabbable for one environment.
//
// An Environment bundles the platform descriptor, the quirk flags resolved
// for it and a capability snapshot. The Classifier evaluates:
//
//   - focus relevance: can the element type or state ever take focus
//   - focusability: relevant, enabled, rendered and script focusable
//   - tabbability: an ordered cascade of rules, the first decisive rule wins
//
// Exceptions switch individual quirk rules off. They are passed by value,
// so a recursive evaluation "as if" a rule did not exist cannot leak into
// the caller's evaluation.
package focus
