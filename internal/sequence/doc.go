// Package sequence orders tabbable elements the way an engine walks them
// with the Tab key.
//
// Elements with a positive tabindex come first, ascending, ties in document
// order. Everything else follows in document order. Engines that scope the
// sequence to shadow trees sort each tree on its own and splice it in at the
// host's position. Engines that move <area> elements to their image's
// position are honored before sorting.
package sequence
