// Package merger pairs the documentation rows of a profile's previous and
// current version into one diff-annotated view.
//
// MergeTable aligns two path-keyed tables row by row and tags each merged
// row with the change kind computed by the differ. MergeSection generalizes
// this to whole document sections (tabs): embedded tables with the same
// stable identifier are merged, narrative outside tables is taken verbatim
// from the current version.
//
// Merging never mutates the input trees. Rendered output is a fresh tree
// assembled from clones taken at attach time, so the previous page, the
// current page, and the merged page never share nodes.
package merger
