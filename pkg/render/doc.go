// Package render draws computed circuit layouts.
//
// Three sinks share one [Theme]: RenderSVG produces a standalone SVG
// document, RenderText produces a unicode wire grid for terminals, and
// DependencyDOT plus RenderDOTSVG render the operation dependency graph
// via Graphviz. All sinks consume [layout.Layout] coordinates as-is and
// never re-derive positions.
package render
