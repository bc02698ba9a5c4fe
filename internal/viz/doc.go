// Package viz renders stencils and batch results for the terminal.
//
//   - [RenderStencil]: one stencil as a styled table with weight bars
//   - [RenderTable]: every derivative order of a [fornberg.Table]
//   - [PlotWeights]: an asciigraph line plot of the weights
//   - [RenderBatch]: one line per stencil of a batch run
//
// Output degrades to plain text when stdout is not a terminal.
package viz
