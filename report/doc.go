// Package report renders the cost history of a gradient-descent run.
//
// None of the renderers feed anything back into the optimizer: they take the
// history the run returned and write a PNG (or SVG/PDF) line plot, an
// interactive HTML chart, or a plain-text summary.
package report
