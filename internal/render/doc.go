// Package render turns reports and progress snapshots into text.
//
// Rendering is the outer display layer: nothing here feeds back into
// classification, scope or progress state.
package render
