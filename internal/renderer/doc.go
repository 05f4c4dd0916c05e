// Package renderer draws a highlighted document on a cell surface.
//
// A View lays out the lines of a buffer.Document inside a screen area:
// the gutter first, then the text with each span painted in the style its
// palette gives it, then the selections. The caret overlay is painted on
// top by the cursor package.
//
//	┌────┬───────────────────────────────┐
//	│  1 │ def main():                   │
//	│  2 │     return 1                  │  text area
//	└────┴───────────────────────────────┘
//	 gutter
//
// Scrolling follows the primary caret through a viewport.Viewport.
package renderer
