// Package core provides the value types shared by the renderer packages:
// colours with alpha, text styles, screen rectangles and cells.
// It has no dependencies on the other renderer packages.
package core
