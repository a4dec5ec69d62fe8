package render

import (
	"product-intel/internal/compare"
)

// Renderer turns a comparison table description into document bytes. Page
// layout, fonts and orientation are entirely the renderer's concern; the
// table description is the only input.
type Renderer interface {
	Render(t *compare.Table) ([]byte, error)
}
