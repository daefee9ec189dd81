package transform

import (
	"github.com/golang/geo/r2"
)

// projectionKey identifies one cached canvas position. Viewport size and
// display parameters are part of the key, so a stale entry can never be
// served after a pan/zoom/rotation or resize; Invalidate just keeps the
// map from growing across such changes.
type projectionKey struct {
	pointID string
	width   float64
	height  float64
	display DisplayParameters
}

// ProjectionCache memoizes the canvas-pixel positions of persisted
// normalized points. It holds ephemeral derived data only: it is never
// serialized and is not part of any domain entity. Not safe for
// concurrent use; all geometry in this module is single-threaded by
// contract.
type ProjectionCache struct {
	entries map[projectionKey]r2.Point
}

// NewProjectionCache returns an empty cache.
func NewProjectionCache() *ProjectionCache {
	return &ProjectionCache{entries: map[projectionKey]r2.Point{}}
}

// CanvasPosition returns the canvas position of the identified
// normalized point under the given viewport and display parameters,
// computing and memoizing it on first use.
func (c *ProjectionCache) CanvasPosition(
	pointID string,
	np r2.Point,
	canvasW, canvasH float64,
	display DisplayParameters,
) r2.Point {
	key := projectionKey{pointID: pointID, width: canvasW, height: canvasH, display: display}
	if pt, ok := c.entries[key]; ok {
		return pt
	}
	pt := display.NormalizedToCanvas(np, canvasW, canvasH)
	c.entries[key] = pt
	return pt
}

// Len returns the number of cached positions.
func (c *ProjectionCache) Len() int {
	return len(c.entries)
}

// Invalidate drops every cached position. Call after a pose or display
// change, before recomputing positions for redraw.
func (c *ProjectionCache) Invalidate() {
	c.entries = map[projectionKey]r2.Point{}
}
