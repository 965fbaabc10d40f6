// Package camera maps the ring plane to screen pixels.
package camera

import "gonum.org/v1/gonum/spatial/r2"

// Camera controls the viewport onto the ring plane. World y points up,
// screen y points down; the world origin sits at the viewport centre
// when the camera is not panned.
type Camera struct {
	// Position is the camera center in world units
	X, Y float32

	// Zoom level (1.0 = PixelsPerUnit pixels per world unit)
	Zoom float32

	// Base scale before zoom
	PixelsPerUnit float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centred on the origin with 1:1 zoom.
func New(viewportW, viewportH, pixelsPerUnit float32) *Camera {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 1
	}
	return &Camera{
		Zoom:          1.0,
		PixelsPerUnit: pixelsPerUnit,
		ViewportW:     viewportW,
		ViewportH:     viewportH,
		MinZoom:       0.25,
		MaxZoom:       4.0,
	}
}

// scale returns pixels per world unit at the current zoom.
func (c *Camera) scale() float32 {
	return c.PixelsPerUnit * c.Zoom
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 - (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y - (sy-c.ViewportH/2)/s
	return wx, wy
}

// PointerWorld converts a screen position to a ring-plane pointer position.
func (c *Camera) PointerWorld(sx, sy float32) r2.Vec {
	wx, wy := c.ScreenToWorld(sx, sy)
	return r2.Vec{X: float64(wx), Y: float64(wy)}
}

// Contains reports whether a screen position lies inside the viewport.
func (c *Camera) Contains(sx, sy float32) bool {
	return sx >= 0 && sy >= 0 && sx < c.ViewportW && sy < c.ViewportH
}

// IsVisible returns true if a circle at (wx, wy) with given world radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	s := c.scale()
	c.X += dx / s
	c.Y -= dy / s
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at 1:1 zoom.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	s := c.scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
