// Package camera maps the bounded arena onto a screen viewport.
package camera

// Camera fits the arena into a viewport rectangle on screen, preserving
// aspect ratio. Unused viewport space is split evenly as letterbox bars.
type Camera struct {
	// Viewport rectangle on screen
	ViewportX, ViewportY float32
	ViewportW, ViewportH float32

	// Arena dimensions
	WorldW, WorldH float64

	// Zoom is screen pixels per world unit (1.0 = 1:1)
	Zoom float32

	// Screen offset of the arena origin
	offsetX, offsetY float32
}

// New creates a camera fitting a worldW x worldH arena into the viewport.
func New(viewportX, viewportY, viewportW, viewportH float32, worldW, worldH float64) *Camera {
	c := &Camera{
		ViewportX: viewportX,
		ViewportY: viewportY,
		WorldW:    worldW,
		WorldH:    worldH,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// WorldToScreen converts arena coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float32) {
	return c.offsetX + float32(wx)*c.Zoom, c.offsetY + float32(wy)*c.Zoom
}

// ScreenToWorld converts screen coordinates to arena coordinates.
// The result may lie outside the arena; use Contains to check.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float64) {
	return float64((sx - c.offsetX) / c.Zoom), float64((sy - c.offsetY) / c.Zoom)
}

// Scale converts a world length to screen pixels.
func (c *Camera) Scale(length float64) float32 {
	return float32(length) * c.Zoom
}

// Contains reports whether a screen point falls on the arena.
func (c *Camera) Contains(sx, sy float32) bool {
	wx, wy := c.ScreenToWorld(sx, sy)
	return wx >= 0 && wy >= 0 && wx <= c.WorldW && wy <= c.WorldH
}

// ArenaRect returns the arena's screen rectangle as x, y, width, height.
func (c *Camera) ArenaRect() (x, y, w, h float32) {
	return c.offsetX, c.offsetY, c.Scale(c.WorldW), c.Scale(c.WorldH)
}

// Resize updates viewport dimensions and refits the arena.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH

	zoomX := viewportW / float32(c.WorldW)
	zoomY := viewportH / float32(c.WorldH)
	c.Zoom = zoomX
	if zoomY < c.Zoom {
		c.Zoom = zoomY
	}
	if c.Zoom <= 0 {
		c.Zoom = 1
	}

	c.offsetX = c.ViewportX + (viewportW-float32(c.WorldW)*c.Zoom)/2
	c.offsetY = c.ViewportY + (viewportH-float32(c.WorldH)*c.Zoom)/2
}
