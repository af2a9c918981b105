// Package camera maps between grid world coordinates and screen pixels.
package camera

// maxZoomFactor bounds magnification relative to the fitted zoom.
const maxZoomFactor = 8

// Camera is a pan/zoom view over a bounded world. The centre (X, Y) always
// stays inside the world and Zoom stays within [MinZoom, MaxZoom], where
// MinZoom shows the whole world.
type Camera struct {
	X, Y float32
	Zoom float32 // screen pixels per world unit

	ViewportW, ViewportH float32
	WorldW, WorldH       float32

	MinZoom, MaxZoom float32
}

// New returns a camera centred on a worldW x worldH world, zoomed to fit.
func New(viewportW, viewportH, worldW, worldH float32) *Camera {
	c := &Camera{WorldW: worldW, WorldH: worldH}
	c.setViewport(viewportW, viewportH)
	c.Reset()
	return c
}

func (c *Camera) setViewport(w, h float32) {
	c.ViewportW, c.ViewportH = w, h
	c.MinZoom = min(w/c.WorldW, h/c.WorldH)
	c.MaxZoom = c.MinZoom * maxZoomFactor
}

// halfExtents is half the visible area in world units.
func (c *Camera) halfExtents() (hw, hh float32) {
	return c.ViewportW / (2 * c.Zoom), c.ViewportH / (2 * c.Zoom)
}

func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	return c.ViewportW/2 + (wx-c.X)*c.Zoom, c.ViewportH/2 + (wy-c.Y)*c.Zoom
}

// ScreenToWorld is the inverse of WorldToScreen. The point may fall outside
// the world.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	return c.X + (sx-c.ViewportW/2)/c.Zoom, c.Y + (sy-c.ViewportH/2)/c.Zoom
}

// WorldLength scales a world distance to pixels.
func (c *Camera) WorldLength(l float32) float32 {
	return l * c.Zoom
}

// IsVisible reports whether a circle may overlap the viewport. It tests the
// bounding square, so it can return true for circles just off a corner.
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	hw, hh := c.halfExtents()
	dx, dy := wx-c.X, wy-c.Y
	return max(dx, -dx) <= hw+radius && max(dy, -dy) <= hh+radius
}

// VisibleWorldBounds returns the world rectangle under the viewport.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	hw, hh := c.halfExtents()
	return c.X - hw, c.Y - hh, c.X + hw, c.Y + hh
}

// Resize refits the zoom limits to a new viewport, keeping the current zoom
// where it is still allowed.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.setViewport(viewportW, viewportH)
	c.SetZoom(c.Zoom)
}

// Pan shifts the view by a screen-pixel delta.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, 0, c.WorldW)
	c.Y = clamp(c.Y+dy/c.Zoom, 0, c.WorldH)
}

func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centres the view on the world at fit zoom.
func (c *Camera) Reset() {
	c.X, c.Y = c.WorldW/2, c.WorldH/2
	c.Zoom = c.MinZoom
}

func clamp(x, lo, hi float32) float32 {
	return max(lo, min(x, hi))
}
