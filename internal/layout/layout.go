// Package layout decides whether the floating outline panel collapses,
// based on how far the content panel's right edge reaches into it.
package layout

// Default hysteresis margins in CSS pixels. The gap between them keeps the
// panel from oscillating when a resize lands near the boundary.
const (
	DefaultCollapseMargin  = 24
	DefaultClearanceMargin = 160
)

// Controller holds the collapse state of one reader session. Owned by the
// session loop, not safe for concurrent use.
type Controller struct {
	collapseMargin  float64
	clearanceMargin float64
	collapsed       bool
}

// NewController builds a controller with the given margins. Margins at or
// below zero fall back to the defaults.
func NewController(collapseMargin, clearanceMargin float64) *Controller {
	if collapseMargin <= 0 {
		collapseMargin = DefaultCollapseMargin
	}
	if clearanceMargin <= 0 {
		clearanceMargin = DefaultClearanceMargin
	}
	return &Controller{
		collapseMargin:  collapseMargin,
		clearanceMargin: clearanceMargin,
	}
}

// Collapsed returns the current panel state.
func (c *Controller) Collapsed() bool {
	return c.collapsed
}

// Recompute applies the hysteresis policy for the reported geometry and
// returns the resulting state. Content encroaching past the collapse margin
// collapses the panel, clearance past the clearance margin expands it, and
// anything in between leaves the state as-is. A recompute also ends any
// manual override from Toggle.
func (c *Controller) Recompute(contentRight, panelLeft float64) bool {
	overlap := contentRight - panelLeft
	switch {
	case overlap > c.collapseMargin:
		c.collapsed = true
	case overlap < -c.clearanceMargin:
		c.collapsed = false
	}
	return c.collapsed
}

// Toggle flips the panel by hand. The override lasts until the next
// Recompute call.
func (c *Controller) Toggle() bool {
	c.collapsed = !c.collapsed
	return c.collapsed
}
