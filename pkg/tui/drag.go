package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// cellPixels converts terminal columns into the pixel units the drag
// thresholds are expressed in.
const cellPixels = 10

func newDrag(x int, at time.Time) *dragState {
	return &dragState{startX: x, lastX: x, prevX: x, lastAt: at, prevAt: at}
}

func (d *dragState) move(x int, at time.Time) {
	d.prevX, d.prevAt = d.lastX, d.lastAt
	d.lastX, d.lastAt = x, at
}

// offset is the horizontal distance from the press, in pixels.
func (d *dragState) offset() float64 {
	return float64((d.lastX - d.startX) * cellPixels)
}

// velocity is the speed of the last movement in pixels per second.
func (d *dragState) velocity() float64 {
	dt := d.lastAt.Sub(d.prevAt).Seconds()
	if dt <= 0 {
		return 0
	}
	return float64((d.lastX-d.prevX)*cellPixels) / dt
}

func isLeftPress(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft
}
