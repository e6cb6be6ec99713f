// Package slider is the paging state shared by the carousels: an index into a
// fixed number of slides, moved by explicit calls or by the end of a drag.
package slider

const (
	// DragThreshold is the offset a drag must exceed to change slides.
	DragThreshold = 50
	// VelocityThreshold is the speed above which the drag direction alone decides.
	VelocityThreshold = 500
)

// DragEnded reports a finished horizontal drag. Positive values mean the
// content was pulled right, which reveals the previous slide.
type DragEnded struct {
	Offset   float64
	Velocity float64
}

// Direction is the page change a drag resolves to.
type Direction int

const (
	Stay Direction = iota
	Previous
	Next
)

func (d Direction) String() string {
	switch d {
	case Previous:
		return "previous"
	case Next:
		return "next"
	default:
		return "stay"
	}
}

// Resolve maps a finished drag onto a direction.
func (e DragEnded) Resolve() Direction {
	switch {
	case abs(e.Velocity) > VelocityThreshold:
		if e.Velocity > 0 {
			return Previous
		}
		return Next
	case abs(e.Offset) > DragThreshold:
		if e.Offset > 0 {
			return Previous
		}
		return Next
	}
	return Stay
}

// Slider holds a clamped index. The zero value is an empty slider.
type Slider struct {
	index int
	total int
}

// New returns a slider over total slides positioned at the first one.
func New(total int) *Slider {
	s := &Slider{}
	s.SetTotal(total)
	return s
}

func (s *Slider) Index() int { return s.index }
func (s *Slider) Total() int { return s.total }

// SetTotal changes the slide count and pulls the index back into range.
func (s *Slider) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	s.total = total
	s.index = s.clamp(s.index)
}

// Next advances one slide; at the end it does nothing.
func (s *Slider) Next() {
	s.index = s.clamp(s.index + 1)
}

// Previous goes back one slide; at the start it does nothing.
func (s *Slider) Previous() {
	s.index = s.clamp(s.index - 1)
}

// GoTo jumps to index, clamped into range.
func (s *Slider) GoTo(index int) {
	s.index = s.clamp(index)
}

// OnDragEnd applies a finished drag and returns the direction taken.
func (s *Slider) OnDragEnd(offset, velocity float64) Direction {
	return s.Apply(DragEnded{Offset: offset, Velocity: velocity})
}

// Apply consumes a drag event.
func (s *Slider) Apply(e DragEnded) Direction {
	dir := e.Resolve()
	switch dir {
	case Previous:
		s.Previous()
	case Next:
		s.Next()
	}
	return dir
}

func (s *Slider) CanGoNext() bool     { return s.index < s.total-1 }
func (s *Slider) CanGoPrevious() bool { return s.index > 0 }

func (s *Slider) clamp(i int) int {
	if i > s.total-1 {
		i = s.total - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
