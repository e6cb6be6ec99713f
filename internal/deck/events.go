package deck

const (
	// SwipeThreshold is the drag offset past which a release commits.
	SwipeThreshold = 100
	// FlickVelocity is the release speed that commits regardless of offset.
	FlickVelocity = 500
	// maxRotation is the tilt in degrees at rotationSpan offset.
	maxRotation  = 25
	rotationSpan = 200
)

// Event is an input the deck reacts to.
type Event interface {
	isEvent()
}

// DecisionRequested asks to like or dislike a card, typically from a button.
type DecisionRequested struct {
	CardID string
	Liked  bool
}

// DragMoved tracks the top card while it is being dragged.
type DragMoved struct {
	Offset float64
}

// DragEnded releases the top card. Rightward means like.
type DragEnded struct {
	Offset   float64
	Velocity float64
}

func (DecisionRequested) isEvent() {}
func (DragMoved) isEvent()         {}
func (DragEnded) isEvent()         {}

// Handle folds an input event into local drag state. When the event amounts
// to a decision on the active card it is returned with ok=true; the caller
// then passes it to Begin. Handle never talks to the backend or the session.
func (d *Deck) Handle(ev Event) (req DecisionRequested, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e := ev.(type) {
	case DecisionRequested:
		return e, true

	case DragMoved:
		if !d.committing {
			d.dragOffset = e.Offset
		}
		return DecisionRequested{}, false

	case DragEnded:
		d.dragOffset = 0
		if d.committing || d.cursor >= len(d.cards) {
			return DecisionRequested{}, false
		}
		liked, decided := resolveRelease(e)
		if !decided {
			return DecisionRequested{}, false
		}
		return DecisionRequested{CardID: d.cards[d.cursor].PoiID, Liked: liked}, true
	}
	return DecisionRequested{}, false
}

func resolveRelease(e DragEnded) (liked, decided bool) {
	switch {
	case e.Offset > SwipeThreshold:
		return true, true
	case e.Offset < -SwipeThreshold:
		return false, true
	case e.Velocity > FlickVelocity:
		return true, true
	case e.Velocity < -FlickVelocity:
		return false, true
	}
	return false, false
}

// Drag returns the live drag offset and the tilt it implies.
func (d *Deck) Drag() (offset, rotation float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	offset = d.dragOffset
	rotation = offset / rotationSpan * maxRotation
	if rotation > maxRotation {
		rotation = maxRotation
	} else if rotation < -maxRotation {
		rotation = -maxRotation
	}
	return offset, rotation
}
