package inputlang

import "codeberg.org/tamasv/winboard/pkg/winlayouts"

type EventType int

const (
	// EventWindowFocus fires when a different application takes the
	// foreground. Layout carries the layout active at that moment.
	EventWindowFocus EventType = iota
	// EventLayoutChange fires when the foreground application's keyboard
	// layout changes.
	EventLayoutChange
)

type Event struct {
	Type   EventType
	App    string
	Layout winlayouts.Handle
}

type EventListener interface {
	ReadEvent() (Event, error)
}

type LayoutSwitcher interface {
	SwitchToLayout(layout winlayouts.Handle) error
}

type LayoutNamer interface {
	Resolve(handle winlayouts.Handle) string
}

type ActiveLayoutStore interface {
	GetActiveLayout(app string) (winlayouts.Handle, bool, error)
	SetActiveLayout(app string, layout winlayouts.Handle) error
}
