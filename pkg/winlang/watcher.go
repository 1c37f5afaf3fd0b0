//go:build windows

package winlang

import (
	"time"

	"codeberg.org/tamasv/winboard/pkg/inputlang"
	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

// Watcher polls the foreground window and reports focus and layout changes
// as inputlang events.
type Watcher struct {
	client   *Client
	interval time.Duration

	lastApp    string
	lastLayout winlayouts.Handle
}

func NewWatcher(client *Client, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &Watcher{client: client, interval: interval}
}

// ReadEvent blocks until the foreground application or its keyboard layout
// changes. Transient failures to query the desktop (no foreground window,
// protected processes) are skipped, not returned.
func (w *Watcher) ReadEvent() (inputlang.Event, error) {
	for {
		time.Sleep(w.interval)

		app, err := w.client.ForegroundApp()
		if err != nil {
			continue
		}

		layout, err := w.client.ForegroundLayout()
		if err != nil {
			continue
		}

		if app != w.lastApp {
			w.lastApp = app
			w.lastLayout = layout
			return inputlang.Event{Type: inputlang.EventWindowFocus, App: app, Layout: layout}, nil
		}

		if layout != w.lastLayout {
			w.lastLayout = layout
			return inputlang.Event{Type: inputlang.EventLayoutChange, App: app, Layout: layout}, nil
		}
	}
}
