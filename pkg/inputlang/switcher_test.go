package inputlang_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codeberg.org/tamasv/winboard/pkg/inputlang"
	"codeberg.org/tamasv/winboard/pkg/layoutstore/memory"
	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

type scriptedListener struct {
	events []inputlang.Event
	next   int
}

func (l *scriptedListener) ReadEvent() (inputlang.Event, error) {
	if l.next >= len(l.events) {
		return inputlang.Event{}, io.EOF
	}
	event := l.events[l.next]
	l.next++
	return event, nil
}

type recordingSwitcher struct {
	switched []winlayouts.Handle
	err      error
}

func (s *recordingSwitcher) SwitchToLayout(layout winlayouts.Handle) error {
	if s.err != nil {
		return s.err
	}
	s.switched = append(s.switched, layout)
	return nil
}

type staticNamer struct{}

func (staticNamer) Resolve(winlayouts.Handle) string {
	return "Test Layout"
}

func TestSwitcherRestoresLayoutPerApp(t *testing.T) {
	const (
		english = winlayouts.Handle(0x00000409)
		german  = winlayouts.Handle(0x00000407)
	)

	listener := &scriptedListener{events: []inputlang.Event{
		{Type: inputlang.EventWindowFocus, App: "word.exe", Layout: english},
		{Type: inputlang.EventLayoutChange, App: "word.exe", Layout: german},
		{Type: inputlang.EventWindowFocus, App: "mail.exe", Layout: german},
		{Type: inputlang.EventLayoutChange, App: "mail.exe", Layout: english},
		{Type: inputlang.EventWindowFocus, App: "word.exe", Layout: english},
	}}
	switcher := &recordingSwitcher{}
	store := memory.NewLayoutStore()

	sw := inputlang.NewSwitcher(listener, switcher, staticNamer{}, store, zap.NewNop().Sugar())

	err := sw.ProcessEvents(context.Background())
	require.ErrorIs(t, err, io.EOF)

	// only the return to word.exe had a stored layout to restore
	require.Equal(t, []winlayouts.Handle{german}, switcher.switched)

	layout, found, err := store.GetActiveLayout("word.exe")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, german, layout)

	layout, found, err = store.GetActiveLayout("mail.exe")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, english, layout)
}

func TestSwitcherIgnoresLayoutChangeBeforeFirstFocus(t *testing.T) {
	listener := &scriptedListener{events: []inputlang.Event{
		{Type: inputlang.EventLayoutChange, App: "word.exe", Layout: 0x409},
	}}
	store := memory.NewLayoutStore()

	sw := inputlang.NewSwitcher(listener, &recordingSwitcher{}, staticNamer{}, store, zap.NewNop().Sugar())

	err := sw.ProcessEvents(context.Background())
	require.ErrorIs(t, err, io.EOF)

	_, found, err := store.GetActiveLayout("word.exe")
	require.NoError(t, err)
	require.False(t, found)
}

func TestSwitcherPropagatesSwitchError(t *testing.T) {
	listener := &scriptedListener{events: []inputlang.Event{
		{Type: inputlang.EventWindowFocus, App: "word.exe", Layout: 0x409},
		{Type: inputlang.EventLayoutChange, App: "word.exe", Layout: 0x407},
		{Type: inputlang.EventWindowFocus, App: "word.exe", Layout: 0x409},
	}}
	switchErr := errors.New("window went away")
	switcher := &recordingSwitcher{err: switchErr}

	sw := inputlang.NewSwitcher(listener, switcher, staticNamer{}, memory.NewLayoutStore(), zap.NewNop().Sugar())

	err := sw.ProcessEvents(context.Background())
	require.ErrorIs(t, err, switchErr)
}

type blockingListener struct{}

func (blockingListener) ReadEvent() (inputlang.Event, error) {
	select {}
}

func TestSwitcherStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sw := inputlang.NewSwitcher(blockingListener{}, &recordingSwitcher{}, staticNamer{}, memory.NewLayoutStore(), zap.NewNop().Sugar())

	err := sw.ProcessEvents(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
