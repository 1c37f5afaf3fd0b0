package inputlang

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

// Switcher remembers the keyboard layout chosen in each application and
// restores it when that application regains the foreground.
type Switcher struct {
	activeApp string

	listener EventListener
	switcher LayoutSwitcher
	namer    LayoutNamer
	store    ActiveLayoutStore
	log      *zap.SugaredLogger
}

func NewSwitcher(
	listener EventListener,
	switcher LayoutSwitcher,
	namer LayoutNamer,
	store ActiveLayoutStore,
	log *zap.SugaredLogger,
) *Switcher {
	return &Switcher{
		listener: listener,
		switcher: switcher,
		namer:    namer,
		store:    store,
		log:      log,
	}
}

func (s *Switcher) ProcessEvents(ctx context.Context) error {
	for {
		resultCh := make(chan Event)
		errCh := make(chan error)
		go func() {
			event, err := s.listener.ReadEvent()
			if err != nil {
				errCh <- err
				return
			}
			resultCh <- event
		}()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-resultCh:
			if err := s.processEvent(event); err != nil {
				return fmt.Errorf("process event: %w", err)
			}
		case err := <-errCh:
			return fmt.Errorf("get event: %w", err)
		}
	}
}

func (s *Switcher) processEvent(event Event) error {
	switch event.Type {
	case EventLayoutChange:
		return s.processLayoutChange(event.Layout)
	case EventWindowFocus:
		return s.processWindowChange(event.App)
	}

	return nil
}

func (s *Switcher) processLayoutChange(layout winlayouts.Handle) error {
	if s.activeApp == "" {
		return nil
	}

	if err := s.store.SetActiveLayout(s.activeApp, layout); err != nil {
		return fmt.Errorf("store layout: %w", err)
	}

	s.log.Debugf("remembered %s (%s) for %s", layout, s.namer.Resolve(layout), s.activeApp)
	return nil
}

func (s *Switcher) processWindowChange(app string) error {
	s.activeApp = app

	layout, found, err := s.store.GetActiveLayout(app)
	if err != nil {
		return fmt.Errorf("load layout: %w", err)
	}
	if !found {
		return nil
	}

	if err := s.switcher.SwitchToLayout(layout); err != nil {
		return fmt.Errorf("switch layout: %w", err)
	}

	s.log.Debugf("restored %s (%s) for %s", layout, s.namer.Resolve(layout), app)
	return nil
}
