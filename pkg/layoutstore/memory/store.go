package memory

import "codeberg.org/tamasv/winboard/pkg/winlayouts"

type LayoutStore struct {
	layouts map[string]winlayouts.Handle
}

func NewLayoutStore() *LayoutStore {
	return &LayoutStore{
		layouts: make(map[string]winlayouts.Handle),
	}
}

func (s *LayoutStore) GetActiveLayout(app string) (winlayouts.Handle, bool, error) {
	layout, ok := s.layouts[app]
	return layout, ok, nil
}

func (s *LayoutStore) SetActiveLayout(app string, layout winlayouts.Handle) error {
	s.layouts[app] = layout
	return nil
}
