package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"codeberg.org/tamasv/winboard/pkg/layoutstore/sqlite/migrations"
	"codeberg.org/tamasv/winboard/pkg/winlayouts"
)

type LayoutStore struct {
	db      *sql.DB
	querier *Queries
}

func NewLayoutStore(filename string, log *zap.SugaredLogger) (*LayoutStore, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := migrations.Migrate(db, log); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &LayoutStore{
		db:      db,
		querier: New(db),
	}, nil
}

func (s *LayoutStore) Close() error {
	return s.db.Close()
}

func (s *LayoutStore) GetActiveLayout(app string) (winlayouts.Handle, bool, error) {
	handle, err := s.querier.GetLayoutForApp(context.Background(), app)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("sqlite select: %w", err)
	}

	return winlayouts.Handle(handle), true, nil
}

func (s *LayoutStore) SetActiveLayout(app string, layout winlayouts.Handle) error {
	if err := s.querier.SetLayout(context.Background(), SetLayoutParams{
		App:    app,
		Handle: int64(layout),
	}); err != nil {
		return fmt.Errorf("sqlite update: %w", err)
	}

	return nil
}
