package sqlite

import (
	"context"
	"database/sql"
)

type Queries struct {
	db *sql.DB
}

func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

const getLayoutForApp = `
SELECT handle
FROM layouts
WHERE app = ?
`

func (q *Queries) GetLayoutForApp(ctx context.Context, app string) (int64, error) {
	row := q.db.QueryRowContext(ctx, getLayoutForApp, app)

	var handle int64
	err := row.Scan(&handle)
	return handle, err
}

const setLayout = `
INSERT INTO layouts (app, handle)
VALUES (?, ?)
ON CONFLICT (app) DO UPDATE SET handle = excluded.handle
`

type SetLayoutParams struct {
	App    string
	Handle int64
}

func (q *Queries) SetLayout(ctx context.Context, arg SetLayoutParams) error {
	_, err := q.db.ExecContext(ctx, setLayout, arg.App, arg.Handle)
	return err
}
