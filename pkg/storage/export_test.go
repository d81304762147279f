package storage

import "context"

type Execer = execer

func NewPostgresWith(ctx context.Context, db Execer) (*Postgres, error) {
	return newPostgres(ctx, db)
}
