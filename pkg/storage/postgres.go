package storage

import (
	"context"

	"certmatch/pkg/model"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const createTable = `CREATE TABLE IF NOT EXISTS certificates (
	cert_index   BIGINT PRIMARY KEY,
	seen         DOUBLE PRECISION NOT NULL,
	fingerprint  TEXT NOT NULL DEFAULT '',
	chain        TEXT[] NOT NULL,
	not_before   BIGINT NOT NULL,
	not_after    BIGINT NOT NULL,
	all_domains  TEXT[] NOT NULL,
	stored_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const insertCertificate = `INSERT INTO certificates
	(cert_index, seen, fingerprint, chain, not_before, not_after, all_domains)
 VALUES ($1, $2, $3, $4, $5, $6, $7)
 ON CONFLICT (cert_index) DO NOTHING`

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres stores records in the certificates table
type Postgres struct {
	db    execer
	close func()
}

// NewPostgres connects to url and creates the table if missing
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("postgres storage needs a connection url")
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "can't create connection pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "can't reach database")
	}
	s, err := newPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	s.close = pool.Close
	return s, nil
}

func newPostgres(ctx context.Context, db execer) (*Postgres, error) {
	if _, err := db.Exec(ctx, createTable); err != nil {
		return nil, errors.Wrap(err, "can't create table")
	}
	return &Postgres{db: db, close: func() {}}, nil
}

// Name implements Storage
func (*Postgres) Name() string { return "postgres" }

// Save implements Storage. A certificate already stored is left untouched.
func (s *Postgres) Save(ctx context.Context, r *model.Record) error {
	_, err := s.db.Exec(ctx, insertCertificate,
		r.CertIndex, r.Seen, r.Fingerprint, nonNil(r.Chain),
		int64(r.NotBefore), int64(r.NotAfter), nonNil(r.AllDomains),
	)
	return errors.Wrapf(err, "can't insert certificate %d", r.CertIndex)
}

// Close implements Storage
func (s *Postgres) Close() error {
	s.close()
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
