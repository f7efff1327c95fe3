package catalogue

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/xerrors"
)

// Postgres is the production Catalogue, backed by the schema in §6:
// trading_pairs(address, dex_id, token0, token1), dexes(id, name),
// token_tickers(token, ticker). Connection pooling and query shape follow
// the teacher pack's pgx usage.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Catalogue = (*Postgres)(nil)

// ConnectPostgres opens a pooled connection and verifies it with a ping.
func ConnectPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, xerrors.New(xerrors.Fatal, "catalogue.ConnectPostgres", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, xerrors.New(xerrors.Fatal, "catalogue.ConnectPostgres", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// InitSchema creates the three catalogue tables if they do not already
// exist. Idempotent, safe to call on every startup.
func (p *Postgres) InitSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS dexes (
	id   INTEGER PRIMARY KEY,
	name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS trading_pairs (
	address BYTEA PRIMARY KEY,
	dex_id  INTEGER NOT NULL REFERENCES dexes(id),
	token0  BYTEA NOT NULL,
	token1  BYTEA NOT NULL
);

CREATE TABLE IF NOT EXISTS token_tickers (
	token  BYTEA PRIMARY KEY,
	ticker TEXT NOT NULL
);
`
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return xerrors.New(xerrors.Fatal, "catalogue.Postgres.InitSchema", err)
	}
	return nil
}

// EnsureDex upserts a (id, name) row into dexes. Called at startup once per
// configured venue, before any pair referencing that dex_id is inserted.
func (p *Postgres) EnsureDex(ctx context.Context, id domain.DexID, name string) error {
	const sql = `
INSERT INTO dexes (id, name) VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name;
`
	_, err := p.pool.Exec(ctx, sql, int32(id), name)
	if err != nil {
		return xerrors.New(xerrors.Fatal, "catalogue.Postgres.EnsureDex", err)
	}
	return nil
}

// ListPairs implements Catalogue.
func (p *Postgres) ListPairs(ctx context.Context) ([]domain.Pair, error) {
	rows, err := p.pool.Query(ctx, `SELECT address, dex_id, token0, token1 FROM trading_pairs`)
	if err != nil {
		return nil, xerrors.New(xerrors.Transient, "catalogue.Postgres.ListPairs", err)
	}
	defer rows.Close()

	var out []domain.Pair
	for rows.Next() {
		var addrB, t0B, t1B []byte
		var dexID int32
		if err := rows.Scan(&addrB, &dexID, &t0B, &t1B); err != nil {
			return nil, xerrors.New(xerrors.Decode, "catalogue.Postgres.ListPairs", err)
		}
		pair, err := decodeRow(addrB, dexID, t0B, t1B)
		if err != nil {
			return nil, xerrors.New(xerrors.Decode, "catalogue.Postgres.ListPairs", err)
		}
		out = append(out, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.New(xerrors.Transient, "catalogue.Postgres.ListPairs", err)
	}
	return out, nil
}

// InsertPair implements Catalogue. A unique-violation on the primary key is
// treated as the benign race described in §4.3/§7 and swallowed rather than
// surfaced.
func (p *Postgres) InsertPair(ctx context.Context, pair domain.Pair) error {
	const sql = `
INSERT INTO trading_pairs (address, dex_id, token0, token1)
VALUES ($1, $2, $3, $4)
ON CONFLICT (address) DO NOTHING;
`
	_, err := p.pool.Exec(ctx, sql, pair.Address[:], int32(pair.DexID), pair.Token0[:], pair.Token1[:])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.New(xerrors.CatalogueIntegrity, "catalogue.Postgres.InsertPair", err)
		}
		return xerrors.New(xerrors.Transient, "catalogue.Postgres.InsertPair", err)
	}
	return nil
}

// PairDex implements Catalogue.
func (p *Postgres) PairDex(ctx context.Context, pair domain.Address) (domain.DexID, error) {
	var dexID int32
	err := p.pool.QueryRow(ctx, `SELECT dex_id FROM trading_pairs WHERE address = $1`, pair[:]).Scan(&dexID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, notFound("catalogue.Postgres.PairDex")
		}
		return 0, xerrors.New(xerrors.Transient, "catalogue.Postgres.PairDex", err)
	}
	return domain.DexID(dexID), nil
}

// GetSymbol implements Catalogue.
func (p *Postgres) GetSymbol(ctx context.Context, token domain.Address) (string, error) {
	var ticker string
	err := p.pool.QueryRow(ctx, `SELECT ticker FROM token_tickers WHERE token = $1`, token[:]).Scan(&ticker)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", notFound("catalogue.Postgres.GetSymbol")
		}
		return "", xerrors.New(xerrors.Transient, "catalogue.Postgres.GetSymbol", err)
	}
	return ticker, nil
}

// InsertSymbol implements Catalogue.
func (p *Postgres) InsertSymbol(ctx context.Context, token domain.Address, symbol string) error {
	const sql = `
INSERT INTO token_tickers (token, ticker) VALUES ($1, $2)
ON CONFLICT (token) DO UPDATE SET ticker = EXCLUDED.ticker;
`
	_, err := p.pool.Exec(ctx, sql, token[:], symbol)
	if err != nil {
		return xerrors.New(xerrors.Transient, "catalogue.Postgres.InsertSymbol", err)
	}
	return nil
}

func decodeRow(addrB []byte, dexID int32, t0B, t1B []byte) (domain.Pair, error) {
	if len(addrB) != 20 || len(t0B) != 20 || len(t1B) != 20 {
		return domain.Pair{}, fmt.Errorf("catalogue: expected 20-byte addresses, got %d/%d/%d", len(addrB), len(t0B), len(t1B))
	}
	var pair domain.Pair
	copy(pair.Address[:], addrB)
	copy(pair.Token0[:], t0B)
	copy(pair.Token1[:], t1B)
	pair.DexID = domain.DexID(dexID)
	return pair, nil
}
