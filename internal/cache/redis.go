package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/xerrors"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// Redis is the external string-keyed form of the hot cache described in
// §4.4, grounded on the key layout of original_source's database/src/redis.rs
// and wired to github.com/redis/go-redis/v9 — the client library surfaced by
// the pack's arbitrage-adjacent examples (DimaJoyti-go-coffee manifests).
// It must return results identical to MemoryCache for the same call
// sequence; misses return the same NotFoundCache condition. What MemoryCache
// lacks are its failure modes: network errors surface as xerrors.Transient
// and malformed stored values as xerrors.Decode.
type Redis struct {
	rdb *redis.Client
}

var _ Cache = (*Redis)(nil)

// NewRedis wraps an already-configured *redis.Client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// AddPair implements Cache: writes the adjacency sets (both directions), the
// tokens: record, the pair: record, and — if absent — empty reserve: entries
// for both directions, using a single pipeline so the six writes round-trip
// once. The reserve entries use SetNX so a repeated AddPair for an
// already-discovered pool never clobbers reserves a Sync has since updated.
func (r *Redis) AddPair(ctx context.Context, pair domain.Pair) error {
	var zero fixedmath.Uint112
	zeroEnc := zero.BigEndian()

	pipe := r.rdb.TxPipeline()
	pipe.SAdd(ctx, adjacentKey(pair.DexID, pair.Token0), pair.Token1[:])
	pipe.SAdd(ctx, adjacentKey(pair.DexID, pair.Token1), pair.Token0[:])
	pipe.Set(ctx, tokensKey(pair.DexID, pair.Address), encodeTokens(pair.Token0, pair.Token1), 0)
	pipe.Set(ctx, pairRedisKey(pair.DexID, pair.Token0, pair.Token1), pair.Address[:], 0)
	pipe.SetNX(ctx, reservesKey(pair.DexID, pair.Token0, pair.Token1), zeroEnc[:], 0)
	pipe.SetNX(ctx, reservesKey(pair.DexID, pair.Token1, pair.Token0), zeroEnc[:], 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return xerrors.New(xerrors.Transient, "cache.Redis.AddPair", err)
	}
	return nil
}

// Adjacency implements Cache.
func (r *Redis) Adjacency(ctx context.Context, dexID domain.DexID, token domain.Address) ([]domain.Address, error) {
	members, err := r.rdb.SMembers(ctx, adjacentKey(dexID, token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, xerrors.New(xerrors.Transient, "cache.Redis.Adjacency", err)
	}
	out := make([]domain.Address, 0, len(members))
	for _, m := range members {
		if len(m) != 20 {
			return nil, xerrors.New(xerrors.Decode, "cache.Redis.Adjacency", fmt.Errorf("member has %d bytes, want 20", len(m)))
		}
		var addr domain.Address
		copy(addr[:], m)
		out = append(out, addr)
	}
	return out, nil
}

// PairOf implements Cache.
func (r *Redis) PairOf(ctx context.Context, dexID domain.DexID, tokenA, tokenB domain.Address) (domain.Address, error) {
	b, err := r.rdb.Get(ctx, pairRedisKey(dexID, tokenA, tokenB)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Address{}, notFound("cache.Redis.PairOf")
		}
		return domain.Address{}, xerrors.New(xerrors.Transient, "cache.Redis.PairOf", err)
	}
	if len(b) != 20 {
		return domain.Address{}, xerrors.New(xerrors.Decode, "cache.Redis.PairOf", fmt.Errorf("value has %d bytes, want 20", len(b)))
	}
	var addr domain.Address
	copy(addr[:], b)
	return addr, nil
}

// TokensOf implements Cache.
func (r *Redis) TokensOf(ctx context.Context, dexID domain.DexID, pair domain.Address) (domain.Address, domain.Address, error) {
	b, err := r.rdb.Get(ctx, tokensKey(dexID, pair)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Address{}, domain.Address{}, notFound("cache.Redis.TokensOf")
		}
		return domain.Address{}, domain.Address{}, xerrors.New(xerrors.Transient, "cache.Redis.TokensOf", err)
	}
	t0, t1, err := decodeTokens(b)
	if err != nil {
		return domain.Address{}, domain.Address{}, xerrors.New(xerrors.Decode, "cache.Redis.TokensOf", err)
	}
	return t0, t1, nil
}

// Reserves implements Cache.
func (r *Redis) Reserves(ctx context.Context, dexID domain.DexID, tokenA, tokenB domain.Address) (fixedmath.Uint112, fixedmath.Uint112, error) {
	pipe := r.rdb.Pipeline()
	aCmd := pipe.Get(ctx, reservesKey(dexID, tokenA, tokenB))
	bCmd := pipe.Get(ctx, reservesKey(dexID, tokenB, tokenA))
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return fixedmath.Uint112{}, fixedmath.Uint112{}, notFound("cache.Redis.Reserves")
		}
		return fixedmath.Uint112{}, fixedmath.Uint112{}, xerrors.New(xerrors.Transient, "cache.Redis.Reserves", err)
	}

	aBytes, err := aCmd.Bytes()
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, notFound("cache.Redis.Reserves")
	}
	bBytes, err := bCmd.Bytes()
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, notFound("cache.Redis.Reserves")
	}

	rA, err := fixedmath.Uint112FromBigEndian(aBytes)
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, xerrors.New(xerrors.Decode, "cache.Redis.Reserves", err)
	}
	rB, err := fixedmath.Uint112FromBigEndian(bBytes)
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, xerrors.New(xerrors.Decode, "cache.Redis.Reserves", err)
	}
	return rA, rB, nil
}

// UpdateReserves implements Cache: both directed readings are written in one
// pipeline so a reader never observes only one side updated.
func (r *Redis) UpdateReserves(ctx context.Context, dexID domain.DexID, tokenA, tokenB domain.Address, rA, rB fixedmath.Uint112) error {
	aEnc := rA.BigEndian()
	bEnc := rB.BigEndian()
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, reservesKey(dexID, tokenA, tokenB), aEnc[:], 0)
	pipe.Set(ctx, reservesKey(dexID, tokenB, tokenA), bEnc[:], 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return xerrors.New(xerrors.Transient, "cache.Redis.UpdateReserves", err)
	}
	return nil
}
