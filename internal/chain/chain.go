// Package chain defines and implements the chain RPC boundary consumed by
// the pair resolver and block pipeline (§6): subscribe-blocks, get-logs, and
// the handful of eth_call views a constant-product pool exposes.
package chain

import (
	"context"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// BlockHeader is the minimal block-header shape the pipeline needs — just
// enough to drive a getLogs call for that block, per §6.
type BlockHeader struct {
	Number uint64
}

// Log is a decoded chain log entry: address, topics and non-indexed data.
type Log struct {
	Address domain.Address
	Topics  []domain.Hash
	Data    []byte
}

// LogFilter selects logs for one block by event signature, per §6's
// `get_logs(filter)` contract.
type LogFilter struct {
	FromBlock uint64
	ToBlock   uint64
	Topics    []domain.Hash
}

// PoolProbe is the read-only view a constant-product pool exposes, used by
// the pair resolver's on-chain vetting step (§4.5).
type PoolProbe interface {
	Token0(ctx context.Context, pool domain.Address) (domain.Address, error)
	Token1(ctx context.Context, pool domain.Address) (domain.Address, error)
	Factory(ctx context.Context, pool domain.Address) (domain.Address, error)
	GetReserves(ctx context.Context, pool domain.Address) (reserve0, reserve1 fixedmath.Uint112, err error)
	Symbol(ctx context.Context, token domain.Address) (string, error)
}

// RPC is the full chain boundary: block subscription, log filtering, and
// pool views. The pool-view calls are the chargeable point RPCs against the
// per-block budget (§4.6), charged by their callers; the one GetLogs call
// per block and SubscribeBlocks, which runs once per process lifetime, are
// not charged.
type RPC interface {
	PoolProbe

	// SubscribeBlocks streams new block headers until ctx is cancelled or an
	// unrecoverable subscription error occurs, in which case errs receives
	// exactly one error and both channels are closed.
	SubscribeBlocks(ctx context.Context) (headers <-chan BlockHeader, errs <-chan error, err error)

	// GetLogs returns every log in [FromBlock, ToBlock] whose first topic is
	// in filter.Topics.
	GetLogs(ctx context.Context, filter LogFilter) ([]Log, error)
}
