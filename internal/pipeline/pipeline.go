// Package pipeline implements the per-block pipeline (C6, §4.6): reset the
// RPC budget, fetch Sync logs for the block, resolve/apply every reserve
// update, enumerate triangular cycles over the updated tokens, solve each
// for profit, and emit at most one winner per first-hop source token.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/cache"
	"github.com/kronos-labs/triarb/internal/chain"
	"github.com/kronos-labs/triarb/internal/cycles"
	"github.com/kronos-labs/triarb/internal/eventbus"
	"github.com/kronos-labs/triarb/internal/pipeline/budget"
	"github.com/kronos-labs/triarb/internal/resolver"
	"github.com/kronos-labs/triarb/internal/solver"
	"github.com/kronos-labs/triarb/internal/xerrors"
)

// Logger is the structured, leveled logging interface this package depends
// on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Dex bundles everything the pipeline needs to process one DEX venue: its
// resolver (for new-pair discovery) and cycle enumerator (seeded from the
// shared hot cache).
type Dex struct {
	ID         domain.DexID
	Resolver   *resolver.Resolver
	Enumerator *cycles.Enumerator
}

// ErrSendFailed is returned by ProcessBlock when the arbitrage output queue
// has been closed — per §4.6 step 6, fatal to the caller.
var ErrSendFailed = errors.New("pipeline: arbitrage queue closed")

// Pipeline is the C6 orchestrator: one instance per process, fed by a
// BlockQueue and driving a chain.RPC, a shared cache.Cache, and one or more
// Dex configurations.
type Pipeline struct {
	rpc     chain.RPC
	graph   cache.Cache
	dexes   []Dex
	budget  *budget.Budget
	blocks  *eventbus.BlockQueue
	arbs    *eventbus.ArbitrageQueue
	metrics *Metrics
	logger  Logger
}

// New constructs a Pipeline.
func New(rpc chain.RPC, graph cache.Cache, dexes []Dex, b *budget.Budget, blocks *eventbus.BlockQueue, arbs *eventbus.ArbitrageQueue, metrics *Metrics, logger Logger) *Pipeline {
	return &Pipeline{rpc: rpc, graph: graph, dexes: dexes, budget: b, blocks: blocks, arbs: arbs, metrics: metrics, logger: logger}
}

// Run drives the pipeline worker task (§5b): consume headers from the
// in-queue strictly in delivery order until the queue is closed or ctx is
// cancelled. A per-block error is logged and the block dropped; the
// pipeline itself never halts on one.
func (p *Pipeline) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case header, ok := <-p.blocks.Recv():
			if !ok {
				return nil
			}
			if err := p.ProcessBlock(ctx, header); err != nil {
				if errors.Is(err, ErrSendFailed) {
					return err
				}
				p.logger.Error("pipeline: dropping block", "block", header.Number, "err", err)
				p.metrics.blocksDropped.Inc()
			}
		}
	}
}

// ProcessBlock runs the six steps of §4.6 for one block header.
func (p *Pipeline) ProcessBlock(ctx context.Context, header chain.BlockHeader) error {
	start := time.Now()
	defer func() {
		p.metrics.blockDuration.Observe(time.Since(start).Seconds())
		p.metrics.budgetUsed.Observe(float64(p.budget.Used()))
	}()

	// 1. Reset the per-block RPC counter.
	p.budget.Reset()

	// 2. Fetch all Sync logs for this block.
	logs, err := p.rpc.GetLogs(ctx, chain.LogFilter{
		FromBlock: header.Number,
		ToBlock:   header.Number,
		Topics:    []domain.Hash{chain.SyncEventSignature},
	})
	if err != nil {
		return xerrors.New(xerrors.BlockWide, "pipeline.ProcessBlock.GetLogs", err)
	}

	updatedByDex := make(map[domain.DexID]map[domain.Address]struct{}, len(p.dexes))

	// 3. For each log, resolve the pool and apply the reserve update.
	for _, log := range logs {
		decoded, err := chain.DecodeLog(log)
		if err != nil {
			p.logger.Warn("pipeline: skipping undecodable log", "block", header.Number, "err", err)
			continue
		}
		p.metrics.logsDecoded.Inc()

		for i := range p.dexes {
			dex := &p.dexes[i]
			pair, err := dex.Resolver.Resolve(ctx, decoded.Pool)
			if err != nil {
				if errors.Is(err, resolver.ErrNotOurs) {
					continue
				}
				if xerrors.Is(err, xerrors.BudgetExceeded) {
					p.logger.Debug("pipeline: rpc budget exhausted, skipping log", "block", header.Number, "pool", decoded.Pool)
					continue
				}
				p.logger.Warn("pipeline: resolver error, skipping log", "block", header.Number, "pool", decoded.Pool, "err", err)
				continue
			}

			if err := p.graph.UpdateReserves(ctx, dex.ID, pair.Token0, pair.Token1, decoded.Reserve0, decoded.Reserve1); err != nil {
				p.logger.Warn("pipeline: update_reserves failed", "block", header.Number, "pool", decoded.Pool, "err", err)
				continue
			}

			set, ok := updatedByDex[dex.ID]
			if !ok {
				set = make(map[domain.Address]struct{})
				updatedByDex[dex.ID] = set
			}
			set[pair.Token0] = struct{}{}
			set[pair.Token1] = struct{}{}
		}
	}

	// 4-5. Enumerate cycles and solve each, per dex.
	var winners []domain.Arbitrage
	for i := range p.dexes {
		dex := &p.dexes[i]
		set := updatedByDex[dex.ID]
		if len(set) == 0 {
			continue
		}
		updatedTokens := make([]domain.Address, 0, len(set))
		for t := range set {
			updatedTokens = append(updatedTokens, t)
		}

		cyclesFound, err := dex.Enumerator.Find(ctx, updatedTokens)
		if err != nil {
			p.logger.Warn("pipeline: cycle enumeration failed", "block", header.Number, "dex", dex.ID, "err", err)
			continue
		}
		p.metrics.cyclesFound.Add(float64(len(cyclesFound)))

		var arbs []domain.Arbitrage
		for _, cyc := range cyclesFound {
			arb, ok := solver.Solve(cyc)
			if ok {
				arbs = append(arbs, arb)
			}
		}
		winners = append(winners, solver.BestPerStartToken(arbs)...)
	}

	// 6. Emit every winner; a failed send is fatal.
	for _, winner := range winners {
		if !p.arbs.Send(winner) {
			return ErrSendFailed
		}
		p.metrics.arbitragesEmitted.Inc()
	}

	p.metrics.blocksProcessed.Inc()
	return nil
}
