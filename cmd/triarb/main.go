package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/cache"
	"github.com/kronos-labs/triarb/internal/catalogue"
	"github.com/kronos-labs/triarb/internal/chain"
	"github.com/kronos-labs/triarb/internal/config"
	"github.com/kronos-labs/triarb/internal/cycles"
	"github.com/kronos-labs/triarb/internal/eventbus"
	"github.com/kronos-labs/triarb/internal/pipeline"
	"github.com/kronos-labs/triarb/internal/pipeline/budget"
	"github.com/kronos-labs/triarb/internal/resolver"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

func main() {
	rootLogHandler := slog.NewJSONHandler(os.Stdout, nil)
	rootLogger := slog.New(rootLogHandler)
	exit := func() { os.Exit(1) }

	cfg, err := loadConfig()
	if err != nil {
		rootLogger.Error("failed to load configuration", "error", err)
		exit()
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalogue.ConnectPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		rootLogger.Error("failed to connect to catalogue", "error", err)
		exit()
		return
	}
	defer cat.Close()

	if err := cat.InitSchema(ctx); err != nil {
		rootLogger.Error("failed to initialize catalogue schema", "error", err)
		exit()
		return
	}

	var graph cache.Cache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
		graph = cache.NewRedis(rdb)
	} else {
		graph = cache.NewMemoryCache()
	}

	rpcClient, err := chain.Dial(ctx, chain.Config{
		URL:    cfg.RPCURL,
		Logger: rootLogger.With("component", "chain-client"),
	})
	if err != nil {
		rootLogger.Error("failed to dial chain RPC", "error", err)
		exit()
		return
	}
	defer rpcClient.Close()

	budgetLimit := budget.New(cfg.MaxRequestsPerBlock)

	dexes := make([]pipeline.Dex, 0, len(cfg.Dexes))
	for _, dc := range cfg.Dexes {
		dexID := domain.DexID(dc.ID)
		factory := decodeFactory(dc.Factory)

		if err := cat.EnsureDex(ctx, dexID, dc.Name); err != nil {
			rootLogger.Error("failed to register dex", "dex", dc.Name, "error", err)
			exit()
			return
		}

		r := resolver.New(dexID, factory, cat, rpcClient, graph, budgetLimit, rootLogger.With("component", "resolver", "dex", dc.Name))
		// fee_bps is in basis points; fixedmath.Fee counts thousandths.
		enum := cycles.New(dexID, fixedmath.Fee(dc.FeeBps/10), graph)
		dexes = append(dexes, pipeline.Dex{ID: dexID, Resolver: r, Enumerator: enum})
	}

	if err := primeCache(ctx, cat, graph); err != nil {
		rootLogger.Error("failed to prime cache from catalogue", "error", err)
		exit()
		return
	}

	blocks := eventbus.NewBlockQueue(cfg.BlockQueueCapacity, eventbus.DropOldest)
	arbs := eventbus.NewArbitrageQueue(cfg.ArbitrageQueueCapacity)
	metrics := pipeline.NewMetrics(prometheus.DefaultRegisterer)

	p := pipeline.New(rpcClient, graph, dexes, budgetLimit, blocks, arbs, metrics, rootLogger.With("component", "pipeline"))

	headers, subErrs, err := rpcClient.SubscribeBlocks(ctx)
	if err != nil {
		rootLogger.Error("failed to subscribe to new block headers", "error", err)
		exit()
		return
	}

	go forwardHeaders(ctx, headers, blocks)

	go func() {
		if err := p.Run(ctx); err != nil && ctx.Err() == nil {
			rootLogger.Error("pipeline stopped", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			blocks.Close()
			arbs.Close()
			return
		case err := <-subErrs:
			if err != nil {
				rootLogger.Error("block subscription error", "error", err)
			}
		case arb, ok := <-arbs.Recv():
			if !ok {
				return
			}
			rootLogger.Info("arbitrage opportunity",
				"dex", arb.DexID,
				"start_token", arb.StartToken(),
				"amount_in", arb.AmountIn.String(),
				"revenue", arb.Revenue.String(),
			)
		}
	}
}

// forwardHeaders relays subscribed block headers onto the pipeline's
// in-queue until ctx is cancelled or the subscription channel closes.
func forwardHeaders(ctx context.Context, headers <-chan chain.BlockHeader, blocks *eventbus.BlockQueue) {
	for {
		select {
		case <-ctx.Done():
			return
		case h, ok := <-headers:
			if !ok {
				return
			}
			blocks.Push(h)
		}
	}
}

// primeCache loads every previously discovered pair from the catalogue into
// the hot cache before the block pipeline starts consuming headers, so a
// restart doesn't have to rediscover pairs it already knows about.
func primeCache(ctx context.Context, cat *catalogue.Postgres, graph cache.Cache) error {
	pairs, err := cat.ListPairs(ctx)
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := graph.AddPair(ctx, pair); err != nil {
			return err
		}
	}
	return nil
}

func decodeFactory(hexAddr string) domain.Address {
	return common.HexToAddress(hexAddr)
}

func loadConfig() (*config.Config, error) {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file.")
	flag.Parse()
	return config.Load(*configPath)
}
