package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// Reconnect backoff constants, mirroring the teacher's streaming client
// (streams/jsonrpc/client): start small, back off exponentially, cap at a
// ceiling.
const (
	initialReconnectDelay = 1 * time.Second
	maxReconnectDelay     = 30 * time.Second
)

var (
	selectorToken0      = selector("token0()")
	selectorToken1      = selector("token1()")
	selectorFactory     = selector("factory()")
	selectorGetReserves = selector("getReserves()")
	selectorSymbol      = selector("symbol()")
)

func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

// Logger is the structured, leveled logging interface this package depends
// on — defined locally, matching the rest of the module's per-package
// duplication of the same small interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config configures a Client.
type Config struct {
	URL    string
	Logger Logger
}

func (c *Config) validate() error {
	if c.URL == "" {
		return errors.New("chain: Config.URL is required")
	}
	if c.Logger == nil {
		return errors.New("chain: Config.Logger is required")
	}
	return nil
}

// Client is the production RPC implementation, backed by go-ethereum's
// ethclient/rpc transport.
type Client struct {
	cfg Config
	ec  *ethclient.Client
	rc  *rpc.Client
}

var _ RPC = (*Client)(nil)

// Dial connects to cfg.URL and verifies it with a chain-id call.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rc, err := rpc.DialContext(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", cfg.URL, err)
	}
	ec := ethclient.NewClient(rc)
	if _, err := ec.ChainID(ctx); err != nil {
		rc.Close()
		return nil, fmt.Errorf("chain: verify connection to %s: %w", cfg.URL, err)
	}
	return &Client{cfg: cfg, ec: ec, rc: rc}, nil
}

// Close releases the underlying transport.
func (c *Client) Close() {
	c.rc.Close()
}

// SubscribeBlocks implements RPC. Connection loss inside the subscription is
// retried with exponential backoff until ctx is cancelled, following the
// teacher's reconnect-loop shape.
func (c *Client) SubscribeBlocks(ctx context.Context) (<-chan BlockHeader, <-chan error, error) {
	headers := make(chan BlockHeader, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(headers)
		defer close(errs)

		reconnectDelay := initialReconnectDelay
		for {
			if ctx.Err() != nil {
				return
			}

			rawCh := make(chan *types.Header)
			sub, err := c.ec.SubscribeNewHead(ctx, rawCh)
			if err != nil {
				c.cfg.Logger.Error("chain: subscribe new head failed, retrying", "err", err, "delay", reconnectDelay)
				if !sleepOrDone(ctx, reconnectDelay) {
					return
				}
				reconnectDelay = minDuration(reconnectDelay*2, maxReconnectDelay)
				continue
			}

			reconnectDelay = initialReconnectDelay
			if !c.drainSubscription(ctx, rawCh, sub, headers) {
				return
			}
		}
	}()

	return headers, errs, nil
}

func (c *Client) drainSubscription(ctx context.Context, rawCh <-chan *types.Header, sub ethereum.Subscription, out chan<- BlockHeader) bool {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return false
		case err := <-sub.Err():
			c.cfg.Logger.Error("chain: block subscription dropped, reconnecting", "err", err)
			return true
		case h := <-rawCh:
			select {
			case out <- BlockHeader{Number: h.Number.Uint64()}:
			case <-ctx.Done():
				return false
			}
		}
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// GetLogs implements RPC.
func (c *Client) GetLogs(ctx context.Context, filter LogFilter) ([]Log, error) {
	var rawTopics []common.Hash
	for _, t := range filter.Topics {
		rawTopics = append(rawTopics, t)
	}

	query := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(filter.FromBlock),
		ToBlock:   new(big.Int).SetUint64(filter.ToBlock),
		Topics:    [][]common.Hash{rawTopics},
	}

	raw, err := c.ec.FilterLogs(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("chain: getLogs: %w", err)
	}

	out := make([]Log, len(raw))
	for i, l := range raw {
		topics := make([]domain.Hash, len(l.Topics))
		copy(topics, l.Topics)
		out[i] = Log{Address: l.Address, Topics: topics, Data: l.Data}
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, pool domain.Address, data []byte) ([]byte, error) {
	return c.ec.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
}

// Token0 implements PoolProbe.
func (c *Client) Token0(ctx context.Context, pool domain.Address) (domain.Address, error) {
	return c.callAddress(ctx, pool, selectorToken0, "token0")
}

// Token1 implements PoolProbe.
func (c *Client) Token1(ctx context.Context, pool domain.Address) (domain.Address, error) {
	return c.callAddress(ctx, pool, selectorToken1, "token1")
}

// Factory implements PoolProbe.
func (c *Client) Factory(ctx context.Context, pool domain.Address) (domain.Address, error) {
	return c.callAddress(ctx, pool, selectorFactory, "factory")
}

func (c *Client) callAddress(ctx context.Context, pool domain.Address, sel []byte, name string) (domain.Address, error) {
	out, err := c.call(ctx, pool, sel)
	if err != nil {
		return domain.Address{}, fmt.Errorf("chain: %s(): %w", name, err)
	}
	if len(out) != 32 {
		return domain.Address{}, fmt.Errorf("chain: %s() returned %d bytes, want 32", name, len(out))
	}
	var addr domain.Address
	copy(addr[:], out[32-20:])
	return addr, nil
}

// GetReserves implements PoolProbe. getReserves() returns (uint112, uint112,
// uint32) packed into three right-aligned 32-byte words; the timestamp word
// is ignored, per §6.
func (c *Client) GetReserves(ctx context.Context, pool domain.Address) (fixedmath.Uint112, fixedmath.Uint112, error) {
	out, err := c.call(ctx, pool, selectorGetReserves)
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, fmt.Errorf("chain: getReserves(): %w", err)
	}
	if len(out) < 64 {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, fmt.Errorf("chain: getReserves() returned %d bytes, want >= 64", len(out))
	}
	r0, err := fixedmath.Uint112FromBigEndian(out[32-14 : 32])
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, fmt.Errorf("chain: decode reserve0: %w", err)
	}
	r1, err := fixedmath.Uint112FromBigEndian(out[64-14 : 64])
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, fmt.Errorf("chain: decode reserve1: %w", err)
	}
	return r0, r1, nil
}

// Symbol implements PoolProbe. Accepts either the standard ABI-encoded
// dynamic string return or the (nonstandard but common) bytes32 return some
// tokens use.
func (c *Client) Symbol(ctx context.Context, token domain.Address) (string, error) {
	out, err := c.call(ctx, token, selectorSymbol)
	if err != nil {
		return "", fmt.Errorf("chain: symbol(): %w", err)
	}
	return decodeSymbol(out)
}

func decodeSymbol(out []byte) (string, error) {
	if len(out) == 32 {
		end := 32
		for end > 0 && out[end-1] == 0 {
			end--
		}
		return string(out[:end]), nil
	}
	if len(out) < 64 {
		return "", fmt.Errorf("chain: symbol() returned %d bytes, too short to decode", len(out))
	}
	length := new(big.Int).SetBytes(out[32:64]).Uint64()
	if uint64(len(out)) < 64+length {
		return "", fmt.Errorf("chain: symbol() string length %d exceeds payload", length)
	}
	return string(out[64 : 64+length]), nil
}
