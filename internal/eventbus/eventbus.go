// Package eventbus implements the two channels described in §4.9: a bounded
// block-header input queue with a documented backpressure policy, and an
// arbitrage output queue that the pipeline treats as unbounded (the executor
// is expected to drain it).
package eventbus

import (
	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/internal/chain"
)

// OverflowPolicy selects what BlockQueue does when the input queue is full
// and a new header arrives. Both choices are permitted by §4.9; which one is
// active is a deployment decision, not a protocol requirement.
type OverflowPolicy int

const (
	// DropOldest discards the oldest unconsumed header to make room for the
	// new one — bounded latency, at the cost of occasionally skipping a
	// block under sustained backpressure.
	DropOldest OverflowPolicy = iota
	// Block makes the producer wait until the consumer drains a slot —
	// no skipped blocks, at the cost of back-pressuring the block-stream
	// forwarder.
	Block
)

// BlockQueue is the bounded block-header input queue (§4.9). Its capacity
// and overflow policy are fixed at construction.
type BlockQueue struct {
	ch     chan chain.BlockHeader
	policy OverflowPolicy
}

// NewBlockQueue constructs a BlockQueue with the given capacity and overflow
// policy.
func NewBlockQueue(capacity int, policy OverflowPolicy) *BlockQueue {
	return &BlockQueue{ch: make(chan chain.BlockHeader, capacity), policy: policy}
}

// Push delivers h to the queue. Under DropOldest, if the queue is full the
// oldest header is discarded to make room rather than blocking the caller.
// Under Block, Push waits for a free slot.
func (q *BlockQueue) Push(h chain.BlockHeader) {
	if q.policy == Block {
		q.ch <- h
		return
	}

	for {
		select {
		case q.ch <- h:
			return
		default:
			select {
			case <-q.ch:
			default:
			}
		}
	}
}

// Recv returns the receive-only channel for the pipeline worker to range
// over. Closing the producer side terminates this end cleanly, per §4.9.
func (q *BlockQueue) Recv() <-chan chain.BlockHeader {
	return q.ch
}

// Close signals no more headers will be pushed.
func (q *BlockQueue) Close() {
	close(q.ch)
}

// ArbitrageQueue is the output queue the pipeline emits winners onto.
// Treated as unbounded from the pipeline's viewpoint per §4.9: it is sized
// generously and the executor is expected to keep it drained.
type ArbitrageQueue struct {
	ch chan domain.Arbitrage
}

// NewArbitrageQueue constructs an ArbitrageQueue with the given buffer size.
func NewArbitrageQueue(capacity int) *ArbitrageQueue {
	return &ArbitrageQueue{ch: make(chan domain.Arbitrage, capacity)}
}

// Send delivers arb to the queue. Returns false if ctx-equivalent shutdown
// has already closed the channel — callers treat a failed send as fatal per
// §4.6 step 6 ("a failure to send is fatal: the downstream is gone").
func (q *ArbitrageQueue) Send(arb domain.Arbitrage) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	q.ch <- arb
	return true
}

// Recv returns the receive-only channel for the downstream executor.
func (q *ArbitrageQueue) Recv() <-chan domain.Arbitrage {
	return q.ch
}

// Close signals no more arbitrages will be sent.
func (q *ArbitrageQueue) Close() {
	close(q.ch)
}
