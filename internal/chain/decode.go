package chain

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

// SyncEventSignature is topic0 for Sync(uint112,uint112), the reserve-update
// signal every constant-product pool emits, per §6.
var SyncEventSignature = crypto.Keccak256Hash([]byte("Sync(uint112,uint112)"))

// DecodeSync decodes the non-indexed data of a Sync(uint112,uint112) log:
// two reserves, each right-aligned in its own 32-byte big-endian slot.
func DecodeSync(data []byte) (reserve0, reserve1 fixedmath.Uint112, err error) {
	if len(data) != 64 {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, fmt.Errorf("chain: Sync data must be 64 bytes, got %d", len(data))
	}
	reserve0, err = fixedmath.Uint112FromBigEndian(data[32-14 : 32])
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, fmt.Errorf("chain: decode reserve0: %w", err)
	}
	reserve1, err = fixedmath.Uint112FromBigEndian(data[64-14 : 64])
	if err != nil {
		return fixedmath.Uint112{}, fixedmath.Uint112{}, fmt.Errorf("chain: decode reserve1: %w", err)
	}
	return reserve0, reserve1, nil
}

// DecodedSync is a log already resolved to its pool address and reserves,
// the unit the block pipeline's apply-updates step consumes.
type DecodedSync struct {
	Pool     domain.Address
	Reserve0 fixedmath.Uint112
	Reserve1 fixedmath.Uint112
}

// DecodeLog validates that log carries the Sync signature and decodes it.
func DecodeLog(log Log) (DecodedSync, error) {
	if len(log.Topics) == 0 || log.Topics[0] != SyncEventSignature {
		return DecodedSync{}, fmt.Errorf("chain: log topic0 is not Sync(uint112,uint112)")
	}
	r0, r1, err := DecodeSync(log.Data)
	if err != nil {
		return DecodedSync{}, err
	}
	return DecodedSync{Pool: log.Address, Reserve0: r0, Reserve1: r1}, nil
}
