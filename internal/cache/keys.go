package cache

import (
	"encoding/hex"
	"fmt"

	"github.com/kronos-labs/triarb/domain"
)

// Key formats for the Redis-backed remote cache form, per §4.4: every key is
// namespaced by dex_id and hex-encoded addresses, chosen to mirror the
// original_source database/src/redis.rs layout byte-for-byte.
func adjacentKey(dexID domain.DexID, token domain.Address) string {
	return fmt.Sprintf("adjacent:%d:%s", dexID, hexNoPrefix(token))
}

func reservesKey(dexID domain.DexID, tokenA, tokenB domain.Address) string {
	return fmt.Sprintf("reserves:%d:%s:%s", dexID, hexNoPrefix(tokenA), hexNoPrefix(tokenB))
}

func tokensKey(dexID domain.DexID, pair domain.Address) string {
	return fmt.Sprintf("tokens:%d:%s", dexID, hexNoPrefix(pair))
}

// pairRedisKey builds the pair:{dex_id}:{tokenX-hex}:{tokenY-hex} key with
// tokenX < tokenY, per §4.4's sorted-pair requirement.
func pairRedisKey(dexID domain.DexID, tokenA, tokenB domain.Address) string {
	x, y := tokenA, tokenB
	if bytesLess(y[:], x[:]) {
		x, y = y, x
	}
	return fmt.Sprintf("pair:%d:%s:%s", dexID, hexNoPrefix(x), hexNoPrefix(y))
}

func hexNoPrefix(addr domain.Address) string {
	return hex.EncodeToString(addr[:])
}

// encodeTokens concatenates (token0, token1) into the 40-byte value stored
// at a tokens: key.
func encodeTokens(token0, token1 domain.Address) []byte {
	out := make([]byte, 40)
	copy(out[:20], token0[:])
	copy(out[20:], token1[:])
	return out
}

// decodeTokens splits a 40-byte tokens: value back into (token0, token1).
func decodeTokens(b []byte) (domain.Address, domain.Address, error) {
	if len(b) != 40 {
		return domain.Address{}, domain.Address{}, fmt.Errorf("cache: tokens value must be 40 bytes, got %d", len(b))
	}
	var t0, t1 domain.Address
	copy(t0[:], b[:20])
	copy(t1[:], b[20:])
	return t0, t1, nil
}
