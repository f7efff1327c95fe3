package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-labs/triarb/domain"
	"github.com/kronos-labs/triarb/pkg/fixedmath"
)

func encodeSyncData(t *testing.T, r0, r1 uint64) []byte {
	t.Helper()
	data := make([]byte, 64)
	be0 := fixedmath.Uint112FromUint64(r0).BigEndian()
	be1 := fixedmath.Uint112FromUint64(r1).BigEndian()
	copy(data[32-14:32], be0[:])
	copy(data[64-14:64], be1[:])
	return data
}

func TestDecodeSync(t *testing.T) {
	data := encodeSyncData(t, 1000, 2000)
	r0, r1, err := DecodeSync(data)
	require.NoError(t, err)
	assert.Equal(t, "1000", r0.String())
	assert.Equal(t, "2000", r1.String())
}

func TestDecodeSyncRejectsWrongLength(t *testing.T) {
	_, _, err := DecodeSync(make([]byte, 63))
	assert.Error(t, err)
}

func TestDecodeLogRejectsWrongTopic(t *testing.T) {
	var other domain.Hash
	other[0] = 0xff
	_, err := DecodeLog(Log{Topics: []domain.Hash{other}, Data: encodeSyncData(t, 1, 2)})
	assert.Error(t, err)
}

func TestDecodeLogAcceptsSyncSignature(t *testing.T) {
	pool := domain.Address{1}
	log := Log{
		Address: pool,
		Topics:  []domain.Hash{SyncEventSignature},
		Data:    encodeSyncData(t, 5, 6),
	}
	decoded, err := DecodeLog(log)
	require.NoError(t, err)
	assert.Equal(t, pool, decoded.Pool)
	assert.Equal(t, "5", decoded.Reserve0.String())
	assert.Equal(t, "6", decoded.Reserve1.String())
}
