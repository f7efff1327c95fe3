package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
rpc_url: "wss://example.invalid/ws"
max_requests_per_block: 50
postgres:
  host: "localhost"
  port: 5432
  user: "triarb"
  password: "secret"
  db_name: "triarb"
redis:
  enabled: true
  host: "localhost"
  port: 6379
dexes:
  - id: 1
    name: "examplev2"
    factory: "0x0000000000000000000000000000000000000001"
    fee_bps: 30
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeTemp(t, validYAML)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://example.invalid/ws", cfg.RPCURL)
	assert.Equal(t, int64(50), cfg.MaxRequestsPerBlock)
	assert.Len(t, cfg.Dexes, 1)
	assert.Equal(t, 64, cfg.BlockQueueCapacity)
	assert.Equal(t, 1024, cfg.ArbitrageQueueCapacity)
}

func TestLoad_MissingRPCURLFails(t *testing.T) {
	path := writeTemp(t, `
max_requests_per_block: 10
postgres:
  host: "localhost"
  db_name: "triarb"
dexes:
  - id: 1
    name: "x"
    factory: "0x01"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingDexesFails(t *testing.T) {
	path := writeTemp(t, `
rpc_url: "wss://example.invalid/ws"
max_requests_per_block: 10
postgres:
  host: "localhost"
  db_name: "triarb"
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestDSNAndAddr(t *testing.T) {
	pg := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "d"}
	assert.Equal(t, "postgres://u:p@db:5432/d", pg.DSN())

	r := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", r.Addr())
}
