package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultRPCURL, cfg.RPCURL)
	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.Equal(t, uint64(10_000), cfg.PriorityFee)
	assert.Equal(t, uint64(25_000), cfg.TransferPriorityFee)
	assert.Equal(t, 0.01, cfg.Slippage)
	assert.Equal(t, 2*time.Second, cfg.ConfirmInterval)
	assert.Equal(t, 90*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, 3001, cfg.Port)
	assert.Equal(t, "*", cfg.CORSOrigin)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfig_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "rpc_url: https://rpc.example.org\n" +
		"commitment: finalized\n" +
		"slippage: 0.02\n" +
		"confirm_timeout: 30s\n" +
		"redis_addr: localhost:6379\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("RAYDIUM_SWAP_PRIORITY_FEE", "50000")
	t.Setenv("PRIVATE_KEY", "secret")
	t.Setenv("PORT", "8080")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("slippage", DefaultSlippage, "")
	flags.String("rpc-url", "", "")
	require.NoError(t, flags.Parse([]string{"--slippage=0.005"}))

	cfg, err := LoadConfig(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "https://rpc.example.org", cfg.RPCURL) // флаг не задан, значение из файла
	assert.Equal(t, "finalized", cfg.Commitment)
	assert.Equal(t, 0.005, cfg.Slippage)
	assert.Equal(t, 30*time.Second, cfg.ConfirmTimeout)
	assert.Equal(t, uint64(50_000), cfg.PriorityFee)
	assert.Equal(t, "secret", cfg.PrivateKey)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := map[string]map[string]string{
		"bad scheme":     {"RAYDIUM_SWAP_RPC_URL": "ftp://rpc.example.org"},
		"bad commitment": {"RAYDIUM_SWAP_COMMITMENT": "recent"},
		"slippage of 1":  {"RAYDIUM_SWAP_SLIPPAGE": "1"},
		"negative rate":  {"RAYDIUM_SWAP_RATE_LIMIT": "-1"},
		"bad port":       {"PORT": "70000"},
		"short timeout":  {"RAYDIUM_SWAP_CONFIRM_TIMEOUT": "1s"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("", nil)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}
