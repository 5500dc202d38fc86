package journal

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // отдельная БД для тестов
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func testEvent(n int64) raydium.SwapEvent {
	return raydium.SwapEvent{
		Signature:  solana.Signature{byte(n)},
		Pool:       solana.NewWallet().PublicKey(),
		Owner:      solana.NewWallet().PublicKey(),
		InputMint:  solana.NewWallet().PublicKey(),
		OutputMint: solana.NewWallet().PublicKey(),
		AmountIn:   big.NewInt(1000 * n),
		AmountOut:  big.NewInt(49 * n),
		Side:       raydium.FixedIn,
		Source:     raydium.SourceLive,
		Confirmed:  true,
		Timestamp:  time.Unix(1_700_000_000+n, 0).UTC(),
	}
}

func TestEntryFromEvent(t *testing.T) {
	event := testEvent(3)
	entry := entryFromEvent(event)

	assert.Equal(t, event.Signature.String(), entry.Signature)
	assert.Equal(t, "3000", entry.AmountIn)
	assert.Equal(t, "147", entry.AmountOut)
	assert.Equal(t, "in", entry.Side)
	assert.Equal(t, "live", entry.Reserves)
}

func TestDecodeEntry(t *testing.T) {
	entry := entryFromEvent(testEvent(2))
	payload, err := jsonAPI.MarshalToString(entry)
	require.NoError(t, err)

	decoded, err := DecodeEntry(payload)
	require.NoError(t, err)
	assert.Equal(t, entry, decoded)

	for _, raw := range []string{`not json`, `{"pool":"x"}`} {
		_, err := DecodeEntry(raw)
		assert.Error(t, err, raw)
	}
}

func TestJournal_RecordAndRecent(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	key, channel := "test:"+t.Name()+":history", "test:"+t.Name()+":events"
	t.Cleanup(func() { client.Del(context.Background(), key) })

	j := New(client, zap.NewNop()).WithKeys(key, channel)
	j.historyLen = 3

	sub := j.Subscribe(ctx)
	defer sub.Close()
	_, err := sub.Receive(ctx) // подтверждение подписки
	require.NoError(t, err)

	for n := int64(1); n <= 5; n++ {
		require.NoError(t, j.RecordSwap(ctx, testEvent(n)))
	}

	entries, err := j.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "5000", entries[0].AmountIn)
	assert.Equal(t, "3000", entries[2].AmountIn)

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	assert.Contains(t, msg.Payload, `"amountIn":"1000"`)
}

func TestJournal_RecordFailsWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	err := New(client, zap.NewNop()).RecordSwap(context.Background(), testEvent(1))
	assert.Error(t, err)
}
