package raydium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain/mocks"
)

// parsedVault строит jsonParsed-ответ getAccountInfo для token-аккаунта.
func parsedVault(t *testing.T, amount string) *rpc.GetAccountInfoResult {
	t.Helper()
	raw := fmt.Sprintf(`{"parsed":{"info":{"tokenAmount":{"amount":%q}},"type":"account"},"program":"spl-token","space":165}`, amount)

	var data rpc.DataBytesOrJSON
	require.NoError(t, json.Unmarshal([]byte(raw), &data))
	return &rpc.GetAccountInfoResult{Value: &rpc.Account{Owner: solana.TokenProgramID, Data: &data}}
}

func TestReserveResolver_Live(t *testing.T) {
	pool := testPool()
	live := liveSnapshot(pool, 1_000_000, 50_000)

	client := new(mocks.MockClient)
	resolver := NewReserveResolver(client, stubPoolInfo{snapshot: live}, zap.NewNop())

	snapshot, err := resolver.Resolve(context.Background(), pool)
	require.NoError(t, err)
	assert.Same(t, live, snapshot)
	client.AssertNotCalled(t, "GetAccountInfoWithOpts", mock.Anything, mock.Anything, mock.Anything)
}

func TestReserveResolver_FallbackToVaults(t *testing.T) {
	pool := testPool()

	client := new(mocks.MockClient)
	client.On("GetAccountInfoWithOpts", mock.Anything, pool.QuoteVault, mock.Anything).
		Return(parsedVault(t, "50000"), nil)
	client.On("GetAccountInfoWithOpts", mock.Anything, pool.BaseVault, mock.Anything).
		Return(parsedVault(t, "18446744073709551616"), nil) // 2^64

	resolver := NewReserveResolver(client, stubPoolInfo{err: errors.New("simulation unavailable")}, zap.NewNop())
	snapshot, err := resolver.Resolve(context.Background(), pool)
	require.NoError(t, err)

	assert.Equal(t, SourceApproximated, snapshot.Source)
	assert.Nil(t, snapshot.Status)
	assert.Equal(t, "18446744073709551616", snapshot.BaseReserve.String())
	assert.Equal(t, "50000", snapshot.QuoteReserve.String())
	assert.Equal(t, snapshot.BaseReserve.String(), snapshot.LpSupply.String())
	assert.Equal(t, pool.BaseDecimals, snapshot.BaseDecimals)
	assert.Equal(t, pool.QuoteDecimals, snapshot.QuoteDecimals)
	assert.Zero(t, snapshot.StartTime)
}

func TestReserveResolver_BothSourcesFail(t *testing.T) {
	pool := testPool()
	primaryErr := errors.New("simulation unavailable")
	vaultErr := errors.New("vault lookup failed")

	client := new(mocks.MockClient)
	client.On("GetAccountInfoWithOpts", mock.Anything, pool.QuoteVault, mock.Anything).
		Return(nil, vaultErr)

	resolver := NewReserveResolver(client, stubPoolInfo{err: primaryErr}, zap.NewNop())
	snapshot, err := resolver.Resolve(context.Background(), pool)
	assert.Nil(t, snapshot)
	assert.ErrorIs(t, err, ErrReserveUnavailable)
	assert.ErrorIs(t, err, primaryErr)
	assert.ErrorIs(t, err, vaultErr)
}

func TestReserveResolver_RejectsBinaryVaultData(t *testing.T) {
	pool := testPool()

	client := new(mocks.MockClient)
	client.On("GetAccountInfoWithOpts", mock.Anything, pool.QuoteVault, mock.Anything).
		Return(mocks.BinaryAccount(tokenAccountData(pool.QuoteMint, pool.Authority, 1)), nil)

	resolver := NewReserveResolver(client, stubPoolInfo{err: errors.New("no simulation")}, zap.NewNop())
	_, err := resolver.Resolve(context.Background(), pool)
	assert.ErrorIs(t, err, ErrReserveUnavailable)
}
