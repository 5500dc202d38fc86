package raydium

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
	"github.com/rovshanmuradov/raydium-swap/internal/blockchain/mocks"
)

const samplePoolData = `{"status":6,"coin_decimals":6,"pc_decimals":9,"lp_decimals":6,` +
	`"pool_pc_amount":250000000000000000000,"pool_coin_amount":5000000000000,` +
	`"pool_lp_supply":1000000000,"pool_open_time":1700000000}`

func TestParsePoolDataLog(t *testing.T) {
	snapshot, err := ParsePoolDataLog(samplePoolData)
	require.NoError(t, err)

	assert.Equal(t, SourceLive, snapshot.Source)
	assert.Equal(t, int64(6), snapshot.Status.Int64())
	assert.Equal(t, uint8(6), snapshot.BaseDecimals)
	assert.Equal(t, uint8(9), snapshot.QuoteDecimals)
	assert.Equal(t, uint8(6), snapshot.LpDecimals)
	assert.Equal(t, "5000000000000", snapshot.BaseReserve.String())
	// больше u64, не теряет точность
	assert.Equal(t, "250000000000000000000", snapshot.QuoteReserve.String())
	assert.Equal(t, "1000000000", snapshot.LpSupply.String())
	assert.Equal(t, uint64(1_700_000_000), snapshot.StartTime)
}

func TestParsePoolDataLog_OptionalFields(t *testing.T) {
	snapshot, err := ParsePoolDataLog(`{"coin_decimals":6,"pc_decimals":9,"lp_decimals":6,` +
		`"pool_pc_amount":1,"pool_coin_amount":2,"pool_lp_supply":3}`)
	require.NoError(t, err)
	assert.Nil(t, snapshot.Status)
	assert.Zero(t, snapshot.StartTime)
}

func TestParsePoolDataLog_Invalid(t *testing.T) {
	tests := map[string]string{
		"not json":           `GetPoolData`,
		"missing reserve":    `{"coin_decimals":6,"pc_decimals":9,"lp_decimals":6,"pool_pc_amount":1,"pool_lp_supply":3}`,
		"fractional reserve": `{"coin_decimals":6,"pc_decimals":9,"lp_decimals":6,"pool_pc_amount":1.5,"pool_coin_amount":2,"pool_lp_supply":3}`,
		"decimals overflow":  `{"coin_decimals":600,"pc_decimals":9,"lp_decimals":6,"pool_pc_amount":1,"pool_coin_amount":2,"pool_lp_supply":3}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParsePoolDataLog(raw)
			assert.Error(t, err)
		})
	}
}

func TestSimulatedPoolInfo_FetchPoolInfo(t *testing.T) {
	pool := testPool()

	client := new(mocks.MockClient)
	client.On("SimulateTransaction", mock.Anything, mock.MatchedBy(func(tx *solana.Transaction) bool {
		if len(tx.Message.Instructions) != 1 || !tx.Message.AccountKeys[0].Equals(SimulationFeePayer) {
			return false
		}
		ix := tx.Message.Instructions[0]
		return len(ix.Data) == 2 && ix.Data[0] == InstructionSimulateInfo && ix.Data[1] == SimulatePoolInfoParamType &&
			len(tx.Signatures) == int(tx.Message.Header.NumRequiredSignatures)
	})).Return(&blockchain.SimulationResult{
		Logs: []string{
			"Program " + AmmV4ProgramID.String() + " invoke [1]",
			"Program log: GetPoolData: " + samplePoolData,
			"Program " + AmmV4ProgramID.String() + " success",
		},
	}, nil)

	snapshot, err := NewSimulatedPoolInfo(client, zap.NewNop()).FetchPoolInfo(context.Background(), pool)
	require.NoError(t, err)
	assert.Equal(t, "5000000000000", snapshot.BaseReserve.String())
	client.AssertExpectations(t)
}

func TestSimulatedPoolInfo_WithPayer(t *testing.T) {
	payer := solana.NewWallet().PublicKey()

	client := new(mocks.MockClient)
	client.On("SimulateTransaction", mock.Anything, mock.MatchedBy(func(tx *solana.Transaction) bool {
		return tx.Message.AccountKeys[0].Equals(payer)
	})).Return(&blockchain.SimulationResult{
		Logs: []string{"Program log: GetPoolData: " + samplePoolData},
	}, nil)

	fetcher := NewSimulatedPoolInfo(client, zap.NewNop()).WithPayer(payer)
	_, err := fetcher.FetchPoolInfo(context.Background(), testPool())
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSimulatedPoolInfo_Failures(t *testing.T) {
	pool := testPool()

	tests := []struct {
		name   string
		result *blockchain.SimulationResult
		err    error
	}{
		{name: "rpc error", err: errors.New("connection refused")},
		{name: "simulation error", result: &blockchain.SimulationResult{Err: map[string]interface{}{"InstructionError": []interface{}{0, "InvalidAccountData"}}}},
		{name: "no pool data log", result: &blockchain.SimulationResult{Logs: []string{"Program log: nothing here"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := new(mocks.MockClient)
			client.On("SimulateTransaction", mock.Anything, mock.Anything).Return(tt.result, tt.err)

			snapshot, err := NewSimulatedPoolInfo(client, zap.NewNop()).FetchPoolInfo(context.Background(), pool)
			assert.Nil(t, snapshot)
			assert.Error(t, err)
		})
	}
}

func TestBuildSimulatePoolInfoInstruction(t *testing.T) {
	pool := testPool()
	ix := BuildSimulatePoolInfoInstruction(pool)

	assert.Equal(t, AmmV4ProgramID, ix.ProgramID())
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{12, 0}, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 8)
	assert.Equal(t, pool.ID, accounts[0].PublicKey)
	assert.Equal(t, pool.MarketEventQueue, accounts[7].PublicKey)
	for _, a := range accounts {
		assert.False(t, a.IsWritable)
		assert.False(t, a.IsSigner)
	}
}
