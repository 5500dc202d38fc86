// internal/blockchain/mocks/client.go
package mocks

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
)

// MockClient реализует blockchain.Client для тестов.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetProgramAccountsWithOpts(ctx context.Context, programID solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error) {
	args := m.Called(ctx, programID, opts)
	res, _ := args.Get(0).(rpc.GetProgramAccountsResult)
	return res, args.Error(1)
}

func (m *MockClient) GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	args := m.Called(ctx, account, opts)
	res, _ := args.Get(0).(*rpc.GetAccountInfoResult)
	return res, args.Error(1)
}

func (m *MockClient) GetTokenAccountsByOwner(ctx context.Context, owner, programID solana.PublicKey) (*rpc.GetTokenAccountsResult, error) {
	args := m.Called(ctx, owner, programID)
	res, _ := args.Get(0).(*rpc.GetTokenAccountsResult)
	return res, args.Error(1)
}

func (m *MockClient) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	args := m.Called(ctx, commitment)
	res, _ := args.Get(0).(*rpc.GetLatestBlockhashResult)
	return res, args.Error(1)
}

func (m *MockClient) GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	args := m.Called(ctx, commitment)
	res, _ := args.Get(0).(uint64)
	return res, args.Error(1)
}

func (m *MockClient) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	args := m.Called(ctx, tx, opts)
	res, _ := args.Get(0).(solana.Signature)
	return res, args.Error(1)
}

func (m *MockClient) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	args := m.Called(ctx, signatures)
	res, _ := args.Get(0).(*rpc.GetSignatureStatusesResult)
	return res, args.Error(1)
}

func (m *MockClient) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*blockchain.SimulationResult, error) {
	args := m.Called(ctx, tx)
	res, _ := args.Get(0).(*blockchain.SimulationResult)
	return res, args.Error(1)
}

func (m *MockClient) GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	args := m.Called(ctx, pubkey, commitment)
	res, _ := args.Get(0).(uint64)
	return res, args.Error(1)
}

// BinaryAccount оборачивает сырые байты в ответ getAccountInfo.
func BinaryAccount(data []byte) *rpc.GetAccountInfoResult {
	return &rpc.GetAccountInfoResult{
		Value: &rpc.Account{Data: rpc.DataBytesOrJSONFromBytes(data)},
	}
}

// Blockhash строит ответ getLatestBlockhash.
func Blockhash(hash solana.Hash, lastValidBlockHeight uint64) *rpc.GetLatestBlockhashResult {
	return &rpc.GetLatestBlockhashResult{
		Value: &rpc.LatestBlockhashResult{
			Blockhash:            hash,
			LastValidBlockHeight: lastValidBlockHeight,
		},
	}
}

var _ blockchain.Client = (*MockClient)(nil)
