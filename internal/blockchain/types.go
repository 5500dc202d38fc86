// internal/blockchain/types.go
package blockchain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// TransactionOptions определяет опции для отправки транзакций.
type TransactionOptions struct {
	SkipPreflight       bool
	PreflightCommitment rpc.CommitmentType
	// MaxRetries == nil оставляет политику ретраев на стороне RPC-ноды.
	MaxRetries *uint
}

// SimulationResult представляет результат симуляции транзакции.
type SimulationResult struct {
	Err           interface{}
	Logs          []string
	UnitsConsumed uint64
}

// Client определяет интерфейс леджера, который использует ядро свапа.
// Реализация по умолчанию: solbc.Client; в тестах подменяется моком.
type Client interface {
	// Аккаунты программы с фильтрами dataSize/memcmp.
	GetProgramAccountsWithOpts(ctx context.Context, programID solana.PublicKey, opts *rpc.GetProgramAccountsOpts) (rpc.GetProgramAccountsResult, error)
	// Информация об аккаунте (base64 или jsonParsed, в зависимости от opts).
	GetAccountInfoWithOpts(ctx context.Context, account solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error)
	// Токен-аккаунты владельца для заданной токен-программы.
	GetTokenAccountsByOwner(ctx context.Context, owner, programID solana.PublicKey) (*rpc.GetTokenAccountsResult, error)
	// Последний blockhash вместе с lastValidBlockHeight.
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	// Текущая высота блока.
	GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error)
	// Отправить транзакцию с опциями.
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts TransactionOptions) (solana.Signature, error)
	// Получить статусы подписей транзакций.
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
	// Симулировать транзакцию без проверки подписей.
	SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*SimulationResult, error)
	// Получить баланс аккаунта в лампортах.
	GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error)
}
