// internal/transfer/transfer.go
package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
	"github.com/rovshanmuradov/raydium-swap/internal/blockchain/computebudget"
	"github.com/rovshanmuradov/raydium-swap/internal/logger"
	"github.com/rovshanmuradov/raydium-swap/internal/wallet"
)

// BalanceReserve: сколько lamports оставляется на комиссию при переводе всего баланса.
const BalanceReserve uint64 = 7000

var (
	ErrInvalidAmount       = errors.New("transfer amount must be positive")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

var lamportsPerSOL = decimal.NewFromInt(int64(solana.LAMPORTS_PER_SOL))

// Option настраивает Service.
type Option func(*Service)

// WithUnitPrice задаёт приоритетную комиссию в микролампортах за compute unit.
func WithUnitPrice(microLamports uint64) Option {
	return func(s *Service) { s.unitPrice = microLamports }
}

// WithConfirmOptions задаёт параметры ожидания подтверждения.
func WithConfirmOptions(commitment rpc.CommitmentType, interval, timeout time.Duration) Option {
	return func(s *Service) {
		s.confirm.Commitment = commitment
		s.confirm.Interval = interval
		s.confirm.Timeout = timeout
	}
}

// Service переводит SOL с кошелька сервиса.
type Service struct {
	client    blockchain.Client
	wallet    *wallet.Wallet
	logger    *zap.Logger
	unitPrice uint64
	confirm   blockchain.ConfirmOptions
}

func NewService(client blockchain.Client, w *wallet.Wallet, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		client:    client,
		wallet:    w,
		logger:    logger.Named("transfer"),
		unitPrice: computebudget.DefaultTransferUnitPrice,
		confirm:   blockchain.ConfirmOptions{Commitment: rpc.CommitmentConfirmed},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ToLamports переводит SOL в lamports с округлением до целого.
func ToLamports(amount decimal.Decimal) (uint64, error) {
	lamports := amount.Mul(lamportsPerSOL).Round(0)
	if !lamports.IsPositive() {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidAmount, amount)
	}
	value := lamports.BigInt()
	if !value.IsUint64() {
		return 0, fmt.Errorf("%w: %s SOL does not fit into u64 lamports", ErrInvalidAmount, amount)
	}
	return value.Uint64(), nil
}

// TransferSOL переводит amount SOL на адрес to и ждёт подтверждения.
// При ошибке подтверждения возвращается и подпись, и ошибка.
func (s *Service) TransferSOL(ctx context.Context, amount decimal.Decimal, to solana.PublicKey) (solana.Signature, error) {
	lamports, err := ToLamports(amount)
	if err != nil {
		return solana.Signature{}, err
	}
	return s.transferLamports(ctx, lamports, to)
}

// TransferBalance переводит весь баланс за вычетом BalanceReserve.
func (s *Service) TransferBalance(ctx context.Context, to solana.PublicKey) (solana.Signature, error) {
	balance, err := s.client.GetBalance(ctx, s.wallet.PublicKey, s.confirm.Commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("error getting balance: %w", err)
	}
	if balance <= BalanceReserve {
		return solana.Signature{}, ErrInsufficientBalance
	}
	return s.transferLamports(ctx, balance-BalanceReserve, to)
}

func (s *Service) transferLamports(ctx context.Context, lamports uint64, to solana.PublicKey) (solana.Signature, error) {
	log := logger.WithOperation(s.logger, "transfer_sol")

	transferIx, err := system.NewTransferInstruction(lamports, s.wallet.PublicKey, to).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build transfer instruction: %w", err)
	}
	budget, err := computebudget.BuildInstructions(computebudget.Config{UnitPrice: s.unitPrice})
	if err != nil {
		return solana.Signature{}, err
	}
	instructions := append([]solana.Instruction{transferIx}, budget...)

	latest, err := s.client.GetLatestBlockhash(ctx, s.confirm.Commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}
	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(s.wallet.PublicKey))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := s.wallet.SignTransaction(tx); err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig, err := s.client.SendTransactionWithOpts(ctx, tx, blockchain.TransactionOptions{
		PreflightCommitment: s.confirm.Commitment,
	})
	if err != nil {
		log.Error("SOL transfer failed", zap.Error(err))
		return solana.Signature{}, err
	}
	log.Info("SOL transfer sent",
		zap.String("to", to.String()),
		zap.Uint64("lamports", lamports),
		zap.String("signature", sig.String()))

	confirm := s.confirm
	confirm.LastValidBlockHeight = latest.Value.LastValidBlockHeight
	if err := blockchain.AwaitConfirmation(ctx, s.client, sig, confirm); err != nil {
		log.Error("SOL transfer not confirmed", zap.String("signature", sig.String()), zap.Error(err))
		return sig, err
	}
	return sig, nil
}
