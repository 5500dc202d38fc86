// internal/dex/raydium/executor.go
package raydium

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
	"github.com/rovshanmuradov/raydium-swap/internal/blockchain/computebudget"
	"github.com/rovshanmuradov/raydium-swap/internal/logger"
	"github.com/rovshanmuradov/raydium-swap/internal/wallet"
)

// submitMaxRetries: число ретраев отправки на стороне RPC-ноды.
const submitMaxRetries uint = 2

// SwapEvent описывает отправленный свап для внешних наблюдателей (журнал и т.п.).
type SwapEvent struct {
	Signature  solana.Signature
	Pool       solana.PublicKey
	Owner      solana.PublicKey
	InputMint  solana.PublicKey
	OutputMint solana.PublicKey
	AmountIn   *big.Int
	AmountOut  *big.Int
	Side       FixedSide
	Source     ReserveSource
	Confirmed  bool
	Timestamp  time.Time
}

// SwapRecorder получает события свапа; ошибки записи на результат свапа не влияют.
type SwapRecorder interface {
	RecordSwap(ctx context.Context, event SwapEvent) error
}

// ExecutorOption настраивает Executor.
type ExecutorOption func(*Executor)

// WithRecorder подключает журнал свапов.
func WithRecorder(r SwapRecorder) ExecutorOption {
	return func(e *Executor) { e.recorder = r }
}

// WithConfirmOptions задаёт commitment и интервалы ожидания подтверждения.
func WithConfirmOptions(commitment rpc.CommitmentType, interval, timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.commitment = commitment
		e.confirmInterval = interval
		e.confirmTimeout = timeout
	}
}

// Executor собирает, подписывает и отправляет транзакцию свапа.
type Executor struct {
	client          blockchain.Client
	resolver        *ReserveResolver
	logger          *zap.Logger
	recorder        SwapRecorder
	commitment      rpc.CommitmentType
	confirmInterval time.Duration
	confirmTimeout  time.Duration
}

func NewExecutor(client blockchain.Client, resolver *ReserveResolver, logger *zap.Logger, opts ...ExecutorOption) *Executor {
	e := &Executor{
		client:     client,
		resolver:   resolver,
		logger:     logger.Named("executor"),
		commitment: rpc.CommitmentConfirmed,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Quote считает котировку для параметров свапа без отправки транзакции.
func (e *Executor) Quote(ctx context.Context, p SwapParams) (*Quote, error) {
	if p.Pool == nil {
		return nil, fmt.Errorf("%w: pool is required", ErrQuoteComputation)
	}
	dir := Direction(p.TokenMint.Equals(p.Pool.QuoteMint))

	reserves, err := e.resolver.Resolve(ctx, p.Pool)
	if err != nil {
		return nil, err
	}

	switch p.FixedSide {
	case FixedIn, "":
		decimals := p.Pool.BaseDecimals
		if dir == QuoteIn {
			decimals = p.Pool.QuoteDecimals
		}
		return QuoteGivenInput(p.Pool, reserves, DecimalToTokenAmount(p.Amount, decimals), p.Slippage, dir)
	case FixedOut:
		decimals := p.Pool.QuoteDecimals
		if dir == QuoteIn {
			decimals = p.Pool.BaseDecimals
		}
		return QuoteGivenOutput(p.Pool, reserves, DecimalToTokenAmount(p.Amount, decimals), p.Slippage, dir)
	default:
		return nil, fmt.Errorf("%w: unknown fixed side %q", ErrQuoteComputation, p.FixedSide)
	}
}

// Execute выполняет свап и возвращает подпись транзакции. Если ShouldConfirm
// выключен, подпись возвращается сразу после отправки, без подтверждения.
// При ошибке подтверждения подпись тоже возвращается вместе с ошибкой.
func (e *Executor) Execute(ctx context.Context, p SwapParams) (solana.Signature, error) {
	log := logger.WithOperation(e.logger, "swap")
	if p.Owner == nil {
		return solana.Signature{}, newSwapError(StageCalculateAmounts, "calculating amounts failed",
			fmt.Errorf("%w: owner wallet is required", ErrQuoteComputation))
	}

	// 1-2. направление и котировка
	quote, err := e.Quote(ctx, p)
	if err != nil {
		log.Error("Calculating amounts failed", zap.Error(err))
		return solana.Signature{}, newSwapError(StageCalculateAmounts, "calculating amounts failed", err)
	}
	log.Info("Swap quoted",
		zap.String("pool", p.Pool.ID.String()),
		zap.Stringer("direction", quote.Direction),
		zap.String("side", string(quote.Side)),
		zap.String("amount_in", quote.AmountIn.String()),
		zap.String("amount_out", quote.AmountOut.String()),
		zap.String("bound", quote.Bound().String()),
		zap.String("price_impact", quote.PriceImpact.String()),
		zap.Stringer("reserves", quote.Source))

	// 3. инструкции
	instructions, err := e.buildInstructions(ctx, p, quote)
	if err != nil {
		log.Error("Making swap transaction failed", zap.Error(err))
		return solana.Signature{}, newSwapError(StageMakeTransaction, "making swap transaction failed", err)
	}

	// 4. blockhash + подпись
	tx, lastValidBlockHeight, err := e.buildTransaction(ctx, p.Owner, instructions)
	if err != nil {
		log.Error("Getting recent blockhash failed", zap.Error(err))
		return solana.Signature{}, newSwapError(StageBlockhash, "getting recent blockhash failed", err)
	}

	// 5. отправка
	maxRetries := submitMaxRetries
	sig, err := e.client.SendTransactionWithOpts(ctx, tx, blockchain.TransactionOptions{
		SkipPreflight: true,
		MaxRetries:    &maxRetries,
	})
	if err != nil {
		log.Error("Sending transaction failed", zap.Error(err))
		return solana.Signature{}, newSwapError(StageSend, "sending transaction failed", err)
	}
	log.Info("Swap transaction sent", zap.String("signature", sig.String()))

	// 6. подтверждение
	confirmed := false
	if p.ShouldConfirm {
		err := blockchain.AwaitConfirmation(ctx, e.client, sig, blockchain.ConfirmOptions{
			Commitment:           e.commitment,
			LastValidBlockHeight: lastValidBlockHeight,
			Interval:             e.confirmInterval,
			Timeout:              e.confirmTimeout,
		})
		if err != nil {
			if IsSlippageExceededError(err) {
				err = &SlippageExceededError{SlippageBps: quote.SlippageBps, OriginalError: err}
			}
			log.Error("Transaction not confirmed", zap.String("signature", sig.String()), zap.Error(err))
			return sig, newSwapError(StageConfirm, "transaction not confirmed", err)
		}
		confirmed = true
		log.Info("Swap transaction confirmed", zap.String("signature", sig.String()))
	}

	e.record(ctx, log, SwapEvent{
		Signature:  sig,
		Pool:       p.Pool.ID,
		Owner:      p.Owner.PublicKey,
		InputMint:  quote.InputMint,
		OutputMint: quote.OutputMint,
		AmountIn:   quote.AmountIn,
		AmountOut:  quote.AmountOut,
		Side:       quote.Side,
		Source:     quote.Source,
		Confirmed:  confirmed,
		Timestamp:  time.Now().UTC(),
	})
	return sig, nil
}

func (e *Executor) buildInstructions(ctx context.Context, p SwapParams, quote *Quote) ([]solana.Instruction, error) {
	accounts, err := GetOwnerTokenAccounts(ctx, e.client, p.Owner.PublicKey)
	if err != nil {
		return nil, err
	}

	route, err := planRoute(p.Owner, quote, accounts)
	if err != nil {
		return nil, err
	}

	data, err := NewSwapInstructionData(quote)
	if err != nil {
		return nil, err
	}
	swapIx, err := BuildSwapInstruction(p.Pool, SwapInstructionAccounts{
		UserAuthority:   p.Owner.PublicKey,
		UserSourceToken: route.source,
		UserDestToken:   route.dest,
	}, data)
	if err != nil {
		return nil, err
	}

	fee := p.MaxFee
	if fee == 0 {
		fee = computebudget.DefaultSwapUnitPrice
	}
	budget, err := computebudget.BuildInstructions(computebudget.Config{UnitPrice: fee})
	if err != nil {
		return nil, err
	}

	instructions := make([]solana.Instruction, 0, len(budget)+len(route.pre)+1+len(route.post))
	instructions = append(instructions, budget...)
	instructions = append(instructions, route.pre...)
	instructions = append(instructions, swapIx)
	instructions = append(instructions, route.post...)
	return instructions, nil
}

// buildTransaction получает blockhash, собирает v0-сообщение и подписывает его.
func (e *Executor) buildTransaction(ctx context.Context, owner *wallet.Wallet, instructions []solana.Instruction) (*solana.Transaction, uint64, error) {
	latest, err := e.client.GetLatestBlockhash(ctx, e.commitment)
	if err != nil {
		return nil, 0, err
	}

	tx, err := solana.NewTransaction(instructions, latest.Value.Blockhash, solana.TransactionPayer(owner.PublicKey))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create transaction: %w", err)
	}
	tx.Message.SetVersion(solana.MessageVersionV0)

	if err := owner.SignTransaction(tx); err != nil {
		return nil, 0, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, latest.Value.LastValidBlockHeight, nil
}

func (e *Executor) record(ctx context.Context, log *zap.Logger, event SwapEvent) {
	if e.recorder == nil {
		return
	}
	if err := e.recorder.RecordSwap(ctx, event); err != nil {
		log.Warn("Failed to record swap", zap.Error(err))
	}
}
