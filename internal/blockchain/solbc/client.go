// internal/blockchain/solbc/client.go
package solbc

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
	"go.uber.org/zap"
)

// Client – тонкий адаптер для взаимодействия с блокчейном Solana через solana-go.
type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

// ErrAccountNotFound возвращается, когда аккаунт отсутствует в леджере.
var ErrAccountNotFound = errors.New("account not found")

// NewClient создаёт новый клиент, принимая RPC URL и логгер через dependency injection.
func NewClient(rpcURL string, logger *zap.Logger) *Client {
	return &Client{
		rpc:    rpc.New(rpcURL),
		logger: logger.Named("solbc-client"),
	}
}

// GetProgramAccountsWithOpts получает все аккаунты программы с опциями фильтрации.
func (c *Client) GetProgramAccountsWithOpts(
	ctx context.Context,
	programID solana.PublicKey,
	opts *rpc.GetProgramAccountsOpts,
) (rpc.GetProgramAccountsResult, error) {
	accounts, err := c.rpc.GetProgramAccountsWithOpts(ctx, programID, opts)
	if err != nil {
		c.logger.Debug("GetProgramAccountsWithOpts error",
			zap.String("program_id", programID.String()),
			zap.Error(err))
		return nil, err
	}
	c.logger.Debug("GetProgramAccountsWithOpts",
		zap.String("program_id", programID.String()),
		zap.Int("accounts", len(accounts)))
	return accounts, nil
}

// GetAccountInfoWithOpts получает информацию об аккаунте.
// Отсутствующий аккаунт возвращается как ErrAccountNotFound.
func (c *Client) GetAccountInfoWithOpts(
	ctx context.Context,
	account solana.PublicKey,
	opts *rpc.GetAccountInfoOpts,
) (*rpc.GetAccountInfoResult, error) {
	result, err := c.rpc.GetAccountInfoWithOpts(ctx, account, opts)
	if err != nil {
		c.logger.Debug("GetAccountInfoWithOpts error",
			zap.String("pubkey", account.String()),
			zap.Error(err))
		if errors.Is(err, rpc.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	return result, nil
}

// GetTokenAccountsByOwner возвращает токен-аккаунты владельца в base64.
func (c *Client) GetTokenAccountsByOwner(
	ctx context.Context,
	owner, programID solana.PublicKey,
) (*rpc.GetTokenAccountsResult, error) {
	result, err := c.rpc.GetTokenAccountsByOwner(ctx, owner,
		&rpc.GetTokenAccountsConfig{ProgramId: &programID},
		&rpc.GetTokenAccountsOpts{Encoding: solana.EncodingBase64},
	)
	if err != nil {
		c.logger.Debug("GetTokenAccountsByOwner error",
			zap.String("owner", owner.String()),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

// GetLatestBlockhash получает последний blockhash.
func (c *Client) GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error) {
	result, err := c.rpc.GetLatestBlockhash(ctx, commitment)
	if err != nil {
		c.logger.Error("GetLatestBlockhash error", zap.Error(err))
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, errors.New("empty blockhash response")
	}
	return result, nil
}

// GetBlockHeight получает текущую высоту блока.
func (c *Client) GetBlockHeight(ctx context.Context, commitment rpc.CommitmentType) (uint64, error) {
	height, err := c.rpc.GetBlockHeight(ctx, commitment)
	if err != nil {
		c.logger.Debug("GetBlockHeight error", zap.Error(err))
		return 0, err
	}
	return height, nil
}

// GetSignatureStatuses получает статусы транзакций.
func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	result, err := c.rpc.GetSignatureStatuses(ctx, false, signatures...)
	if err != nil {
		c.logger.Debug("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}

// SendTransactionWithOpts отправляет транзакцию с заданными опциями.
func (c *Client) SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts blockchain.TransactionOptions) (solana.Signature, error) {
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: opts.PreflightCommitment,
		MaxRetries:          opts.MaxRetries,
	})
	if err != nil {
		c.logger.Error("SendTransactionWithOpts error", zap.Error(err))
		return solana.Signature{}, err
	}
	c.logger.Debug("Transaction sent", zap.String("signature", sig.String()))
	return sig, nil
}

// SimulateTransaction симулирует транзакцию без проверки подписей
// и с подменой blockhash на стороне ноды.
func (c *Client) SimulateTransaction(ctx context.Context, tx *solana.Transaction) (*blockchain.SimulationResult, error) {
	result, err := c.rpc.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:              false,
		Commitment:             rpc.CommitmentConfirmed,
		ReplaceRecentBlockhash: true,
	})
	if err != nil {
		c.logger.Error("SimulateTransaction error", zap.Error(err))
		return nil, err
	}
	if result == nil || result.Value == nil {
		return nil, errors.New("empty simulation response")
	}
	units := uint64(0)
	if result.Value.UnitsConsumed != nil {
		units = *result.Value.UnitsConsumed
	}
	return &blockchain.SimulationResult{
		Err:           result.Value.Err,
		Logs:          result.Value.Logs,
		UnitsConsumed: units,
	}, nil
}

// GetBalance получает баланс аккаунта.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey, commitment rpc.CommitmentType) (uint64, error) {
	result, err := c.rpc.GetBalance(ctx, pubkey, commitment)
	if err != nil {
		c.logger.Error("GetBalance error", zap.Error(err))
		return 0, err
	}
	return result.Value, nil
}

// Гарантируем, что Client реализует интерфейс blockchain.Client.
var _ blockchain.Client = (*Client)(nil)
