// internal/dex/raydium/pool.go
package raydium

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
)

// Locator ищет пулы AMM V4 для пары токенов.
type Locator struct {
	client      blockchain.Client
	logger      *zap.Logger
	programID   solana.PublicKey
	concurrency int
}

// NewLocator создаёт локатор для программы AMM V4 mainnet.
func NewLocator(client blockchain.Client, logger *zap.Logger) *Locator {
	return &Locator{
		client:      client,
		logger:      logger.Named("locator"),
		programID:   AmmV4ProgramID,
		concurrency: defaultCandidateConcurrency,
	}
}

// Locate возвращает все пулы, где пара (tokenA, tokenB) встречается в любом
// порядке base/quote. Порядок результата не определён.
//
// Оба направления запрашиваются параллельно; упавший запрос считается пустым.
// Кандидат, который не удалось декодировать или дополнить данными рынка,
// пропускается с предупреждением.
func (l *Locator) Locate(ctx context.Context, tokenA, tokenB solana.PublicKey, commitment rpc.CommitmentType) ([]*PoolKeys, error) {
	var (
		forward, reverse rpc.GetProgramAccountsResult
	)

	g, gctx := errgroup.WithContext(ctx)

	// прямой порядок
	g.Go(func() error {
		forward = l.queryPair(gctx, tokenA, tokenB, commitment)
		return nil
	})

	// обратный порядок
	g.Go(func() error {
		reverse = l.queryPair(gctx, tokenB, tokenA, commitment)
		return nil
	})

	_ = g.Wait()

	candidates := make([]*rpc.KeyedAccount, 0, len(forward)+len(reverse))
	candidates = append(candidates, forward...)
	candidates = append(candidates, reverse...)

	l.logger.Debug("Pool candidates found",
		zap.String("token_a", tokenA.String()),
		zap.String("token_b", tokenB.String()),
		zap.Int("forward", len(forward)),
		zap.Int("reverse", len(reverse)))

	return l.resolveCandidates(ctx, candidates, commitment)
}

// queryPair выполняет один getProgramAccounts; ошибка логируется и даёт пустой результат.
func (l *Locator) queryPair(ctx context.Context, baseMint, quoteMint solana.PublicKey, commitment rpc.CommitmentType) rpc.GetProgramAccountsResult {
	opts := &rpc.GetProgramAccountsOpts{
		Commitment: commitment,
		Encoding:   solana.EncodingBase64,
		Filters: []rpc.RPCFilter{
			{DataSize: AmmInfoSize},
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: AmmBaseMintOffset, Bytes: baseMint.Bytes()}},
			{Memcmp: &rpc.RPCFilterMemcmp{Offset: AmmQuoteMintOffset, Bytes: quoteMint.Bytes()}},
		},
	}

	accounts, err := l.client.GetProgramAccountsWithOpts(ctx, l.programID, opts)
	if err != nil {
		l.logger.Warn("Pool query failed, treating as empty",
			zap.String("base_mint", baseMint.String()),
			zap.String("quote_mint", quoteMint.String()),
			zap.Error(err))
		return nil
	}
	return accounts
}

func (l *Locator) resolveCandidates(ctx context.Context, candidates []*rpc.KeyedAccount, commitment rpc.CommitmentType) ([]*PoolKeys, error) {
	resolved := make([]*PoolKeys, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for i, candidate := range candidates {
		if candidate == nil || candidate.Account == nil || candidate.Account.Data == nil {
			continue
		}
		g.Go(func() error {
			keys, err := l.buildPoolKeys(gctx, candidate.Pubkey, candidate.Account.Data.GetBinary(), commitment)
			if err != nil {
				l.logger.Warn("Skipping pool candidate",
					zap.String("pool", candidate.Pubkey.String()),
					zap.Error(err))
				return nil
			}
			resolved[i] = keys
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pools := make([]*PoolKeys, 0, len(resolved))
	for _, keys := range resolved {
		if keys != nil {
			pools = append(pools, keys)
		}
	}
	return pools, nil
}

// FetchPoolKeys собирает PoolKeys для известного адреса пула.
func (l *Locator) FetchPoolKeys(ctx context.Context, poolID solana.PublicKey, commitment rpc.CommitmentType) (*PoolKeys, error) {
	data, err := l.accountData(ctx, poolID, commitment)
	if err != nil {
		return nil, err
	}
	return l.buildPoolKeys(ctx, poolID, data, commitment)
}

// buildPoolKeys декодирует AMM, подтягивает рынок и выводит его authority.
// Возвращает либо полностью заполненный PoolKeys, либо ошибку.
func (l *Locator) buildPoolKeys(ctx context.Context, id solana.PublicKey, data []byte, commitment rpc.CommitmentType) (*PoolKeys, error) {
	amm, err := DecodeAmmInfo(data)
	if err != nil {
		return nil, err
	}

	marketData, err := l.accountData(ctx, amm.MarketID, commitment)
	if err != nil {
		return nil, fmt.Errorf("market %s: %w", amm.MarketID, err)
	}
	market, err := DecodeMarketState(marketData)
	if err != nil {
		return nil, fmt.Errorf("market %s: %w", amm.MarketID, err)
	}

	marketAuthority, _, err := DeriveMarketAuthority(amm.MarketProgramID, amm.MarketID)
	if err != nil {
		return nil, err
	}

	return newPoolKeys(id, l.programID, amm, market, marketAuthority), nil
}

func newPoolKeys(id, programID solana.PublicKey, amm *AmmInfo, market *MarketState, marketAuthority solana.PublicKey) *PoolKeys {
	return &PoolKeys{
		ID:            id,
		BaseMint:      amm.BaseMint,
		QuoteMint:     amm.QuoteMint,
		LpMint:        amm.LpMint,
		BaseDecimals:  uint8(amm.BaseDecimal),
		QuoteDecimals: uint8(amm.QuoteDecimal),
		// LP mint пула V4 наследует точность base mint.
		LpDecimals:    uint8(amm.BaseDecimal),
		Version:       AmmLayoutVersion,
		ProgramID:     programID,
		Authority:     AmmV4Authority,
		OpenOrders:    amm.OpenOrders,
		TargetOrders:  amm.TargetOrders,
		BaseVault:     amm.BaseVault,
		QuoteVault:    amm.QuoteVault,
		WithdrawQueue: amm.WithdrawQueue,
		LpVault:       amm.LpVault,

		MarketVersion:    MarketLayoutVersion,
		MarketProgramID:  amm.MarketProgramID,
		MarketID:         amm.MarketID,
		MarketAuthority:  marketAuthority,
		MarketBaseVault:  market.BaseVault,
		MarketQuoteVault: market.QuoteVault,
		MarketBids:       market.Bids,
		MarketAsks:       market.Asks,
		MarketEventQueue: market.EventQueue,

		SwapFeeNumerator:   amm.SwapFeeNumerator,
		SwapFeeDenominator: amm.SwapFeeDenominator,
	}
}

func (l *Locator) accountData(ctx context.Context, account solana.PublicKey, commitment rpc.CommitmentType) ([]byte, error) {
	result, err := l.client.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account info for %s: %w", account, err)
	}
	if result == nil || result.Value == nil || result.Value.Data == nil {
		return nil, fmt.Errorf("account not found: %s", account)
	}
	return result.Value.Data.GetBinary(), nil
}
