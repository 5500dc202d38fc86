// internal/dex/raydium/types.go
package raydium

import (
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/raydium-swap/internal/wallet"
)

// PoolKeys содержит все адреса и параметры пула AMM V4 вместе с его рынком.
// Создаётся локатором на каждый запрос и после этого не меняется.
type PoolKeys struct {
	ID            solana.PublicKey `json:"id"`
	BaseMint      solana.PublicKey `json:"baseMint"`
	QuoteMint     solana.PublicKey `json:"quoteMint"`
	LpMint        solana.PublicKey `json:"lpMint"`
	BaseDecimals  uint8            `json:"baseDecimals"`
	QuoteDecimals uint8            `json:"quoteDecimals"`
	LpDecimals    uint8            `json:"lpDecimals"`
	Version       int              `json:"version"`
	ProgramID     solana.PublicKey `json:"programId"`
	Authority     solana.PublicKey `json:"authority"`
	OpenOrders    solana.PublicKey `json:"openOrders"`
	TargetOrders  solana.PublicKey `json:"targetOrders"`
	BaseVault     solana.PublicKey `json:"baseVault"`
	QuoteVault    solana.PublicKey `json:"quoteVault"`
	WithdrawQueue solana.PublicKey `json:"withdrawQueue"`
	LpVault       solana.PublicKey `json:"lpVault"`

	MarketVersion    int              `json:"marketVersion"`
	MarketProgramID  solana.PublicKey `json:"marketProgramId"`
	MarketID         solana.PublicKey `json:"marketId"`
	MarketAuthority  solana.PublicKey `json:"marketAuthority"`
	MarketBaseVault  solana.PublicKey `json:"marketBaseVault"`
	MarketQuoteVault solana.PublicKey `json:"marketQuoteVault"`
	MarketBids       solana.PublicKey `json:"marketBids"`
	MarketAsks       solana.PublicKey `json:"marketAsks"`
	MarketEventQueue solana.PublicKey `json:"marketEventQueue"`

	SwapFeeNumerator   uint64 `json:"swapFeeNumerator"`
	SwapFeeDenominator uint64 `json:"swapFeeDenominator"`
}

// swapFee возвращает долю комиссии пула, подставляя 25/10000, если пул её не задал.
func (p *PoolKeys) swapFee() (num, den *big.Int) {
	if p.SwapFeeDenominator == 0 || p.SwapFeeNumerator >= p.SwapFeeDenominator {
		return big.NewInt(DefaultSwapFeeNumerator), big.NewInt(DefaultSwapFeeDenominator)
	}
	return new(big.Int).SetUint64(p.SwapFeeNumerator), new(big.Int).SetUint64(p.SwapFeeDenominator)
}

// ReserveSource: дискриминатор снапшота резервов.
type ReserveSource uint8

const (
	// SourceLive: агрегированный pool info из симуляции программы AMM.
	SourceLive ReserveSource = iota + 1
	// SourceApproximated: балансы vault-аккаунтов; LPSupply приближён базовым резервом.
	SourceApproximated
)

func (s ReserveSource) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceApproximated:
		return "approximated"
	default:
		return "unknown"
	}
}

// ReserveSnapshot: резервы пула на момент чтения. Котировка валидна только
// против того снапшота, из которого она посчитана.
type ReserveSnapshot struct {
	Source        ReserveSource
	Status        *big.Int // nil для SourceApproximated
	BaseDecimals  uint8
	QuoteDecimals uint8
	LpDecimals    uint8
	BaseReserve   *big.Int
	QuoteReserve  *big.Int
	LpSupply      *big.Int
	StartTime     uint64
}

// Direction выбирает продаваемую сторону пула.
type Direction bool

const (
	// QuoteIn: продаём quote mint, получаем base mint.
	QuoteIn Direction = true
	// BaseIn: продаём base mint, получаем quote mint.
	BaseIn Direction = false
)

func (d Direction) String() string {
	if d == QuoteIn {
		return "quote->base"
	}
	return "base->quote"
}

// FixedSide определяет, какая сумма задана пользователем.
type FixedSide string

const (
	FixedIn  FixedSide = "in"
	FixedOut FixedSide = "out"
)

// Quote: результат расчёта свапа. Ровно одна из AmountIn/AmountOut задана
// вызывающим; граница (MinAmountOut или MaxAmountIn) всегда на другой стороне.
type Quote struct {
	Side           FixedSide
	Direction      Direction
	InputMint      solana.PublicKey
	OutputMint     solana.PublicKey
	InputDecimals  uint8
	OutputDecimals uint8
	AmountIn       *big.Int
	AmountOut      *big.Int
	MinAmountOut   *big.Int // только для FixedIn
	MaxAmountIn    *big.Int // только для FixedOut
	Fee            *big.Int // в единицах входного токена
	SlippageBps    uint16
	CurrentPrice   decimal.Decimal
	ExecutionPrice decimal.Decimal
	PriceImpact    decimal.Decimal
	Source         ReserveSource
}

// SwapParams параметры для Executor.Execute.
type SwapParams struct {
	Pool  *PoolKeys
	Owner *wallet.Wallet
	// Amount в UI-единицах фиксированной стороны.
	Amount decimal.Decimal
	// TokenMint: продаваемый mint; сравнивается с quote mint пула.
	TokenMint     solana.PublicKey
	Slippage      float64
	MaxFee        uint64 // micro-lamports per compute unit
	FixedSide     FixedSide
	ShouldConfirm bool
}
