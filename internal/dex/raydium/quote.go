// internal/dex/raydium/quote.go
package raydium

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// swapSides: резервы и decimals, развёрнутые по направлению свапа.
type swapSides struct {
	inMint, outMint       solana.PublicKey
	reserveIn, reserveOut *big.Int
	decIn, decOut         uint8
}

func resolveSides(pool *PoolKeys, reserves *ReserveSnapshot, dir Direction) (*swapSides, error) {
	if pool == nil || reserves == nil {
		return nil, fmt.Errorf("%w: pool and reserves are required", ErrQuoteComputation)
	}
	if reserves.BaseDecimals != pool.BaseDecimals || reserves.QuoteDecimals != pool.QuoteDecimals {
		return nil, fmt.Errorf("%w: reserve decimals %d/%d do not match pool decimals %d/%d",
			ErrQuoteComputation, reserves.BaseDecimals, reserves.QuoteDecimals, pool.BaseDecimals, pool.QuoteDecimals)
	}

	s := &swapSides{
		inMint:     pool.BaseMint,
		outMint:    pool.QuoteMint,
		reserveIn:  reserves.BaseReserve,
		reserveOut: reserves.QuoteReserve,
		decIn:      pool.BaseDecimals,
		decOut:     pool.QuoteDecimals,
	}
	if dir == QuoteIn {
		s.inMint, s.outMint = s.outMint, s.inMint
		s.reserveIn, s.reserveOut = s.reserveOut, s.reserveIn
		s.decIn, s.decOut = s.decOut, s.decIn
	}

	if s.reserveIn == nil || s.reserveOut == nil || s.reserveIn.Sign() <= 0 || s.reserveOut.Sign() <= 0 {
		return nil, fmt.Errorf("%w: pool %s has empty reserves", ErrInsufficientLiquidity, pool.ID)
	}
	return s, nil
}

// QuoteGivenInput считает выход для фиксированного входа по формуле
// постоянного произведения с комиссией пула:
//
//	out = reserveOut * (in - fee) / (reserveIn + in - fee)
func QuoteGivenInput(pool *PoolKeys, reserves *ReserveSnapshot, amountIn *big.Int, slippage float64, dir Direction) (*Quote, error) {
	bps, err := SlippageToBps(slippage)
	if err != nil {
		return nil, err
	}
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount in must be positive", ErrQuoteComputation)
	}
	s, err := resolveSides(pool, reserves, dir)
	if err != nil {
		return nil, err
	}

	feeNum, feeDen := pool.swapFee()
	fee := new(big.Int).Mul(amountIn, feeNum)
	fee.Quo(fee, feeDen)
	inWithFee := new(big.Int).Sub(amountIn, fee)

	denominator := new(big.Int).Add(s.reserveIn, inWithFee)
	amountOut := new(big.Int).Mul(s.reserveOut, inWithFee)
	amountOut.Quo(amountOut, denominator)
	if amountOut.Sign() == 0 {
		return nil, fmt.Errorf("%w: input %s is too small to receive any output", ErrInsufficientLiquidity, amountIn)
	}

	q := &Quote{
		Side:           FixedIn,
		Direction:      dir,
		InputMint:      s.inMint,
		OutputMint:     s.outMint,
		InputDecimals:  s.decIn,
		OutputDecimals: s.decOut,
		AmountIn:       new(big.Int).Set(amountIn),
		AmountOut:      amountOut,
		MinAmountOut:   CalculateMinimumReceived(amountOut, bps),
		Fee:            fee,
		SlippageBps:    bps,
		Source:         reserves.Source,
	}
	fillPrices(q, s, inWithFee)
	return q, nil
}

// QuoteGivenOutput считает вход, необходимый для фиксированного выхода:
//
//	inNoFee = ceil(reserveIn * out / (reserveOut - out))
//	in      = ceil(inNoFee * feeDen / (feeDen - feeNum))
func QuoteGivenOutput(pool *PoolKeys, reserves *ReserveSnapshot, amountOut *big.Int, slippage float64, dir Direction) (*Quote, error) {
	bps, err := SlippageToBps(slippage)
	if err != nil {
		return nil, err
	}
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount out must be positive", ErrQuoteComputation)
	}
	s, err := resolveSides(pool, reserves, dir)
	if err != nil {
		return nil, err
	}
	if amountOut.Cmp(s.reserveOut) >= 0 {
		return nil, fmt.Errorf("%w: requested %s but pool holds %s", ErrInsufficientLiquidity, amountOut, s.reserveOut)
	}

	inNoFee := new(big.Int).Mul(s.reserveIn, amountOut)
	inNoFee = ceilDiv(inNoFee, new(big.Int).Sub(s.reserveOut, amountOut))

	feeNum, feeDen := pool.swapFee()
	amountIn := new(big.Int).Mul(inNoFee, feeDen)
	amountIn = ceilDiv(amountIn, new(big.Int).Sub(feeDen, feeNum))

	q := &Quote{
		Side:           FixedOut,
		Direction:      dir,
		InputMint:      s.inMint,
		OutputMint:     s.outMint,
		InputDecimals:  s.decIn,
		OutputDecimals: s.decOut,
		AmountIn:       amountIn,
		AmountOut:      new(big.Int).Set(amountOut),
		MaxAmountIn:    CalculateMaximumSpent(amountIn, bps),
		Fee:            new(big.Int).Sub(amountIn, inNoFee),
		SlippageBps:    bps,
		Source:         reserves.Source,
	}
	fillPrices(q, s, inNoFee)
	return q, nil
}

// priceSignificantDigits: сколько значащих цифр сохраняется в ценах.
const priceSignificantDigits = 18

// fillPrices: цены в UI-единицах (выход за единицу входа), impact в долях.
// Считается через big.Rat, чтобы цены дешёвых токенов не округлялись в ноль.
func fillPrices(q *Quote, s *swapSides, effectiveIn *big.Int) {
	current := uiRatio(s.reserveOut, s.decOut, s.reserveIn, s.decIn)
	q.CurrentPrice = ratToDecimal(current)

	if effectiveIn.Sign() <= 0 {
		q.ExecutionPrice = decimal.Zero
		q.PriceImpact = decimal.NewFromInt(1)
		return
	}
	execution := uiRatio(q.AmountOut, s.decOut, effectiveIn, s.decIn)
	q.ExecutionPrice = ratToDecimal(execution)

	if current.Sign() == 0 {
		q.PriceImpact = decimal.Zero
		return
	}
	impact := new(big.Rat).Sub(execution, current)
	impact.Abs(impact)
	impact.Quo(impact, current)
	q.PriceImpact = ratToDecimal(impact)
}

// uiRatio возвращает (num/10^numDec) / (den/10^denDec); den > 0.
func uiRatio(num *big.Int, numDec uint8, den *big.Int, denDec uint8) *big.Rat {
	n := new(big.Int).Mul(num, pow10(denDec))
	d := new(big.Int).Mul(den, pow10(numDec))
	return new(big.Rat).SetFrac(n, d)
}

func pow10(exp uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

// ratToDecimal округляет r до priceSignificantDigits значащих цифр.
func ratToDecimal(r *big.Rat) decimal.Decimal {
	if r.Sign() == 0 {
		return decimal.Zero
	}
	num := new(big.Int).Abs(r.Num())
	// порядок величины с точностью до единицы
	magnitude := len(num.String()) - len(r.Denom().String())
	precision := priceSignificantDigits - magnitude
	if precision < 0 {
		precision = 0
	}
	return decimal.NewFromBigInt(r.Num(), 0).DivRound(decimal.NewFromBigInt(r.Denom(), 0), int32(precision))
}

// Bound возвращает границу, защищённую проскальзыванием, для стороны,
// которую вызывающий не фиксировал.
func (q *Quote) Bound() *big.Int {
	if q.Side == FixedOut {
		return q.MaxAmountIn
	}
	return q.MinAmountOut
}
