// internal/dex/raydium/utils.go
package raydium

import (
	"fmt"
	"math"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// TokenAmountToDecimal конвертирует сырую сумму в decimal с учетом decimals.
func TokenAmountToDecimal(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// DecimalToTokenAmount конвертирует UI-сумму в минимальные единицы токена.
// Дробная часть ниже точности токена отбрасывается.
func DecimalToTokenAmount(amount decimal.Decimal, decimals uint8) *big.Int {
	return amount.Shift(int32(decimals)).Truncate(0).BigInt()
}

// SlippageToBps переводит долю проскальзывания в базисные пункты (0.005 -> 50).
func SlippageToBps(slippage float64) (uint16, error) {
	if math.IsNaN(slippage) || math.IsInf(slippage, 0) || slippage < 0 || slippage >= 1 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidSlippage, slippage)
	}
	bps := decimal.NewFromFloat(slippage).Mul(decimal.NewFromInt(BasisPointsDenominator)).Round(0)
	if bps.GreaterThanOrEqual(decimal.NewFromInt(BasisPointsDenominator)) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidSlippage, slippage)
	}
	return uint16(bps.IntPart()), nil
}

// CalculateMinimumReceived: floor(amount * (10000 - bps) / 10000).
func CalculateMinimumReceived(amount *big.Int, slippageBps uint16) *big.Int {
	num := new(big.Int).Mul(amount, big.NewInt(int64(BasisPointsDenominator-int(slippageBps))))
	return num.Quo(num, big.NewInt(BasisPointsDenominator))
}

// CalculateMaximumSpent: ceil(amount * (10000 + bps) / 10000).
func CalculateMaximumSpent(amount *big.Int, slippageBps uint16) *big.Int {
	num := new(big.Int).Mul(amount, big.NewInt(int64(BasisPointsDenominator+int(slippageBps))))
	return ceilDiv(num, big.NewInt(BasisPointsDenominator))
}

func ceilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).QuoRem(a, b, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

// DeriveMarketAuthority ищет vault signer рынка: nonce перебирается от 0 до 99,
// сиды [marketID, nonce, 7 нулевых байт].
func DeriveMarketAuthority(marketProgramID, marketID solana.PublicKey) (solana.PublicKey, uint8, error) {
	padding := make([]byte, 7)
	for nonce := 0; nonce < maxMarketAuthorityNonce; nonce++ {
		seeds := [][]byte{marketID[:], {byte(nonce)}, padding}
		addr, err := solana.CreateProgramAddress(seeds, marketProgramID)
		if err == nil {
			return addr, uint8(nonce), nil
		}
	}
	return solana.PublicKey{}, 0, fmt.Errorf("unable to find a viable program address nonce for market %s", marketID)
}

// FindAssociatedTokenAddress возвращает ATA владельца для mint.
func FindAssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive ATA for %s: %w", mint, err)
	}
	return ata, nil
}
