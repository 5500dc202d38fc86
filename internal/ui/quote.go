// internal/ui/quote.go
package ui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
	"github.com/rovshanmuradov/raydium-swap/internal/ui/style"
)

// HighPriceImpact: порог, выше которого котировка подсвечивается предупреждением.
var HighPriceImpact = decimal.NewFromFloat(0.05)

// RenderQuote форматирует котировку для вывода в терминал.
func RenderQuote(q *raydium.Quote) string {
	s := style.NewQuoteStyles(style.DefaultPalette())

	line := func(label, value string) string {
		return s.Label.Render(label) + s.Value.Render(value)
	}
	amountIn := raydium.TokenAmountToDecimal(q.AmountIn, q.InputDecimals)
	amountOut := raydium.TokenAmountToDecimal(q.AmountOut, q.OutputDecimals)
	fee := raydium.TokenAmountToDecimal(q.Fee, q.InputDecimals)

	lines := []string{
		s.Title.Render(fmt.Sprintf("Quote %s (fixed %s)", q.Direction, q.Side)),
		line("Input mint", q.InputMint.String()),
		line("Output mint", q.OutputMint.String()),
		line("Amount in", amountIn.String()),
		line("Amount out", amountOut.String()),
	}
	if q.Side == raydium.FixedOut {
		maxIn := raydium.TokenAmountToDecimal(q.MaxAmountIn, q.InputDecimals)
		lines = append(lines, s.Label.Render("Max in")+s.Bound.Render(maxIn.String()))
	} else {
		minOut := raydium.TokenAmountToDecimal(q.MinAmountOut, q.OutputDecimals)
		lines = append(lines, s.Label.Render("Min out")+s.Bound.Render(minOut.String()))
	}
	lines = append(lines,
		line("Fee", fee.String()),
		line("Slippage", fmt.Sprintf("%d bps", q.SlippageBps)),
		line("Price", q.CurrentPrice.String()),
		line("Exec price", q.ExecutionPrice.String()),
		line("Price impact", q.PriceImpact.Mul(decimal.NewFromInt(100)).StringFixed(4)+"%"),
		s.Muted.Render("reserves: "+q.Source.String()),
	)
	if q.PriceImpact.GreaterThan(HighPriceImpact) {
		lines = append(lines, s.Warning.Render("high price impact"))
	}
	if q.Source == raydium.SourceApproximated {
		lines = append(lines, s.Warning.Render("reserves approximated from vault balances"))
	}

	return s.Container.Render(strings.Join(lines, "\n"))
}
