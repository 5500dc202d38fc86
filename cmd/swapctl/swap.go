// cmd/swapctl/swap.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
	"github.com/rovshanmuradov/raydium-swap/internal/ui"
)

// swapParams разбирает общие флаги quote/swap и загружает ключи пула.
func swapParams(ctx context.Context, cmd *cobra.Command, a *app) (raydium.SwapParams, error) {
	poolArg, _ := cmd.Flags().GetString("pool")
	mintArg, _ := cmd.Flags().GetString("mint")
	amountArg, _ := cmd.Flags().GetString("amount")
	sideArg, _ := cmd.Flags().GetString("side")

	poolID, err := solana.PublicKeyFromBase58(poolArg)
	if err != nil {
		return raydium.SwapParams{}, fmt.Errorf("invalid pool address: %w", err)
	}
	mint, err := solana.PublicKeyFromBase58(mintArg)
	if err != nil {
		return raydium.SwapParams{}, fmt.Errorf("invalid mint: %w", err)
	}
	amount, err := decimal.NewFromString(amountArg)
	if err != nil || !amount.IsPositive() {
		return raydium.SwapParams{}, fmt.Errorf("invalid amount %q", amountArg)
	}
	side := raydium.FixedSide(sideArg)
	if side != raydium.FixedIn && side != raydium.FixedOut {
		return raydium.SwapParams{}, fmt.Errorf("invalid side %q: use in or out", sideArg)
	}

	pool, err := a.locator().FetchPoolKeys(ctx, poolID, a.commitment)
	if err != nil {
		return raydium.SwapParams{}, err
	}
	if !mint.Equals(pool.BaseMint) && !mint.Equals(pool.QuoteMint) {
		return raydium.SwapParams{}, fmt.Errorf("mint %s is not traded in pool %s", mint, poolID)
	}

	return raydium.SwapParams{
		Pool:          pool,
		Amount:        amount,
		TokenMint:     mint,
		Slippage:      a.cfg.Slippage,
		MaxFee:        a.cfg.PriorityFee,
		FixedSide:     side,
		ShouldConfirm: true,
	}, nil
}

func runQuote(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params, err := swapParams(ctx, cmd, a)
	if err != nil {
		return err
	}
	q, err := raydium.NewExecutor(a.client, a.resolver(), a.logger).Quote(ctx, params)
	if err != nil {
		return err
	}
	printf(cmd, "%s\n", ui.RenderQuote(q))
	return nil
}

func runSwap(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	owner, err := a.wallet()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params, err := swapParams(ctx, cmd, a)
	if err != nil {
		return err
	}
	params.Owner = owner
	if fee, _ := cmd.Flags().GetUint64("priority-fee"); fee > 0 {
		params.MaxFee = fee
	}
	if noConfirm, _ := cmd.Flags().GetBool("no-confirm"); noConfirm {
		params.ShouldConfirm = false
	}

	executor := a.executor(ctx)
	q, err := executor.Quote(ctx, params)
	if err != nil {
		return err
	}
	printf(cmd, "%s\n", ui.RenderQuote(q))

	sig, err := executor.Execute(ctx, params)
	if err != nil {
		if !sig.IsZero() {
			printf(cmd, "signature: %s\n", sig)
		}
		if raydium.IsSlippageExceededError(err) {
			return fmt.Errorf("price moved beyond slippage tolerance: %w", err)
		}
		return err
	}
	printf(cmd, "signature: %s\n", sig)
	return nil
}
