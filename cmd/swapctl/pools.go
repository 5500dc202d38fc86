// cmd/swapctl/pools.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
	"github.com/rovshanmuradov/raydium-swap/internal/ui"
)

func runPools(cmd *cobra.Command, args []string) error {
	mintA, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return fmt.Errorf("invalid mint %q: %w", args[0], err)
	}
	mintB, err := solana.PublicKeyFromBase58(args[1])
	if err != nil {
		return fmt.Errorf("invalid mint %q: %w", args[1], err)
	}
	pick, _ := cmd.Flags().GetBool("pick")
	withReserves, _ := cmd.Flags().GetBool("reserves")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pools, err := a.locator().Locate(ctx, mintA, mintB, a.commitment)
	if err != nil {
		return err
	}
	a.logger.Info("Pools located", zap.Int("count", len(pools)))

	rows := make([]ui.PoolRow, len(pools))
	for i, p := range pools {
		rows[i].Keys = p
	}
	if withReserves {
		fetchReserves(ctx, a, rows)
	}

	if pick {
		pool, err := ui.PickPool(rows)
		if err != nil {
			return err
		}
		return printJSON(cmd, pool)
	}

	for _, r := range rows {
		printf(cmd, "%s  base=%s quote=%s", r.Keys.ID, r.Keys.BaseMint, r.Keys.QuoteMint)
		if r.Reserves != nil {
			printf(cmd, "  reserves=%s/%s (%s)",
				raydium.TokenAmountToDecimal(r.Reserves.BaseReserve, r.Reserves.BaseDecimals),
				raydium.TokenAmountToDecimal(r.Reserves.QuoteReserve, r.Reserves.QuoteDecimals),
				r.Reserves.Source)
		}
		printf(cmd, "\n")
	}
	return nil
}

// fetchReserves дополняет строки резервами; ошибки только логируются.
func fetchReserves(ctx context.Context, a *app, rows []ui.PoolRow) {
	resolver := a.resolver()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range rows {
		g.Go(func() error {
			snapshot, err := resolver.Resolve(gctx, rows[i].Keys)
			if err != nil {
				a.logger.Warn("Reserves unavailable", zap.String("pool", rows[i].Keys.ID.String()), zap.Error(err))
				return nil
			}
			rows[i].Reserves = snapshot
			return nil
		})
	}
	_ = g.Wait()
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	printf(cmd, "%s\n", data)
	return nil
}
