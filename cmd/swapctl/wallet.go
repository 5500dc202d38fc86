// cmd/swapctl/wallet.go
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

	"github.com/rovshanmuradov/raydium-swap/internal/transfer"
	"github.com/rovshanmuradov/raydium-swap/internal/wallet"
)

func runTransfer(cmd *cobra.Command, args []string) error {
	to, err := solana.PublicKeyFromBase58(args[0])
	if err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	all, _ := cmd.Flags().GetBool("all")
	if !all && len(args) < 2 {
		return fmt.Errorf("amount is required unless --all is set")
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	w, err := a.wallet()
	if err != nil {
		return err
	}
	svc := transfer.NewService(a.client, w, a.logger,
		transfer.WithUnitPrice(a.cfg.TransferPriorityFee),
		transfer.WithConfirmOptions(a.commitment, a.cfg.ConfirmInterval, a.cfg.ConfirmTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sig solana.Signature
	if all {
		sig, err = svc.TransferBalance(ctx, to)
	} else {
		amount, parseErr := decimal.NewFromString(args[1])
		if parseErr != nil {
			return fmt.Errorf("invalid amount %q: %w", args[1], parseErr)
		}
		sig, err = svc.TransferSOL(ctx, amount, to)
	}
	if !sig.IsZero() {
		printf(cmd, "signature: %s\n", sig)
	}
	return err
}

func runBalance(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	var owner solana.PublicKey
	if len(args) == 1 {
		if owner, err = solana.PublicKeyFromBase58(args[0]); err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
	} else {
		w, err := a.wallet()
		if err != nil {
			return err
		}
		owner = w.PublicKey
	}

	lamports, err := a.client.GetBalance(cmd.Context(), owner, a.commitment)
	if err != nil {
		return err
	}
	sol := decimal.NewFromInt(int64(lamports)).Shift(-9)
	printf(cmd, "%s: %s SOL\n", owner, sol)
	return nil
}

func runKeygen(cmd *cobra.Command, _ []string) error {
	count, _ := cmd.Flags().GetInt("count")
	wallets, err := wallet.Generate(count)
	if err != nil {
		return err
	}
	for _, w := range wallets {
		printf(cmd, "public: %s\nsecret: %s\n\n", w.PublicKey, w.EncodedPrivateKey())
	}
	return nil
}
