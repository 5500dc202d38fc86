// cmd/swapctl/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "swapctl",
		Short:        "Raydium AMM V4 swap client",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path (yaml/json)")
	root.PersistentFlags().String("rpc-url", "", "Solana RPC URL")
	root.PersistentFlags().String("commitment", "", "commitment level (processed, confirmed, finalized)")
	root.PersistentFlags().Bool("debug", false, "enable debug logging")
	root.PersistentFlags().String("log-file", "", "additional JSON log file")

	poolsCmd := &cobra.Command{
		Use:   "pools <mintA> <mintB>",
		Short: "Find AMM V4 pools for a token pair",
		Args:  cobra.ExactArgs(2),
		RunE:  runPools,
	}
	poolsCmd.Flags().Bool("pick", false, "choose a pool interactively and print its keys")
	poolsCmd.Flags().Bool("reserves", true, "fetch reserves for every pool")
	root.AddCommand(poolsCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Quote a swap without sending it",
		RunE:  runQuote,
	}
	addSwapFlags(quoteCmd)
	root.AddCommand(quoteCmd)

	swapCmd := &cobra.Command{
		Use:   "swap",
		Short: "Execute a swap",
		RunE:  runSwap,
	}
	addSwapFlags(swapCmd)
	swapCmd.Flags().Uint64("priority-fee", 0, "compute unit price in micro-lamports (default from config)")
	swapCmd.Flags().Bool("no-confirm", false, "return right after submission")
	root.AddCommand(swapCmd)

	transferCmd := &cobra.Command{
		Use:   "transfer <to> [amount]",
		Short: "Transfer SOL from the configured wallet",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  runTransfer,
	}
	transferCmd.Flags().Bool("all", false, "transfer the whole balance minus the fee reserve")
	root.AddCommand(transferCmd)

	balanceCmd := &cobra.Command{
		Use:   "balance [address]",
		Short: "Show SOL balance (configured wallet by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBalance,
	}
	root.AddCommand(balanceCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent swaps from the Redis journal",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	historyCmd.Flags().Int64("limit", 20, "number of entries")
	historyCmd.Flags().Bool("follow", false, "keep streaming new swaps")
	root.AddCommand(historyCmd)

	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate new keypairs",
		Args:  cobra.NoArgs,
		RunE:  runKeygen,
	}
	keygenCmd.Flags().Int("count", 1, "number of keypairs")
	root.AddCommand(keygenCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSwapFlags(cmd *cobra.Command) {
	cmd.Flags().String("pool", "", "AMM V4 pool address")
	cmd.Flags().String("mint", "", "mint of the token being sold")
	cmd.Flags().String("amount", "", "amount in UI units of the fixed side")
	cmd.Flags().String("side", "in", "fixed side: in (exact input) or out (exact output)")
	cmd.Flags().Float64("slippage", 0, "slippage fraction, e.g. 0.01 (default from config)")
	_ = cmd.MarkFlagRequired("pool")
	_ = cmd.MarkFlagRequired("mint")
	_ = cmd.MarkFlagRequired("amount")
}
