// cmd/swapctl/history.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/journal"
)

func runHistory(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt64("limit")
	follow, _ := cmd.Flags().GetBool("follow")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	j, err := a.openJournal(ctx)
	if err != nil {
		return err
	}

	if follow {
		// подписка раньше LRANGE: свапы между запросами не теряются
		pubsub := j.Subscribe(ctx)
		defer func() { _ = pubsub.Close() }()

		entries, err := j.Recent(ctx, limit)
		if err != nil {
			return err
		}
		if err := printHistory(cmd, entries); err != nil {
			return err
		}

		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-pubsub.Channel():
				if !ok {
					return nil
				}
				entry, err := journal.DecodeEntry(msg.Payload)
				if err != nil {
					a.logger.Warn("Skipping malformed swap event", zap.Error(err))
					continue
				}
				if err := printJSON(cmd, entry); err != nil {
					return err
				}
			}
		}
	}

	entries, err := j.Recent(ctx, limit)
	if err != nil {
		return err
	}
	return printHistory(cmd, entries)
}

// printHistory печатает записи от старых к новым.
func printHistory(cmd *cobra.Command, entries []journal.Entry) error {
	for i := len(entries) - 1; i >= 0; i-- {
		if err := printJSON(cmd, entries[i]); err != nil {
			return err
		}
	}
	return nil
}
