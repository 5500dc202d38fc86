// cmd/swapctl/app.go
package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain/solbc"
	"github.com/rovshanmuradov/raydium-swap/internal/config"
	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
	"github.com/rovshanmuradov/raydium-swap/internal/journal"
	"github.com/rovshanmuradov/raydium-swap/internal/logger"
	"github.com/rovshanmuradov/raydium-swap/internal/wallet"
)

// app: зависимости одной команды CLI.
type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	client     *solbc.Client
	commitment rpc.CommitmentType
	redis      *redis.Client
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Development: cfg.Debug, LogFile: cfg.LogFile})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logger:     log,
		client:     solbc.NewClient(cfg.RPCURL, log),
		commitment: rpc.CommitmentType(cfg.Commitment),
	}, nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = logger.Sync(a.logger)
}

func (a *app) wallet() (*wallet.Wallet, error) {
	return wallet.NewWallet(a.cfg.PrivateKey)
}

func (a *app) locator() *raydium.Locator {
	return raydium.NewLocator(a.client, a.logger)
}

func (a *app) resolver() *raydium.ReserveResolver {
	return raydium.NewReserveResolver(a.client, nil, a.logger)
}

// openJournal подключается к Redis из redis_addr и проверяет соединение.
func (a *app) openJournal(ctx context.Context) (*journal.Journal, error) {
	if a.cfg.RedisAddr == "" {
		return nil, errors.New("redis_addr is not configured")
	}
	if a.redis == nil {
		client := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis %s unavailable: %w", a.cfg.RedisAddr, err)
		}
		a.redis = client
	}
	return journal.New(a.redis, a.logger), nil
}

// executor подключает журнал свапов, если задан redis_addr и Redis доступен.
func (a *app) executor(ctx context.Context) *raydium.Executor {
	opts := []raydium.ExecutorOption{
		raydium.WithConfirmOptions(a.commitment, a.cfg.ConfirmInterval, a.cfg.ConfirmTimeout),
	}
	if a.cfg.RedisAddr != "" {
		j, err := a.openJournal(ctx)
		if err != nil {
			a.logger.Warn("Swap journal disabled", zap.Error(err))
		} else {
			opts = append(opts, raydium.WithRecorder(j))
		}
	}
	return raydium.NewExecutor(a.client, a.resolver(), a.logger, opts...)
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
