// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain/solbc"
	"github.com/rovshanmuradov/raydium-swap/internal/config"
	"github.com/rovshanmuradov/raydium-swap/internal/logger"
	"github.com/rovshanmuradov/raydium-swap/internal/server"
	"github.com/rovshanmuradov/raydium-swap/internal/transfer"
	"github.com/rovshanmuradov/raydium-swap/internal/wallet"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(os.Getenv(config.EnvPrefix+"_CONFIG"), nil)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(logger.Config{Development: cfg.Debug, LogFile: cfg.LogFile})
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	client := solbc.NewClient(cfg.RPCURL, log)

	// Без PRIVATE_KEY сервер всё равно стартует, а /transfer_sol отвечает ошибкой.
	var transferer server.Transferer
	w, err := wallet.NewWallet(cfg.PrivateKey)
	switch {
	case err == nil:
		transferer = transfer.NewService(client, w, log,
			transfer.WithUnitPrice(cfg.TransferPriorityFee),
			transfer.WithConfirmOptions(rpc.CommitmentType(cfg.Commitment), cfg.ConfirmInterval, cfg.ConfirmTimeout))
		log.Info("Transfer wallet loaded", zap.String("wallet", w.String()))
	case errors.Is(err, wallet.ErrMissingPrivateKey):
		log.Warn("PRIVATE_KEY is not set, transfers are disabled")
	default:
		return fmt.Errorf("invalid PRIVATE_KEY: %w", err)
	}

	srv := server.NewServer(server.ServerDeps{
		Handlers: server.NewHandlers(transferer, log),
		Config: server.ServerConfig{
			Addr:       fmt.Sprintf(":%d", cfg.Port),
			CORSOrigin: cfg.CORSOrigin,
			RateLimit:  cfg.RateLimit,
		},
		Logger: log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server is running", zap.Int("port", cfg.Port))
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	return srv.Shutdown(context.Background())
}
