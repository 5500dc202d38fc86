// internal/blockchain/confirm.go
package blockchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	// ErrTransactionFailed возвращается, когда транзакция попала в блок с ошибкой.
	ErrTransactionFailed = errors.New("transaction failed on chain")
	// ErrBlockHeightExceeded: blockhash транзакции истёк раньше подтверждения.
	ErrBlockHeightExceeded = errors.New("block height exceeded")

	errNotConfirmed = errors.New("transaction not yet confirmed")
)

// ConfirmOptions параметры ожидания подтверждения.
type ConfirmOptions struct {
	Commitment           rpc.CommitmentType
	LastValidBlockHeight uint64
	Interval             time.Duration
	Timeout              time.Duration
}

const defaultConfirmInterval = 2 * time.Second

// AwaitConfirmation опрашивает статус подписи, пока транзакция не достигнет
// нужного commitment или пока высота блока не превысит LastValidBlockHeight.
func AwaitConfirmation(ctx context.Context, client Client, sig solana.Signature, opts ConfirmOptions) error {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultConfirmInterval
	}
	commitment := opts.Commitment
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}

	operation := func() (struct{}, error) {
		res, err := client.GetSignatureStatuses(ctx, sig)
		if err != nil {
			return struct{}{}, err
		}
		if res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				return struct{}{}, backoff.Permanent(fmt.Errorf("%w: %v", ErrTransactionFailed, status.Err))
			}
			if commitmentReached(status.ConfirmationStatus, commitment) {
				return struct{}{}, nil
			}
		}

		if opts.LastValidBlockHeight > 0 {
			height, err := client.GetBlockHeight(ctx, commitment)
			if err == nil && height > opts.LastValidBlockHeight {
				return struct{}{}, backoff.Permanent(fmt.Errorf("%w: height %d > %d",
					ErrBlockHeightExceeded, height, opts.LastValidBlockHeight))
			}
		}
		return struct{}{}, errNotConfirmed
	}

	retryOpts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(interval)),
	}
	if opts.Timeout > 0 {
		retryOpts = append(retryOpts, backoff.WithMaxElapsedTime(opts.Timeout))
	}

	_, err := backoff.Retry(ctx, operation, retryOpts...)
	return err
}

func commitmentReached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	switch want {
	case rpc.CommitmentFinalized:
		return status == rpc.ConfirmationStatusFinalized
	case rpc.CommitmentProcessed:
		return status != ""
	default:
		return status == rpc.ConfirmationStatusConfirmed || status == rpc.ConfirmationStatusFinalized
	}
}
