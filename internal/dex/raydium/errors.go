// internal/dex/raydium/errors.go
package raydium

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Каждая стадия свапа заворачивает причину, не теряя её.
var (
	ErrDecode                = errors.New("decode error")
	ErrReserveUnavailable    = errors.New("reserve unavailable")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrQuoteComputation      = errors.New("quote computation error")
	ErrTransactionBuild      = errors.New("transaction build error")
	ErrSubmission            = errors.New("submission error")
	ErrConfirmation          = errors.New("confirmation error")

	ErrInvalidSlippage = fmt.Errorf("%w: slippage must be in [0, 1)", ErrQuoteComputation)
)

// DecodeError describes a buffer that does not fit a fixed account layout.
type DecodeError struct {
	Layout string
	Want   int
	Got    int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: expected %d bytes, got %d", e.Layout, e.Want, e.Got)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Stage определяет стадию свапа, на которой произошла ошибка.
type Stage string

const (
	StageCalculateAmounts Stage = "calculate-amounts"
	StageMakeTransaction  Stage = "make-transaction"
	StageBlockhash        Stage = "blockhash"
	StageSend             Stage = "send"
	StageConfirm          Stage = "confirm"
)

var stageKinds = map[Stage]error{
	StageCalculateAmounts: ErrQuoteComputation,
	StageMakeTransaction:  ErrTransactionBuild,
	StageBlockhash:        ErrTransactionBuild,
	StageSend:             ErrSubmission,
	StageConfirm:          ErrConfirmation,
}

// SwapError представляет ошибку при выполнении свапа
type SwapError struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *SwapError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("swap error at %s: %s: %v", e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("swap error at %s: %s", e.Stage, e.Message)
}

func (e *SwapError) Unwrap() error {
	return e.Err
}

// Is сопоставляет стадию с категорией из таксономии, например
// errors.Is(err, ErrSubmission) для ошибки на стадии отправки.
func (e *SwapError) Is(target error) bool {
	kind, ok := stageKinds[e.Stage]
	return ok && kind == target
}

func newSwapError(stage Stage, message string, err error) *SwapError {
	return &SwapError{Stage: stage, Message: message, Err: err}
}

// Raydium AMM returns custom program error 30 (0x1e) when the
// min-out / max-in bound is violated.
const slippageExceededCode = "Custom:30"

// SlippageExceededError представляет ошибку превышения проскальзывания
type SlippageExceededError struct {
	SlippageBps   uint16
	OriginalError error
}

func (e *SlippageExceededError) Error() string {
	return fmt.Sprintf("slippage exceeded: pool price moved beyond %d bps: %v", e.SlippageBps, e.OriginalError)
}

func (e *SlippageExceededError) Unwrap() error {
	return e.OriginalError
}

// IsSlippageExceededError определяет, является ли ошибка ошибкой превышения проскальзывания
func IsSlippageExceededError(err error) bool {
	if err == nil {
		return false
	}
	var target *SlippageExceededError
	if errors.As(err, &target) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, slippageExceededCode) || strings.Contains(msg, "custom program error: 0x1e")
}
