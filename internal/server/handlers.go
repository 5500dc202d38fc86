// internal/server/handlers.go
package server

import (
	"context"
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	WelcomeMessage        = "Welcome to the Solana SOL transfer API"
	TransferSuccessful    = "SOL transfer successful."
	MsgInvalidFields      = "Missing or invalid required fields."
	MsgPrivateKeyNotFound = "Private key is not defined in environment variables."
)

// Transferer переводит SOL; реализуется transfer.Service.
type Transferer interface {
	TransferSOL(ctx context.Context, amount decimal.Decimal, to solana.PublicKey) (solana.Signature, error)
}

// Handlers содержит HTTP-обработчики. transfer == nil означает, что
// приватный ключ сервиса не задан.
type Handlers struct {
	transfer Transferer
	logger   *zap.Logger
}

func NewHandlers(transfer Transferer, logger *zap.Logger) *Handlers {
	return &Handlers{transfer: transfer, logger: logger.Named("handlers")}
}

// TransferRequest: тело POST /transfer_sol.
type TransferRequest struct {
	ToPublicKey    string   `json:"toPublicKey"`
	TransferAmount *float64 `json:"transferAmount"`
}

// TransferResponse: успешный ответ POST /transfer_sol.
type TransferResponse struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
}

func (h *Handlers) Welcome(c echo.Context) error {
	return c.String(http.StatusOK, WelcomeMessage)
}

// TransferSOL обрабатывает POST /transfer_sol.
func (h *Handlers) TransferSOL(c echo.Context) error {
	var req TransferRequest
	if err := c.Bind(&req); err != nil || req.ToPublicKey == "" || req.TransferAmount == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: MsgInvalidFields})
	}

	if h.transfer == nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: MsgPrivateKeyNotFound})
	}

	to, err := solana.PublicKeyFromBase58(req.ToPublicKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "invalid public key input: " + err.Error()})
	}

	sig, err := h.transfer.TransferSOL(c.Request().Context(), decimal.NewFromFloat(*req.TransferAmount), to)
	if err != nil {
		h.logger.Error("SOL transfer failed",
			zap.String("to", req.ToPublicKey),
			zap.Float64("amount", *req.TransferAmount),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, TransferResponse{Message: TransferSuccessful, Signature: sig.String()})
}
