// internal/journal/journal.go
package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
)

const (
	DefaultHistoryKey = "raydium:swaps:recent"
	DefaultChannel    = "raydium:swaps"
	DefaultHistoryLen = 500
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Entry: запись журнала о свапе.
type Entry struct {
	Signature  string    `json:"signature"`
	Pool       string    `json:"pool"`
	Owner      string    `json:"owner"`
	InputMint  string    `json:"inputMint"`
	OutputMint string    `json:"outputMint"`
	AmountIn   string    `json:"amountIn"`
	AmountOut  string    `json:"amountOut"`
	Side       string    `json:"side"`
	Reserves   string    `json:"reserves"`
	Confirmed  bool      `json:"confirmed"`
	Timestamp  time.Time `json:"timestamp"`
}

func entryFromEvent(e raydium.SwapEvent) Entry {
	return Entry{
		Signature:  e.Signature.String(),
		Pool:       e.Pool.String(),
		Owner:      e.Owner.String(),
		InputMint:  e.InputMint.String(),
		OutputMint: e.OutputMint.String(),
		AmountIn:   e.AmountIn.String(),
		AmountOut:  e.AmountOut.String(),
		Side:       string(e.Side),
		Reserves:   e.Source.String(),
		Confirmed:  e.Confirmed,
		Timestamp:  e.Timestamp,
	}
}

// Journal хранит историю свапов в Redis-списке и публикует каждое событие в канал.
type Journal struct {
	client     redis.UniversalClient
	logger     *zap.Logger
	historyKey string
	channel    string
	historyLen int64
}

func New(client redis.UniversalClient, logger *zap.Logger) *Journal {
	return &Journal{
		client:     client,
		logger:     logger.Named("journal"),
		historyKey: DefaultHistoryKey,
		channel:    DefaultChannel,
		historyLen: DefaultHistoryLen,
	}
}

// WithKeys переопределяет ключ истории и канал (используется в тестах).
func (j *Journal) WithKeys(historyKey, channel string) *Journal {
	j.historyKey = historyKey
	j.channel = channel
	return j
}

// RecordSwap реализует raydium.SwapRecorder.
func (j *Journal) RecordSwap(ctx context.Context, event raydium.SwapEvent) error {
	data, err := jsonAPI.Marshal(entryFromEvent(event))
	if err != nil {
		return fmt.Errorf("failed to marshal swap entry: %w", err)
	}

	pipe := j.client.TxPipeline()
	pipe.LPush(ctx, j.historyKey, data)
	pipe.LTrim(ctx, j.historyKey, 0, j.historyLen-1)
	pipe.Publish(ctx, j.channel, data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record swap %s: %w", event.Signature, err)
	}

	j.logger.Debug("Swap recorded", zap.String("signature", event.Signature.String()))
	return nil
}

// Recent возвращает до limit последних записей, новые первыми.
func (j *Journal) Recent(ctx context.Context, limit int64) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := j.client.LRange(ctx, j.historyKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read swap history: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		entry, err := DecodeEntry(item)
		if err != nil {
			j.logger.Warn("Skipping malformed journal entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// DecodeEntry разбирает запись из списка истории или сообщения канала.
func DecodeEntry(payload string) (Entry, error) {
	var entry Entry
	if err := jsonAPI.UnmarshalFromString(payload, &entry); err != nil {
		return Entry{}, fmt.Errorf("failed to decode swap entry: %w", err)
	}
	if entry.Signature == "" {
		return Entry{}, errors.New("swap entry has no signature")
	}
	return entry, nil
}

// Subscribe возвращает подписку на канал событий свапа.
func (j *Journal) Subscribe(ctx context.Context) *redis.PubSub {
	return j.client.Subscribe(ctx, j.channel)
}

var _ raydium.SwapRecorder = (*Journal)(nil)
