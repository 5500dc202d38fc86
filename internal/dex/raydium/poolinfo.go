// internal/dex/raydium/poolinfo.go
package raydium

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/gagliardetto/solana-go"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/raydium-swap/internal/blockchain"
)

var jsonAPI = jsoniter.Config{UseNumber: true}.Froze()

// PoolInfoFetcher: основной источник резервов пула.
type PoolInfoFetcher interface {
	FetchPoolInfo(ctx context.Context, pool *PoolKeys) (*ReserveSnapshot, error)
}

// SimulatedPoolInfo получает агрегированное состояние пула, симулируя
// инструкцию simulate-pool-info программы AMM и разбирая лог "GetPoolData".
type SimulatedPoolInfo struct {
	client blockchain.Client
	payer  solana.PublicKey
	logger *zap.Logger
}

func NewSimulatedPoolInfo(client blockchain.Client, logger *zap.Logger) *SimulatedPoolInfo {
	return &SimulatedPoolInfo{
		client: client,
		payer:  SimulationFeePayer,
		logger: logger.Named("pool-info"),
	}
}

// WithPayer задаёт fee payer симуляции (по умолчанию служебный адрес Raydium).
func (s *SimulatedPoolInfo) WithPayer(payer solana.PublicKey) *SimulatedPoolInfo {
	s.payer = payer
	return s
}

// BuildSimulatePoolInfoInstruction собирает read-only инструкцию simulate-pool-info.
func BuildSimulatePoolInfoInstruction(pool *PoolKeys) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		solana.Meta(pool.ID),
		solana.Meta(pool.Authority),
		solana.Meta(pool.OpenOrders),
		solana.Meta(pool.BaseVault),
		solana.Meta(pool.QuoteVault),
		solana.Meta(pool.LpMint),
		solana.Meta(pool.MarketID),
		solana.Meta(pool.MarketEventQueue),
	}
	data := []byte{InstructionSimulateInfo, SimulatePoolInfoParamType}
	return solana.NewInstruction(pool.ProgramID, accounts, data)
}

func (s *SimulatedPoolInfo) FetchPoolInfo(ctx context.Context, pool *PoolKeys) (*ReserveSnapshot, error) {
	tx, err := solana.NewTransaction(
		[]solana.Instruction{BuildSimulatePoolInfoInstruction(pool)},
		solana.Hash{},
		solana.TransactionPayer(s.payer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build simulate transaction: %w", err)
	}
	// Подписи не проверяются, но их количество должно совпадать с заголовком.
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)

	result, err := s.client.SimulateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("simulate pool info: %w", err)
	}
	if result.Err != nil {
		return nil, fmt.Errorf("simulate pool info failed: %v", result.Err)
	}

	for _, line := range result.Logs {
		idx := strings.Index(line, poolDataLogPrefix)
		if idx < 0 {
			continue
		}
		snapshot, err := ParsePoolDataLog(line[idx+len(poolDataLogPrefix):])
		if err != nil {
			return nil, err
		}
		s.logger.Debug("Pool info fetched",
			zap.String("pool", pool.ID.String()),
			zap.String("base_reserve", snapshot.BaseReserve.String()),
			zap.String("quote_reserve", snapshot.QuoteReserve.String()))
		return snapshot, nil
	}
	return nil, errors.New("GetPoolData log not found in simulation output")
}

// poolDataLog: coin = base, pc = quote.
type poolDataLog struct {
	Status         json.Number `json:"status"`
	CoinDecimals   json.Number `json:"coin_decimals"`
	PcDecimals     json.Number `json:"pc_decimals"`
	LpDecimals     json.Number `json:"lp_decimals"`
	PoolPcAmount   json.Number `json:"pool_pc_amount"`
	PoolCoinAmount json.Number `json:"pool_coin_amount"`
	PoolLpSupply   json.Number `json:"pool_lp_supply"`
	PoolOpenTime   json.Number `json:"pool_open_time"`
}

// ParsePoolDataLog разбирает JSON из лога "GetPoolData: {...}" в снапшот SourceLive.
func ParsePoolDataLog(raw string) (*ReserveSnapshot, error) {
	var data poolDataLog
	if err := jsonAPI.UnmarshalFromString(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse pool data log: %w", err)
	}

	var parseErr error
	num := func(field string, n json.Number) *big.Int {
		v, ok := new(big.Int).SetString(n.String(), 10)
		if !ok && parseErr == nil {
			parseErr = fmt.Errorf("pool data field %s: invalid integer %q", field, n)
		}
		return v
	}
	dec := func(field string, n json.Number) uint8 {
		v := num(field, n)
		if v == nil || !v.IsUint64() || v.Uint64() > 255 {
			if parseErr == nil {
				parseErr = fmt.Errorf("pool data field %s: decimals out of range %q", field, n)
			}
			return 0
		}
		return uint8(v.Uint64())
	}

	snapshot := &ReserveSnapshot{
		Source:        SourceLive,
		BaseDecimals:  dec("coin_decimals", data.CoinDecimals),
		QuoteDecimals: dec("pc_decimals", data.PcDecimals),
		LpDecimals:    dec("lp_decimals", data.LpDecimals),
		BaseReserve:   num("pool_coin_amount", data.PoolCoinAmount),
		QuoteReserve:  num("pool_pc_amount", data.PoolPcAmount),
		LpSupply:      num("pool_lp_supply", data.PoolLpSupply),
	}
	// status и pool_open_time необязательны.
	if data.Status != "" {
		snapshot.Status = num("status", data.Status)
	}
	if data.PoolOpenTime != "" {
		if openTime := num("pool_open_time", data.PoolOpenTime); openTime != nil && openTime.IsUint64() {
			snapshot.StartTime = openTime.Uint64()
		}
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return snapshot, nil
}
