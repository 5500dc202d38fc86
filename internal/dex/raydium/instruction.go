// internal/dex/raydium/instruction.go
package raydium

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// SwapInstructionAccounts содержит пользовательские аккаунты свапа;
// аккаунты пула и рынка берутся из PoolKeys.
type SwapInstructionAccounts struct {
	UserAuthority   solana.PublicKey
	UserSourceToken solana.PublicKey
	UserDestToken   solana.PublicKey
}

// SwapInstructionData: данные swapBaseIn (9) или swapBaseOut (11).
//
// swapBaseIn:  AmountA = amountIn,    AmountB = minAmountOut
// swapBaseOut: AmountA = maxAmountIn, AmountB = amountOut
type SwapInstructionData struct {
	Instruction uint8
	AmountA     uint64
	AmountB     uint64
}

// NewSwapInstructionData выбирает вариант инструкции по фиксированной стороне котировки.
func NewSwapInstructionData(q *Quote) (SwapInstructionData, error) {
	var a, b *big.Int
	data := SwapInstructionData{}
	switch q.Side {
	case FixedIn:
		data.Instruction = InstructionSwapBaseIn
		a, b = q.AmountIn, q.MinAmountOut
	case FixedOut:
		data.Instruction = InstructionSwapBaseOut
		a, b = q.MaxAmountIn, q.AmountOut
	default:
		return data, fmt.Errorf("unknown fixed side %q", q.Side)
	}
	if a == nil || b == nil || !a.IsUint64() || !b.IsUint64() {
		return data, fmt.Errorf("swap amounts %v/%v do not fit into u64", a, b)
	}
	data.AmountA = a.Uint64()
	data.AmountB = b.Uint64()
	return data, nil
}

// Encode сериализует данные инструкции: u8 + u64 LE + u64 LE.
func (d SwapInstructionData) Encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(d.Instruction); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(d.AmountA, binary.LittleEndian); err != nil {
		return nil, err
	}
	if err := enc.WriteUint64(d.AmountB, binary.LittleEndian); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildSwapInstruction создаёт инструкцию свапа AMM V4 с 18 аккаунтами.
func BuildSwapInstruction(pool *PoolKeys, accounts SwapInstructionAccounts, data SwapInstructionData) (solana.Instruction, error) {
	encoded, err := data.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize instruction data: %w", err)
	}
	return solana.NewInstruction(pool.ProgramID, buildAccountMetas(pool, accounts), encoded), nil
}

func buildAccountMetas(pool *PoolKeys, accounts SwapInstructionAccounts) solana.AccountMetaSlice {
	return solana.AccountMetaSlice{
		// system
		solana.Meta(TokenProgramID),
		// amm
		solana.Meta(pool.ID).WRITE(),
		solana.Meta(pool.Authority),
		solana.Meta(pool.OpenOrders).WRITE(),
		solana.Meta(pool.TargetOrders).WRITE(),
		solana.Meta(pool.BaseVault).WRITE(),
		solana.Meta(pool.QuoteVault).WRITE(),
		// market
		solana.Meta(pool.MarketProgramID),
		solana.Meta(pool.MarketID).WRITE(),
		solana.Meta(pool.MarketBids).WRITE(),
		solana.Meta(pool.MarketAsks).WRITE(),
		solana.Meta(pool.MarketEventQueue).WRITE(),
		solana.Meta(pool.MarketBaseVault).WRITE(),
		solana.Meta(pool.MarketQuoteVault).WRITE(),
		solana.Meta(pool.MarketAuthority),
		// user
		solana.Meta(accounts.UserSourceToken).WRITE(),
		solana.Meta(accounts.UserDestToken).WRITE(),
		solana.Meta(accounts.UserAuthority).SIGNER(),
	}
}
