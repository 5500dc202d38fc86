// internal/blockchain/computebudget/computebudget.go
package computebudget

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var ProgramID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

const (
	SetComputeUnitLimit uint8 = 2
	SetComputeUnitPrice uint8 = 3
)

// Приоритетные комиссии по умолчанию, в микролампортах за compute unit.
const (
	DefaultSwapUnitPrice     uint64 = 10_000
	DefaultTransferUnitPrice uint64 = 25_000
)

type SetComputeUnitLimitInstruction struct {
	Units uint32
}

type SetComputeUnitPriceInstruction struct {
	MicroLamports uint64
}

// Config содержит конфигурацию бюджета для транзакции.
// Units == 0 означает, что лимит не выставляется и действует лимит рантайма.
type Config struct {
	Units     uint32
	UnitPrice uint64
}

// BuildInstructions создает инструкции для настройки бюджета.
func BuildInstructions(config Config) ([]solana.Instruction, error) {
	var instructions []solana.Instruction

	if config.Units > 0 {
		limit, err := (&SetComputeUnitLimitInstruction{Units: config.Units}).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit limit instruction: %w", err)
		}
		instructions = append(instructions, limit)
	}

	if config.UnitPrice > 0 {
		price, err := (&SetComputeUnitPriceInstruction{MicroLamports: config.UnitPrice}).Build()
		if err != nil {
			return nil, fmt.Errorf("failed to build compute unit price instruction: %w", err)
		}
		instructions = append(instructions, price)
	}

	return instructions, nil
}

// Build создает инструкцию для установки лимита compute units.
func (instr *SetComputeUnitLimitInstruction) Build() (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, SetComputeUnitLimit); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, instr.Units); err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{}, buf.Bytes()), nil
}

// Build создает инструкцию для установки цены compute units.
func (instr *SetComputeUnitPriceInstruction) Build() (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, SetComputeUnitPrice); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, instr.MicroLamports); err != nil {
		return nil, err
	}
	return solana.NewInstruction(ProgramID, solana.AccountMetaSlice{}, buf.Bytes()), nil
}
