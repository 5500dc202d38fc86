package raydium

import (
	"context"
	"encoding/binary"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func newKey() solana.PublicKey {
	return solana.NewWallet().PublicKey()
}

type ammFixture struct {
	BaseDecimals, QuoteDecimals uint64
	SwapFeeNum, SwapFeeDen      uint64
	BaseVault, QuoteVault       solana.PublicKey
	BaseMint, QuoteMint         solana.PublicKey
	LpMint, OpenOrders          solana.PublicKey
	MarketID, MarketProgramID   solana.PublicKey
	TargetOrders                solana.PublicKey
	LpReserve                   uint64
}

func newAmmFixture(base, quote solana.PublicKey) ammFixture {
	return ammFixture{
		BaseDecimals:    6,
		QuoteDecimals:   9,
		SwapFeeNum:      25,
		SwapFeeDen:      10000,
		BaseVault:       newKey(),
		QuoteVault:      newKey(),
		BaseMint:        base,
		QuoteMint:       quote,
		LpMint:          newKey(),
		OpenOrders:      newKey(),
		MarketID:        newKey(),
		MarketProgramID: OpenBookProgramID,
		TargetOrders:    newKey(),
		LpReserve:       42,
	}
}

func (f ammFixture) bytes() []byte {
	data := make([]byte, AmmInfoSize)
	putU64 := func(off int, v uint64) { binary.LittleEndian.PutUint64(data[off:], v) }
	putKey := func(off int, k solana.PublicKey) { copy(data[off:off+32], k[:]) }

	putU64(0, 6) // status
	putU64(32, f.BaseDecimals)
	putU64(40, f.QuoteDecimals)
	putU64(176, f.SwapFeeNum)
	putU64(184, f.SwapFeeDen)
	putU64(224, 1_700_000_000) // pool open time
	putKey(336, f.BaseVault)
	putKey(368, f.QuoteVault)
	putKey(400, f.BaseMint)
	putKey(432, f.QuoteMint)
	putKey(464, f.LpMint)
	putKey(496, f.OpenOrders)
	putKey(528, f.MarketID)
	putKey(560, f.MarketProgramID)
	putKey(592, f.TargetOrders)
	putU64(720, f.LpReserve)
	return data
}

type marketFixture struct {
	BaseVault, QuoteVault solana.PublicKey
	EventQueue            solana.PublicKey
	Bids, Asks            solana.PublicKey
}

func newMarketFixture() marketFixture {
	return marketFixture{
		BaseVault:  newKey(),
		QuoteVault: newKey(),
		EventQueue: newKey(),
		Bids:       newKey(),
		Asks:       newKey(),
	}
}

func (f marketFixture) bytes() []byte {
	data := make([]byte, MarketStateSize)
	copy(data[0:5], "serum")
	putKey := func(off int, k solana.PublicKey) { copy(data[off:off+32], k[:]) }
	binary.LittleEndian.PutUint64(data[5:], 3) // account flags
	putKey(117, f.BaseVault)
	putKey(165, f.QuoteVault)
	putKey(253, f.EventQueue)
	putKey(285, f.Bids)
	putKey(317, f.Asks)
	binary.LittleEndian.PutUint64(data[365:], 22) // fee rate bps
	return data
}

// tokenAccountData собирает 165-байтовый SPL token account.
func tokenAccountData(mint, owner solana.PublicKey, amount uint64) []byte {
	data := make([]byte, TokenAccountSize)
	copy(data[0:32], mint[:])
	copy(data[32:64], owner[:])
	binary.LittleEndian.PutUint64(data[64:72], amount)
	data[108] = 1 // state: initialized
	return data
}

func testPool() *PoolKeys {
	return &PoolKeys{
		ID:               newKey(),
		BaseMint:         newKey(),
		QuoteMint:        newKey(),
		LpMint:           newKey(),
		BaseDecimals:     6,
		QuoteDecimals:    9,
		LpDecimals:       6,
		Version:          AmmLayoutVersion,
		ProgramID:        AmmV4ProgramID,
		Authority:        AmmV4Authority,
		OpenOrders:       newKey(),
		TargetOrders:     newKey(),
		BaseVault:        newKey(),
		QuoteVault:       newKey(),
		MarketVersion:    MarketLayoutVersion,
		MarketProgramID:  OpenBookProgramID,
		MarketID:         newKey(),
		MarketAuthority:  newKey(),
		MarketBaseVault:  newKey(),
		MarketQuoteVault: newKey(),
		MarketBids:       newKey(),
		MarketAsks:       newKey(),
		MarketEventQueue: newKey(),

		SwapFeeNumerator:   25,
		SwapFeeDenominator: 10000,
	}
}

func liveSnapshot(pool *PoolKeys, base, quote int64) *ReserveSnapshot {
	return &ReserveSnapshot{
		Source:        SourceLive,
		Status:        big.NewInt(6),
		BaseDecimals:  pool.BaseDecimals,
		QuoteDecimals: pool.QuoteDecimals,
		LpDecimals:    pool.LpDecimals,
		BaseReserve:   big.NewInt(base),
		QuoteReserve:  big.NewInt(quote),
		LpSupply:      big.NewInt(base),
	}
}

type stubPoolInfo struct {
	snapshot *ReserveSnapshot
	err      error
}

func (s stubPoolInfo) FetchPoolInfo(context.Context, *PoolKeys) (*ReserveSnapshot, error) {
	return s.snapshot, s.err
}

func keyed(pubkey solana.PublicKey, data []byte) *rpc.KeyedAccount {
	return &rpc.KeyedAccount{
		Pubkey:  pubkey,
		Account: &rpc.Account{Owner: AmmV4ProgramID, Data: rpc.DataBytesOrJSONFromBytes(data)},
	}
}
