// internal/dex/raydium/layout.go
package raydium

import (
	"encoding/binary"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

// AmmInfo: декодированная запись пула AMM V4 (752 байта, little-endian).
type AmmInfo struct {
	Status             uint64
	Nonce              uint64
	MaxOrder           uint64
	Depth              uint64
	BaseDecimal        uint64
	QuoteDecimal       uint64
	State              uint64
	ResetFlag          uint64
	MinSize            uint64
	VolMaxCutRatio     uint64
	AmountWaveRatio    uint64
	BaseLotSize        uint64
	QuoteLotSize       uint64
	MinPriceMultiplier uint64
	MaxPriceMultiplier uint64
	SystemDecimalValue uint64

	// Fees
	MinSeparateNumerator   uint64
	MinSeparateDenominator uint64
	TradeFeeNumerator      uint64
	TradeFeeDenominator    uint64
	PnlNumerator           uint64
	PnlDenominator         uint64
	SwapFeeNumerator       uint64
	SwapFeeDenominator     uint64

	BaseNeedTakePnl     uint64
	QuoteNeedTakePnl    uint64
	QuoteTotalPnl       uint64
	BaseTotalPnl        uint64
	PoolOpenTime        uint64
	PunishPcAmount      uint64
	PunishCoinAmount    uint64
	OrderbookToInitTime uint64

	// u128 counters
	SwapBaseInAmount   *big.Int
	SwapQuoteOutAmount *big.Int
	SwapBase2QuoteFee  uint64
	SwapQuoteInAmount  *big.Int
	SwapBaseOutAmount  *big.Int
	SwapQuote2BaseFee  uint64

	BaseVault       solana.PublicKey
	QuoteVault      solana.PublicKey
	BaseMint        solana.PublicKey
	QuoteMint       solana.PublicKey
	LpMint          solana.PublicKey
	OpenOrders      solana.PublicKey
	MarketID        solana.PublicKey
	MarketProgramID solana.PublicKey
	TargetOrders    solana.PublicKey
	WithdrawQueue   solana.PublicKey
	LpVault         solana.PublicKey
	Owner           solana.PublicKey

	LpReserve uint64
}

// MarketState: заголовок рынка OpenBook/Serum (MARKET_STATE_LAYOUT_V3, 388 байт).
// Книга ордеров (bids/asks/event queue) здесь только адресуется, не декодируется.
type MarketState struct {
	AccountFlags           uint64
	OwnAddress             solana.PublicKey
	VaultSignerNonce       uint64
	BaseMint               solana.PublicKey
	QuoteMint              solana.PublicKey
	BaseVault              solana.PublicKey
	BaseDepositsTotal      uint64
	BaseFeesAccrued        uint64
	QuoteVault             solana.PublicKey
	QuoteDepositsTotal     uint64
	QuoteFeesAccrued       uint64
	QuoteDustThreshold     uint64
	RequestQueue           solana.PublicKey
	EventQueue             solana.PublicKey
	Bids                   solana.PublicKey
	Asks                   solana.PublicKey
	BaseLotSize            uint64
	QuoteLotSize           uint64
	FeeRateBps             uint64
	ReferrerRebatesAccrued uint64
}

// layoutReader читает поля последовательно, сдвигая offset.
type layoutReader struct {
	data   []byte
	offset int
}

func (r *layoutReader) skip(n int) {
	r.offset += n
}

func (r *layoutReader) u64() uint64 {
	v := binary.LittleEndian.Uint64(r.data[r.offset : r.offset+8])
	r.offset += 8
	return v
}

func (r *layoutReader) u128() *big.Int {
	lo := binary.LittleEndian.Uint64(r.data[r.offset : r.offset+8])
	hi := binary.LittleEndian.Uint64(r.data[r.offset+8 : r.offset+16])
	r.offset += 16
	v := new(big.Int).SetUint64(hi)
	v.Lsh(v, 64)
	return v.Or(v, new(big.Int).SetUint64(lo))
}

func (r *layoutReader) pubkey() solana.PublicKey {
	var pk solana.PublicKey
	copy(pk[:], r.data[r.offset:r.offset+32])
	r.offset += 32
	return pk
}

// DecodeAmmInfo декодирует аккаунт пула AMM V4. Буфер должен быть ровно AmmInfoSize байт.
func DecodeAmmInfo(data []byte) (*AmmInfo, error) {
	if len(data) != AmmInfoSize {
		return nil, &DecodeError{Layout: "amm v4", Want: AmmInfoSize, Got: len(data)}
	}

	r := &layoutReader{data: data}
	info := &AmmInfo{}

	info.Status = r.u64()
	info.Nonce = r.u64()
	info.MaxOrder = r.u64()
	info.Depth = r.u64()
	info.BaseDecimal = r.u64()
	info.QuoteDecimal = r.u64()
	info.State = r.u64()
	info.ResetFlag = r.u64()
	info.MinSize = r.u64()
	info.VolMaxCutRatio = r.u64()
	info.AmountWaveRatio = r.u64()
	info.BaseLotSize = r.u64()
	info.QuoteLotSize = r.u64()
	info.MinPriceMultiplier = r.u64()
	info.MaxPriceMultiplier = r.u64()
	info.SystemDecimalValue = r.u64()

	info.MinSeparateNumerator = r.u64()
	info.MinSeparateDenominator = r.u64()
	info.TradeFeeNumerator = r.u64()
	info.TradeFeeDenominator = r.u64()
	info.PnlNumerator = r.u64()
	info.PnlDenominator = r.u64()
	info.SwapFeeNumerator = r.u64()
	info.SwapFeeDenominator = r.u64()

	info.BaseNeedTakePnl = r.u64()
	info.QuoteNeedTakePnl = r.u64()
	info.QuoteTotalPnl = r.u64()
	info.BaseTotalPnl = r.u64()
	info.PoolOpenTime = r.u64()
	info.PunishPcAmount = r.u64()
	info.PunishCoinAmount = r.u64()
	info.OrderbookToInitTime = r.u64()

	info.SwapBaseInAmount = r.u128()
	info.SwapQuoteOutAmount = r.u128()
	info.SwapBase2QuoteFee = r.u64()
	info.SwapQuoteInAmount = r.u128()
	info.SwapBaseOutAmount = r.u128()
	info.SwapQuote2BaseFee = r.u64()

	info.BaseVault = r.pubkey()
	info.QuoteVault = r.pubkey()
	info.BaseMint = r.pubkey()
	info.QuoteMint = r.pubkey()
	info.LpMint = r.pubkey()
	info.OpenOrders = r.pubkey()
	info.MarketID = r.pubkey()
	info.MarketProgramID = r.pubkey()
	info.TargetOrders = r.pubkey()
	info.WithdrawQueue = r.pubkey()
	info.LpVault = r.pubkey()
	info.Owner = r.pubkey()

	info.LpReserve = r.u64()
	// padding: u64[3]

	return info, nil
}

// DecodeMarketState декодирует аккаунт рынка V3.
func DecodeMarketState(data []byte) (*MarketState, error) {
	if len(data) < MarketStateSize {
		return nil, &DecodeError{Layout: "market v3", Want: MarketStateSize, Got: len(data)}
	}

	r := &layoutReader{data: data}
	m := &MarketState{}

	r.skip(5) // "serum" padding
	m.AccountFlags = r.u64()
	m.OwnAddress = r.pubkey()
	m.VaultSignerNonce = r.u64()
	m.BaseMint = r.pubkey()
	m.QuoteMint = r.pubkey()
	m.BaseVault = r.pubkey()
	m.BaseDepositsTotal = r.u64()
	m.BaseFeesAccrued = r.u64()
	m.QuoteVault = r.pubkey()
	m.QuoteDepositsTotal = r.u64()
	m.QuoteFeesAccrued = r.u64()
	m.QuoteDustThreshold = r.u64()
	m.RequestQueue = r.pubkey()
	m.EventQueue = r.pubkey()
	m.Bids = r.pubkey()
	m.Asks = r.pubkey()
	m.BaseLotSize = r.u64()
	m.QuoteLotSize = r.u64()
	m.FeeRateBps = r.u64()
	m.ReferrerRebatesAccrued = r.u64()

	return m, nil
}
