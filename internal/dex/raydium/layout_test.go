package raydium

import (
	"encoding/binary"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAmmInfo(t *testing.T) {
	fixture := newAmmFixture(newKey(), newKey())
	data := fixture.bytes()
	// swapBaseInAmount: u128 с ненулевым старшим словом
	binary.LittleEndian.PutUint64(data[256:], 5)
	binary.LittleEndian.PutUint64(data[264:], 1)

	info, err := DecodeAmmInfo(data)
	require.NoError(t, err)

	assert.Equal(t, uint64(6), info.Status)
	assert.Equal(t, fixture.BaseDecimals, info.BaseDecimal)
	assert.Equal(t, fixture.QuoteDecimals, info.QuoteDecimal)
	assert.Equal(t, uint64(25), info.SwapFeeNumerator)
	assert.Equal(t, uint64(10000), info.SwapFeeDenominator)
	assert.Equal(t, uint64(1_700_000_000), info.PoolOpenTime)
	assert.Equal(t, fixture.BaseVault, info.BaseVault)
	assert.Equal(t, fixture.QuoteVault, info.QuoteVault)
	assert.Equal(t, fixture.BaseMint, info.BaseMint)
	assert.Equal(t, fixture.QuoteMint, info.QuoteMint)
	assert.Equal(t, fixture.LpMint, info.LpMint)
	assert.Equal(t, fixture.OpenOrders, info.OpenOrders)
	assert.Equal(t, fixture.MarketID, info.MarketID)
	assert.Equal(t, fixture.MarketProgramID, info.MarketProgramID)
	assert.Equal(t, fixture.TargetOrders, info.TargetOrders)
	assert.Equal(t, fixture.LpReserve, info.LpReserve)

	want := new(big.Int).Lsh(big.NewInt(1), 64)
	want.Add(want, big.NewInt(5))
	assert.Equal(t, 0, want.Cmp(info.SwapBaseInAmount))
}

func TestDecodeAmmInfo_InvalidSize(t *testing.T) {
	for _, size := range []int{0, 100, AmmInfoSize - 1, AmmInfoSize + 1} {
		info, err := DecodeAmmInfo(make([]byte, size))
		assert.Nil(t, info)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrDecode))

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, AmmInfoSize, decodeErr.Want)
		assert.Equal(t, size, decodeErr.Got)
	}
}

func TestDecodeMarketState(t *testing.T) {
	fixture := newMarketFixture()

	market, err := DecodeMarketState(fixture.bytes())
	require.NoError(t, err)

	assert.Equal(t, uint64(3), market.AccountFlags)
	assert.Equal(t, fixture.BaseVault, market.BaseVault)
	assert.Equal(t, fixture.QuoteVault, market.QuoteVault)
	assert.Equal(t, fixture.EventQueue, market.EventQueue)
	assert.Equal(t, fixture.Bids, market.Bids)
	assert.Equal(t, fixture.Asks, market.Asks)
	assert.Equal(t, uint64(22), market.FeeRateBps)
}

func TestDecodeMarketState_Undersized(t *testing.T) {
	market, err := DecodeMarketState(make([]byte, MarketStateSize-1))
	assert.Nil(t, market)
	assert.ErrorIs(t, err, ErrDecode)
}
