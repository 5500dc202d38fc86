package ui

import (
	"math/big"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
)

func testRows(n int) []PoolRow {
	rows := make([]PoolRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, PoolRow{
			Keys: &raydium.PoolKeys{
				ID:        solana.NewWallet().PublicKey(),
				BaseMint:  solana.NewWallet().PublicKey(),
				QuoteMint: solana.NewWallet().PublicKey(),
			},
			Reserves: &raydium.ReserveSnapshot{
				Source:        raydium.SourceLive,
				BaseDecimals:  6,
				QuoteDecimals: 9,
				BaseReserve:   big.NewInt(1_000_000),
				QuoteReserve:  big.NewInt(50_000),
			},
		})
	}
	return rows
}

func update(t *testing.T, m PickerModel, msg tea.Msg) (PickerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(PickerModel)
	require.True(t, ok)
	return model, cmd
}

func TestPicker_SelectSecondPool(t *testing.T) {
	rows := testRows(3)
	m := NewPickerModel(rows)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, rows[1].Keys, m.Selected())
}

func TestPicker_Cancel(t *testing.T) {
	m := NewPickerModel(testRows(2))
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	require.NotNil(t, cmd)
	assert.Nil(t, m.Selected())
}

func TestPicker_EmptyList(t *testing.T) {
	m := NewPickerModel(nil)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Nil(t, m.Selected())
	assert.Contains(t, m.View(), "No pools found")
}

func TestPicker_View(t *testing.T) {
	rows := testRows(1)
	view := NewPickerModel(rows).View()

	assert.Contains(t, view, "pools (1)")
	assert.Contains(t, view, "live")
	assert.Contains(t, view, "0.00005")
	assert.Contains(t, view, shortKey(rows[0].Keys.ID.String()))
}

func TestRenderQuote(t *testing.T) {
	q := &raydium.Quote{
		Side:           raydium.FixedIn,
		Direction:      raydium.BaseIn,
		InputDecimals:  6,
		OutputDecimals: 9,
		AmountIn:       big.NewInt(1000),
		AmountOut:      big.NewInt(49),
		MinAmountOut:   big.NewInt(48),
		Fee:            big.NewInt(2),
		SlippageBps:    100,
		Source:         raydium.SourceApproximated,
	}
	out := RenderQuote(q)

	assert.Contains(t, out, "0.001")
	assert.Contains(t, out, "0.000000048")
	assert.Contains(t, out, "100 bps")
	assert.Contains(t, out, "approximated")
}
