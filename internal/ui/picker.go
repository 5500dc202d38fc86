// internal/ui/picker.go
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/raydium-swap/internal/dex/raydium"
	"github.com/rovshanmuradov/raydium-swap/internal/ui/style"
)

// ErrCancelled возвращается, если пользователь закрыл выбор без выбора пула.
var ErrCancelled = errors.New("pool selection cancelled")

// PoolRow: пул и, если удалось получить, его резервы.
type PoolRow struct {
	Keys     *raydium.PoolKeys
	Reserves *raydium.ReserveSnapshot
}

// PickerModel: bubbletea-модель таблицы найденных пулов.
type PickerModel struct {
	rows      []PoolRow
	table     table.Model
	help      help.Model
	keys      KeyMap
	title     lipgloss.Style
	selected  int
	cancelled bool
}

func NewPickerModel(rows []PoolRow) PickerModel {
	palette := style.DefaultPalette()

	columns := []table.Column{
		{Title: "#", Width: 3},
		{Title: "Pool", Width: 12},
		{Title: "Base", Width: 12},
		{Title: "Quote", Width: 12},
		{Title: "Base reserve", Width: 20},
		{Title: "Quote reserve", Width: 20},
		{Title: "Source", Width: 12},
	}

	tableRows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		tableRows = append(tableRows, poolRow(i, r))
	}

	height := len(rows) + 1
	if height > 15 {
		height = 15
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(palette.TextMuted).
		BorderBottom(true).
		Foreground(palette.Secondary).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(palette.Background).
		Background(palette.Primary)
	t.SetStyles(styles)

	return PickerModel{
		rows:     rows,
		table:    t,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		title:    lipgloss.NewStyle().Foreground(palette.Primary).Bold(true).MarginBottom(1),
		selected: -1,
	}
}

func poolRow(i int, r PoolRow) table.Row {
	row := table.Row{
		fmt.Sprintf("%d", i+1),
		shortKey(r.Keys.ID.String()),
		shortKey(r.Keys.BaseMint.String()),
		shortKey(r.Keys.QuoteMint.String()),
		"-", "-", "-",
	}
	if r.Reserves != nil {
		row[4] = raydium.TokenAmountToDecimal(r.Reserves.BaseReserve, r.Reserves.BaseDecimals).String()
		row[5] = raydium.TokenAmountToDecimal(r.Reserves.QuoteReserve, r.Reserves.QuoteDecimals).String()
		row[6] = r.Reserves.Source.String()
	}
	return row
}

func shortKey(s string) string {
	if len(s) <= 11 {
		return s
	}
	return s[:4] + "…" + s[len(s)-4:]
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancelled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Select):
			if len(m.rows) > 0 {
				m.selected = m.table.Cursor()
				return m, tea.Quit
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m PickerModel) View() string {
	var b strings.Builder
	b.WriteString(m.title.Render(fmt.Sprintf("Raydium AMM V4 pools (%d)", len(m.rows))))
	b.WriteString("\n")
	if len(m.rows) == 0 {
		b.WriteString("No pools found for this pair.\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Selected возвращает выбранный пул или nil.
func (m PickerModel) Selected() *raydium.PoolKeys {
	if m.cancelled || m.selected < 0 || m.selected >= len(m.rows) {
		return nil
	}
	return m.rows[m.selected].Keys
}

// PickPool запускает интерактивный выбор пула в терминале.
func PickPool(rows []PoolRow, opts ...tea.ProgramOption) (*raydium.PoolKeys, error) {
	final, err := tea.NewProgram(NewPickerModel(rows), opts...).Run()
	if err != nil {
		return nil, fmt.Errorf("pool picker failed: %w", err)
	}
	pool := final.(PickerModel).Selected()
	if pool == nil {
		return nil, ErrCancelled
	}
	return pool, nil
}
