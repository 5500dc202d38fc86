// internal/ui/style/palette.go
package style

import "github.com/charmbracelet/lipgloss"

// Palette: цвета таблицы пулов и карточки котировки.
type Palette struct {
	Primary       lipgloss.Color // рамки, заголовки, выбранная строка
	Secondary     lipgloss.Color // заголовки колонок
	Success       lipgloss.Color // гарантированная граница свапа
	Warning       lipgloss.Color // высокий price impact
	Background    lipgloss.Color
	Text          lipgloss.Color
	TextMuted     lipgloss.Color
	TextSecondary lipgloss.Color
}

func DefaultPalette() Palette {
	return Palette{
		Primary:       lipgloss.Color("#00E5FF"),
		Secondary:     lipgloss.Color("#FF1B6B"),
		Success:       lipgloss.Color("#2AFFAA"),
		Warning:       lipgloss.Color("#FFB500"),
		Background:    lipgloss.Color("#1B1D23"),
		Text:          lipgloss.Color("#ECEFF4"),
		TextMuted:     lipgloss.Color("#6C7280"),
		TextSecondary: lipgloss.Color("#B4BCC8"),
	}
}

// QuoteStyles стили карточки котировки.
type QuoteStyles struct {
	Container lipgloss.Style
	Title     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Bound     lipgloss.Style
	Warning   lipgloss.Style
	Muted     lipgloss.Style
}

func NewQuoteStyles(palette Palette) QuoteStyles {
	return QuoteStyles{
		Container: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.Primary).
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true),

		Label: lipgloss.NewStyle().
			Foreground(palette.TextSecondary).
			Width(16),

		Value: lipgloss.NewStyle().
			Foreground(palette.Text),

		Bound: lipgloss.NewStyle().
			Foreground(palette.Success).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(palette.Warning).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(palette.TextMuted),
	}
}
