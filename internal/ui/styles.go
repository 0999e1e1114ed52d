package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("160") // Pokédex red
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("220") // Yellow
	colorFavorite  = lipgloss.Color("213") // Pink
)

// categoryColors give each type tag a recognizable badge color.
var categoryColors = map[string]lipgloss.Color{
	"normal":   lipgloss.Color("250"),
	"fire":     lipgloss.Color("202"),
	"water":    lipgloss.Color("33"),
	"electric": lipgloss.Color("220"),
	"grass":    lipgloss.Color("76"),
	"ice":      lipgloss.Color("51"),
	"fighting": lipgloss.Color("124"),
	"poison":   lipgloss.Color("129"),
	"ground":   lipgloss.Color("179"),
	"flying":   lipgloss.Color("147"),
	"psychic":  lipgloss.Color("205"),
	"bug":      lipgloss.Color("106"),
	"rock":     lipgloss.Color("137"),
	"ghost":    lipgloss.Color("97"),
	"dragon":   lipgloss.Color("57"),
}

// SelectedItem style for the currently highlighted row.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// FavoriteMark style for the favorite indicator.
var FavoriteMark = lipgloss.NewStyle().
	Foreground(colorFavorite).
	Bold(true)

// NumberStyle for the padded dex number.
var NumberStyle = lipgloss.NewStyle().
	Foreground(colorSecondary)

// CategoryBadge base style for type badges.
var CategoryBadge = lipgloss.NewStyle().
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in the status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in the status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// NoticeStyle for the transient notification line.
var NoticeStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// EmptyStyle for the empty-result message.
var EmptyStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// FilterBar style for the search input bar.
var FilterBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("240")).
	Padding(0, 1)

// DetailBox style for the detail view frame.
var DetailBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DetailTitle style for the detail view heading.
var DetailTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// DetailLabel style for stat labels in the detail view.
var DetailLabel = lipgloss.NewStyle().
	Foreground(colorSecondary)

// categoryStyle returns the badge style for one category tag.
func categoryStyle(cat string) lipgloss.Style {
	color, ok := categoryColors[cat]
	if !ok {
		color = lipgloss.Color("250")
	}
	return CategoryBadge.Foreground(color)
}
