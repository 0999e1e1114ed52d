package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/dexview/internal/catalog"
	"github.com/abelbrown/dexview/internal/pokeapi"
)

// statOrder fixes the display order of the expected stat names.
// Unknown stats render after these, alphabetically.
var statOrder = []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}

// renderDetail renders the full-record view shown on enter.
func (a App) renderDetail(r catalog.Record, info pokeapi.SpeciesInfo, loading bool) string {
	var b strings.Builder

	title := fmt.Sprintf("#%s %s", r.PaddedNumber, r.DisplayName)
	b.WriteString(DetailTitle.Render(title))
	if a.engine.IsFavorite(r.ID) {
		b.WriteString(" " + FavoriteMark.Render("♥"))
	}
	if info.Genus != "" {
		b.WriteString("  " + DetailLabel.Render(info.Genus))
	}
	b.WriteString("\n\n")

	badges := make([]string, len(r.Categories))
	for i, c := range r.Categories {
		badges[i] = categoryStyle(c).Render(c)
	}
	b.WriteString(strings.Join(badges, ""))
	b.WriteString("\n\n")

	switch {
	case loading:
		b.WriteString(DetailLabel.Render(a.spin.View() + " fetching description..."))
	case info.Description != "":
		b.WriteString(lipgloss.NewStyle().Width(48).Render(info.Description))
	default:
		b.WriteString(DetailLabel.Render("No description available."))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("%s %.1f m    %s %.1f kg\n\n",
		DetailLabel.Render("height"), r.HeightMeters,
		DetailLabel.Render("weight"), r.WeightKilograms))

	for _, line := range renderStats(r.Stats) {
		b.WriteString(line + "\n")
	}

	if len(r.Abilities) > 0 {
		b.WriteString("\n" + DetailLabel.Render("abilities") + " " + strings.Join(r.Abilities, ", ") + "\n")
	}
	if len(r.Moves) > 0 {
		b.WriteString(DetailLabel.Render("moves") + "     " + strings.Join(r.Moves, ", ") + "\n")
	}

	b.WriteString("\n" + StatusBarText.Render("f toggle favorite · esc close"))

	box := DetailBox.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

// renderStats renders one bar line per stat in fixed order.
func renderStats(stats map[string]int) []string {
	names := make([]string, 0, len(stats))
	known := make(map[string]bool, len(statOrder))
	for _, n := range statOrder {
		if _, ok := stats[n]; ok {
			names = append(names, n)
			known[n] = true
		}
	}
	var extra []string
	for n := range stats {
		if !known[n] {
			extra = append(extra, n)
		}
	}
	sort.Strings(extra)
	names = append(names, extra...)

	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = fmt.Sprintf("%s %3d %s",
			DetailLabel.Render(fmt.Sprintf("%-15s", n)),
			stats[n],
			statBar(stats[n]))
	}
	return lines
}

// statBar renders a proportional bar for a 0..255 stat value.
func statBar(value int) string {
	const maxStat = 255
	const barWidth = 20

	if value < 0 {
		value = 0
	}
	if value > maxStat {
		value = maxStat
	}
	filled := value * barWidth / maxStat
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
