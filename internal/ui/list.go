package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/dexview/internal/catalog"
)

// RenderList renders the visible records as rows, keeping the cursor
// inside the viewport. isFavorite marks rows; nil marks nothing.
// compact omits the type badges so more fits a short terminal.
func RenderList(records []catalog.Record, cursor int, isFavorite func(int) bool, width, height int, compact bool) string {
	if height < 1 {
		height = 1
	}

	// Scroll so the cursor stays visible.
	offset := 0
	if cursor >= height {
		offset = cursor - height + 1
	}

	var b strings.Builder
	for i := offset; i < len(records) && i-offset < height; i++ {
		r := records[i]

		mark := "  "
		if isFavorite != nil && isFavorite(r.ID) {
			mark = FavoriteMark.Render("♥") + " "
		}

		row := fmt.Sprintf("%s %s %-14s",
			NumberStyle.Render("#"+r.PaddedNumber),
			mark,
			r.DisplayName)
		if !compact {
			badges := make([]string, len(r.Categories))
			for j, c := range r.Categories {
				badges[j] = categoryStyle(c).Render(c)
			}
			row += " " + strings.Join(badges, "")
		}

		style := NormalItem
		if i == cursor {
			style = SelectedItem
		}
		b.WriteString(style.MaxWidth(width).Render(row))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
