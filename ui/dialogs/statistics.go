// Package dialogs provides secondary application dialogs.
package dialogs

import (
	"fmt"
	"sort"
	"strings"

	"pontoon-planner/internal/app"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// ShowStatistics opens a dialog summarizing the current platform.
func ShowStatistics(state *app.State, parent fyne.Window) {
	stats := state.Statistics()

	var b strings.Builder
	fmt.Fprintf(&b, "Pontoons: %d\n", stats.Pontoons)
	fmt.Fprintf(&b, "Cells occupied: %d\n\n", stats.Cells)

	b.WriteString("By type:\n")
	for _, k := range sortedStrings(stats.ByType) {
		fmt.Fprintf(&b, "  %s: %d\n", k, stats.ByType[k])
	}

	b.WriteString("\nBy color:\n")
	for _, k := range sortedStrings(stats.ByColor) {
		fmt.Fprintf(&b, "  %s: %d\n", k, stats.ByColor[k])
	}

	b.WriteString("\nBy level:\n")
	levels := make([]int, 0, len(stats.ByLevel))
	for lvl := range stats.ByLevel {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)
	for _, lvl := range levels {
		fmt.Fprintf(&b, "  level %d: %d\n", lvl, stats.ByLevel[lvl])
	}

	if stats.Connected {
		b.WriteString("\nStructure is contiguous")
	} else {
		b.WriteString("\nStructure has disconnected islands")
	}

	label := widget.NewLabel(b.String())
	label.TextStyle = fyne.TextStyle{Monospace: true}
	dialog.ShowCustom("Platform Statistics", "Close", label, parent)
}

func sortedStrings(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
